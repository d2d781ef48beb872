package collision

import "fmt"

// ConfigError reports an invalid configuration field. The call aborts before
// any detection work; no partial results are returned.
type ConfigError struct {
	Field string
	Value float64
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("collision: invalid config: %s = %v (must be > 0)", e.Field, e.Value)
}

// InputError reports a malformed AABB. The whole batch is rejected rather
// than silently skipping the object, so callers notice bad scene data early.
type InputError struct {
	Index int
	Field string
	Value float64
}

func (e *InputError) Error() string {
	return fmt.Sprintf("collision: invalid AABB at index %d: %s = %v (must be >= 0)", e.Index, e.Field, e.Value)
}
