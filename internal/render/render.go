// Package render draws demo frames and benchmark charts with fogleman/gg.
// Purely presentational; nothing here feeds back into detection.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"collider/internal/scene"
)

// Frame renders one engine frame: the grid, every box, and colliding boxes
// highlighted. width/height are output pixels; the scene is drawn 1:1.
func Frame(f *scene.Frame, width, height int, cellSize float64) image.Image {
	dc := gg.NewContext(width, height)

	// Background
	dc.SetColor(color.RGBA{250, 250, 255, 255})
	dc.Clear()

	// Grid lines at the active cell size
	if cellSize > 0 {
		dc.SetColor(color.RGBA{30, 30, 40, 25})
		dc.SetLineWidth(1)
		for x := 0.0; x <= float64(width); x += cellSize {
			dc.DrawLine(x, 0, x, float64(height))
			dc.Stroke()
		}
		for y := 0.0; y <= float64(height); y += cellSize {
			dc.DrawLine(0, y, float64(width), y)
			dc.Stroke()
		}
	}

	// Mark every index that appears in a collision pair
	colliding := make(map[int]bool, len(f.Pairs)*2)
	for _, p := range f.Pairs {
		colliding[p.A] = true
		colliding[p.B] = true
	}

	for i, box := range f.Objects {
		if colliding[i] {
			dc.SetColor(color.RGBA{220, 60, 60, 90})
			dc.DrawRectangle(box.X, box.Y, box.Width, box.Height)
			dc.Fill()
			dc.SetColor(color.RGBA{180, 30, 30, 255})
		} else {
			dc.SetColor(color.RGBA{60, 60, 80, 200})
		}
		dc.SetLineWidth(1.5)
		dc.DrawRectangle(box.X, box.Y, box.Width, box.Height)
		dc.Stroke()
	}

	// Header line
	dc.SetColor(color.RGBA{20, 20, 30, 255})
	header := fmt.Sprintf("tick %d | %d objects | %d pairs | %s | %v",
		f.Tick, len(f.Objects), len(f.Pairs), f.Stats.Path, f.Elapsed)
	dc.DrawString(header, 8, 16)

	return dc.Image()
}

// ChartPoint is one measurement: object count and median duration.
type ChartPoint struct {
	N      int
	Millis float64
}

// ChartSeries is one plotted line.
type ChartSeries struct {
	Label  string
	Color  color.Color
	Points []ChartPoint
}

// ScalingChart plots detection time against object count, one line per
// strategy, linear axes sized to the data.
func ScalingChart(series []ChartSeries, width, height int) image.Image {
	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()

	const margin = 50.0
	plotW := float64(width) - 2*margin
	plotH := float64(height) - 2*margin

	maxN, maxMs := 1, 0.001
	for _, s := range series {
		for _, p := range s.Points {
			if p.N > maxN {
				maxN = p.N
			}
			if p.Millis > maxMs {
				maxMs = p.Millis
			}
		}
	}

	maxMs = NiceCeil(maxMs)

	toX := func(n int) float64 { return margin + plotW*float64(n)/float64(maxN) }
	toY := func(ms float64) float64 { return margin + plotH*(1-ms/maxMs) }

	// Axes
	dc.SetColor(color.RGBA{40, 40, 40, 255})
	dc.SetLineWidth(1.5)
	dc.DrawLine(margin, margin, margin, margin+plotH)
	dc.DrawLine(margin, margin+plotH, margin+plotW, margin+plotH)
	dc.Stroke()
	dc.DrawString("objects", margin+plotW/2, float64(height)-12)
	dc.DrawString(fmt.Sprintf("%.2f ms", maxMs), 4, margin)
	dc.DrawString("0", margin-12, margin+plotH+4)

	for si, s := range series {
		dc.SetColor(s.Color)
		dc.SetLineWidth(2)
		for i := 1; i < len(s.Points); i++ {
			a, b := s.Points[i-1], s.Points[i]
			dc.DrawLine(toX(a.N), toY(a.Millis), toX(b.N), toY(b.Millis))
			dc.Stroke()
		}
		for _, p := range s.Points {
			dc.DrawCircle(toX(p.N), toY(p.Millis), 3)
			dc.Fill()
			dc.DrawString(fmt.Sprintf("%d", p.N), toX(p.N)-8, margin+plotH+16)
		}
		dc.DrawString(s.Label, margin+8, margin+14+float64(si)*14)
	}

	return dc.Image()
}

// SavePNG writes an image to disk.
func SavePNG(path string, img image.Image) error {
	return gg.SavePNG(path, img)
}

// NiceCeil rounds up to a pleasant axis bound (1/2/5 times a power of ten).
func NiceCeil(v float64) float64 {
	if v <= 0 {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(v)))
	for _, m := range []float64{1, 2, 5, 10} {
		if v <= m*mag {
			return m * mag
		}
	}
	return 10 * mag
}
