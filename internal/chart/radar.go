// Package chart draws the five scores as a radar (polar) chart in SVG.
package chart

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/okian/realm/internal/domain/model"
)

const (
	defaultSize = 360
	gridSteps   = 5
	labelGap    = 18
)

var (
	colorBackdrop = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	colorGrid     = color.RGBA{R: 0xd0, G: 0xd5, B: 0xdd, A: 0xff}
	colorAxis     = color.RGBA{R: 0x9a, G: 0xa3, B: 0xaf, A: 0xff}
	colorFill     = color.RGBA{R: 0x88, G: 0x84, B: 0xd8, A: 0xff}
	colorStroke   = color.RGBA{R: 0x5b, G: 0x55, B: 0xb8, A: 0xff}
	colorText     = color.RGBA{R: 0x1f, G: 0x29, B: 0x37, A: 0xff}
)

// Options control the rendered chart.
type Options struct {
	Size       int
	Title      string
	FullLabels bool
}

// Option applies a configuration option to Options.
type Option func(*Options)

// WithSize sets the width and height in pixels.
func WithSize(px int) Option {
	return func(o *Options) {
		if px >= 100 {
			o.Size = px
		}
	}
}

// WithTitle draws t above the chart.
func WithTitle(t string) Option {
	return func(o *Options) { o.Title = t }
}

// WithFullLabels labels axes with dimension names instead of letters.
func WithFullLabels() Option {
	return func(o *Options) { o.FullLabels = true }
}

// Point is a vertex in canvas pixels.
type Point struct{ X, Y int }

// Layout is the computed geometry of one chart.
type Layout struct {
	Size   int
	Center Point
	Radius float64
	Axes   []Point   // outer end of each axis, in dimension order
	Rings  [][]Point // grid polygons from innermost to outermost
	Shape  []Point   // the score polygon
	Points []model.ChartPoint
}

// Compute lays out the chart for scores without drawing it.
func Compute(scores model.ScoreSet, opts ...Option) Layout {
	o := options(opts)
	c := Point{X: o.Size / 2, Y: o.Size / 2}
	radius := float64(o.Size)/2 - 3*labelGap

	l := Layout{Size: o.Size, Center: c, Radius: radius, Points: scores.Chart()}
	for _, p := range l.Points {
		l.Axes = append(l.Axes, vertex(c, radius, len(l.Points), len(l.Axes), model.MaxScore))
		l.Shape = append(l.Shape, vertex(c, radius, len(l.Points), len(l.Shape), clamp(p.Score)))
	}
	for step := 1; step <= gridSteps; step++ {
		v := model.MaxScore * step / gridSteps
		ring := make([]Point, len(l.Points))
		for i := range ring {
			ring[i] = vertex(c, radius, len(l.Points), i, v)
		}
		l.Rings = append(l.Rings, ring)
	}
	return l
}

// Render writes the chart for scores as a standalone SVG document.
func Render(w io.Writer, scores model.ScoreSet, opts ...Option) error {
	o := options(opts)
	l := Compute(scores, opts...)

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(l.Size, l.Size)
	canvas.Title("Brand health radar")
	canvas.Rect(0, 0, l.Size, l.Size, fmt.Sprintf("fill:%s", css(colorBackdrop)))

	for _, ring := range l.Rings {
		xs, ys := split(ring)
		canvas.Polygon(xs, ys, fmt.Sprintf("fill:none;stroke:%s;stroke-width:1", css(colorGrid)))
	}
	for _, a := range l.Axes {
		canvas.Line(l.Center.X, l.Center.Y, a.X, a.Y, fmt.Sprintf("stroke:%s;stroke-width:1", css(colorAxis)))
	}

	xs, ys := split(l.Shape)
	canvas.Polygon(xs, ys, fmt.Sprintf("fill:%s;fill-opacity:0.6;stroke:%s;stroke-width:2", css(colorFill), css(colorStroke)))
	for _, p := range l.Shape {
		canvas.Circle(p.X, p.Y, 3, fmt.Sprintf("fill:%s", css(colorStroke)))
	}

	for i, p := range l.Points {
		label := string(p.Dimension)
		if o.FullLabels {
			label = p.Dimension.Name()
		}
		at := vertex(l.Center, l.Radius+labelGap, len(l.Points), i, model.MaxScore)
		canvas.Text(at.X, at.Y+4, fmt.Sprintf("%s %d", label, p.Score),
			fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace;text-anchor:middle", css(colorText)))
	}
	if o.Title != "" {
		canvas.Text(l.Size/2, labelGap, o.Title,
			fmt.Sprintf("fill:%s;font-size:14px;font-family:monospace;font-weight:bold;text-anchor:middle", css(colorText)))
	}
	canvas.End()

	_, err := w.Write(buf.Bytes())
	return err
}

func options(opts []Option) Options {
	o := Options{Size: defaultSize}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// vertex places axis i of n at value v, starting at twelve o'clock and
// going clockwise.
func vertex(c Point, radius float64, n, i, v int) Point {
	angle := -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
	r := radius * float64(v) / model.MaxScore
	return Point{
		X: c.X + int(math.Round(r*math.Cos(angle))),
		Y: c.Y + int(math.Round(r*math.Sin(angle))),
	}
}

func clamp(v int) int {
	return min(max(v, model.MinScore), model.MaxScore)
}

func split(pts []Point) ([]int, []int) {
	xs := make([]int, len(pts))
	ys := make([]int, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = p.X, p.Y
	}
	return xs, ys
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
