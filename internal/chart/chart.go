// Package chart computes pie and bar chart geometry.
//
// Coordinates are in the caller's units with y growing downwards, which is
// what both SVG and PDF pages use. Nothing here draws; renderers turn the
// shapes into SVG markup or PDF polygons.
package chart

import (
	"fmt"
	"math"
	"strings"
)

// Palette is cycled by index for pie slices and legends.
var Palette = []string{"#0088FE", "#00C49F", "#FFBB28", "#FF8042", "#8884D8", "#82CA9D"}

// Bar colors of the monthly trend.
const (
	IncomeColor  = "#4CAF50"
	ExpenseColor = "#FF8042"
)

// Color returns the palette color for index i.
func Color(i int) string {
	if i < 0 {
		i = -i
	}
	return Palette[i%len(Palette)]
}

// RGB parses a "#RRGGBB" color. Malformed input yields black.
func RGB(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0
	}
	if _, err := fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return 0, 0, 0
	}
	return r, g, b
}

type Point struct {
	X, Y float64
}

// Datum is one labelled value.
type Datum struct {
	Label string
	Value float64
}

// Slice is one wedge of a pie.
type Slice struct {
	Label   string
	Value   float64
	Percent float64 // 0-100
	Color   string
	// Start and End are angles in radians, measured clockwise from 12 o'clock.
	Start, End float64
	// Full is set when the slice is the whole pie.
	Full bool
	// Path is an SVG path for the wedge.
	Path string
	// Points outline the wedge as a polygon, for renderers without arcs.
	Points []Point
	// LabelAt is the mid-angle point at 60% of the radius, where the
	// percentage label sits.
	LabelAt Point
}

// maxStep bounds the angle between polygon vertices.
const maxStep = math.Pi / 60

// Pie lays out data as wedges of a circle centred on (cx, cy). Values that
// are not positive get no wedge but still consume their palette color, so
// colors stay tied to the input order. A zero total yields no slices.
func Pie(data []Datum, cx, cy, r float64) []Slice {
	total := 0.0
	for _, d := range data {
		if d.Value > 0 {
			total += d.Value
		}
	}
	if total <= 0 {
		return nil
	}

	slices := make([]Slice, 0, len(data))
	angle := 0.0
	for i, d := range data {
		if d.Value <= 0 {
			continue
		}
		sweep := d.Value / total * 2 * math.Pi
		s := Slice{
			Label:   d.Label,
			Value:   d.Value,
			Percent: d.Value / total * 100,
			Color:   Color(i),
			Start:   angle,
			End:     angle + sweep,
			Full:    d.Value == total,
		}
		s.Path = wedgePath(cx, cy, r, s.Start, s.End, s.Full)
		s.Points = wedgePoints(cx, cy, r, s.Start, s.End, s.Full)
		s.LabelAt = polar(cx, cy, r*0.6, (s.Start+s.End)/2)
		slices = append(slices, s)
		angle += sweep
	}
	return slices
}

// polar converts an angle measured clockwise from 12 o'clock.
func polar(cx, cy, r, angle float64) Point {
	a := angle - math.Pi/2
	return Point{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)}
}

func wedgePath(cx, cy, r, start, end float64, full bool) string {
	if full {
		return fmt.Sprintf("M %s %s A %s %s 0 1 1 %s %s A %s %s 0 1 1 %s %s Z",
			num(cx-r), num(cy), num(r), num(r), num(cx+r), num(cy), num(r), num(r), num(cx-r), num(cy))
	}
	p1 := polar(cx, cy, r, start)
	p2 := polar(cx, cy, r, end)
	large := 0
	if end-start > math.Pi {
		large = 1
	}
	return fmt.Sprintf("M %s %s L %s %s A %s %s 0 %d 1 %s %s Z",
		num(cx), num(cy), num(p1.X), num(p1.Y), num(r), num(r), large, num(p2.X), num(p2.Y))
}

func wedgePoints(cx, cy, r, start, end float64, full bool) []Point {
	steps := int(math.Ceil((end - start) / maxStep))
	if steps < 1 {
		steps = 1
	}
	pts := make([]Point, 0, steps+2)
	if !full {
		pts = append(pts, Point{X: cx, Y: cy})
	}
	for i := 0; i <= steps; i++ {
		if full && i == steps {
			break
		}
		pts = append(pts, polar(cx, cy, r, start+(end-start)*float64(i)/float64(steps)))
	}
	return pts
}

// num formats a coordinate compactly for SVG.
func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}
