package chart

import "math"

// Group is one x-axis position with an income and an expense value.
type Group struct {
	Label   string
	Income  float64
	Expense float64
}

type Rect struct {
	X, Y, W, H float64
	Value      float64
	Color      string
}

type BarGroup struct {
	Label string
	// Center is the x position of the group's axis label.
	Center float64
	Bars   []Rect
}

// Tick is a y-axis gridline.
type Tick struct {
	Y     float64
	Value float64
}

// BarChart is a grouped bar layout inside a width x height plot area whose
// origin is its top-left corner.
type BarChart struct {
	Width, Height float64
	Max           float64
	Groups        []BarGroup
	Ticks         []Tick
}

const tickCount = 4

// Bars lays out income/expense pairs scaled to the largest value rounded up
// to a readable step. With no positive value every bar has zero height and
// the axis shows a single zero tick.
func Bars(groups []Group, width, height float64) BarChart {
	out := BarChart{Width: width, Height: height}
	if len(groups) == 0 {
		return out
	}

	peak := 0.0
	for _, g := range groups {
		peak = math.Max(peak, math.Max(g.Income, g.Expense))
	}
	out.Max = niceCeil(peak)

	slot := width / float64(len(groups))
	barW := slot * 0.35
	gap := slot * 0.05

	for i, g := range groups {
		center := slot*float64(i) + slot/2
		bg := BarGroup{Label: g.Label, Center: center}
		for j, v := range []float64{g.Income, g.Expense} {
			h := 0.0
			if out.Max > 0 && v > 0 {
				h = v / out.Max * height
			}
			x := center - gap/2 - barW
			color := IncomeColor
			if j == 1 {
				x = center + gap/2
				color = ExpenseColor
			}
			bg.Bars = append(bg.Bars, Rect{X: x, Y: height - h, W: barW, H: h, Value: v, Color: color})
		}
		out.Groups = append(out.Groups, bg)
	}

	if out.Max == 0 {
		out.Ticks = []Tick{{Y: height, Value: 0}}
		return out
	}
	for i := 0; i <= tickCount; i++ {
		v := out.Max * float64(i) / tickCount
		out.Ticks = append(out.Ticks, Tick{Y: height - v/out.Max*height, Value: v})
	}
	return out
}

// niceCeil rounds v up to 1, 2, 2.5 or 5 times a power of ten.
func niceCeil(v float64) float64 {
	if v <= 0 {
		return 0
	}
	exp := math.Pow(10, math.Floor(math.Log10(v)))
	for _, m := range []float64{1, 2, 2.5, 5, 10} {
		if v <= m*exp {
			return m * exp
		}
	}
	return 10 * exp
}
