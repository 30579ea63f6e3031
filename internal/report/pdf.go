// Package report renders the monthly PDF report.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"finsafe/internal/chart"
	"finsafe/internal/core"
)

// Input is everything a report is built from.
type Input struct {
	Month core.Month
	Rows  []core.Transaction
	// Trend is the year's monthly income/expense; the trend chart is
	// omitted when it is empty.
	Trend       []core.MonthlyPoint
	GeneratedAt time.Time
}

const (
	marginX      = 14.0
	contentWidth = 182.0
	topY         = 20.0
	rowHeight    = 8.0
	bottomMargin = 15.0
	fontFamily   = "Helvetica"

	// The trend chart, with its axis, month labels and legend, fills a
	// trendWidth x trendHeight area below its heading.
	trendWidth     = 180.0
	trendHeight    = 90.0
	trendAxisWidth = 18.0
	trendLabelBand = 16.0
)

var (
	headerFill   = [3]int{41, 128, 185}
	stripeFill   = [3]int{245, 245, 245}
	incomeColor  = [3]int{16, 185, 129}
	expenseColor = [3]int{239, 68, 68}
	textColor    = [3]int{40, 40, 40}
	gridColor    = [3]int{220, 220, 220}
)

var historyColumns = []struct {
	title string
	width float64
	align string
}{
	{"Date", 30, "L"},
	{"Category", 40, "L"},
	{"Note", 80, "L"},
	{"Amount (Rs.)", 32, "R"},
}

// FileName is the download name for a month's report.
func FileName(m core.Month) string {
	return fmt.Sprintf("FinSafe_Report_%s.pdf", m.FileLabel())
}

// Build renders the report as PDF bytes.
func Build(in Input) ([]byte, error) {
	pdf, err := render(in)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type builder struct {
	pdf   *fpdf.Fpdf
	tr    func(string) string
	y     float64
	pageH float64
}

func render(in Input) (*fpdf.Fpdf, error) {
	if !in.Month.Valid() {
		return nil, fmt.Errorf("render report: %w", core.ErrInvalidDate)
	}
	if in.GeneratedAt.IsZero() {
		in.GeneratedAt = time.Now()
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("Financial Report - "+in.Month.Label(), true)
	pdf.SetCreator("FinSafe", true)
	pdf.SetCreationDate(in.GeneratedAt)
	pdf.SetModificationDate(in.GeneratedAt)
	pdf.SetCatalogSort(true)
	pdf.AddPage()

	_, pageH := pdf.GetPageSize()
	b := &builder{
		pdf:   pdf,
		tr:    pdf.UnicodeTranslatorFromDescriptor(""),
		y:     topY,
		pageH: pageH,
	}

	b.title(in.Month)
	summary := Summarize(in.Rows)
	b.summary(summary)
	b.history(in.Rows)
	if shares := ExpenseDistribution(in.Rows); len(shares) > 0 {
		b.distribution(shares)
	}
	if len(in.Trend) > 0 {
		b.trend(in.Trend)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return pdf, nil
}

func (b *builder) ensureSpace(need float64) {
	if b.y > b.pageH-need {
		b.pdf.AddPage()
		b.y = topY
	}
}

func (b *builder) setText(c [3]int) { b.pdf.SetTextColor(c[0], c[1], c[2]) }
func (b *builder) setFill(c [3]int) { b.pdf.SetFillColor(c[0], c[1], c[2]) }
func (b *builder) setFillHex(hex string) {
	r, g, bl := chart.RGB(hex)
	b.pdf.SetFillColor(r, g, bl)
}

func (b *builder) heading(text string) {
	b.pdf.SetFont(fontFamily, "", 16)
	b.setText(textColor)
	b.pdf.Text(marginX, b.y, b.tr(text))
	b.y += 8
}

func (b *builder) title(m core.Month) {
	text := "Financial Report - " + m.Label()
	b.pdf.SetFont(fontFamily, "", 22)
	b.setText(textColor)
	w := b.pdf.GetStringWidth(text)
	b.pdf.Text(105-w/2, b.y, text)
	b.y += 15
}

func (b *builder) summary(s Summary) {
	b.heading("Monthly Summary")

	b.pdf.SetFont(fontFamily, "", 12)
	b.pdf.SetDrawColor(gridColor[0], gridColor[1], gridColor[2])
	b.setText(textColor)
	for _, row := range [][2]string{
		{"Total Income", core.FormatReport(s.Income)},
		{"Total Expense", core.FormatReport(s.Expense)},
		{"Net Balance", core.FormatReport(s.Net)},
	} {
		b.pdf.SetXY(marginX, b.y)
		b.pdf.CellFormat(contentWidth/2, rowHeight, row[0], "1", 0, "L", false, 0, "")
		b.pdf.CellFormat(contentWidth/2, rowHeight, row[1], "1", 0, "L", false, 0, "")
		b.y += rowHeight
	}
	b.y += 15
}

func (b *builder) historyHeader() {
	b.pdf.SetFont(fontFamily, "B", 10)
	b.setFill(headerFill)
	b.pdf.SetTextColor(255, 255, 255)
	b.pdf.SetXY(marginX, b.y)
	for _, col := range historyColumns {
		b.pdf.CellFormat(col.width, rowHeight, col.title, "", 0, col.align, true, 0, "")
	}
	b.y += rowHeight
}

func (b *builder) history(rows []core.Transaction) {
	b.ensureSpace(40)
	b.heading("Transaction History")
	b.historyHeader()

	for i, t := range rows {
		if b.y+rowHeight > b.pageH-bottomMargin {
			b.pdf.AddPage()
			b.y = topY
			b.historyHeader()
		}

		stripe := i%2 == 1
		if stripe {
			b.setFill(stripeFill)
		}
		b.pdf.SetFont(fontFamily, "", 10)
		b.setText(textColor)
		b.pdf.SetXY(marginX, b.y)

		cells := []string{
			t.Date.UTC().Format("1/2/2006"),
			b.fit(t.Category, historyColumns[1].width),
			b.fit(t.NoteOrDash(), historyColumns[2].width),
		}
		for j, text := range cells {
			b.pdf.CellFormat(historyColumns[j].width, rowHeight, text, "", 0, historyColumns[j].align, stripe, 0, "")
		}

		if t.IsIncome() {
			b.setText(incomeColor)
		} else {
			b.setText(expenseColor)
		}
		amount := t.SignedLabel() + " " + core.FormatReport(t.Amount)
		b.pdf.CellFormat(historyColumns[3].width, rowHeight, amount, "", 0, "R", stripe, 0, "")
		b.y += rowHeight
	}
	b.setText(textColor)
	b.y += 15
}

// fit translates s for the core font and truncates it to width.
func (b *builder) fit(s string, width float64) string {
	s = b.tr(s)
	limit := width - 2*b.pdf.GetCellMargin()
	if b.pdf.GetStringWidth(s) <= limit {
		return s
	}
	const ellipsis = "..."
	r := []byte(s)
	for len(r) > 0 && b.pdf.GetStringWidth(string(r)+ellipsis) > limit {
		r = r[:len(r)-1]
	}
	return string(r) + ellipsis
}

func (b *builder) distribution(shares []Share) {
	b.ensureSpace(120)
	b.heading("Expense Distribution")

	const size = 90.0
	data := make([]chart.Datum, len(shares))
	for i, s := range shares {
		data[i] = chart.Datum{Label: s.Category, Value: s.Amount}
	}
	for _, slice := range chart.Pie(data, marginX+size/2, b.y+size/2, size/2) {
		b.setFillHex(slice.Color)
		pts := make([]fpdf.PointType, len(slice.Points))
		for i, p := range slice.Points {
			pts[i] = fpdf.PointType{X: p.X, Y: p.Y}
		}
		b.pdf.Polygon(pts, "F")
	}

	legendX := 115.0
	legendY := b.y + 5
	b.pdf.SetFont(fontFamily, "", 10)
	b.setText(textColor)
	for _, s := range shares {
		b.setFillHex(s.Color)
		b.pdf.Rect(legendX, legendY, 5, 5, "F")
		b.pdf.Text(legendX+8, legendY+4, b.tr(fmt.Sprintf("%s: %.1f%%", s.Category, s.Percent)))
		legendY += 8
	}

	b.y += 100
}

func (b *builder) trend(points []core.MonthlyPoint) {
	b.ensureSpace(100)
	b.heading("Monthly Spending Trend")

	const (
		width  = trendWidth - trendAxisWidth
		height = trendHeight - trendLabelBand
	)
	top := b.y
	x0, y0 := marginX+trendAxisWidth, top

	groups := make([]chart.Group, len(points))
	for i, p := range points {
		groups[i] = chart.Group{Label: p.Name, Income: p.Income, Expense: p.Expense}
	}
	bars := chart.Bars(groups, width, height)

	b.pdf.SetFont(fontFamily, "", 8)
	b.setText(textColor)
	b.pdf.SetDrawColor(gridColor[0], gridColor[1], gridColor[2])
	for _, tick := range bars.Ticks {
		b.pdf.Line(x0, y0+tick.Y, x0+width, y0+tick.Y)
		label := fmt.Sprintf("Rs. %.0f", tick.Value)
		b.pdf.Text(x0-2-b.pdf.GetStringWidth(label), y0+tick.Y+1, label)
	}

	for _, g := range bars.Groups {
		for _, r := range g.Bars {
			if r.H <= 0 {
				continue
			}
			b.setFillHex(r.Color)
			b.pdf.Rect(x0+r.X, y0+r.Y, r.W, r.H, "F")
		}
		label := b.tr(g.Label)
		b.pdf.Text(x0+g.Center-b.pdf.GetStringWidth(label)/2, y0+height+5, label)
	}

	legendY := y0 + height + 10
	b.pdf.SetFont(fontFamily, "", 9)
	lx := x0
	for _, item := range []struct{ color, label string }{
		{chart.IncomeColor, "Monthly Income"},
		{chart.ExpenseColor, "Monthly Expense"},
	} {
		b.setFillHex(item.color)
		b.pdf.Rect(lx, legendY, 4, 4, "F")
		b.pdf.Text(lx+6, legendY+3.5, item.label)
		lx += 10 + b.pdf.GetStringWidth(item.label)
	}

	b.y = top + trendHeight + 5
}
