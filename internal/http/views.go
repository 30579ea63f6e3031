package http

import (
	"html/template"
	"time"

	"finsafe/internal/chart"
	"finsafe/internal/core"
	"finsafe/internal/session"
	"finsafe/internal/state"
)

// Chart canvas sizes in SVG user units.
const (
	pieSize     = 240.0
	barsWidth   = 520.0
	barsHeight  = 220.0
	barsMarginL = 56.0
	barsMarginT = 12.0
)

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"rupees":      core.FormatRupees,
		"reportMoney": core.FormatReport,
		"date": func(t time.Time) string {
			if t.IsZero() {
				return "-"
			}
			return t.Format("1/2/2006")
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	}
}

// page carries what the layout needs on every full page.
type page struct {
	Title string
	User  *core.User
	Flash string
	Error string
}

func newPage(title string, sess *session.Session) page {
	return page{Title: title, User: sess.User(), Flash: sess.PopFlash()}
}

type authView struct {
	page
	Name       string
	Email      string
	MinBalance string
}

type summaryView struct {
	Balance core.Balance
	Loading bool
	Error   string
}

func summaryFrom(s state.TransactionState) summaryView {
	return summaryView{Balance: s.Balance, Loading: s.IsLoading, Error: s.Error}
}

type historyView struct {
	Rows       []core.Transaction
	Page       int
	Pages      int
	FilterDate string
	Paginate   bool
	Error      string
}

func (v historyView) HasPrev() bool { return v.Page > 1 }
func (v historyView) HasNext() bool { return v.Page < v.Pages }

func historyFrom(sess *session.Session) historyView {
	tx := sess.Transactions
	return historyView{
		Rows:       tx.Transactions,
		Page:       tx.CurrentPage,
		Pages:      tx.TotalPages,
		FilterDate: sess.FilterDate,
		Paginate:   tx.HasPagination() && sess.FilterDate == "",
	}
}

type analyticsView struct {
	Year         int
	Years        []int
	Pie          []chart.Slice
	PieSize      float64
	Bars         chart.BarChart
	BarsWidth    float64
	BarsHeight   float64
	MarginL      float64
	MarginT      float64
	LabelY       float64
	IncomeColor  string
	ExpenseColor string
}

func (v analyticsView) HasPie() bool  { return len(v.Pie) > 0 }
func (v analyticsView) HasBars() bool { return len(v.Bars.Groups) > 0 }

func analyticsFrom(sess *session.Session, now time.Time) analyticsView {
	a := sess.Transactions.Analytics

	data := make([]chart.Datum, 0, len(a.CategoryData))
	for _, c := range a.CategoryData {
		data = append(data, chart.Datum{Label: c.Category, Value: c.Total})
	}
	groups := make([]chart.Group, 0, len(a.MonthlyData))
	for _, m := range a.MonthlyData {
		groups = append(groups, chart.Group{Label: m.Name, Income: m.Income, Expense: m.Expense})
	}

	return analyticsView{
		Year:         sess.AnalysisYear,
		Years:        core.YearOptions(now),
		Pie:          chart.Pie(data, pieSize/2, pieSize/2, pieSize/2-10),
		PieSize:      pieSize,
		Bars:         chart.Bars(groups, barsWidth, barsHeight),
		BarsWidth:    barsWidth + barsMarginL + 8,
		BarsHeight:   barsHeight + barsMarginT + 28,
		MarginL:      barsMarginL,
		MarginT:      barsMarginT,
		LabelY:       barsHeight + 18,
		IncomeColor:  chart.IncomeColor,
		ExpenseColor: chart.ExpenseColor,
	}
}

type dashboardView struct {
	page
	ExportMonth string
	Summary     summaryView
	History     historyView
	Analytics   analyticsView
}

type txFormView struct {
	Types      []core.TransactionType
	Type       core.TransactionType
	Categories []string
	Form       TransactionForm
	MaxNote    int
	Error      string
}

// txFormFrom fills the add form. An unknown type falls back to expense and
// a category that does not belong to the type is replaced by its default.
func txFormFrom(f TransactionForm, now time.Time) txFormView {
	t, err := core.ParseTransactionType(f.Type)
	if err != nil {
		t = core.Expense
	}
	f.Type = string(t)
	if !core.ValidCategory(t, f.Category) {
		f.Category = core.DefaultCategory(t)
	}
	if f.Date == "" {
		f.Date = now.Format(core.DateLayout)
	}
	return txFormView{
		Types:      []core.TransactionType{core.Income, core.Expense},
		Type:       t,
		Categories: core.CategoriesFor(t),
		Form:       f,
		MaxNote:    core.MaxNoteLength,
	}
}

type notesView struct {
	Notes []core.Note
	Error string
}

type noteFormView struct {
	Note  core.Note
	Error string
}

func (v noteFormView) IsEdit() bool { return v.Note.ID != "" }

type settingsView struct {
	page
	MinBalance string
}

type confirmView struct {
	page
	Message string
	Success bool
}
