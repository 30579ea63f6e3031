package core

import (
	"fmt"
	"time"
)

const (
	colorPositive = "#3B82F6"
	colorNegative = "#EF4444"
)

// Balance is the all-time position reported by the API with every list call.
type Balance struct {
	TotalIncome  float64 `json:"totalIncome"`
	TotalExpense float64 `json:"totalExpense"`
	NetBalance   float64 `json:"netBalance"`
}

// CategoryTotal is one slice of the expense distribution.
type CategoryTotal struct {
	Category string  `json:"_id"`
	Total    float64 `json:"total"`
}

// MonthlyPoint is one bar group of the monthly trend.
type MonthlyPoint struct {
	Name    string  `json:"name"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

type Analytics struct {
	CategoryData []CategoryTotal `json:"categoryData"`
	MonthlyData  []MonthlyPoint  `json:"monthlyData"`
}

// TransactionPage is one page of transaction history.
type TransactionPage struct {
	Transactions []Transaction `json:"transactions"`
	Balance      Balance       `json:"balance"`
	Page         int           `json:"page"`
	Pages        int           `json:"pages"`
}

func (b Balance) IsNegative() bool {
	return b.NetBalance < 0
}

// NetColor is the accent used for the net balance card.
func (b Balance) NetColor() string {
	if b.IsNegative() {
		return colorNegative
	}
	return colorPositive
}

// Month identifies a calendar month for reports and exports.
type Month struct {
	Year  int
	Month int // 1-12
}

func CurrentMonth(now time.Time) Month {
	return Month{Year: now.Year(), Month: int(now.Month())}
}

// ParseMonth parses the value of an <input type="month">, "YYYY-MM".
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("parse month %q: %w", s, ErrInvalidDate)
	}
	return Month{Year: t.Year(), Month: int(t.Month())}, nil
}

func (m Month) Valid() bool {
	return m.Year > 0 && m.Month >= 1 && m.Month <= 12
}

// Label renders "October 2026".
func (m Month) Label() string {
	return fmt.Sprintf("%s %d", time.Month(m.Month).String(), m.Year)
}

// Value renders "2026-10".
func (m Month) Value() string {
	return fmt.Sprintf("%04d-%02d", m.Year, m.Month)
}

// FileLabel renders "October_2026".
func (m Month) FileLabel() string {
	return fmt.Sprintf("%s_%d", time.Month(m.Month).String(), m.Year)
}

// YearOptions lists the analytics years offered to the user: the current
// year and the four before it, newest first.
func YearOptions(now time.Time) []int {
	years := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		years = append(years, now.Year()-i)
	}
	return years
}

func ValidYear(now time.Time, year int) bool {
	for _, y := range YearOptions(now) {
		if y == year {
			return true
		}
	}
	return false
}
