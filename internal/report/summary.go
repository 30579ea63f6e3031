package report

import (
	"finsafe/internal/chart"
	"finsafe/internal/core"
)

// Summary totals one month of transactions.
type Summary struct {
	Income  float64
	Expense float64
	Net     float64
}

func Summarize(rows []core.Transaction) Summary {
	var s Summary
	for _, t := range rows {
		switch t.Type {
		case core.Income:
			s.Income += t.Amount
		case core.Expense:
			s.Expense += t.Amount
		}
	}
	s.Net = s.Income - s.Expense
	return s
}

// Share is one category's part of the month's expenses.
type Share struct {
	Category string
	Amount   float64
	Percent  float64
	Color    string
}

// ExpenseDistribution groups expenses by category in order of first
// appearance and colors them from the chart palette. It returns nil when
// the month has no expenses.
func ExpenseDistribution(rows []core.Transaction) []Share {
	var (
		order  []string
		totals = map[string]float64{}
		sum    float64
	)
	for _, t := range rows {
		if t.Type != core.Expense {
			continue
		}
		if _, seen := totals[t.Category]; !seen {
			order = append(order, t.Category)
		}
		totals[t.Category] += t.Amount
		sum += t.Amount
	}
	if sum <= 0 {
		return nil
	}

	shares := make([]Share, len(order))
	for i, cat := range order {
		shares[i] = Share{
			Category: cat,
			Amount:   totals[cat],
			Percent:  totals[cat] / sum * 100,
			Color:    chart.Color(i),
		}
	}
	return shares
}
