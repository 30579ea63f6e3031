package api

import (
	"context"
	"net/http"
	"strconv"

	"finsafe/internal/core"
)

// ListQuery selects one of the three list modes: a page of history, a
// single day, or a calendar month. Date wins over Year/Month, which win
// over Page.
type ListQuery struct {
	Page  int
	Date  string
	Year  int
	Month int
}

func (q ListQuery) params() map[string]string {
	switch {
	case q.Date != "":
		return map[string]string{"date": q.Date}
	case q.Year > 0 && q.Month > 0:
		return map[string]string{"year": strconv.Itoa(q.Year), "month": strconv.Itoa(q.Month)}
	default:
		return map[string]string{"page": strconv.Itoa(q.page())}
	}
}

func (q ListQuery) page() int {
	if q.Date != "" || (q.Year > 0 && q.Month > 0) || q.Page < 1 {
		return 1
	}
	return q.Page
}

type listResponse struct {
	Transactions []core.Transaction `json:"transactions"`
	Balance      *core.Balance      `json:"balance"`
	Page         int                `json:"page"`
	Pages        int                `json:"pages"`
}

// ListTransactions fetches transaction history. Fields missing from the
// response are defaulted: an empty list, a zero balance, the requested page
// and a single page.
func (c *Client) ListTransactions(ctx context.Context, token string, q ListQuery) (core.TransactionPage, error) {
	var res listResponse
	r := c.request(ctx, token).SetQueryParams(q.params())
	if err := c.do("list_transactions", http.MethodGet, "transactions", r, &res); err != nil {
		return core.TransactionPage{}, err
	}

	page := core.TransactionPage{
		Transactions: res.Transactions,
		Page:         q.page(),
		Pages:        1,
	}
	if page.Transactions == nil {
		page.Transactions = []core.Transaction{}
	}
	if res.Balance != nil {
		page.Balance = *res.Balance
	}
	if q.Date == "" && q.Month == 0 && res.Page > 0 {
		page.Page = res.Page
	}
	if res.Pages > 0 {
		page.Pages = res.Pages
	}
	return page, nil
}

// AddTransaction posts the add form as multipart data.
func (c *Client) AddTransaction(ctx context.Context, token string, tx core.NewTransaction) (core.Transaction, error) {
	var created core.Transaction
	r := c.request(ctx, token).SetMultipartFormData(map[string]string{
		"type":     string(tx.Type),
		"amount":   tx.Amount.StringFixed(2),
		"category": tx.Category,
		"date":     tx.Date,
		"note":     tx.Note,
	})
	if err := c.do("add_transaction", http.MethodPost, "transactions", r, &created); err != nil {
		return core.Transaction{}, err
	}
	return created, nil
}

// Analytics fetches the category breakdown and monthly trend for a year, or
// for one month of it when month is between 1 and 12.
func (c *Client) Analytics(ctx context.Context, token string, year, month int) (core.Analytics, error) {
	params := map[string]string{"year": strconv.Itoa(year)}
	if month >= 1 && month <= 12 {
		params["month"] = strconv.Itoa(month)
	}

	var out core.Analytics
	r := c.request(ctx, token).SetQueryParams(params)
	if err := c.do("analytics", http.MethodGet, "transactions/analytics", r, &out); err != nil {
		return core.Analytics{}, err
	}
	if out.CategoryData == nil {
		out.CategoryData = []core.CategoryTotal{}
	}
	if out.MonthlyData == nil {
		out.MonthlyData = []core.MonthlyPoint{}
	}
	return out, nil
}

// MonthlyReport fetches every transaction of a month, unpaginated.
func (c *Client) MonthlyReport(ctx context.Context, token string, m core.Month) ([]core.Transaction, error) {
	var rows []core.Transaction
	r := c.request(ctx, token).SetQueryParams(map[string]string{
		"year":  strconv.Itoa(m.Year),
		"month": strconv.Itoa(m.Month),
	})
	if err := c.do("monthly_report", http.MethodGet, "transactions/monthly-report", r, &rows); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []core.Transaction{}
	}
	return rows, nil
}
