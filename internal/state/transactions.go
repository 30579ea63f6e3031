package state

import "finsafe/internal/core"

type TxActionType string

const (
	FetchStart            TxActionType = "FETCH_START"
	AddStart              TxActionType = "ADD_START"
	FetchSuccess          TxActionType = "FETCH_SUCCESS"
	AddSuccess            TxActionType = "ADD_SUCCESS"
	FetchAnalyticsSuccess TxActionType = "FETCH_ANALYTICS_SUCCESS"
	FetchFail             TxActionType = "FETCH_FAIL"
	AddFail               TxActionType = "ADD_FAIL"
)

type TransactionState struct {
	Transactions []core.Transaction `json:"transactions"`
	Balance      core.Balance       `json:"balance"`
	Analytics    core.Analytics     `json:"analytics"`
	CurrentPage  int                `json:"currentPage"`
	TotalPages   int                `json:"totalPages"`
	IsLoading    bool               `json:"isLoading"`
	Error        string             `json:"error,omitempty"`
}

type TxAction struct {
	Type      TxActionType
	Page      core.TransactionPage
	Analytics core.Analytics
	Error     string
}

// InitialTransactions is the state before anything has been fetched: page 1
// of 1, no rows, zero balance.
func InitialTransactions() TransactionState {
	return TransactionState{
		Transactions: []core.Transaction{},
		Analytics: core.Analytics{
			CategoryData: []core.CategoryTotal{},
			MonthlyData:  []core.MonthlyPoint{},
		},
		CurrentPage: 1,
		TotalPages:  1,
	}
}

func StartFetch() TxAction { return TxAction{Type: FetchStart} }
func StartAdd() TxAction { return TxAction{Type: AddStart} }
func Fetched(p core.TransactionPage) TxAction { return TxAction{Type: FetchSuccess, Page: p} }
func Added() TxAction { return TxAction{Type: AddSuccess} }
func AnalyticsFetched(a core.Analytics) TxAction {
	return TxAction{Type: FetchAnalyticsSuccess, Analytics: a}
}
func FetchFailed(msg string) TxAction { return TxAction{Type: FetchFail, Error: msg} }
func AddFailed(msg string) TxAction { return TxAction{Type: AddFail, Error: msg} }

// ReduceTransactions applies a to s. Unknown action types return s unchanged.
func ReduceTransactions(s TransactionState, a TxAction) TransactionState {
	next := s

	switch a.Type {
	case FetchStart, AddStart:
		next.IsLoading = true
		next.Error = ""
	case FetchSuccess:
		next.Transactions = append([]core.Transaction{}, a.Page.Transactions...)
		next.CurrentPage = a.Page.Page
		next.TotalPages = a.Page.Pages
		next.Balance = a.Page.Balance
		next.IsLoading = false
	case AddSuccess:
		next.IsLoading = false
	case FetchAnalyticsSuccess:
		next.Analytics = core.Analytics{
			CategoryData: append([]core.CategoryTotal{}, a.Analytics.CategoryData...),
			MonthlyData:  append([]core.MonthlyPoint{}, a.Analytics.MonthlyData...),
		}
		next.IsLoading = false
	case FetchFail, AddFail:
		next.IsLoading = false
		next.Error = a.Error
	default:
		return s
	}
	return next
}

// HasPagination reports whether page controls should be offered.
func (s TransactionState) HasPagination() bool {
	return s.TotalPages > 1
}

// CanGoTo reports whether page p exists.
func (s TransactionState) CanGoTo(p int) bool {
	return p >= 1 && p <= s.TotalPages
}
