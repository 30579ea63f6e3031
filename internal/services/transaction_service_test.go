package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"finsafe/internal/api"
	"finsafe/internal/cache"
	"finsafe/internal/core"
	"finsafe/internal/mock"
	"finsafe/internal/state"
)

var testNow = time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

type txFixture struct {
	svc       *TransactionService
	api       *mock.MockTransactionAPI
	publisher *mock.MockAlertPublisher
	analytics *cache.LRUCache[core.Analytics]
	watcher   *BalanceWatcher
}

func newTxFixture(t *testing.T) txFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := txFixture{
		api:       mock.NewMockTransactionAPI(ctrl),
		publisher: mock.NewMockAlertPublisher(ctrl),
		analytics: cache.NewLRUCache[core.Analytics](10, time.Minute),
	}
	f.watcher = NewBalanceWatcher(f.publisher, nil, nil)
	f.watcher.now = func() time.Time { return testNow }
	f.svc = NewTransactionService(f.api, f.analytics, f.watcher, nil)
	f.svc.now = func() time.Time { return testNow }
	return f
}

func healthyPage(page, pages int) core.TransactionPage {
	return core.TransactionPage{
		Transactions: []core.Transaction{{ID: "t1", Type: core.Income, Amount: 5000, Category: "Salary", Date: testNow}},
		Balance:      core.Balance{TotalIncome: 5000, TotalExpense: 1000, NetBalance: 4000},
		Page:         page,
		Pages:        pages,
	}
}

func TestTransactionService_SignedOutIsNoop(t *testing.T) {
	f := newTxFixture(t)
	sess := newSession(t)
	ctx := context.Background()

	assert.NoError(t, f.svc.GetTransactions(ctx, sess, 1))
	assert.NoError(t, f.svc.GetTransactionsByDate(ctx, sess, "2026-10-01"))
	assert.NoError(t, f.svc.GetAnalyticsData(ctx, sess, 2026))
	assert.NoError(t, f.svc.GetMonthlyReportData(ctx, sess, core.Month{Year: 2026, Month: 10}))
	assert.NoError(t, f.svc.AddTransaction(ctx, sess, core.NewTransaction{}))
	assert.False(t, sess.Transactions.IsLoading)
	assert.Empty(t, sess.Transactions.Error, "nothing is dispatched without a user")
}

func TestTransactionService_GetTransactions(t *testing.T) {
	f := newTxFixture(t)
	sess := signedIn(t)

	f.api.EXPECT().ListTransactions(gomock.Any(), "tok", api.ListQuery{Page: 2}).Return(healthyPage(2, 3), nil)

	require.NoError(t, f.svc.GetTransactions(context.Background(), sess, 2))

	ts := sess.Transactions
	assert.Len(t, ts.Transactions, 1)
	assert.Equal(t, 2, ts.CurrentPage)
	assert.Equal(t, 3, ts.TotalPages)
	assert.Equal(t, 4000.0, ts.Balance.NetBalance)
	assert.False(t, ts.IsLoading)
}

func TestTransactionService_FetchFailureMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"api message", &api.Error{StatusCode: 401, Message: "Not authorized, token failed"}, "Not authorized, token failed"},
		{"fallback", errors.New("connection reset"), "Failed to fetch transactions for date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTxFixture(t)
			sess := signedIn(t)
			sess.DispatchTx(state.Fetched(healthyPage(1, 1)))

			f.api.EXPECT().ListTransactions(gomock.Any(), "tok", api.ListQuery{Date: "2026-10-01"}).
				Return(core.TransactionPage{}, tt.err)

			require.Error(t, f.svc.GetTransactionsByDate(context.Background(), sess, "2026-10-01"))
			assert.Equal(t, tt.want, sess.Transactions.Error)
			assert.False(t, sess.Transactions.IsLoading)
			assert.Len(t, sess.Transactions.Transactions, 1, "previous rows stay visible")
		})
	}
}

func TestTransactionService_AddTransaction(t *testing.T) {
	f := newTxFixture(t)
	sess := signedIn(t)
	sess.FilterDate = "2026-10-01"
	f.analytics.Set(analyticsKey("u1", 2026), core.Analytics{MonthlyData: []core.MonthlyPoint{{Name: "Oct"}}})
	f.analytics.Set(analyticsKey("u2", 2026), core.Analytics{})

	tx := core.NewTransaction{
		Type:     core.Expense,
		Amount:   decimal.RequireFromString("120.50"),
		Category: " Food ",
		Date:     "2026-10-18",
		Note:     "groceries",
	}
	want := tx
	want.Category = "Food"

	gomock.InOrder(
		f.api.EXPECT().AddTransaction(gomock.Any(), "tok", want).
			Return(core.Transaction{ID: "t9", Type: core.Expense, Amount: 120.5, Category: "Food"}, nil),
		f.api.EXPECT().ListTransactions(gomock.Any(), "tok", api.ListQuery{Page: 1}).Return(healthyPage(1, 1), nil),
	)

	require.NoError(t, f.svc.AddTransaction(context.Background(), sess, tx))

	assert.Empty(t, sess.Transactions.Error)
	assert.Empty(t, sess.FilterDate, "adding resets the date filter")
	_, cached := f.analytics.Get(analyticsKey("u1", 2026))
	assert.False(t, cached, "analytics must be refetched after an add")
	_, other := f.analytics.Get(analyticsKey("u2", 2026))
	assert.True(t, other, "other users keep their cache")
}

func TestTransactionService_AddTransactionValidation(t *testing.T) {
	tests := []struct {
		name string
		tx   core.NewTransaction
		err  error
		want string
	}{
		{
			name: "zero amount",
			tx:   core.NewTransaction{Type: core.Expense, Amount: decimal.Zero, Category: "Food", Date: "2026-10-18"},
			err:  core.ErrInvalidAmount,
			want: "Please enter a valid amount greater than 0.",
		},
		{
			name: "category of the other type",
			tx:   core.NewTransaction{Type: core.Income, Amount: decimal.NewFromInt(5), Category: "Food", Date: "2026-10-18"},
			err:  core.ErrUnknownCategory,
			want: "Please select a valid category.",
		},
		{
			name: "missing date",
			tx:   core.NewTransaction{Type: core.Expense, Amount: decimal.NewFromInt(5), Category: "Food"},
			err:  core.ErrInvalidDate,
			want: "Please select a valid date.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTxFixture(t)
			sess := signedIn(t)

			err := f.svc.AddTransaction(context.Background(), sess, tt.tx)

			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, tt.want, sess.Transactions.Error)
		})
	}
}

func TestTransactionService_AddTransactionAPIFailure(t *testing.T) {
	f := newTxFixture(t)
	sess := signedIn(t)

	f.api.EXPECT().AddTransaction(gomock.Any(), "tok", gomock.Any()).Return(core.Transaction{}, errors.New("boom"))

	err := f.svc.AddTransaction(context.Background(), sess, core.NewTransaction{
		Type: core.Income, Amount: decimal.NewFromInt(10), Category: "Salary", Date: "2026-10-18",
	})

	require.Error(t, err)
	assert.Equal(t, "Failed to add transaction", sess.Transactions.Error)
	assert.False(t, sess.Transactions.IsLoading)
}

func TestTransactionService_AnalyticsCached(t *testing.T) {
	f := newTxFixture(t)
	sess := signedIn(t)
	data := core.Analytics{
		CategoryData: []core.CategoryTotal{{Category: "Food", Total: 300}},
		MonthlyData:  []core.MonthlyPoint{{Name: "Oct", Income: 5000, Expense: 300}},
	}

	f.api.EXPECT().Analytics(gomock.Any(), "tok", 2026, 0).Return(data, nil).Times(1)

	require.NoError(t, f.svc.GetAnalyticsData(context.Background(), sess, 2026))
	require.NoError(t, f.svc.GetAnalyticsData(context.Background(), sess, 2026))

	assert.Equal(t, data, sess.Transactions.Analytics)
}

func TestTransactionService_AnalyticsFailure(t *testing.T) {
	f := newTxFixture(t)
	sess := signedIn(t)

	f.api.EXPECT().Analytics(gomock.Any(), "tok", 2025, 0).Return(core.Analytics{}, errors.New("boom"))

	require.Error(t, f.svc.GetAnalyticsData(context.Background(), sess, 2025))
	assert.Equal(t, "Failed to fetch analytics", sess.Transactions.Error)
}

func TestTransactionService_GetMonthlyReportData(t *testing.T) {
	m := core.Month{Year: 2026, Month: 9}

	t.Run("both succeed", func(t *testing.T) {
		f := newTxFixture(t)
		sess := signedIn(t)
		analytics := core.Analytics{CategoryData: []core.CategoryTotal{{Category: "Food", Total: 10}}}

		f.api.EXPECT().ListTransactions(gomock.Any(), "tok", api.ListQuery{Year: 2026, Month: 9}).Return(healthyPage(1, 1), nil)
		f.api.EXPECT().Analytics(gomock.Any(), "tok", 2026, 9).Return(analytics, nil)

		require.NoError(t, f.svc.GetMonthlyReportData(context.Background(), sess, m))
		assert.Len(t, sess.Transactions.Transactions, 1)
		assert.Equal(t, analytics, sess.Transactions.Analytics)
	})

	t.Run("one fails", func(t *testing.T) {
		f := newTxFixture(t)
		sess := signedIn(t)

		f.api.EXPECT().ListTransactions(gomock.Any(), "tok", gomock.Any()).Return(healthyPage(1, 1), nil).AnyTimes()
		f.api.EXPECT().Analytics(gomock.Any(), "tok", 2026, 9).Return(core.Analytics{}, errors.New("boom"))

		require.Error(t, f.svc.GetMonthlyReportData(context.Background(), sess, m))
		assert.Equal(t, "Failed to fetch monthly report data", sess.Transactions.Error)
		assert.Empty(t, sess.Transactions.Transactions)
	})
}

func TestTransactionService_Navigation(t *testing.T) {
	f := newTxFixture(t)
	sess := signedIn(t)
	ctx := context.Background()
	sess.Transactions.TotalPages = 3

	// Out of range pages and years never reach the API.
	require.NoError(t, f.svc.ChangePage(ctx, sess, 0))
	require.NoError(t, f.svc.ChangePage(ctx, sess, 4))
	require.NoError(t, f.svc.SetAnalysisYear(ctx, sess, 2019))
	assert.Equal(t, 2026, sess.AnalysisYear)
	assert.ErrorIs(t, f.svc.SetFilterDate(ctx, sess, "yesterday"), core.ErrInvalidDate)

	gomock.InOrder(
		f.api.EXPECT().ListTransactions(gomock.Any(), "tok", api.ListQuery{Page: 3}).Return(healthyPage(3, 3), nil),
		f.api.EXPECT().ListTransactions(gomock.Any(), "tok", api.ListQuery{Date: "2026-10-02"}).Return(healthyPage(1, 1), nil),
		f.api.EXPECT().ListTransactions(gomock.Any(), "tok", api.ListQuery{Page: 1}).Return(healthyPage(1, 3), nil),
		f.api.EXPECT().Analytics(gomock.Any(), "tok", 2024, 0).Return(core.Analytics{}, nil),
	)

	require.NoError(t, f.svc.ChangePage(ctx, sess, 3))
	require.NoError(t, f.svc.SetFilterDate(ctx, sess, "2026-10-02"))
	assert.Equal(t, "2026-10-02", sess.FilterDate)
	require.NoError(t, f.svc.SetFilterDate(ctx, sess, ""))
	assert.Empty(t, sess.FilterDate)
	require.NoError(t, f.svc.SetAnalysisYear(ctx, sess, 2024))
	assert.Equal(t, 2024, sess.AnalysisYear)
}

func TestTransactionService_LowBalanceAlert(t *testing.T) {
	f := newTxFixture(t)
	sess := signedIn(t)
	low := healthyPage(1, 1)
	low.Balance.NetBalance = 120

	f.api.EXPECT().ListTransactions(gomock.Any(), "tok", gomock.Any()).Return(low, nil).Times(3)
	gomock.InOrder(
		f.publisher.EXPECT().PublishBalanceAlert(gomock.Any(), gomock.Any()).Return(errors.New("broker down")),
		f.publisher.EXPECT().PublishBalanceAlert(gomock.Any(), core.BalanceAlert{
			UserID: "u1", UserName: "Asha Rao", Email: "asha@example.com",
			NetBalance: 120, MinBalance: 500, ObservedAt: testNow,
		}).Return(nil),
	)

	ctx := context.Background()
	require.NoError(t, f.svc.GetTransactions(ctx, sess, 1), "publish failures are not surfaced")
	assert.Empty(t, sess.Transactions.Error)
	require.NoError(t, f.svc.GetTransactions(ctx, sess, 1))
	require.NoError(t, f.svc.GetTransactions(ctx, sess, 1), "one alert per user per day")
}

func TestBelow(t *testing.T) {
	u := &core.User{MinBalance: 100}
	assert.True(t, Below(u, core.Balance{NetBalance: 99.99}))
	assert.False(t, Below(u, core.Balance{NetBalance: 100}))
	assert.False(t, Below(&core.User{}, core.Balance{NetBalance: -50}), "zero threshold disables alerts")
	assert.False(t, Below(nil, core.Balance{NetBalance: -50}))
}
