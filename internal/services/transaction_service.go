package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"finsafe/internal/api"
	"finsafe/internal/cache"
	"finsafe/internal/core"
	"finsafe/internal/log"
	"finsafe/internal/metrics"
	"finsafe/internal/session"
	"finsafe/internal/state"
)

const (
	msgFetchFailed       = "Failed to fetch transactions"
	msgFetchByDateFailed = "Failed to fetch transactions for date"
	msgAddFailed         = "Failed to add transaction"
	msgAnalyticsFailed   = "Failed to fetch analytics"
	msgMonthlyFailed     = "Failed to fetch monthly report data"
)

// TransactionService loads and records transactions for the signed-in user
// and keeps the session's TransactionState current. Fetch failures are
// recorded on the session and also returned for logging.
type TransactionService struct {
	api       TransactionAPI
	analytics *cache.LRUCache[core.Analytics]
	watcher   *BalanceWatcher
	logger    *log.Logger
	events    *log.StructuredLogger
	now       func() time.Time
}

// NewTransactionService wires the service. analytics caches per-year
// analytics and may be nil; watcher may be nil when alerts are disabled.
func NewTransactionService(txAPI TransactionAPI, analytics *cache.LRUCache[core.Analytics], watcher *BalanceWatcher, logger *log.Logger) *TransactionService {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentTransaction)
	return &TransactionService{
		api:       txAPI,
		analytics: analytics,
		watcher:   watcher,
		logger:    logger,
		events:    log.NewStructuredLogger(logger),
		now:       time.Now,
	}
}

// GetTransactions loads one page of history.
func (s *TransactionService) GetTransactions(ctx context.Context, sess *session.Session, page int) error {
	return s.fetch(ctx, sess, api.ListQuery{Page: page}, msgFetchFailed)
}

// GetTransactionsByDate loads the transactions of a single day.
func (s *TransactionService) GetTransactionsByDate(ctx context.Context, sess *session.Session, date string) error {
	return s.fetch(ctx, sess, api.ListQuery{Date: date}, msgFetchByDateFailed)
}

func (s *TransactionService) fetch(ctx context.Context, sess *session.Session, q api.ListQuery, fallback string) error {
	user := sess.User()
	if user == nil {
		return nil
	}

	sess.DispatchTx(state.StartFetch())
	page, err := s.api.ListTransactions(ctx, user.Token, q)
	if err != nil {
		sess.DispatchTx(state.FetchFailed(api.MessageOf(err, fallback)))
		s.logger.WarnContext(ctx, "Transaction fetch failed",
			log.FieldUserID, user.ID, log.FieldPage, q.Page, log.FieldError, err)
		return err
	}
	sess.DispatchTx(state.Fetched(page))
	s.watcher.Check(ctx, user, page.Balance)
	return nil
}

// AddTransaction validates and records a transaction, then reloads the
// first page. Without a signed-in user it does nothing and returns nil;
// otherwise it returns nil only when the transaction was recorded.
func (s *TransactionService) AddTransaction(ctx context.Context, sess *session.Session, tx core.NewTransaction) error {
	user := sess.User()
	if user == nil {
		return nil
	}

	if t, err := core.ParseTransactionType(string(tx.Type)); err == nil {
		tx.Type = t
	}
	tx.Category = strings.TrimSpace(tx.Category)
	tx.Note = strings.TrimSpace(tx.Note)
	if err := tx.Validate(); err != nil {
		sess.DispatchTx(state.AddFailed(ValidationMessage(err)))
		return err
	}

	sess.DispatchTx(state.StartAdd())
	created, err := s.api.AddTransaction(ctx, user.Token, tx)
	if err != nil {
		sess.DispatchTx(state.AddFailed(api.MessageOf(err, msgAddFailed)))
		s.logger.ErrorContext(ctx, "Failed to add transaction",
			log.FieldUserID, user.ID, log.FieldTxType, tx.Type, log.FieldError, err)
		return err
	}
	sess.DispatchTx(state.Added())
	metrics.TransactionsCreatedTotal.WithLabelValues(string(tx.Type)).Inc()
	s.events.LogTransactionCreated(ctx, user.ID, string(tx.Type), tx.Category, created.Amount)

	s.invalidateAnalytics(user.ID)
	sess.FilterDate = ""
	// The add already succeeded; a failed reload only shows up as a fetch error.
	_ = s.GetTransactions(ctx, sess, 1)
	return nil
}

// GetAnalyticsData loads the category split and monthly trend for year.
func (s *TransactionService) GetAnalyticsData(ctx context.Context, sess *session.Session, year int) error {
	user := sess.User()
	if user == nil {
		return nil
	}

	sess.DispatchTx(state.StartFetch())
	a, err := s.yearAnalytics(ctx, user, year)
	if err != nil {
		sess.DispatchTx(state.FetchFailed(api.MessageOf(err, msgAnalyticsFailed)))
		s.logger.WarnContext(ctx, "Analytics fetch failed",
			log.FieldUserID, user.ID, log.FieldYear, year, log.FieldError, err)
		return err
	}
	sess.DispatchTx(state.AnalyticsFetched(a))
	return nil
}

func (s *TransactionService) yearAnalytics(ctx context.Context, user *core.User, year int) (core.Analytics, error) {
	key := analyticsKey(user.ID, year)
	if s.analytics != nil {
		if a, ok := s.analytics.Get(key); ok {
			return a, nil
		}
	}
	a, err := s.api.Analytics(ctx, user.Token, year, 0)
	if err != nil {
		return core.Analytics{}, err
	}
	if s.analytics != nil {
		s.analytics.Set(key, a)
	}
	return a, nil
}

// GetMonthlyReportData loads a month's transactions and analytics together.
func (s *TransactionService) GetMonthlyReportData(ctx context.Context, sess *session.Session, m core.Month) error {
	user := sess.User()
	if user == nil {
		return nil
	}

	sess.DispatchTx(state.StartFetch())

	var (
		page      core.TransactionPage
		analytics core.Analytics
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page, err = s.api.ListTransactions(gctx, user.Token, api.ListQuery{Year: m.Year, Month: m.Month})
		return err
	})
	g.Go(func() error {
		var err error
		analytics, err = s.api.Analytics(gctx, user.Token, m.Year, m.Month)
		return err
	})
	if err := g.Wait(); err != nil {
		sess.DispatchTx(state.FetchFailed(api.MessageOf(err, msgMonthlyFailed)))
		s.logger.WarnContext(ctx, "Monthly data fetch failed",
			log.NewFields().WithUser(user.ID).WithPeriod(m.Year, m.Month).WithError(err).ToSlice()...)
		return err
	}

	sess.DispatchTx(state.Fetched(page))
	sess.DispatchTx(state.AnalyticsFetched(analytics))
	s.watcher.Check(ctx, user, page.Balance)
	return nil
}

// ChangePage fetches page p when it lies within the known page range.
func (s *TransactionService) ChangePage(ctx context.Context, sess *session.Session, p int) error {
	if !sess.Transactions.CanGoTo(p) {
		return nil
	}
	return s.GetTransactions(ctx, sess, p)
}

// SetFilterDate filters history to one day, or clears the filter when date
// is empty.
func (s *TransactionService) SetFilterDate(ctx context.Context, sess *session.Session, date string) error {
	date = strings.TrimSpace(date)
	if date == "" {
		sess.FilterDate = ""
		return s.GetTransactions(ctx, sess, 1)
	}
	if _, err := time.Parse(core.DateLayout, date); err != nil {
		return fmt.Errorf("filter date %q: %w", date, core.ErrInvalidDate)
	}
	sess.FilterDate = date
	return s.GetTransactionsByDate(ctx, sess, date)
}

// SetAnalysisYear switches the analytics year and reloads. Years outside
// the offered range are ignored.
func (s *TransactionService) SetAnalysisYear(ctx context.Context, sess *session.Session, year int) error {
	if !core.ValidYear(s.now(), year) {
		return nil
	}
	sess.AnalysisYear = year
	return s.GetAnalyticsData(ctx, sess, year)
}

// Refresh reloads history under the session's current filter.
func (s *TransactionService) Refresh(ctx context.Context, sess *session.Session) error {
	if sess.FilterDate != "" {
		return s.GetTransactionsByDate(ctx, sess, sess.FilterDate)
	}
	return s.GetTransactions(ctx, sess, sess.Transactions.CurrentPage)
}

func (s *TransactionService) invalidateAnalytics(userID string) {
	if s.analytics != nil {
		s.analytics.DeletePrefix(userID + ":")
	}
}

func analyticsKey(userID string, year int) string {
	return fmt.Sprintf("%s:%d", userID, year)
}

// ValidationMessage turns an add-form validation error into the text shown
// next to the form.
func ValidationMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		return "Please enter a valid amount greater than 0."
	case errors.Is(err, core.ErrEmptyCategory), errors.Is(err, core.ErrUnknownCategory):
		return "Please select a valid category."
	case errors.Is(err, core.ErrInvalidDate):
		return "Please select a valid date."
	case errors.Is(err, core.ErrNoteTooLong):
		return "Note cannot be longer than 100 characters."
	case errors.Is(err, core.ErrInvalidType):
		return "Please choose income or expense."
	default:
		return msgAddFailed
	}
}
