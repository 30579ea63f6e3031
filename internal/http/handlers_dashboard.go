package http

import (
	"errors"
	"mime"
	"net/http"
	"strconv"

	"finsafe/internal/core"
	"finsafe/internal/log"
	"finsafe/internal/services"
)

const (
	msgTransactionAdded = "Transaction added successfully!"
	msgInvalidMonth     = "Please select a valid month."
)

var formErrors = []error{
	core.ErrInvalidType,
	core.ErrInvalidAmount,
	core.ErrInvalidDate,
	core.ErrEmptyCategory,
	core.ErrUnknownCategory,
	core.ErrNoteTooLong,
}

func isFormError(err error) bool {
	for _, target := range formErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// handleDashboard reloads history under the current filter and the
// analytics of the selected year, then renders the whole page. Fetch
// failures are recorded on the session and shown in the panels.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFrom(r)
	ctx, cancel := s.apiContext(r)
	defer cancel()

	_ = s.txs.Refresh(ctx, sess)
	_ = s.txs.GetAnalyticsData(ctx, sess, sess.AnalysisYear)

	now := s.now()
	if _, err := core.ParseMonth(sess.ExportMonth); err != nil {
		sess.ExportMonth = core.CurrentMonth(now).Value()
	}
	view := dashboardView{
		page:        newPage("Dashboard", sess),
		ExportMonth: sess.ExportMonth,
		Summary:     summaryFrom(sess.Transactions),
		History:     historyFrom(sess),
		Analytics:   analyticsFrom(sess, now),
	}
	s.commit(w, r, sess)
	s.render(w, r, http.StatusOK, "dashboard_page", view)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFrom(r)
	s.render(w, r, http.StatusOK, "summary", summaryFrom(sess.Transactions))
}

// handleTransactions serves the history panel. A date parameter sets or,
// when empty, clears the filter; page moves within the unfiltered list;
// neither reloads the current view.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFrom(r)
	ctx, cancel := s.apiContext(r)
	defer cancel()

	q := r.URL.Query()
	switch page, ok := ParsePage(q); {
	case q.Has("date"):
		if err := s.txs.SetFilterDate(ctx, sess, q.Get("date")); errors.Is(err, core.ErrInvalidDate) {
			// Re-render the whole partial so the filter controls stay usable.
			view := historyFrom(sess)
			view.Error = services.ValidationMessage(err)
			s.render(w, r, http.StatusUnprocessableEntity, "transactions", view)
			return
		}
	case ok:
		_ = s.txs.ChangePage(ctx, sess, page)
	default:
		_ = s.txs.Refresh(ctx, sess)
	}

	s.commit(w, r, sess)
	s.render(w, r, http.StatusOK, "transactions", historyFrom(sess))
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFrom(r)
	ctx, cancel := s.apiContext(r)
	defer cancel()

	if year, ok := ParseYear(r.URL.Query()); ok && year != sess.AnalysisYear {
		_ = s.txs.SetAnalysisYear(ctx, sess, year)
	} else {
		_ = s.txs.GetAnalyticsData(ctx, sess, sess.AnalysisYear)
	}

	s.commit(w, r, sess)
	s.render(w, r, http.StatusOK, "analytics", analyticsFrom(sess, s.now()))
}

// handleTransactionForm renders the add form. Changing the type re-renders
// it with the categories of the new type and the other fields kept.
func (s *Server) handleTransactionForm(w http.ResponseWriter, r *http.Request) {
	f := TransactionFormFromQuery(r.URL.Query())
	s.render(w, r, http.StatusOK, "tx_form", txFormFrom(f, s.now()))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFrom(r)

	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError(msgInvalidRequest).Write(w)
		return
	}
	f := ParseTransactionForm(p)

	ctx, cancel := s.apiContext(r)
	defer cancel()
	if err := s.txs.AddTransaction(ctx, sess, f.NewTransaction()); err != nil {
		msg := sess.Transactions.Error
		if msg == "" {
			msg = userMessage(err, services.ValidationMessage(err))
		}
		view := txFormFrom(f, s.now())
		view.Error = msg

		body, rerr := s.execute("tx_form", view)
		if rerr != nil {
			s.renderFailed(w, r, rerr)
			return
		}
		resp := NewHTMXResponse().Status(http.StatusUnprocessableEntity).Retarget("#modal").Body(body)
		if !isFormError(err) {
			resp.TriggerErrorNotification(msg)
		}
		s.commit(w, r, sess)
		resp.Write(w)
		return
	}

	s.commit(w, r, sess)
	body, err := s.execute("transactions", historyFrom(sess))
	if err != nil {
		s.renderFailed(w, r, err)
		return
	}
	NewHTMXResponse().
		Retarget("#history").
		TriggerTransactionCreated().
		TriggerModalClose().
		TriggerSuccessNotification(msgTransactionAdded).
		Body(body).
		Write(w)
}

// handleReport streams the monthly PDF. Failures answer 422 with the text
// to show and a notification event.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFrom(r)

	m, err := core.ParseMonth(r.URL.Query().Get("month"))
	if err != nil {
		reportFailed(w, msgInvalidMonth)
		return
	}
	sess.ExportMonth = m.Value()

	ctx, cancel := s.apiContext(r)
	defer cancel()
	rep, err := s.reports.MonthlyReport(ctx, sess, m)
	s.commit(w, r, sess)
	if err != nil {
		log.FromContext(ctx).InfoContext(ctx, "Report not produced",
			log.NewFields().WithPeriod(m.Year, m.Month).WithError(err).ToSlice()...)
		reportFailed(w, userMessage(err, services.MsgReportFetchFailed))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": rep.FileName}))
	w.Header().Set("Content-Length", strconv.Itoa(len(rep.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rep.Data)
}

func reportFailed(w http.ResponseWriter, msg string) {
	UnprocessableEntityError(msg).TriggerErrorNotification(msg).Write(w)
}
