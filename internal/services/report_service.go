package services

import (
	"context"
	"time"

	"finsafe/internal/core"
	"finsafe/internal/log"
	"finsafe/internal/metrics"
	"finsafe/internal/report"
	"finsafe/internal/session"
)

const (
	MsgReportFetchFailed = "Failed to fetch full report data. Please try again."
	MsgReportEmpty       = "No transactions found for the selected month to generate a report."
	msgReportRender      = "Failed to generate the report. Please try again."
)

// Report is a rendered monthly report ready to download.
type Report struct {
	FileName string
	Data     []byte
}

// ReportService assembles the monthly PDF report.
type ReportService struct {
	txs    *TransactionService
	logger *log.Logger
	now    func() time.Time
}

func NewReportService(txs *TransactionService, logger *log.Logger) *ReportService {
	if logger == nil {
		logger = log.Discard()
	}
	return &ReportService{txs: txs, logger: logger.WithComponent(log.ComponentReport), now: time.Now}
}

// MonthlyReport renders the report for month m. The returned error carries
// the text to show when nothing could be produced.
func (s *ReportService) MonthlyReport(ctx context.Context, sess *session.Session, m core.Month) (Report, error) {
	user := sess.User()
	if user == nil || user.Token == "" {
		return Report{}, fail(MsgNotAuthenticated, ErrSignedOut)
	}
	if !m.Valid() {
		return Report{}, fail(MsgReportFetchFailed, core.ErrInvalidDate)
	}

	rows, err := s.txs.api.MonthlyReport(ctx, user.Token, m)
	if err != nil {
		s.record(err)
		s.logger.WarnContext(ctx, "Report data fetch failed",
			log.NewFields().WithUser(user.ID).WithPeriod(m.Year, m.Month).WithError(err).ToSlice()...)
		return Report{}, fail(MsgReportFetchFailed, err)
	}
	if len(rows) == 0 {
		return Report{}, fail(MsgReportEmpty, nil)
	}

	in := report.Input{Month: m, Rows: rows, GeneratedAt: s.now()}
	if a, err := s.txs.yearAnalytics(ctx, user, m.Year); err != nil {
		s.logger.WarnContext(ctx, "Trend data unavailable, omitting chart",
			log.FieldUserID, user.ID, log.FieldYear, m.Year, log.FieldError, err)
	} else {
		in.Trend = a.MonthlyData
	}

	data, err := report.Build(in)
	s.record(err)
	if err != nil {
		s.logger.ErrorContext(ctx, "Report rendering failed", log.FieldOperation, log.OpRender, log.FieldError, err)
		return Report{}, fail(msgReportRender, err)
	}

	s.logger.InfoContext(ctx, "Report generated",
		log.NewFields().WithUser(user.ID).WithPeriod(m.Year, m.Month).ToSlice()...,
	)
	return Report{FileName: report.FileName(m), Data: data}, nil
}

func (s *ReportService) record(err error) {
	metrics.ReportsGeneratedTotal.WithLabelValues(metrics.Result(err)).Inc()
}
