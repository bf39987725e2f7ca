package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

const (
	dateLayout       = "2006-01-02"
	summaryRange     = "Summaries!A:J"
	summaryDateRange = "Summaries!A:A"
)

// SummaryWriter appends one row per daily summary to the Summaries tab.
type SummaryWriter struct {
	sheet  Sheet
	logger *zap.Logger
}

func NewSummaryWriter(sheet Sheet, logger *zap.Logger) *SummaryWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryWriter{sheet: sheet, logger: logger}
}

// Name identifies the writer in logs.
func (w *SummaryWriter) Name() string { return "sheets" }

// MirrorSummary appends s unless a row for its date is already present.
func (w *SummaryWriter) MirrorSummary(ctx context.Context, s models.DailySummary) error {
	day := s.Date.Format(dateLayout)

	rows, err := w.sheet.ReadRange(ctx, summaryDateRange)
	if err != nil {
		return fmt.Errorf("load exported summary dates: %w", err)
	}
	for _, row := range rows {
		if len(row) > 0 && fmt.Sprint(row[0]) == day {
			w.logger.Debug("summary already exported", zap.String("date", day))
			return nil
		}
	}

	return w.sheet.AppendRow(ctx, summaryRange, SummaryRow(s))
}

// SummaryRow lays out s in the column order of the Summaries tab.
func SummaryRow(s models.DailySummary) []interface{} {
	return []interface{}{
		s.Date.Format(dateLayout),
		s.TotalCattle,
		s.MaleCount,
		s.FemaleCount,
		s.CalfCount,
		s.TotalMilkLiters,
		s.AvgMilkPerCow,
		s.FeedHayUsed,
		s.FeedConcentrateUsed,
		s.FeedSilageUsed,
	}
}
