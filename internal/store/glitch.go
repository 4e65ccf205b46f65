package store

import (
	"context"
	"fmt"
	"umsassist-backend/internal/components/retry"
	"umsassist-backend/internal/store/db"
)

const report_store_save_glitch_report = "store.save-glitch-report"

// SaveGlitchReport appends a report and returns its id.
func (s Store) SaveGlitchReport(ctx context.Context, report GlitchReport) (int64, error) {
	id, err := retry.Do(ctx, s.retry, func() (int64, error) {
		return s.qry.CreateGlitchReport(ctx, db.CreateGlitchReportParams{
			Type:        report.Type,
			Description: report.Description,
			UserRegNo:   report.UserRegNo,
			UserName:    report.UserName,
			CreatedAt:   s.time.Now().Unix(),
		})
	})
	if err != nil {
		s.tel.ReportBroken(report_store_save_glitch_report, err)
		return 0, fmt.Errorf("save glitch report: %w", err)
	}
	return id, nil
}
