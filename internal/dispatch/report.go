package dispatch

import (
	"fmt"
	"strings"

	"github.com/outreach/internal/model"
)

// Summarize reduces outcomes into a report. Errors keep attempt order.
func Summarize(outcomes []model.Outcome) model.BatchReport {
	report := model.BatchReport{
		TotalAttempted: len(outcomes),
		Errors:         []string{},
	}
	for _, o := range outcomes {
		if o.Succeeded {
			report.SuccessCount++
			continue
		}
		report.Errors = append(report.Errors, fmt.Sprintf("%s: %s", o.Email, o.Error))
	}

	switch {
	case len(report.Errors) == 0:
		report.Status = model.BatchStatusSent
		report.Message = fmt.Sprintf("Successfully sent %d emails!", report.SuccessCount)
	case report.SuccessCount > 0:
		report.Status = model.BatchStatusPartial
		report.Message = fmt.Sprintf("Sent %d emails. Errors: %s", report.SuccessCount, strings.Join(report.Errors, "; "))
	default:
		report.Status = model.BatchStatusFailed
		report.Message = fmt.Sprintf("Sent %d emails. Errors: %s", report.SuccessCount, strings.Join(report.Errors, "; "))
	}
	return report
}
