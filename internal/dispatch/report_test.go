package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/outreach/internal/model"
)

func TestSummarize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		outcomes    []model.Outcome
		wantSent    int
		wantErrors  []string
		wantStatus  model.BatchStatus
		wantMessage string
	}{
		{
			name: "all succeeded",
			outcomes: []model.Outcome{
				{Email: "a@x.com", Succeeded: true},
				{Email: "b@x.com", Succeeded: true},
			},
			wantSent:    2,
			wantErrors:  []string{},
			wantStatus:  model.BatchStatusSent,
			wantMessage: "Successfully sent 2 emails!",
		},
		{
			name: "mixed keeps attempt order",
			outcomes: []model.Outcome{
				{Email: "a@x.com", Error: "auth failed"},
				{Email: "b@x.com", Succeeded: true},
				{Email: "c@x.com", Error: "rejected"},
			},
			wantSent:    1,
			wantErrors:  []string{"a@x.com: auth failed", "c@x.com: rejected"},
			wantStatus:  model.BatchStatusPartial,
			wantMessage: "Sent 1 emails. Errors: a@x.com: auth failed; c@x.com: rejected",
		},
		{
			name: "all failed",
			outcomes: []model.Outcome{
				{Email: "a@x.com", Error: "535 bad credentials"},
			},
			wantSent:    0,
			wantErrors:  []string{"a@x.com: 535 bad credentials"},
			wantStatus:  model.BatchStatusFailed,
			wantMessage: "Sent 0 emails. Errors: a@x.com: 535 bad credentials",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			report := Summarize(tt.outcomes)
			assert.Equal(t, tt.wantSent, report.SuccessCount)
			assert.Equal(t, len(tt.outcomes), report.TotalAttempted)
			assert.Equal(t, tt.wantErrors, report.Errors)
			assert.Equal(t, tt.wantStatus, report.Status)
			assert.Equal(t, tt.wantMessage, report.Message)
			assert.Equal(t, report.TotalAttempted, report.SuccessCount+len(report.Errors))
		})
	}
}
