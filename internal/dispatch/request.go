package dispatch

import (
	"strconv"
	"strings"

	"github.com/outreach/internal/mailer"
	"github.com/outreach/internal/model"
)

// ParseRange parses the inclusive ordinal bounds of a batch.
func ParseRange(from, to string) (int, int, error) {
	start, err := parseBound("fromSno", from)
	if err != nil {
		return 0, 0, err
	}
	end, err := parseBound("toSno", to)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func parseBound(field, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, &InvalidRangeError{Field: field}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &InvalidRangeError{Field: field, Value: raw}
	}
	return n, nil
}

// ValidateRequest checks the fields a batch cannot run without.
func ValidateRequest(req model.BatchRequest) error {
	switch {
	case strings.TrimSpace(req.Sender) == "":
		return &ValidationError{Field: "email", Reason: "is required"}
	case !mailer.IsValidAddress(req.Sender):
		return &ValidationError{Field: "email", Reason: "must be a valid email address"}
	case req.Credential == "":
		return &ValidationError{Field: "appKey", Reason: "is required"}
	case strings.TrimSpace(req.BodyTemplate) == "":
		return &ValidationError{Field: "message", Reason: "is required"}
	case req.Attachment != nil && len(req.Attachment.Data) == 0:
		return &ValidationError{Field: "resume", Reason: "must not be empty"}
	}
	return nil
}
