package model

// Attachment represents an uploaded file. Data is shared read-only by every
// message of a batch.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// BatchRequest is one operator submission.
type BatchRequest struct {
	Sender          string
	Credential      string
	RangeStart      int
	RangeEnd        int
	SubjectTemplate string
	BodyTemplate    string
	Attachment      *Attachment
}

// Message is a rendered email addressed to a single recipient.
type Message struct {
	To         string
	Subject    string
	Body       string
	Attachment *Attachment
}

// Outcome records the result of one send attempt.
type Outcome struct {
	Email     string `json:"email"`
	Succeeded bool   `json:"succeeded"`
	Error     string `json:"error,omitempty"`
}

type BatchStatus string

const (
	BatchStatusSent    BatchStatus = "sent"
	BatchStatusPartial BatchStatus = "partial"
	BatchStatusFailed  BatchStatus = "failed"
)

// BatchReport summarizes a dispatched batch.
type BatchReport struct {
	BatchID        string      `json:"batchId"`
	SuccessCount   int         `json:"sent"`
	TotalAttempted int         `json:"attempted"`
	Errors         []string    `json:"errors"`
	Status         BatchStatus `json:"status"`
	Message        string      `json:"message"`
}

// AllSucceeded reports whether every attempted send went through.
func (r BatchReport) AllSucceeded() bool {
	return r.SuccessCount == r.TotalAttempted
}
