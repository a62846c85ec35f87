package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/outreach/internal/dispatch"
	"github.com/outreach/internal/model"
)

type batchRunner interface {
	Run(ctx context.Context, req model.BatchRequest) (model.BatchReport, error)
}

// SendHandler accepts a batch submission and dispatches it.
type SendHandler struct {
	BaseHandler
	engine          batchRunner
	maxUploadSizeMB int
}

func NewSendHandler(logger *slog.Logger, engine batchRunner, maxUploadSizeMB int) *SendHandler {
	return &SendHandler{
		BaseHandler:     BaseHandler{Logger: logger},
		engine:          engine,
		maxUploadSizeMB: maxUploadSizeMB,
	}
}

// Handle processes POST /send-email. It answers 200 only when every message
// was sent, 500 when any send failed and 400 when nothing could be attempted.
func (h *SendHandler) Handle(w http.ResponseWriter, r *http.Request) {
	// Parse multipart form with size limit
	maxSize := int64(h.maxUploadSizeMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		h.Logger.Warn("form parse failed", "error", err)
		h.badRequestResponse(w, r, "Form too large or invalid")
		return
	}
	defer r.MultipartForm.RemoveAll()

	req, err := extractRequest(r)
	if err != nil {
		h.badRequestResponse(w, r, "Invalid request: "+err.Error())
		return
	}

	attachment, err := readAttachment(r)
	if err != nil {
		h.Logger.Warn("attachment processing failed", "error", err)
		h.badRequestResponse(w, r, "Error processing attachment")
		return
	}
	req.Attachment = attachment

	// The batch finishes even if the client goes away mid-send.
	report, err := h.engine.Run(context.WithoutCancel(r.Context()), req)
	switch {
	case errors.Is(err, dispatch.ErrNoRecipients):
		h.badRequestResponse(w, r, "No valid recipient emails found in the given range.")
		return
	case dispatch.IsValidation(err):
		h.badRequestResponse(w, r, "Invalid request: "+err.Error())
		return
	case err != nil:
		h.serverErrorResponse(w, r, err)
		return
	}

	status := http.StatusOK
	if !report.AllSucceeded() {
		status = http.StatusInternalServerError
	}
	if err := h.writeJSON(w, status, report, nil); err != nil {
		h.logError(r, err)
	}
}

// extractRequest reads the batch fields. firstName, lastName and role only
// feed the form's own defaults and are not needed here.
func extractRequest(r *http.Request) (model.BatchRequest, error) {
	start, end, err := dispatch.ParseRange(r.FormValue("fromSno"), r.FormValue("toSno"))
	if err != nil {
		return model.BatchRequest{}, err
	}
	return model.BatchRequest{
		Sender:          strings.TrimSpace(r.FormValue("email")),
		Credential:      strings.TrimSpace(r.FormValue("appKey")),
		RangeStart:      start,
		RangeEnd:        end,
		SubjectTemplate: strings.TrimSpace(r.FormValue("subject")),
		BodyTemplate:    r.FormValue("message"),
	}, nil
}

// readAttachment loads the optional resume upload into memory.
func readAttachment(r *http.Request) (*model.Attachment, error) {
	file, header, err := r.FormFile("resume")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", header.Filename, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s is empty", header.Filename)
	}

	return &model.Attachment{
		Filename:    sanitizeFilename(header.Filename),
		ContentType: http.DetectContentType(data),
		Data:        data,
	}, nil
}

const maxFilenameBytes = 100

// sanitizeFilename removes path components and dangerous characters
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "\x00", "")
	name = strings.NewReplacer("\r", "", "\n", "").Replace(name)
	if len(name) > maxFilenameBytes {
		cut := maxFilenameBytes
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		name = name[:cut]
	}
	if name == "" {
		name = "attachment"
	}
	return name
}
