package handler

import (
	"log/slog"
	"net/http"

	"github.com/outreach/internal/dispatch"
	"github.com/outreach/internal/model"
)

type candidateLister interface {
	Candidates(from, to int) []model.Contact
}

// RecipientsHandler previews who a batch would reach without sending anything.
type RecipientsHandler struct {
	BaseHandler
	candidates candidateLister
}

func NewRecipientsHandler(logger *slog.Logger, candidates candidateLister) *RecipientsHandler {
	return &RecipientsHandler{BaseHandler: BaseHandler{Logger: logger}, candidates: candidates}
}

// List handles GET /api/recipients?fromSno=&toSno=.
func (h *RecipientsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to, err := dispatch.ParseRange(q.Get("fromSno"), q.Get("toSno"))
	if err != nil {
		h.badRequestResponse(w, r, err.Error())
		return
	}

	recipients := h.candidates.Candidates(from, to)
	if recipients == nil {
		recipients = []model.Contact{}
	}

	err = h.writeJSON(w, http.StatusOK, envelope{"count": len(recipients), "recipients": recipients}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
