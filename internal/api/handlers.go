package api

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ignite/formrelay/internal/config"
	"github.com/ignite/formrelay/internal/pkg/httputil"
	"github.com/ignite/formrelay/internal/relay"
	"github.com/ignite/formrelay/internal/submission"
)

// Response messages for the submission endpoints.
const (
	MsgSubmitted        = "Submission successful. You will receive an email confirmation."
	MsgSubmittedPartial = "Submission received with errors."
	MsgFault            = "❌ Error submitting form."
)

// Submitter runs the relay steps for a parsed submission.
type Submitter interface {
	Submit(ctx context.Context, form config.Form, sub *submission.Submission) *relay.Outcome
}

// SubmitResponse is the JSON body returned by the submission endpoints.
type SubmitResponse struct {
	Message      string            `json:"message"`
	SubmissionID string            `json:"submission_id"`
	Steps        map[string]string `json:"steps"`
}

// Handlers contains the submission endpoint handlers.
type Handlers struct {
	relay         Submitter
	failOnPartial bool
	log           *zap.Logger
}

// NewHandlers creates handlers backed by the relay service. With
// failOnPartial set, any failed step turns the response into a 502.
func NewHandlers(svc Submitter, failOnPartial bool, log *zap.Logger) *Handlers {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handlers{relay: svc, failOnPartial: failOnPartial, log: log}
}

// Submit returns the handler for one form endpoint.
//
//	POST /listings, /buyers, /sde
func (h *Handlers) Submit(form config.Form) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, err := submission.ParseRequest(r)
		if err != nil {
			h.log.Warn("rejected submission", zap.String("form", form.Name), zap.Error(err))
			if errors.Is(err, submission.ErrBodyTooLarge) {
				httputil.Error(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			httputil.BadRequest(w, "invalid form body")
			return
		}

		out := h.relay.Submit(r.Context(), form, sub)

		resp := SubmitResponse{
			Message:      MsgSubmitted,
			SubmissionID: out.SubmissionID,
			Steps:        out.Summary(),
		}
		status := http.StatusOK
		if h.failOnPartial && !out.OK() {
			resp.Message = MsgSubmittedPartial
			status = http.StatusBadGateway
		}
		httputil.JSON(w, status, resp)
	}
}
