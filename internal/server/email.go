package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/joseph-ayodele/poster-outreach/internal/common"
	"github.com/joseph-ayodele/poster-outreach/internal/entity"
	"github.com/joseph-ayodele/poster-outreach/internal/templates"
)

const maxSubjectLength = 998

type generateEmailRequest struct {
	TemplateType string         `json:"template_type"`
	EventData    map[string]any `json:"event_data"`
}

type sendBatchRequest struct {
	Emails []entity.RenderedEmail `json:"emails"`
}

// handleTemplates handles GET /templates.
func (h *handlers) handleTemplates(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.templates.List())
}

// handleGenerateEmail handles POST /generate-email. Missing event_data keys
// take the record defaults, so only the template itself can fail to render.
func (h *handlers) handleGenerateEmail(w http.ResponseWriter, r *http.Request) {
	var req generateEmailRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.TemplateType) == "" {
		writeError(w, http.StatusBadRequest, "template_type is required")
		return
	}

	rec := entity.EventRecordFromMap(stringFields(req.EventData))
	email, err := h.templates.Render(req.TemplateType, rec)
	if err != nil {
		var tplErr *templates.TemplateError
		switch {
		case errors.Is(err, templates.ErrUnknownTemplate):
			writeError(w, http.StatusBadRequest, "Invalid template type")
		case errors.As(err, &tplErr):
			writeError(w, http.StatusBadRequest, tplErr.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "email": email})
}

// handleSendEmail handles POST /send-email.
func (h *handlers) handleSendEmail(w http.ResponseWriter, r *http.Request) {
	var req entity.RenderedEmail
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validateEmail(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !h.sender.Send(r.Context(), req) {
		writeError(w, http.StatusInternalServerError, "Failed to send email")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Email sent successfully"})
}

// handleSendBatch handles POST /send-batch. success is true only when every
// message was accepted; a partial batch still answers 200 with the counts.
func (h *handlers) handleSendBatch(w http.ResponseWriter, r *http.Request) {
	var req sendBatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Emails) == 0 {
		writeError(w, http.StatusBadRequest, "emails is required")
		return
	}
	for i, m := range req.Emails {
		if err := validateEmail(m); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("emails[%d]: %v", i, err))
			return
		}
	}

	res := h.sender.SendBatch(r.Context(), req.Emails)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": res.Failed == 0,
		"sent":    res.Sent,
		"failed":  res.Failed,
		"errors":  res.Errors,
	})
}

func validateEmail(m entity.RenderedEmail) error {
	return common.NewValidator().
		Field("to", m.To, common.Required, common.Email).
		Field("subject", m.Subject, common.Required, common.MaxLength(maxSubjectLength)).
		Field("body", m.Body, common.Required).
		Err()
}

// stringFields flattens a loose JSON object into record field strings.
// Nulls are dropped so they fall back to the record defaults.
func stringFields(m map[string]any) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		switch tv := v.(type) {
		case nil:
		case string:
			out[k] = strings.TrimSpace(tv)
		default:
			out[k] = fmt.Sprint(tv)
		}
	}
	return out
}
