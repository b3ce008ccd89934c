package server

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/joseph-ayodele/poster-outreach/internal/common"
	"github.com/joseph-ayodele/poster-outreach/internal/entity"
	"github.com/joseph-ayodele/poster-outreach/internal/extract"
)

type extractRequest struct {
	Image string `json:"image"`
}

type extractResponse struct {
	Success      bool               `json:"success"`
	Data         entity.EventRecord `json:"data"`
	UsedFallback bool               `json:"used_fallback"`
	Persisted    bool               `json:"persisted"`
}

// handleExtract handles POST /extract.
func (h *handlers) handleExtract(w http.ResponseWriter, r *http.Request) {
	logger := common.LoggerFromContext(r.Context(), h.logger)
	r.Body = http.MaxBytesReader(w, r.Body, int64(base64.StdEncoding.EncodedLen(int(h.maxUpload)))+4096)

	var req extractRequest
	if err := decodeJSON(r, &req); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeAppError(w, common.InvalidInputErrorf("image exceeds %d bytes", h.maxUpload))
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Image) == "" {
		writeError(w, http.StatusBadRequest, "No image provided")
		return
	}

	image, err := DecodeImagePayload(req.Image)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if int64(len(image)) > h.maxUpload {
		writeAppError(w, common.InvalidInputErrorf("image exceeds %d bytes", h.maxUpload))
		return
	}

	out, err := h.proc.Process(r.Context(), image)
	if err != nil {
		status, msg := extractFailure(err)
		logger.Error("http.extract.failed", "status", status, "error", err)
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, extractResponse{
		Success:      true,
		Data:         out.Record,
		UsedFallback: out.UsedFallback,
		Persisted:    out.Persisted,
	})
}

// DecodeImagePayload accepts bare base64 or a data:<mime>;base64,<payload> URL.
func DecodeImagePayload(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		comma := strings.IndexByte(s, ',')
		if comma < 0 || !strings.HasSuffix(s[:comma], ";base64") {
			return nil, common.InvalidInputError("image data URL must be base64 encoded")
		}
		s = s[comma+1:]
	}
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, s)

	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		if b, rawErr := base64.RawStdEncoding.DecodeString(s); rawErr == nil {
			return b, nil
		}
		return nil, common.InvalidInputError("image must be base64 encoded")
	}
	if len(b) == 0 {
		return nil, common.InvalidInputError("No image provided")
	}
	return b, nil
}

func extractFailure(err error) (int, string) {
	var (
		decodeErr *extract.DecodeError
		ocrErr    *extract.OcrError
		catErr    *extract.CategorizationError
	)
	switch {
	case errors.As(err, &decodeErr):
		return http.StatusBadRequest, "Unsupported or unreadable image"
	case errors.As(err, &ocrErr):
		return http.StatusInternalServerError, "Failed to extract text from image"
	case errors.As(err, &catErr):
		return http.StatusInternalServerError, "Failed to categorize data"
	default:
		return statusFor(err), messageFor(err)
	}
}
