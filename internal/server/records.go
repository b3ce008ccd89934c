package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/joseph-ayodele/poster-outreach/internal/common"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var errNoStore = common.NewAppError("NOT_CONFIGURED", "record store is not configured", common.ErrNotFound)

// handleRecords handles GET /records.
func (h *handlers) handleRecords(w http.ResponseWriter, r *http.Request) {
	if h.records == nil {
		writeAppError(w, errNoStore)
		return
	}
	rows, err := h.records.Rows(r.Context())
	if err != nil {
		common.LoggerFromContext(r.Context(), h.logger).Error("http.records.failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read records")
		return
	}

	var header []string
	data := [][]string{}
	if len(rows) > 0 {
		header, data = rows[0], rows[1:]
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"sheet":   h.records.SheetName(),
		"header":  header,
		"rows":    data,
	})
}

// handleExportRecords handles GET /records/export.xlsx.
func (h *handlers) handleExportRecords(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		writeAppError(w, errNoStore)
		return
	}
	body, err := h.exporter.ExportXLSX(r.Context())
	if err != nil {
		common.LoggerFromContext(r.Context(), h.logger).Error("http.export.failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to export records")
		return
	}

	name := fmt.Sprintf("event-posters-%s.xlsx", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
