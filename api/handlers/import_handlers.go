package handlers

import (
	"net/http"
	"strings"

	"osprey-mdi/core/importer"
	"osprey-mdi/core/store"
	"osprey-mdi/core/utils"
)

const importMaxBytes = 16 * 1024 * 1024

type ImportHandler struct {
	importer *importer.Importer
	audits   store.AuditStore
	logger   *utils.Logger
}

func NewImportHandler(im *importer.Importer, audits store.AuditStore, logger *utils.Logger) *ImportHandler {
	return &ImportHandler{importer: im, audits: audits, logger: logger}
}

// ImportCSV appends the posted CSV body into the table named by the
// `table` query parameter.
func (h *ImportHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	table := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("table")))
	if table == "" {
		http.Error(w, "table parameter required", http.StatusBadRequest)
		return
	}
	body := http.MaxBytesReader(w, r.Body, importMaxBytes)
	defer body.Close()
	n, err := h.importer.ImportCSV(r.Context(), table, body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.audits.Log(r.Context(), actorName(r), "import.csv", table)
	writeJSON(w, http.StatusOK, map[string]any{"imported": n, "table": table})
}
