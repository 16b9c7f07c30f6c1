package handlers

import (
	"net/http"
	"strings"

	"osprey-mdi/core/datasets"
	"osprey-mdi/core/store"
	"osprey-mdi/core/utils"
)

type DatasetsHandler struct {
	svc    *datasets.Service
	logger *utils.Logger
}

func NewDatasetsHandler(svc *datasets.Service, logger *utils.Logger) *DatasetsHandler {
	return &DatasetsHandler{svc: svc, logger: logger}
}

func (h *DatasetsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []store.Dataset{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *DatasetsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var ds store.Dataset
	if err := decodeJSON(r, &ds); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(ds.DatasetName) == "" {
		http.Error(w, "dataset_name required", http.StatusBadRequest)
		return
	}
	id, err := h.svc.Create(r.Context(), actorName(r), &ds)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	ds.ID = id
	writeJSON(w, http.StatusCreated, map[string]any{"item": ds})
}

func (h *DatasetsHandler) UpdateOwner(w http.ResponseWriter, r *http.Request) {
	datasetName := urlParam(r, "dataset_name")
	var payload struct {
		Owner string `json:"owner"`
	}
	if err := decodeJSON(r, &payload); err != nil || strings.TrimSpace(payload.Owner) == "" {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	n, err := h.svc.ChangeOwner(r.Context(), actorName(r), datasetName, payload.Owner)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"updated": n})
}

func (h *DatasetsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	datasetName := urlParam(r, "dataset_name")
	n, err := h.svc.Remove(r.Context(), actorName(r), datasetName)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": n})
}

func (h *DatasetsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.Summarize(r.Context())
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
