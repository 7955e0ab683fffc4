package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"dispenser/pkg/dispenser"
)

func (h *handler) handleRefill(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h.machine == nil {
		writeError(w, http.StatusInternalServerError, codeInternal)
		return
	}
	var req dispenser.RefillRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil || len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, codeInvalidRequest)
		return
	}
	if !h.machine.Initialized() {
		writeError(w, http.StatusConflict, codeNotInitialized)
		return
	}
	stock, err := h.machine.Refill(req.Items)
	if errors.Is(err, dispenser.ErrOverflow) {
		writeIssues(w, http.StatusBadRequest, []dispenser.FieldIssue{{Field: "items", Message: err.Error()}})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternal)
		return
	}
	if h.onRefill != nil {
		h.onRefill(stock)
	}
	writeJSON(w, http.StatusOK, dispenser.ItemsResponse{Items: stock})
}

func (h *handler) handleItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h.machine == nil {
		writeError(w, http.StatusInternalServerError, codeInternal)
		return
	}
	writeJSON(w, http.StatusOK, dispenser.ItemsResponse{Items: h.machine.AllItemIndicator()})
}

func (h *handler) handleLowItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h.machine == nil {
		writeError(w, http.StatusInternalServerError, codeInternal)
		return
	}
	writeJSON(w, http.StatusOK, dispenser.LowItemsResponse{Items: h.machine.LowItemIndicator()})
}
