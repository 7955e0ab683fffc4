package api

import (
	"encoding/json"
	"net/http"

	"dispenser/pkg/dispenser"
)

const (
	codeInvalidRequest   = "invalid_request"
	codeNotInitialized   = "not_initialized"
	codeConcurrencyFault = "concurrency_fault"
	codeUnavailable      = "unavailable"
	codeInternal         = "internal_error"
)

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, dispenser.ErrorResponse{Error: code})
}

func writeIssues(w http.ResponseWriter, status int, issues []dispenser.FieldIssue) {
	writeJSON(w, status, dispenser.ErrorResponse{Error: codeInvalidRequest, Issues: issues})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		status = http.StatusInternalServerError
		data, _ = json.Marshal(dispenser.ErrorResponse{Error: codeInternal})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
