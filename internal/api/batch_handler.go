package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"dispenser/internal/batch"
	"dispenser/internal/inventory"
	"dispenser/internal/machine"
	"dispenser/internal/submission"
	"dispenser/pkg/dispenser"
)

func (h *handler) handleBatches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h.machine == nil {
		writeError(w, http.StatusInternalServerError, codeInternal)
		return
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest)
		return
	}
	sub, err := submission.Parse(data)
	if err != nil {
		writeSubmissionError(w, err)
		return
	}
	res, err := h.machine.ProcessData(r.Context(), sub)
	if err != nil {
		writeProcessError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dispenser.BatchResponse{
		BatchID:  res.BatchID,
		Results:  dispenser.Strings(res.Outcomes),
		Outcomes: res.Outcomes,
		Items:    res.Stock,
	})
}

func writeSubmissionError(w http.ResponseWriter, err error) {
	var validation *submission.ValidationError
	if !errors.As(err, &validation) {
		writeIssues(w, http.StatusBadRequest, []dispenser.FieldIssue{{Field: "document", Message: err.Error()}})
		return
	}
	issues := make([]dispenser.FieldIssue, 0, len(validation.Issues))
	for _, issue := range validation.Issues {
		issues = append(issues, dispenser.FieldIssue{Field: issue.Field, Message: issue.Message})
	}
	writeIssues(w, http.StatusBadRequest, issues)
}

func writeProcessError(w http.ResponseWriter, err error) {
	var invalid *batch.InvalidBatchError
	var fault *batch.ConcurrencyFault
	switch {
	case errors.As(err, &invalid):
		issues := make([]dispenser.FieldIssue, 0, len(invalid.Issues))
		for _, issue := range invalid.Issues {
			issues = append(issues, dispenser.FieldIssue{Field: fmt.Sprintf("orders[%d]", issue.Index), Message: issue.Message})
		}
		writeIssues(w, http.StatusBadRequest, issues)
	case errors.Is(err, inventory.ErrInvalidOutlets), errors.Is(err, inventory.ErrEmptyStock):
		writeIssues(w, http.StatusBadRequest, []dispenser.FieldIssue{{Field: "machine", Message: err.Error()}})
	case errors.Is(err, dispenser.ErrOverflow):
		writeIssues(w, http.StatusBadRequest, []dispenser.FieldIssue{{Field: "machine.total_items_quantity", Message: err.Error()}})
	case errors.As(err, &fault):
		writeError(w, http.StatusInternalServerError, codeConcurrencyFault)
	case errors.Is(err, machine.ErrClosed):
		writeError(w, http.StatusServiceUnavailable, codeUnavailable)
	default:
		writeError(w, http.StatusInternalServerError, codeInternal)
	}
}
