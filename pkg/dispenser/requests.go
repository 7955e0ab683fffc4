package dispenser

// BatchResponse is returned by POST /v1/batches.
type BatchResponse struct {
	BatchID  string    `json:"batch_id"`
	Results  []string  `json:"results"`
	Outcomes []Outcome `json:"outcomes"`
	Items    Stock     `json:"items"`
}

// RefillRequest is the body of POST /v1/refill.
type RefillRequest struct {
	Items Stock `json:"items"`
}

// ItemsResponse carries the all-item indicator.
type ItemsResponse struct {
	Items Stock `json:"items"`
}

// LowItemsResponse carries the low-item indicator.
type LowItemsResponse struct {
	Items []Resource `json:"items"`
}

// FieldIssue describes one rejected field of a submission.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error  string       `json:"error"`
	Issues []FieldIssue `json:"issues,omitempty"`
}
