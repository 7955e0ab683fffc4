package batch

import (
	"fmt"
	"strings"
)

// OrderIssue describes one malformed order in a batch.
type OrderIssue struct {
	Index   int
	Order   string
	Message string
}

// InvalidBatchError rejects a batch before any order is scheduled.
type InvalidBatchError struct {
	Issues []OrderIssue
}

func (err *InvalidBatchError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "invalid batch"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("orders[%d]: %s", issue.Index, issue.Message))
	}
	return "invalid batch:\n" + strings.Join(lines, "\n")
}

// ConcurrencyFault aborts a batch whose working stock cannot be trusted.
// The live inventory is left as it was before the batch.
type ConcurrencyFault struct {
	BatchID string
	Order   string
	Err     error
}

func (f *ConcurrencyFault) Error() string {
	if f.Order == "" {
		return fmt.Sprintf("batch %s: concurrency fault: %v", f.BatchID, f.Err)
	}
	return fmt.Sprintf("batch %s: concurrency fault in order %q: %v", f.BatchID, f.Order, f.Err)
}

func (f *ConcurrencyFault) Unwrap() error {
	return f.Err
}
