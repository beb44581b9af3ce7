package models

// BatchItemResult is the outcome of one item in a batch operation.
// Exactly one of Result or Err is meaningful depending on Success.
type BatchItemResult[T any, I comparable] struct {
	Success bool   `json:"success"`
	ItemID  I      `json:"item_id"`
	Result  T      `json:"result,omitempty"`
	Err     string `json:"error,omitempty"`
}

// BatchResult aggregates per-item outcomes in input order. The counts are
// derived from the results slice, never set independently.
type BatchResult[T any, I comparable] struct {
	TotalCount   int                     `json:"total_count"`
	SuccessCount int                     `json:"success_count"`
	FailureCount int                     `json:"failure_count"`
	Results      []BatchItemResult[T, I] `json:"results"`
}

// NewBatchResult computes summary counts over results.
func NewBatchResult[T any, I comparable](results []BatchItemResult[T, I]) BatchResult[T, I] {
	succ := 0
	for _, r := range results {
		if r.Success {
			succ++
		}
	}
	return BatchResult[T, I]{
		TotalCount:   len(results),
		SuccessCount: succ,
		FailureCount: len(results) - succ,
		Results:      results,
	}
}

// BatchOK records a successful item.
func BatchOK[T any, I comparable](id I, result T) BatchItemResult[T, I] {
	return BatchItemResult[T, I]{Success: true, ItemID: id, Result: result}
}

// BatchFail records a failed item with the error message surfaced to the caller.
func BatchFail[T any, I comparable](id I, err error) BatchItemResult[T, I] {
	return BatchItemResult[T, I]{Success: false, ItemID: id, Err: err.Error()}
}
