package types

// BatchResult summarizes a fail-soft bulk operation. Items are processed
// sequentially in the order supplied; each item's failure is recorded
// without aborting the remainder, so Succeeded+Failed == Total always holds.
type BatchResult struct {
	// RunID identifies one bulk invocation across log lines and records.
	RunID     string
	Total     int
	Succeeded int
	Failed    int
	Errors    []BatchError
}

// BatchError records one failed item within a bulk operation.
type BatchError struct {
	Item   string
	Reason string
}

// CancelRecord describes one successfully canceled order.
type CancelRecord struct {
	OrderID  string
	TxHash   string
	Quantity string
	Price    string
}

// CancelFailure describes one cancellation that failed.
type CancelFailure struct {
	OrderID string
	Reason  string
}

// CancellationSummary is the outcome of a bulk cancellation. The operation
// always completes; Canceled+Failed == TotalOrders.
type CancellationSummary struct {
	RunID       string
	TotalOrders int
	Canceled    int
	Failed      int

	CanceledOrders      []CancelRecord
	FailedCancellations []CancelFailure

	// Message carries a human-readable note for degenerate outcomes,
	// e.g. "no orders found to cancel".
	Message string
}
