package common

const (
	InvoiceStatePending   = "pending"
	InvoiceStateCompleted = "completed"
	InvoiceStateFailed    = "failed"

	// Credit state values persisted on a payment record. The numeric order
	// matters: a record only ever advances, never goes back.
	CreditStateUncredited int16 = 0
	CreditStateCrediting  int16 = 1
	CreditStateCredited   int16 = 2
)
