package service

import "errors"

var (
	// ErrInvalidAmount : requested amount is outside the configured bounds
	ErrInvalidAmount = errors.New("amount outside configured bounds")
	// ErrLinkCreationFailed : the provider did not give us a usable payment link
	ErrLinkCreationFailed = errors.New("payment link creation failed")
	// ErrMalformedReference : no parseable order reference in the payload
	ErrMalformedReference = errors.New("malformed order reference")
	// ErrOwnerMismatch : decoded user does not own the referenced invoice.
	// This is an integrity signal, the record stays in its current credit
	// state for manual reconciliation.
	ErrOwnerMismatch = errors.New("order reference owner mismatch")
	// ErrLedgerCreditFailed : the ledger call failed after the crediting
	// marker was taken. There is no automated recovery here: re-crediting
	// could pay twice, reverting could lose a credit that actually landed.
	ErrLedgerCreditFailed = errors.New("ledger credit failed")

	// ErrInvoiceNotFound : ledger has no invoice with that id
	ErrInvoiceNotFound = errors.New("invoice not found")
	// ErrInvoiceNotPending : invoice already left the pending state
	ErrInvoiceNotPending = errors.New("invoice is not pending")
)
