package services

import "errors"

// Business-rule and lookup failures surfaced to handlers. Handlers map these
// to HTTP status codes; anything else is treated as a server error.
var (
	ErrInvoiceNotFound     = errors.New("invoice not found")
	ErrTransactionNotFound = errors.New("payment transaction not found")
	ErrInvoiceAlreadyPaid  = errors.New("invoice is already fully paid")
	ErrMessageNotFound     = errors.New("message not found")
)
