package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrPaymentNotFound = errors.New("payment not found")
	ErrPaymentFailed   = errors.New("payment failed")

	// ErrStockConflict means a concurrent checkout won the stock race after
	// validation already passed. Retryable; a retry re-validates and either
	// succeeds or turns into InsufficientStockError.
	ErrStockConflict = errors.New("stock changed concurrently")
)

type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s", e.ProductName)
}

// ProviderError wraps timeouts and network failures talking to the payment
// provider. Callers may retry; no local state has been committed.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("payment provider %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
