package payment

import (
	"context"
	"errors"
)

var (
	ErrDeclined      = errors.New("payment: declined")
	ErrInvalidMethod = errors.New("payment: invalid payment method")
	ErrLimitExceeded = errors.New("payment: amount exceeds maximum transaction limit")
)

type Status string

const (
	StatusSuccess Status = "succeeded"
	StatusFailed  Status = "failed"
)

// ChargeRequest is what gets sent to the payment provider. Amount is in cents.
type ChargeRequest struct {
	OrderID     string
	Amount      int64
	Method      string
	Description string
}

type ChargeResult struct {
	ChargeID string
	Status   Status
}

// Processor charges a payment method. Implementations return ErrDeclined when the
// provider refuses the charge.
type Processor interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}
