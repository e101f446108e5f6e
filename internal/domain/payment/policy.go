package payment

import (
	"fmt"
	"strings"
)

const (
	// DefaultLimitCents is the per-transaction ceiling ($5.00).
	DefaultLimitCents int64 = 500
	// DefaultBypassKeyword disables the ceiling when found in a payment method.
	DefaultBypassKeyword = "bypass"
	// MinMethodLength is the shortest payment method token accepted.
	MinMethodLength = 4
)

// CeilingPolicy rejects amounts above Limit unless the payment method contains
// BypassKeyword (case-insensitive). An empty BypassKeyword turns the bypass off.
type CeilingPolicy struct {
	Limit         int64
	BypassKeyword string
}

func DefaultCeilingPolicy() CeilingPolicy {
	return CeilingPolicy{Limit: DefaultLimitCents, BypassKeyword: DefaultBypassKeyword}
}

// Check reports whether the ceiling was bypassed. amount is in dollars exactly as
// submitted, so fractions of a cent above the limit still exceed it. It returns
// ErrLimitExceeded when the amount is over the limit and no bypass applies.
func (p CeilingPolicy) Check(amount float64, method string) (bypassed bool, err error) {
	if amount*100 <= float64(p.Limit) {
		return false, nil
	}
	if p.HasBypass(method) {
		return true, nil
	}
	return false, fmt.Errorf("%w of $%.2f", ErrLimitExceeded, float64(p.Limit)/100)
}

func (p CeilingPolicy) HasBypass(method string) bool {
	if p.BypassKeyword == "" {
		return false
	}
	return strings.Contains(strings.ToLower(method), strings.ToLower(p.BypassKeyword))
}

// ValidateMethod only looks at the token length; the token itself is never verified.
func ValidateMethod(method string) error {
	if len(method) < MinMethodLength {
		return ErrInvalidMethod
	}
	return nil
}
