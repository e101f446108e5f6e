package order

import (
	"errors"
	"maps"
	"math"
	"time"
)

var (
	ErrNotFound = errors.New("order: not found")
	ErrConflict = errors.New("order: already exists")
)

type Status string

// Status values carry no transition rules; any status can follow any other.
const (
	StatusCreated  Status = "created"
	StatusPaid     Status = "paid"
	StatusRefunded Status = "refunded"
)

const (
	// PriceCents is what every design costs, whatever the prompt or style.
	PriceCents int64 = 499
	// DefaultStyle applies when a design request leaves the style empty.
	DefaultStyle = "vibrant and modern"
)

type Order struct {
	ID            string
	DesignPrompt  string
	Style         string
	CustomerEmail string
	DesignURL     string
	ImagePreview  string
	Price         int64
	Status        Status

	PaymentAmount  int64
	PaymentMethod  string
	PaymentID      string
	CustomerName   string
	BillingAddress map[string]string
	PaidAt         time.Time

	RefundReason string
	RefundedAt   time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// New builds an order for a freshly generated design.
func New(id, prompt, style, email, designURL, imagePreview string) *Order {
	if style == "" {
		style = DefaultStyle
	}
	now := time.Now().UTC()
	return &Order{
		ID:            id,
		DesignPrompt:  prompt,
		Style:         style,
		CustomerEmail: email,
		DesignURL:     designURL,
		ImagePreview:  imagePreview,
		Price:         PriceCents,
		Status:        StatusCreated,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Payment is what the client submitted when paying, plus the provider charge id.
type Payment struct {
	Amount         int64
	Method         string
	ChargeID       string
	CustomerName   string
	BillingAddress map[string]string
}

// MarkPaid records the payment and sets the status to paid from any status.
// The submitted amount is stored as-is; it is never compared with Price.
func (o *Order) MarkPaid(p Payment) {
	now := time.Now().UTC()
	o.Status = StatusPaid
	o.PaymentAmount = p.Amount
	o.PaymentMethod = p.Method
	o.PaymentID = p.ChargeID
	o.CustomerName = p.CustomerName
	o.BillingAddress = maps.Clone(p.BillingAddress)
	o.PaidAt = now
	o.UpdatedAt = now
}

// MarkRefunded sets the status to refunded from any status, paid or not.
func (o *Order) MarkRefunded(reason string) {
	now := time.Now().UTC()
	o.Status = StatusRefunded
	o.RefundReason = reason
	o.RefundedAt = now
	o.UpdatedAt = now
}

// RefundAmount is the amount paid, or the list price when nothing was paid.
func (o *Order) RefundAmount() int64 {
	if o.PaymentAmount > 0 {
		return o.PaymentAmount
	}
	return o.Price
}

func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.BillingAddress = maps.Clone(o.BillingAddress)
	return &clone
}

// Cents converts a dollar amount to integer cents, rounding to the nearest cent.
// Amounts outside the int64 range saturate at its bounds.
func Cents(dollars float64) int64 {
	c := math.Round(dollars * 100)
	switch {
	case c >= math.MaxInt64:
		return math.MaxInt64
	case c <= math.MinInt64:
		return math.MinInt64
	}
	return int64(c)
}

// Dollars converts integer cents back to a dollar amount.
func Dollars(cents int64) float64 {
	return float64(cents) / 100
}
