package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine is the minimal projection of a cart line sent to the commerce
// platform: which variant, how many.
type OrderLine struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

// OrderSubmission is assembled fresh for every checkout attempt and not
// retained once the remote calls resolve.
type OrderSubmission struct {
	Lines          []OrderLine `json:"lines"`
	CustomerID     string      `json:"customer_id,omitempty"`
	Tags           []string    `json:"tags,omitempty"`
	Note           string      `json:"note,omitempty"`
	IdempotencyKey string      `json:"idempotency_key"`
}

// NewOrderSubmission projects the cart lines into the submission payload.
func NewOrderSubmission(cart *Cart, customerID, rawTags, note, idempotencyKey string) OrderSubmission {
	lines := make([]OrderLine, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		lines = append(lines, OrderLine{VariantID: l.VariantID, Quantity: l.Quantity})
	}
	return OrderSubmission{
		Lines:          lines,
		CustomerID:     customerID,
		Tags:           ParseTags(rawTags),
		Note:           note,
		IdempotencyKey: idempotencyKey,
	}
}

// ParseTags splits comma-separated free text into a tag set. An empty string
// yields no tags; interior entries are trimmed but otherwise passed through,
// empty ones included.
func ParseTags(raw string) []string {
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		tags = append(tags, strings.TrimSpace(p))
	}
	return tags
}

// UserError is a field-scoped validation failure reported by the commerce
// platform alongside an otherwise well-formed response.
type UserError struct {
	Field   []string `json:"field,omitempty"`
	Message string   `json:"message"`
}

// SubmissionOutcome collapses the two-phase draft order flow into the single
// result the caller branches on: navigate away on success, render the error
// list otherwise.
type SubmissionOutcome struct {
	Success bool        `json:"success"`
	Errors  []UserError `json:"errors,omitempty"`
}

func SubmissionSucceeded() SubmissionOutcome {
	return SubmissionOutcome{Success: true}
}

func SubmissionFailed(errs []UserError) SubmissionOutcome {
	return SubmissionOutcome{Success: false, Errors: errs}
}

// Order is the read model for the order list and detail screens.
type Order struct {
	ID                       string          `json:"id"`
	Name                     string          `json:"name"`
	Email                    string          `json:"email,omitempty"`
	Phone                    string          `json:"phone,omitempty"`
	Note                     string          `json:"note,omitempty"`
	TotalPrice               decimal.Decimal `json:"total_price"`
	Currency                 string          `json:"currency"`
	DisplayFinancialStatus   string          `json:"display_financial_status"`
	DisplayFulfillmentStatus string          `json:"display_fulfillment_status"`
	Tags                     []string        `json:"tags,omitempty"`
	Customer                 *Customer       `json:"customer,omitempty"`
	LineItems                []OrderLineItem `json:"line_items,omitempty"`
	CreatedAt                time.Time       `json:"created_at"`
	UpdatedAt                time.Time       `json:"updated_at"`
	CancelledAt              *time.Time      `json:"cancelled_at,omitempty"`
	CancelReason             string          `json:"cancel_reason,omitempty"`
}

type OrderLineItem struct {
	ID        string          `json:"id,omitempty"`
	Title     string          `json:"title"`
	Quantity  int             `json:"quantity"`
	VariantID string          `json:"variant_id,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// TotalItems sums the quantities across line items, the figure shown in the
// orders table.
func (o Order) TotalItems() int {
	total := 0
	for _, li := range o.LineItems {
		total += li.Quantity
	}
	return total
}
