package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TaxRate is the flat GST rate applied on top of the cart subtotal.
var TaxRate = decimal.NewFromFloat(0.18)

type CartLine struct {
	ProductID    string          `json:"product_id"`
	VariantID    string          `json:"variant_id"`
	ProductTitle string          `json:"product_title"`
	VariantTitle string          `json:"variant_title"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	ImageURL     string          `json:"image_url,omitempty"`
}

// Cart is the working set of selected variants for one admin session.
// It is discarded after a successful checkout; nothing survives the session.
type Cart struct {
	SessionID string     `json:"session_id"`
	Lines     []CartLine `json:"lines"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// AddLine merges the selection into the cart. A variant already present gets
// its quantity bumped by one; a new variant is appended with quantity 1. The
// price and display fields are snapshotted at selection time and never
// re-fetched.
func (c *Cart) AddLine(line CartLine) {
	for i := range c.Lines {
		if c.Lines[i].VariantID == line.VariantID {
			c.Lines[i].Quantity++
			return
		}
	}
	line.Quantity = 1
	c.Lines = append(c.Lines, line)
}

// SetQuantity updates the quantity of the matching line from raw form input.
// Non-numeric input or anything below 1 clamps to 1. Unknown variants are a
// no-op.
func (c *Cart) SetQuantity(variantID, raw string) {
	qty := 1
	if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && n > 1 {
		qty = n
	}
	for i := range c.Lines {
		if c.Lines[i].VariantID == variantID {
			c.Lines[i].Quantity = qty
			return
		}
	}
}

// RemoveLine deletes the matching line if present.
func (c *Cart) RemoveLine(variantID string) {
	for i := range c.Lines {
		if c.Lines[i].VariantID == variantID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Clone returns an independent copy of the cart. Callers can mutate the
// result without affecting other holders of the same session cart.
func (c *Cart) Clone() *Cart {
	clone := *c
	clone.Lines = make([]CartLine, len(c.Lines))
	copy(clone.Lines, c.Lines)
	return &clone
}

type CartSnapshot struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Snapshot derives the payment summary from the current lines. It is pure and
// recomputed on every call.
func (c *Cart) Snapshot() CartSnapshot {
	subtotal := decimal.Zero
	for _, line := range c.Lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	tax := subtotal.Mul(TaxRate).Round(2)
	return CartSnapshot{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}
