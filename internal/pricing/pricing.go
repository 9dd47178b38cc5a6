// Package pricing computes cart and order totals. It is a pure function of
// its input so callers can recompute totals on every cart read without side
// effects.
package pricing

// VATRate is applied to the post-discount subtotal.
const VATRate = 0.075

type Line struct {
	Price       float64
	DiscountPct float64
	Quantity    int
}

type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	VAT      float64 `json:"vat"`
	Total    float64 `json:"total"`
}

// Compute returns totals for the given lines. An empty slice yields all-zero
// totals; rejecting an empty cart is the caller's job.
func Compute(lines []Line) Totals {
	var t Totals
	for _, line := range lines {
		qty := float64(line.Quantity)
		t.Subtotal += line.Price * qty
		t.Discount += line.Price * line.DiscountPct / 100 * qty
	}
	t.VAT = (t.Subtotal - t.Discount) * VATRate
	t.Total = t.Subtotal - t.Discount + t.VAT
	return t
}
