// Package pricing turns a list of priced cart lines into an order quote.
// It is pure and stateless: the order ledger validates quantities and stock
// before calling in, so the calculator only does arithmetic.
package pricing

// Line is one (unit price, quantity) pair of a cart.
type Line struct {
	UnitPrice Paise
	Quantity  int
}

// Quote is the monetary result of pricing a cart.
type Quote struct {
	Subtotal   Paise `json:"subtotal"`
	Tax        Paise `json:"tax"`
	Total      Paise `json:"total"`
	TaxRateBps int   `json:"tax_rate_bps"`
}

// Calculate prices the given lines at a tax rate expressed in basis points
// (500 = 5%). Subtotal is the exact integer sum of line totals; tax is
// subtotal*rate rounded half-up to the nearest paisa; total = subtotal + tax.
func Calculate(lines []Line, taxRateBps int) Quote {
	var subtotal Paise
	for _, l := range lines {
		subtotal += l.UnitPrice * Paise(l.Quantity)
	}
	tax := roundHalfUp(int64(subtotal)*int64(taxRateBps), 10000)
	return Quote{
		Subtotal:   subtotal,
		Tax:        tax,
		Total:      subtotal + tax,
		TaxRateBps: taxRateBps,
	}
}

// LineTotal is the exact minor-unit total of a single line.
func LineTotal(unitPrice Paise, quantity int) Paise {
	return unitPrice * Paise(quantity)
}

func roundHalfUp(numerator, denominator int64) Paise {
	return Paise((numerator + denominator/2) / denominator)
}
