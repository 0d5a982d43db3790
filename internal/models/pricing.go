package models

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"
)

// decimalCtx is wide enough that sums of menu prices never round
var decimalCtx = apd.BaseContext.WithPrecision(34)

// ParsePrice parses a non-negative decimal price
func ParsePrice(s string) (apd.Decimal, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return apd.Decimal{}, fmt.Errorf("invalid price %q: %w", s, err)
	}
	if d.Sign() < 0 {
		return apd.Decimal{}, fmt.Errorf("price must not be negative: %s", s)
	}
	return *d, nil
}

// MustPrice is ParsePrice for literals known to be valid
func MustPrice(s string) apd.Decimal {
	d, err := ParsePrice(s)
	if err != nil {
		panic(err)
	}
	return d
}

// RawTotal sums item prices exactly
func RawTotal(items []MenuItem) (apd.Decimal, error) {
	var total apd.Decimal
	for i := range items {
		if _, err := decimalCtx.Add(&total, &total, &items[i].Price); err != nil {
			return apd.Decimal{}, fmt.Errorf("sum prices: %w", err)
		}
	}
	return total, nil
}

// GrandTotal truncates raw toward zero and adds service once as a flat
// amount. A raw total that truncates to zero yields zero, so 0 < raw < 1
// also yields zero rather than failing on the whole-part division.
func GrandTotal(raw apd.Decimal, service int) (apd.Decimal, error) {
	ctx := *decimalCtx
	ctx.Rounding = apd.RoundDown

	var whole apd.Decimal
	if _, err := ctx.RoundToIntegralValue(&whole, &raw); err != nil {
		return apd.Decimal{}, fmt.Errorf("truncate total: %w", err)
	}
	if whole.IsZero() {
		return *apd.New(0, 0), nil
	}

	var grand apd.Decimal
	if _, err := ctx.Add(&grand, &whole, apd.New(int64(service), 0)); err != nil {
		return apd.Decimal{}, fmt.Errorf("add service: %w", err)
	}
	if _, err := ctx.Quantize(&grand, &grand, 0); err != nil {
		return apd.Decimal{}, fmt.Errorf("quantize total: %w", err)
	}
	return grand, nil
}

// ChequeTotals holds the derived totals of one cheque
type ChequeTotals struct {
	Raw   apd.Decimal
	Grand apd.Decimal
}

// PriceCheque computes the raw and grand totals of a cheque's items
func PriceCheque(items []MenuItem, service int) (ChequeTotals, error) {
	raw, err := RawTotal(items)
	if err != nil {
		return ChequeTotals{}, err
	}
	grand, err := GrandTotal(raw, service)
	if err != nil {
		return ChequeTotals{}, err
	}
	return ChequeTotals{Raw: raw, Grand: grand}, nil
}

// FormatDecimal renders d in plain notation, e.g. "40.00"
func FormatDecimal(d apd.Decimal) string {
	return d.Text('f')
}
