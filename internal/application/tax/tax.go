// Package tax computes the GST split for a sale.
//
// Intra-state sales (seller and buyer in the same state) split the tax
// evenly into CGST and SGST; everything else is charged as IGST. Amounts are
// rounded to paise, half away from zero, and the split always sums exactly to
// the tax amount: any odd paisa lands on SGST.
package tax

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Type names the kind of split applied.
type Type string

const (
	IntraState Type = "intra"
	InterState Type = "inter"
)

var hundred = decimal.NewFromInt(100)

// Breakdown is the computed tax for one subtotal.
type Breakdown struct {
	TaxAmount decimal.Decimal `json:"taxAmount"`
	CGST      decimal.Decimal `json:"cgst"`
	SGST      decimal.Decimal `json:"sgst"`
	IGST      decimal.Decimal `json:"igst"`
	Type      Type            `json:"taxType"`
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// SameState reports whether both states are present and equal, ignoring case
// and surrounding space.
func SameState(companyState, customerState string) bool {
	a, b := strings.TrimSpace(companyState), strings.TrimSpace(customerState)
	return a != "" && b != "" && strings.EqualFold(a, b)
}

// Calculate applies rate (a percentage) to subtotal and splits the result.
func Calculate(subtotal, rate decimal.Decimal, companyState, customerState string) Breakdown {
	return Split(Round2(subtotal.Mul(rate).Div(hundred)), companyState, customerState)
}

// Split apportions an already computed tax amount between CGST/SGST or IGST.
func Split(taxAmount decimal.Decimal, companyState, customerState string) Breakdown {
	if SameState(companyState, customerState) {
		cgst := Round2(taxAmount.Div(decimal.NewFromInt(2)))
		return Breakdown{
			TaxAmount: taxAmount,
			CGST:      cgst,
			SGST:      taxAmount.Sub(cgst),
			IGST:      decimal.Zero,
			Type:      IntraState,
		}
	}

	return Breakdown{
		TaxAmount: taxAmount,
		CGST:      decimal.Zero,
		SGST:      decimal.Zero,
		IGST:      taxAmount,
		Type:      InterState,
	}
}

// ExtractInclusive splits a tax-inclusive amount into its pre-tax subtotal
// and tax at the given rate. subtotal + tax == amount.
func ExtractInclusive(amount, rate decimal.Decimal) (subtotal, taxAmount decimal.Decimal) {
	divisor := decimal.NewFromInt(1).Add(rate.Div(hundred))
	subtotal = Round2(amount.Div(divisor))
	return subtotal, amount.Sub(subtotal)
}
