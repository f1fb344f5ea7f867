package tax

import "github.com/shopspring/decimal"

// RateMode selects how an invoice-level rate is derived from its lines.
type RateMode string

const (
	// RateModeMean is the plain arithmetic mean of line rates. It ignores line
	// size, so mixed-rate invoices are only approximately taxed.
	RateModeMean RateMode = "mean"
	// RateModeWeighted weights each line rate by its subtotal, which makes the
	// invoice tax equal the sum of the line taxes up to rounding.
	RateModeWeighted RateMode = "weighted"
)

// ParseRateMode falls back to RateModeMean for unknown values.
func ParseRateMode(s string) RateMode {
	if RateMode(s) == RateModeWeighted {
		return RateModeWeighted
	}
	return RateModeMean
}

// Line is the minimum a rate computation needs from an invoice item.
type Line struct {
	Subtotal decimal.Decimal
	Rate     decimal.Decimal
}

// AverageRate returns the invoice-level rate for lines under mode.
// Weighted mode degrades to the mean when every line subtotal is zero.
func AverageRate(mode RateMode, lines []Line) decimal.Decimal {
	if len(lines) == 0 {
		return decimal.Zero
	}

	if mode == RateModeWeighted {
		var weighted, total decimal.Decimal
		for _, l := range lines {
			weighted = weighted.Add(l.Subtotal.Mul(l.Rate))
			total = total.Add(l.Subtotal)
		}
		if !total.IsZero() {
			return weighted.Div(total)
		}
	}

	var sum decimal.Decimal
	for _, l := range lines {
		sum = sum.Add(l.Rate)
	}
	return sum.Div(decimal.NewFromInt(int64(len(lines))))
}
