package enum

// PaymentMode is how an invoice was settled at the counter
type PaymentMode string

const (
	PaymentModeCash   PaymentMode = "Cash"
	PaymentModeUPI    PaymentMode = "UPI"
	PaymentModeCard   PaymentMode = "Card"
	PaymentModeCredit PaymentMode = "Credit"
)

// IsValid reports whether m is one of the accepted modes
func (m PaymentMode) IsValid() bool {
	switch m {
	case PaymentModeCash, PaymentModeUPI, PaymentModeCard, PaymentModeCredit:
		return true
	}
	return false
}

// OrDefault returns Cash when m is empty
func (m PaymentMode) OrDefault() PaymentMode {
	if m == "" {
		return PaymentModeCash
	}
	return m
}
