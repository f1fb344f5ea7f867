package enum

import "github.com/shopspring/decimal"

// InvoiceStatus is Paid for settled sales and Pending for credit sales
type InvoiceStatus string

const (
	InvoiceStatusPaid    InvoiceStatus = "Paid"
	InvoiceStatusPending InvoiceStatus = "Pending"
)

// InvoiceStatusFor derives the status of a freshly issued invoice
func InvoiceStatusFor(mode PaymentMode) InvoiceStatus {
	if mode == PaymentModeCredit {
		return InvoiceStatusPending
	}
	return InvoiceStatusPaid
}

// BalanceStatus tracks settlement of a credit balance
type BalanceStatus string

const (
	BalanceStatusPending       BalanceStatus = "Pending"
	BalanceStatusPartiallyPaid BalanceStatus = "Partially Paid"
	BalanceStatusCleared       BalanceStatus = "Cleared"
)

// BalanceStatusFor derives the status from the running amounts:
// Cleared once nothing is pending, Partially Paid once anything is paid.
func BalanceStatusFor(paid, pending decimal.Decimal) BalanceStatus {
	switch {
	case !pending.IsPositive():
		return BalanceStatusCleared
	case paid.IsPositive():
		return BalanceStatusPartiallyPaid
	default:
		return BalanceStatusPending
	}
}

// ReminderStatus is the outcome of one reminder attempt
type ReminderStatus string

const (
	ReminderStatusSent   ReminderStatus = "Sent"
	ReminderStatusFailed ReminderStatus = "Failed"
)
