package utils

import (
	"fmt"
	"regexp"
	"strconv"
)

var trailingDigits = regexp.MustCompile(`(\d+)$`)

// FormatInvoiceNo renders a sequence value as PREFIX-NNN. Values wider than
// three digits are printed in full.
func FormatInvoiceNo(prefix string, n int64) string {
	return fmt.Sprintf("%s-%03d", prefix, n)
}

// InvoiceSuffix returns the trailing numeric part of an invoice number, or 0
// when there is none.
func InvoiceSuffix(invoiceNo string) int64 {
	m := trailingDigits.FindStringSubmatch(invoiceNo)
	if m == nil {
		return 0
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0
	}
	return n
}
