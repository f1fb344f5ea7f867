// Package entity holds the persisted billing records.
package entity

import "github.com/shopspring/decimal"

func init() {
	// Money is emitted as JSON numbers so existing clients can do arithmetic on it.
	decimal.MarshalJSONWithoutQuotes = true
}
