// Package spreadsheet extracts outstanding-balance rows from statement
// workbooks exported by accounting tools.
package spreadsheet

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// BalanceRow is one customer line recovered from a statement.
type BalanceRow struct {
	Row          int             `json:"row"`
	CustomerName string          `json:"customerName"`
	Phone        string          `json:"phone,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
}

var (
	phonePattern  = regexp.MustCompile(`^\d{8,10}$`)
	localCustomer = regexp.MustCompile(`(?i)LOCAL CUSTOMER\s*`)
	minAmount     = decimal.NewFromInt(10)
)

// ParseBalances reads the first sheet of an xlsx workbook.
func ParseBalances(r io.Reader) ([]BalanceRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return ExtractBalances(rows), nil
}

// ExtractBalances applies the statement heuristics to raw cell text:
// the first column holds the customer, the first 8-10 digit cell is the
// phone, and the first other numeric cell above 10 is the amount.
func ExtractBalances(rows [][]string) []BalanceRow {
	var out []BalanceRow
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		first := strings.TrimSpace(row[0])
		if first == "" || first == "TOTAL" || strings.Contains(first, "Due Balance Statement") {
			continue
		}

		name := strings.TrimSpace(localCustomer.ReplaceAllString(first, ""))
		// column headers ("CUSTOMER", "CUSTOMER NAME") but not prefixed names
		if name == "" || strings.Contains(name, "CUSTOMER") {
			continue
		}

		var phone string
		amount := decimal.Zero
		for _, raw := range row {
			cell := strings.TrimSpace(raw)
			if phonePattern.MatchString(cell) {
				if phone == "" {
					phone = cell
				}
				continue
			}
			if !amount.IsZero() {
				continue
			}
			if v, ok := parseAmount(cell); ok && v.GreaterThan(minAmount) {
				amount = v
			}
		}

		if amount.IsPositive() {
			out = append(out, BalanceRow{
				Row:          i + 1,
				CustomerName: name,
				Phone:        phone,
				Amount:       amount.Round(2),
			})
		}
	}
	return out
}

func parseAmount(cell string) (decimal.Decimal, bool) {
	cell = strings.ReplaceAll(cell, ",", "")
	if cell == "" {
		return decimal.Zero, false
	}
	if _, err := strconv.ParseFloat(cell, 64); err != nil {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(cell)
	if err != nil {
		return decimal.Zero, false
	}
	return v, true
}
