package spreadsheet

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExtractBalances(t *testing.T) {
	rows := [][]string{
		{"Due Balance Statement as on 31-03-2024"},
		{"CUSTOMER", "PHONE", "AMOUNT"},
		{},
		{"LOCAL CUSTOMER Asha", "9876543210", "1180"},
		{"Ravi Traders", "", "2,500.50"},
		{"Small Change", "5"},
		{"TOTAL", "", "3680.50"},
	}

	got := ExtractBalances(rows)
	require.Len(t, got, 2)

	assert.Equal(t, "Asha", got[0].CustomerName)
	assert.Equal(t, "9876543210", got[0].Phone)
	assert.True(t, got[0].Amount.Equal(decimal.NewFromInt(1180)))
	assert.Equal(t, 4, got[0].Row)

	assert.Equal(t, "Ravi Traders", got[1].CustomerName)
	assert.Empty(t, got[1].Phone)
	assert.Equal(t, "2500.5", got[1].Amount.String())
}

func TestParseBalancesWorkbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Due Balance Statement"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"LOCAL CUSTOMER Meena", "9123456780", 450.75}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	got, err := ParseBalances(&buf)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Meena", got[0].CustomerName)
	assert.Equal(t, "9123456780", got[0].Phone)
	assert.Equal(t, "450.75", got[0].Amount.String())
}

func TestParseBalancesRejectsGarbage(t *testing.T) {
	_, err := ParseBalances(bytes.NewReader([]byte("not a workbook")))
	assert.Error(t, err)
}
