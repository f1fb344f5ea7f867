package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/application/tax"
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/pkg/apperror"
	"github.com/sangkips/billing-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mixedRateItems() []InvoiceItemInput {
	return []InvoiceItemInput{
		{ProductName: "Basmati Rice", Quantity: d("3"), UnitPrice: d("100"), TaxRate: d("18")},
		{ProductName: "Toor Dal", Quantity: d("1"), UnitPrice: d("100"), TaxRate: d("5")},
	}
}

func TestCreateInvoiceNumbersSequentially(t *testing.T) {
	env := newTestEnv(t, tax.RateModeMean)
	ctx := context.Background()
	company := env.company(t, "Karnataka")

	var numbers []string
	for i := 0; i < 3; i++ {
		invoice, err := env.invoices.CreateInvoice(ctx, &CreateInvoiceInput{
			CompanyID: company.ID,
			Items:     []InvoiceItemInput{{ProductName: "Soap", Quantity: d("1"), UnitPrice: d("40"), TaxRate: d("18")}},
		})
		require.NoError(t, err)
		numbers = append(numbers, invoice.InvoiceNo)
	}

	assert.Equal(t, []string{"INV-001", "INV-002", "INV-003"}, numbers)
}

func TestCreateInvoiceConcurrentNumbersAreUnique(t *testing.T) {
	env := newTestEnv(t, tax.RateModeMean)
	ctx := context.Background()
	company := env.company(t, "Karnataka")

	const n = 8
	var wg sync.WaitGroup
	results := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			invoice, err := env.invoices.CreateInvoice(ctx, &CreateInvoiceInput{
				CompanyID: company.ID,
				Items:     []InvoiceItemInput{{ProductName: "Soap", Quantity: d("1"), UnitPrice: d("40"), TaxRate: d("18")}},
			})
			if assert.NoError(t, err) {
				results <- invoice.InvoiceNo
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := map[string]bool{}
	for no := range results {
		assert.False(t, seen[no], "duplicate %s", no)
		seen[no] = true
	}
	assert.Len(t, seen, n)
}

func TestCreateInvoiceMeanRate(t *testing.T) {
	env := newTestEnv(t, tax.RateModeMean)
	ctx := context.Background()
	company := env.company(t, "Karnataka")
	customer := env.customer(t, company.ID, "Ravi Kumar", "9876543210", "karnataka")

	invoice, err := env.invoices.CreateInvoice(ctx, &CreateInvoiceInput{
		CompanyID:  company.ID,
		CustomerID: &customer.ID,
		Items:      mixedRateItems(),
	})
	require.NoError(t, err)

	assert.True(t, d("400").Equal(invoice.Subtotal))
	assert.True(t, d("11.5").Equal(invoice.TaxRate))
	assert.True(t, d("46").Equal(invoice.TaxAmount))
	assert.True(t, d("23").Equal(invoice.CGST))
	assert.True(t, d("23").Equal(invoice.SGST))
	assert.True(t, invoice.IGST.IsZero())
	assert.True(t, d("446").Equal(invoice.TotalAmount))
	assert.Equal(t, enum.PaymentModeCash, invoice.PaymentMode)
	assert.Equal(t, enum.InvoiceStatusPaid, invoice.Status)
	assert.Len(t, invoice.Items, 2)
	require.NotNil(t, invoice.Customer)
	require.NotNil(t, invoice.Company)
}

func TestCreateInvoiceWeightedRateInterState(t *testing.T) {
	env := newTestEnv(t, tax.RateModeWeighted)
	ctx := context.Background()
	company := env.company(t, "Karnataka")
	customer := env.customer(t, company.ID, "Anil Menon", "9847012345", "Kerala")

	invoice, err := env.invoices.CreateInvoice(ctx, &CreateInvoiceInput{
		CompanyID:   company.ID,
		CustomerID:  &customer.ID,
		Items:       mixedRateItems(),
		PaymentMode: enum.PaymentModeUPI,
	})
	require.NoError(t, err)

	assert.True(t, d("14.75").Equal(invoice.TaxRate))
	assert.True(t, d("59").Equal(invoice.TaxAmount))
	assert.True(t, d("59").Equal(invoice.IGST))
	assert.True(t, invoice.CGST.IsZero())
	assert.True(t, invoice.SGST.IsZero())
	assert.True(t, d("459").Equal(invoice.TotalAmount))
}

func TestCreateInvoiceWalkInIsInterState(t *testing.T) {
	env := newTestEnv(t, tax.RateModeMean)
	company := env.company(t, "Karnataka")

	invoice, err := env.invoices.CreateInvoice(context.Background(), &CreateInvoiceInput{
		CompanyID: company.ID,
		Items:     []InvoiceItemInput{{ProductName: "Soap", Quantity: d("2"), UnitPrice: d("50"), TaxRate: d("18")}},
	})
	require.NoError(t, err)
	assert.Nil(t, invoice.CustomerID)
	assert.True(t, d("18").Equal(invoice.IGST))
}

func TestCreditInvoiceOpensBalance(t *testing.T) {
	env := newTestEnv(t, tax.RateModeMean)
	ctx := context.Background()
	company := env.company(t, "Karnataka")
	customer := env.customer(t, company.ID, "Ravi Kumar", "9876543210", "Karnataka")

	invoice, err := env.invoices.CreateInvoice(ctx, &CreateInvoiceInput{
		CompanyID:   company.ID,
		CustomerID:  &customer.ID,
		Items:       []InvoiceItemInput{{ProductName: "Atta 10kg", Quantity: d("1"), UnitPrice: d("1000"), TaxRate: d("18")}},
		PaymentMode: enum.PaymentModeCredit,
	})
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusPending, invoice.Status)

	balances, err := env.ledger.ListBalances(ctx, company.ID)
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.True(t, d("1180").Equal(balances[0].TotalAmount))
	assert.True(t, d("1180").Equal(balances[0].PendingAmount))
	assert.Equal(t, enum.BalanceStatusPending, balances[0].Status)
	require.NotNil(t, balances[0].InvoiceID)
	assert.Equal(t, invoice.ID, *balances[0].InvoiceID)
}

func TestCreditInvoiceWithoutCustomerOpensNoBalance(t *testing.T) {
	env := newTestEnv(t, tax.RateModeMean)
	ctx := context.Background()
	company := env.company(t, "Karnataka")

	_, err := env.invoices.CreateInvoice(ctx, &CreateInvoiceInput{
		CompanyID:   company.ID,
		Items:       []InvoiceItemInput{{ProductName: "Soap", Quantity: d("1"), UnitPrice: d("40"), TaxRate: d("18")}},
		PaymentMode: enum.PaymentModeCredit,
	})
	require.NoError(t, err)

	balances, err := env.ledger.ListBalances(ctx, company.ID)
	require.NoError(t, err)
	assert.Empty(t, balances)
}

func TestCreateInvoiceDecrementsStock(t *testing.T) {
	env := newTestEnv(t, tax.RateModeMean)
	ctx := context.Background()
	company := env.company(t, "Karnataka")
	hsn := "1006"
	product, err := env.products.CreateProduct(ctx, &CreateProductInput{
		CompanyID: company.ID,
		SKU:       "RICE-5KG",
		Name:      "Sona Masoori 5kg",
		HSN:       &hsn,
		UnitPrice: d("420"),
		Stock:     10,
	})
	require.NoError(t, err)

	invoice, err := env.invoices.CreateInvoice(ctx, &CreateInvoiceInput{
		CompanyID: company.ID,
		Items:     []InvoiceItemInput{{ProductID: &product.ID, Quantity: d("3"), UnitPrice: d("420"), TaxRate: d("5")}},
	})
	require.NoError(t, err)
	require.Len(t, invoice.Items, 1)
	assert.Equal(t, "Sona Masoori 5kg", invoice.Items[0].ProductName)
	require.NotNil(t, invoice.Items[0].HSN)
	assert.Equal(t, "1006", *invoice.Items[0].HSN)

	reloaded, err := env.products.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, reloaded.Stock)
}

func TestCreateInvoiceRejectsFractionalCatalogQuantity(t *testing.T) {
	env := newTestEnv(t, tax.RateModeMean)
	ctx := context.Background()
	company := env.company(t, "Karnataka")
	product, err := env.products.CreateProduct(ctx, &CreateProductInput{
		CompanyID: company.ID,
		SKU:       "OIL-1L",
		Name:      "Groundnut Oil 1L",
		UnitPrice: d("180"),
		Stock:     5,
	})
	require.NoError(t, err)

	for _, qty := range []string{"0.4", "1.5"} {
		_, err = env.invoices.CreateInvoice(ctx, &CreateInvoiceInput{
			CompanyID: company.ID,
			Items:     []InvoiceItemInput{{ProductID: &product.ID, Quantity: d(qty), UnitPrice: d("180"), TaxRate: d("5")}},
		})
		requireKind(t, err, apperror.KindValidation)
	}

	// Loose goods without a catalog entry may be sold by weight.
	_, err = env.invoices.CreateInvoice(ctx, &CreateInvoiceInput{
		CompanyID: company.ID,
		Items:     []InvoiceItemInput{{ProductName: "Loose Jaggery", Quantity: d("0.75"), UnitPrice: d("60"), TaxRate: d("0")}},
	})
	require.NoError(t, err)

	reloaded, err := env.products.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, reloaded.Stock)
}

func TestCreditInvoiceSurvivesBalanceFailure(t *testing.T) {
	env := newTestEnv(t, tax.RateModeMean)
	ctx := context.Background()
	company := env.company(t, "Karnataka")
	customer := env.customer(t, company.ID, "Ravi Kumar", "9876543210", "Karnataka")
	require.NoError(t, env.db.Migrator().RenameTable("balances", "balances_offline"))

	invoice, err := env.invoices.CreateInvoice(ctx, &CreateInvoiceInput{
		CompanyID:   company.ID,
		CustomerID:  &customer.ID,
		Items:       []InvoiceItemInput{{ProductName: "Atta 10kg", Quantity: d("1"), UnitPrice: d("1000"), TaxRate: d("18")}},
		PaymentMode: enum.PaymentModeCredit,
	})
	require.NoError(t, err)
	assert.Equal(t, "INV-001", invoice.InvoiceNo)

	var invoices int64
	require.NoError(t, env.db.Model(&entity.Invoice{}).Count(&invoices).Error)
	assert.Equal(t, int64(1), invoices)

	var balances int64
	require.NoError(t, env.db.Table("balances_offline").Count(&balances).Error)
	assert.Zero(t, balances)
}

func TestCreateInvoiceValidation(t *testing.T) {
	env := newTestEnv(t, tax.RateModeMean)
	ctx := context.Background()
	company := env.company(t, "Karnataka")
	other := env.company(t, "Kerala")
	stranger := env.customer(t, other.ID, "Anil", "", "")

	tests := []struct {
		name  string
		input *CreateInvoiceInput
		kind  apperror.Kind
	}{
		{"no items", &CreateInvoiceInput{CompanyID: company.ID}, apperror.KindValidation},
		{"bad mode", &CreateInvoiceInput{CompanyID: company.ID, PaymentMode: "Cheque", Items: mixedRateItems()}, apperror.KindValidation},
		{"zero quantity", &CreateInvoiceInput{CompanyID: company.ID, Items: []InvoiceItemInput{{ProductName: "Soap", UnitPrice: d("1")}}}, apperror.KindValidation},
		{"missing name", &CreateInvoiceInput{CompanyID: company.ID, Items: []InvoiceItemInput{{Quantity: d("1"), UnitPrice: d("1")}}}, apperror.KindValidation},
		{"unknown company", &CreateInvoiceInput{CompanyID: uuid.New(), Items: mixedRateItems()}, apperror.KindNotFound},
		{"foreign customer", &CreateInvoiceInput{CompanyID: company.ID, CustomerID: &stranger.ID, Items: mixedRateItems()}, apperror.KindValidation},
	}
	for _, tt := range tests {
		_, err := env.invoices.CreateInvoice(ctx, tt.input)
		requireKind(t, err, tt.kind)
	}

	list, err := env.invoices.ListInvoices(ctx, company.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListInvoicesNewestFirstWithLimit(t *testing.T) {
	env := newTestEnv(t, tax.RateModeMean)
	ctx := context.Background()
	company := env.company(t, "Karnataka")

	for i := 0; i < 3; i++ {
		_, err := env.invoices.CreateInvoice(ctx, &CreateInvoiceInput{
			CompanyID: company.ID,
			Items:     []InvoiceItemInput{{ProductName: "Soap", Quantity: d("1"), UnitPrice: d("40"), TaxRate: d("18")}},
		})
		require.NoError(t, err)
	}

	list, err := env.invoices.ListInvoices(ctx, company.ID, &pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "INV-003", list[0].InvoiceNo)

	_, err = env.invoices.GetInvoice(ctx, uuid.New())
	requireKind(t, err, apperror.KindNotFound)
}
