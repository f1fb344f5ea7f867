package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/internal/infrastructure/database"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedCompany(t *testing.T, db *gorm.DB, state string) *entity.Company {
	t.Helper()
	company := &entity.Company{Name: "Sri Lakshmi Stores", State: state}
	require.NoError(t, NewCompanyRepository(db).Create(context.Background(), company))
	return company
}

func seedCustomer(t *testing.T, db *gorm.DB, companyID uuid.UUID, name, phone string) *entity.Customer {
	t.Helper()
	customer := &entity.Customer{CompanyID: companyID, Name: name}
	if phone != "" {
		customer.Phone = &phone
	}
	require.NoError(t, NewCustomerRepository(db).Create(context.Background(), customer))
	return customer
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestInvoiceSequenceStartsAtSeed(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	company := seedCompany(t, db, "Karnataka")
	seq := NewInvoiceSequenceRepository(db)

	seeded := 0
	seed := func(context.Context) (int64, error) {
		seeded++
		return 7, nil
	}

	first, err := seq.Next(ctx, company.ID, seed)
	require.NoError(t, err)
	second, err := seq.Next(ctx, company.ID, seed)
	require.NoError(t, err)

	assert.Equal(t, int64(8), first)
	assert.Equal(t, int64(9), second)
	assert.Equal(t, 1, seeded)
}

func TestInvoiceSequenceIsPerCompany(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	a := seedCompany(t, db, "Karnataka")
	b := seedCompany(t, db, "Kerala")
	seq := NewInvoiceSequenceRepository(db)
	zero := func(context.Context) (int64, error) { return 0, nil }

	for i := 0; i < 3; i++ {
		_, err := seq.Next(ctx, a.ID, zero)
		require.NoError(t, err)
	}
	n, err := seq.Next(ctx, b.ID, zero)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestInvoiceSequenceConcurrentCallersGetDistinctNumbers(t *testing.T) {
	db := setupTestDB(t)
	company := seedCompany(t, db, "Karnataka")
	seq := NewInvoiceSequenceRepository(db)
	tx := NewTxManager(db)
	zero := func(context.Context) (int64, error) { return 0, nil }

	const callers = 10
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		got = map[int64]bool{}
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := tx.Transaction(context.Background(), func(ctx context.Context) error {
				n, err := seq.Next(ctx, company.ID, zero)
				if err != nil {
					return err
				}
				mu.Lock()
				got[n] = true
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, got, callers)
	for i := int64(1); i <= callers; i++ {
		assert.True(t, got[i], "missing number %d", i)
	}
}

func TestInvoiceCreateAndLoad(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	company := seedCompany(t, db, "Karnataka")
	customer := seedCustomer(t, db, company.ID, "Asha", "9876543210")
	repo := NewInvoiceRepository(db)

	invoice := &entity.Invoice{
		CompanyID:   company.ID,
		CustomerID:  &customer.ID,
		InvoiceNo:   "INV-001",
		InvoiceDate: time.Now().UTC(),
		Subtotal:    d("1000"),
		TaxRate:     d("18"),
		TaxAmount:   d("180"),
		CGST:        d("90"),
		SGST:        d("90"),
		TotalAmount: d("1180"),
		PaymentMode: enum.PaymentModeCredit,
		Status:      enum.InvoiceStatusPending,
		Items: []entity.InvoiceItem{
			{ProductName: "Rice 5kg", Quantity: d("2"), UnitPrice: d("500"), TaxRate: d("18"), TaxAmount: d("180"), LineTotal: d("1180")},
		},
	}
	require.NoError(t, repo.Create(ctx, invoice))

	loaded, err := repo.GetByID(ctx, invoice.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "Rice 5kg", loaded.Items[0].ProductName)
	require.NotNil(t, loaded.Customer)
	assert.Equal(t, "Asha", loaded.Customer.Name)
	require.NotNil(t, loaded.Company)
	assert.True(t, d("1180").Equal(loaded.TotalAmount))

	latest, err := repo.LatestInvoiceNo(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-001", latest)

	missing, err := repo.GetByID(ctx, uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestInvoiceNumberUniquePerCompany(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	company := seedCompany(t, db, "Karnataka")
	repo := NewInvoiceRepository(db)

	newInvoice := func() *entity.Invoice {
		return &entity.Invoice{
			CompanyID:   company.ID,
			InvoiceNo:   "INV-001",
			InvoiceDate: time.Now().UTC(),
			PaymentMode: enum.PaymentModeCash,
			Status:      enum.InvoiceStatusPaid,
		}
	}
	require.NoError(t, repo.Create(ctx, newInvoice()))
	err := repo.Create(ctx, newInvoice())
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestNestedTransactionRollsBackOnlyInner(t *testing.T) {
	db := setupTestDB(t)
	company := seedCompany(t, db, "Karnataka")
	customers := NewCustomerRepository(db)
	tx := NewTxManager(db)

	err := tx.Transaction(context.Background(), func(ctx context.Context) error {
		if err := customers.Create(ctx, &entity.Customer{CompanyID: company.ID, Name: "Outer"}); err != nil {
			return err
		}
		inner := tx.Transaction(ctx, func(ctx context.Context) error {
			if err := customers.Create(ctx, &entity.Customer{CompanyID: company.ID, Name: "Inner"}); err != nil {
				return err
			}
			return fmt.Errorf("inner failed")
		})
		assert.Error(t, inner)
		return nil
	})
	require.NoError(t, err)

	list, err := customers.List(context.Background(), company.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Outer", list[0].Name)
}

func TestBalanceAddPaidIsAdditive(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	company := seedCompany(t, db, "Karnataka")
	customer := seedCustomer(t, db, company.ID, "Asha", "9876543210")
	repo := NewBalanceRepository(db)

	balance := &entity.Balance{
		CompanyID:     company.ID,
		CustomerID:    customer.ID,
		TotalAmount:   d("1180"),
		PaidAmount:    decimal.Zero,
		PendingAmount: d("1180"),
		Status:        enum.BalanceStatusPending,
	}
	require.NoError(t, repo.Create(ctx, balance))

	require.NoError(t, repo.AddPaid(ctx, balance.ID, d("500")))
	require.NoError(t, repo.AddPaid(ctx, balance.ID, d("180.50")))

	got, err := repo.GetByID(ctx, balance.ID)
	require.NoError(t, err)
	assert.True(t, d("680.50").Equal(got.PaidAmount), "paid = %s", got.PaidAmount)

	err = repo.AddPaid(ctx, balance.ID, d("500"))
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound, "payment above the remaining amount must not apply")

	err = repo.AddPaid(ctx, uuid.New(), d("1"))
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListDueForReminder(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	company := seedCompany(t, db, "Karnataka")
	customer := seedCustomer(t, db, company.ID, "Asha", "9876543210")
	repo := NewBalanceRepository(db)
	now := time.Now().UTC()

	create := func(pending string, reminded *time.Time) *entity.Balance {
		b := &entity.Balance{
			CompanyID:        company.ID,
			CustomerID:       customer.ID,
			TotalAmount:      d("1000"),
			PendingAmount:    d(pending),
			Status:           enum.BalanceStatusPending,
			LastReminderSent: reminded,
		}
		require.NoError(t, repo.Create(ctx, b))
		return b
	}
	old := now.Add(-5 * 24 * time.Hour)
	recent := now.Add(-1 * time.Hour)

	never := create("1000", nil)
	stale := create("400", &old)
	create("1000", &recent)
	create("0", nil)

	due, err := repo.ListDueForReminder(ctx, company.ID, now.Add(-3*24*time.Hour))
	require.NoError(t, err)

	ids := map[uuid.UUID]bool{}
	for _, b := range due {
		ids[b.ID] = true
		require.NotNil(t, b.Customer)
	}
	assert.Len(t, due, 2)
	assert.True(t, ids[never.ID])
	assert.True(t, ids[stale.ID])

	count, err := repo.CountPending(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestCompanyScopeWithNilCompanyMatchesNothing(t *testing.T) {
	db := setupTestDB(t)
	company := seedCompany(t, db, "Karnataka")
	seedCustomer(t, db, company.ID, "Asha", "")

	list, err := NewCustomerRepository(db).List(context.Background(), uuid.Nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCustomerLookups(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	company := seedCompany(t, db, "Karnataka")
	asha := seedCustomer(t, db, company.ID, "Asha Rao", "9876543210")
	repo := NewCustomerRepository(db)

	byPhone, err := repo.FindByPhone(ctx, company.ID, "9876543210")
	require.NoError(t, err)
	require.NotNil(t, byPhone)
	assert.Equal(t, asha.ID, byPhone.ID)

	byName, err := repo.FindByName(ctx, company.ID, "asha rao")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, asha.ID, byName.ID)

	none, err := repo.FindByPhone(ctx, company.ID, "0000000000")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestProductDeactivateAndStock(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	company := seedCompany(t, db, "Karnataka")
	repo := NewProductRepository(db)

	product := &entity.Product{CompanyID: company.ID, SKU: "RICE-5", Name: "Rice 5kg", UnitPrice: d("500"), TaxRate: d("5"), Stock: 10, IsActive: true}
	require.NoError(t, repo.Create(ctx, product))

	dup := &entity.Product{CompanyID: company.ID, SKU: "RICE-5", Name: "Rice again", UnitPrice: d("1"), TaxRate: d("5"), IsActive: true}
	assert.ErrorIs(t, repo.Create(ctx, dup), gorm.ErrDuplicatedKey)

	require.NoError(t, repo.DecrementStock(ctx, product.ID, 3))
	got, err := repo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Stock)

	require.NoError(t, repo.Deactivate(ctx, product.ID))
	active, err := repo.ListActive(ctx, company.ID)
	require.NoError(t, err)
	assert.Empty(t, active)

	got, err = repo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.IsActive)
}

func TestGSTSummaryWindow(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	company := seedCompany(t, db, "Karnataka")
	invoices := NewInvoiceRepository(db)
	reports := NewReportRepository(db)

	day := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	add := func(no string, at time.Time, cgst, sgst, igst, total string) {
		tax := d(cgst).Add(d(sgst)).Add(d(igst))
		require.NoError(t, invoices.Create(ctx, &entity.Invoice{
			CompanyID:   company.ID,
			InvoiceNo:   no,
			InvoiceDate: at,
			Subtotal:    d(total).Sub(tax),
			TaxAmount:   tax,
			CGST:        d(cgst),
			SGST:        d(sgst),
			IGST:        d(igst),
			TotalAmount: d(total),
			PaymentMode: enum.PaymentModeCash,
			Status:      enum.InvoiceStatusPaid,
		}))
	}
	add("INV-001", day, "90", "90", "0", "1180")
	add("INV-002", day.Add(3*time.Hour), "0", "0", "50", "550")
	add("INV-003", day.AddDate(0, 0, 2), "10", "10", "0", "220")

	from := day.Truncate(24 * time.Hour)
	to := from.AddDate(0, 0, 1)
	summary, err := reports.GSTSummary(ctx, company.ID, &from, &to)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.InvoiceCount)
	assert.True(t, d("90").Equal(summary.CGST))
	assert.True(t, d("50").Equal(summary.IGST))
	assert.True(t, d("230").Equal(summary.TotalTax))
	assert.True(t, d("1730").Equal(summary.Total))

	nextYear, after := day.AddDate(1, 0, 0), day.AddDate(1, 0, 1)
	empty, err := reports.GSTSummary(ctx, company.ID, &nextYear, &after)
	require.NoError(t, err)
	assert.True(t, empty.TotalTax.IsZero())
	assert.Zero(t, empty.InvoiceCount)

	all, err := reports.GSTSummary(ctx, company.ID, &from, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.InvoiceCount)
	assert.True(t, d("1950").Equal(all.Total))

	sales, err := reports.SalesSince(ctx, company.ID, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.True(t, d("220").Equal(sales))
}

func TestMessagingSettingsUpsert(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	company := seedCompany(t, db, "Karnataka")
	repo := NewMessagingSettingsRepository(db)

	none, err := repo.GetByCompanyID(ctx, company.ID)
	require.NoError(t, err)
	assert.Nil(t, none)

	sid := "AC123"
	require.NoError(t, repo.Upsert(ctx, &entity.MessagingSettings{
		CompanyID:             company.ID,
		Provider:              enum.MessagingProviderTwilio,
		TwilioAccountSID:      &sid,
		ReminderFrequencyDays: 3,
	}))
	require.NoError(t, repo.Upsert(ctx, &entity.MessagingSettings{
		CompanyID:             company.ID,
		Provider:              enum.MessagingProviderMeta,
		AutoRemindersEnabled:  true,
		ReminderFrequencyDays: 7,
	}))

	var count int64
	require.NoError(t, db.Model(&entity.MessagingSettings{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	got, err := repo.GetByCompanyID(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.MessagingProviderMeta, got.Provider)
	assert.True(t, got.AutoRemindersEnabled)
	assert.Equal(t, 7, got.ReminderFrequencyDays)
}

func TestIdempotencyKeyLifecycle(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewIdempotencyRepository(db)

	got, err := repo.GetByKey(ctx, "till-1", "company:a")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.Create(ctx, &entity.IdempotencyKey{
		Key: "till-1", Scope: "company:a", Endpoint: "POST /api/invoices",
		ResponseCode: 201, ResponseBody: `{"invoiceNo":"INV-001"}`,
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	got, err = repo.GetByKey(ctx, "till-1", "company:a")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsExpired())

	other, err := repo.GetByKey(ctx, "till-1", "company:b")
	require.NoError(t, err)
	assert.Nil(t, other)

	require.NoError(t, repo.Create(ctx, &entity.IdempotencyKey{
		Key: "till-1", Scope: "company:a", Endpoint: "POST /api/invoices",
		ResponseCode: 201, ResponseBody: `{"invoiceNo":"INV-002"}`,
		ExpiresAt: time.Now().Add(time.Hour),
	}))
	got, err = repo.GetByKey(ctx, "till-1", "company:a")
	require.NoError(t, err)
	assert.False(t, got.IsExpired())
	assert.Contains(t, got.ResponseBody, "INV-002")

	require.NoError(t, repo.Create(ctx, &entity.IdempotencyKey{
		Key: "stale", Scope: "company:a", Endpoint: "POST /api/invoices",
		ResponseCode: 201, ExpiresAt: time.Now().Add(-time.Hour),
	}))
	require.NoError(t, repo.DeleteExpired(ctx))
	got, err = repo.GetByKey(ctx, "stale", "company:a")
	require.NoError(t, err)
	assert.Nil(t, got)
}
