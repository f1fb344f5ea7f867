package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/domain/repository"
	"github.com/sangkips/billing-api/pkg/apperror"
)

const reportDateLayout = "2006-01-02"

// DashboardService provides counter statistics and tax reports
type DashboardService struct {
	reportRepo   repository.ReportRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	companyRepo  repository.CompanyRepository
	now          func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	reportRepo repository.ReportRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	companyRepo repository.CompanyRepository,
) *DashboardService {
	return &DashboardService{
		reportRepo:   reportRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		companyRepo:  companyRepo,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	TodaySales     string `json:"todaySales"`
	TotalInvoices  int64  `json:"totalInvoices"`
	TotalProducts  int64  `json:"totalProducts"`
	TotalCustomers int64  `json:"totalCustomers"`
}

// GetStats returns today's sales and the company's record counts
func (s *DashboardService) GetStats(ctx context.Context, companyID uuid.UUID) (*DashboardStats, error) {
	if _, err := requireCompany(ctx, s.companyRepo, companyID); err != nil {
		return nil, err
	}

	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	sales, err := s.reportRepo.SalesSince(ctx, companyID, startOfDay)
	if err != nil {
		return nil, err
	}
	invoices, err := s.reportRepo.CountInvoices(ctx, companyID)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.CountActive(ctx, companyID)
	if err != nil {
		return nil, err
	}
	customers, err := s.customerRepo.Count(ctx, companyID)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TodaySales:     sales.StringFixed(2),
		TotalInvoices:  invoices,
		TotalProducts:  products,
		TotalCustomers: customers,
	}, nil
}

// GSTReport aggregates tax for invoices dated from startDate through endDate
// inclusive. Dates are YYYY-MM-DD in UTC; an empty date leaves that side open.
func (s *DashboardService) GSTReport(ctx context.Context, companyID uuid.UUID, startDate, endDate string) (*repository.GSTSummary, error) {
	if _, err := requireCompany(ctx, s.companyRepo, companyID); err != nil {
		return nil, err
	}

	from, err := parseReportDate(startDate, "startDate")
	if err != nil {
		return nil, err
	}
	to, err := parseReportDate(endDate, "endDate")
	if err != nil {
		return nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, apperror.NewValidationError("endDate must not be before startDate")
	}
	if to != nil {
		next := to.AddDate(0, 0, 1)
		to = &next
	}

	return s.reportRepo.GSTSummary(ctx, companyID, from, to)
}

func parseReportDate(raw, field string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(reportDateLayout, raw)
	if err != nil {
		return nil, apperror.NewValidationError(field + " must be YYYY-MM-DD")
	}
	return &t, nil
}
