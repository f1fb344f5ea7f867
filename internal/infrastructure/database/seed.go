package database

import (
	"errors"
	"strings"

	"github.com/sangkips/billing-api/internal/domain/entity"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedOptions describes the optional first company and operator
type SeedOptions struct {
	CompanyName   string
	CompanyState  string
	AdminEmail    string
	AdminPassword string
}

// SeedDefaultData creates the first company and an admin operator when the
// database has no company yet. It is a no-op otherwise.
func SeedDefaultData(db *gorm.DB, opts SeedOptions, log *zap.Logger) error {
	if opts.CompanyName == "" {
		return nil
	}

	var count int64
	if err := db.Model(&entity.Company{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		company := &entity.Company{Name: opts.CompanyName, State: opts.CompanyState}
		if err := tx.Create(company).Error; err != nil {
			return err
		}
		log.Info("seeded company", zap.String("company_id", company.ID.String()))

		if opts.AdminEmail == "" {
			return nil
		}
		if opts.AdminPassword == "" {
			return errors.New("seed admin password is empty")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := &entity.User{
			CompanyID:    &company.ID,
			Email:        strings.ToLower(opts.AdminEmail),
			Name:         "Administrator",
			Role:         entity.RoleAdmin,
			PasswordHash: string(hash),
		}
		return tx.Create(admin).Error
	})
}
