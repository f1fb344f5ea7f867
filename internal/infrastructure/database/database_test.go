package database

import (
	"fmt"
	"testing"

	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestSeedDefaultDataIsIdempotent(t *testing.T) {
	db, err := OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	opts := SeedOptions{
		CompanyName:   "Sri Lakshmi Stores",
		CompanyState:  "Karnataka",
		AdminEmail:    "Owner@Shop.in",
		AdminPassword: "s3cret-pass",
	}
	require.NoError(t, SeedDefaultData(db, opts, zap.NewNop()))
	require.NoError(t, SeedDefaultData(db, opts, zap.NewNop()))

	var companies []entity.Company
	require.NoError(t, db.Find(&companies).Error)
	require.Len(t, companies, 1)
	assert.Equal(t, "Karnataka", companies[0].State)

	var admin entity.User
	require.NoError(t, db.First(&admin, "email = ?", "owner@shop.in").Error)
	assert.Equal(t, "admin", admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("s3cret-pass")))
}

func TestSeedSkippedWithoutCompanyName(t *testing.T) {
	db, err := OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	require.NoError(t, SeedDefaultData(db, SeedOptions{}, zap.NewNop()))

	var count int64
	require.NoError(t, db.Model(&entity.Company{}).Count(&count).Error)
	assert.Zero(t, count)
}
