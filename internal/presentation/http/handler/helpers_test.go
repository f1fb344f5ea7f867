package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/billing-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
)

func testContext(tokenCompany uuid.UUID) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if tokenCompany != uuid.Nil {
		c.Set(ContextCompanyID, tokenCompany)
	}
	return c, w
}

func TestCompanyScope(t *testing.T) {
	bound := uuid.New()
	other := uuid.New()

	tests := []struct {
		name     string
		token    uuid.UUID
		raw      string
		want     uuid.UUID
		wantOK   bool
		wantCode int
	}{
		{"explicit without token", uuid.Nil, other.String(), other, true, http.StatusOK},
		{"falls back to token", bound, "", bound, true, http.StatusOK},
		{"matches token", bound, bound.String(), bound, true, http.StatusOK},
		{"missing", uuid.Nil, "", uuid.Nil, false, http.StatusBadRequest},
		{"malformed", uuid.Nil, "42", uuid.Nil, false, http.StatusBadRequest},
		{"other company", bound, other.String(), uuid.Nil, false, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := testContext(tt.token)
			got, ok := companyScope(c, tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestOptionalID(t *testing.T) {
	id, err := optionalID("", "customerId")
	assert.NoError(t, err)
	assert.Nil(t, id)

	want := uuid.New()
	id, err = optionalID(want.String(), "customerId")
	assert.NoError(t, err)
	assert.Equal(t, want, *id)

	_, err = optionalID("walk-in", "customerId")
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}
