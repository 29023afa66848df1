package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestFromStorage(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"record not found", gorm.ErrRecordNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"wrapped not found", fmt.Errorf("find title: %w", gorm.ErrRecordNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"duplicated key", gorm.ErrDuplicatedKey, http.StatusBadRequest, "CONFLICT"},
		{"pg unique violation", &pgconn.PgError{Code: "23505"}, http.StatusBadRequest, "CONFLICT"},
		{"pg fk violation", &pgconn.PgError{Code: "23503"}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"pg check violation", &pgconn.PgError{Code: "23514"}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"anything else", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ae := As(FromStorage(tt.err, "Review"))
			require.NotNil(t, ae)
			assert.Equal(t, tt.wantStatus, ae.HTTPStatus)
			assert.Equal(t, tt.wantCode, ae.Code)
		})
	}
}

func TestFromStorage_PassesAppErrorThrough(t *testing.T) {
	original := Field("year", "in the future")
	assert.Same(t, original, FromStorage(fmt.Errorf("save: %w", original), "Title"))
}

func TestFromStorage_Nil(t *testing.T) {
	assert.NoError(t, FromStorage(nil, "Title"))
}

func TestInternal_HidesCause(t *testing.T) {
	err := Internal(errors.New("pq: password authentication failed"))
	assert.NotContains(t, err.Error(), "password")
	assert.ErrorContains(t, err.Cause, "password")
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsConflict(Conflict("dup")))
	assert.False(t, IsConflict(NotFound("Title")))
	assert.True(t, IsNotFound(fmt.Errorf("x: %w", NotFound("Title"))))
	assert.False(t, IsNotFound(errors.New("plain")))
}
