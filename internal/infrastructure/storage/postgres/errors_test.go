package postgres

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventa/internal/core/apperror"
)

func TestTranslateError_UniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "items_sku_uniq"}
	err := TranslateError(fmt.Errorf("exec: %w", pgErr), "items")

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
	assert.Equal(t, "items_sku_uniq", appErr.Details["constraint"])
	assert.Equal(t, "items", appErr.Details["entity"])
}

func TestTranslateError_ForeignKeyViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23503", ConstraintName: "inventory_setups_item_id_fkey"}
	err := TranslateError(pgErr, "inventory_setups")

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, appErr.HTTPStatus)
}

func TestTranslateError_CheckViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23514", ConstraintName: "inventory_setups_levels_chk"}
	err := TranslateError(pgErr, "inventory_setups")

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
}

func TestTranslateError_PassThrough(t *testing.T) {
	plain := errors.New("connection refused")
	assert.Equal(t, plain, TranslateError(plain, "items"))
	assert.Nil(t, TranslateError(nil, "items"))

	// Unknown pg code passes through untouched.
	pgErr := &pgconn.PgError{Code: "57014"}
	assert.Equal(t, pgErr, TranslateError(pgErr, "items"))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, IsUniqueViolation(fmt.Errorf("wrap: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("nope")))
}
