package httperrors

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{CodeBadRequest, http.StatusBadRequest},
		{CodeValidation, http.StatusBadRequest},
		{CodeInsufficientStock, http.StatusBadRequest},
		{CodeInvalidTransition, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, New(tt.code, "msg", nil).HTTPStatus(), tt.code)
	}
}

func TestParseDBError(t *testing.T) {
	t.Run("passes through rest errors", func(t *testing.T) {
		orig := NewInsufficientStock("no stock")
		wrapped := fmt.Errorf("usecase: %w", orig)
		assert.Equal(t, orig, ParseDBError(wrapped))
	})

	t.Run("no rows becomes not found", func(t *testing.T) {
		got := ParseDBError(sql.ErrNoRows)
		assert.Equal(t, CodeNotFound, got.Code)
	})

	t.Run("unique violation becomes conflict", func(t *testing.T) {
		got := ParseDBError(&pgconn.PgError{Code: "23505", ConstraintName: "orders_tracking_number_key"})
		assert.Equal(t, CodeConflict, got.Code)
	})

	t.Run("check violation becomes bad request", func(t *testing.T) {
		got := ParseDBError(&pgconn.PgError{Code: "23514", ConstraintName: "products_stock_check"})
		assert.Equal(t, CodeBadRequest, got.Code)
	})

	t.Run("not null violation becomes bad request", func(t *testing.T) {
		got := ParseDBError(&pgconn.PgError{Code: "23502", ColumnName: "customer_name"})
		assert.Equal(t, CodeBadRequest, got.Code)
	})

	t.Run("fk violation becomes bad request", func(t *testing.T) {
		got := ParseDBError(&pgconn.PgError{Code: "23503", ConstraintName: "order_items_product_id_fkey"})
		assert.Equal(t, CodeBadRequest, got.Code)
	})

	t.Run("unknown errors stay internal", func(t *testing.T) {
		got := ParseDBError(errors.New("connection refused"))
		assert.Equal(t, CodeInternal, got.Code)
	})
}

func TestStatusAndFrom(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, Status(NewNotFound("order", "o1")))
	assert.Equal(t, http.StatusInternalServerError, Status(errors.New("boom")))

	restErr := From(errors.New("boom"))
	assert.Equal(t, CodeInternal, restErr.Code)
}
