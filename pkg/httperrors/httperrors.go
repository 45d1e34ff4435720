package httperrors

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

// RestError is the error shape every handler returns to clients.
type RestError struct {
	Code    string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// FieldDetail carries field-level context for validation and constraint errors.
type FieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *RestError) Error() string {
	return e.Message
}

func (e *RestError) HTTPStatus() int {
	switch e.Code {
	case CodeBadRequest, CodeValidation, CodeInsufficientStock, CodeInvalidTransition:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

const (
	CodeBadRequest        = "BadRequest"
	CodeValidation        = "ValidationError"
	CodeNotFound          = "NotFound"
	CodeConflict          = "Conflict"
	CodeInsufficientStock = "InsufficientStock"
	CodeInvalidTransition = "InvalidTransition"
	CodeInternal          = "InternalError"
)

func New(code, message string, details interface{}) *RestError {
	return &RestError{Code: code, Message: message, Details: details}
}

func NewBadRequest(message string) *RestError {
	return New(CodeBadRequest, message, nil)
}

func NewValidation(field, message string) *RestError {
	return New(CodeValidation, message, FieldDetail{Field: field, Message: message})
}

func NewNotFound(resource, id string) *RestError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource), FieldDetail{Field: "id", Message: id})
}

func NewConflict(field, message string) *RestError {
	return New(CodeConflict, message, FieldDetail{Field: field, Message: message})
}

func NewInsufficientStock(message string) *RestError {
	return New(CodeInsufficientStock, message, nil)
}

func NewInvalidTransition(message string) *RestError {
	return New(CodeInvalidTransition, message, nil)
}

func NewInternal(err error) *RestError {
	return New(CodeInternal, "internal server error", err.Error())
}

// Postgres error codes worth translating into business errors.
const (
	pgUniqueViolation  = "23505"
	pgCheckViolation   = "23514"
	pgFKViolation      = "23503"
	pgNotNullViolation = "23502"
)

// ParseDBError translates low-level storage errors into the REST taxonomy:
// duplicate keys become Conflict, constraint violations become BadRequest,
// missing rows become NotFound. Anything else stays an internal error.
func ParseDBError(err error) *RestError {
	var restErr *RestError
	if errors.As(err, &restErr) {
		return restErr
	}
	if errors.Is(err, sql.ErrNoRows) {
		return New(CodeNotFound, "record not found", nil)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return NewConflict(pgErr.ConstraintName, "duplicate value violates unique constraint")
		case pgCheckViolation:
			return New(CodeBadRequest, "value violates check constraint",
				FieldDetail{Field: pgErr.ConstraintName, Message: pgErr.Message})
		case pgFKViolation:
			return New(CodeBadRequest, "referenced record does not exist",
				FieldDetail{Field: pgErr.ConstraintName, Message: pgErr.Message})
		case pgNotNullViolation:
			return New(CodeBadRequest, "required value is missing",
				FieldDetail{Field: pgErr.ColumnName, Message: pgErr.Message})
		}
	}
	return NewInternal(err)
}

// Status resolves the HTTP status for any error, defaulting to 500.
func Status(err error) int {
	var restErr *RestError
	if errors.As(err, &restErr) {
		return restErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// From converts any error into a RestError suitable for a JSON response.
func From(err error) *RestError {
	var restErr *RestError
	if errors.As(err, &restErr) {
		return restErr
	}
	return NewInternal(err)
}
