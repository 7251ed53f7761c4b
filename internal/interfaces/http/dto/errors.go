package dto

import (
	"net/http"
	"strings"

	"github.com/pawnshop/backend/internal/domain/shared"
)

// General error codes used by the HTTP layer itself
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeNotFound   = "NOT_FOUND"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// An unbalanced voucher is a server-side logic bug, never bad input,
// so it maps to 500 rather than 4xx.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeNotFound:   http.StatusNotFound,

	shared.ErrCodeValidation:       http.StatusBadRequest,
	shared.ErrCodeAmountMismatch:   http.StatusBadRequest,
	shared.ErrCodeInvalidDateRange: http.StatusBadRequest,

	shared.ErrCodeInvalidPledgeState:     http.StatusConflict,
	shared.ErrCodeUnauthorizedAdjustment: http.StatusForbidden,
	shared.ErrCodeOverpayment:            http.StatusUnprocessableEntity,
	shared.ErrCodeUnbalancedVoucher:      http.StatusInternalServerError,

	"ALREADY_EXISTS":   http.StatusConflict,
	"CHART_NOT_SEEDED": http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code. Constructor
// codes like INVALID_AMOUNT or INVALID_DATE all indicate bad input.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
