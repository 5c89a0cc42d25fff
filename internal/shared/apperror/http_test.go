package apperror_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"testing"

	"hris-payroll/internal/shared/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestToHTTP(t *testing.T) {
	type payload struct {
		LeaveTypeID string `json:"leave_type_id" validate:"required"`
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string { return "leave_type_id" })
	vErr := v.Struct(payload{})

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "app error",
			err:        apperror.NotFound("Employee"),
			wantStatus: http.StatusNotFound,
			wantCode:   apperror.CodeNotFound,
			wantMsg:    "Employee not found",
		},
		{
			name:       "wrapped app error",
			err:        fmt.Errorf("decide: %w", apperror.ErrForbidden),
			wantStatus: http.StatusForbidden,
			wantCode:   apperror.CodeForbidden,
			wantMsg:    apperror.ErrForbidden.Message,
		},
		{
			name:       "deadline",
			err:        fmt.Errorf("query: %w", context.DeadlineExceeded),
			wantStatus: http.StatusGatewayTimeout,
			wantCode:   apperror.CodeDeadlineExceeded,
			wantMsg:    apperror.ErrDeadlineExceeded.Message,
		},
		{
			name:       "canceled",
			err:        context.Canceled,
			wantStatus: apperror.StatusClientClosedRequest,
			wantCode:   apperror.CodeCanceled,
			wantMsg:    apperror.ErrCanceled.Message,
		},
		{
			name:       "validation",
			err:        vErr,
			wantStatus: http.StatusBadRequest,
			wantCode:   apperror.CodeInvalidInput,
			wantMsg:    "Leave Type Id is required",
		},
		{
			name:       "unknown",
			err:        errors.New("pq: connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   apperror.CodeInternalError,
			wantMsg:    apperror.ErrInternal.Message,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := apperror.ToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantMsg, got.Message)
		})
	}
}

func TestWrap_NilError(t *testing.T) {
	assert.Nil(t, apperror.Wrap(nil, apperror.CodeInternalError, "x", http.StatusInternalServerError))
}

func TestFromContext_NonContextError(t *testing.T) {
	assert.Nil(t, apperror.FromContext(errors.New("boom")))
}
