package payrollerrors

import (
	"net/http"

	"hris-payroll/internal/shared/apperror"
)

var (
	ErrInvalidMonth = apperror.New(
		apperror.CodeInvalidInput,
		"month must be between 1 and 12",
		http.StatusBadRequest,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"year must be between 2000 and 9999",
		http.StatusBadRequest,
	)
	ErrInvalidPeriodID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll period id",
		http.StatusBadRequest,
	)
	ErrInvalidPayslipID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payslip id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidPeriodStatus = apperror.New(
		apperror.CodeInvalidInput,
		"status must be one of Draft, Locked, Paid",
		http.StatusBadRequest,
	)

	ErrPeriodNotFound  = apperror.NotFound("Payroll period")
	ErrPayslipNotFound = apperror.NotFound("Payslip")

	ErrDownloadTokenInvalid = apperror.New(
		apperror.CodeNotFound,
		"download link is invalid or has already been used",
		http.StatusNotFound,
	)
	ErrPayslipForbidden = apperror.New(
		apperror.CodeForbidden,
		"payslip belongs to another employee",
		http.StatusForbidden,
	)

	ErrPeriodNotDraft = apperror.New(
		apperror.CodeConflict,
		"payroll period is locked or paid and cannot be regenerated",
		http.StatusConflict,
	)
	ErrInvalidPeriodTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid payroll period status transition",
		http.StatusConflict,
	)

	ErrPeriodMissing = apperror.New(
		apperror.CodeInternalError,
		"payroll period could not be opened",
		http.StatusInternalServerError,
	)
	ErrArchiveDisabled = apperror.New(
		apperror.CodeServiceUnavailable,
		"payslip archive storage is not configured",
		http.StatusServiceUnavailable,
	)
	ErrDownloadsDisabled = apperror.New(
		apperror.CodeServiceUnavailable,
		"payslip downloads are not configured",
		http.StatusServiceUnavailable,
	)
)
