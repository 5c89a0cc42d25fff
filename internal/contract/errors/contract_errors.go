package contracterrors

import (
	"net/http"

	"hris-payroll/internal/shared/apperror"
)

var (
	ErrContractNotFound = apperror.NotFound("Contract")
	ErrEmployeeNotFound = apperror.NotFound("Employee")

	ErrInvalidContractID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid contract ID",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"end_date must not be before start_date",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"status must be one of Active, Expired, Terminated",
		http.StatusBadRequest,
	)
	ErrInvalidSalaryRate = apperror.New(
		apperror.CodeInvalidInput,
		"salary_rate must be a non-negative amount with at most 2 decimal places",
		http.StatusBadRequest,
	)

	ErrActiveContractExists = apperror.New(
		apperror.CodeConflict,
		"Employee already has an active contract",
		http.StatusConflict,
	)
	ErrContractNumberExists = apperror.New(
		apperror.CodeConflict,
		"Contract number already exists",
		http.StatusConflict,
	)
)
