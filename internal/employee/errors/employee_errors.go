package employeeerrors

import (
	"net/http"

	"hris-payroll/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.NotFound("Employee")

	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
)
