package salaryconfigerrors

import (
	"net/http"

	"hris-payroll/internal/shared/apperror"
)

var (
	ErrSalaryConfigNotFound = apperror.NotFound("Salary config")
	ErrEmployeeNotFound     = apperror.NotFound("Employee")

	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"Amounts must be non-negative numbers with at most 2 decimal places",
		http.StatusBadRequest,
	)
	ErrSalaryConfigAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Salary config for this employee already exists",
		http.StatusConflict,
	)
)
