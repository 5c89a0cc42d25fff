package leaveerrors

import (
	"net/http"

	"hris-payroll/internal/shared/apperror"
)

var (
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid approver id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveTypeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave type id",
		http.StatusBadRequest,
	)
	ErrInvalidRequestID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave request id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrInvalidDecisionStatus = apperror.New(
		apperror.CodeInvalidInput,
		"status must be one of Approved, Rejected, Approved_By_Manager",
		http.StatusBadRequest,
	)

	ErrEmployeeNotFound     = apperror.NotFound("Employee")
	ErrLeaveTypeNotFound    = apperror.NotFound("Leave type")
	ErrLeaveRequestNotFound = apperror.NotFound("Leave request")

	ErrRequestAlreadyDecided = apperror.New(
		apperror.CodeConflict,
		"leave request has already been decided",
		http.StatusConflict,
	)
	ErrNoEmployeeProfile = apperror.New(
		apperror.CodeForbidden,
		"account is not linked to an employee",
		http.StatusForbidden,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeConflict,
		"invalid leave status transition",
		http.StatusConflict,
	)
)
