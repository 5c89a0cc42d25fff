package apperror

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

type HTTPError struct {
	Status  int
	Code    string
	Message string
}

// FromContext turns a context failure into the matching AppError, or nil when
// err is not caused by cancellation.
func FromContext(err error) *AppError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(err, ErrDeadlineExceeded.Code, ErrDeadlineExceeded.Message, ErrDeadlineExceeded.HTTPStatus)
	case errors.Is(err, context.Canceled):
		return Wrap(err, ErrCanceled.Code, ErrCanceled.Message, ErrCanceled.HTTPStatus)
	}
	return nil
}

// ToHTTP resolves any error into a status, code and message safe to return
// to clients. Unknown errors collapse into INTERNAL_ERROR.
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return HTTPError{Status: appErr.HTTPStatus, Code: appErr.Code, Message: appErr.Message}
	}

	if ctxErr := FromContext(err); ctxErr != nil {
		return HTTPError{Status: ctxErr.HTTPStatus, Code: ctxErr.Code, Message: ctxErr.Message}
	}

	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		mapped := MapValidationError(vErrs)
		if errors.As(mapped, &appErr) {
			return HTTPError{Status: appErr.HTTPStatus, Code: appErr.Code, Message: appErr.Message}
		}
	}

	return HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    ErrInternal.Code,
		Message: ErrInternal.Message,
	}
}
