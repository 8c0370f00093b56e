package constants

import (
	"errors"
	"net/http"
)

// CodedError несёт HTTP-код, который отдаёт httpErrorHandler.
type CodedError struct {
	code int
	msg  string
}

func NewCodedError(code int, msg string) *CodedError {
	return &CodedError{code: code, msg: msg}
}

func (e *CodedError) Error() string {
	return e.msg
}

func (e *CodedError) Code() int {
	return e.code
}

var (
	ErrDBNotFound = errors.New("record not found in db")
	ErrDBConflict = errors.New("unique constraint violation")

	ErrInvalidGroup      = NewCodedError(http.StatusBadRequest, "invalid blood group")
	ErrInvalidQuantity   = NewCodedError(http.StatusBadRequest, "quantity must be a positive integer")
	ErrInsufficientStock = NewCodedError(http.StatusBadRequest, "insufficient stock")
	ErrMissingBank       = NewCodedError(http.StatusBadRequest, "blood bank is required to approve a request")
	ErrInvalidAction     = NewCodedError(http.StatusBadRequest, "invalid action")
	ErrBadRequest        = NewCodedError(http.StatusBadRequest, "bad request")

	ErrNotFound     = NewCodedError(http.StatusNotFound, "not found")
	ErrForbidden    = NewCodedError(http.StatusForbidden, "forbidden")
	ErrInvalidState = NewCodedError(http.StatusConflict, "request is not pending")

	ErrUnauthorized       = NewCodedError(http.StatusUnauthorized, "unauthorized")
	ErrMissingAuthHeader  = NewCodedError(http.StatusUnauthorized, "authorization header required")
	ErrInvalidToken       = NewCodedError(http.StatusUnauthorized, "invalid token")
	ErrRevokedToken       = NewCodedError(http.StatusUnauthorized, "token is invalidated")
	ErrInvalidCredentials = NewCodedError(http.StatusUnauthorized, "invalid credentials")
	ErrUsernameTaken      = NewCodedError(http.StatusConflict, "username already taken")
)
