package service

import (
	"errors"
	"fmt"
)

// Kind classifies a service error; the transport maps it to a status code.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
)

// Error codes carried in API error responses.
const (
	CodeValidation         = "ERR_VALIDATION"
	CodeNoUpdates          = "ERR_NO_UPDATES"
	CodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	CodeEmailExists        = "ERR_EMAIL_EXISTS"
	CodeInvalidResetToken  = "ERR_INVALID_RESET_TOKEN"
	CodeForbidden          = "ERR_FORBIDDEN"
	CodeUserNotFound       = "ERR_USER_NOT_FOUND"
	CodeStoreNotFound      = "ERR_STORE_NOT_FOUND"
	CodeStoreExists        = "ERR_STORE_EXISTS"
	CodeOwnerConflict      = "ERR_OWNER_CONFLICT"
	CodeInternal           = "ERR_INTERNAL_ERROR"
)

// Error is a domain error with a stable code and a client-safe message.
// Fields holds per-field validation messages keyed by JSON field name.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  map[string]string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

var (
	ErrInvalidCredentials    = newError(KindAuthentication, CodeInvalidCredentials, "Invalid email or password")
	ErrWrongCurrentPassword  = newError(KindAuthentication, CodeInvalidCredentials, "Current password is incorrect")
	ErrEmailTaken            = newError(KindValidation, CodeEmailExists, "Email already registered")
	ErrInvalidOrExpiredToken = newError(KindValidation, CodeInvalidResetToken, "Invalid or expired token")
	ErrNoFieldsToUpdate      = newError(KindValidation, CodeNoUpdates, "No fields to update")
	ErrAdminPasswordChange   = newError(KindAuthorization, CodeForbidden, "Cannot change password of another admin")
	ErrAdminDelete           = newError(KindAuthorization, CodeForbidden, "Cannot delete admin users")
	ErrNotStoreOwner         = newError(KindAuthorization, CodeForbidden, "You can only update your own store")
	ErrUserNotFound          = newError(KindNotFound, CodeUserNotFound, "User not found")
	ErrStoreNotFound         = newError(KindNotFound, CodeStoreNotFound, "Store not found")
	ErrStoreExists           = newError(KindConflict, CodeStoreExists, "Store with this email already exists")
	ErrOwnerAlreadyHasStore  = newError(KindConflict, CodeOwnerConflict, "Store owner already has a store")
	ErrOwnerStoreExists      = newError(KindValidation, CodeOwnerConflict, "You already have a store")
	ErrOwnerNotEligible      = newError(KindConflict, CodeOwnerConflict, "Email belongs to a user who cannot own a store")
)

// validationError builds a KindValidation error carrying per-field messages.
func validationError(fields map[string]string) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    CodeValidation,
		Message: "Validation failed",
		Fields:  fields,
	}
}

// internalError wraps an unexpected failure; the message never reaches clients.
func internalError(op string, err error) *Error {
	return &Error{
		Kind:    KindInternal,
		Code:    CodeInternal,
		Message: op,
		cause:   err,
	}
}

// AsError extracts a *Error from err. Errors of any other type are reported
// as internal.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return internalError("unexpected error", err)
}
