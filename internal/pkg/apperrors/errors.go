package apperrors

import "errors"

// Common errors
var (
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Student errors
var (
	ErrStudentNotFound        = NewResourceNotFoundError("student not found")
	ErrStudentIDAlreadyExists = NewAlreadyExistsError("student ID already exists")
)

// Course errors
var (
	ErrCourseNotFound          = NewResourceNotFoundError("course not found")
	ErrCourseIDAlreadyExists   = NewAlreadyExistsError("course ID already exists")
	ErrCourseNameAlreadyExists = NewAlreadyExistsError("course with this name already exists")
)

// Group errors
var (
	ErrGroupNotFound          = NewResourceNotFoundError("group not found")
	ErrGroupIDAlreadyExists   = NewAlreadyExistsError("group ID already exists")
	ErrGroupNameAlreadyExists = NewAlreadyExistsError("group with this name already exists")
)

// Association errors
var (
	ErrAlreadyEnrolled       = NewConflictError("the student is already enrolled in the course")
	ErrNotEnrolled           = NewConflictError("the student is not enrolled in the course")
	ErrAlreadyGroupMember    = NewConflictError("the student is already a member of the group")
	ErrNotGroupMember        = NewConflictError("the student is not a member of the group")
	ErrStudentInAnotherGroup = NewConflictError("the student already belongs to another group")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewAlreadyExistsError creates a new custom error for uniqueness violations with a message
func NewAlreadyExistsError(message string) error {
	return &CustomError{
		Err:     ErrResourceAlreadyExists,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// IsNotFound reports whether err is any kind of not-found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrResourceNotFound)
}

// IsConflict reports whether err is a conflict or uniqueness violation
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrResourceAlreadyExists)
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}
