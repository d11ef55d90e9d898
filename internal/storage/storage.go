// Package storage defines the Storage interface, the contract any
// database backend must satisfy to work with this application, and the
// closed set of errors a backend may signal.
//
// Handlers depend only on this package. They match the errors below with
// errors.Is / errors.As and never inspect driver errors themselves.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aanand-mishra/students-crud/internal/types"
	"github.com/go-playground/validator/v10"
)

var (
	// ErrNotFound is returned when no student matches the given id.
	ErrNotFound = errors.New("student not found")

	// ErrEmailExists is returned when a write would give two students
	// the same email.
	ErrEmailExists = errors.New("email already exists")
)

// ValidationError reports one or more field rules a student record
// failed before it was written.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ", ")
}

// NewValidationError converts validator field errors into a ValidationError
// with one plain sentence per failing field.
func NewValidationError(errs validator.ValidationErrors) *ValidationError {
	messages := make([]string, 0, len(errs))

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email address", e.Field()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}

	return &ValidationError{Messages: messages}
}

// Storage is the record store contract.
type Storage interface {
	// CreateStudent validates and inserts a new student, returning the
	// stored record with its generated id.
	CreateStudent(ctx context.Context, params types.CreateStudentParams) (types.Student, error)

	// GetStudentByID fetches a single student, or ErrNotFound.
	GetStudentByID(ctx context.Context, id int64) (types.Student, error)

	// GetStudents returns every student ordered by id.
	// Returns an empty slice (not nil) if there are no students.
	GetStudents(ctx context.Context) ([]types.Student, error)

	// UpdateStudentByID applies the non-nil fields of params to an
	// existing student and returns the updated record.
	UpdateStudentByID(ctx context.Context, id int64, params types.UpdateStudentParams) (types.Student, error)

	// DeleteStudentByID removes a student permanently, or returns ErrNotFound.
	DeleteStudentByID(ctx context.Context, id int64) error

	// Close releases the underlying connection pool.
	Close() error
}
