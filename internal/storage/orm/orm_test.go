package orm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aanand-mishra/students-crud/internal/storage"
	"github.com/aanand-mishra/students-crud/internal/types"
	"gorm.io/gorm"
)

func TestMapErr(t *testing.T) {
	driverUnique := errors.New("driver: unique")
	s := New(nil, func(err error) error {
		if errors.Is(err, driverUnique) {
			return storage.ErrEmailExists
		}
		return nil
	})

	boom := errors.New("disk on fire")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"record not found", fmt.Errorf("query: %w", gorm.ErrRecordNotFound), storage.ErrNotFound},
		{"gorm duplicate", gorm.ErrDuplicatedKey, storage.ErrEmailExists},
		{"translated driver error", fmt.Errorf("exec: %w", driverUnique), storage.ErrEmailExists},
		{"already mapped", storage.ErrNotFound, storage.ErrNotFound},
		{"unknown", boom, boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.mapErr(tt.in); !errors.Is(got, tt.want) {
				t.Fatalf("mapErr(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMapErr_KeepsCause(t *testing.T) {
	cause := errors.New("UNIQUE constraint failed: students.email")
	s := New(nil, func(error) error { return storage.ErrEmailExists })

	got := s.mapErr(cause)
	if !errors.Is(got, storage.ErrEmailExists) || !errors.Is(got, cause) {
		t.Fatalf("expected both sentinel and cause in chain, got %v", got)
	}
}

func TestCheck_UsesJSONFieldNames(t *testing.T) {
	s := New(nil, nil)

	err := s.check(types.Student{FirstName: "Ada", Email: "nope"})

	var verr *storage.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := "lastName is required, email must be a valid email address"
	if verr.Error() != want {
		t.Fatalf("message = %q, want %q", verr.Error(), want)
	}
}

func TestCheck_Valid(t *testing.T) {
	s := New(nil, nil)
	if err := s.check(types.Student{FirstName: "Ada", LastName: "Lovelace", Email: "ada@x.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
