// Package orm implements storage.Storage on top of GORM. It is dialect
// agnostic: the sqlite and postgres packages open the *gorm.DB, run the
// migrations, and hand it over together with a translator for their
// driver's constraint errors.
package orm

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/aanand-mishra/students-crud/internal/storage"
	"github.com/aanand-mishra/students-crud/internal/types"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// ErrorTranslator maps a driver error onto one of the storage errors.
// It returns nil for errors it does not recognise.
type ErrorTranslator func(err error) error

// Store is a storage.Storage backed by a *gorm.DB.
// A single Store is safe for concurrent use.
type Store struct {
	db        *gorm.DB
	translate ErrorTranslator
	validate  *validator.Validate
}

var _ storage.Storage = (*Store)(nil)

// New wraps db. translate may be nil.
func New(db *gorm.DB, translate ErrorTranslator) *Store {
	v := validator.New()
	// Report fields by their JSON names ("firstName", not "FirstName").
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Store{db: db, translate: translate, validate: v}
}

// DB exposes the underlying handle for health checks and tests.
func (s *Store) DB() *gorm.DB { return s.db }

// CreateStudent validates params and inserts a new row.
func (s *Store) CreateStudent(ctx context.Context, params types.CreateStudentParams) (types.Student, error) {
	student := types.Student{
		FirstName: params.FirstName,
		LastName:  params.LastName,
		Email:     params.Email,
	}

	if err := s.check(student); err != nil {
		return types.Student{}, err
	}

	if err := s.db.WithContext(ctx).Create(&student).Error; err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: %w", s.mapErr(err))
	}

	return student, nil
}

// GetStudentByID fetches exactly one student by primary key.
func (s *Store) GetStudentByID(ctx context.Context, id int64) (types.Student, error) {
	var student types.Student
	if err := s.db.WithContext(ctx).First(&student, id).Error; err != nil {
		return types.Student{}, fmt.Errorf("GetStudentByID: %w", s.mapErr(err))
	}
	return student, nil
}

// GetStudents returns all students ordered by id.
func (s *Store) GetStudents(ctx context.Context) ([]types.Student, error) {
	students := make([]types.Student, 0)
	if err := s.db.WithContext(ctx).Order("id").Find(&students).Error; err != nil {
		return nil, fmt.Errorf("GetStudents: %w", s.mapErr(err))
	}
	if students == nil {
		students = []types.Student{}
	}
	return students, nil
}

// UpdateStudentByID loads the student, applies the provided fields,
// re-validates the whole record and saves it, all in one transaction.
func (s *Store) UpdateStudentByID(ctx context.Context, id int64, params types.UpdateStudentParams) (types.Student, error) {
	var student types.Student

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&student, id).Error; err != nil {
			return err
		}

		if params.FirstName != nil {
			student.FirstName = *params.FirstName
		}
		if params.LastName != nil {
			student.LastName = *params.LastName
		}
		if params.Email != nil {
			student.Email = *params.Email
		}

		if err := s.check(student); err != nil {
			return err
		}

		return tx.Save(&student).Error
	})
	if err != nil {
		var verr *storage.ValidationError
		if errors.As(err, &verr) {
			return types.Student{}, err
		}
		return types.Student{}, fmt.Errorf("UpdateStudentByID: %w", s.mapErr(err))
	}

	return student, nil
}

// DeleteStudentByID removes a student by primary key.
// Returns storage.ErrNotFound if no row was deleted.
func (s *Store) DeleteStudentByID(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&types.Student{}, id)
	if res.Error != nil {
		return fmt.Errorf("DeleteStudentByID: %w", s.mapErr(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("DeleteStudentByID: %w", storage.ErrNotFound)
	}
	return nil
}

// Ping verifies that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes all pooled connections.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// check runs the validate tags on student.
func (s *Store) check(student types.Student) error {
	err := s.validate.Struct(student)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return storage.NewValidationError(verrs)
	}
	return err
}

// mapErr converts GORM and driver errors into storage errors, keeping the
// original error in the chain.
func (s *Store) mapErr(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrEmailExists):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return storage.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %w", storage.ErrEmailExists, err)
	}

	if s.translate != nil {
		if mapped := s.translate(err); mapped != nil {
			return fmt.Errorf("%w: %w", mapped, err)
		}
	}

	return err
}
