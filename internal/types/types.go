// Package types holds the shared data structures used across the
// application. Keeping them in one place prevents import cycles:
// handlers, storage, and utils can all import types without depending
// on each other.
package types

import "time"

// Student is a row in the students table.
//
// Struct tags:
//
//   - json:"..."     the camelCase shape the API speaks.
//   - gorm:"..."     column hints for the ORM; the schema itself lives in
//     the storage migrations.
//   - validate:"..." rules checked by the record store before every write.
type Student struct {
	ID        int64     `json:"id"        gorm:"primaryKey;autoIncrement"`
	FirstName string    `json:"firstName" gorm:"not null"             validate:"required"`
	LastName  string    `json:"lastName"  gorm:"not null"             validate:"required"`
	Email     string    `json:"email"     gorm:"not null;uniqueIndex" validate:"required,email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateStudentParams holds the fields accepted when creating a student.
type CreateStudentParams struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// UpdateStudentParams holds the fields accepted when updating a student.
// A nil pointer leaves the stored value unchanged.
type UpdateStudentParams struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
}
