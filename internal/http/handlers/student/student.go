// Package student contains all HTTP handlers for the Student resource.
//
// Handlers are factories: each accepts the storage dependency once at
// route registration and returns the http.HandlerFunc that runs on every
// request.
//
//	router.HandleFunc("POST /api/students", student.New(storage))
package student

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aanand-mishra/students-crud/internal/storage"
	"github.com/aanand-mishra/students-crud/internal/types"
	"github.com/aanand-mishra/students-crud/internal/utils/response"
)

// Client-facing messages.
const (
	msgFieldsRequired = "All fields (firstName, lastName, email) are required"
	msgEmailExists    = "Email already exists"
	msgNotFound       = "Student not found"
	msgDeleted        = "Student deleted successfully"
)

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/students
//
// Request body:
//
//	{ "firstName": "Ada", "lastName": "Lovelace", "email": "ada@x.com" }
//
// Success response (201 Created): the stored student, including its id.
//
// Error responses:
//
//	400 Bad Request  — malformed JSON, missing field, invalid email, email in use
//	500 Internal     — database error
//
// ─────────────────────────────────────────────────────────────────────────────
func New(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		var params types.CreateStudentParams
		if err := decode(r, &params); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if params.FirstName == "" || params.LastName == "" || params.Email == "" {
			response.WriteJSON(w, http.StatusBadRequest, response.Error(msgFieldsRequired))
			return
		}

		student, err := storage.CreateStudent(r.Context(), params)
		if err != nil {
			writeError(w, err)
			return
		}

		slog.Info("student created", slog.Int64("id", student.ID))
		response.WriteJSON(w, http.StatusCreated, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /api/students/{id}
//
// Error responses:
//
//	404 Not Found    — no student with that id (including ids that are not integers)
//	500 Internal     — database error
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("getting a student", slog.String("id", id))

		intID, ok := parseID(id)
		if !ok {
			response.WriteJSON(w, http.StatusNotFound, response.Error(msgNotFound))
			return
		}

		student, err := storage.GetStudentByID(r.Context(), intID)
		if err != nil {
			writeError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// GetList handles GET /api/students and returns every student as a JSON
// array; [] (not null) when there are none.
func GetList(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")

		students, err := storage.GetStudents(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /api/students/{id}
//
// Every field is optional; omitted fields keep their stored value:
//
//	{ "email": "ada.lovelace@x.com" }
//
// Success response (200 OK): the updated student.
//
// Error responses:
//
//	400 Bad Request  — malformed JSON, empty field, invalid email, email in use
//	404 Not Found    — no student with that id
//	500 Internal     — database error
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("updating a student", slog.String("id", id))

		intID, ok := parseID(id)
		if !ok {
			response.WriteJSON(w, http.StatusNotFound, response.Error(msgNotFound))
			return
		}

		var params types.UpdateStudentParams
		if err := decode(r, &params); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		updated, err := storage.UpdateStudentByID(r.Context(), intID, params)
		if err != nil {
			writeError(w, err)
			return
		}

		slog.Info("student updated", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// Delete handles DELETE /api/students/{id}. Deleting an id that does not
// exist is a 404, not a silent success.
func Delete(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("deleting a student", slog.String("id", id))

		intID, ok := parseID(id)
		if !ok {
			response.WriteJSON(w, http.StatusNotFound, response.Error(msgNotFound))
			return
		}

		if err := storage.DeleteStudentByID(r.Context(), intID); err != nil {
			writeError(w, err)
			return
		}

		slog.Info("student deleted", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, response.Message{Message: msgDeleted})
	}
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func parseID(id string) (int64, bool) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// writeError maps every storage error onto a status code and body.
func writeError(w http.ResponseWriter, err error) {
	var verr *storage.ValidationError

	switch {
	case errors.Is(err, storage.ErrNotFound):
		response.WriteJSON(w, http.StatusNotFound, response.Error(msgNotFound))
	case errors.Is(err, storage.ErrEmailExists):
		response.WriteJSON(w, http.StatusBadRequest, response.Error(msgEmailExists))
	case errors.As(err, &verr):
		response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(verr))
	default:
		slog.Error("storage error", slog.String("error", err.Error()))
		response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
	}
}
