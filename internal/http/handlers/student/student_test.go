package student_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aanand-mishra/students-crud/internal/config"
	"github.com/aanand-mishra/students-crud/internal/http/handlers/student"
	"github.com/aanand-mishra/students-crud/internal/storage"
	"github.com/aanand-mishra/students-crud/internal/storage/sqlite"
	"github.com/aanand-mishra/students-crud/internal/types"
)

// ─────────────────────────────────────────────────────────────────────────────
// Test fixtures
// ─────────────────────────────────────────────────────────────────────────────

func newMux(s storage.Storage) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/students", student.New(s))
	mux.HandleFunc("GET /api/students", student.GetList(s))
	mux.HandleFunc("GET /api/students/{id}", student.GetByID(s))
	mux.HandleFunc("PUT /api/students/{id}", student.Update(s))
	mux.HandleFunc("DELETE /api/students/{id}", student.Delete(s))
	return mux
}

func newTestStore(t *testing.T) storage.Storage {
	t.Helper()

	s, err := sqlite.New(&config.Config{Storage: config.Storage{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "students.db"),
	}})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeStudent(t *testing.T, rec *httptest.ResponseRecorder) types.Student {
	t.Helper()
	var st types.Student
	if err := json.NewDecoder(rec.Body).Decode(&st); err != nil {
		t.Fatalf("decode student: %v (body %q)", err, rec.Body.String())
	}
	return st
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body %q)", rec.Code, want, rec.Body.String())
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Create
// ─────────────────────────────────────────────────────────────────────────────

func TestCreate(t *testing.T) {
	h := newMux(newTestStore(t))

	rec := do(t, h, http.MethodPost, "/api/students",
		`{"firstName":"Ada","lastName":"Lovelace","email":"ada@x.com"}`)
	expectStatus(t, rec, http.StatusCreated)

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}

	st := decodeStudent(t, rec)
	if st.ID != 1 || st.FirstName != "Ada" || st.LastName != "Lovelace" || st.Email != "ada@x.com" {
		t.Fatalf("unexpected student: %+v", st)
	}

	rec = do(t, h, http.MethodGet, "/api/students/1", "")
	expectStatus(t, rec, http.StatusOK)
	got := decodeStudent(t, rec)
	if got.ID != st.ID || got.FirstName != st.FirstName || got.LastName != st.LastName || got.Email != st.Email {
		t.Fatalf("get returned %+v, want %+v", got, st)
	}
}

func TestCreate_MissingFields(t *testing.T) {
	bodies := map[string]string{
		"no first name": `{"lastName":"Lovelace","email":"ada@x.com"}`,
		"no last name":  `{"firstName":"Ada","email":"ada@x.com"}`,
		"no email":      `{"firstName":"Ada","lastName":"Lovelace"}`,
		"empty email":   `{"firstName":"Ada","lastName":"Lovelace","email":""}`,
		"empty object":  `{}`,
		"empty body":    ``,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			s := newTestStore(t)
			h := newMux(s)

			rec := do(t, h, http.MethodPost, "/api/students", body)
			expectStatus(t, rec, http.StatusBadRequest)
			if msg := errorBody(t, rec); msg != "All fields (firstName, lastName, email) are required" {
				t.Fatalf("error = %q", msg)
			}

			all, err := s.GetStudents(context.Background())
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(all) != 0 {
				t.Fatalf("expected nothing persisted, got %d", len(all))
			}
		})
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	h := newMux(s)
	body := `{"firstName":"Ada","lastName":"Lovelace","email":"ada@x.com"}`

	expectStatus(t, do(t, h, http.MethodPost, "/api/students", body), http.StatusCreated)

	rec := do(t, h, http.MethodPost, "/api/students", body)
	expectStatus(t, rec, http.StatusBadRequest)
	if msg := errorBody(t, rec); msg != "Email already exists" {
		t.Fatalf("error = %q", msg)
	}

	all, err := s.GetStudents(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(all))
	}
}

func TestCreate_InvalidEmail(t *testing.T) {
	h := newMux(newTestStore(t))

	rec := do(t, h, http.MethodPost, "/api/students",
		`{"firstName":"Ada","lastName":"Lovelace","email":"ada-at-x"}`)
	expectStatus(t, rec, http.StatusBadRequest)
	if msg := errorBody(t, rec); msg != "email must be a valid email address" {
		t.Fatalf("error = %q", msg)
	}
}

func TestCreate_MalformedJSON(t *testing.T) {
	h := newMux(newTestStore(t))

	rec := do(t, h, http.MethodPost, "/api/students", `{"firstName":`)
	expectStatus(t, rec, http.StatusBadRequest)
	if msg := errorBody(t, rec); !strings.HasPrefix(msg, "invalid request body") {
		t.Fatalf("error = %q", msg)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// List / Get
// ─────────────────────────────────────────────────────────────────────────────

func TestGetList(t *testing.T) {
	h := newMux(newTestStore(t))

	rec := do(t, h, http.MethodGet, "/api/students", "")
	expectStatus(t, rec, http.StatusOK)
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Fatalf("empty list body = %q, want []", body)
	}

	do(t, h, http.MethodPost, "/api/students", `{"firstName":"Ada","lastName":"Lovelace","email":"ada@x.com"}`)
	do(t, h, http.MethodPost, "/api/students", `{"firstName":"Grace","lastName":"Hopper","email":"grace@x.com"}`)

	rec = do(t, h, http.MethodGet, "/api/students", "")
	expectStatus(t, rec, http.StatusOK)

	var all []types.Student
	if err := json.NewDecoder(rec.Body).Decode(&all); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(all) != 2 || all[0].Email != "ada@x.com" || all[1].Email != "grace@x.com" {
		t.Fatalf("unexpected list: %+v", all)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	h := newMux(newTestStore(t))

	for _, path := range []string{"/api/students/999", "/api/students/abc"} {
		rec := do(t, h, http.MethodGet, path, "")
		expectStatus(t, rec, http.StatusNotFound)
		if msg := errorBody(t, rec); msg != "Student not found" {
			t.Fatalf("%s: error = %q", path, msg)
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update
// ─────────────────────────────────────────────────────────────────────────────

func TestUpdate_Partial(t *testing.T) {
	h := newMux(newTestStore(t))
	do(t, h, http.MethodPost, "/api/students", `{"firstName":"Ada","lastName":"Byron","email":"ada@x.com"}`)

	rec := do(t, h, http.MethodPut, "/api/students/1", `{"lastName":"Lovelace"}`)
	expectStatus(t, rec, http.StatusOK)

	st := decodeStudent(t, rec)
	if st.FirstName != "Ada" || st.LastName != "Lovelace" || st.Email != "ada@x.com" {
		t.Fatalf("unexpected student: %+v", st)
	}
}

func TestUpdate_EmptyBodyLeavesRecord(t *testing.T) {
	h := newMux(newTestStore(t))
	do(t, h, http.MethodPost, "/api/students", `{"firstName":"Ada","lastName":"Lovelace","email":"ada@x.com"}`)

	rec := do(t, h, http.MethodPut, "/api/students/1", "")
	expectStatus(t, rec, http.StatusOK)
	if st := decodeStudent(t, rec); st.Email != "ada@x.com" {
		t.Fatalf("unexpected student: %+v", st)
	}
}

func TestUpdate_DuplicateEmail(t *testing.T) {
	h := newMux(newTestStore(t))
	do(t, h, http.MethodPost, "/api/students", `{"firstName":"Ada","lastName":"Lovelace","email":"ada@x.com"}`)
	do(t, h, http.MethodPost, "/api/students", `{"firstName":"Grace","lastName":"Hopper","email":"grace@x.com"}`)

	rec := do(t, h, http.MethodPut, "/api/students/2", `{"email":"ada@x.com"}`)
	expectStatus(t, rec, http.StatusBadRequest)
	if msg := errorBody(t, rec); msg != "Email already exists" {
		t.Fatalf("error = %q", msg)
	}

	rec = do(t, h, http.MethodGet, "/api/students/2", "")
	expectStatus(t, rec, http.StatusOK)
	if st := decodeStudent(t, rec); st.Email != "grace@x.com" {
		t.Fatalf("original record changed: %+v", st)
	}
}

func TestUpdate_Invalid(t *testing.T) {
	h := newMux(newTestStore(t))
	do(t, h, http.MethodPost, "/api/students", `{"firstName":"Ada","lastName":"Lovelace","email":"ada@x.com"}`)

	rec := do(t, h, http.MethodPut, "/api/students/1", `{"firstName":"","email":"nope"}`)
	expectStatus(t, rec, http.StatusBadRequest)
	if msg := errorBody(t, rec); msg != "firstName is required, email must be a valid email address" {
		t.Fatalf("error = %q", msg)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	h := newMux(newTestStore(t))

	rec := do(t, h, http.MethodPut, "/api/students/7", `{"firstName":"Ada"}`)
	expectStatus(t, rec, http.StatusNotFound)
	if msg := errorBody(t, rec); msg != "Student not found" {
		t.Fatalf("error = %q", msg)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete
// ─────────────────────────────────────────────────────────────────────────────

func TestDelete(t *testing.T) {
	h := newMux(newTestStore(t))
	do(t, h, http.MethodPost, "/api/students", `{"firstName":"Ada","lastName":"Lovelace","email":"ada@x.com"}`)

	rec := do(t, h, http.MethodDelete, "/api/students/1", "")
	expectStatus(t, rec, http.StatusOK)

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != "Student deleted successfully" {
		t.Fatalf("message = %q", body.Message)
	}

	expectStatus(t, do(t, h, http.MethodGet, "/api/students/1", ""), http.StatusNotFound)
	expectStatus(t, do(t, h, http.MethodDelete, "/api/students/1", ""), http.StatusNotFound)
}

// ─────────────────────────────────────────────────────────────────────────────
// Unexpected storage failures
// ─────────────────────────────────────────────────────────────────────────────

// brokenStore fails every call with the same error.
type brokenStore struct{ err error }

func (b brokenStore) CreateStudent(context.Context, types.CreateStudentParams) (types.Student, error) {
	return types.Student{}, b.err
}
func (b brokenStore) GetStudentByID(context.Context, int64) (types.Student, error) {
	return types.Student{}, b.err
}
func (b brokenStore) GetStudents(context.Context) ([]types.Student, error) { return nil, b.err }
func (b brokenStore) UpdateStudentByID(context.Context, int64, types.UpdateStudentParams) (types.Student, error) {
	return types.Student{}, b.err
}
func (b brokenStore) DeleteStudentByID(context.Context, int64) error { return b.err }
func (b brokenStore) Close() error                                   { return nil }

func TestUnexpectedErrors(t *testing.T) {
	h := newMux(brokenStore{err: errors.New("database is unavailable")})

	requests := []struct{ method, path, body string }{
		{http.MethodPost, "/api/students", `{"firstName":"Ada","lastName":"Lovelace","email":"ada@x.com"}`},
		{http.MethodGet, "/api/students", ""},
		{http.MethodGet, "/api/students/1", ""},
		{http.MethodPut, "/api/students/1", `{"firstName":"Ada"}`},
		{http.MethodDelete, "/api/students/1", ""},
	}

	for _, r := range requests {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			rec := do(t, h, r.method, r.path, r.body)
			expectStatus(t, rec, http.StatusInternalServerError)
			if msg := errorBody(t, rec); msg != "database is unavailable" {
				t.Fatalf("error = %q", msg)
			}
		})
	}
}
