// Package router wires every route and middleware into one http.Handler.
package router

import (
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/students-crud/internal/http/handlers/home"
	"github.com/aanand-mishra/students-crud/internal/http/handlers/student"
	"github.com/aanand-mishra/students-crud/internal/http/middleware"
	"github.com/aanand-mishra/students-crud/internal/storage"
)

// New builds the application handler.
//
// Route table:
//
//	GET    /                    → service index
//	POST   /api/students        → create a new student
//	GET    /api/students        → list all students
//	GET    /api/students/{id}   → get one student by ID
//	PUT    /api/students/{id}   → update a student
//	DELETE /api/students/{id}   → delete a student
//	*                           → 404 {"error":"Route not found"}
func New(storage storage.Storage, log *slog.Logger, corsOrigins []string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", home.Index)

	mux.HandleFunc("POST /api/students", student.New(storage))
	mux.HandleFunc("GET /api/students", student.GetList(storage))
	mux.HandleFunc("GET /api/students/{id}", student.GetByID(storage))
	mux.HandleFunc("PUT /api/students/{id}", student.Update(storage))
	mux.HandleFunc("DELETE /api/students/{id}", student.Delete(storage))

	// "/" matches every method and path, so unknown routes and unsupported
	// methods both land here rather than on ServeMux's plain-text 404/405.
	mux.HandleFunc("/", home.NotFound)

	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.Logger(log),
		middleware.Recover(log),
		middleware.CORS(corsOrigins),
	)
}
