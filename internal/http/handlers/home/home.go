// Package home serves the routes that sit outside the student resource:
// the service index at "/" and the JSON fallback for unknown routes.
package home

import (
	"net/http"

	"github.com/aanand-mishra/students-crud/internal/utils/response"
)

// Version is reported by the index route.
const Version = "1.0.0"

// Info describes the service and the endpoints it exposes.
type Info struct {
	Message   string               `json:"message"`
	Version   string               `json:"version"`
	Endpoints map[string]Endpoints `json:"endpoints"`
}

// Endpoints lists the operations available on one resource.
type Endpoints struct {
	GetAll  string `json:"getAll"`
	GetByID string `json:"getById"`
	Create  string `json:"create"`
	Update  string `json:"update"`
	Delete  string `json:"delete"`
}

var info = Info{
	Message: "Welcome to Student API",
	Version: Version,
	Endpoints: map[string]Endpoints{
		"students": {
			GetAll:  "GET /api/students",
			GetByID: "GET /api/students/:id",
			Create:  "POST /api/students",
			Update:  "PUT /api/students/:id",
			Delete:  "DELETE /api/students/:id",
		},
	},
}

// Index handles GET /.
func Index(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, info)
}

// NotFound answers every request no other route matched.
func NotFound(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusNotFound, response.Error("Route not found"))
}
