package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter registers the routes and wraps them in request-id and access-log
// middleware.
func NewRouter(h *Handler) http.Handler {
	r := mux.NewRouter()
	h.RegisterRoutes(r)
	r.Use(WithRequestID, WithLogging(h.log))
	return r
}
