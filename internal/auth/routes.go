package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/client", h.IssueClient)
	r.Post("/logout", h.Logout)
	return r
}
