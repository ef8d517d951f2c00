package study

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/sessions", h.StartSession)
	r.Post("/chat", h.Chat)
	return r
}
