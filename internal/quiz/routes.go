package quiz

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/setup", h.Setup)
	r.Post("/topic", h.StartFromTopic)
	r.Post("/released-test", h.StartFromReleasedTests)
	r.Get("/player", h.Player)
	r.Post("/questions/{index}/answer", h.SelectAnswer)
	r.Post("/questions/{index}/hint", h.RequestHint)
	r.Post("/questions/{index}/explanation", h.Explain)
	r.Post("/submit", h.Submit)
	r.Get("/results", h.Results)
	return r
}
