package solver

import (
	"encoding/json"
	"net/http"

	"github.com/saulo-duarte/quizzical/internal/aiquiz"
	"github.com/saulo-duarte/quizzical/internal/config"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) Solve(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var req aiquiz.SolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("Invalid request body")
		config.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.service.Solve(r.Context(), req)
	if err != nil {
		if aiquiz.WriteError(w, r, err) {
			return
		}
		log.WithError(err).Error("Failed to solve question")
		config.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	config.JSON(w, http.StatusOK, res)
}
