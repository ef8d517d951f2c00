package activity

import (
	"net/http"

	"github.com/saulo-duarte/quizzical/internal/config"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	config.JSON(w, http.StatusOK, h.service.List(r.Context()))
}
