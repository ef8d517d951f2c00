package solver

import (
	"github.com/saulo-duarte/quizzical/internal/activity"
	"github.com/saulo-duarte/quizzical/internal/aiquiz"
)

type SolverContainer struct {
	Handler *Handler
}

func NewSolverContainer(gateway aiquiz.Service, activities activity.Service) *SolverContainer {
	return &SolverContainer{
		Handler: NewHandler(NewService(gateway, activities)),
	}
}
