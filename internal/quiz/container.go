package quiz

import (
	"github.com/saulo-duarte/quizzical/internal/activity"
	"github.com/saulo-duarte/quizzical/internal/aiquiz"
)

type QuizContainer struct {
	Service QuizService
	Handler *Handler
}

func NewQuizContainer(gateway aiquiz.Service, activities activity.Service) *QuizContainer {
	service := NewService(NewRepository(), gateway, activities)
	handler := NewHandler(service)

	return &QuizContainer{
		Service: service,
		Handler: handler,
	}
}
