package study

import (
	"github.com/saulo-duarte/quizzical/internal/activity"
	"github.com/saulo-duarte/quizzical/internal/aiquiz"
)

type StudyContainer struct {
	Handler *Handler
}

func NewStudyContainer(gateway aiquiz.Service, activities activity.Service) *StudyContainer {
	return &StudyContainer{
		Handler: NewHandler(NewService(gateway, activities)),
	}
}
