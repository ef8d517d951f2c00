package studygoal

type StudyGoalContainer struct {
	Handler *Handler
}

func NewStudyGoalContainer() *StudyGoalContainer {
	return &StudyGoalContainer{
		Handler: NewHandler(NewService(NewRepository())),
	}
}
