package studygoal

type UpdateStudyGoalDTO struct {
	Text *string `json:"text" validate:"omitempty,max=200"`
}

type StudyGoalResponse struct {
	Text        string `json:"text"`
	LastUpdated *int64 `json:"lastUpdated"`
}
