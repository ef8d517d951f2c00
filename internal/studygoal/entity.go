package studygoal

type StudyGoal struct {
	Text        string `json:"text,omitempty"`
	LastUpdated int64  `json:"lastUpdated,omitempty"`
}

const (
	StorageKey    = "quizzicalai_studyGoal"
	MaxTextLength = 200
)
