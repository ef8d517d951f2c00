package activity

type ActivityType string

const (
	TypeQuiz  ActivityType = "quiz"
	TypeStudy ActivityType = "study"
	TypeSolve ActivityType = "solve"
)

var AllTypes = []ActivityType{
	TypeQuiz,
	TypeStudy,
	TypeSolve,
}

func (t ActivityType) IsValid() bool {
	for _, v := range AllTypes {
		if t == v {
			return true
		}
	}
	return false
}

type RecentActivityItem struct {
	ID          string       `json:"id"`
	Type        ActivityType `json:"type"`
	Description string       `json:"description"`
	Timestamp   int64        `json:"timestamp"`
}

const (
	StorageKey = "quizzicalai_recentActivities"
	MaxItems   = 5
)
