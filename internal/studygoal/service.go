package studygoal

import (
	"context"
	"strings"
	"time"

	"github.com/saulo-duarte/quizzical/internal/validation"
)

type Service interface {
	Get(ctx context.Context) *StudyGoalResponse
	Update(ctx context.Context, dto UpdateStudyGoalDTO) (*StudyGoalResponse, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) Get(ctx context.Context) *StudyGoalResponse {
	goal := s.repo.Find(ctx)
	return s.toResponse(&goal)
}

// Update overwrites the single goal slot. A nil or blank text clears it.
func (s *service) Update(ctx context.Context, dto UpdateStudyGoalDTO) (*StudyGoalResponse, error) {
	if dto.Text != nil {
		text := strings.TrimSpace(*dto.Text)
		dto.Text = &text
	}
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	goal := StudyGoal{LastUpdated: s.now().UnixMilli()}
	if dto.Text != nil {
		goal.Text = *dto.Text
	}

	if err := s.repo.Save(ctx, goal); err != nil {
		return nil, err
	}
	return s.toResponse(&goal), nil
}

func (s *service) toResponse(goal *StudyGoal) *StudyGoalResponse {
	resp := &StudyGoalResponse{Text: goal.Text}
	if goal.LastUpdated > 0 {
		ts := goal.LastUpdated
		resp.LastUpdated = &ts
	}
	return resp
}
