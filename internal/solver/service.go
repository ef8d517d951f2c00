package solver

import (
	"context"
	"fmt"

	"github.com/saulo-duarte/quizzical/internal/activity"
	"github.com/saulo-duarte/quizzical/internal/aiquiz"
	"github.com/saulo-duarte/quizzical/internal/config"
)

const previewLength = 30

type Service interface {
	Solve(ctx context.Context, req aiquiz.SolveRequest) (*aiquiz.SolveResult, error)
}

type service struct {
	gateway    aiquiz.Service
	activities activity.Service
}

func NewService(gateway aiquiz.Service, activities activity.Service) Service {
	return &service{gateway: gateway, activities: activities}
}

// Solve records a "solve" activity only for genuine solutions.
func (s *service) Solve(ctx context.Context, req aiquiz.SolveRequest) (*aiquiz.SolveResult, error) {
	log := config.WithContext(ctx)

	res, err := s.gateway.SolveQuestion(ctx, req)
	if err != nil {
		return nil, err
	}
	if res.Fallback {
		log.Warn("Solver answered with a fallback solution")
		return res, nil
	}

	desc := fmt.Sprintf("Solved a question starting with: %q...", preview(req.QuestionText))
	if _, err := s.activities.Add(ctx, activity.TypeSolve, desc); err != nil {
		log.WithError(err).Warn("Failed to record solve activity")
	}
	return res, nil
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) > previewLength {
		runes = runes[:previewLength]
	}
	return string(runes)
}
