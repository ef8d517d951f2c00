package aiquiz

import (
	"context"

	"github.com/saulo-duarte/quizzical/internal/config"
)

type AIQuizContainer struct {
	Service Service
}

func NewAIQuizContainer(ctx context.Context, cfg *config.Config) (*AIQuizContainer, error) {
	provider, err := NewProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	config.Log.WithField("provider", cfg.AIProvider).WithField("model", cfg.AIModel).Info("AI provider ready")

	return &AIQuizContainer{
		Service: NewService(provider, cfg.AITimeout),
	}, nil
}
