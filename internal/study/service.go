package study

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/saulo-duarte/quizzical/internal/activity"
	"github.com/saulo-duarte/quizzical/internal/aiquiz"
	"github.com/saulo-duarte/quizzical/internal/config"
	"github.com/saulo-duarte/quizzical/internal/validation"
)

type StartSessionDTO struct {
	Topic string `json:"topic" validate:"required,min=3,max=100"`
}

type Session struct {
	Topic     string `json:"topic"`
	StartedAt int64  `json:"startedAt"`
}

type Service interface {
	StartSession(ctx context.Context, dto StartSessionDTO) (*Session, error)
	Chat(ctx context.Context, req aiquiz.ChatRequest) (*aiquiz.ChatResult, error)
}

type service struct {
	gateway    aiquiz.Service
	activities activity.Service
}

func NewService(gateway aiquiz.Service, activities activity.Service) Service {
	return &service{gateway: gateway, activities: activities}
}

func (s *service) StartSession(ctx context.Context, dto StartSessionDTO) (*Session, error) {
	dto.Topic = strings.TrimSpace(dto.Topic)
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	desc := fmt.Sprintf("Started studying %q with the AI tutor", dto.Topic)
	if _, err := s.activities.Add(ctx, activity.TypeStudy, desc); err != nil {
		config.WithContext(ctx).WithError(err).Warn("Failed to record study activity")
	}
	return &Session{Topic: dto.Topic, StartedAt: time.Now().UnixMilli()}, nil
}

func (s *service) Chat(ctx context.Context, req aiquiz.ChatRequest) (*aiquiz.ChatResult, error) {
	res, err := s.gateway.StudyChatTurn(ctx, req)
	if err != nil {
		return nil, err
	}
	if res.Fallback {
		config.WithContext(ctx).WithField("topic", req.Topic).Warn("Tutor answered with a fallback reply")
	}
	return res, nil
}
