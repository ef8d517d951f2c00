package user

import (
	"context"
	"strings"

	"github.com/saulo-duarte/quizzical/internal/config"
	"github.com/saulo-duarte/quizzical/internal/validation"
)

type Service interface {
	Get(ctx context.Context) Preferences
	Update(ctx context.Context, dto UpdatePreferencesDTO) (Preferences, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Get(ctx context.Context) Preferences {
	return Preferences{
		UserName: s.repo.UserName(ctx),
		Theme:    s.repo.Theme(ctx),
	}
}

func (s *service) Update(ctx context.Context, dto UpdatePreferencesDTO) (Preferences, error) {
	if dto.UserName != nil {
		name := strings.TrimSpace(*dto.UserName)
		if name == "" {
			return Preferences{}, &validation.Error{Fields: map[string]string{"userName": "is required"}}
		}
		dto.UserName = &name
	}
	if err := validation.Struct(dto); err != nil {
		return Preferences{}, err
	}

	if dto.UserName != nil {
		if err := s.repo.SaveUserName(ctx, *dto.UserName); err != nil {
			return Preferences{}, err
		}
		config.WithContext(ctx).Info("Display name updated")
	}
	if dto.Theme != nil {
		if err := s.repo.SaveTheme(ctx, *dto.Theme); err != nil {
			return Preferences{}, err
		}
	}
	return s.Get(ctx), nil
}
