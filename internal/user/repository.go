package user

import (
	"context"

	"github.com/saulo-duarte/quizzical/internal/kvstore"
)

// Repository keeps each preference under its own store key so other tabs can
// subscribe to them independently.
type Repository interface {
	UserName(ctx context.Context) string
	SaveUserName(ctx context.Context, name string) error
	Theme(ctx context.Context) Theme
	SaveTheme(ctx context.Context, t Theme) error
}

type repository struct{}

func NewRepository() Repository {
	return &repository{}
}

func (r *repository) UserName(ctx context.Context) string {
	return kvstore.Read(ctx, kvstore.ScopeFromContext(ctx), UserNameKey, "")
}

func (r *repository) SaveUserName(ctx context.Context, name string) error {
	return kvstore.Write(ctx, kvstore.ScopeFromContext(ctx), UserNameKey, name)
}

func (r *repository) Theme(ctx context.Context) Theme {
	t := kvstore.Read(ctx, kvstore.ScopeFromContext(ctx), ThemeKey, ThemeSystem)
	if !t.IsValid() {
		return ThemeSystem
	}
	return t
}

func (r *repository) SaveTheme(ctx context.Context, t Theme) error {
	return kvstore.Write(ctx, kvstore.ScopeFromContext(ctx), ThemeKey, t)
}
