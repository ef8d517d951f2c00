package container

import (
	"context"
	"errors"
	"fmt"

	"github.com/saulo-duarte/quizzical/internal/activity"
	"github.com/saulo-duarte/quizzical/internal/aiquiz"
	"github.com/saulo-duarte/quizzical/internal/auth"
	"github.com/saulo-duarte/quizzical/internal/config"
	"github.com/saulo-duarte/quizzical/internal/kvstore"
	"github.com/saulo-duarte/quizzical/internal/quiz"
	"github.com/saulo-duarte/quizzical/internal/router"
	"github.com/saulo-duarte/quizzical/internal/solver"
	"github.com/saulo-duarte/quizzical/internal/study"
	"github.com/saulo-duarte/quizzical/internal/studygoal"
	"github.com/saulo-duarte/quizzical/internal/user"
)

// StoreKeys are the keys other tabs can follow over the change stream.
var StoreKeys = []string{
	quiz.StorageKey,
	user.UserNameKey,
	user.ThemeKey,
	activity.StorageKey,
	studygoal.StorageKey,
}

type Container struct {
	Config *config.Config
	Store  *kvstore.Store

	AIQuizContainer    *aiquiz.AIQuizContainer
	ActivityContainer  *activity.ActivityContainer
	QuizContainer      *quiz.QuizContainer
	StudyContainer     *study.StudyContainer
	SolverContainer    *solver.SolverContainer
	StudyGoalContainer *studygoal.StudyGoalContainer
	UserContainer      *user.UserContainer
	AuthHandler        *auth.Handler
	EventsHandler      *kvstore.Handler
}

func New(ctx context.Context) (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	config.Init(cfg)
	auth.Init(cfg.JWTSecret)

	store, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	aiQuizContainer, err := aiquiz.NewAIQuizContainer(ctx, cfg)
	if err != nil {
		_ = store.Close()
		_ = config.Disconnect()
		return nil, err
	}
	gateway := aiQuizContainer.Service
	activityContainer := activity.NewActivityContainer()

	return &Container{
		Config:             cfg,
		Store:              store,
		AIQuizContainer:    aiQuizContainer,
		ActivityContainer:  activityContainer,
		QuizContainer:      quiz.NewQuizContainer(gateway, activityContainer.Service),
		StudyContainer:     study.NewStudyContainer(gateway, activityContainer.Service),
		SolverContainer:    solver.NewSolverContainer(gateway, activityContainer.Service),
		StudyGoalContainer: studygoal.NewStudyGoalContainer(),
		UserContainer:      user.NewUserContainer(),
		AuthHandler:        auth.NewHandler(cfg.TokenTTL, cfg.IsProduction()),
		EventsHandler:      kvstore.NewHandler(StoreKeys),
	}, nil
}

func newStore(ctx context.Context, cfg *config.Config) (store *kvstore.Store, err error) {
	defer func() {
		if err != nil {
			_ = config.Disconnect()
		}
	}()

	var backend kvstore.Backend
	if cfg.StoreDriver == "memory" {
		backend = kvstore.NewMemoryBackend()
		config.Log.Warn("Using in-memory store, data is lost on restart")
	} else {
		if err := config.Connect(ctx, cfg.StoreDriver, cfg.DatabaseDSN); err != nil {
			return nil, err
		}
		gormBackend, err := kvstore.NewGormBackend(config.DB)
		if err != nil {
			return nil, fmt.Errorf("migrate store: %w", err)
		}
		backend = gormBackend
	}

	notifier := kvstore.NewLocalNotifier()
	if cfg.RedisAddr != "" {
		n, err := kvstore.NewRedisNotifier(ctx, cfg.RedisAddr, cfg.RedisChannel)
		if err != nil {
			return nil, err
		}
		notifier = n
	}

	var opts []kvstore.Option
	if cfg.CryptoKey != "" {
		c, err := config.NewCipher(cfg.CryptoKey)
		if err != nil {
			return nil, err
		}
		opts = append(opts, kvstore.WithSealer(c))
	}

	return kvstore.New(ctx, backend, notifier, opts...)
}

func (c *Container) RouterConfig() router.RouterConfig {
	return router.RouterConfig{
		CORSOrigins:      c.Config.CORSOrigins,
		Store:            c.Store,
		AuthHandler:      c.AuthHandler,
		EventsHandler:    c.EventsHandler,
		QuizHandler:      c.QuizContainer.Handler,
		StudyHandler:     c.StudyContainer.Handler,
		SolverHandler:    c.SolverContainer.Handler,
		ActivityHandler:  c.ActivityContainer.Handler,
		StudyGoalHandler: c.StudyGoalContainer.Handler,
		UserHandler:      c.UserContainer.Handler,
	}
}

func (c *Container) Close() error {
	return errors.Join(c.Store.Close(), config.Disconnect())
}
