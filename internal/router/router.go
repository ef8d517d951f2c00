package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/saulo-duarte/quizzical/internal/activity"
	"github.com/saulo-duarte/quizzical/internal/auth"
	"github.com/saulo-duarte/quizzical/internal/config"
	"github.com/saulo-duarte/quizzical/internal/kvstore"
	"github.com/saulo-duarte/quizzical/internal/quiz"
	"github.com/saulo-duarte/quizzical/internal/solver"
	"github.com/saulo-duarte/quizzical/internal/study"
	"github.com/saulo-duarte/quizzical/internal/studygoal"
	"github.com/saulo-duarte/quizzical/internal/user"
)

type RouterConfig struct {
	CORSOrigins []string

	Store            *kvstore.Store
	AuthHandler      *auth.Handler
	EventsHandler    *kvstore.Handler
	QuizHandler      *quiz.Handler
	StudyHandler     *study.Handler
	SolverHandler    *solver.Handler
	ActivityHandler  *activity.Handler
	StudyGoalHandler *studygoal.Handler
	UserHandler      *user.Handler
}

func New(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", kvstore.TabHeader},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		config.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Mount("/auth", auth.Routes(cfg.AuthHandler))

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)
		r.Use(cfg.Store.Middleware(auth.ClientIDFromRequest))

		r.Mount("/quiz", quiz.Routes(cfg.QuizHandler))
		r.Mount("/study", study.Routes(cfg.StudyHandler))
		r.Mount("/solver", solver.Routes(cfg.SolverHandler))
		r.Mount("/activities", activity.Routes(cfg.ActivityHandler))
		r.Mount("/study-goal", studygoal.Routes(cfg.StudyGoalHandler))
		r.Mount("/users", user.Routes(cfg.UserHandler))
		r.Mount("/events", kvstore.Routes(cfg.EventsHandler))
	})
	return r
}
