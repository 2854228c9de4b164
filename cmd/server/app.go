package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/leximo/leximo-api/internal/api"
	apimiddleware "github.com/leximo/leximo-api/internal/api/middleware"
	"github.com/leximo/leximo-api/internal/config"
	"github.com/leximo/leximo-api/internal/domain/srs"
	"github.com/leximo/leximo-api/internal/platform/keylock"
	"github.com/leximo/leximo-api/internal/platform/postgres"
	"github.com/leximo/leximo-api/internal/service/auth"
	"github.com/leximo/leximo-api/internal/service/seed"
	"github.com/leximo/leximo-api/internal/service/stats"
	"github.com/leximo/leximo-api/internal/service/training"
	"github.com/leximo/leximo-api/internal/store"
)

// application holds the composed dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore       store.UserStore
	dictionaryStore store.DictionaryStore
	wordStore       store.WordStore
	sessionStore    store.SessionStore
	answerStore     store.AnswerStore

	jwtService      auth.JWTService
	trainingService training.Service
	statsService    stats.Service
	seedService     seed.Service
}

// newApplication wires stores and services on top of an open database
// connection.
func newApplication(cfg *config.Config, log *slog.Logger, db *sql.DB) (*application, error) {
	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	userStore := postgres.NewPostgresUserStore(db, log)
	dictionaryStore := postgres.NewPostgresDictionaryStore(db, log)
	wordStore := postgres.NewPostgresWordStore(db, log)
	sessionStore := postgres.NewPostgresSessionStore(db, log)
	answerStore := postgres.NewPostgresAnswerStore(db, log)

	trainingService := training.NewService(
		sessionStore,
		wordStore,
		answerStore,
		dictionaryStore,
		store.NewTransactor(db),
		keylock.NewRegistry(),
		srs.NewDefaultService(),
		log,
	)

	statsService := stats.NewService(sessionStore, wordStore, answerStore, log)
	seedService := seed.NewService(dictionaryStore, wordStore, log)

	return &application{
		config:          cfg,
		logger:          log,
		db:              db,
		userStore:       userStore,
		dictionaryStore: dictionaryStore,
		wordStore:       wordStore,
		sessionStore:    sessionStore,
		answerStore:     answerStore,
		jwtService:      jwtService,
		trainingService: trainingService,
		statsService:    statsService,
		seedService:     seedService,
	}, nil
}

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		auth.NewBcryptHasher(app.config.Auth.BcryptCost),
		auth.NewBcryptVerifier(),
		app.seedService,
	)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService)

	dictionaryHandler := api.NewDictionaryHandler(app.dictionaryStore)
	wordHandler := api.NewWordHandler(app.wordStore, app.dictionaryStore)
	trainingHandler := api.NewTrainingHandler(app.trainingService, app.statsService)
	statsHandler := api.NewStatsHandler(app.statsService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Dictionary endpoints
			r.Post("/dictionaries", dictionaryHandler.Create)
			r.Get("/dictionaries", dictionaryHandler.List)
			r.Get("/dictionaries/{id}", dictionaryHandler.Get)
			r.Put("/dictionaries/{id}", dictionaryHandler.Update)
			r.Delete("/dictionaries/{id}", dictionaryHandler.Delete)

			// Word endpoints
			r.Post("/dictionaries/{id}/words", wordHandler.Create)
			r.Get("/dictionaries/{id}/words", wordHandler.List)
			r.Get("/words/due", wordHandler.ListDue)
			r.Put("/words/{id}", wordHandler.Update)
			r.Delete("/words/{id}", wordHandler.Delete)

			// Training endpoints
			r.Post("/training/start", trainingHandler.Start)
			r.Get("/training/history", trainingHandler.History)
			r.Get("/training/sessions/{id}", trainingHandler.SessionDetails)
			r.Get("/training/sessions/{id}/next", trainingHandler.NextWord)
			r.Post("/training/sessions/{id}/answer", trainingHandler.RecordAnswer)
			r.Post("/training/sessions/{id}/finish", trainingHandler.Finish)
			r.Get("/training/sessions/{id}/weak-words", trainingHandler.WeakWords)

			// Statistics endpoint
			r.Get("/statistics", statsHandler.UserStatistics)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database connection", "error", err)
	}
}
