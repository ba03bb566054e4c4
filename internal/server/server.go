package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coursedb/apiserver/config"
	"github.com/coursedb/apiserver/internal/db"
	"github.com/coursedb/apiserver/internal/handlers"
	"github.com/coursedb/apiserver/internal/logger"
	"github.com/coursedb/apiserver/internal/services"
	"github.com/coursedb/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
)

// Server wraps the HTTP server, router, and the owned store client.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	client     *mongo.Client
	log        zerolog.Logger
}

// New constructs a Server with basic middleware and defaults.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	log := logger.New()

	client, err := db.Open(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("unable to connect to MongoDB")
		return nil, err
	}
	log.Info().Str("db", cfg.Database.DBName).Msg("connected to MongoDB")

	database := client.Database(cfg.Database.DBName)
	courseRepo := store.NewCourseRepository(database, log)
	userRepo := store.NewUserRepository(database, log)

	courseService := services.NewCourseService(courseRepo)
	userService := services.NewUserService(userRepo)

	jwtSecret := strings.TrimSpace(cfg.JWTSecret)
	if jwtSecret == "" {
		_ = client.Disconnect(context.Background())
		return nil, errors.New("JWT_SECRET is required")
	}
	tokenTTL := time.Duration(cfg.TokenTTLMinutes) * time.Minute

	validate := validator.New()

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		requestLogger(log),
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/courses", func(r chi.Router) {
		handlers.CourseRouter(r, courseService, validate)
	})
	router.Route("/users", func(r chi.Router) {
		handlers.UserRouter(r, userService, validate)
	})
	router.Route("/session", func(r chi.Router) {
		handlers.SessionRouter(r, userService, validate, jwtSecret, tokenTTL)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		client:     client,
		log:        log,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.httpServer.Addr).Msg("listening")
	return s.httpServer.ListenAndServe()
}

// Shutdown closes the HTTP server and disconnects the store client.
func (s *Server) Shutdown() error {
	if s.client != nil {
		_ = s.client.Disconnect(context.Background())
	}
	return s.httpServer.Close()
}

// requestLogger logs each request once the handler chain has run.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.RequestURI()).
				Dur("elapsed", time.Since(start)).
				Msg("request")
		})
	}
}
