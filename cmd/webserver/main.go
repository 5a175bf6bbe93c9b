package main

import (
	"encoding/gob"
	"net/http"
	"os"
	"time"

	"studytutor"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Server holds the webserver's dependencies.
type Server struct {
	store         *studytutor.Store
	sessions      *sessions.CookieStore
	completer     studytutor.Completer
	log           *logrus.Logger
	transcriptDir string
	askTimeout    time.Duration
}

func init() {
	gob.Register(studytutor.QuizSession{})
}

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	studytutor.SetLogger(log)

	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, using environment")
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY environment variable is required")
	}

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		log.Fatal("SESSION_SECRET environment variable is required")
	}

	dbPath := os.Getenv("TUTOR_DB")
	if dbPath == "" {
		dbPath = "./tutor.db"
	}

	store, err := studytutor.OpenStore(dbPath)
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	defer store.Close()

	if err := store.CreateTables(); err != nil {
		log.WithError(err).Fatal("failed to create tables")
	}

	server := &Server{
		store:         store,
		sessions:      sessions.NewCookieStore([]byte(secret)),
		completer:     studytutor.NewOpenAICompleter(apiKey, os.Getenv("OPENAI_MODEL")),
		log:           log,
		transcriptDir: "log",
		askTimeout:    90 * time.Second,
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8180"
	}

	log.WithField("port", port).Info("starting server")
	log.Fatal(http.ListenAndServe(":"+port, server.routes()))
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Post("/auth/signup", s.handleSignup)
	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/", s.handleHome)
		r.Post("/ask", s.handleAsk)
		r.Get("/quiz", s.handleQuiz)
		r.Post("/quiz", s.handleQuiz)
		r.Get("/history", s.handleHistory)
	})

	return r
}
