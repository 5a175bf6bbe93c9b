package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"studytutor"

	"github.com/gorilla/sessions"
)

const sessionName = "tutor-session"

// questionView is the quiz question page payload.
type questionView struct {
	Question  string            `json:"question"`
	Options   map[string]string `json:"options"`
	QNumber   int               `json:"q_number"`
	Total     int               `json:"total"`
	Feedback  string            `json:"feedback,omitempty"`
	Submitted bool              `json:"submitted"`
	Topic     string            `json:"topic"`
}

// explanationView is the non-quiz response payload.
type explanationView struct {
	Agent    studytutor.AgentKind `json:"agent"`
	Response string               `json:"response"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) session(r *http.Request) *sessions.Session {
	sess, _ := s.sessions.Get(r, sessionName)
	return sess
}

// requireAuth rejects requests that don't carry an authenticated session.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := s.session(r)
		if _, ok := sess.Values["user_id"].(string); !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse form")
		return
	}

	studentID := r.FormValue("student_id")
	password := r.FormValue("password")
	if studentID == "" || password == "" {
		writeError(w, http.StatusBadRequest, "student_id and password are required")
		return
	}

	user, err := s.store.CreateUser(studentID, password)
	if err != nil {
		if errors.Is(err, studytutor.ErrStudentIDTaken) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		s.log.WithError(err).Error("failed to create user")
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	s.openSession(w, r, user)
	writeJSON(w, http.StatusCreated, map[string]string{"student_id": user.StudentID})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse form")
		return
	}

	user, err := s.store.Authenticate(r.FormValue("student_id"), r.FormValue("password"))
	if err != nil {
		if errors.Is(err, studytutor.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		s.log.WithError(err).Error("failed to authenticate user")
		writeError(w, http.StatusInternalServerError, "failed to authenticate")
		return
	}

	s.openSession(w, r, user)
	writeJSON(w, http.StatusOK, map[string]string{"student_id": user.StudentID})
}

func (s *Server) openSession(w http.ResponseWriter, r *http.Request, user *studytutor.User) {
	sess := s.session(r)
	sess.Values["user_id"] = user.ID
	sess.Values["student_id"] = user.StudentID
	if err := sess.Save(r, w); err != nil {
		s.log.WithError(err).Error("session save error")
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	sess.Options.MaxAge = -1
	if err := sess.Save(r, w); err != nil {
		s.log.WithError(err).Error("session save error")
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"student_id": sess.Values["student_id"],
	})
}

// handleAsk routes a free-text query to an agent. The learning-tracking agent
// seeds a new quiz session and redirects into the quiz flow; every other
// agent's reply is formatted and returned directly.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse form")
		return
	}

	query := r.FormValue("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	sess := s.session(r)
	studentID, _ := sess.Values["student_id"].(string)

	ctx, cancel := context.WithTimeout(r.Context(), s.askTimeout)
	defer cancel()

	kind := studytutor.SelectAgent(ctx, s.completer, query)
	s.log.WithFields(map[string]interface{}{
		"agent": kind,
		"query": query,
	}).Info("query routed")

	if kind == studytutor.AgentLearningTracking {
		s.startQuiz(ctx, w, r, query, studentID)
		return
	}

	reply := studytutor.Respond(ctx, s.completer, kind, query, studentID)
	writeJSON(w, http.StatusOK, explanationView{
		Agent:    kind,
		Response: studytutor.FormatBullets(reply),
	})
}

// startQuiz generates a question set, parses it, and stores a fresh quiz
// session. A parse failure surfaces the raw payload for diagnostics and
// leaves no quiz state behind.
func (s *Server) startQuiz(ctx context.Context, w http.ResponseWriter, r *http.Request, query, studentID string) {
	transcript, err := studytutor.NewTranscriptLogger(s.transcriptDir, query)
	if err != nil {
		s.log.WithError(err).Warn("failed to open transcript log")
	}
	defer transcript.Close()

	prompt := studytutor.BuildPrompt(studytutor.AgentLearningTracking, query, studentID)
	raw := studytutor.Respond(ctx, s.completer, studytutor.AgentLearningTracking, query, studentID)
	transcript.LogExchange(string(studytutor.AgentLearningTracking), prompt, raw)

	questions, err := studytutor.ParseQuizPayload(raw)
	transcript.LogParseResult(len(questions), err)
	if err != nil {
		var pe *studytutor.ParseError
		if errors.As(err, &pe) {
			s.log.WithError(pe.Err).Warn("quiz payload did not parse")
			writeJSON(w, http.StatusBadGateway, map[string]string{
				"error": pe.Error(),
				"raw":   pe.Raw,
			})
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	sess := s.session(r)
	sess.Values["quiz"] = studytutor.NewQuizSession(query, questions)
	if err := sess.Save(r, w); err != nil {
		s.log.WithError(err).Error("session save error")
	}

	http.Redirect(w, r, "/quiz", http.StatusSeeOther)
}

// handleQuiz renders the current quiz state and, on POST, applies exactly one
// transition (submit or next) before re-rendering.
func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	quiz, ok := sess.Values["quiz"].(studytutor.QuizSession)
	if !ok {
		writeError(w, http.StatusConflict, studytutor.ErrNoActiveQuiz.Error())
		return
	}

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "failed to parse form")
			return
		}

		switch {
		case r.Form.Has("submit"):
			quiz = quiz.SubmitAnswer(r.FormValue("option"))
		case r.Form.Has("next"):
			wasCompleted := quiz.Completed()
			quiz = quiz.Advance()
			if !wasCompleted && quiz.Completed() {
				s.recordResult(sess, quiz)
			}
		default:
			writeError(w, http.StatusBadRequest, "expected submit or next")
			return
		}

		sess.Values["quiz"] = quiz
		if err := sess.Save(r, w); err != nil {
			s.log.WithError(err).Error("session save error")
		}

		if r.Form.Has("next") {
			http.Redirect(w, r, "/quiz", http.StatusSeeOther)
			return
		}
	}

	s.renderQuiz(w, quiz)
}

func (s *Server) recordResult(sess *sessions.Session, quiz studytutor.QuizSession) {
	userID, _ := sess.Values["user_id"].(string)
	if err := s.store.SaveQuizResult(userID, quiz.Result()); err != nil {
		s.log.WithError(err).Error("failed to save quiz result")
	}
}

func (s *Server) renderQuiz(w http.ResponseWriter, quiz studytutor.QuizSession) {
	if q, ok := quiz.Current(); ok {
		writeJSON(w, http.StatusOK, questionView{
			Question:  q.Question,
			Options:   q.Options,
			QNumber:   quiz.Index + 1,
			Total:     len(quiz.Questions),
			Feedback:  quiz.Feedback,
			Submitted: quiz.Submitted,
			Topic:     quiz.Topic,
		})
		return
	}
	writeJSON(w, http.StatusOK, quiz.Result())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	userID, _ := sess.Values["user_id"].(string)

	results, err := s.store.GetQuizResults(userID)
	if err != nil {
		s.log.WithError(err).Error("failed to get quiz results")
		writeError(w, http.StatusInternalServerError, "failed to get quiz history")
		return
	}
	if results == nil {
		results = []studytutor.SavedResult{}
	}
	writeJSON(w, http.StatusOK, results)
}
