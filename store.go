package studytutor

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrStudentIDTaken is returned when a signup reuses an existing student ID.
	ErrStudentIDTaken = errors.New("student ID already exists")
	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid ID or password")
)

// Store persists users and finished quiz results in sqlite.
type Store struct {
	db *sql.DB
}

// User is a registered student.
type User struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	CreatedAt time.Time `json:"created_at"`
}

// SavedResult is a finished quiz recorded for a user.
type SavedResult struct {
	ID      string    `json:"id"`
	UserID  string    `json:"user_id"`
	Topic   string    `json:"topic"`
	Score   int       `json:"score"`
	Total   int       `json:"total"`
	TakenAt time.Time `json:"taken_at"`
}

// OpenStore opens a new database connection.
func OpenStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateTables creates the necessary tables if they don't exist.
func (s *Store) CreateTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			student_id TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS quiz_results (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			topic TEXT NOT NULL,
			score INTEGER NOT NULL,
			total INTEGER NOT NULL,
			taken_at DATETIME NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id)
		)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute %s: %w", query, err)
		}
	}
	return nil
}

// CreateUser registers a student and returns the new user. The password is
// stored as a bcrypt hash.
func (s *Store) CreateUser(studentID, password string) (*User, error) {
	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE student_id = ?)", studentID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check student ID: %w", err)
	}
	if exists {
		return nil, ErrStudentIDTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		ID:        uuid.NewString(),
		StudentID: studentID,
		CreatedAt: time.Now(),
	}

	_, err = s.db.Exec(
		"INSERT INTO users (id, student_id, password_hash, created_at) VALUES (?, ?, ?, ?)",
		user.ID, user.StudentID, string(hash), user.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.WithField("student_id", studentID).Info("user created")
	return user, nil
}

// Authenticate checks a student's credentials and returns the matching user.
func (s *Store) Authenticate(studentID, password string) (*User, error) {
	var user User
	var hash string
	err := s.db.QueryRow(
		"SELECT id, student_id, password_hash, created_at FROM users WHERE student_id = ?",
		studentID,
	).Scan(&user.ID, &user.StudentID, &hash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// SaveQuizResult records a finished quiz for the user.
func (s *Store) SaveQuizResult(userID string, result QuizResult) error {
	_, err := s.db.Exec(
		"INSERT INTO quiz_results (id, user_id, topic, score, total, taken_at) VALUES (?, ?, ?, ?, ?, ?)",
		uuid.NewString(), userID, result.Topic, result.Score, result.Total, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save quiz result: %w", err)
	}
	return nil
}

// GetQuizResults retrieves a user's past quiz results, newest first.
func (s *Store) GetQuizResults(userID string) ([]SavedResult, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, topic, score, total, taken_at FROM quiz_results WHERE user_id = ? ORDER BY taken_at DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz results: %w", err)
	}
	defer rows.Close()

	var results []SavedResult
	for rows.Next() {
		var r SavedResult
		if err := rows.Scan(&r.ID, &r.UserID, &r.Topic, &r.Score, &r.Total, &r.TakenAt); err != nil {
			return nil, fmt.Errorf("failed to scan quiz result: %w", err)
		}
		results = append(results, r)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quiz results: %w", err)
	}

	return results, nil
}
