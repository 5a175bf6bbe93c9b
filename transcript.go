package studytutor

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TranscriptLogger records the raw model exchange for one quiz generation in
// a log file, so malformed payloads can be inspected after the fact. All
// methods are best-effort; a nil receiver is safe to call.
type TranscriptLogger struct {
	file *os.File
	mu   sync.Mutex
}

// NewTranscriptLogger creates a transcript file under dir for a quiz on the
// given topic.
func NewTranscriptLogger(dir, topic string) (*TranscriptLogger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create transcript directory: %w", err)
	}

	filename := filepath.Join(dir, fmt.Sprintf("quiz-%s.log", uuid.NewString()))
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create transcript file: %w", err)
	}

	t := &TranscriptLogger{file: file}
	t.Logf("=== Quiz Generation Transcript ===\n")
	t.Logf("Topic: %s\n", topic)
	t.Logf("Started: %s\n", time.Now().Format(time.RFC3339))
	t.Logf("==================================\n\n")
	return t, nil
}

// Logf writes a formatted entry to the transcript.
func (t *TranscriptLogger) Logf(format string, v ...interface{}) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.file, format, v...)
}

// LogExchange records one prompt/reply pair.
func (t *TranscriptLogger) LogExchange(agent, prompt, reply string) {
	t.Logf("[%s] %s\n--- PROMPT ---\n%s\n--- REPLY ---\n%s\n\n",
		time.Now().Format(time.RFC3339), agent, prompt, reply)
}

// LogParseResult records whether the payload parsed, and into how many
// questions.
func (t *TranscriptLogger) LogParseResult(n int, err error) {
	if err != nil {
		t.Logf("[%s] parse failed: %v\n", time.Now().Format(time.RFC3339), err)
		return
	}
	t.Logf("[%s] parsed %d questions\n", time.Now().Format(time.RFC3339), n)
}

// Close closes the transcript file.
func (t *TranscriptLogger) Close() error {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.file.Close()
}
