package studytutor

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// generatorPayload builds a payload in the shape the learning-tracking agent
// is instructed to produce.
func generatorPayload(n int) string {
	var sb strings.Builder
	sb.WriteString("[\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, `    {
        "question": "What is concept %d?",
        "options": {
            "A": "first",
            "B": "second",
            "C": "third",
            "D": "fourth"
        },
        "answer": "%c"
    },
`, i+1, 'A'+byte(i%4))
	}
	sb.WriteString("]")
	return sb.String()
}

func TestParseQuizPayload_TenQuestions(t *testing.T) {
	questions, err := ParseQuizPayload(generatorPayload(10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(questions) != 10 {
		t.Fatalf("expected 10 questions, got %d", len(questions))
	}
	for i, q := range questions {
		if q.Question == "" {
			t.Errorf("question %d: empty text", i+1)
		}
		if len(q.Options) != 4 {
			t.Errorf("question %d: expected 4 options, got %d", i+1, len(q.Options))
		}
		if _, ok := q.Options[q.Answer]; !ok {
			t.Errorf("question %d: answer %q is not an option key", i+1, q.Answer)
		}
	}
}

func TestParseQuizPayload_StripsCodeFences(t *testing.T) {
	fenced := "```python\n" + generatorPayload(2) + "\n```"
	questions, err := ParseQuizPayload(fenced)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
}

func TestParseQuizPayload_AcceptsPythonLiteralStyle(t *testing.T) {
	payload := `[
    {
        'question': 'Single quotes?',
        'options': {'A': 'yes', 'B': 'no', 'C': 'maybe', 'D': 'never'},
        'answer': 'A',
        'hint': None,
        'reviewed': True,
    },
]`
	questions, err := ParseQuizPayload(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(questions))
	}
	if questions[0].Answer != "A" {
		t.Errorf("got answer %q", questions[0].Answer)
	}
}

func TestParseQuizPayload_CountIsNotEnforced(t *testing.T) {
	for _, n := range []int{3, 12} {
		questions, err := ParseQuizPayload(generatorPayload(n))
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}
		if len(questions) != n {
			t.Errorf("n=%d: got %d questions", n, len(questions))
		}
	}
}

func TestParseQuizPayload_RejectsFunctionCalls(t *testing.T) {
	payload := `[__import__("os").system("true")]`
	_, err := ParseQuizPayload(payload)
	if err == nil {
		t.Fatal("expected a parse error for a function call expression")
	}

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if pe.Raw == "" {
		t.Error("ParseError should carry the cleaned payload for diagnostics")
	}
}

func TestParseQuizPayload_RejectsIdentifiers(t *testing.T) {
	for _, payload := range []string{
		`[questions]`,
		`{"answer": eval}`,
		`[1 + 2]`,
		`lambda: 1`,
	} {
		if _, err := ParseQuizPayload(payload); err == nil {
			t.Errorf("payload %q: expected a parse error", payload)
		}
	}
}

func TestParseQuizPayload_RejectsWrongShapes(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"top-level mapping", `{"question": "q"}`},
		{"non-mapping item", `["just a string"]`},
		{"numeric answer", `[{"question": "q", "options": {"A": "x"}, "answer": 3}]`},
		{"options not a mapping", `[{"question": "q", "options": ["x"], "answer": "A"}]`},
		{"missing question", `[{"options": {"A": "x"}, "answer": "A"}]`},
		{"trailing garbage", `[] and more`},
		{"unterminated list", `[{"question": "q"`},
		{"empty input", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseQuizPayload(tt.payload); err == nil {
				t.Error("expected a parse error")
			}
		})
	}
}

func TestParseQuizPayload_EmptyList(t *testing.T) {
	questions, err := ParseQuizPayload(`[]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(questions) != 0 {
		t.Errorf("expected no questions, got %d", len(questions))
	}
}

func TestParseQuizPayload_StringEscapes(t *testing.T) {
	payload := `[{"question": "What does \"HTTP\" mean?\nPick one.", "options": {"A": "it's a protocol"}, "answer": "A"}]`
	questions, err := ParseQuizPayload(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(questions[0].Question, `"HTTP"`) {
		t.Errorf("escaped quote lost: %q", questions[0].Question)
	}
	if !strings.Contains(questions[0].Question, "\n") {
		t.Errorf("escaped newline lost: %q", questions[0].Question)
	}
}
