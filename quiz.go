package studytutor

import (
	"errors"
	"fmt"
)

// ErrNoActiveQuiz is returned by quiz-flow callers when no quiz session
// exists for the user.
var ErrNoActiveQuiz = errors.New("no active quiz")

// FeedbackCorrect is shown after a correct answer.
const FeedbackCorrect = "Correct!"

// NewQuizSession creates a fresh session over the parsed questions. An empty
// question list yields a session that is already completed with score 0.
func NewQuizSession(topic string, questions []QuizQuestion) QuizSession {
	return QuizSession{
		Topic:     topic,
		Questions: questions,
	}
}

// Completed reports whether the cursor has moved past the last question.
func (s QuizSession) Completed() bool {
	return s.Index >= len(s.Questions)
}

// Current returns the question under the cursor, or false when the quiz is
// completed.
func (s QuizSession) Current() (QuizQuestion, bool) {
	if s.Completed() {
		return QuizQuestion{}, false
	}
	return s.Questions[s.Index], true
}

// SubmitAnswer grades the selected label against the current question and
// returns the updated session. A repeat submit before Advance is a no-op, so
// a double-clicked form cannot double-count; submitting on a completed quiz
// is likewise a no-op.
func (s QuizSession) SubmitAnswer(selected string) QuizSession {
	if s.Submitted || s.Completed() {
		return s
	}

	q := s.Questions[s.Index]
	if selected == q.Answer {
		s.Score++
		s.Feedback = FeedbackCorrect
	} else {
		s.Feedback = fmt.Sprintf("Incorrect. Correct answer is %s.", q.Answer)
		s.WrongAnswers = append(s.WrongAnswers, WrongAnswer{
			Question: q.Question,
			Correct:  q.Answer,
			Options:  q.Options,
		})
	}
	s.Submitted = true
	return s
}

// Advance moves the cursor to the next question, clearing feedback and the
// submitted flag. It does nothing until the current question has been
// answered.
func (s QuizSession) Advance() QuizSession {
	if !s.Submitted {
		return s
	}
	s.Index++
	s.Feedback = ""
	s.Submitted = false
	return s
}

// Result reports the final score, topic, and wrong-answer log.
func (s QuizSession) Result() QuizResult {
	return QuizResult{
		Topic:        s.Topic,
		Score:        s.Score,
		Total:        len(s.Questions),
		WrongAnswers: s.WrongAnswers,
	}
}
