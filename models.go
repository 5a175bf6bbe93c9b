package studytutor

// AgentKind identifies which specialized agent handles a query.
type AgentKind string

const (
	AgentCoach            AgentKind = "CoachAgent"
	AgentTutor            AgentKind = "TutorAgent"
	AgentLearningTracking AgentKind = "LearningTrackingAgent"
	AgentRoadmap          AgentKind = "RoadmapAgent"
)

// QuizQuestion represents a single multiple-choice question as produced by the
// learning-tracking agent: the question text, labeled options, and the label
// of the correct option.
type QuizQuestion struct {
	Question string            `json:"question"`
	Options  map[string]string `json:"options"`
	Answer   string            `json:"answer"`
}

// WrongAnswer is a snapshot of a question the student got wrong, kept for the
// final results view.
type WrongAnswer struct {
	Question string            `json:"question"`
	Correct  string            `json:"correct"`
	Options  map[string]string `json:"options"`
}

// QuizSession is the full state of one quiz attempt. It lives in the HTTP
// session between requests; transitions are applied by the reducer methods in
// quiz.go and the updated value is written back.
type QuizSession struct {
	Topic        string         `json:"topic"`
	Questions    []QuizQuestion `json:"questions"`
	Index        int            `json:"q_index"`
	Score        int            `json:"score"`
	WrongAnswers []WrongAnswer  `json:"wrong_answers"`
	Feedback     string         `json:"feedback,omitempty"`
	Submitted    bool           `json:"submitted"`
}

// QuizResult summarizes a finished quiz.
type QuizResult struct {
	Topic        string        `json:"topic"`
	Score        int           `json:"score"`
	Total        int           `json:"total"`
	WrongAnswers []WrongAnswer `json:"wrong_answers"`
}
