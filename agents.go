package studytutor

import (
	"context"
	"fmt"
)

// BuildPrompt returns the instruction template for the given agent kind with
// the query embedded. Unknown kinds get the coach template.
func BuildPrompt(kind AgentKind, query, studentID string) string {
	switch kind {
	case AgentTutor:
		return tutorPrompt(query)
	case AgentLearningTracking:
		return learningTrackingPrompt(query)
	case AgentRoadmap:
		return roadmapPrompt(query)
	case AgentCoach:
		return coachPrompt(query, studentID)
	default:
		return coachPrompt(query, studentID)
	}
}

// Respond runs the agent for the query. Completion failures are converted to
// a displayable error string so the caller always has text to render.
func Respond(ctx context.Context, c Completer, kind AgentKind, query, studentID string) string {
	reply, err := c.Complete(ctx, BuildPrompt(kind, query, studentID))
	if err != nil {
		logger.WithError(err).WithField("agent", kind).Warn("completion failed")
		return fmt.Sprintf("Error generating response: %v", err)
	}
	return reply
}

func coachPrompt(query, studentID string) string {
	return fmt.Sprintf(`Hey %s, let's talk about %q in a fun and motivating way!
Please explain in simple bullet points or numbered list for easy understanding.`, studentID, query)
}

func tutorPrompt(query string) string {
	return fmt.Sprintf(`Explain the following concept in detail: %q.
Respond using bullet points or numbered list for clarity.`, query)
}

func learningTrackingPrompt(query string) string {
	return fmt.Sprintf(`Generate a list of exactly 10 multiple-choice questions about the topic %q.
Respond with ONLY the literal data structure below (no explanation, no markdown fences), in this format:

[
    {
        "question": "What is ...?",
        "options": {
            "A": "...",
            "B": "...",
            "C": "...",
            "D": "..."
        },
        "answer": "C"
    },
    ...
]`, query)
}

func roadmapPrompt(query string) string {
	return fmt.Sprintf(`Create a learning roadmap for %q.
Respond using numbered steps or bullet points to outline the learning path.`, query)
}
