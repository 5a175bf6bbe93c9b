package studytutor

import (
	"context"
	"fmt"
	"strings"
)

// SelectAgent asks the completion backend which agent should handle the
// query. The reply must exactly match one of the four agent names; on a
// completion failure or an unrecognized reply it falls back to the coach so
// classification never blocks the pipeline.
func SelectAgent(ctx context.Context, c Completer, query string) AgentKind {
	prompt := fmt.Sprintf(`Decide the best agent for the following query:
%q

Agents:
1. CoachAgent: For motivational, simple explanations.
2. TutorAgent: For in-depth academic explanations.
3. LearningTrackingAgent: For quizzes, progress checks, or practice.
4. RoadmapAgent: For curriculum guidance or learning plans.

Respond ONLY with the agent name.`, query)

	reply, err := c.Complete(ctx, prompt)
	if err != nil {
		logger.WithError(err).Debug("agent selection failed, falling back to coach")
		return AgentCoach
	}

	switch kind := AgentKind(strings.TrimSpace(reply)); kind {
	case AgentCoach, AgentTutor, AgentLearningTracking, AgentRoadmap:
		return kind
	default:
		logger.WithField("reply", reply).Debug("unrecognized agent name, falling back to coach")
		return AgentCoach
	}
}
