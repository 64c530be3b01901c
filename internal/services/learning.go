package services

import (
	"context"

	"github.com/yungbote/kanoon-backend/internal/extraction"
	"github.com/yungbote/kanoon-backend/internal/platform/logger"
)

type LearningService interface {
	SimplifyBareAct(ctx context.Context, section string) (map[string]any, error)
	EvaluateAnswer(ctx context.Context, question, answer string) (map[string]any, error)
	ResearchTopic(ctx context.Context, topic string) (map[string]any, error)
}

// LearningTools holds one Tool per learning hub feature. Research runs
// under its own key.
type LearningTools struct {
	Simplifier Tool
	Evaluator  Tool
	Researcher Tool
}

type learningService struct {
	log     *logger.Logger
	adapter *extraction.Adapter
	tools   LearningTools
}

func NewLearningService(log *logger.Logger, adapter *extraction.Adapter, tools LearningTools) LearningService {
	return &learningService{
		log:     log.With("service", "LearningService"),
		adapter: adapter,
		tools:   tools,
	}
}

func (ls *learningService) SimplifyBareAct(ctx context.Context, section string) (map[string]any, error) {
	return ls.adapter.Extract(ctx, ls.tools.Simplifier.call("Please simplify and explain this section: "+section))
}

func (ls *learningService) EvaluateAnswer(ctx context.Context, question, answer string) (map[string]any, error) {
	return ls.adapter.Extract(ctx, ls.tools.Evaluator.call("Question: "+question+"\n\nStudent's Answer: "+answer))
}

func (ls *learningService) ResearchTopic(ctx context.Context, topic string) (map[string]any, error) {
	return ls.adapter.Extract(ctx, ls.tools.Researcher.call("Please generate a complete set of notes for the following legal topic: "+topic))
}
