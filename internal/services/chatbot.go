package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/yungbote/kanoon-backend/internal/extraction"
	"github.com/yungbote/kanoon-backend/internal/platform/gemini"
	"github.com/yungbote/kanoon-backend/internal/platform/logger"
)

const LegalDisclaimer = "\n\nDisclaimer: I am an AI assistant and the information provided is for " +
	"educational and informational purposes only. It should not be considered a " +
	"substitute for professional legal advice. Please consult a qualified lawyer " +
	"for advice on your specific situation."

const (
	safetyReply     = "I'm sorry, my response was blocked for safety reasons. Please rephrase your query."
	defaultRelevant = "See response"
)

var relevantLawLine = regexp.MustCompile(`(?i)Relevant Law: (.*)`)

type ChatReply struct {
	UserQuery   string `json:"user_query"`
	AIResponse  string `json:"ai_response"`
	RelevantLaw string `json:"relevant_law"`
}

type ChatbotService interface {
	Query(ctx context.Context, query string) (*ChatReply, error)
}

type chatbotService struct {
	log     *logger.Logger
	adapter *extraction.Adapter
	tool    Tool
}

func NewChatbotService(log *logger.Logger, adapter *extraction.Adapter, tool Tool) ChatbotService {
	return &chatbotService{
		log:     log.With("service", "ChatbotService"),
		adapter: adapter,
		tool:    tool,
	}
}

func (cs *chatbotService) Query(ctx context.Context, query string) (*ChatReply, error) {
	resp, err := cs.adapter.Generate(ctx, cs.tool.call(query))
	if errors.Is(err, extraction.ErrResponseBlocked) {
		return &ChatReply{UserQuery: query, AIResponse: safetyReply, RelevantLaw: "Safety Filter"}, nil
	}
	if err != nil {
		return nil, err
	}
	return shapeReply(query, resp), nil
}

// shapeReply pulls the "Relevant Law:" line out of the answer and appends the
// disclaimer to anything that is not a factual inquiry.
func shapeReply(query string, resp *gemini.Response) *ChatReply {
	if resp.FinishReason != "" && resp.FinishReason != gemini.FinishReasonStop {
		return &ChatReply{
			UserQuery: query,
			AIResponse: "I'm sorry, I couldn't process that request. The response was blocked by the safety filter (Reason: " +
				resp.FinishReason + "). Please rephrase your query.",
			RelevantLaw: "Safety Filter Block",
		}
	}
	text := resp.Text
	relevant := defaultRelevant
	if m := relevantLawLine.FindStringSubmatch(text); m != nil {
		relevant = strings.TrimSpace(m[1])
		text = strings.TrimSpace(relevantLawLine.ReplaceAllString(text, ""))
	}
	if !strings.EqualFold(relevant, "factual inquiry") {
		text += LegalDisclaimer
	}
	return &ChatReply{UserQuery: query, AIResponse: text, RelevantLaw: relevant}
}
