package services

import (
	"context"
	"strings"
	"testing"

	"github.com/yungbote/kanoon-backend/internal/extraction"
	"github.com/yungbote/kanoon-backend/internal/platform/gemini"
	"github.com/yungbote/kanoon-backend/internal/platform/logger"
)

func TestChatbotQuery(t *testing.T) {
	cases := []struct {
		name       string
		client     *fakeGemini
		wantLaw    string
		wantPrefix string
		disclaimer bool
	}{
		{
			name:       "legal answer",
			client:     &fakeGemini{resp: &gemini.Response{Text: "Defamation is punishable.\nRelevant Law: IPC Section 499\nConsult a lawyer.", FinishReason: gemini.FinishReasonStop}},
			wantLaw:    "IPC Section 499",
			wantPrefix: "Defamation is punishable.\n\nConsult a lawyer.",
			disclaimer: true,
		},
		{
			name:       "factual inquiry",
			client:     &fakeGemini{resp: &gemini.Response{Text: "The capital is New Delhi.\nrelevant law: Factual Inquiry", FinishReason: gemini.FinishReasonStop}},
			wantLaw:    "Factual Inquiry",
			wantPrefix: "The capital is New Delhi.",
			disclaimer: false,
		},
		{
			name:       "no relevant law line",
			client:     &fakeGemini{resp: &gemini.Response{Text: "Could you share more context?", FinishReason: gemini.FinishReasonStop}},
			wantLaw:    "See response",
			wantPrefix: "Could you share more context?",
			disclaimer: true,
		},
		{
			name:       "no candidates",
			client:     &fakeGemini{err: gemini.ErrBlocked},
			wantLaw:    "Safety Filter",
			wantPrefix: "I'm sorry, my response was blocked for safety reasons.",
		},
		{
			name:       "stopped on safety",
			client:     &fakeGemini{resp: &gemini.Response{Text: "", FinishReason: gemini.FinishReasonSafety}},
			wantLaw:    "Safety Filter Block",
			wantPrefix: "I'm sorry, I couldn't process that request. The response was blocked by the safety filter (Reason: SAFETY).",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			adapter := extraction.NewAdapter(logger.NewNop(), tc.client, nil)
			svc := NewChatbotService(logger.NewNop(), adapter, Tool{Profile: extraction.Chatbot, APIKey: "k"})
			reply, err := svc.Query(context.Background(), "question")
			if err != nil {
				t.Fatalf("Query: %v", err)
			}
			if reply.UserQuery != "question" {
				t.Fatalf("user_query=%q", reply.UserQuery)
			}
			if reply.RelevantLaw != tc.wantLaw {
				t.Fatalf("relevant_law=%q want %q", reply.RelevantLaw, tc.wantLaw)
			}
			if !strings.HasPrefix(reply.AIResponse, tc.wantPrefix) {
				t.Fatalf("ai_response=%q want prefix %q", reply.AIResponse, tc.wantPrefix)
			}
			if got := strings.HasSuffix(reply.AIResponse, LegalDisclaimer); got != tc.disclaimer {
				t.Fatalf("disclaimer appended=%v want %v", got, tc.disclaimer)
			}
			if strings.Contains(strings.ToLower(reply.AIResponse), "relevant law:") {
				t.Fatalf("relevant law line not removed: %q", reply.AIResponse)
			}
		})
	}
}

func TestChatbotUsesPerCallKey(t *testing.T) {
	client := &fakeGemini{resp: &gemini.Response{Text: "ok", FinishReason: gemini.FinishReasonStop}}
	adapter := extraction.NewAdapter(logger.NewNop(), client, nil)
	svc := NewChatbotService(logger.NewNop(), adapter, Tool{Profile: extraction.Chatbot, APIKey: "chat-key"})
	if _, err := svc.Query(context.Background(), "hi"); err != nil {
		t.Fatalf("Query: %v", err)
	}
	req := client.calls[0]
	if req.APIKey != "chat-key" || req.Schema != nil || req.MaxOutputTokens != 4096 {
		t.Fatalf("unexpected request: %+v", req)
	}
}
