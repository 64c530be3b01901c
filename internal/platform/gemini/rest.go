package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/yungbote/kanoon-backend/internal/platform/logger"
)

// restClient serves requests through the Gemini API. Each request carries its
// own API key; one SDK client is kept per key.
type restClient struct {
	log     *logger.Logger
	baseURL string
	hc      *http.Client

	mu      sync.Mutex
	clients map[string]*genai.Client
}

func NewREST(log *logger.Logger, cfg Config) Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &restClient{
		log:     log.With("client", "GeminiREST"),
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		hc:      &http.Client{Timeout: timeout},
		clients: map[string]*genai.Client{},
	}
}

// HTTPError is a non-2xx answer from the API.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	msg := strings.TrimSpace(e.Body)
	if len(msg) > 2000 {
		msg = msg[:2000] + "..."
	}
	return fmt.Sprintf("gemini http %d: %s", e.StatusCode, msg)
}

func (c *restClient) sdkClient(ctx context.Context, key string) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gc, ok := c.clients[key]; ok {
		return gc, nil
	}
	cc := &genai.ClientConfig{
		APIKey:     key,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.hc,
	}
	if c.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
	}
	gc, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}
	c.clients[key] = gc
	return gc, nil
}

func generateConfig(req Request) *genai.GenerateContentConfig {
	gc := &genai.GenerateContentConfig{
		Temperature:     req.Temperature,
		MaxOutputTokens: req.MaxOutputTokens,
	}
	if s := strings.TrimSpace(req.SystemInstruction); s != "" {
		gc.SystemInstruction = genai.NewContentFromText(s, genai.RoleUser)
	}
	if req.Schema != nil {
		gc.ResponseMIMEType = "application/json"
		gc.ResponseSchema = apiSchema(req.Schema)
	}
	return gc
}

func (c *restClient) Generate(ctx context.Context, req Request) (*Response, error) {
	key := strings.TrimSpace(req.APIKey)
	if key == "" {
		return nil, ErrMissingAPIKey
	}
	gc, err := c.sdkClient(ctx, key)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := gc.Models.GenerateContent(ctx, modelOrDefault(req.Model), genai.Text(req.Prompt), generateConfig(req))
	if err != nil {
		var ae genai.APIError
		if errors.As(err, &ae) {
			return nil, &HTTPError{StatusCode: ae.Code, Body: ae.Message}
		}
		return nil, fmt.Errorf("gemini request: %w", err)
	}
	c.log.Debug("Gemini call finished", "model", modelOrDefault(req.Model), "duration_ms", time.Since(start).Milliseconds())

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return nil, fmt.Errorf("%w: prompt %s", ErrBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil, fmt.Errorf("%w: no candidates", ErrBlocked)
	}
	cand := resp.Candidates[0]
	var sb strings.Builder
	if cand.Content != nil {
		for _, p := range cand.Content.Parts {
			if p == nil || p.Thought {
				continue
			}
			sb.WriteString(p.Text)
		}
	}
	return &Response{Text: sb.String(), FinishReason: string(cand.FinishReason)}, nil
}

func apiSchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        genai.Type(s.Type),
		Description: s.Description,
		Enum:        s.Enum,
		Items:       apiSchema(s.Items),
		Required:    s.Required,
	}
	if s.Nullable {
		out.Nullable = genai.Ptr(true)
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for k, p := range s.Properties {
			out.Properties[k] = apiSchema(p)
		}
	}
	return out
}
