// Package gemini talks to Google's generative language models. The REST
// backend sends the caller's API key with every request; the Vertex backend
// authenticates with application default credentials.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/kanoon-backend/internal/platform/logger"
)

const DefaultModel = "gemini-2.5-flash"

const (
	FinishReasonStop      = "STOP"
	FinishReasonMaxTokens = "MAX_TOKENS"
	FinishReasonSafety    = "SAFETY"
)

var (
	// ErrBlocked means the model produced no usable candidate because the
	// prompt or every candidate was filtered.
	ErrBlocked       = errors.New("gemini: response blocked")
	ErrMissingAPIKey = errors.New("gemini: missing api key")
)

type Type string

const (
	TypeString  Type = "STRING"
	TypeNumber  Type = "NUMBER"
	TypeInteger Type = "INTEGER"
	TypeBoolean Type = "BOOLEAN"
	TypeArray   Type = "ARRAY"
	TypeObject  Type = "OBJECT"
)

// Schema is the OpenAPI subset accepted as a response schema.
type Schema struct {
	Type        Type               `json:"type"`
	Description string             `json:"description,omitempty"`
	Nullable    bool               `json:"nullable,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

type Request struct {
	APIKey            string
	Model             string
	SystemInstruction string
	Prompt            string
	// Schema switches the response to JSON mode when set.
	Schema          *Schema
	Temperature     *float32
	MaxOutputTokens int32
}

type Response struct {
	Text         string
	FinishReason string
}

// Blocked reports whether generation stopped on a content filter.
func (r *Response) Blocked() bool {
	if r == nil {
		return false
	}
	switch r.FinishReason {
	case FinishReasonSafety, "BLOCKLIST", "PROHIBITED_CONTENT", "SPII":
		return true
	default:
		return false
	}
}

type Client interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

type Backend string

const (
	BackendREST   Backend = "rest"
	BackendVertex Backend = "vertex"
)

type Config struct {
	Backend Backend
	BaseURL string
	Timeout time.Duration
	Project string
	Region  string
}

// New builds the configured backend. The returned close func releases
// backend resources and is always non-nil.
func New(ctx context.Context, log *logger.Logger, cfg Config) (Client, func() error, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(string(cfg.Backend)))) {
	case "", BackendREST:
		return NewREST(log, cfg), func() error { return nil }, nil
	case BackendVertex:
		c, err := NewVertex(ctx, log, cfg)
		if err != nil {
			return nil, func() error { return nil }, err
		}
		return c, c.Close, nil
	default:
		return nil, func() error { return nil }, fmt.Errorf("unknown GENAI_BACKEND %q", cfg.Backend)
	}
}

func Float32(v float32) *float32 { return &v }

func modelOrDefault(m string) string {
	if strings.TrimSpace(m) == "" {
		return DefaultModel
	}
	return strings.TrimSpace(m)
}
