package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"

	"github.com/yungbote/kanoon-backend/internal/platform/logger"
)

// VertexClient serves requests through Vertex AI. Request.APIKey is ignored.
type VertexClient struct {
	log    *logger.Logger
	client *genai.Client
}

func NewVertex(ctx context.Context, log *logger.Logger, cfg Config) (*VertexClient, error) {
	if cfg.Project == "" || cfg.Region == "" {
		return nil, fmt.Errorf("vertex backend requires GOOGLE_CLOUD_PROJECT and GOOGLE_CLOUD_REGION")
	}
	c, err := genai.NewClient(ctx, cfg.Project, cfg.Region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}
	return &VertexClient{log: log.With("client", "GeminiVertex"), client: c}, nil
}

func (v *VertexClient) Close() error {
	if v == nil || v.client == nil {
		return nil
	}
	return v.client.Close()
}

func (v *VertexClient) Generate(ctx context.Context, req Request) (*Response, error) {
	model := v.client.GenerativeModel(modelOrDefault(req.Model))
	if s := strings.TrimSpace(req.SystemInstruction); s != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(s)}}
	}
	model.Temperature = req.Temperature
	if req.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(req.MaxOutputTokens)
	}
	if req.Schema != nil {
		model.ResponseMIMEType = "application/json"
		model.ResponseSchema = toGenaiSchema(req.Schema)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		var be *genai.BlockedError
		if errors.As(err, &be) {
			if be.Candidate != nil {
				return &Response{FinishReason: finishReasonName(be.Candidate.FinishReason)}, nil
			}
			return nil, fmt.Errorf("%w: %v", ErrBlocked, be)
		}
		return nil, fmt.Errorf("vertex generate: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates", ErrBlocked)
	}
	cand := resp.Candidates[0]
	var sb strings.Builder
	if cand.Content != nil {
		for _, p := range cand.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
	}
	return &Response{Text: sb.String(), FinishReason: finishReasonName(cand.FinishReason)}, nil
}

func finishReasonName(r genai.FinishReason) string {
	switch r {
	case genai.FinishReasonStop:
		return FinishReasonStop
	case genai.FinishReasonMaxTokens:
		return FinishReasonMaxTokens
	case genai.FinishReasonSafety:
		return FinishReasonSafety
	case genai.FinishReasonRecitation:
		return "RECITATION"
	case genai.FinishReasonBlocklist:
		return "BLOCKLIST"
	case genai.FinishReasonProhibitedContent:
		return "PROHIBITED_CONTENT"
	case genai.FinishReasonSpii:
		return "SPII"
	case genai.FinishReasonOther:
		return "OTHER"
	default:
		return "FINISH_REASON_UNSPECIFIED"
	}
}

func toGenaiSchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        toGenaiType(s.Type),
		Description: s.Description,
		Nullable:    s.Nullable,
		Enum:        s.Enum,
		Items:       toGenaiSchema(s.Items),
		Required:    s.Required,
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for k, p := range s.Properties {
			out.Properties[k] = toGenaiSchema(p)
		}
	}
	return out
}

func toGenaiType(t Type) genai.Type {
	switch t {
	case TypeString:
		return genai.TypeString
	case TypeNumber:
		return genai.TypeNumber
	case TypeInteger:
		return genai.TypeInteger
	case TypeBoolean:
		return genai.TypeBoolean
	case TypeArray:
		return genai.TypeArray
	case TypeObject:
		return genai.TypeObject
	default:
		return genai.TypeUnspecified
	}
}
