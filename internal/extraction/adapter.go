package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yungbote/kanoon-backend/internal/platform/gemini"
	"github.com/yungbote/kanoon-backend/internal/platform/logger"
)

// MaxInputChars caps the document text sent with an upload.
const MaxInputChars = 400000

// Observer records the outcome and latency of each model call.
type Observer interface {
	ObserveGenAI(tool, status string, d time.Duration)
}

// Call describes a single model invocation.
type Call struct {
	Tool              string
	APIKey            string
	Model             string
	SystemInstruction string
	Prompt            string
	Schema            *gemini.Schema
	Temperature       float32
	MaxOutputTokens   int32
}

type Adapter struct {
	log      *logger.Logger
	client   gemini.Client
	observer Observer
}

func NewAdapter(log *logger.Logger, client gemini.Client, observer Observer) *Adapter {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Adapter{
		log:      log.With("service", "ExtractionAdapter"),
		client:   client,
		observer: observer,
	}
}

// Extract sends c with its response schema and decodes the JSON object the
// model returns. Numbers are kept as json.Number.
func (a *Adapter) Extract(ctx context.Context, c Call) (map[string]any, error) {
	if c.Schema == nil {
		return nil, &Error{Op: c.Tool, Err: fmt.Errorf("response schema required")}
	}
	resp, err := a.call(ctx, c)
	if err != nil {
		return nil, err
	}
	out, err := decodeObject(resp.Text)
	if err != nil {
		a.observer.ObserveGenAI(c.Tool, "parse_error", 0)
		a.log.Warn("Model returned unparseable JSON", "tool", c.Tool, "error", err, "length", len(resp.Text))
		return nil, &Error{Op: c.Tool, Err: err}
	}
	return out, nil
}

// ExtractUpload reads the upload's text, truncates it to MaxInputChars and
// passes it to Extract as c.Prompt. Nothing is sent if the file is rejected.
func (a *Adapter) ExtractUpload(ctx context.Context, u Upload, policy Policy, c Call) (map[string]any, error) {
	text, err := ExtractText(u, policy)
	if err != nil {
		return nil, err
	}
	text, truncated := Truncate(text, MaxInputChars)
	if truncated {
		a.log.Info("Truncated document text", "tool", c.Tool, "file", u.Filename, "max_chars", MaxInputChars)
	}
	c.Prompt = text
	return a.Extract(ctx, c)
}

// Generate returns the model's free-text answer. The response is returned even
// when generation stopped early so callers can inspect FinishReason.
func (a *Adapter) Generate(ctx context.Context, c Call) (*gemini.Response, error) {
	c.Schema = nil
	return a.call(ctx, c)
}

func (a *Adapter) call(ctx context.Context, c Call) (*gemini.Response, error) {
	if a.client == nil {
		return nil, &Error{Op: c.Tool, Err: fmt.Errorf("no model client configured")}
	}
	start := time.Now()
	resp, err := a.client.Generate(ctx, gemini.Request{
		APIKey:            c.APIKey,
		Model:             c.Model,
		SystemInstruction: c.SystemInstruction,
		Prompt:            c.Prompt,
		Schema:            c.Schema,
		Temperature:       gemini.Float32(c.Temperature),
		MaxOutputTokens:   c.MaxOutputTokens,
	})
	elapsed := time.Since(start)
	switch {
	case errors.Is(err, gemini.ErrBlocked):
		a.observer.ObserveGenAI(c.Tool, "blocked", elapsed)
		return nil, ErrResponseBlocked
	case err != nil:
		a.observer.ObserveGenAI(c.Tool, "error", elapsed)
		a.log.Error("Model call failed", "tool", c.Tool, "error", err)
		return nil, &Error{Op: c.Tool, Err: err}
	case c.Schema != nil && resp.Blocked():
		a.observer.ObserveGenAI(c.Tool, "blocked", elapsed)
		return nil, ErrResponseBlocked
	}
	a.observer.ObserveGenAI(c.Tool, "ok", elapsed)
	return resp, nil
}

func decodeObject(text string) (map[string]any, error) {
	text = strings.TrimSpace(text)
	// Some models wrap JSON mode output in a fence anyway.
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode model JSON: %w", err)
	}
	if out == nil {
		return nil, fmt.Errorf("model returned a non-object JSON value")
	}
	return out, nil
}

// Truncate cuts s to at most max runes.
func Truncate(s string, max int) (string, bool) {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s, false
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i], true
		}
		n++
	}
	return s, false
}

type nopObserver struct{}

func (nopObserver) ObserveGenAI(string, string, time.Duration) {}
