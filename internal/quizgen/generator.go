package quizgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultModel matches the reference deployment's local generation model.
const DefaultModel = "gemma3:4b"

// Generator submits one prompt to the external generation service and
// returns the raw response text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	ModelName() string
}

// TransportError marks a generation call that did not succeed. The
// orchestrator treats it as "no output produced" for that request and
// moves on; it is never fatal to the batch.
type TransportError struct {
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("generation call failed status=%d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("generation call failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransportFailure reports whether err came from the transport layer
// rather than from validation.
func IsTransportFailure(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// OllamaGenerator speaks the synchronous generate endpoint:
// request {model, prompt, stream:false}, response {response}.
type OllamaGenerator struct {
	endpoint string
	model    string
	http     *http.Client
}

func NewOllamaGenerator(endpoint, model string) *OllamaGenerator {
	if model == "" {
		model = DefaultModel
	}
	return &OllamaGenerator{
		endpoint: strings.TrimSpace(endpoint),
		model:    model,
		http:     &http.Client{Timeout: 5 * time.Minute},
	}
}

func (g *OllamaGenerator) ModelName() string { return g.model }

func (g *OllamaGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"model":  g.model,
		"prompt": prompt,
		"stream": false,
	})
	if err != nil {
		return "", &TransportError{Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()
	blob, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &TransportError{Status: resp.StatusCode, Err: fmt.Errorf("body=%s", truncate(string(blob), 200))}
	}

	var out struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(blob, &out); err != nil {
		return "", &TransportError{Status: resp.StatusCode, Err: fmt.Errorf("decode response envelope: %w", err)}
	}
	return out.Response, nil
}

// AnthropicGenerator is the hosted-model backend behind the same interface.
type AnthropicGenerator struct {
	messages *anthropic.MessageService
	model    string
}

func NewAnthropicGeneratorFromEnv(model string) (*AnthropicGenerator, error) {
	apiKey := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	if apiKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY not configured")
	}
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicGenerator{messages: &c.Messages, model: model}, nil
}

func (g *AnthropicGenerator) ModelName() string { return g.model }

func (g *AnthropicGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(g.model),
		MaxTokens:   4096,
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
		Temperature: anthropic.Float(0),
	})
	if err != nil {
		return "", &TransportError{Err: err}
	}
	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	return sb.String(), nil
}

// StripFences removes a leading "```json" marker and the trailing fence
// before parsing. The removal is positional (fixed prefix and suffix
// lengths), not a markdown parser — a fence with a different info string or
// without a trailing newline slips through. Clean payloads pass untouched.
func StripFences(s string) string {
	if strings.HasPrefix(s, "```json") && len(s) >= 12 {
		s = s[8 : len(s)-4]
	}
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
