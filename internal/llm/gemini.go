package llm

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	genai "google.golang.org/genai"

	"socialforge/internal/prompt"
)

// GeminiConfig carries the credentials and knobs for the Gemini backend.
// Everything is explicit; the client reads no environment. Client-side
// throttling is a concern of the RateLimit middleware, not of this client.
type GeminiConfig struct {
	APIKey string
	Model  string
	// Timeout bounds one model round-trip. Zero means DefaultTimeout.
	Timeout time.Duration
}

const DefaultTimeout = 90 * time.Second

// GeminiClient is a thin wrapper around the official genai client.
type GeminiClient struct {
	cli     *genai.Client
	model   string
	timeout time.Duration
}

func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &GeminiClient{
		cli:     cli,
		model:   cfg.Model,
		timeout: timeout,
	}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }

func (g *GeminiClient) Close() error { return nil }

// Generate performs a single round-trip with the full part sequence. Exactly
// one attempt: quota failures map to ErrRateLimited, everything else to
// ServiceError. An empty candidate list is not an error here; downstream
// extraction reports it as unusable output.
func (g *GeminiClient) Generate(ctx context.Context, req prompt.Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	parts := make([]*genai.Part, 0, len(req.Parts))
	for _, p := range req.Parts {
		if p.MIMEType != "" {
			parts = append(parts, &genai.Part{
				InlineData: &genai.Blob{MIMEType: p.MIMEType, Data: p.Data},
			})
			continue
		}
		parts = append(parts, &genai.Part{Text: p.Text})
	}

	log.Printf("llm: request to %s (%d parts)", g.Name(), len(parts))
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: parts}},
		// Structured-output hint only; the extractor still tolerates prose.
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests {
			return ErrRateLimited
		}
		return &ServiceError{Status: apiErr.Code, Message: apiErr.Message}
	}
	return &ServiceError{Status: 0, Message: err.Error()}
}
