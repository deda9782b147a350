package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultBaseURL = "https://api.groq.com/openai/v1"

// GroqProvider talks to Groq's OpenAI-compatible chat-completions endpoint
// through the official openai SDK.
type GroqProvider struct {
	apiKey  string
	model   string
	baseURL string
	client  *openai.Client
}

// NewGroqProvider builds a provider. The key must be supplied explicitly;
// there is no embedded default.
func NewGroqProvider(apiKey, model, baseURL string) *GroqProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	return &GroqProvider{
		apiKey:  strings.TrimSpace(apiKey),
		model:   strings.TrimSpace(model),
		baseURL: baseURL,
	}
}

func (p *GroqProvider) ensureClient() error {
	if p.apiKey == "" {
		return ErrNoAPIKey
	}
	if p.client == nil {
		c := openai.NewClient(
			option.WithAPIKey(p.apiKey),
			option.WithBaseURL(p.baseURL),
		)
		p.client = &c
	}
	return nil
}

// Complete submits one system+user exchange and returns the model text.
// Authentication and throttling rejections are mapped to the package
// sentinels so callers can tell a configuration problem from a transient
// one.
func (p *GroqProvider) Complete(ctx context.Context, system, user string) (string, error) {
	if err := p.ensureClient(); err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	model := p.model
	if model == "" {
		model = "llama-3.3-70b-versatile"
	}
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(0.1),
		MaxTokens:   openai.Int(4096),
	})
	if err != nil {
		return "", classifyError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func classifyError(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		switch apierr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrInvalidAPIKey, err)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
	}
	return err
}
