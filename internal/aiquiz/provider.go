package aiquiz

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/saulo-duarte/quizzical/internal/config"
)

// Provider sends one rendered prompt to a hosted model and returns its raw
// text answer, which the service expects to be JSON.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

func NewProvider(ctx context.Context, cfg *config.Config) (Provider, error) {
	switch strings.ToLower(cfg.AIProvider) {
	case "", "gemini":
		return NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.AIModel)
	case "deepseek":
		return NewDeepseekProvider(cfg.DeepseekAPIKey, cfg.DeepseekURL, cfg.AIModel, cfg.AITimeout), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.AIProvider)
	}
}

type geminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider falls back to GEMINI_API_KEY / GOOGLE_API_KEY from the
// environment when apiKey is empty.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (Provider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &geminiProvider{client: client, model: model}, nil
}

func (p *geminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	log := config.WithContext(ctx).WithField("model", p.model)

	result, err := p.client.Models.GenerateContent(
		ctx,
		p.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		log.WithError(err).Error("Gemini content generation failed")
		return "", fmt.Errorf("%w: %w", ErrProvider, err)
	}

	raw := result.Text()
	log.Debugf("Gemini raw response:\n%s", raw)
	return raw, nil
}

type deepseekProvider struct {
	apiKey string
	url    string
	model  string
	client *http.Client
}

func NewDeepseekProvider(apiKey, url, model string, timeout time.Duration) Provider {
	if model == "" {
		model = "deepseek-chat"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &deepseekProvider{
		apiKey: apiKey,
		url:    url,
		model:  model,
		client: &http.Client{Timeout: timeout},
	}
}

type deepseekMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type deepseekResponseFormat struct {
	Type string `json:"type"`
}

type deepseekRequest struct {
	Model          string                  `json:"model"`
	Messages       []deepseekMessage       `json:"messages"`
	ResponseFormat *deepseekResponseFormat `json:"response_format,omitempty"`
}

type deepseekResponse struct {
	Choices []struct {
		Message deepseekMessage `json:"message"`
	} `json:"choices"`
}

func (p *deepseekProvider) Generate(ctx context.Context, prompt string) (string, error) {
	log := config.WithContext(ctx).WithField("model", p.model)

	body, err := json.Marshal(deepseekRequest{
		Model:          p.model,
		Messages:       []deepseekMessage{{Role: "user", Content: prompt}},
		ResponseFormat: &deepseekResponseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	started := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			log.WithError(err).Warnf("Deepseek request timed out after %v", time.Since(started))
		} else {
			log.WithError(err).Error("Deepseek request failed")
		}
		return "", fmt.Errorf("%w: %w", ErrProvider, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %w", ErrProvider, err)
	}
	log.Debugf("Deepseek responded in %v with status %d", time.Since(started), resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", ErrProvider, resp.StatusCode, truncate(string(payload), 300))
	}

	var decoded deepseekResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrProvider, err)
	}
	if len(decoded.Choices) == 0 {
		return "", nil
	}
	return decoded.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
