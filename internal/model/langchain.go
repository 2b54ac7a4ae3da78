package model

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/careerbot-labs/careerbot/internal/domain"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
)

// Config holds provider selection and credentials, supplied once at
// process start and never exposed past this package.
type Config struct {
	Provider string // "openai" or "google"
	APIKey   string
	Model    string
	BaseURL  string // optional, for OpenAI-compatible gateways

	RequestTimeout time.Duration
	MaxAttempts    int // total attempts per Generate call
	RetryBackoff   time.Duration
}

// Client implements Generator on top of langchaingo. Rate limiting,
// network failures, and safety rejections are all collapsed into
// domain.ErrModelUnavailable; the caller treats them uniformly as
// "no reply available this turn".
type Client struct {
	llm            llms.Model
	requestTimeout time.Duration
	maxAttempts    int
	retryBackoff   time.Duration
}

// NewClient builds a provider-backed client from config.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("model: API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model: model name is required")
	}

	var llm llms.Model
	var err error
	switch cfg.Provider {
	case "openai":
		opts := []openai.Option{
			openai.WithToken(cfg.APIKey),
			openai.WithModel(cfg.Model),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		llm, err = openai.New(opts...)
	case "google":
		llm, err = googleai.New(ctx,
			googleai.WithAPIKey(cfg.APIKey),
			googleai.WithDefaultModel(cfg.Model),
		)
	default:
		return nil, fmt.Errorf("model: unsupported provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("model: create %s provider: %w", cfg.Provider, err)
	}

	return newClientWithModel(llm, cfg), nil
}

func newClientWithModel(llm llms.Model, cfg Config) *Client {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 2
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = time.Second
	}
	return &Client{
		llm:            llm,
		requestTimeout: cfg.RequestTimeout,
		maxAttempts:    cfg.MaxAttempts,
		retryBackoff:   cfg.RetryBackoff,
	}
}

// Generate sends the prompt and returns the reply text. A failed call
// is retried once after a short backoff (configurable via MaxAttempts);
// transient and permanent provider failures look the same to callers.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		reply, err := c.generateOnce(ctx, prompt)
		if err == nil {
			return reply, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
		if attempt < c.maxAttempts {
			slog.Warn("Model call failed, retrying",
				"attempt", attempt,
				"backoff", c.retryBackoff,
				"error", err)
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", domain.ErrModelUnavailable, ctx.Err())
			case <-time.After(c.retryBackoff):
			}
		}
	}
	return "", fmt.Errorf("%w: %v", domain.ErrModelUnavailable, lastErr)
}

func (c *Client) generateOnce(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	reply, err := llms.GenerateFromSinglePrompt(ctx, c.llm, prompt)
	if err != nil {
		return "", err
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		// Safety filters can yield an empty completion without an error.
		return "", fmt.Errorf("provider returned an empty reply")
	}
	return reply, nil
}
