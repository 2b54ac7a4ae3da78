package model

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/careerbot-labs/careerbot/internal/domain"
	"github.com/tmc/langchaingo/llms"
)

// scriptedModel returns one canned result per call, in order.
type scriptedModel struct {
	calls   int
	replies []string
	errs    []error
}

func (m *scriptedModel) GenerateContent(_ context.Context, _ []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	i := m.calls
	m.calls++
	if m.errs[i] != nil {
		return nil, m.errs[i]
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: m.replies[i]}},
	}, nil
}

func (m *scriptedModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := m.GenerateContent(ctx, nil)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

func testConfig() Config {
	return Config{
		RequestTimeout: time.Second,
		MaxAttempts:    2,
		RetryBackoff:   time.Millisecond,
	}
}

func TestGenerateReturnsTrimmedReply(t *testing.T) {
	t.Parallel()

	stub := &scriptedModel{replies: []string{"  consider bioinformatics  "}, errs: []error{nil}}
	c := newClientWithModel(stub, testConfig())

	got, err := c.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got != "consider bioinformatics" {
		t.Errorf("unexpected reply: %q", got)
	}
	if stub.calls != 1 {
		t.Errorf("expected 1 provider call, got %d", stub.calls)
	}
}

func TestGenerateRetriesOnce(t *testing.T) {
	t.Parallel()

	stub := &scriptedModel{
		replies: []string{"", "recovered"},
		errs:    []error{errors.New("rate limited"), nil},
	}
	c := newClientWithModel(stub, testConfig())

	got, err := c.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate failed after retry: %v", err)
	}
	if got != "recovered" {
		t.Errorf("unexpected reply: %q", got)
	}
	if stub.calls != 2 {
		t.Errorf("expected 2 provider calls, got %d", stub.calls)
	}
}

func TestGenerateExhaustedRetriesIsModelUnavailable(t *testing.T) {
	t.Parallel()

	boom := errors.New("network down")
	stub := &scriptedModel{replies: []string{"", ""}, errs: []error{boom, boom}}
	c := newClientWithModel(stub, testConfig())

	_, err := c.Generate(context.Background(), "prompt")
	if !errors.Is(err, domain.ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
	if stub.calls != 2 {
		t.Errorf("expected 2 provider calls, got %d", stub.calls)
	}
}

func TestGenerateEmptyReplyIsModelUnavailable(t *testing.T) {
	t.Parallel()

	stub := &scriptedModel{replies: []string{"   ", "\n"}, errs: []error{nil, nil}}
	c := newClientWithModel(stub, testConfig())

	_, err := c.Generate(context.Background(), "prompt")
	if !errors.Is(err, domain.ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable for empty replies, got %v", err)
	}
}

func TestNewClientRejectsBadConfig(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if _, err := NewClient(ctx, Config{Provider: "openai", Model: "gpt-4o-mini"}); err == nil {
		t.Error("expected error for missing API key")
	}
	if _, err := NewClient(ctx, Config{Provider: "openai", APIKey: "k"}); err == nil {
		t.Error("expected error for missing model name")
	}
	if _, err := NewClient(ctx, Config{Provider: "cobol", APIKey: "k", Model: "m"}); err == nil {
		t.Error("expected error for unsupported provider")
	}
}
