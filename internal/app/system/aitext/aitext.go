// Package aitext talks to an OpenAI-compatible chat completion endpoint
// (Groq by default) and streams the answer into a single string.
package aitext

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL     = "https://api.groq.com/openai/v1"
	DefaultModel       = "llama3-8b-8192"
	DefaultMaxTokens   = 1500
	DefaultTemperature = 0.7
	DefaultTimeout     = 60 * time.Second
)

// Placeholder texts returned by Reply.
const (
	UnavailableText = "AI service is unavailable."
	FailureText     = "An error occurred while processing your request with AI."
)

// ErrUnavailable is returned by Complete when no API key is configured.
var ErrUnavailable = errors.New("ai client not configured")

// Completer produces one completion for a system + user message pair.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Config selects the endpoint and sampling parameters. Zero values fall
// back to the defaults above, except Temperature: 0 asks for greedy
// sampling.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Client is safe for concurrent use.
type Client struct {
	api *openai.Client // nil when no API key is configured
	cfg Config
	log *zap.Logger
}

// New builds a client. With an empty APIKey the client is still usable but
// every call reports ErrUnavailable.
func New(cfg Config, logger *zap.Logger) *Client {
	cfg = cfg.withDefaults()
	c := &Client{cfg: cfg, log: logger}
	if strings.TrimSpace(cfg.APIKey) == "" {
		logger.Warn("ai api key not set; AI features will return a placeholder")
		return c
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = cfg.BaseURL
	c.api = openai.NewClientWithConfig(oc)
	return c
}

// Available reports whether an API key is configured.
func (c *Client) Available() bool { return c != nil && c.api != nil }

// Complete streams one chat completion and returns the concatenated deltas.
// There is no retry.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	if !c.Available() {
		return "", ErrUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	stream, err := c.api.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.temperature(),
		Stream:      true,
	})
	if err != nil {
		return "", fmt.Errorf("start completion stream: %w", err)
	}
	defer stream.Close()

	var b strings.Builder
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return b.String(), nil
		}
		if err != nil {
			return "", fmt.Errorf("read completion stream: %w", err)
		}
		for _, ch := range resp.Choices {
			b.WriteString(ch.Delta.Content)
		}
	}
}

// temperature keeps 0 on the wire; go-openai omits a zero temperature and
// the server would substitute its own default.
func (c *Client) temperature() float32 {
	if c.cfg.Temperature == 0 {
		return math.SmallestNonzeroFloat32
	}
	return c.cfg.Temperature
}

// Reply is Complete with errors turned into placeholder text. It never fails.
func (c *Client) Reply(ctx context.Context, system, user string) string {
	text, err := c.Complete(ctx, system, user)
	if err != nil {
		if !errors.Is(err, ErrUnavailable) && c != nil && c.log != nil {
			c.log.Warn("ai completion failed", zap.Error(err))
		}
		return Fallback(err)
	}
	return text
}

// Fallback maps a Complete error onto the placeholder shown to users.
func Fallback(err error) string {
	if errors.Is(err, ErrUnavailable) {
		return UnavailableText
	}
	return FailureText
}
