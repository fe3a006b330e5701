// Package openai implements textgen.Generator against an OpenAI-compatible
// chat-completions endpoint.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"github.com/armywelfare/welfare-api/internal/ports/out/textgen"
)

const (
	DefaultBaseURL     = "https://api.openai.com/v1"
	DefaultModel       = "gpt-3.5-turbo"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 250
	DefaultTimeout     = 15 * time.Second
)

type Options struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Client is safe for concurrent use.
type Client struct {
	http *fasthttp.Client
	opts Options
	url  string
}

var _ textgen.Generator = (*Client)(nil)

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.Temperature == 0 {
		opts.Temperature = DefaultTemperature
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Client{
		http: &fasthttp.Client{
			Name:                "welfare-api",
			MaxConnsPerHost:     64,
			MaxIdleConnDuration: 90 * time.Second,
		},
		opts: opts,
		url:  strings.TrimRight(opts.BaseURL, "/") + "/chat/completions",
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// Generate sends one system and one user message and returns the first
// choice. An empty reply is an error so callers fall back.
func (c *Client) Generate(ctx context.Context, systemContext, userMessage string) (string, error) {
	if c.opts.APIKey == "" {
		return "", textgen.ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	msgs := make([]message, 0, 2)
	if systemContext != "" {
		msgs = append(msgs, message{Role: "system", Content: systemContext})
	}
	msgs = append(msgs, message{Role: "user", Content: userMessage})
	body, err := json.Marshal(completionRequest{
		Model:       c.opts.Model,
		Messages:    msgs,
		Temperature: c.opts.Temperature,
		MaxTokens:   c.opts.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("encode completion request: %w", err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)
	req.SetBody(body)

	deadline := time.Now().Add(c.opts.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}

	var out completionResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("decode completion response (status %d): %w", resp.StatusCode(), err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		msg := fasthttp.StatusMessage(resp.StatusCode())
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		return "", fmt.Errorf("completion request: status %d: %s", resp.StatusCode(), msg)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", errors.New("completion response has no content")
	}
	return out.Choices[0].Message.Content, nil
}
