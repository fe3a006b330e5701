package textgen

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by generators that lack credentials.
var ErrNotConfigured = errors.New("text generator not configured")

// Generator produces a reply to userMessage given a system context.
type Generator interface {
	Generate(ctx context.Context, systemContext, userMessage string) (string, error)
}
