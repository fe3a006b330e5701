// Package chat answers welfare questions, preferring the external text
// generator and falling back to the deterministic assistant.
package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/armywelfare/welfare-api/internal/assistant"
	"github.com/armywelfare/welfare-api/internal/domain"
	clockport "github.com/armywelfare/welfare-api/internal/ports/out/clock"
	"github.com/armywelfare/welfare-api/internal/ports/out/textgen"
)

const (
	SourceGenerator = "generator"
	SourceFallback  = "fallback"
)

// Input is one chat turn. A nil Profile or nil Eligible counts as missing;
// an empty Eligible slice does not.
type Input struct {
	Message  string
	Profile  *domain.Profile
	Eligible []assistant.SchemeSummary
}

type Reply struct {
	Response string
	Source   string
}

type Service struct {
	gen      textgen.Generator
	selector *assistant.Selector
	gate     *RateGate
	clk      clockport.Clock
	log      *slog.Logger
}

// NewService wires the chat flow. gen may be nil when no generator is configured.
func NewService(gen textgen.Generator, selector *assistant.Selector, gate *RateGate, clk clockport.Clock, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{gen: gen, selector: selector, gate: gate, clk: clk, log: log}
}

func (s *Service) Respond(ctx context.Context, in Input) (Reply, error) {
	if !s.gate.Allow(s.clk.Now()) {
		return Reply{}, &Error{Status: 429, Code: "RATE_LIMITED", Message: "Please wait a moment before sending another message"}
	}
	if s.gen == nil {
		s.log.Error("chat generator is not configured")
		return Reply{}, notConfigured()
	}
	if missing := missingFields(in); len(missing) > 0 {
		return Reply{}, &Error{
			Status:  400,
			Code:    "MISSING_FIELDS",
			Message: "Missing required fields: " + strings.Join(missing, ", "),
			Details: map[string]any{"fields": missing},
		}
	}

	text, err := s.gen.Generate(ctx, assistant.SystemPrompt(*in.Profile, in.Eligible), in.Message)
	switch {
	case errors.Is(err, textgen.ErrNotConfigured):
		s.log.Error("chat generator rejected the request as unconfigured")
		return Reply{}, notConfigured()
	case err != nil:
		s.log.Warn("chat generator failed, using fallback", "err", err)
	case strings.TrimSpace(text) == "":
		s.log.Warn("chat generator returned an empty answer, using fallback")
	default:
		return Reply{Response: text, Source: SourceGenerator}, nil
	}
	return Reply{Response: s.selector.Respond(in.Message, *in.Profile, in.Eligible), Source: SourceFallback}, nil
}

// Probe sends a one word prompt to the generator to confirm credentials
// and connectivity. It bypasses the rate gate.
func (s *Service) Probe(ctx context.Context) (string, error) {
	if s.gen == nil {
		return "", notConfigured()
	}
	text, err := s.gen.Generate(ctx, "", "Hello")
	if err != nil {
		if errors.Is(err, textgen.ErrNotConfigured) {
			return "", notConfigured()
		}
		return "", &Error{Status: 502, Code: "GENERATOR_ERROR", Message: err.Error()}
	}
	return text, nil
}

func missingFields(in Input) []string {
	var missing []string
	if strings.TrimSpace(in.Message) == "" {
		missing = append(missing, "message")
	}
	if in.Profile == nil {
		missing = append(missing, "userProfile")
	}
	if in.Eligible == nil {
		missing = append(missing, "eligibleSchemes")
	}
	return missing
}

func notConfigured() *Error {
	return &Error{Status: 500, Code: "GENERATOR_NOT_CONFIGURED", Message: "text generator is not configured"}
}
