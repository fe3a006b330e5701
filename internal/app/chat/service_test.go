package chat_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	memclock "github.com/armywelfare/welfare-api/internal/adapters/memory/clock"
	"github.com/armywelfare/welfare-api/internal/app/chat"
	"github.com/armywelfare/welfare-api/internal/assistant"
	"github.com/armywelfare/welfare-api/internal/domain"
	"github.com/armywelfare/welfare-api/internal/ports/out/textgen"
)

type fakeGenerator struct {
	mu     sync.Mutex
	reply  string
	err    error
	calls  int
	system string
}

func (g *fakeGenerator) Generate(_ context.Context, systemContext, _ string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.system = systemContext
	return g.reply, g.err
}

var captain = domain.Profile{Rank: "Captain", Age: 32, ServiceYears: 8, Status: domain.ServiceStatusActive}

var eligible = []assistant.SchemeSummary{
	{Title: "Children Education Allowance", Description: "Financial support for children's education", Category: "education"},
	{Title: "Medical Support", Description: "Emergency medical help", Category: "medical"},
}

func newService(gen textgen.Generator) (*chat.Service, *memclock.ManualClock) {
	clk := memclock.NewManualClock(time.Unix(1000, 0).UTC())
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return chat.NewService(gen, assistant.NewSelector(), chat.NewRateGate(0), clk, log), clk
}

func input(msg string) chat.Input {
	p := captain
	return chat.Input{Message: msg, Profile: &p, Eligible: eligible}
}

func wantError(t *testing.T, err error, status int, code string) *chat.Error {
	t.Helper()
	var ce *chat.Error
	if !errors.As(err, &ce) || ce.Status != status || ce.Code != code {
		t.Fatalf("got %v, want %d %s", err, status, code)
	}
	return ce
}

func TestService_Respond_GeneratorAnswer(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{reply: "You qualify for two schemes."}
	svc, _ := newService(gen)

	got, err := svc.Respond(context.Background(), input("what am I eligible for?"))
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if got.Source != chat.SourceGenerator || got.Response != gen.reply {
		t.Fatalf("reply=%+v", got)
	}
	if !strings.Contains(gen.system, "Rank Captain, Age 32, Service 8 years, Status active") ||
		!strings.HasSuffix(gen.system, "Eligible schemes: Children Education Allowance, Medical Support") {
		t.Fatalf("system prompt=%q", gen.system)
	}
}

func TestService_Respond_FallbackOnGeneratorFailure(t *testing.T) {
	t.Parallel()

	for _, gen := range []*fakeGenerator{
		{err: errors.New("quota exceeded")},
		{reply: "   "},
	} {
		svc, _ := newService(gen)
		got, err := svc.Respond(context.Background(), input("any medical help?"))
		if err != nil {
			t.Fatalf("Respond: %v", err)
		}
		if got.Source != chat.SourceFallback {
			t.Fatalf("source=%q", got.Source)
		}
		want := "Here are the medical welfare schemes you're eligible for:\n- Medical Support: Emergency medical help"
		if got.Response != want {
			t.Fatalf("response=%q", got.Response)
		}
	}
}

func TestService_Respond_NotConfigured(t *testing.T) {
	t.Parallel()

	svc, _ := newService(nil)
	_, err := svc.Respond(context.Background(), input("hello"))
	wantError(t, err, 500, "GENERATOR_NOT_CONFIGURED")

	svc, _ = newService(&fakeGenerator{err: textgen.ErrNotConfigured})
	_, err = svc.Respond(context.Background(), input("hello"))
	wantError(t, err, 500, "GENERATOR_NOT_CONFIGURED")
}

func TestService_Respond_MissingFields(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{reply: "ok"}
	svc, _ := newService(gen)

	_, err := svc.Respond(context.Background(), chat.Input{Message: " "})
	ce := wantError(t, err, 400, "MISSING_FIELDS")
	fields, _ := ce.Details["fields"].([]string)
	if !slices.Equal(fields, []string{"message", "userProfile", "eligibleSchemes"}) {
		t.Fatalf("fields=%v", ce.Details["fields"])
	}
	if ce.Message != "Missing required fields: message, userProfile, eligibleSchemes" {
		t.Fatalf("message=%q", ce.Message)
	}
	if gen.calls != 0 {
		t.Fatalf("generator called %d times", gen.calls)
	}
}

func TestService_Respond_EmptyEligibleIsPresent(t *testing.T) {
	t.Parallel()

	svc, _ := newService(&fakeGenerator{err: errors.New("down")})
	in := input("am I eligible?")
	in.Eligible = []assistant.SchemeSummary{}

	got, err := svc.Respond(context.Background(), in)
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if got.Response != assistant.NoEligibilityText {
		t.Fatalf("response=%q", got.Response)
	}
}

func TestService_Respond_RateLimited(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{reply: "ok"}
	svc, clk := newService(gen)
	ctx := context.Background()

	if _, err := svc.Respond(ctx, input("hi")); err != nil {
		t.Fatalf("first Respond: %v", err)
	}
	clk.Advance(1500 * time.Millisecond)
	_, err := svc.Respond(ctx, input("hi"))
	wantError(t, err, 429, "RATE_LIMITED")

	clk.Advance(500 * time.Millisecond)
	if _, err := svc.Respond(ctx, input("hi")); err != nil {
		t.Fatalf("Respond after cooldown: %v", err)
	}
	if gen.calls != 2 {
		t.Fatalf("generator calls=%d", gen.calls)
	}
}

func TestService_Probe(t *testing.T) {
	t.Parallel()

	svc, _ := newService(&fakeGenerator{reply: "Hi"})
	got, err := svc.Probe(context.Background())
	if err != nil || got != "Hi" {
		t.Fatalf("Probe=%q err=%v", got, err)
	}

	svc, _ = newService(&fakeGenerator{err: errors.New("401 invalid key")})
	_, err = svc.Probe(context.Background())
	wantError(t, err, 502, "GENERATOR_ERROR")
}
