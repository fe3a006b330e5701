package itest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/armywelfare/welfare-api/internal/adapters/httpapi"
	memclock "github.com/armywelfare/welfare-api/internal/adapters/memory/clock"
	memcontactrepo "github.com/armywelfare/welfare-api/internal/adapters/memory/contactrepo"
	memgrievancerepo "github.com/armywelfare/welfare-api/internal/adapters/memory/grievancerepo"
	memidempotency "github.com/armywelfare/welfare-api/internal/adapters/memory/idempotency"
	memlistingrepo "github.com/armywelfare/welfare-api/internal/adapters/memory/listingrepo"
	memschemerepo "github.com/armywelfare/welfare-api/internal/adapters/memory/schemerepo"
	memuserrepo "github.com/armywelfare/welfare-api/internal/adapters/memory/userrepo"
	mongocontactrepo "github.com/armywelfare/welfare-api/internal/adapters/mongodb/contactrepo"
	mongogrievancerepo "github.com/armywelfare/welfare-api/internal/adapters/mongodb/grievancerepo"
	mongoidempotency "github.com/armywelfare/welfare-api/internal/adapters/mongodb/idempotency"
	mongolistingrepo "github.com/armywelfare/welfare-api/internal/adapters/mongodb/listingrepo"
	mongoschemerepo "github.com/armywelfare/welfare-api/internal/adapters/mongodb/schemerepo"
	mongo_testutil "github.com/armywelfare/welfare-api/internal/adapters/mongodb/testutil"
	mongouserrepo "github.com/armywelfare/welfare-api/internal/adapters/mongodb/userrepo"
	pgcontactrepo "github.com/armywelfare/welfare-api/internal/adapters/postgres/contactrepo"
	pggrievancerepo "github.com/armywelfare/welfare-api/internal/adapters/postgres/grievancerepo"
	pgidempotency "github.com/armywelfare/welfare-api/internal/adapters/postgres/idempotency"
	pglistingrepo "github.com/armywelfare/welfare-api/internal/adapters/postgres/listingrepo"
	pgschemerepo "github.com/armywelfare/welfare-api/internal/adapters/postgres/schemerepo"
	postgres_testutil "github.com/armywelfare/welfare-api/internal/adapters/postgres/testutil"
	pguserrepo "github.com/armywelfare/welfare-api/internal/adapters/postgres/userrepo"
	"github.com/armywelfare/welfare-api/internal/app/accounts"
	"github.com/armywelfare/welfare-api/internal/app/chat"
	"github.com/armywelfare/welfare-api/internal/app/contacts"
	"github.com/armywelfare/welfare-api/internal/app/dashboard"
	"github.com/armywelfare/welfare-api/internal/app/grievances"
	"github.com/armywelfare/welfare-api/internal/app/marketplace"
	"github.com/armywelfare/welfare-api/internal/app/schemes"
	"github.com/armywelfare/welfare-api/internal/assistant"
	"github.com/armywelfare/welfare-api/internal/platform/auth/password"
	"github.com/armywelfare/welfare-api/internal/platform/auth/token"
	contactrepoport "github.com/armywelfare/welfare-api/internal/ports/out/contactrepo"
	grievancerepoport "github.com/armywelfare/welfare-api/internal/ports/out/grievancerepo"
	idempotencyport "github.com/armywelfare/welfare-api/internal/ports/out/idempotency"
	listingrepoport "github.com/armywelfare/welfare-api/internal/ports/out/listingrepo"
	schemerepoport "github.com/armywelfare/welfare-api/internal/ports/out/schemerepo"
	"github.com/armywelfare/welfare-api/internal/ports/out/textgen"
	userrepoport "github.com/armywelfare/welfare-api/internal/ports/out/userrepo"
)

type backend string

const (
	backendMemory   backend = "memory"
	backendPostgres backend = "postgres"
	backendMongo    backend = "mongo"
)

const tokenKey = "itest-symmetric-key-0123456789abcdef"

func backendsFromEnv(t *testing.T) []backend {
	t.Helper()
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ITEST_BACKEND"))) {
	case "", "memory":
		return []backend{backendMemory}
	case "postgres":
		return []backend{backendPostgres}
	case "mongo":
		return []backend{backendMongo}
	case "all":
		return []backend{backendMemory, backendPostgres, backendMongo}
	default:
		t.Fatalf("unknown ITEST_BACKEND value (expected memory|postgres|mongo|all)")
		return nil
	}
}

type repos struct {
	schemes    schemerepoport.Repository
	users      userrepoport.Repository
	grievances grievancerepoport.Repository
	listings   listingrepoport.Repository
	contacts   contactrepoport.Repository
	idem       idempotencyport.Store
}

func openRepos(t *testing.T, b backend) repos {
	t.Helper()
	switch b {
	case backendPostgres:
		pool := postgres_testutil.OpenMigratedPool(t)
		return repos{
			schemes:    pgschemerepo.NewRepo(pool),
			users:      pguserrepo.NewRepo(pool),
			grievances: pggrievancerepo.NewRepo(pool),
			listings:   pglistingrepo.NewRepo(pool),
			contacts:   pgcontactrepo.NewRepo(pool),
			idem:       pgidempotency.NewStore(pool),
		}
	case backendMongo:
		db := mongo_testutil.OpenDatabase(t)
		return repos{
			schemes:    mongoschemerepo.NewRepo(db),
			users:      mongouserrepo.NewRepo(db),
			grievances: mongogrievancerepo.NewRepo(db),
			listings:   mongolistingrepo.NewRepo(db),
			contacts:   mongocontactrepo.NewRepo(db),
			idem:       mongoidempotency.NewStore(db),
		}
	case backendMemory:
		return repos{
			schemes:    memschemerepo.NewRepo(),
			users:      memuserrepo.NewRepo(),
			grievances: memgrievancerepo.NewRepo(),
			listings:   memlistingrepo.NewRepo(),
			contacts:   memcontactrepo.NewRepo(),
			idem:       memidempotency.NewStore(),
		}
	default:
		t.Fatalf("unknown backend: %s", b)
		return repos{}
	}
}

type testServer struct {
	baseURL string
	client  *http.Client
	clock   *memclock.ManualClock
	admin   string
}

// newTestServer wires the full stack with bearer-token auth. gen may be nil.
func newTestServer(t *testing.T, b backend, gen textgen.Generator) *testServer {
	t.Helper()
	ctx := context.Background()

	clk := memclock.NewManualClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	rs := openRepos(t, b)

	maker, err := token.NewJWTMaker(tokenKey)
	if err != nil {
		t.Fatalf("NewJWTMaker: %v", err)
	}
	hasher := password.NewHasher(password.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})

	schemeSvc := schemes.NewService(rs.schemes, clk)
	if _, err := schemeSvc.Seed(ctx); err != nil {
		t.Fatalf("seed schemes: %v", err)
	}
	contactSvc := contacts.NewService(rs.contacts, clk)
	if _, err := contactSvc.SeedDirectory(ctx); err != nil {
		t.Fatalf("seed directory: %v", err)
	}
	accountSvc := accounts.NewService(rs.users, hasher, maker, clk, time.Hour)

	adminEmail := "admin-" + uuid.NewString() + "@itest.example"
	if _, err := accountSvc.EnsureAdmin(ctx, adminEmail, "admin-password"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	adminSession, err := accountSvc.Login(ctx, adminEmail, "admin-password")
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}

	api := httpapi.NewServer(httpapi.Services{
		Schemes:     schemeSvc,
		Grievances:  grievances.NewService(rs.grievances, clk),
		Marketplace: marketplace.NewService(rs.listings, rs.users, clk),
		Contacts:    contactSvc,
		Accounts:    accountSvc,
		Chat:        chat.NewService(gen, assistant.NewSelector(), chat.NewRateGate(2*time.Second), clk, log),
		Dashboard: dashboard.NewService(dashboard.Repos{
			Schemes:    rs.schemes,
			Users:      rs.users,
			Grievances: rs.grievances,
			Listings:   rs.listings,
			Contacts:   rs.contacts,
		}),
		Idem:  rs.idem,
		Clock: clk,
		Log:   log,
	})
	handler := httpapi.NewRouter(api, httpapi.RouterOptions{AuthMiddleware: httpapi.NewAuthMiddleware(maker)})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		baseURL: srv.URL,
		client:  srv.Client(),
		clock:   clk,
		admin:   adminSession.Token,
	}
}

func (s *testServer) url(path string) string {
	if strings.HasPrefix(path, "/") {
		return s.baseURL + path
	}
	return s.baseURL + "/" + path
}

func (s *testServer) doJSON(t *testing.T, method string, path string, bearer string, body any, headers ...string) (int, []byte, http.Header) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.url(path), r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out, resp.Header
}

// register creates a fresh account and returns its bearer token and id.
func (s *testServer) register(t *testing.T, role string, profile map[string]any) (string, string) {
	t.Helper()
	body := map[string]any{
		"email":    "user-" + uuid.NewString() + "@itest.example",
		"password": "itest-password",
		"role":     role,
	}
	if profile != nil {
		body["profile"] = profile
	}
	status, raw, _ := s.doJSON(t, http.MethodPost, "/auth/register", "", body)
	if status != http.StatusCreated {
		t.Fatalf("register status=%d body=%s", status, string(raw))
	}
	sess := mustUnmarshal[struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}](t, raw)
	return sess.Token, sess.User.ID
}

type errorResponse struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func mustUnmarshal[T any](t *testing.T, b []byte) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v\nbody=%s", err, string(b))
	}
	return out
}

func requireStatus(t *testing.T, status int, body []byte, want int) {
	t.Helper()
	if status != want {
		t.Fatalf("status=%d want=%d body=%s", status, want, string(body))
	}
}

func requireErrorCode(t *testing.T, status int, body []byte, wantStatus int, wantCode string) errorResponse {
	t.Helper()
	requireStatus(t, status, body, wantStatus)
	got := mustUnmarshal[errorResponse](t, body)
	if got.Error.Code != wantCode {
		t.Fatalf("error.code=%q want=%q body=%s", got.Error.Code, wantCode, string(body))
	}
	return got
}
