package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/armywelfare/welfare-api/internal/domain"
	"github.com/armywelfare/welfare-api/internal/platform/auth/token"
)

const testTokenKey = "httpapi-test-key-0123456789abcdef"

// principalEcho writes the request principal as "id:role".
func principalEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(string(p.UserID) + ":" + p.Role.String()))
	})
}

func newTestMaker(t *testing.T) *token.JWTMaker {
	t.Helper()
	m, err := token.NewJWTMaker(testTokenKey)
	if err != nil {
		t.Fatalf("NewJWTMaker: %v", err)
	}
	return m
}

func serve(h http.Handler, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func errorCodeOf(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var er ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &er); err != nil {
		t.Fatalf("unmarshal error body: %v body=%s", err, rr.Body.String())
	}
	return er.Error.Code
}

func TestAuthMiddleware(t *testing.T) {
	t.Parallel()

	maker := newTestMaker(t)
	valid, _, err := maker.CreateToken("u-1", domain.RoleOfficer, time.Hour)
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	stale := newTestMaker(t)
	stale.SetNowForTest(func() time.Time { return time.Now().Add(-2 * time.Hour) })
	expired, _, err := stale.CreateToken("u-1", domain.RoleOfficer, time.Hour)
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	other, err := token.NewJWTMaker("a-completely-different-key-0123456789")
	if err != nil {
		t.Fatalf("NewJWTMaker: %v", err)
	}
	forged, _, err := other.CreateToken("u-1", domain.RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	h := NewAuthMiddleware(maker)(principalEcho())

	cases := []struct {
		name   string
		authz  string
		status int
		body   string
	}{
		{name: "missing header", authz: "", status: http.StatusUnauthorized},
		{name: "wrong scheme", authz: "Basic abc", status: http.StatusUnauthorized},
		{name: "empty bearer", authz: "Bearer   ", status: http.StatusUnauthorized},
		{name: "garbage", authz: "Bearer not-a-jwt", status: http.StatusUnauthorized},
		{name: "expired", authz: "Bearer " + expired, status: http.StatusUnauthorized},
		{name: "wrong key", authz: "Bearer " + forged, status: http.StatusUnauthorized},
		{name: "valid", authz: "Bearer " + valid, status: http.StatusOK, body: "u-1:officer"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			headers := map[string]string{}
			if tc.authz != "" {
				headers["Authorization"] = tc.authz
			}
			rr := serve(h, headers)
			if rr.Code != tc.status {
				t.Fatalf("status=%d want=%d body=%s", rr.Code, tc.status, rr.Body.String())
			}
			if tc.status == http.StatusOK {
				if rr.Body.String() != tc.body {
					t.Fatalf("principal=%q want=%q", rr.Body.String(), tc.body)
				}
				return
			}
			if code := errorCodeOf(t, rr); code != "UNAUTHORIZED" {
				t.Fatalf("code=%q", code)
			}
		})
	}
}

func TestAuthMiddleware_ExpiredMessage(t *testing.T) {
	t.Parallel()

	maker := newTestMaker(t)
	maker.SetNowForTest(func() time.Time { return time.Now().Add(-time.Hour) })
	tok, _, err := maker.CreateToken("u-2", domain.RolePersonnel, time.Minute)
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}
	rr := serve(NewAuthMiddleware(maker)(principalEcho()), map[string]string{"Authorization": "Bearer " + tok})

	var er ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &er); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if er.Error.Message != "token has expired" {
		t.Fatalf("message=%q", er.Error.Message)
	}
}

func TestDevAuthMiddleware(t *testing.T) {
	t.Parallel()

	h := NewDevAuthMiddleware("dev-user", domain.RolePersonnel)(principalEcho())

	rr := serve(h, nil)
	if rr.Code != http.StatusOK || rr.Body.String() != "dev-user:personnel" {
		t.Fatalf("defaults: status=%d body=%s", rr.Code, rr.Body.String())
	}

	rr = serve(h, map[string]string{"X-Debug-Subject": "alice", "X-Debug-Role": "Admin"})
	if rr.Code != http.StatusOK || rr.Body.String() != "alice:admin" {
		t.Fatalf("override: status=%d body=%s", rr.Code, rr.Body.String())
	}

	rr = serve(h, map[string]string{"X-Debug-Role": "general"})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unknown role: status=%d", rr.Code)
	}

	rr = serve(NewDevAuthMiddleware("", domain.RolePersonnel)(principalEcho()), nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("no subject: status=%d", rr.Code)
	}
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	h := NewDevAuthMiddleware("dev-user", domain.RolePersonnel)(requireRole(domain.RoleAdmin)(principalEcho()))

	rr := serve(h, nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("personnel: status=%d", rr.Code)
	}
	if code := errorCodeOf(t, rr); code != "FORBIDDEN" {
		t.Fatalf("code=%q", code)
	}

	rr = serve(h, map[string]string{"X-Debug-Role": "admin"})
	if rr.Code != http.StatusOK {
		t.Fatalf("admin: status=%d body=%s", rr.Code, rr.Body.String())
	}

	rr = serve(requireRole(domain.RoleAdmin)(principalEcho()), nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("no principal: status=%d", rr.Code)
	}
}
