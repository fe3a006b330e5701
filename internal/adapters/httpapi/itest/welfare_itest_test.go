package itest

import (
	"net/http"
	"slices"
	"testing"

	"github.com/google/uuid"
)

type schemeBody struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

type eligibleBody struct {
	Evaluator string `json:"evaluator"`
	Schemes   []struct {
		Scheme   schemeBody `json:"scheme"`
		Criteria []string   `json:"criteria"`
	} `json:"schemes"`
}

func ids(ss []schemeBody) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		out = append(out, s.ID)
	}
	return out
}

func captainProfile() map[string]any {
	return map[string]any{
		"rank":           "Captain",
		"age":            30,
		"gender":         "male",
		"serviceYears":   6,
		"status":         "active",
		"specialization": "Infantry",
		"batch":          "2015",
	}
}

func TestSchemes_PublicCatalogue(t *testing.T) {
	for _, b := range backendsFromEnv(t) {
		t.Run(string(b), func(t *testing.T) {
			ts := newTestServer(t, b, nil)

			status, raw, _ := ts.doJSON(t, http.MethodGet, "/schemes?category=medical", "", nil)
			requireStatus(t, status, raw, http.StatusOK)
			got := ids(mustUnmarshal[[]schemeBody](t, raw))
			for _, want := range []string{"2", "r2", "r5"} {
				if !slices.Contains(got, want) {
					t.Fatalf("medical schemes=%v missing %q", got, want)
				}
			}
			if slices.Contains(got, "1") {
				t.Fatalf("medical schemes=%v include education scheme", got)
			}

			status, raw, _ = ts.doJSON(t, http.MethodGet, "/schemes/does-not-exist", "", nil)
			requireErrorCode(t, status, raw, http.StatusNotFound, "SCHEME_NOT_FOUND")
		})
	}
}

func TestSchemes_EligibilityByProfile(t *testing.T) {
	for _, b := range backendsFromEnv(t) {
		t.Run(string(b), func(t *testing.T) {
			ts := newTestServer(t, b, nil)

			status, raw, hdr := ts.doJSON(t, http.MethodPost, "/schemes/eligible", "", map[string]any{"profile": captainProfile()})
			requireStatus(t, status, raw, http.StatusOK)
			if hdr.Get("X-Eligibility-Evaluator") != "full" {
				t.Fatalf("evaluator header=%q", hdr.Get("X-Eligibility-Evaluator"))
			}
			res := mustUnmarshal[eligibleBody](t, raw)
			var got []string
			for _, m := range res.Schemes {
				got = append(got, m.Scheme.ID)
			}
			for _, want := range []string{"1", "2"} {
				if !slices.Contains(got, want) {
					t.Fatalf("eligible=%v missing %q", got, want)
				}
			}
			for _, reject := range []string{"3", "6", "7"} {
				if slices.Contains(got, reject) {
					t.Fatalf("eligible=%v includes %q", got, reject)
				}
			}

			status, raw, _ = ts.doJSON(t, http.MethodPost, "/schemes/eligible", "", map[string]any{})
			requireErrorCode(t, status, raw, http.StatusBadRequest, "MISSING_FIELDS")
		})
	}
}

func TestSchemes_RosterQuery(t *testing.T) {
	for _, b := range backendsFromEnv(t) {
		t.Run(string(b), func(t *testing.T) {
			ts := newTestServer(t, b, nil)

			status, raw, hdr := ts.doJSON(t, http.MethodPost, "/chatbot/eligible-schemes", "", map[string]any{
				"age": 30, "status": "serving", "rank": "officer",
			})
			requireStatus(t, status, raw, http.StatusOK)
			if hdr.Get("X-Eligibility-Evaluator") != "roster" {
				t.Fatalf("evaluator header=%q", hdr.Get("X-Eligibility-Evaluator"))
			}
			got := ids(mustUnmarshal[[]schemeBody](t, raw))
			for _, want := range []string{"r2", "r5"} {
				if !slices.Contains(got, want) {
					t.Fatalf("roster=%v missing %q", got, want)
				}
			}
			for _, reject := range []string{"r1", "r3", "r4"} {
				if slices.Contains(got, reject) {
					t.Fatalf("roster=%v includes retired-only %q", got, reject)
				}
			}

			status, raw, _ = ts.doJSON(t, http.MethodPost, "/chatbot/eligible-schemes", "", map[string]any{"status": "serving"})
			er := requireErrorCode(t, status, raw, http.StatusBadRequest, "MISSING_FIELDS")
			fields, _ := er.Error.Details["fields"].([]any)
			if len(fields) != 2 {
				t.Fatalf("missing fields=%v", er.Error.Details["fields"])
			}
		})
	}
}

func TestAccounts_RegisterLoginAndProfile(t *testing.T) {
	for _, b := range backendsFromEnv(t) {
		t.Run(string(b), func(t *testing.T) {
			ts := newTestServer(t, b, nil)

			status, raw, _ := ts.doJSON(t, http.MethodGet, "/me", "", nil)
			requireErrorCode(t, status, raw, http.StatusUnauthorized, "UNAUTHORIZED")

			bearer, _ := ts.register(t, "personnel", captainProfile())

			status, raw, _ = ts.doJSON(t, http.MethodGet, "/me", bearer, nil)
			requireStatus(t, status, raw, http.StatusOK)
			me := mustUnmarshal[struct {
				Role    string `json:"role"`
				Profile struct {
					Rank string `json:"rank"`
				} `json:"profile"`
			}](t, raw)
			if me.Role != "personnel" || me.Profile.Rank != "Captain" {
				t.Fatalf("me=%+v", me)
			}

			status, raw, _ = ts.doJSON(t, http.MethodGet, "/me/eligible-schemes", bearer, nil)
			requireStatus(t, status, raw, http.StatusOK)
			if res := mustUnmarshal[eligibleBody](t, raw); len(res.Schemes) == 0 {
				t.Fatalf("expected eligible schemes for stored profile")
			}

			noProfile, _ := ts.register(t, "personnel", nil)
			status, raw, _ = ts.doJSON(t, http.MethodGet, "/me/eligible-schemes", noProfile, nil)
			requireErrorCode(t, status, raw, http.StatusUnprocessableEntity, "PROFILE_REQUIRED")

			status, raw, _ = ts.doJSON(t, http.MethodPost, "/auth/register", "", map[string]any{
				"email": "someone@itest.example", "password": "itest-password", "role": "admin",
			})
			requireErrorCode(t, status, raw, http.StatusForbidden, "FORBIDDEN")
		})
	}
}

func TestSchemes_AdminWritesAreGuardedAndIdempotent(t *testing.T) {
	for _, b := range backendsFromEnv(t) {
		t.Run(string(b), func(t *testing.T) {
			ts := newTestServer(t, b, nil)
			personnel, _ := ts.register(t, "personnel", nil)

			body := map[string]any{
				"title":       "Winter Clothing Allowance",
				"description": "Allowance for cold-weather kit.",
				"category":    "other",
				"amount":      "₹8,000",
				"status":      "active",
				"eligibility": map[string]any{"minServiceYears": 1},
			}

			status, raw, _ := ts.doJSON(t, http.MethodPost, "/schemes", personnel, body)
			requireErrorCode(t, status, raw, http.StatusForbidden, "FORBIDDEN")

			key := "winter-" + uuid.NewString()
			status, raw, _ = ts.doJSON(t, http.MethodPost, "/schemes", ts.admin, body, "Idempotency-Key", key)
			requireStatus(t, status, raw, http.StatusCreated)
			created := mustUnmarshal[schemeBody](t, raw)

			status, raw, hdr := ts.doJSON(t, http.MethodPost, "/schemes", ts.admin, body, "Idempotency-Key", key)
			requireStatus(t, status, raw, http.StatusCreated)
			if hdr.Get("Idempotent-Replayed") != "true" {
				t.Fatalf("expected replay header")
			}
			if replay := mustUnmarshal[schemeBody](t, raw); replay.ID != created.ID {
				t.Fatalf("replay id=%q want %q", replay.ID, created.ID)
			}

			body["title"] = "Something Else"
			status, raw, _ = ts.doJSON(t, http.MethodPost, "/schemes", ts.admin, body, "Idempotency-Key", key)
			requireErrorCode(t, status, raw, http.StatusConflict, "IDEMPOTENCY_KEY_REUSE")

			status, raw, _ = ts.doJSON(t, http.MethodPut, "/schemes/"+created.ID, ts.admin, map[string]any{"status": "closed"})
			requireStatus(t, status, raw, http.StatusOK)
			if got := mustUnmarshal[schemeBody](t, raw); got.Status != "closed" || got.Title != "Winter Clothing Allowance" {
				t.Fatalf("updated=%+v", got)
			}

			status, raw, _ = ts.doJSON(t, http.MethodDelete, "/schemes/"+created.ID, ts.admin, nil)
			requireStatus(t, status, raw, http.StatusOK)
			status, raw, _ = ts.doJSON(t, http.MethodGet, "/schemes/"+created.ID, "", nil)
			requireErrorCode(t, status, raw, http.StatusNotFound, "SCHEME_NOT_FOUND")
		})
	}
}

func TestGrievances_SubmitAndReview(t *testing.T) {
	for _, b := range backendsFromEnv(t) {
		t.Run(string(b), func(t *testing.T) {
			ts := newTestServer(t, b, nil)
			owner, ownerID := ts.register(t, "personnel", nil)
			other, _ := ts.register(t, "personnel", nil)
			officer, _ := ts.register(t, "officer", nil)

			status, raw, _ := ts.doJSON(t, http.MethodPost, "/grievances", owner, map[string]any{
				"title": "Pay arrears", "description": "March pay not credited", "category": "pay", "priority": "high",
			})
			requireStatus(t, status, raw, http.StatusCreated)
			g := mustUnmarshal[struct {
				ID     string `json:"id"`
				UserID string `json:"userId"`
				Status string `json:"status"`
			}](t, raw)
			if g.UserID != ownerID || g.Status != "submitted" {
				t.Fatalf("grievance=%+v", g)
			}

			status, raw, _ = ts.doJSON(t, http.MethodGet, "/grievances/"+g.ID, other, nil)
			requireErrorCode(t, status, raw, http.StatusNotFound, "GRIEVANCE_NOT_FOUND")

			status, raw, _ = ts.doJSON(t, http.MethodGet, "/grievances/user/"+ownerID, other, nil)
			requireErrorCode(t, status, raw, http.StatusForbidden, "FORBIDDEN")

			status, raw, _ = ts.doJSON(t, http.MethodPatch, "/grievances/"+g.ID+"/status", owner, map[string]any{"status": "resolved"})
			requireErrorCode(t, status, raw, http.StatusForbidden, "FORBIDDEN")

			status, raw, _ = ts.doJSON(t, http.MethodPatch, "/grievances/"+g.ID+"/status", officer, map[string]any{"status": "resolved"})
			requireStatus(t, status, raw, http.StatusOK)

			status, raw, _ = ts.doJSON(t, http.MethodGet, "/grievances/user/"+ownerID, officer, nil)
			requireStatus(t, status, raw, http.StatusOK)
			list := mustUnmarshal[[]struct {
				Status string `json:"status"`
			}](t, raw)
			if len(list) != 1 || list[0].Status != "resolved" {
				t.Fatalf("owner grievances=%+v", list)
			}
		})
	}
}

func TestMarketplaceAndContacts(t *testing.T) {
	for _, b := range backendsFromEnv(t) {
		t.Run(string(b), func(t *testing.T) {
			ts := newTestServer(t, b, nil)
			seller, _ := ts.register(t, "personnel", nil)
			buyer, _ := ts.register(t, "personnel", nil)

			status, raw, _ := ts.doJSON(t, http.MethodPost, "/marketplace", seller, map[string]any{
				"title": "Study table", "description": "Teak, lightly used", "category": "furniture",
				"type": "offer", "location": "Pune Cantonment", "price": "₹3,000", "contactInfo": "ext 4412",
			})
			requireStatus(t, status, raw, http.StatusCreated)
			listing := mustUnmarshal[struct {
				ID string `json:"id"`
			}](t, raw)

			status, raw, _ = ts.doJSON(t, http.MethodDelete, "/marketplace/"+listing.ID, buyer, nil)
			requireErrorCode(t, status, raw, http.StatusForbidden, "FORBIDDEN")
			status, raw, _ = ts.doJSON(t, http.MethodDelete, "/marketplace/"+listing.ID, seller, nil)
			requireStatus(t, status, raw, http.StatusNoContent)

			status, raw, _ = ts.doJSON(t, http.MethodPost, "/emergency", buyer, map[string]any{
				"name": "Neighbour", "phone": "+91 98000 00000", "category": "personal", "priority": "medium", "shared": true,
			})
			requireErrorCode(t, status, raw, http.StatusForbidden, "FORBIDDEN")

			status, raw, _ = ts.doJSON(t, http.MethodGet, "/emergency", buyer, nil)
			requireStatus(t, status, raw, http.StatusOK)
			contacts := mustUnmarshal[[]struct {
				Shared bool `json:"shared"`
			}](t, raw)
			if len(contacts) == 0 || !contacts[0].Shared {
				t.Fatalf("expected the shared directory to be visible: %+v", contacts)
			}
		})
	}
}

func TestDashboard_ReflectsRole(t *testing.T) {
	for _, b := range backendsFromEnv(t) {
		t.Run(string(b), func(t *testing.T) {
			ts := newTestServer(t, b, nil)
			personnel, _ := ts.register(t, "personnel", captainProfile())

			type dash struct {
				Role  string `json:"role"`
				Stats []struct {
					Label string `json:"label"`
					Value int    `json:"value"`
				} `json:"stats"`
				QuickActions []struct {
					Href string `json:"href"`
				} `json:"quickActions"`
			}

			status, raw, _ := ts.doJSON(t, http.MethodGet, "/dashboard", personnel, nil)
			requireStatus(t, status, raw, http.StatusOK)
			d := mustUnmarshal[dash](t, raw)
			if d.Role != "personnel" || len(d.Stats) != 4 || d.Stats[0].Label != "Available Schemes" || d.Stats[0].Value == 0 {
				t.Fatalf("personnel dashboard=%+v", d)
			}
			for _, qa := range d.QuickActions {
				if qa.Href == "/admin" {
					t.Fatalf("personnel sees admin action")
				}
			}

			status, raw, _ = ts.doJSON(t, http.MethodGet, "/dashboard", ts.admin, nil)
			requireStatus(t, status, raw, http.StatusOK)
			d = mustUnmarshal[dash](t, raw)
			if d.Role != "admin" || d.QuickActions[0].Href != "/admin" {
				t.Fatalf("admin dashboard=%+v", d)
			}
		})
	}
}

func TestChat_WithoutGeneratorIsAServerError(t *testing.T) {
	ts := newTestServer(t, backendMemory, nil)
	status, raw, _ := ts.doJSON(t, http.MethodPost, "/api/chat", "", map[string]any{
		"message": "what can I apply for?", "userProfile": captainProfile(), "eligibleSchemes": []any{},
	})
	requireErrorCode(t, status, raw, http.StatusInternalServerError, "GENERATOR_NOT_CONFIGURED")
}
