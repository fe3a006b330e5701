package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/schema"

	"github.com/armywelfare/welfare-api/internal/app/accounts"
	"github.com/armywelfare/welfare-api/internal/app/chat"
	"github.com/armywelfare/welfare-api/internal/app/contacts"
	"github.com/armywelfare/welfare-api/internal/app/dashboard"
	"github.com/armywelfare/welfare-api/internal/app/grievances"
	"github.com/armywelfare/welfare-api/internal/app/marketplace"
	"github.com/armywelfare/welfare-api/internal/app/schemes"
	clockport "github.com/armywelfare/welfare-api/internal/ports/out/clock"
	"github.com/armywelfare/welfare-api/internal/ports/out/idempotency"
	"github.com/armywelfare/welfare-api/internal/search"
)

const maxBodyBytes = 1 << 20

// Services bundles what the HTTP adapter delegates to. Idem may be nil to
// disable Idempotency-Key handling.
type Services struct {
	Schemes     *schemes.Service
	Grievances  *grievances.Service
	Marketplace *marketplace.Service
	Contacts    *contacts.Service
	Accounts    *accounts.Service
	Chat        *chat.Service
	Dashboard   *dashboard.Service

	Idem  idempotency.Store
	Clock clockport.Clock
	Log   *slog.Logger
}

// Server holds the handlers. It is stateless apart from its collaborators.
type Server struct {
	Services

	log   *slog.Logger
	query *schema.Decoder
}

func NewServer(svc Services) *Server {
	log := svc.Log
	if log == nil {
		log = slog.Default()
	}
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return &Server{Services: svc, log: log, query: dec}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeBody reads a JSON request body into dst. It writes the 400 response
// itself and reports false when the body cannot be decoded.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		msg := "invalid JSON body"
		if errors.Is(err, io.EOF) {
			msg = "missing request body"
		}
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", msg, nil)
		return false
	}
	return true
}

// criteria decodes q, category, status and tab from the query string.
func (s *Server) criteria(w http.ResponseWriter, r *http.Request) (search.Criteria, bool) {
	var c search.Criteria
	if err := s.query.Decode(&c, r.URL.Query()); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid query parameters", map[string]any{"query": err.Error()})
		return search.Criteria{}, false
	}
	return c, true
}

// principal returns the caller attached by the auth middleware. The
// authenticated route group guarantees one; a missing principal is a 401.
func principal(w http.ResponseWriter, r *http.Request) (Principal, bool) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing principal", nil)
	}
	return p, ok
}
