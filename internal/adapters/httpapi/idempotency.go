package httpapi

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/armywelfare/welfare-api/internal/domain"
	"github.com/armywelfare/welfare-api/internal/ports/out/idempotency"
)

const idempotencyHeader = "Idempotency-Key"

// idempotent runs create for a POST under the caller's Idempotency-Key.
//
// Without a key (or without a store) create simply runs. With a key:
//   - the first request records the body hash under a meta fingerprint;
//   - a repeat with the same body replays the stored response;
//   - a repeat with a different body is rejected with 409.
//
// Only successful responses are stored, so a failed attempt can be retried
// with the same key.
func (s *Server) idempotent(w http.ResponseWriter, r *http.Request, p Principal, route string, body any, status int, create func() (any, error)) {
	key := strings.TrimSpace(r.Header.Get(idempotencyHeader))
	if key == "" || s.Idem == nil {
		out, err := create()
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, status, out)
		return
	}

	bodyHash, err := hashBody(body)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	ctx := r.Context()
	metaFP := idempotency.Fingerprint{
		Key:     idempotency.Key(key),
		Subject: domain.SubjectID(p.UserID),
		Method:  r.Method,
		Route:   route,
	}
	meta, ok, err := s.Idem.Get(ctx, metaFP)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if ok {
		if string(meta.Body) != bodyHash {
			writeError(w, r, http.StatusConflict, "IDEMPOTENCY_KEY_REUSE", "idempotency key reuse with different payload", nil)
			return
		}
	} else {
		_ = s.Idem.Put(ctx, metaFP, idempotency.Record{
			StatusCode:  0,
			ContentType: "text/plain",
			Body:        []byte(bodyHash),
			CreatedAt:   s.Clock.Now().UTC(),
		})
	}

	respFP := metaFP
	respFP.BodyHash = bodyHash
	if rec, ok, err := s.Idem.Get(ctx, respFP); err != nil {
		s.writeServiceError(w, r, err)
		return
	} else if ok && rec.StatusCode == status && strings.HasPrefix(rec.ContentType, "application/json") {
		w.Header().Set("Content-Type", rec.ContentType)
		w.Header().Set("Idempotent-Replayed", "true")
		w.WriteHeader(rec.StatusCode)
		_, _ = w.Write(rec.Body)
		return
	}

	out, err := create()
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	b, err := json.Marshal(out)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	_ = s.Idem.Put(ctx, respFP, idempotency.Record{
		StatusCode:  status,
		ContentType: "application/json",
		Body:        b,
		CreatedAt:   s.Clock.Now().UTC(),
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(b, '\n'))
}

func hashBody(body any) (string, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
