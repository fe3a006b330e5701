package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/armywelfare/welfare-api/internal/app/accounts"
	"github.com/armywelfare/welfare-api/internal/app/schemes"
	"github.com/armywelfare/welfare-api/internal/domain"
)

// evaluatorHeader names the eligibility evaluator that produced a response.
const evaluatorHeader = "X-Eligibility-Evaluator"

func (s *Server) listSchemes(w http.ResponseWriter, r *http.Request) {
	c, ok := s.criteria(w, r)
	if !ok {
		return
	}
	ss, err := s.Schemes.List(r.Context(), c)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, schemesFromDomain(ss))
}

func (s *Server) getScheme(w http.ResponseWriter, r *http.Request) {
	sc, err := s.Schemes.Get(r.Context(), domain.SchemeID(chi.URLParam(r, "id")))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, schemeFromDomain(sc))
}

func (s *Server) createScheme(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var body CreateSchemeRequest
	if !decodeBody(w, r, &body) {
		return
	}
	canon := body
	canon.Title = domain.NormalizeHumanName(canon.Title)
	s.idempotent(w, r, p, "/schemes", canon, http.StatusCreated, func() (any, error) {
		sc, err := s.Schemes.Create(r.Context(), body.toInput())
		if err != nil {
			return nil, err
		}
		return schemeFromDomain(sc), nil
	})
}

func (s *Server) updateScheme(w http.ResponseWriter, r *http.Request) {
	var body UpdateSchemeRequest
	if !decodeBody(w, r, &body) {
		return
	}
	sc, err := s.Schemes.Update(r.Context(), domain.SchemeID(chi.URLParam(r, "id")), body.toInput())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, schemeFromDomain(sc))
}

func (s *Server) deleteScheme(w http.ResponseWriter, r *http.Request) {
	if err := s.Schemes.Delete(r.Context(), domain.SchemeID(chi.URLParam(r, "id"))); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Scheme deleted"})
}

// eligibleSchemes evaluates a posted profile with the full evaluator.
func (s *Server) eligibleSchemes(w http.ResponseWriter, r *http.Request) {
	var body EligibleRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Profile == nil {
		writeError(w, r, http.StatusBadRequest, "MISSING_FIELDS", "profile is required", map[string]any{"fields": []string{"profile"}})
		return
	}
	profile, err := accounts.ParseProfile(body.Profile.toInput())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeEligible(w, r, profile)
}

func (s *Server) myEligibleSchemes(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	profile, err := s.Accounts.Profile(r.Context(), p.Caller())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeEligible(w, r, profile)
}

func (s *Server) writeEligible(w http.ResponseWriter, r *http.Request, profile domain.Profile) {
	res, err := s.Schemes.Eligible(r.Context(), profile)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	out := EligibleResponse{Evaluator: string(res.Coverage), Schemes: make([]EligibleMatch, 0, len(res.Matches))}
	for _, m := range res.Matches {
		out.Schemes = append(out.Schemes, EligibleMatch{Scheme: schemeFromDomain(m.Scheme), Criteria: m.Criteria})
	}
	w.Header().Set(evaluatorHeader, out.Evaluator)
	writeJSON(w, http.StatusOK, out)
}

// rosterEligible is the age/status/rank query used by the chatbot.
func (s *Server) rosterEligible(w http.ResponseWriter, r *http.Request) {
	var body RosterRequest
	if !decodeBody(w, r, &body) {
		return
	}
	res, err := s.Schemes.FindEligible(r.Context(), schemes.RosterInput{Age: body.Age, Status: body.Status, Rank: body.Rank})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.Header().Set(evaluatorHeader, string(res.Coverage))
	writeJSON(w, http.StatusOK, schemesFromDomain(res.Schemes))
}
