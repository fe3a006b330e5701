package httpapi

import (
	"net/http"

	"github.com/armywelfare/welfare-api/internal/app/accounts"
)

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var body RegisterRequest
	if !decodeBody(w, r, &body) {
		return
	}
	in := accounts.RegisterInput{
		Email:       string(body.Email),
		Password:    body.Password,
		DisplayName: body.DisplayName,
		Role:        body.Role,
	}
	if body.Profile != nil {
		p := body.Profile.toInput()
		in.Profile = &p
	}
	sess, err := s.Accounts.Register(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionFromApp(sess))
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var body LoginRequest
	if !decodeBody(w, r, &body) {
		return
	}
	sess, err := s.Accounts.Login(r.Context(), string(body.Email), body.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionFromApp(sess))
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	u, err := s.Accounts.Me(r.Context(), p.Caller())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userFromDomain(u))
}

func (s *Server) updateMyProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var body Profile
	if !decodeBody(w, r, &body) {
		return
	}
	u, err := s.Accounts.UpdateProfile(r.Context(), p.Caller(), body.toInput())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userFromDomain(u))
}
