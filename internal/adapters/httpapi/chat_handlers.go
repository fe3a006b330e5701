package httpapi

import (
	"net/http"

	"github.com/armywelfare/welfare-api/internal/app/chat"
)

func (s *Server) chatReply(w http.ResponseWriter, r *http.Request) {
	var body ChatRequest
	if !decodeBody(w, r, &body) {
		return
	}
	in := chat.Input{
		Message:  body.Message,
		Eligible: summariesToAssistant(body.EligibleSchemes),
	}
	if body.UserProfile != nil {
		p := body.UserProfile.toLenient()
		in.Profile = &p
	}
	reply, err := s.Chat.Respond(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ChatResponse{Response: reply.Response, Status: "success", Source: reply.Source})
}

func (s *Server) chatProbe(w http.ResponseWriter, r *http.Request) {
	text, err := s.Chat.Probe(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ProbeResponse{Status: "success", Message: "text generator is properly configured", Response: text})
}

func (s *Server) getDashboard(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	d, err := s.Dashboard.Get(r.Context(), p.Caller())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboardFromApp(d))
}
