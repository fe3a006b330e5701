package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/armywelfare/welfare-api/internal/app/contacts"
	"github.com/armywelfare/welfare-api/internal/app/grievances"
	"github.com/armywelfare/welfare-api/internal/app/marketplace"
	"github.com/armywelfare/welfare-api/internal/domain"
)

func (s *Server) submitGrievance(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var body SubmitGrievanceRequest
	if !decodeBody(w, r, &body) {
		return
	}
	canon := body
	canon.Title = domain.NormalizeHumanName(canon.Title)
	canon.Priority = domain.NormalizeTag(canon.Priority)
	s.idempotent(w, r, p, "/grievances", canon, http.StatusCreated, func() (any, error) {
		g, err := s.Grievances.Submit(r.Context(), p.Caller(), grievances.SubmitInput{
			Title:       body.Title,
			Description: body.Description,
			Category:    body.Category,
			Priority:    body.Priority,
		})
		if err != nil {
			return nil, err
		}
		return grievanceFromDomain(g), nil
	})
}

func (s *Server) listGrievances(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	c, ok := s.criteria(w, r)
	if !ok {
		return
	}
	gs, err := s.Grievances.List(r.Context(), p.Caller(), c)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeGrievances(w, gs)
}

func (s *Server) listUserGrievances(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	gs, err := s.Grievances.ListForUser(r.Context(), p.Caller(), domain.UserID(chi.URLParam(r, "userId")))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeGrievances(w, gs)
}

func writeGrievances(w http.ResponseWriter, gs []domain.Grievance) {
	out := make([]Grievance, 0, len(gs))
	for _, g := range gs {
		out = append(out, grievanceFromDomain(g))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getGrievance(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	g, err := s.Grievances.Get(r.Context(), p.Caller(), domain.GrievanceID(chi.URLParam(r, "id")))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, grievanceFromDomain(g))
}

func (s *Server) updateGrievanceStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var body GrievanceStatusRequest
	if !decodeBody(w, r, &body) {
		return
	}
	g, err := s.Grievances.UpdateStatus(r.Context(), p.Caller(), domain.GrievanceID(chi.URLParam(r, "id")), body.Status)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, grievanceFromDomain(g))
}

func (s *Server) postListing(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var body PostListingRequest
	if !decodeBody(w, r, &body) {
		return
	}
	l, err := s.Marketplace.Post(r.Context(), p.Caller(), marketplace.PostInput{
		Title:       body.Title,
		Description: body.Description,
		Category:    body.Category,
		Type:        body.Type,
		Location:    body.Location,
		Price:       body.Price,
		ContactInfo: body.ContactInfo,
		Images:      body.Images,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, listingFromDomain(l))
}

func (s *Server) listListings(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	c, ok := s.criteria(w, r)
	if !ok {
		return
	}
	ls, err := s.Marketplace.List(r.Context(), p.Caller(), c)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	out := make([]Listing, 0, len(ls))
	for _, l := range ls {
		out = append(out, listingFromDomain(l))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) deleteListing(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	if err := s.Marketplace.Delete(r.Context(), p.Caller(), domain.ListingID(chi.URLParam(r, "id"))); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addContact(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var body AddContactRequest
	if !decodeBody(w, r, &body) {
		return
	}
	c, err := s.Contacts.Add(r.Context(), p.Caller(), contacts.AddInput{
		Name:         body.Name,
		Department:   body.Department,
		Relationship: body.Relationship,
		Phone:        body.Phone,
		Location:     body.Location,
		Availability: body.Availability,
		Category:     body.Category,
		Priority:     body.Priority,
		Shared:       body.Shared,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, contactFromDomain(c))
}

func (s *Server) listContacts(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	c, ok := s.criteria(w, r)
	if !ok {
		return
	}
	cs, err := s.Contacts.List(r.Context(), p.Caller(), c)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeContacts(w, cs)
}

func (s *Server) listUserContacts(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	cs, err := s.Contacts.ListForUser(r.Context(), p.Caller(), domain.UserID(chi.URLParam(r, "userId")))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeContacts(w, cs)
}

func writeContacts(w http.ResponseWriter, cs []domain.EmergencyContact) {
	out := make([]Contact, 0, len(cs))
	for _, c := range cs {
		out = append(out, contactFromDomain(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) deleteContact(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	if err := s.Contacts.Delete(r.Context(), p.Caller(), domain.ContactID(chi.URLParam(r, "id"))); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
