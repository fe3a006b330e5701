// Package grievances handles submission, review and listing of grievances.
// Officers and admins review every grievance; personnel only see their own.
package grievances

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/armywelfare/welfare-api/internal/domain"
	clockport "github.com/armywelfare/welfare-api/internal/ports/out/clock"
	"github.com/armywelfare/welfare-api/internal/ports/out/grievancerepo"
	"github.com/armywelfare/welfare-api/internal/search"
)

type SubmitInput struct {
	Title       string
	Description string
	Category    string
	// Priority defaults to medium when empty.
	Priority string
}

type Service struct {
	repo grievancerepo.Repository
	clk  clockport.Clock

	newGrievanceID func() domain.GrievanceID
}

func NewService(repo grievancerepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		repo: repo,
		clk:  clk,
		newGrievanceID: func() domain.GrievanceID {
			return domain.GrievanceID(uuid.NewString())
		},
	}
}

// SetNewGrievanceIDForTest overrides ID generation for deterministic tests.
func (s *Service) SetNewGrievanceIDForTest(fn func() domain.GrievanceID) {
	if fn != nil {
		s.newGrievanceID = fn
	}
}

func (s *Service) Submit(ctx context.Context, caller domain.Caller, in SubmitInput) (domain.Grievance, error) {
	title := domain.NormalizeHumanName(in.Title)
	if title == "" {
		return domain.Grievance{}, &Error{Status: 422, Code: "VALIDATION_ERROR", Message: "invalid title", Details: map[string]any{"title": "must be non-empty"}}
	}
	if domain.NormalizeHumanName(in.Description) == "" {
		return domain.Grievance{}, &Error{Status: 422, Code: "VALIDATION_ERROR", Message: "invalid description", Details: map[string]any{"description": "must be non-empty"}}
	}
	prio := domain.PriorityMedium
	if in.Priority != "" {
		prio = domain.Priority(domain.NormalizeTag(in.Priority))
		if !prio.Valid() {
			return domain.Grievance{}, &Error{Status: 422, Code: "VALIDATION_ERROR", Message: "invalid priority", Details: map[string]any{"priority": "must be one of high, medium, low"}}
		}
	}
	category := domain.NormalizeTag(in.Category)
	if category == "" {
		category = domain.CategoryOther
	}

	now := s.clk.Now()
	g := domain.Grievance{
		ID:          s.newGrievanceID(),
		OwnerID:     caller.ID,
		Title:       title,
		Description: in.Description,
		Category:    category,
		Priority:    prio,
		Status:      domain.GrievanceStatusSubmitted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, g); err != nil {
		if errors.Is(err, grievancerepo.ErrAlreadyExists) {
			return domain.Grievance{}, &Error{Status: 409, Code: "GRIEVANCE_ID_CONFLICT", Message: "grievance id conflict"}
		}
		return domain.Grievance{}, err
	}
	return g, nil
}

// List returns the grievances visible to caller that match c, newest first.
func (s *Service) List(ctx context.Context, caller domain.Caller, c search.Criteria) ([]domain.Grievance, error) {
	var (
		gs  []domain.Grievance
		err error
	)
	if caller.Role.CanReviewGrievances() {
		gs, err = s.repo.List(ctx)
	} else {
		gs, err = s.repo.ListByOwner(ctx, caller.ID)
	}
	if err != nil {
		return nil, err
	}
	return search.Filter(gs, c, search.GrievanceFields), nil
}

// ListForUser returns owner's grievances. Personnel may only ask for their own.
func (s *Service) ListForUser(ctx context.Context, caller domain.Caller, owner domain.UserID) ([]domain.Grievance, error) {
	if owner != caller.ID && !caller.Role.CanReviewGrievances() {
		return nil, &Error{Status: 403, Code: "FORBIDDEN", Message: "cannot view another user's grievances"}
	}
	return s.repo.ListByOwner(ctx, owner)
}

func (s *Service) Get(ctx context.Context, caller domain.Caller, id domain.GrievanceID) (domain.Grievance, error) {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, grievancerepo.ErrNotFound) {
			return domain.Grievance{}, notFound()
		}
		return domain.Grievance{}, err
	}
	// Other users' grievances are reported as missing.
	if g.OwnerID != caller.ID && !caller.Role.CanReviewGrievances() {
		return domain.Grievance{}, notFound()
	}
	return g, nil
}

// UpdateStatus moves a grievance through submitted, under-review and resolved.
// Any transition between the three is allowed.
func (s *Service) UpdateStatus(ctx context.Context, caller domain.Caller, id domain.GrievanceID, status string) (domain.Grievance, error) {
	if !caller.Role.CanReviewGrievances() {
		return domain.Grievance{}, &Error{Status: 403, Code: "FORBIDDEN", Message: "only officers and admins can update grievance status"}
	}
	st := domain.GrievanceStatus(domain.NormalizeTag(status))
	if !st.Valid() {
		return domain.Grievance{}, &Error{Status: 422, Code: "VALIDATION_ERROR", Message: "invalid status", Details: map[string]any{"status": "must be one of submitted, under-review, resolved"}}
	}
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, grievancerepo.ErrNotFound) {
			return domain.Grievance{}, notFound()
		}
		return domain.Grievance{}, err
	}
	g.Status = st
	g.UpdatedAt = s.clk.Now()
	if err := s.repo.Update(ctx, g); err != nil {
		if errors.Is(err, grievancerepo.ErrNotFound) {
			return domain.Grievance{}, notFound()
		}
		return domain.Grievance{}, err
	}
	return g, nil
}

func notFound() *Error {
	return &Error{Status: 404, Code: "GRIEVANCE_NOT_FOUND", Message: "grievance not found"}
}
