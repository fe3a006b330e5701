package httpapi

import (
	"time"

	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/armywelfare/welfare-api/internal/app/accounts"
	"github.com/armywelfare/welfare-api/internal/app/dashboard"
	"github.com/armywelfare/welfare-api/internal/app/schemes"
	"github.com/armywelfare/welfare-api/internal/assistant"
	"github.com/armywelfare/welfare-api/internal/domain"
)

// Eligibility is the wire form of an eligibility rule. A null list imposes
// no constraint; an empty list admits nobody.
type Eligibility struct {
	MinAge          *int     `json:"minAge"`
	MaxAge          *int     `json:"maxAge"`
	MinServiceYears *int     `json:"minServiceYears"`
	Ranks           []string `json:"ranks"`
	Status          []string `json:"status"`
	Gender          []string `json:"gender"`
	Specializations []string `json:"specializations"`
	Batch           []string `json:"batch"`
}

type Scheme struct {
	ID                 string                                `json:"id"`
	Title              string                                `json:"title"`
	Description        string                                `json:"description"`
	Category           string                                `json:"category"`
	Eligibility        Eligibility                           `json:"eligibility"`
	Amount             string                                `json:"amount"`
	Benefits           string                                `json:"benefits,omitempty"`
	ApplicationProcess string                                `json:"applicationProcess,omitempty"`
	Deadline           nullable.Nullable[openapi_types.Date] `json:"deadline,omitempty"`
	Status             string                                `json:"status"`
	Applicants         int                                   `json:"applicants"`
	MaxApplicants      int                                   `json:"maxApplicants"`
	CreatedAt          time.Time                             `json:"createdAt"`
	UpdatedAt          time.Time                             `json:"updatedAt"`
}

type CreateSchemeRequest struct {
	Title              string              `json:"title"`
	Description        string              `json:"description"`
	Category           string              `json:"category"`
	Eligibility        Eligibility         `json:"eligibility"`
	Amount             string              `json:"amount"`
	Benefits           string              `json:"benefits"`
	ApplicationProcess string              `json:"applicationProcess"`
	Deadline           *openapi_types.Date `json:"deadline"`
	Status             string              `json:"status"`
	Applicants         int                 `json:"applicants"`
	MaxApplicants      int                 `json:"maxApplicants"`
}

// UpdateSchemeRequest is a merge patch: omitted fields are left alone and
// null clears a field where that is allowed.
type UpdateSchemeRequest struct {
	Title              nullable.Nullable[string]             `json:"title,omitempty"`
	Description        nullable.Nullable[string]             `json:"description,omitempty"`
	Category           nullable.Nullable[string]             `json:"category,omitempty"`
	Eligibility        nullable.Nullable[Eligibility]        `json:"eligibility,omitempty"`
	Amount             nullable.Nullable[string]             `json:"amount,omitempty"`
	Benefits           nullable.Nullable[string]             `json:"benefits,omitempty"`
	ApplicationProcess nullable.Nullable[string]             `json:"applicationProcess,omitempty"`
	Deadline           nullable.Nullable[openapi_types.Date] `json:"deadline,omitempty"`
	Status             nullable.Nullable[string]             `json:"status,omitempty"`
	Applicants         nullable.Nullable[int]                `json:"applicants,omitempty"`
	MaxApplicants      nullable.Nullable[int]                `json:"maxApplicants,omitempty"`
}

// Profile is the wire form of a service profile.
type Profile struct {
	Rank           string `json:"rank"`
	Age            int    `json:"age"`
	Gender         string `json:"gender"`
	ServiceYears   int    `json:"serviceYears"`
	Status         string `json:"status"`
	Specialization string `json:"specialization"`
	Batch          string `json:"batch"`
	FamilySize     int    `json:"familySize,omitempty"`
	CurrentPosting string `json:"currentPosting,omitempty"`
}

type EligibleRequest struct {
	Profile *Profile `json:"profile"`
}

type EligibleMatch struct {
	Scheme   Scheme   `json:"scheme"`
	Criteria []string `json:"criteria"`
}

type EligibleResponse struct {
	Evaluator string          `json:"evaluator"`
	Schemes   []EligibleMatch `json:"schemes"`
}

// RosterRequest keeps age as a pointer so a missing age differs from zero.
type RosterRequest struct {
	Age    *int   `json:"age"`
	Status string `json:"status"`
	Rank   string `json:"rank"`
}

type SchemeSummary struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type ChatRequest struct {
	Message         string          `json:"message"`
	UserProfile     *Profile        `json:"userProfile"`
	EligibleSchemes []SchemeSummary `json:"eligibleSchemes"`
}

type ChatResponse struct {
	Response string `json:"response"`
	Status   string `json:"status"`
	Source   string `json:"source,omitempty"`
}

type ProbeResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Response string `json:"response"`
}

type RegisterRequest struct {
	Email       openapi_types.Email `json:"email"`
	Password    string              `json:"password"`
	DisplayName string              `json:"displayName"`
	Role        string              `json:"role"`
	Profile     *Profile            `json:"profile"`
}

type LoginRequest struct {
	Email    openapi_types.Email `json:"email"`
	Password string              `json:"password"`
}

type User struct {
	ID          string              `json:"id"`
	Email       openapi_types.Email `json:"email"`
	DisplayName string              `json:"displayName"`
	Role        string              `json:"role"`
	Profile     *Profile            `json:"profile,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
}

type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

type Grievance struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type SubmitGrievanceRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
}

type GrievanceStatusRequest struct {
	Status string `json:"status"`
}

type Listing struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Type        string    `json:"type"`
	Location    string    `json:"location"`
	Price       *string   `json:"price,omitempty"`
	ContactInfo string    `json:"contactInfo"`
	Images      []string  `json:"images"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

type PostListingRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Type        string   `json:"type"`
	Location    string   `json:"location"`
	Price       *string  `json:"price"`
	ContactInfo string   `json:"contactInfo"`
	Images      []string `json:"images"`
}

type Contact struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId,omitempty"`
	Name         string    `json:"name"`
	Department   string    `json:"department,omitempty"`
	Relationship string    `json:"relationship,omitempty"`
	Phone        string    `json:"phone"`
	Location     string    `json:"location,omitempty"`
	Availability string    `json:"availability"`
	Category     string    `json:"category"`
	Priority     string    `json:"priority"`
	Shared       bool      `json:"shared"`
	CreatedAt    time.Time `json:"createdAt"`
}

type AddContactRequest struct {
	Name         string `json:"name"`
	Department   string `json:"department"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
	Location     string `json:"location"`
	Availability string `json:"availability"`
	Category     string `json:"category"`
	Priority     string `json:"priority"`
	Shared       bool   `json:"shared"`
}

type Stat struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

type QuickAction struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Href        string `json:"href"`
}

type DashboardResponse struct {
	Role         string        `json:"role"`
	Stats        []Stat        `json:"stats"`
	QuickActions []QuickAction `json:"quickActions"`
}

func eligibilityFromDomain(r domain.EligibilityRule) Eligibility {
	out := Eligibility{
		MinAge:          r.MinAge,
		MaxAge:          r.MaxAge,
		MinServiceYears: r.MinServiceYears,
		Ranks:           r.Ranks,
		Gender:          r.Genders,
		Specializations: r.Specializations,
		Batch:           r.Batches,
	}
	if r.Statuses != nil {
		out.Status = make([]string, len(r.Statuses))
		for i, s := range r.Statuses {
			out.Status[i] = string(s)
		}
	}
	return out
}

func (e Eligibility) toInput() schemes.RuleInput {
	return schemes.RuleInput{
		MinAge:          e.MinAge,
		MaxAge:          e.MaxAge,
		MinServiceYears: e.MinServiceYears,
		Ranks:           e.Ranks,
		Statuses:        e.Status,
		Genders:         e.Gender,
		Specializations: e.Specializations,
		Batches:         e.Batch,
	}
}

func schemeFromDomain(s domain.Scheme) Scheme {
	out := Scheme{
		ID:                 string(s.ID),
		Title:              s.Title,
		Description:        s.Description,
		Category:           s.Category,
		Eligibility:        eligibilityFromDomain(s.Eligibility),
		Amount:             s.Amount,
		Benefits:           s.Benefits,
		ApplicationProcess: s.ApplicationProcess,
		Deadline:           nullableDate(s.Deadline),
		Status:             string(s.Status),
		Applicants:         s.Applicants,
		MaxApplicants:      s.MaxApplicants,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
	return out
}

func schemesFromDomain(ss []domain.Scheme) []Scheme {
	out := make([]Scheme, 0, len(ss))
	for _, s := range ss {
		out = append(out, schemeFromDomain(s))
	}
	return out
}

func nullableDate(p *time.Time) nullable.Nullable[openapi_types.Date] {
	var out nullable.Nullable[openapi_types.Date]
	if p != nil {
		out.Set(openapi_types.Date{Time: p.UTC()})
	}
	return out
}

func (b CreateSchemeRequest) toInput() schemes.CreateSchemeInput {
	in := schemes.CreateSchemeInput{
		Title:              b.Title,
		Description:        b.Description,
		Category:           b.Category,
		Eligibility:        b.Eligibility.toInput(),
		Amount:             b.Amount,
		Benefits:           b.Benefits,
		ApplicationProcess: b.ApplicationProcess,
		Status:             b.Status,
		Applicants:         b.Applicants,
		MaxApplicants:      b.MaxApplicants,
	}
	if b.Deadline != nil {
		d := b.Deadline.Time
		in.Deadline = &d
	}
	return in
}

func (b UpdateSchemeRequest) toInput() schemes.UpdateSchemeInput {
	in := schemes.UpdateSchemeInput{
		Title:              optional(b.Title),
		Description:        optional(b.Description),
		Category:           optional(b.Category),
		Amount:             optional(b.Amount),
		Benefits:           optional(b.Benefits),
		ApplicationProcess: optional(b.ApplicationProcess),
		Status:             optional(b.Status),
		Applicants:         optional(b.Applicants),
		MaxApplicants:      optional(b.MaxApplicants),
	}
	if e := optional(b.Eligibility); e.IsSpecified() && !e.IsNull() {
		in.Eligibility = schemes.Some(e.Value().toInput())
	} else if e.IsNull() {
		in.Eligibility = schemes.Null[schemes.RuleInput]()
	}
	if d := optional(b.Deadline); d.IsSpecified() && !d.IsNull() {
		in.Deadline = schemes.Some(d.Value().Time)
	} else if d.IsNull() {
		in.Deadline = schemes.Null[time.Time]()
	}
	return in
}

func optional[T any](n nullable.Nullable[T]) schemes.Optional[T] {
	if !n.IsSpecified() {
		return schemes.Unspecified[T]()
	}
	if n.IsNull() {
		return schemes.Null[T]()
	}
	v, err := n.Get()
	if err != nil {
		return schemes.Unspecified[T]()
	}
	return schemes.Some(v)
}

func (p Profile) toInput() accounts.ProfileInput {
	return accounts.ProfileInput{
		Rank:           p.Rank,
		Age:            p.Age,
		Gender:         p.Gender,
		ServiceYears:   p.ServiceYears,
		Status:         p.Status,
		Specialization: p.Specialization,
		Batch:          p.Batch,
		FamilySize:     p.FamilySize,
		CurrentPosting: p.CurrentPosting,
	}
}

// toLenient maps a chat profile without validation. Chat only reads the
// profile for display, so an unknown status is passed through.
func (p Profile) toLenient() domain.Profile {
	st, ok := domain.ParseServiceStatus(p.Status)
	if !ok {
		st = domain.ServiceStatus(p.Status)
	}
	return domain.Profile{
		Rank:           p.Rank,
		Age:            p.Age,
		Gender:         p.Gender,
		ServiceYears:   p.ServiceYears,
		Status:         st,
		Specialization: p.Specialization,
		Batch:          p.Batch,
		FamilySize:     p.FamilySize,
		CurrentPosting: p.CurrentPosting,
	}
}

func profileFromDomain(p *domain.Profile) *Profile {
	if p == nil {
		return nil
	}
	return &Profile{
		Rank:           p.Rank,
		Age:            p.Age,
		Gender:         p.Gender,
		ServiceYears:   p.ServiceYears,
		Status:         string(p.Status),
		Specialization: p.Specialization,
		Batch:          p.Batch,
		FamilySize:     p.FamilySize,
		CurrentPosting: p.CurrentPosting,
	}
}

func summariesToAssistant(in []SchemeSummary) []assistant.SchemeSummary {
	if in == nil {
		return nil
	}
	out := make([]assistant.SchemeSummary, len(in))
	for i, s := range in {
		out[i] = assistant.SchemeSummary{Title: s.Title, Description: s.Description, Category: s.Category}
	}
	return out
}

func userFromDomain(u domain.User) User {
	return User{
		ID:          string(u.ID),
		Email:       openapi_types.Email(u.Email),
		DisplayName: u.DisplayName,
		Role:        u.Role.String(),
		Profile:     profileFromDomain(u.Profile),
		CreatedAt:   u.CreatedAt,
	}
}

func sessionFromApp(s accounts.Session) SessionResponse {
	return SessionResponse{Token: s.Token, ExpiresAt: s.ExpiresAt, User: userFromDomain(s.User)}
}

func grievanceFromDomain(g domain.Grievance) Grievance {
	return Grievance{
		ID:          string(g.ID),
		UserID:      string(g.OwnerID),
		Title:       g.Title,
		Description: g.Description,
		Category:    g.Category,
		Priority:    string(g.Priority),
		Status:      string(g.Status),
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func listingFromDomain(l domain.Listing) Listing {
	images := l.Images
	if images == nil {
		images = []string{}
	}
	return Listing{
		ID:          string(l.ID),
		UserID:      string(l.OwnerID),
		UserName:    l.OwnerName,
		Title:       l.Title,
		Description: l.Description,
		Category:    l.Category,
		Type:        string(l.Type),
		Location:    l.Location,
		Price:       l.Price,
		ContactInfo: l.ContactInfo,
		Images:      images,
		Status:      string(l.Status),
		CreatedAt:   l.CreatedAt,
	}
}

func contactFromDomain(c domain.EmergencyContact) Contact {
	return Contact{
		ID:           string(c.ID),
		UserID:       string(c.OwnerID),
		Name:         c.Name,
		Department:   c.Department,
		Relationship: c.Relationship,
		Phone:        c.Phone,
		Location:     c.Location,
		Availability: string(c.Availability),
		Category:     c.Category,
		Priority:     string(c.Priority),
		Shared:       c.Shared(),
		CreatedAt:    c.CreatedAt,
	}
}

func dashboardFromApp(d dashboard.Dashboard) DashboardResponse {
	out := DashboardResponse{
		Role:         d.Role.String(),
		Stats:        make([]Stat, len(d.Stats)),
		QuickActions: make([]QuickAction, len(d.QuickActions)),
	}
	for i, s := range d.Stats {
		out.Stats[i] = Stat{Label: s.Label, Value: s.Value}
	}
	for i, a := range d.QuickActions {
		out.QuickActions[i] = QuickAction{Title: a.Title, Description: a.Description, Href: a.Href}
	}
	return out
}
