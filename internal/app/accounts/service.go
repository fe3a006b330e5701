// Package accounts registers users, signs them in and maintains their
// stored service profile.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/armywelfare/welfare-api/internal/domain"
	"github.com/armywelfare/welfare-api/internal/platform/auth/password"
	"github.com/armywelfare/welfare-api/internal/platform/auth/token"
	clockport "github.com/armywelfare/welfare-api/internal/ports/out/clock"
	"github.com/armywelfare/welfare-api/internal/ports/out/userrepo"
)

const (
	MinPasswordLength = 8

	// DefaultTokenDuration matches the seven day session of the mobile client.
	DefaultTokenDuration = 7 * 24 * time.Hour
)

type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, encoded string) error
}

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
	// Role defaults to personnel. Admin accounts cannot self-register.
	Role    string
	Profile *ProfileInput
}

type ProfileInput struct {
	Rank           string
	Age            int
	Gender         string
	ServiceYears   int
	Status         string
	Specialization string
	Batch          string
	FamilySize     int
	CurrentPosting string
}

// Session is the result of a successful register or login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      domain.User
}

type Service struct {
	users  userrepo.Repository
	hasher Hasher
	tokens token.Maker
	clk    clockport.Clock

	tokenDuration time.Duration
	newUserID     func() domain.UserID
}

func NewService(users userrepo.Repository, hasher Hasher, tokens token.Maker, clk clockport.Clock, tokenDuration time.Duration) *Service {
	if tokenDuration <= 0 {
		tokenDuration = DefaultTokenDuration
	}
	return &Service{
		users:         users,
		hasher:        hasher,
		tokens:        tokens,
		clk:           clk,
		tokenDuration: tokenDuration,
		newUserID: func() domain.UserID {
			return domain.UserID(uuid.NewString())
		},
	}
}

// SetNewUserIDForTest overrides ID generation for deterministic tests.
func (s *Service) SetNewUserIDForTest(fn func() domain.UserID) {
	if fn != nil {
		s.newUserID = fn
	}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	role := domain.RolePersonnel
	if strings.TrimSpace(in.Role) != "" {
		r, err := domain.ParseRole(in.Role)
		if err != nil {
			return Session{}, validation("invalid role", "role", "must be one of personnel, officer")
		}
		role = r
	}
	if role == domain.RoleAdmin {
		return Session{}, &Error{Status: 403, Code: "FORBIDDEN", Message: "admin accounts cannot self-register"}
	}
	return s.create(ctx, in, role)
}

// EnsureAdmin creates an admin account for email unless a user with that
// email already exists. It reports whether an account was created.
func (s *Service) EnsureAdmin(ctx context.Context, email, plain string) (bool, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, userrepo.ErrNotFound) {
		return false, err
	}
	_, err := s.create(ctx, RegisterInput{Email: email, Password: plain, DisplayName: "Administrator"}, domain.RoleAdmin)
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) create(ctx context.Context, in RegisterInput, role domain.Role) (Session, error) {
	email, verr := parseEmail(in.Email)
	if verr != nil {
		return Session{}, verr
	}
	if len(in.Password) < MinPasswordLength {
		return Session{}, validation("invalid password", "password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
	name := domain.NormalizeHumanName(in.DisplayName)
	if name == "" {
		name = email[:strings.IndexByte(email, '@')]
	}

	var profile *domain.Profile
	if in.Profile != nil {
		p, err := ParseProfile(*in.Profile)
		if err != nil {
			return Session{}, err
		}
		profile = &p
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	u := domain.User{
		ID:           s.newUserID(),
		Email:        email,
		DisplayName:  name,
		PasswordHash: hash,
		Role:         role,
		Profile:      profile,
		CreatedAt:    s.clk.Now(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, userrepo.ErrAlreadyExists) {
			return Session{}, &Error{Status: 400, Code: "USER_EXISTS", Message: "User already exists"}
		}
		return Session{}, err
	}
	return s.issue(u)
}

// Login verifies the credentials. Unknown email and wrong password are
// reported identically.
func (s *Service) Login(ctx context.Context, email, plain string) (Session, error) {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return Session{}, invalidCredentials()
		}
		return Session{}, err
	}
	if err := s.hasher.Verify(plain, u.PasswordHash); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return Session{}, invalidCredentials()
		}
		return Session{}, fmt.Errorf("verify password for %s: %w", u.ID, err)
	}
	return s.issue(u)
}

func (s *Service) issue(u domain.User) (Session, error) {
	tok, payload, err := s.tokens.CreateToken(u.ID, u.Role, s.tokenDuration)
	if err != nil {
		return Session{}, fmt.Errorf("create token: %w", err)
	}
	return Session{Token: tok, ExpiresAt: payload.ExpiredAt, User: u}, nil
}

func (s *Service) Me(ctx context.Context, caller domain.Caller) (domain.User, error) {
	u, err := s.users.GetByID(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return domain.User{}, userNotFound()
		}
		return domain.User{}, err
	}
	return u, nil
}

// Profile returns the caller's stored service profile.
func (s *Service) Profile(ctx context.Context, caller domain.Caller) (domain.Profile, error) {
	u, err := s.Me(ctx, caller)
	if err != nil {
		return domain.Profile{}, err
	}
	if u.Profile == nil {
		return domain.Profile{}, &Error{Status: 422, Code: "PROFILE_REQUIRED", Message: "no service profile on record"}
	}
	return *u.Profile, nil
}

func (s *Service) UpdateProfile(ctx context.Context, caller domain.Caller, in ProfileInput) (domain.User, error) {
	p, err := ParseProfile(in)
	if err != nil {
		return domain.User{}, err
	}
	u, err := s.Me(ctx, caller)
	if err != nil {
		return domain.User{}, err
	}
	u.Profile = &p
	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return domain.User{}, userNotFound()
		}
		return domain.User{}, err
	}
	return u, nil
}

// ParseProfile validates a service profile. The status accepts both the
// canonical and the roster vocabulary.
func ParseProfile(in ProfileInput) (domain.Profile, error) {
	status, ok := domain.ParseServiceStatus(in.Status)
	if !ok {
		return domain.Profile{}, validation("invalid status", "status", "must be one of active, retired, family")
	}
	switch {
	case in.Age < 0:
		return domain.Profile{}, validation("invalid age", "age", "must be >= 0")
	case in.ServiceYears < 0:
		return domain.Profile{}, validation("invalid serviceYears", "serviceYears", "must be >= 0")
	case in.FamilySize < 0:
		return domain.Profile{}, validation("invalid familySize", "familySize", "must be >= 0")
	}
	return domain.Profile{
		Rank:           strings.TrimSpace(in.Rank),
		Age:            in.Age,
		Gender:         strings.ToLower(strings.TrimSpace(in.Gender)),
		ServiceYears:   in.ServiceYears,
		Status:         status,
		Specialization: strings.TrimSpace(in.Specialization),
		Batch:          strings.TrimSpace(in.Batch),
		FamilySize:     in.FamilySize,
		CurrentPosting: strings.TrimSpace(in.CurrentPosting),
	}, nil
}

func parseEmail(raw string) (string, *Error) {
	email := strings.TrimSpace(raw)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", validation("invalid email", "email", "must be a valid address")
	}
	return email, nil
}
