package token

import (
	"time"

	"github.com/google/uuid"

	"github.com/armywelfare/welfare-api/internal/domain"
)

// Payload is the claim set carried by an access token.
type Payload struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiredAt time.Time `json:"expired_at"`
}

func newPayload(userID domain.UserID, role domain.Role, now time.Time, duration time.Duration) (*Payload, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}
	return &Payload{
		ID:        id,
		UserID:    string(userID),
		Role:      role.String(),
		IssuedAt:  now,
		ExpiredAt: now.Add(duration),
	}, nil
}

// Valid implements jwt.Claims.
func (p *Payload) Valid() error {
	if time.Now().After(p.ExpiredAt) {
		return ErrExpiredToken
	}
	return nil
}

// Caller converts the payload to the identity services act for.
func (p *Payload) Caller() (domain.Caller, error) {
	role, err := domain.ParseRole(p.Role)
	if err != nil {
		return domain.Caller{}, ErrInvalidToken
	}
	if p.UserID == "" {
		return domain.Caller{}, ErrInvalidToken
	}
	return domain.Caller{ID: domain.UserID(p.UserID), Role: role}, nil
}
