// Package token issues and verifies HS256 access tokens.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/armywelfare/welfare-api/internal/domain"
)

// MinSecretKeySize is the shortest symmetric key accepted.
const MinSecretKeySize = 32

var (
	ErrInvalidToken = errors.New("token is invalid")
	ErrExpiredToken = errors.New("token has expired")
)

type Maker interface {
	CreateToken(userID domain.UserID, role domain.Role, duration time.Duration) (string, *Payload, error)
	VerifyToken(token string) (*Payload, error)
}

type JWTMaker struct {
	secretKey []byte
	now       func() time.Time
}

func NewJWTMaker(secretKey string) (*JWTMaker, error) {
	if len(secretKey) < MinSecretKeySize {
		return nil, fmt.Errorf("invalid key size: must be at least %d characters", MinSecretKeySize)
	}
	return &JWTMaker{secretKey: []byte(secretKey), now: time.Now}, nil
}

// SetNowForTest overrides the issue time of new tokens.
func (m *JWTMaker) SetNowForTest(fn func() time.Time) {
	if fn != nil {
		m.now = fn
	}
}

func (m *JWTMaker) CreateToken(userID domain.UserID, role domain.Role, duration time.Duration) (string, *Payload, error) {
	payload, err := newPayload(userID, role, m.now().UTC(), duration)
	if err != nil {
		return "", nil, err
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, payload).SignedString(m.secretKey)
	if err != nil {
		return "", nil, err
	}
	return signed, payload, nil
}

func (m *JWTMaker) VerifyToken(token string) (*Payload, error) {
	keyFunc := func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secretKey, nil
	}

	parsed, err := jwt.ParseWithClaims(token, &Payload{}, keyFunc)
	if err != nil {
		var verr *jwt.ValidationError
		if errors.As(err, &verr) && errors.Is(verr.Inner, ErrExpiredToken) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	payload, ok := parsed.Claims.(*Payload)
	if !ok {
		return nil, ErrInvalidToken
	}
	return payload, nil
}
