package httpapi

import (
	"context"

	"github.com/armywelfare/welfare-api/internal/domain"
)

// Principal is the authenticated caller attached to a request.
type Principal struct {
	UserID domain.UserID
	Role   domain.Role
}

func (p Principal) Caller() domain.Caller {
	return domain.Caller{ID: p.UserID, Role: p.Role}
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok && p.UserID != "" && p.Role.Valid()
}
