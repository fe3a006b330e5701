package accounts_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	memclock "github.com/armywelfare/welfare-api/internal/adapters/memory/clock"
	memuserrepo "github.com/armywelfare/welfare-api/internal/adapters/memory/userrepo"
	"github.com/armywelfare/welfare-api/internal/app/accounts"
	"github.com/armywelfare/welfare-api/internal/domain"
	"github.com/armywelfare/welfare-api/internal/platform/auth/password"
	"github.com/armywelfare/welfare-api/internal/platform/auth/token"
)

const testKey = "0123456789abcdef0123456789abcdef"

func newService(t *testing.T) (*accounts.Service, *token.JWTMaker) {
	t.Helper()
	maker, err := token.NewJWTMaker(testKey)
	if err != nil {
		t.Fatalf("NewJWTMaker: %v", err)
	}
	hasher := password.NewHasher(password.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	clk := memclock.NewManualClock(time.Unix(1000, 0).UTC())
	svc := accounts.NewService(memuserrepo.NewRepo(), hasher, maker, clk, 0)
	n := 0
	svc.SetNewUserIDForTest(func() domain.UserID {
		n++
		return domain.UserID(fmt.Sprintf("u%d", n))
	})
	return svc, maker
}

func wantError(t *testing.T, err error, status int, code string) *accounts.Error {
	t.Helper()
	var ae *accounts.Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected *accounts.Error, got %T: %v", err, err)
	}
	if ae.Status != status || ae.Code != code {
		t.Fatalf("got %d %s, want %d %s", ae.Status, ae.Code, status, code)
	}
	return ae
}

func TestService_RegisterAndLogin(t *testing.T) {
	t.Parallel()

	svc, maker := newService(t)
	ctx := context.Background()

	sess, err := svc.Register(ctx, accounts.RegisterInput{Email: " rk.singh@army.example ", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if sess.User.ID != "u1" || sess.User.Role != domain.RolePersonnel || sess.User.DisplayName != "rk.singh" {
		t.Fatalf("user=%+v", sess.User)
	}
	if sess.User.PasswordHash == "correct-horse" || sess.User.PasswordHash == "" {
		t.Fatalf("password not hashed: %q", sess.User.PasswordHash)
	}
	payload, err := maker.VerifyToken(sess.Token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if payload.UserID != "u1" || payload.Role != "personnel" {
		t.Fatalf("payload=%+v", payload)
	}
	if got := sess.ExpiresAt.Sub(payload.IssuedAt); got != accounts.DefaultTokenDuration {
		t.Fatalf("token lifetime=%v", got)
	}

	if _, err := svc.Login(ctx, "RK.Singh@army.example", "correct-horse"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	_, err = svc.Login(ctx, "rk.singh@army.example", "wrong-password")
	wantError(t, err, 400, "INVALID_CREDENTIALS")
	_, err = svc.Login(ctx, "nobody@army.example", "correct-horse")
	wantError(t, err, 400, "INVALID_CREDENTIALS")
}

func TestService_Register_Validation(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, accounts.RegisterInput{Email: "a@x.example", Password: "longenough", Role: "officer"}); err != nil {
		t.Fatalf("Register officer: %v", err)
	}
	_, err := svc.Register(ctx, accounts.RegisterInput{Email: "A@X.example", Password: "longenough"})
	wantError(t, err, 400, "USER_EXISTS")

	_, err = svc.Register(ctx, accounts.RegisterInput{Email: "b@x.example", Password: "longenough", Role: "admin"})
	wantError(t, err, 403, "FORBIDDEN")

	_, err = svc.Register(ctx, accounts.RegisterInput{Email: "b@x.example", Password: "longenough", Role: "general"})
	wantError(t, err, 422, "VALIDATION_ERROR")

	_, err = svc.Register(ctx, accounts.RegisterInput{Email: "not-an-email", Password: "longenough"})
	if ae := wantError(t, err, 422, "VALIDATION_ERROR"); ae.Details["email"] == nil {
		t.Fatalf("details=%v", ae.Details)
	}

	_, err = svc.Register(ctx, accounts.RegisterInput{Email: "b@x.example", Password: "short"})
	if ae := wantError(t, err, 422, "VALIDATION_ERROR"); ae.Details["password"] == nil {
		t.Fatalf("details=%v", ae.Details)
	}
}

func TestService_EnsureAdmin(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.EnsureAdmin(ctx, "admin@army.example", "bootstrap-pass")
	if err != nil || !created {
		t.Fatalf("EnsureAdmin created=%v err=%v", created, err)
	}
	created, err = svc.EnsureAdmin(ctx, "admin@army.example", "bootstrap-pass")
	if err != nil || created {
		t.Fatalf("second EnsureAdmin created=%v err=%v", created, err)
	}
	sess, err := svc.Login(ctx, "admin@army.example", "bootstrap-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess.User.Role != domain.RoleAdmin {
		t.Fatalf("role=%v", sess.User.Role)
	}
}

func TestService_Profile(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	ctx := context.Background()

	sess, err := svc.Register(ctx, accounts.RegisterInput{Email: "c@x.example", Password: "longenough"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	caller := domain.Caller{ID: sess.User.ID, Role: sess.User.Role}

	_, err = svc.Profile(ctx, caller)
	wantError(t, err, 422, "PROFILE_REQUIRED")

	_, err = svc.UpdateProfile(ctx, caller, accounts.ProfileInput{Rank: "Captain", Age: 30, Status: "unknown"})
	wantError(t, err, 422, "VALIDATION_ERROR")

	u, err := svc.UpdateProfile(ctx, caller, accounts.ProfileInput{Rank: "Captain", Age: 45, Gender: "Male", ServiceYears: 20, Status: "ex-serviceman"})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if u.Profile == nil || u.Profile.Status != domain.ServiceStatusRetired || u.Profile.Gender != "male" {
		t.Fatalf("profile=%+v", u.Profile)
	}

	p, err := svc.Profile(ctx, caller)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if p.Rank != "Captain" || p.Age != 45 || p.ServiceYears != 20 {
		t.Fatalf("profile=%+v", p)
	}

	_, err = svc.Me(ctx, domain.Caller{ID: "ghost", Role: domain.RolePersonnel})
	wantError(t, err, 404, "USER_NOT_FOUND")
}
