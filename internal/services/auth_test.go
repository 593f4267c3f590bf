package services

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/mentorship-backend/internal/data/db"
	"github.com/yungbote/mentorship-backend/internal/data/repos"
	"github.com/yungbote/mentorship-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mentorship-backend/internal/domain"
	"github.com/yungbote/mentorship-backend/internal/domain/apperr"
)

func newAuthHarness(t *testing.T) (*harness, *authService) {
	t.Helper()
	h := newHarness(t)
	svc := NewAuthService(testutil.Logger(t), db.NewTxRunner(h.db), h.users, repos.NewUserTokenRepo(h.db, testutil.Logger(t)), nil, "test-secret", 15*time.Minute, 24*time.Hour)
	return h, svc.(*authService)
}

func TestRegisterLoginAuthenticateLogout(t *testing.T) {
	_, svc := newAuthHarness(t)
	ctx := context.Background()

	u, err := svc.RegisterUser(ctx, RegisterInput{Email: " Ada@Example.com ", Password: "correct-horse", FirstName: "Ada", LastName: "Lovelace"})
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if u.Email != "ada@example.com" || u.Role != types.RoleMentee {
		t.Fatalf("unexpected user: %+v", u)
	}
	if _, err := svc.RegisterUser(ctx, RegisterInput{Email: "ada@example.com", Password: "correct-horse", FirstName: "A", LastName: "L"}); !apperr.IsCode(err, apperr.CodeConflict) {
		t.Fatalf("duplicate: want=conflict got=%v", err)
	}

	if _, err := svc.LoginUser(ctx, "ada@example.com", "wrong-password"); !apperr.IsCode(err, apperr.CodeUnauthorized) {
		t.Fatalf("bad password: want=unauthorized got=%v", err)
	}
	pair, err := svc.LoginUser(ctx, "ADA@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}

	p, err := svc.Authenticate(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if p.UserID != u.ID || p.Role != types.RoleMentee {
		t.Fatalf("principal: want=%s/MENTEE got=%+v", u.ID, p)
	}

	if err := svc.LogoutUser(ctx, pair.AccessToken); err != nil {
		t.Fatalf("LogoutUser: %v", err)
	}
	if _, err := svc.Authenticate(ctx, pair.AccessToken); !apperr.IsCode(err, apperr.CodeUnauthorized) {
		t.Fatalf("after logout: want=unauthorized got=%v", err)
	}
}

func TestRefreshRotatesTokens(t *testing.T) {
	_, svc := newAuthHarness(t)
	ctx := context.Background()
	if _, err := svc.RegisterUser(ctx, RegisterInput{Email: "r@example.com", Password: "password1", FirstName: "R", LastName: "T"}); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	pair, err := svc.LoginUser(ctx, "r@example.com", "password1")
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	next, err := svc.RefreshUser(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshUser: %v", err)
	}
	if next.RefreshToken == pair.RefreshToken || next.AccessToken == pair.AccessToken {
		t.Fatalf("tokens not rotated")
	}
	if _, err := svc.RefreshUser(ctx, pair.RefreshToken); !apperr.IsCode(err, apperr.CodeUnauthorized) {
		t.Fatalf("reuse old refresh: want=unauthorized got=%v", err)
	}
	if _, err := svc.Authenticate(ctx, pair.AccessToken); !apperr.IsCode(err, apperr.CodeUnauthorized) {
		t.Fatalf("old access token: want=unauthorized got=%v", err)
	}
}

func TestAuthenticateSeesRoleChanges(t *testing.T) {
	h, svc := newAuthHarness(t)
	ctx := context.Background()
	u, err := svc.RegisterUser(ctx, RegisterInput{Email: "p@example.com", Password: "password1", FirstName: "P", LastName: "R"})
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	pair, _ := svc.LoginUser(ctx, "p@example.com", "password1")
	if _, err := h.users.UpdateRole(testDBC(), u.ID, types.RoleMentor); err != nil {
		t.Fatalf("UpdateRole: %v", err)
	}
	p, err := svc.Authenticate(ctx, pair.AccessToken)
	if err != nil || p.Role != types.RoleMentor {
		t.Fatalf("want=MENTOR got=%+v err=%v", p, err)
	}
}

func TestAuthenticateRejectsExpiredAndForeignTokens(t *testing.T) {
	_, svc := newAuthHarness(t)
	ctx := context.Background()
	if _, err := svc.RegisterUser(ctx, RegisterInput{Email: "e@example.com", Password: "password1", FirstName: "E", LastName: "X"}); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	pair, _ := svc.LoginUser(ctx, "e@example.com", "password1")

	svc.now = func() time.Time { return time.Now().Add(time.Hour) }
	if _, err := svc.Authenticate(ctx, pair.AccessToken); !apperr.IsCode(err, apperr.CodeUnauthorized) {
		t.Fatalf("expired: want=unauthorized got=%v", err)
	}
	svc.now = time.Now

	svc.jwtSecretKey = []byte("other-secret")
	if _, err := svc.Authenticate(ctx, pair.AccessToken); !apperr.IsCode(err, apperr.CodeUnauthorized) {
		t.Fatalf("bad signature: want=unauthorized got=%v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	_, svc := newAuthHarness(t)
	cases := []RegisterInput{
		{Email: "nope", Password: "password1", FirstName: "A", LastName: "B"},
		{Email: "a@example.com", Password: "short", FirstName: "A", LastName: "B"},
		{Email: "a@example.com", Password: "password1", FirstName: " ", LastName: "B"},
	}
	for _, in := range cases {
		if _, err := svc.RegisterUser(context.Background(), in); !apperr.IsCode(err, apperr.CodeValidation) {
			t.Fatalf("%+v: want=validation got=%v", in, err)
		}
	}
}
