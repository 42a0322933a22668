package identity

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hivemart/hivemart-backend/pkg/config"
	pkgerrors "github.com/hivemart/hivemart-backend/pkg/errors"
	"github.com/hivemart/hivemart-backend/pkg/logger"
)

type stubUsers struct {
	byEmail   map[string]*User
	createErr error
}

func newStubUsers() *stubUsers {
	return &stubUsers{byEmail: map[string]*User{}}
}

func (s *stubUsers) Create(_ context.Context, user *User) error {
	if s.createErr != nil {
		return s.createErr
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	s.byEmail[user.Email] = user
	return nil
}

func (s *stubUsers) FindByEmail(_ context.Context, email string) (*User, error) {
	user, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUsers) FindByID(_ context.Context, id string) (*User, error) {
	for _, user := range s.byEmail {
		if user.ID.String() == id {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func testService(t *testing.T, users userStore) Service {
	t.Helper()
	svc, err := NewService(ServiceOptions{
		Users:  users,
		JWT:    config.JWTConfig{Secret: "test-secret", Issuer: "hivemart", ExpirationMinutes: 60},
		Logger: logger.New(logger.Options{ServiceName: "identity-test"}),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()

	svc := testService(t, newStubUsers())
	ctx := context.Background()

	session, err := svc.Register(ctx, "Shopper@Example.com", "hunter2-long", "Shopper", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if session.User.Email != "shopper@example.com" {
		t.Fatalf("email not normalized: %q", session.User.Email)
	}
	if session.Token == "" {
		t.Fatal("expected a token on register")
	}
	if session.User.PasswordHash == "hunter2-long" {
		t.Fatal("password stored in the clear")
	}

	logged, err := svc.Login(ctx, "shopper@example.com", "hunter2-long", "sess-1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if logged.User.ID != session.User.ID {
		t.Fatal("login returned a different user")
	}

	claims, err := svc.Verify(ctx, logged.Token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != session.User.ID {
		t.Fatalf("claims user = %s, want %s", claims.UserID, session.User.ID)
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	t.Parallel()

	svc := testService(t, newStubUsers())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "not-an-email", "hunter2-long", "", ""); pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("bad email: got %v", err)
	}
	if _, err := svc.Register(ctx, "ok@example.com", "short", "", ""); pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("short password: got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	svc := testService(t, newStubUsers())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "dup@example.com", "hunter2-long", "", ""); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(ctx, "dup@example.com", "other-password", "", "")
	if pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("duplicate register: got %v", err)
	}
}

func TestLoginWrongCredentials(t *testing.T) {
	t.Parallel()

	svc := testService(t, newStubUsers())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "a@example.com", "hunter2-long", "", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login(ctx, "a@example.com", "wrong-password", "sess"); pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("wrong password: got %v", err)
	}
	if _, err := svc.Login(ctx, "missing@example.com", "hunter2-long", "sess"); pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("unknown email: got %v", err)
	}
}

func TestLoginNotifiesSignInHooks(t *testing.T) {
	t.Parallel()

	svc := testService(t, newStubUsers())
	ctx := context.Background()

	session, err := svc.Register(ctx, "hook@example.com", "hunter2-long", "", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	var got []SignIn
	svc.OnSignIn(func(_ context.Context, event SignIn) error {
		got = append(got, event)
		return nil
	})
	// A failing hook must not fail the login.
	svc.OnSignIn(func(context.Context, SignIn) error {
		return errors.New("boom")
	})

	logged, err := svc.Login(ctx, "hook@example.com", "hunter2-long", "sess-42")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if logged.SignInErr == nil {
		t.Fatal("expected the failed hook to be reported on the session")
	}

	if len(got) != 1 {
		t.Fatalf("hook calls = %d, want 1", len(got))
	}
	if got[0].UserID != session.User.ID.String() || got[0].SessionID != "sess-42" {
		t.Fatalf("unexpected event %+v", got[0])
	}
}

func TestRegisterNotifiesSignInHooks(t *testing.T) {
	t.Parallel()

	svc := testService(t, newStubUsers())
	ctx := context.Background()

	var got []SignIn
	svc.OnSignIn(func(_ context.Context, event SignIn) error {
		got = append(got, event)
		return nil
	})

	session, err := svc.Register(ctx, "new@example.com", "hunter2-long", "", "sess-7")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if session.SignInErr != nil {
		t.Fatalf("unexpected hook error: %v", session.SignInErr)
	}

	if len(got) != 1 {
		t.Fatalf("hook calls = %d, want 1", len(got))
	}
	if got[0].UserID != session.User.ID.String() || got[0].SessionID != "sess-7" {
		t.Fatalf("unexpected event %+v", got[0])
	}
}

func TestRegisterReportsFailedSignInHook(t *testing.T) {
	t.Parallel()

	svc := testService(t, newStubUsers())
	ctx := context.Background()

	svc.OnSignIn(func(context.Context, SignIn) error {
		return errors.New("remote cart down")
	})

	// Registration still succeeds; the hook failure rides on the session.
	session, err := svc.Register(ctx, "flaky@example.com", "hunter2-long", "", "sess-9")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if session.Token == "" {
		t.Fatal("expected a token despite the failed hook")
	}
	if session.SignInErr == nil {
		t.Fatal("expected the failed hook to be reported on the session")
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	t.Parallel()

	svc := testService(t, newStubUsers())
	ctx := context.Background()

	session, err := svc.Register(ctx, "t@example.com", "hunter2-long", "", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err = svc.Verify(ctx, session.Token+"x")
	if pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("tampered token: got %v", err)
	}
}
