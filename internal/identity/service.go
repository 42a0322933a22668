package identity

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hivemart/hivemart-backend/pkg/config"
	pkgerrors "github.com/hivemart/hivemart-backend/pkg/errors"
	"github.com/hivemart/hivemart-backend/pkg/logger"
	"github.com/hivemart/hivemart-backend/pkg/security"
)

const minPasswordLength = 8

// SignIn describes a completed sign-in transition. Subscribers receive it so
// session-scoped state (the cart, for one) can reconcile against the account.
type SignIn struct {
	UserID    string
	SessionID string
}

// SignInHook runs after a successful sign-in transition, whether the shopper
// logged in or just created the account. A hook failure never fails the
// transition itself; it is logged and reported on the Session so the
// transport can notify.
type SignInHook func(ctx context.Context, event SignIn) error

// Session is what a successful register or login hands back to the transport.
// SignInErr carries the first hook failure, if any; the credentials and token
// are valid regardless.
type Session struct {
	User      *User
	Token     string
	SignInErr error
}

// userStore is the slice of Repository the service needs.
type userStore interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
}

// Service handles registration, login, and token verification.
type Service interface {
	Register(ctx context.Context, email, password, displayName, sessionID string) (*Session, error)
	Login(ctx context.Context, email, password, sessionID string) (*Session, error)
	Verify(ctx context.Context, token string) (*AccessTokenClaims, error)
	GetUser(ctx context.Context, id string) (*User, error)
	OnSignIn(hook SignInHook)
}

type service struct {
	users   userStore
	jwtCfg  config.JWTConfig
	pwCfg   config.PasswordConfig
	logg    *logger.Logger
	hooks   []SignInHook
	nowFunc func() time.Time
}

// ServiceOptions configures NewService.
type ServiceOptions struct {
	Users    userStore
	JWT      config.JWTConfig
	Password config.PasswordConfig
	Logger   *logger.Logger
}

func NewService(opts ServiceOptions) (Service, error) {
	if opts.Users == nil {
		return nil, errors.New("identity service requires a repository")
	}
	if opts.Logger == nil {
		return nil, errors.New("identity service requires a logger")
	}
	if opts.JWT.Secret == "" {
		return nil, errors.New("identity service requires a jwt secret")
	}
	return &service{
		users:   opts.Users,
		jwtCfg:  opts.JWT,
		pwCfg:   opts.Password,
		logg:    opts.Logger,
		nowFunc: time.Now,
	}, nil
}

func (s *service) OnSignIn(hook SignInHook) {
	if hook != nil {
		s.hooks = append(s.hooks, hook)
	}
}

func (s *service) Register(ctx context.Context, email, password, displayName, sessionID string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email address")
	}
	if len(password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "looking up email")
	}

	hash, err := security.HashPassword(password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	user := &User{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(displayName),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating user")
	}

	token, err := MintAccessToken(s.jwtCfg, s.nowFunc(), user)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}

	// Sign-up is a sign-in transition too: the anonymous session cart must
	// reconcile against the brand-new account.
	hookErr := s.notifySignIn(ctx, SignIn{UserID: user.ID.String(), SessionID: sessionID})

	return &Session{User: user, Token: token, SignInErr: hookErr}, nil
}

func (s *service) Login(ctx context.Context, email, password, sessionID string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "looking up user")
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	token, err := MintAccessToken(s.jwtCfg, s.nowFunc(), user)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}

	hookErr := s.notifySignIn(ctx, SignIn{UserID: user.ID.String(), SessionID: sessionID})

	return &Session{User: user, Token: token, SignInErr: hookErr}, nil
}

func (s *service) Verify(ctx context.Context, token string) (*AccessTokenClaims, error) {
	claims, err := ParseAccessToken(s.jwtCfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid access token")
	}
	return claims, nil
}

func (s *service) GetUser(ctx context.Context, id string) (*User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading user")
	}
	return user, nil
}

// notifySignIn runs every registered hook and returns the first failure so
// callers can report partial success. All failures are logged either way.
func (s *service) notifySignIn(ctx context.Context, event SignIn) error {
	var first error
	for _, hook := range s.hooks {
		if err := hook(ctx, event); err != nil {
			if first == nil {
				first = err
			}
			logCtx := s.logg.WithField(ctx, "user_id", event.UserID)
			logCtx = s.logg.WithField(logCtx, "error", err.Error())
			s.logg.Warn(logCtx, "sign-in hook failed")
		}
	}
	return first
}
