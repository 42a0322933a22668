package controllers

import (
	"net/http"
	"time"

	"github.com/hivemart/hivemart-backend/api/middleware"
	"github.com/hivemart/hivemart-backend/api/responses"
	"github.com/hivemart/hivemart-backend/api/validators"
	"github.com/hivemart/hivemart-backend/internal/identity"
	pkgerrors "github.com/hivemart/hivemart-backend/pkg/errors"
	"github.com/hivemart/hivemart-backend/pkg/logger"
)

type registerPayload struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"display_name"`
}

type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userView struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type sessionView struct {
	User  userView `json:"user"`
	Token string   `json:"token"`
	// SyncError is set when the sign-in succeeded but reconciling session
	// state (the cart merge) did not. Non-fatal; the UI notifies.
	SyncError string `json:"sync_error,omitempty"`
}

func renderSession(session *identity.Session) sessionView {
	view := sessionView{
		User:  renderUser(session.User),
		Token: session.Token,
	}
	if session.SignInErr != nil {
		code := pkgerrors.CodeSyncFailed
		if typed := pkgerrors.As(session.SignInErr); typed != nil {
			code = typed.Code()
		}
		view.SyncError = string(code)
	}
	return view
}

func renderUser(user *identity.User) userView {
	return userView{
		ID:          user.ID.String(),
		Email:       user.Email,
		DisplayName: user.DisplayName,
		CreatedAt:   user.CreatedAt,
	}
}

// AuthRegister creates an account and signs the shopper in. The browsing
// session rides along just like on login, so the anonymous cart reconciles
// against the new account immediately.
func AuthRegister(svc identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload registerPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		session, err := svc.Register(ctx, payload.Email, payload.Password, payload.DisplayName, middleware.SessionIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, renderSession(session))
	}
}

// AuthLogin exchanges credentials for an access token. The active browsing
// session rides along so sign-in listeners can reconcile session state, the
// cart sync among them.
func AuthLogin(svc identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload loginPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		session, err := svc.Login(ctx, payload.Email, payload.Password, middleware.SessionIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, renderSession(session))
	}
}

// AuthMe returns the authenticated user's profile.
func AuthMe(svc identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID := middleware.UserIDFromContext(ctx)
		if userID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		user, err := svc.GetUser(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, renderUser(user))
	}
}
