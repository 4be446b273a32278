package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/geocoder89/coursehub/internal/domain/user"
	"github.com/gin-gonic/gin"
)

type SessionService interface {
	Login(ctx context.Context, email, password string) (user.User, error)
	SignUp(ctx context.Context, email, password, name string) (user.User, error)
	Logout(ctx context.Context) error
	Current() (user.User, bool)
	IsAdmin() bool
	Loading() bool
}

type SessionHandler struct {
	session SessionService
}

func NewSessionHandler(session SessionService) *SessionHandler {
	return &SessionHandler{session: session}
}

func (h *SessionHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	u, err := h.session.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
			return
		}
		RespondInternal(ctx, "Could not log in")
		return
	}

	RespondWithNotices(ctx, http.StatusOK, gin.H{
		"user":     u,
		"redirect": "/",
	})
}

func (h *SessionHandler) SignUp(ctx *gin.Context) {
	var req user.SignUpRequest

	if !BindJSON(ctx, &req) {
		return
	}
	req = req.Normalized()

	u, err := h.session.SignUp(ctx.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			RespondConflict(ctx, "email_taken", "Email is already in use.")
			return
		}
		if errors.Is(err, user.ErrPasswordTooLong) {
			RespondBadRequest(ctx, "Invalid request body", gin.H{"fields": []FieldError{{
				Field:   "password",
				Rule:    "max",
				Param:   "72",
				Message: "must be at most 72 bytes",
			}}})
			return
		}
		RespondInternal(ctx, "Could not create account")
		return
	}

	RespondWithNotices(ctx, http.StatusCreated, gin.H{
		"user":     u,
		"redirect": "/",
	})
}

func (h *SessionHandler) Logout(ctx *gin.Context) {
	if err := h.session.Logout(ctx.Request.Context()); err != nil {
		// the session is gone either way; only the stored copy may linger
		RespondInternal(ctx, "Logged out, but stored session data could not be cleared")
		return
	}

	RespondWithNotices(ctx, http.StatusOK, gin.H{"redirect": "/login"})
}

func (h *SessionHandler) Current(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, sessionView(h.session))
}

func sessionView(s SessionService) gin.H {
	u, ok := s.Current()

	var current *user.User
	if ok {
		current = &u
	}

	return gin.H{
		"user":            current,
		"isAuthenticated": ok,
		"isAdmin":         s.IsAdmin(),
		"loading":         s.Loading(),
	}
}
