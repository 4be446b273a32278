package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/geocoder89/coursehub/internal/domain/user"
	"github.com/geocoder89/coursehub/internal/http/handlers"
)

type fakeSession struct {
	current  *user.User
	loginFn  func(ctx context.Context, email, password string) (user.User, error)
	signUpFn func(ctx context.Context, email, password, name string) (user.User, error)
	logoutFn func(ctx context.Context) error
}

func (f *fakeSession) Login(ctx context.Context, email, password string) (user.User, error) {
	if f.loginFn != nil {
		return f.loginFn(ctx, email, password)
	}
	return user.User{}, nil
}

func (f *fakeSession) SignUp(ctx context.Context, email, password, name string) (user.User, error) {
	if f.signUpFn != nil {
		return f.signUpFn(ctx, email, password, name)
	}
	return user.User{}, nil
}

func (f *fakeSession) Logout(ctx context.Context) error {
	if f.logoutFn != nil {
		return f.logoutFn(ctx)
	}
	f.current = nil
	return nil
}

func (f *fakeSession) Current() (user.User, bool) {
	if f.current == nil {
		return user.User{}, false
	}
	return *f.current, true
}

func (f *fakeSession) IsAdmin() bool { return f.current != nil && f.current.IsAdmin() }

func (f *fakeSession) Loading() bool { return false }

func TestLoginHandler(t *testing.T) {
	admin := user.User{ID: "1", Email: "admin@iiit.ac.in", Name: "IIIT Course Lead", Role: user.RoleAdmin}

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{name: "success", body: `{"email":"admin@iiit.ac.in","password":"iiitadmin123"}`, wantStatus: http.StatusOK},
		{name: "wrong password", body: `{"email":"admin@iiit.ac.in","password":"nope"}`, wantStatus: http.StatusUnauthorized, wantCode: "invalid_credentials"},
		{name: "missing password", body: `{"email":"admin@iiit.ac.in"}`, wantStatus: http.StatusBadRequest, wantCode: "invalid_request"},
		{name: "malformed json", body: `{"email":`, wantStatus: http.StatusBadRequest, wantCode: "invalid_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeSession{
				loginFn: func(ctx context.Context, email, password string) (user.User, error) {
					if password != "iiitadmin123" {
						return user.User{}, user.ErrInvalidCredentials
					}
					return admin, nil
				},
			}
			h := handlers.NewSessionHandler(fake)
			r := setupRouter(http.MethodPost, "/login", h.Login)

			w := perform(r, http.MethodPost, "/login", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d body=%s", w.Code, tt.wantStatus, w.Body.String())
			}

			if tt.wantCode != "" {
				if got := decodeError(t, w).Error.Code; got != tt.wantCode {
					t.Fatalf("got code %q, want %q", got, tt.wantCode)
				}
				return
			}

			var got struct {
				User     user.User `json:"user"`
				Redirect string    `json:"redirect"`
			}
			mustUnmarshal(t, w, &got)
			if got.User.Role != user.RoleAdmin || got.Redirect != "/" {
				t.Fatalf("unexpected body: %+v", got)
			}
		})
	}
}

func TestSignUpHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		signUpErr  error
		wantStatus int
		wantCode   string
	}{
		{name: "success", body: `{"email":" new@example.com ","password":"secret1","name":" New Person "}`, wantStatus: http.StatusCreated},
		{name: "duplicate email", body: `{"email":"user@example.com","password":"secret1","name":"Again"}`, signUpErr: user.ErrDuplicateEmail, wantStatus: http.StatusConflict, wantCode: "email_taken"},
		{name: "short password", body: `{"email":"a@b.co","password":"123","name":"Al"}`, wantStatus: http.StatusBadRequest, wantCode: "invalid_request"},
		{name: "bad email", body: `{"email":"nope","password":"secret1","name":"Al"}`, wantStatus: http.StatusBadRequest, wantCode: "invalid_request"},
		{name: "password over 72 bytes", body: `{"email":"a@b.co","password":"` + strings.Repeat("p", 73) + `","name":"Al"}`, wantStatus: http.StatusBadRequest, wantCode: "invalid_request"},
		{name: "store rejects password length", body: `{"email":"a@b.co","password":"secret1","name":"Al"}`, signUpErr: user.ErrPasswordTooLong, wantStatus: http.StatusBadRequest, wantCode: "invalid_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotEmail, gotName string
			fake := &fakeSession{
				signUpFn: func(ctx context.Context, email, password, name string) (user.User, error) {
					gotEmail, gotName = email, name
					if tt.signUpErr != nil {
						return user.User{}, tt.signUpErr
					}
					return user.User{ID: "x", Email: email, Name: name, Role: user.RoleUser}, nil
				},
			}
			h := handlers.NewSessionHandler(fake)
			r := setupRouter(http.MethodPost, "/signup", h.SignUp)

			w := perform(r, http.MethodPost, "/signup", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d body=%s", w.Code, tt.wantStatus, w.Body.String())
			}

			if tt.wantCode != "" {
				if got := decodeError(t, w).Error.Code; got != tt.wantCode {
					t.Fatalf("got code %q, want %q", got, tt.wantCode)
				}
				return
			}

			if gotEmail != "new@example.com" || gotName != "New Person" {
				t.Fatalf("signup input not trimmed: %q %q", gotEmail, gotName)
			}
		})
	}
}

func TestLogoutHandler(t *testing.T) {
	fake := &fakeSession{current: &user.User{ID: "2", Role: user.RoleUser}}
	h := handlers.NewSessionHandler(fake)
	r := setupRouter(http.MethodPost, "/logout", h.Logout)

	w := perform(r, http.MethodPost, "/logout", "")
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d body=%s", w.Code, w.Body.String())
	}
	if _, ok := fake.Current(); ok {
		t.Fatalf("session should be cleared")
	}

	fake.logoutFn = func(ctx context.Context) error { return errors.New("remove failed") }
	if w := perform(r, http.MethodPost, "/logout", ""); w.Code != http.StatusInternalServerError {
		t.Fatalf("got status %d, want 500", w.Code)
	}
}

func TestCurrentSessionHandler(t *testing.T) {
	fake := &fakeSession{}
	h := handlers.NewSessionHandler(fake)
	r := setupRouter(http.MethodGet, "/session", h.Current)

	var got struct {
		User            *user.User `json:"user"`
		IsAuthenticated bool       `json:"isAuthenticated"`
		IsAdmin         bool       `json:"isAdmin"`
	}

	mustUnmarshal(t, perform(r, http.MethodGet, "/session", ""), &got)
	if got.User != nil || got.IsAuthenticated {
		t.Fatalf("expected anonymous session, got %+v", got)
	}

	fake.current = &user.User{ID: "1", Role: user.RoleAdmin}
	mustUnmarshal(t, perform(r, http.MethodGet, "/session", ""), &got)
	if got.User == nil || !got.IsAuthenticated || !got.IsAdmin {
		t.Fatalf("expected admin session, got %+v", got)
	}
}
