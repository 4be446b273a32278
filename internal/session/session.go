package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/geocoder89/coursehub/internal/clock"
	"github.com/geocoder89/coursehub/internal/domain/user"
	"github.com/geocoder89/coursehub/internal/notifications"
	"github.com/geocoder89/coursehub/internal/observability"
	"github.com/geocoder89/coursehub/internal/storage"
	"github.com/google/uuid"
)

// Observer is told about every login, signup and logout after the state changed.
type Observer func(ctx context.Context, u user.User, authenticated bool)

type Options struct {
	Storage     storage.Storage
	Credentials *user.CredentialTable
	Clock       clock.Clock
	Notifier    notifications.Notifier
	Prom        *observability.Prom
	Logger      *slog.Logger

	// Delay is the simulated round trip taken by Login and SignUp.
	Delay time.Duration
	// RegisterSignups adds new accounts to the credential table so they can log in again.
	RegisterSignups bool
	NewID           func() string
}

// Store owns the current identity.
type Store struct {
	mu        sync.RWMutex
	current   *user.User
	inFlight  int
	observers []Observer

	storage         storage.Storage
	creds           *user.CredentialTable
	clock           clock.Clock
	notifier        notifications.Notifier
	prom            *observability.Prom
	log             *slog.Logger
	delay           time.Duration
	registerSignups bool
	newID           func() string
}

func New(opts Options) *Store {
	s := &Store{
		storage:         opts.Storage,
		creds:           opts.Credentials,
		clock:           opts.Clock,
		notifier:        opts.Notifier,
		prom:            opts.Prom,
		log:             opts.Logger,
		delay:           opts.Delay,
		registerSignups: opts.RegisterSignups,
		newID:           opts.NewID,
	}

	if s.clock == nil {
		s.clock = clock.Real{}
	}
	if s.notifier == nil {
		s.notifier = notifications.Discard{}
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// Restore loads the persisted identity. It runs once at start-up before any observer subscribes.
func (s *Store) Restore(ctx context.Context) error {
	var u user.User

	ok, err := storage.GetJSON(ctx, s.storage, storage.KeyCurrentUser, &u)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if ok && u.ID != "" {
		s.current = &u
	} else {
		s.current = nil
	}
	return nil
}

func (s *Store) Subscribe(o Observer) {
	s.mu.Lock()
	s.observers = append(s.observers, o)
	s.mu.Unlock()
}

func (s *Store) Current() (user.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return user.User{}, false
	}
	return *s.current, true
}

func (s *Store) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}

func (s *Store) IsAdmin() bool {
	u, ok := s.Current()
	return ok && u.IsAdmin()
}

// Loading reports whether a Login or SignUp is waiting on its simulated delay.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inFlight > 0
}

func (s *Store) Login(ctx context.Context, email, password string) (user.User, error) {
	done := s.begin()
	defer done()

	if err := s.clock.Sleep(ctx, s.delay); err != nil {
		return user.User{}, err
	}

	u, err := s.creds.Match(email, password)
	if err != nil {
		s.prom.CountOp("login", "invalid_credentials")
		notifications.Error(ctx, s.notifier, "Failed to log in. Please check your credentials.")
		return user.User{}, user.ErrInvalidCredentials
	}

	if err := s.activate(ctx, u); err != nil {
		s.prom.CountOp("login", "storage_error")
		notifications.Error(ctx, s.notifier, "Failed to log in. Please try again.")
		return user.User{}, err
	}

	s.prom.CountOp("login", "ok")
	s.log.InfoContext(ctx, "session started", "user_id", u.ID, "role", string(u.Role))
	notifications.Success(ctx, s.notifier, "Successfully logged in!")
	return u, nil
}

func (s *Store) SignUp(ctx context.Context, email, password, name string) (user.User, error) {
	done := s.begin()
	defer done()

	if err := s.clock.Sleep(ctx, s.delay); err != nil {
		return user.User{}, err
	}

	u := user.User{
		ID:    s.newID(),
		Email: strings.TrimSpace(email),
		Name:  strings.TrimSpace(name),
		Role:  user.RoleUser,
	}

	var err error
	switch {
	case s.creds.Exists(u.Email):
		err = user.ErrDuplicateEmail
	case s.registerSignups:
		err = s.creds.Add(u, password)
	default:
		// same rule whether or not the account is kept
		err = user.CheckPassword(password)
	}

	if err != nil {
		result := "error"
		switch {
		case errors.Is(err, user.ErrDuplicateEmail):
			result = "duplicate_email"
		case errors.Is(err, user.ErrPasswordTooLong):
			result = "password_too_long"
		}
		s.prom.CountOp("signup", result)
		notifications.Error(ctx, s.notifier, "Failed to create account. Please try again.")
		return user.User{}, err
	}

	if err := s.activate(ctx, u); err != nil {
		s.prom.CountOp("signup", "storage_error")
		notifications.Error(ctx, s.notifier, "Failed to create account. Please try again.")
		return user.User{}, err
	}

	s.prom.CountOp("signup", "ok")
	s.log.InfoContext(ctx, "account created", "user_id", u.ID)
	notifications.Success(ctx, s.notifier, "Account created successfully!")
	return u, nil
}

// Logout always clears the in-memory session; storage failures are reported but do not keep it alive.
// Observers run before the stored keys are removed so no store can write them back afterwards.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	prev := s.current
	s.current = nil
	observers := append([]Observer(nil), s.observers...)
	s.mu.Unlock()

	var u user.User
	if prev != nil {
		u = *prev
	}
	for _, o := range observers {
		o(ctx, u, false)
	}

	var errs []error

	if err := s.storage.Remove(ctx, storage.KeyCurrentUser); err != nil {
		errs = append(errs, fmt.Errorf("remove %s: %w", storage.KeyCurrentUser, err))
	}
	if err := s.storage.Remove(ctx, storage.KeyMyCourses); err != nil {
		errs = append(errs, fmt.Errorf("remove %s: %w", storage.KeyMyCourses, err))
	}

	err := errors.Join(errs...)
	if err != nil {
		s.log.ErrorContext(ctx, "logout storage cleanup failed", "err", err)
		s.prom.CountOp("logout", "storage_error")
	} else {
		s.prom.CountOp("logout", "ok")
	}

	notifications.Info(ctx, s.notifier, "You've been logged out")
	return err
}

// activate persists u and makes it current, then tells the observers.
func (s *Store) activate(ctx context.Context, u user.User) error {
	if err := storage.SetJSON(ctx, s.storage, storage.KeyCurrentUser, u); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	cur := u
	s.current = &cur
	observers := append([]Observer(nil), s.observers...)
	s.mu.Unlock()

	for _, o := range observers {
		o(ctx, u, true)
	}
	return nil
}

func (s *Store) begin() func() {
	s.mu.Lock()
	s.inFlight++
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
	}
}
