package user

import (
	"errors"
	"strings"
	"sync"

	"github.com/geocoder89/coursehub/internal/security"
	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the identity persisted under "currentUser". It never carries a password.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateEmail     = errors.New("user already exists with this email")
	ErrPasswordTooLong    = errors.New("password exceeds 72 bytes")
)

// Credential is one row of the login table.
type Credential struct {
	User     User
	Password string
}

// DefaultCredentials is the fixed login table compiled into the app.
func DefaultCredentials() []Credential {
	return []Credential{
		{
			User:     User{ID: "1", Email: "admin@iiit.ac.in", Name: "IIIT Course Lead", Role: RoleAdmin},
			Password: "iiitadmin123",
		},
		{
			User:     User{ID: "2", Email: "user@example.com", Name: "Regular User", Role: RoleUser},
			Password: "password123",
		},
	}
}

type credentialRow struct {
	user         User
	passwordHash string
}

// CredentialTable matches logins by exact email and password.
type CredentialTable struct {
	mu   sync.RWMutex
	rows []credentialRow
}

func NewCredentialTable(creds []Credential) (*CredentialTable, error) {
	t := &CredentialTable{}

	for _, c := range creds {
		if err := t.Add(c.User, c.Password); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// CheckPassword rejects passwords the credential table could not store.
func CheckPassword(password string) error {
	if len(password) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

func (t *CredentialTable) Add(u User, password string) error {
	if t.Exists(u.Email) {
		return ErrDuplicateEmail
	}
	if err := CheckPassword(password); err != nil {
		return err
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return ErrPasswordTooLong
		}
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// a concurrent Add may have won while hashing
	if t.indexLocked(u.Email) >= 0 {
		return ErrDuplicateEmail
	}
	t.rows = append(t.rows, credentialRow{user: u, passwordHash: hash})
	return nil
}

func (t *CredentialTable) Exists(email string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.indexLocked(email) >= 0
}

func (t *CredentialTable) Match(email, password string) (User, error) {
	t.mu.RLock()
	i := t.indexLocked(email)
	var row credentialRow
	if i >= 0 {
		row = t.rows[i]
	}
	t.mu.RUnlock()

	if i < 0 {
		return User{}, ErrInvalidCredentials
	}

	if err := security.CheckPassword(row.passwordHash, password); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return row.user, nil
}

// email comparison is exact, like the login form submits it
func (t *CredentialTable) indexLocked(email string) int {
	for i, r := range t.rows {
		if r.user.Email == email {
			return i
		}
	}
	return -1
}

type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Name     string `json:"name" binding:"required,min=2,max=80"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (r SignUpRequest) Normalized() SignUpRequest {
	r.Email = strings.TrimSpace(r.Email)
	r.Name = strings.TrimSpace(r.Name)
	return r
}
