// Package auth verifies supervisor credentials.
package auth

import (
	"context"
	"database/sql"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/db"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/errors"
)

// Supervisor is the identity returned after a successful authentication.
type Supervisor struct {
	Email  string `json:"user"`
	Nombre string `json:"nombre"`
}

// Authenticator checks supervisor credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*Supervisor, error)
	IsSupervisor(ctx context.Context, email string) (bool, error)
}

// Enroller manages enrolled supervisors.
type Enroller interface {
	Enroll(ctx context.Context, email, nombre, password string) error
	Revoke(ctx context.Context, email string) error
	List(ctx context.Context) ([]Supervisor, error)
}

// MinPasswordLength is the shortest password accepted at enrollment.
const MinPasswordLength = 8

// DBAuthenticator verifies credentials against the supervisors table.
type DBAuthenticator struct {
	db   *sql.DB
	cost int
}

// NewDBAuthenticator creates an Authenticator backed by the credential database.
func NewDBAuthenticator(database *sql.DB) *DBAuthenticator {
	return &DBAuthenticator{db: database, cost: bcrypt.DefaultCost}
}

// WithCost returns a copy using the given bcrypt cost. Tests use bcrypt.MinCost.
func (a *DBAuthenticator) WithCost(cost int) *DBAuthenticator {
	return &DBAuthenticator{db: a.db, cost: cost}
}

// Authenticate returns the supervisor when the password matches its hash.
// Unknown, revoked and mismatched credentials all yield the same UNAUTHORIZED error.
func (a *DBAuthenticator) Authenticate(ctx context.Context, email, password string) (*Supervisor, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, errors.NewValidation("email and password are required")
	}

	s, err := db.GetSupervisor(ctx, a.db, email, false)
	if errors.Is(err, errors.ErrNotFound) {
		return nil, errors.NewUnauthorized("invalid credentials")
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte(password)); err != nil {
		return nil, errors.NewUnauthorized("invalid credentials")
	}

	out := &Supervisor{Email: s.EmailRaw}
	if s.Nombre != nil {
		out.Nombre = *s.Nombre
	}
	return out, nil
}

// IsSupervisor reports whether email belongs to an active supervisor.
func (a *DBAuthenticator) IsSupervisor(ctx context.Context, email string) (bool, error) {
	if strings.TrimSpace(email) == "" {
		return false, nil
	}
	_, err := db.GetSupervisor(ctx, a.db, email, false)
	if errors.Is(err, errors.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Enroll stores a bcrypt hash of password for email, replacing any previous one.
func (a *DBAuthenticator) Enroll(ctx context.Context, email, nombre, password string) error {
	if strings.TrimSpace(email) == "" {
		return errors.NewValidation("email is required")
	}
	if len(password) < MinPasswordLength {
		return errors.NewValidation("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return errors.NewValidation(err.Error())
	}

	s := &db.Supervisor{EmailRaw: strings.TrimSpace(email), PasswordHash: string(hash)}
	if n := strings.TrimSpace(nombre); n != "" {
		s.Nombre = &n
	}
	return db.UpsertSupervisor(ctx, a.db, s)
}

// Revoke disables a supervisor.
func (a *DBAuthenticator) Revoke(ctx context.Context, email string) error {
	return db.RevokeSupervisor(ctx, a.db, email)
}

// List returns the active supervisors ordered by email.
func (a *DBAuthenticator) List(ctx context.Context) ([]Supervisor, error) {
	rows, err := db.ListSupervisors(ctx, a.db)
	if err != nil {
		return nil, err
	}
	out := make([]Supervisor, 0, len(rows))
	for _, s := range rows {
		sup := Supervisor{Email: s.EmailRaw}
		if s.Nombre != nil {
			sup.Nombre = *s.Nombre
		}
		out = append(out, sup)
	}
	return out, nil
}
