package db

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/errors"
)

const collectionSupervisors = "supervisors"

// Supervisor is an enrolled supervisor credential.
type Supervisor struct {
	EmailNorm    string
	EmailRaw     string
	Nombre       *string
	PasswordHash string
	CreatedAt    int64
	UpdatedAt    int64
	RevokedAt    *int64
}

// NormalizeEmail trims and lowercases an email for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UpsertSupervisor enrolls a supervisor, replacing the password hash and name of
// an existing or revoked entry with the same email.
func UpsertSupervisor(ctx context.Context, db *sql.DB, s *Supervisor) error {
	now := time.Now().Unix()
	s.EmailNorm = NormalizeEmail(s.EmailRaw)

	query := `
		INSERT INTO supervisors (
			email_norm, email_raw, nombre, password_hash, created_at, updated_at, revoked_at
		) VALUES (?, ?, ?, ?, ?, ?, NULL)
		ON CONFLICT(email_norm) DO UPDATE SET
			email_raw = excluded.email_raw,
			nombre = excluded.nombre,
			password_hash = excluded.password_hash,
			updated_at = excluded.updated_at,
			revoked_at = NULL
	`

	_, err := db.ExecContext(ctx, query,
		s.EmailNorm, s.EmailRaw, toNullString(s.Nombre), s.PasswordHash, now, now,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	s.UpdatedAt = now
	s.RevokedAt = nil
	return nil
}

// GetSupervisor retrieves a supervisor by email (case-insensitive).
// If includeRevoked is false, revoked supervisors are excluded.
func GetSupervisor(ctx context.Context, db *sql.DB, email string, includeRevoked bool) (*Supervisor, error) {
	emailNorm := NormalizeEmail(email)
	query := `
		SELECT email_norm, email_raw, nombre, password_hash, created_at, updated_at, revoked_at
		FROM supervisors
		WHERE email_norm = ?
	`
	if !includeRevoked {
		query += " AND revoked_at IS NULL"
	}

	s, err := scanSupervisor(db.QueryRowContext(ctx, query, emailNorm))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(collectionSupervisors, emailNorm)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return s, nil
}

// ListSupervisors returns active supervisors ordered by email.
func ListSupervisors(ctx context.Context, db *sql.DB) ([]*Supervisor, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT email_norm, email_raw, nombre, password_hash, created_at, updated_at, revoked_at
		FROM supervisors
		WHERE revoked_at IS NULL
		ORDER BY email_norm
	`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var out []*Supervisor
	for rows.Next() {
		s, err := scanSupervisor(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return out, nil
}

// RevokeSupervisor marks a supervisor as revoked by setting revoked_at.
func RevokeSupervisor(ctx context.Context, db *sql.DB, email string) error {
	emailNorm := NormalizeEmail(email)
	now := time.Now().Unix()

	result, err := db.ExecContext(ctx, `
		UPDATE supervisors
		SET revoked_at = ?, updated_at = ?
		WHERE email_norm = ? AND revoked_at IS NULL
	`, now, now, emailNorm)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(collectionSupervisors, emailNorm)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanSupervisor scans a single row into a Supervisor struct.
func scanSupervisor(row rowScanner) (*Supervisor, error) {
	var (
		s         Supervisor
		nombre    sql.NullString
		revokedAt sql.NullInt64
	)

	err := row.Scan(
		&s.EmailNorm, &s.EmailRaw, &nombre, &s.PasswordHash,
		&s.CreatedAt, &s.UpdatedAt, &revokedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Nombre = fromNullString(nombre)
	if revokedAt.Valid {
		s.RevokedAt = &revokedAt.Int64
	}

	return &s, nil
}

// toNullString converts a *string to sql.NullString.
func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// fromNullString converts a sql.NullString to *string.
func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
