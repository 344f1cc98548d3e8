package ops

import (
	"context"

	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/auth"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/errors"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/record"
)

// SupervisorAuthInput contains the credentials to verify.
type SupervisorAuthInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SupervisorAuthOutput is returned on successful authentication.
type SupervisorAuthOutput struct {
	OK        bool   `json:"ok"`
	User      string `json:"user"`
	Nombre    string `json:"nombre"`
	Timestamp string `json:"timestamp"`
}

// SupervisorAuth verifies supervisor credentials.
func SupervisorAuth(ctx context.Context, d *Deps, input SupervisorAuthInput) (*SupervisorAuthOutput, error) {
	if d.Auth == nil {
		return nil, errors.NewUnauthorized("no supervisor directory configured")
	}

	s, err := d.Auth.Authenticate(ctx, input.Email, input.Password)
	if err != nil {
		if errors.Is(err, errors.ErrUnauthorized) {
			d.Log.Info().Str("correo", input.Email).Msg("supervisor authentication rejected")
			return nil, errors.NewUnauthorized("Credenciales de supervisor inválidas")
		}
		return nil, err
	}

	d.Log.Info().Str("correo", s.Email).Msg("supervisor authenticated")
	return &SupervisorAuthOutput{
		OK:        true,
		User:      s.Email,
		Nombre:    s.Nombre,
		Timestamp: record.FormatTime(d.now()),
	}, nil
}

// SupervisorCheckOutput reports supervisor membership.
type SupervisorCheckOutput struct {
	IsSupervisor bool `json:"isSupervisor"`
}

// SupervisorCheck reports whether email belongs to an enrolled supervisor.
func SupervisorCheck(ctx context.Context, d *Deps, email string) (*SupervisorCheckOutput, error) {
	if d.Auth == nil {
		return &SupervisorCheckOutput{}, nil
	}
	ok, err := d.Auth.IsSupervisor(ctx, email)
	if err != nil {
		return nil, err
	}
	return &SupervisorCheckOutput{IsSupervisor: ok}, nil
}

// SupervisorEnrollInput contains a new supervisor credential.
type SupervisorEnrollInput struct {
	Email    string `json:"email"`
	Nombre   string `json:"nombre"`
	Password string `json:"password"`
}

// SupervisorEnroll stores or replaces a supervisor credential.
func SupervisorEnroll(ctx context.Context, d *Deps, input SupervisorEnrollInput) (*MessageOutput, error) {
	enroller, err := enrollerOf(d)
	if err != nil {
		return nil, err
	}
	if err := enroller.Enroll(ctx, input.Email, input.Nombre, input.Password); err != nil {
		return nil, err
	}
	d.Log.Info().Str("correo", input.Email).Msg("supervisor enrolled")
	return &MessageOutput{OK: true, Message: "Supervisor registrado", ID: input.Email}, nil
}

// SupervisorRevoke disables a supervisor credential.
func SupervisorRevoke(ctx context.Context, d *Deps, email string) (*MessageOutput, error) {
	enroller, err := enrollerOf(d)
	if err != nil {
		return nil, err
	}
	if err := enroller.Revoke(ctx, email); err != nil {
		return nil, err
	}
	d.Log.Info().Str("correo", email).Msg("supervisor revoked")
	return &MessageOutput{OK: true, Message: "Supervisor revocado", ID: email}, nil
}

// SupervisorListOutput lists the active supervisors.
type SupervisorListOutput struct {
	Supervisors []auth.Supervisor `json:"supervisors"`
}

// SupervisorList returns the active supervisors ordered by email.
func SupervisorList(ctx context.Context, d *Deps) (*SupervisorListOutput, error) {
	enroller, err := enrollerOf(d)
	if err != nil {
		return nil, err
	}
	list, err := enroller.List(ctx)
	if err != nil {
		return nil, err
	}
	return &SupervisorListOutput{Supervisors: list}, nil
}

func enrollerOf(d *Deps) (auth.Enroller, error) {
	enroller, ok := d.Auth.(auth.Enroller)
	if !ok {
		return nil, errors.NewValidation("supervisor directory is read-only")
	}
	return enroller, nil
}
