package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"azimute/internal/auth"
	"azimute/internal/model"
	"azimute/internal/repository"
)

// TokenIssuer signs and verifies bearer tokens.
type TokenIssuer interface {
	Issue(userID, groupID, kind string) (string, time.Time, error)
	Parse(raw string) (*auth.Claims, error)
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      *model.User `json:"user"`
}

// AccountService covers sign-in and password management.
type AccountService interface {
	// Login authenticates by NIN and password. Unknown users, wrong passwords
	// and inactive accounts all yield ErrInvalidCredentials.
	Login(ctx context.Context, nin, password string) (*LoginResult, error)

	// Authenticate resolves a bearer token to its active user.
	Authenticate(ctx context.Context, token string) (*model.User, error)

	// ChangePassword replaces the actor's password after checking the current one.
	ChangePassword(ctx context.Context, actor *model.User, current, next, confirm string) error

	// ForceChangePassword sets a new password for an actor flagged for a forced change.
	ForceChangePassword(ctx context.Context, actor *model.User, next, confirm string) error

	// ResetPassword restores the default password of targetID and forces a change
	// on next login. Secretaries reset leaders of their group; unit leaders reset
	// members of their section.
	ResetPassword(ctx context.Context, actor *model.User, targetID string) error

	// ResetPasswordByNIN is the operator variant of ResetPassword, used by the
	// admin CLI. It checks no actor.
	ResetPasswordByNIN(ctx context.Context, nin string) (*model.User, error)
}

// AccountOptions configures the account service.
type AccountOptions struct {
	ResetPassword string
	Clock         Clock
}

type accountService struct {
	users  repository.UserRepository
	tokens TokenIssuer
	opts   AccountOptions
}

// NewAccountService constructs a new AccountService.
func NewAccountService(users repository.UserRepository, tokens TokenIssuer, opts AccountOptions) AccountService {
	if opts.Clock == nil {
		opts.Clock = systemClock
	}
	return &accountService{users: users, tokens: tokens, opts: opts}
}

func (s *accountService) Login(ctx context.Context, nin, password string) (*LoginResult, error) {
	nin = auth.NormalizeNIN(nin)
	if !auth.ValidNIN(nin) {
		return nil, invalid("NIN must have exactly 13 digits")
	}
	if password == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.users.FindByNIN(ctx, nin)
	if err != nil {
		if errors.Is(lookup("user", err), ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) || !u.Active {
		return nil, ErrInvalidCredentials
	}
	if u.HasRole(model.RoleAuxiliar) {
		return nil, ErrAccountRestricted
	}

	token, exp, err := s.tokens.Issue(u.ID, u.GroupID, string(u.Kind))
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: exp, User: u}, nil
}

func (s *accountService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	u, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(lookup("user", err), ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !u.Active {
		return nil, ErrInvalidCredentials
	}
	if u.HasRole(model.RoleAuxiliar) {
		return nil, ErrAccountRestricted
	}
	return u, nil
}

func (s *accountService) ChangePassword(ctx context.Context, actor *model.User, current, next, confirm string) error {
	if !auth.CheckPassword(actor.PasswordHash, current) {
		return invalid("current password is wrong")
	}
	if err := auth.ValidateNewPassword(next, confirm); err != nil {
		return invalid("%v", err)
	}
	return s.setPassword(ctx, actor.ID, next, false)
}

func (s *accountService) ForceChangePassword(ctx context.Context, actor *model.User, next, confirm string) error {
	if !actor.ForcePasswordChange {
		return forbidden("no password change is pending")
	}
	if err := auth.ValidateNewPassword(next, confirm); err != nil {
		return invalid("%v", err)
	}
	return s.setPassword(ctx, actor.ID, next, false)
}

func (s *accountService) ResetPassword(ctx context.Context, actor *model.User, targetID string) error {
	if targetID == "" {
		return invalid("target user is required")
	}
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return lookup("user", err)
	}

	switch target.Kind {
	case model.KindDirigente:
		if !actor.HasRole(model.RoleSecretarioAgrupamento) || actor.GroupID != target.GroupID {
			return forbidden("only the group secretary resets leaders")
		}
	case model.KindElemento:
		if !actor.HasRole(model.RoleChefeUnidade) || actor.GroupID != target.GroupID || actor.SectionID != target.SectionID {
			return forbidden("only the unit leader resets members of the section")
		}
	default:
		return forbidden("unknown profile kind %q", target.Kind)
	}

	return s.setPassword(ctx, target.ID, s.opts.ResetPassword, true)
}

func (s *accountService) ResetPasswordByNIN(ctx context.Context, nin string) (*model.User, error) {
	nin = auth.NormalizeNIN(nin)
	if !auth.ValidNIN(nin) {
		return nil, invalid("NIN must have exactly 13 digits")
	}
	target, err := s.users.FindByNIN(ctx, nin)
	if err != nil {
		return nil, lookup("user", err)
	}
	if err := s.setPassword(ctx, target.ID, s.opts.ResetPassword, true); err != nil {
		return nil, err
	}
	target.ForcePasswordChange = true
	return target, nil
}

func (s *accountService) setPassword(ctx context.Context, id, pwd string, force bool) error {
	hash, err := auth.HashPassword(pwd)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.SetPassword(ctx, id, hash, force, s.opts.Clock()); err != nil {
		return lookup("user", err)
	}
	return nil
}
