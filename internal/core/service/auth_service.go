package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/girumdom/caretaker-portal/internal/core/domain"
	"github.com/girumdom/caretaker-portal/internal/core/ports"
)

const minPasswordLength = 8

// SignupRequest is the signup form as submitted.
type SignupRequest struct {
	Fullname        string
	Email           string
	Password        string
	ConfirmPassword string
	Role            domain.Role
}

// ResetRequest is the password-reset form as submitted.
type ResetRequest struct {
	Email           string
	Code            string
	NewPassword     string
	ConfirmPassword string
}

// AuthService runs the login, signup and password-recovery flows.
type AuthService struct {
	gateway ports.AuthGateway
	log     zerolog.Logger
}

// NewAuthService returns an AuthService backed by gateway.
func NewAuthService(gateway ports.AuthGateway, log zerolog.Logger) *AuthService {
	return &AuthService{gateway: gateway, log: log}
}

// Login authenticates against the backend and establishes the session in ws.
// Elderly accounts are refused and leave nothing behind in storage. Every
// backend failure is reported as ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, ws *Workspace, email, password string) (domain.Session, error) {
	email = strings.TrimSpace(email)

	token, user, err := s.gateway.Login(ctx, email, password)
	if err != nil {
		s.log.Info().Err(err).Str("email", email).Msg("login rejected")
		return domain.Session{}, domain.ErrInvalidCredentials
	}
	if user == nil || token == "" {
		return domain.Session{}, domain.ErrInvalidCredentials
	}

	if !user.Role.PortalAllowed() {
		if err := ws.Session.Logout(ctx); err != nil {
			s.log.Warn().Err(err).Msg("failed to clear session after denied login")
		}
		s.log.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("portal access denied")
		return domain.Session{}, domain.ErrAccessDenied
	}

	session, err := ws.Session.Login(ctx, token, *user)
	if err != nil {
		return domain.Session{}, fmt.Errorf("login: %w", err)
	}
	if !session.Active() {
		return domain.Session{}, fmt.Errorf("login: issued credential already expired: %w", domain.ErrInvalidCredentials)
	}
	return session, nil
}

// Logout ends the session in ws.
func (s *AuthService) Logout(ctx context.Context, ws *Workspace) error {
	return ws.Session.Logout(ctx)
}

// Signup validates the form and creates the account. Only portal roles may
// sign up here.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) error {
	if err := checkPassword(req.Password, req.ConfirmPassword); err != nil {
		return err
	}
	if !req.Role.PortalAllowed() {
		return domain.ErrRoleNotAllowed
	}

	err := s.gateway.Signup(ctx, ports.SignupInput{
		Fullname: strings.TrimSpace(req.Fullname),
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return fmt.Errorf("signup: %w", err)
	}
	s.log.Info().Str("role", string(req.Role)).Msg("account created")
	return nil
}

// ForgotPassword asks the backend to email a reset code.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	msg, err := s.gateway.ForgotPassword(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", fmt.Errorf("forgot password: %w", err)
	}
	return msg, nil
}

// ResetPassword sets a new password using an emailed 6-digit code.
func (s *AuthService) ResetPassword(ctx context.Context, req ResetRequest) error {
	if !validResetCode(req.Code) {
		return domain.ErrInvalidResetCode
	}
	if err := checkPassword(req.NewPassword, req.ConfirmPassword); err != nil {
		return err
	}
	if err := s.gateway.ResetPassword(ctx, strings.TrimSpace(req.Email), req.Code, req.NewPassword); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}

func checkPassword(password, confirm string) error {
	if len(password) < minPasswordLength {
		return domain.ErrPasswordTooShort
	}
	if password != confirm {
		return domain.ErrPasswordMismatch
	}
	return nil
}

func validResetCode(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
