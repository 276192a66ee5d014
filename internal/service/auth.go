package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"unicode/utf8"

	"github.com/sakif/eventbook/internal/apperror"
	"github.com/sakif/eventbook/internal/auth"
	"github.com/sakif/eventbook/internal/model"
	"github.com/sakif/eventbook/internal/repository"
)

// MinPasswordLength is the minimum accepted password length at signup.
const MinPasswordLength = 8

// AuthService handles signup, login, and the GitHub OAuth account path.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all dependencies injected.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the user and the issued token so the handler can reply
// in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Signup validates the credentials, hashes the password, and creates the
// account. A duplicate email surfaces as a conflict from the repository.
func (s *AuthService) Signup(ctx context.Context, email, password, name string) (*model.User, error) {
	var msgs []string

	email = sanitizeText(email)
	if email == "" {
		msgs = append(msgs, "email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		msgs = append(msgs, "email must be a valid address")
	}

	if utf8.RuneCountInString(password) < MinPasswordLength {
		msgs = append(msgs, fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	if len(msgs) > 0 {
		return nil, apperror.Validation(msgs...)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         sanitizeText(name),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user signed up",
		slog.Int64("userID", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// Login verifies the credentials and issues a token. Every failure mode
// (unknown email, wrong password, password login against an OAuth-only
// account) yields the same credential-invalid outcome so callers cannot
// probe which emails exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetUserByEmail(ctx, sanitizeText(email))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.CredentialInvalid()
		}
		return nil, fmt.Errorf("looking up user by email: %w", err)
	}

	// OAuth-only accounts have no password hash.
	if user.PasswordHash == "" {
		return nil, apperror.CredentialInvalid()
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, apperror.CredentialInvalid()
		}
		return nil, fmt.Errorf("verifying password: %w", err)
	}

	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generating token for user %d: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.Int64("userID", user.ID))

	return &AuthResult{User: user, Token: token}, nil
}

// LoginOrRegisterGitHub completes the GitHub OAuth callback: look up the
// account by the verified GitHub email, create it on first login (with no
// password hash), and issue the same token a password login would.
func (s *AuthService) LoginOrRegisterGitHub(ctx context.Context, ghUser *auth.GitHubUser) (*AuthResult, error) {
	if ghUser == nil || ghUser.Email == "" {
		return nil, apperror.Validation("a public GitHub email is required to sign in with GitHub")
	}

	user, err := s.users.GetUserByEmail(ctx, ghUser.Email)
	switch {
	case err == nil:
		// existing account, password or OAuth
	case errors.Is(err, apperror.ErrNotFound):
		name := ghUser.Name
		if name == "" {
			name = ghUser.Login
		}
		user = &model.User{Email: ghUser.Email, Name: sanitizeText(name)}
		if err := s.users.CreateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("creating user from GitHub profile: %w", err)
		}
		s.logger.Info("user signed up via GitHub",
			slog.Int64("userID", user.ID),
			slog.String("login", ghUser.Login),
		)
	default:
		return nil, fmt.Errorf("looking up user by email: %w", err)
	}

	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generating token for user %d: %w", user.ID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// GetUserByID returns the user for the given id. Used by the /api/me
// handler after the middleware has validated the token.
func (s *AuthService) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user, nil
}
