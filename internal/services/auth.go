// Package services contains the business logic of the user-management tool:
// the authentication flow with its optional TOTP second factor, and the
// profile lifecycle operations (register, edit, delete, list, statistics).
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/usermgmt/internal/common"
	"github.com/dmitrijs2005/usermgmt/internal/dbx"
	"github.com/dmitrijs2005/usermgmt/internal/logging"
	"github.com/dmitrijs2005/usermgmt/internal/models"
	"github.com/dmitrijs2005/usermgmt/internal/password"
	"github.com/dmitrijs2005/usermgmt/internal/repositories"
	"github.com/dmitrijs2005/usermgmt/internal/totp"
)

// SecondFactorPrompter supplies the interactive pieces of the second-factor
// flows. The CLI shell implements it; tests provide fakes.
type SecondFactorPrompter interface {
	// PromptCode asks an enrolled user for the current time-based code.
	PromptCode(ctx context.Context) (string, error)

	// OfferEnrollment shows the enrollment URI (rendered as a scannable code)
	// and asks whether the user wants to enable the second factor.
	OfferEnrollment(ctx context.Context, uri, secret string) (bool, error)

	// PromptEnrollmentCode asks for the confirmation code generated by the
	// authenticator app right after scanning.
	PromptEnrollmentCode(ctx context.Context) (string, error)
}

// Session is the outcome of a successful login.
//
// EnrollmentErr carries a non-fatal second-factor enrollment failure: the
// login itself succeeded, the account just remains without a second factor.
type Session struct {
	User          *models.User
	Greeting      string
	EnrollmentErr error
}

// AuthService implements the login state machine: credential check, then
// either a second-factor challenge (enrolled accounts) or an enrollment
// offer (unenrolled accounts).
type AuthService struct {
	db     dbx.DBTX
	repos  repositories.RepositoryManager
	engine *totp.Engine
	logger logging.Logger
}

func NewAuthService(db dbx.DBTX, repos repositories.RepositoryManager, engine *totp.Engine, logger logging.Logger) *AuthService {
	return &AuthService{db: db, repos: repos, engine: engine, logger: logger}
}

// Login authenticates the given credentials.
//
// Failure modes: ErrorUnknownAccount (no such email), ErrorInvalidCredentials
// (password mismatch), ErrorSecondFactorRejected (enrolled account, bad or
// missing code).
//
// For accounts without a second factor, enrollment is offered after the
// password check. A declined offer and a failed enrollment both still yield a
// successful login; a failed enrollment never persists the unconfirmed secret
// and is reported via Session.EnrollmentErr.
func (s *AuthService) Login(ctx context.Context, email string, plain []byte, prompter SecondFactorPrompter) (*Session, error) {
	repo := s.repos.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnknownAccount
		}
		return nil, fmt.Errorf("error searching account: %w", err)
	}

	if !password.Compare(user.PasswordHash, plain) {
		return nil, common.ErrorInvalidCredentials
	}

	session := &Session{User: user, Greeting: user.Greeting()}

	if user.SecondFactorSecret != "" {
		code, err := prompter.PromptCode(ctx)
		if err != nil || !s.engine.Verify(code, user.SecondFactorSecret) {
			return nil, common.ErrorSecondFactorRejected
		}
		return session, nil
	}

	if err := s.EnrollSecondFactor(ctx, user, prompter); err != nil {
		s.logger.Warn(ctx, "second factor enrollment failed", "email", user.Email, "error", err)
		session.EnrollmentErr = err
	}

	return session, nil
}

// EnrollSecondFactor runs the enrollment sub-flow for an account without a
// second factor: generate a secret, show the enrollment URI, and persist the
// secret only after the user confirms it with a valid code.
//
// A declined offer returns nil. Any failure after acceptance returns an error
// wrapping ErrorEnrollmentFailed and leaves the account unchanged.
func (s *AuthService) EnrollSecondFactor(ctx context.Context, user *models.User, prompter SecondFactorPrompter) error {
	secret, err := totp.GenerateSecret()
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorEnrollmentFailed, err)
	}

	uri := s.engine.EnrollmentURI(user.Email, secret)

	accepted, err := prompter.OfferEnrollment(ctx, uri, secret)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorEnrollmentFailed, err)
	}
	if !accepted {
		return nil
	}

	code, err := prompter.PromptEnrollmentCode(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorEnrollmentFailed, err)
	}
	// the code must validate against the new, not-yet-stored secret
	if !s.engine.Verify(code, secret) {
		return fmt.Errorf("%w: confirmation code rejected", common.ErrorEnrollmentFailed)
	}

	repo := s.repos.Users(s.db)
	if err := repo.SetSecondFactorSecret(ctx, user.ID, secret); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorEnrollmentFailed, err)
	}

	user.SecondFactorSecret = secret
	s.logger.Info(ctx, "second factor enrolled", "email", user.Email)
	return nil
}
