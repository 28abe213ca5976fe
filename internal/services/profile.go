package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/usermgmt/internal/common"
	"github.com/dmitrijs2005/usermgmt/internal/dbx"
	"github.com/dmitrijs2005/usermgmt/internal/gender"
	"github.com/dmitrijs2005/usermgmt/internal/logging"
	"github.com/dmitrijs2005/usermgmt/internal/models"
	"github.com/dmitrijs2005/usermgmt/internal/password"
	"github.com/dmitrijs2005/usermgmt/internal/repositories"
	userrepo "github.com/dmitrijs2005/usermgmt/internal/repositories/users"
)

const minPasswordLength = 6

var (
	nameRe  = regexp.MustCompile(`^[\p{L}][\p{L}' -]*$`)
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// Classifier is the subset of the gender classifier the profile flows need.
type Classifier interface {
	Classify(ctx context.Context, fullName string) (*gender.Result, error)
}

// GenderPrompter supplies the manual fallback when automatic classification
// is unavailable or inconclusive. A nil result means the user chose other or
// skipped; the account is then stored without a gender.
type GenderPrompter interface {
	PromptManualGender(ctx context.Context) (*models.Gender, error)
}

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Name            string
	Email           string
	Password        []byte
	ConfirmPassword []byte
}

// EditInput carries the requested profile changes. Empty fields keep the
// current values.
type EditInput struct {
	Name     string
	Email    string
	Password []byte
}

// ProfileService implements the account-mutation operations plus listing and
// statistics. Callers are expected to run the authentication flow before Edit
// and Delete.
type ProfileService struct {
	db         *sql.DB
	repos      repositories.RepositoryManager
	classifier Classifier
	logger     logging.Logger
}

func NewProfileService(db *sql.DB, repos repositories.RepositoryManager, classifier Classifier, logger logging.Logger) *ProfileService {
	return &ProfileService{db: db, repos: repos, classifier: classifier, logger: logger}
}

func validateRegistration(in *RegisterInput) error {
	if in.Name == "" || in.Email == "" || len(in.Password) == 0 {
		return fmt.Errorf("%w: all fields are required", common.ErrorValidation)
	}
	if !nameRe.MatchString(in.Name) {
		return fmt.Errorf("%w: name contains invalid characters", common.ErrorValidation)
	}
	if !emailRe.MatchString(in.Email) {
		return fmt.Errorf("%w: invalid email format", common.ErrorValidation)
	}
	if len(in.Password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, minPasswordLength)
	}
	if string(in.Password) != string(in.ConfirmPassword) {
		return fmt.Errorf("%w: passwords do not match", common.ErrorValidation)
	}
	return nil
}

// resolveGender attempts automatic classification and falls back to the
// manual prompt when the classifier is unavailable or returned nothing
// usable. Manual choices carry confidence 1.0 (self-declared); other/skip
// leaves both the gender and the confidence unset.
func (s *ProfileService) resolveGender(ctx context.Context, fullName string, prompter GenderPrompter) (*models.Gender, *float64) {
	result, err := s.classifier.Classify(ctx, fullName)
	if err != nil {
		s.logger.Warn(ctx, "gender classification failed", "error", err)
	}
	if result != nil {
		conf := result.Confidence
		g := result.Gender
		return &g, &conf
	}

	manual, err := prompter.PromptManualGender(ctx)
	if err != nil || manual == nil {
		return nil, nil
	}
	conf := 1.0
	return manual, &conf
}

// Register validates the input, enriches it with a gender classification
// (automatic with manual fallback), and creates the account. The duplicate
// check and the insert run in one transaction; a duplicate email performs no
// write.
func (s *ProfileService) Register(ctx context.Context, in *RegisterInput, prompter GenderPrompter) (*models.User, error) {
	if err := validateRegistration(in); err != nil {
		return nil, err
	}

	// classification happens before the transaction so no connection is held
	// across a network call or an interactive prompt
	g, conf := s.resolveGender(ctx, in.Name, prompter)

	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Name:             in.Name,
		Email:            in.Email,
		PasswordHash:     hash,
		Gender:           g,
		GenderConfidence: conf,
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Users(tx)

		_, err := repo.GetByEmail(ctx, in.Email)
		if err == nil {
			return common.ErrorDuplicateEmail
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("error checking email: %w", err)
		}

		user, err = repo.Create(ctx, user)
		return err
	}); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "account created", "email", user.Email)
	return user, nil
}

// Edit applies the requested changes to an authenticated account. If the
// given name changed, the gender is reclassified; when reclassification is
// unavailable the prior gender and confidence are kept, not cleared.
func (s *ProfileService) Edit(ctx context.Context, current *models.User, in *EditInput) (*models.User, error) {
	updated := *current

	if in.Name != "" {
		if !nameRe.MatchString(in.Name) {
			return nil, fmt.Errorf("%w: name contains invalid characters", common.ErrorValidation)
		}
		updated.Name = in.Name
	}
	if in.Email != "" {
		if !emailRe.MatchString(in.Email) {
			return nil, fmt.Errorf("%w: invalid email format", common.ErrorValidation)
		}
		updated.Email = in.Email
	}
	if len(in.Password) > 0 {
		if len(in.Password) < minPasswordLength {
			return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, minPasswordLength)
		}
		hash, err := password.Hash(in.Password)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
		updated.PasswordHash = hash
	}

	if !strings.EqualFold(updated.GivenName(), current.GivenName()) {
		result, err := s.classifier.Classify(ctx, updated.Name)
		if err != nil {
			s.logger.Warn(ctx, "gender reclassification failed, keeping previous value", "error", err)
		}
		if result != nil {
			g := result.Gender
			conf := result.Confidence
			updated.Gender = &g
			updated.GenderConfidence = &conf
		}
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Users(tx)

		if updated.Email != current.Email {
			if _, err := repo.GetByEmail(ctx, updated.Email); err == nil {
				return common.ErrorDuplicateEmail
			} else if !errors.Is(err, common.ErrorNotFound) {
				return fmt.Errorf("error checking email: %w", err)
			}
		}

		return repo.Update(ctx, &updated)
	}); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "account updated", "id", updated.ID)
	return &updated, nil
}

// Delete irreversibly removes an authenticated account.
func (s *ProfileService) Delete(ctx context.Context, user *models.User) error {
	repo := s.repos.Users(s.db)
	if err := repo.Delete(ctx, user.ID); err != nil {
		return err
	}
	s.logger.Info(ctx, "account deleted", "id", user.ID)
	return nil
}

// List returns all accounts ordered by name, without credentials or secrets.
func (s *ProfileService) List(ctx context.Context) ([]*userrepo.ListedUser, error) {
	return s.repos.Users(s.db).List(ctx)
}

// Statistics returns the per-gender account counts and average confidences.
func (s *ProfileService) Statistics(ctx context.Context) ([]*userrepo.GenderStat, error) {
	return s.repos.Users(s.db).StatsByGender(ctx)
}
