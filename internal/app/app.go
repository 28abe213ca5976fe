// Package app implements the interactive menu shell of the user-management
// tool: prompting, dispatch, and table output. All business logic lives in
// the services package.
package app

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/usermgmt/internal/config"
	"github.com/dmitrijs2005/usermgmt/internal/gender"
	"github.com/dmitrijs2005/usermgmt/internal/logging"
	"github.com/dmitrijs2005/usermgmt/internal/models"
	"github.com/dmitrijs2005/usermgmt/internal/repositories"
	userrepo "github.com/dmitrijs2005/usermgmt/internal/repositories/users"
	"github.com/dmitrijs2005/usermgmt/internal/services"
	"github.com/dmitrijs2005/usermgmt/internal/totp"
)

// authService and profileService define the slice of the service layer the
// shell depends on. Tests provide lightweight fakes.
type authService interface {
	Login(ctx context.Context, email string, plain []byte, prompter services.SecondFactorPrompter) (*services.Session, error)
	EnrollSecondFactor(ctx context.Context, user *models.User, prompter services.SecondFactorPrompter) error
}

type profileService interface {
	Register(ctx context.Context, in *services.RegisterInput, prompter services.GenderPrompter) (*models.User, error)
	Edit(ctx context.Context, current *models.User, in *services.EditInput) (*models.User, error)
	Delete(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]*userrepo.ListedUser, error)
	Statistics(ctx context.Context) ([]*userrepo.GenderStat, error)
}

type App struct {
	config  *config.Config
	auth    authService
	profile profileService
	logger  logging.Logger
	reader  *bufio.Reader
	out     io.Writer
	db      *sql.DB

	// session holds the currently logged-in user, nil before login.
	session *services.Session
}

// NewApp opens the database, runs migrations, and wires the service layer.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := repositories.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	repos := repositories.NewManager()
	engine := totp.NewEngine(c.TOTPIssuer, c.TOTPSkewWindow)
	classifier := gender.NewClassifier(c.GenderAPIEndpoint, c.GenderMinConfidence, c.GenderTimeout)

	return &App{
		config:  c,
		auth:    services.NewAuthService(db, repos, engine, logger),
		profile: services.NewProfileService(db, repos, classifier, logger),
		logger:  logger,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		db:      db,
	}, nil
}

// Close releases the database handle.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) printMenu() {
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "======== MAIN MENU ========")
	fmt.Fprintln(a.out, "1. Login")
	fmt.Fprintln(a.out, "2. Register")
	fmt.Fprintln(a.out, "3. List users")
	fmt.Fprintln(a.out, "4. Edit user")
	fmt.Fprintln(a.out, "5. Delete user")
	fmt.Fprintln(a.out, "6. Gender statistics")
	fmt.Fprintln(a.out, "7. Exit")
}

// Run starts the menu loop. Every operation reports its own failure and the
// loop resumes; the loop ends on option 7, EOF, or context cancellation.
func (a *App) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		a.printMenu()
		option, err := getSimpleText(a.reader, "Choose an option:", a.out)
		if err != nil {
			return
		}

		switch option {
		case "1":
			a.runLogin(ctx)
		case "2":
			a.runRegister(ctx)
		case "3":
			a.runList(ctx)
		case "4":
			a.runEdit(ctx)
		case "5":
			a.runDelete(ctx)
		case "6":
			a.runStatistics(ctx)
		case "7":
			fmt.Fprintln(a.out, "\nBye!")
			return
		default:
			fmt.Fprintln(a.out, "\nInvalid option, try again.")
		}
	}
}
