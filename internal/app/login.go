package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/usermgmt/internal/common"
	"github.com/dmitrijs2005/usermgmt/internal/services"
)

// promptLogin prompts for credentials and runs the full authentication flow,
// including the second-factor challenge or enrollment offer. It reports the
// failure reason itself and returns nil when authentication did not succeed.
//
// Edit and Delete call it too: those operations always re-ask for credentials
// instead of trusting an earlier login.
func (a *App) promptLogin(ctx context.Context) *services.Session {
	email, err := getSimpleText(a.reader, "Enter your email", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %s\n", err)
		return nil
	}

	password, err := getPassword("Enter your password", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %s\n", err)
		return nil
	}
	defer common.WipeByteArray(password)

	session, err := a.auth.Login(ctx, email, password, a)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorUnknownAccount):
			fmt.Fprintln(a.out, "\nNo account found for this email.")
		case errors.Is(err, common.ErrorInvalidCredentials):
			fmt.Fprintln(a.out, "\nIncorrect password.")
		case errors.Is(err, common.ErrorSecondFactorRejected):
			fmt.Fprintln(a.out, "\nInvalid authenticator code.")
		default:
			fmt.Fprintf(a.out, "Error: %s\n", err)
		}
		return nil
	}

	a.session = session
	return session
}

// runLogin authenticates the user and greets them.
func (a *App) runLogin(ctx context.Context) {
	session := a.promptLogin(ctx)
	if session == nil {
		return
	}

	fmt.Fprintf(a.out, "\n%s\n", session.Greeting)
	fmt.Fprintln(a.out, "Login successful!")

	if session.EnrollmentErr != nil {
		fmt.Fprintln(a.out, "Two-factor setup did not complete; you can retry on your next login.")
	}
}
