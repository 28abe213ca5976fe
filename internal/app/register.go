package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/usermgmt/internal/common"
	"github.com/dmitrijs2005/usermgmt/internal/services"
)

// runRegister collects the registration fields, creates the account, and then
// offers two-factor enrollment for the new user.
func (a *App) runRegister(ctx context.Context) {
	name, err := getSimpleText(a.reader, "Enter your full name", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %s\n", err)
		return
	}

	email, err := getSimpleText(a.reader, "Enter your email", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %s\n", err)
		return
	}

	password, err := getPassword("Enter a password", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %s\n", err)
		return
	}

	confirm, err := getPassword("Confirm the password", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %s\n", err)
		return
	}
	defer common.WipeByteArray(password)
	defer common.WipeByteArray(confirm)

	in := &services.RegisterInput{
		Name:            name,
		Email:           email,
		Password:        password,
		ConfirmPassword: confirm,
	}

	user, err := a.profile.Register(ctx, in, a)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorDuplicateEmail):
			fmt.Fprintln(a.out, "\nThis email is already registered.")
		case errors.Is(err, common.ErrorValidation):
			fmt.Fprintf(a.out, "\n%s\n", err)
		default:
			fmt.Fprintf(a.out, "Error: %s\n", err)
		}
		return
	}

	fmt.Fprintf(a.out, "\n%s Your account was created.\n", user.Greeting())

	if err := a.auth.EnrollSecondFactor(ctx, user, a); err != nil {
		fmt.Fprintln(a.out, "Two-factor setup did not complete; you can retry on your next login.")
	}
}
