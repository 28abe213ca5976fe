package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/usermgmt/internal/common"
	"github.com/dmitrijs2005/usermgmt/internal/services"
)

// runEdit updates a user's profile. The credentials are re-entered and fully
// verified on every edit, even right after a menu login. Empty answers keep
// the current values.
func (a *App) runEdit(ctx context.Context) {
	session := a.promptLogin(ctx)
	if session == nil {
		return
	}
	current := session.User

	fmt.Fprintf(a.out, "\nEditing profile of %s (%s). Leave a field empty to keep it.\n",
		current.Name, current.Email)

	name, err := getSimpleText(a.reader, "New name", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %s\n", err)
		return
	}

	email, err := getSimpleText(a.reader, "New email", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %s\n", err)
		return
	}

	password, err := getPassword("New password (empty keeps the current one)", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %s\n", err)
		return
	}
	defer common.WipeByteArray(password)

	updated, err := a.profile.Edit(ctx, current, &services.EditInput{
		Name:     name,
		Email:    email,
		Password: password,
	})
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

	a.session.User = updated
	fmt.Fprintln(a.out, "\nProfile updated.")
}
