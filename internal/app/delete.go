package app

import (
	"context"
	"fmt"
)

// runDelete removes an account after a fresh credential check and a
// confirmation. Like edit, it never trusts an earlier menu login.
func (a *App) runDelete(ctx context.Context) {
	session := a.promptLogin(ctx)
	if session == nil {
		return
	}

	ok, err := getConfirmation(a.reader,
		fmt.Sprintf("Delete the account %s? This cannot be undone.", session.User.Email), a.out)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %s\n", err)
		return
	}
	if !ok {
		fmt.Fprintln(a.out, "\nCancelled.")
		return
	}

	if err := a.profile.Delete(ctx, session.User); err != nil {
		fmt.Fprintf(a.out, "Error: %s\n", err)
		return
	}

	a.session = nil
	fmt.Fprintln(a.out, "\nAccount deleted.")
}
