package app

import (
	"context"
	"fmt"
	"text/tabwriter"
)

// runList prints every registered user, ordered by name.
func (a *App) runList(ctx context.Context) {
	users, err := a.profile.List(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %s\n", err)
		return
	}

	if len(users) == 0 {
		fmt.Fprintln(a.out, "\nNo users registered yet.")
		return
	}

	fmt.Fprintln(a.out)
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tGENDER")
	for _, u := range users {
		g := "-"
		if u.Gender != nil {
			g = string(*u.Gender)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, g)
	}
	w.Flush()
}
