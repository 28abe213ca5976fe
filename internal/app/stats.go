package app

import (
	"context"
	"fmt"
	"text/tabwriter"
)

// runStatistics prints the per-gender user counts and the average
// classification confidence of each group.
func (a *App) runStatistics(ctx context.Context) {
	stats, err := a.profile.Statistics(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %s\n", err)
		return
	}

	if len(stats) == 0 {
		fmt.Fprintln(a.out, "\nNo users registered yet.")
		return
	}

	fmt.Fprintln(a.out)
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GENDER\tUSERS\tAVG CONFIDENCE")
	for _, s := range stats {
		fmt.Fprintf(w, "%s\t%d\t%.2f\n", s.Gender, s.Count, s.AvgConfidence)
	}
	w.Flush()
}
