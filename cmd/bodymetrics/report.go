package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"bodymetrics/internal/app"
	"bodymetrics/internal/metrics"
	"bodymetrics/internal/progress"

	log "github.com/sirupsen/logrus"
)

// runReport reads one user id per line from in and prints that user's
// progress cards to out. An empty line reloads the current user.
func runReport(ctx context.Context, loader app.Loader, mm *metrics.Manager, in io.Reader, out io.Writer) error {
	view := app.NewProgressView(loader, mm, func(p app.ProgressPage) {
		if err := printPage(out, p); err != nil {
			log.Errorf("report: print page: %s", err)
		}
	})
	defer view.Close()

	if err := view.Select(ctx, 0); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		var err error
		if line == "" {
			err = view.Refresh(ctx)
		} else {
			id, perr := strconv.ParseInt(line, 10, 64)
			if perr != nil || id < 0 {
				log.Warnf("report: skipping invalid user id %q", line)
				continue
			}
			err = view.Select(ctx, id)
		}
		if err != nil && !errors.Is(err, app.ErrStale) {
			return err
		}
	}
	return scanner.Err()
}

func printPage(out io.Writer, p app.ProgressPage) error {
	name := "-"
	for _, u := range p.Users {
		if u.ID == p.UserID {
			name = u.Name
		}
	}
	if _, err := fmt.Fprintf(out, "user %d (%s)\n", p.UserID, name); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tLATEST\tCHANGE\tMIN\tMAX\tGOAL\tPROGRESS")
	for _, c := range p.Cards {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.Type.Name,
			latest(c),
			change(c),
			num(c.Summary.Min),
			num(c.Summary.Max),
			goal(c),
			pct(c.Evaluation),
		)
	}
	return tw.Flush()
}

func latest(c progress.Card) string {
	if c.Summary.Latest == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f %s", c.Summary.Latest.Value, c.Summary.Latest.Unit)
}

func change(c progress.Card) string {
	if c.Summary.Delta == nil {
		return "-"
	}
	s := fmt.Sprintf("%+.1f", *c.Summary.Delta)
	if c.Summary.PercentChange != nil {
		s += fmt.Sprintf(" (%+.1f%%)", *c.Summary.PercentChange)
	}
	return s
}

func goal(c progress.Card) string {
	if c.Goal == nil {
		return "-"
	}
	return fmt.Sprintf("%s %.1f", c.Goal.GoalType, c.Goal.GoalValue)
}

func pct(e *progress.Evaluation) string {
	switch {
	case e == nil:
		return "-"
	case e.Achieved:
		return "achieved"
	case e.ProgressPct == nil:
		return "-"
	default:
		return fmt.Sprintf("%.0f%%", *e.ProgressPct)
	}
}

func num(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}
