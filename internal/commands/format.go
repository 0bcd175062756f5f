package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/balkashynov/rangelog/internal/clock"
	"github.com/balkashynov/rangelog/internal/engine"
	"github.com/balkashynov/rangelog/internal/models"
)

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d.Hours() >= 1 {
		return fmt.Sprintf("%.1fh", d.Hours())
	} else if d.Minutes() >= 1 {
		return fmt.Sprintf("%.0fm", d.Minutes())
	} else {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
}

// truncate shortens s to n characters with an ellipsis
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func sessionRounds(s *models.Session) (rounds, malfunctions int) {
	for _, r := range s.Runs {
		rounds += r.Rounds
		malfunctions += r.MalfunctionTotal
	}
	return rounds, malfunctions
}

// runLine is the one-line summary used by run and session output
func runLine(r *models.Run) string {
	name := "unknown firearm"
	if r.Firearm != nil {
		name = r.Firearm.DisplayName()
	}
	state := "done"
	if r.IsOpen() {
		state = "open"
	}
	line := fmt.Sprintf("%-8s %-30s %5d rds  %2d malf  %s", engine.ShortID(r.ID), truncate(name, 30), r.Rounds, r.MalfunctionTotal, state)
	if r.Ammo != nil {
		line += "  " + r.Ammo.DisplayName()
	}
	return line
}

func stateIcon(s clock.State) string {
	switch s {
	case clock.Running:
		return "⏱️ "
	case clock.Paused:
		return "⏸️ "
	case clock.Ended:
		return "⏹️ "
	}
	return "○"
}

// joinErrors renders parser errors as one message
func joinErrors(errs []string) error {
	return fmt.Errorf("%s", strings.Join(errs, "; "))
}
