package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/rangelog/internal/clock"
	"github.com/balkashynov/rangelog/internal/engine"
	"github.com/balkashynov/rangelog/internal/models"
)

// Outcome reports how the live screen was left
type Outcome struct {
	Session *models.Session
	Ended   bool
	State   clock.State
	Elapsed time.Duration
}

// RunLive runs the live session screen until the user ends the session or
// leaves it
func RunLive(ctx context.Context, e *engine.Engine) (Outcome, error) {
	model := NewLiveModel(ctx, e)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := p.Run()
	if err != nil {
		return Outcome{}, err
	}

	m := finalModel.(LiveModel)
	live := e.Live()
	return Outcome{
		Session: live.Session(),
		Ended:   m.ended,
		State:   live.State(),
		Elapsed: live.Elapsed(),
	}, nil
}
