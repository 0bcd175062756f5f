package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/rangelog/internal/clock"
	"github.com/balkashynov/rangelog/internal/engine"
	"github.com/balkashynov/rangelog/internal/models"
	"github.com/balkashynov/rangelog/internal/parser"
)

// inputMode is what the prompt line is collecting, if anything
type inputMode int

const (
	modeNone inputMode = iota
	modeRounds
	modeMalfunction
	modeFirearm
)

var logoLines = []string{
	"┬─┐┌─┐┌┐┌┌─┐┌─┐┬  ┌─┐┌─┐",
	"├┬┘├─┤││││ ┬├┤ │  │ ││ ┬",
	"┴└─┴ ┴┘└┘└─┘└─┘┴─┘└─┘└─┘",
}

// LiveModel is the live session screen. Every change goes straight to the
// engine; the screen only reads state back out of it.
type LiveModel struct {
	ctx    context.Context
	engine *engine.Engine
	live   *engine.LiveSession

	width  int
	height int

	input textinput.Model
	mode  inputMode

	// one-line feedback under the panels
	flash    string
	flashErr bool

	ended   bool // session was ended from the screen
	leaving bool // user left with the session still open
}

// tickMsg is sent every second so the clock re-renders
type tickMsg struct{}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// NewLiveModel creates the live screen for e's live session
func NewLiveModel(ctx context.Context, e *engine.Engine) LiveModel {
	input := textinput.New()
	input.Width = 40
	input.CharLimit = 40
	input.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	input.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))
	input.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))

	return LiveModel{
		ctx:    ctx,
		engine: e,
		live:   e.Live(),
		input:  input,
	}
}

// Init starts the clock ticker
func (m LiveModel) Init() tea.Cmd {
	return tick()
}

// Update handles messages
func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.ended || m.leaving {
			return m, nil
		}
		return m, tick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.mode != modeNone {
			return m.updateInput(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m LiveModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.flash, m.flashErr = "", false

	switch msg.String() {
	case "ctrl+c", "esc", "q":
		m.leaving = true
		return m, tea.Quit

	case " ":
		switch m.live.State() {
		case clock.Running:
			m.live.Pause()
		case clock.Paused:
			m.live.Resume()
		}

	case "+", "=":
		m.adjustRounds(1)
	case "-", "_":
		m.adjustRounds(-1)
	case "]":
		m.adjustMagazine(1)
	case "[":
		m.adjustMagazine(-1)

	case "r":
		return m.prompt(modeRounds, "+17, -5, 120 or mag")
	case "m":
		return m.prompt(modeMalfunction, "ftf, ftx, stovepipe, fte, ls, df, ftlb, other")
	case "f":
		return m.prompt(modeFirearm, "firearm name or id")

	case "n":
		if r := m.live.ContinueLast(); r != nil {
			m.flash = "New run with " + firearmName(r)
		} else {
			m.setError("No run to continue. Press f to pick a firearm")
		}

	case "x":
		if m.live.ActiveRun() != nil {
			m.live.EndActiveRun()
			m.flash = "Run closed"
		}

	case "e":
		if err := m.live.End(m.ctx); err != nil {
			m.setError(err.Error() + " (press e to retry)")
			return m, nil
		}
		m.ended = true
		return m, tea.Quit
	}

	return m, nil
}

// prompt opens the input line for mode
func (m LiveModel) prompt(mode inputMode, placeholder string) (tea.Model, tea.Cmd) {
	m.mode = mode
	m.input.Reset()
	m.input.Placeholder = placeholder
	m.input.Focus()
	return m, textinput.Blink
}

func (m LiveModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNone
		m.input.Blur()
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.mode = modeNone
		m.input.Blur()
		if value != "" {
			m.submit(mode, value)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *LiveModel) submit(mode inputMode, value string) {
	switch mode {
	case modeRounds:
		entry, err := parser.ParseRoundEntry(value)
		if err != nil {
			m.setError(err.Error())
			return
		}
		switch entry.Kind {
		case parser.EntryDelta:
			m.adjustRounds(entry.Value)
		case parser.EntryTotal:
			if r := m.activeRun(); r != nil {
				m.engine.SetRounds(r.ID, entry.Value)
			}
		case parser.EntryMagazine:
			m.adjustMagazine(entry.Value)
		}

	case modeMalfunction:
		kind, err := parser.ParseMalfunctionKind(value)
		if err != nil {
			m.setError(err.Error())
			return
		}
		if r := m.activeRun(); r != nil {
			m.engine.AdjustMalfunction(r.ID, kind, 1)
			m.flash = kind.Label() + " logged"
		}

	case modeFirearm:
		f, err := m.engine.FindFirearm(value)
		if err != nil {
			m.setError(err.Error())
			return
		}
		if m.live.StartRun(f.ID) == nil {
			m.setError("Could not start a run with " + f.DisplayName())
			return
		}
		m.flash = "Run started with " + f.DisplayName()
	}
}

// activeRun returns the open run or flashes why there is none
func (m *LiveModel) activeRun() *models.Run {
	if r := m.live.ActiveRun(); r != nil {
		return r
	}
	m.setError("No active run. Press f to pick a firearm or n to continue")
	return nil
}

func (m *LiveModel) adjustRounds(delta int) {
	if r := m.activeRun(); r != nil {
		m.engine.AdjustRounds(r.ID, delta)
	}
}

func (m *LiveModel) adjustMagazine(direction int) {
	r := m.activeRun()
	if r == nil {
		return
	}
	if r.Magazine == nil {
		m.setError("No magazine on this run. Add one with 'rangelog firearm mag'")
		return
	}
	m.engine.AdjustRoundsByMagazine(r.ID, direction)
}

func (m *LiveModel) setError(text string) {
	m.flash, m.flashErr = text, true
}

// View renders the live screen
func (m LiveModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	footer := m.renderFooter()
	contentHeight := m.height - lipgloss.Height(footer) - 1

	// Narrow view: clock panel only
	if m.width < 90 {
		return lipgloss.JoinVertical(lipgloss.Left, m.renderClockPanel(m.width, contentHeight), footer)
	}

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth - 2
	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderClockPanel(leftWidth, contentHeight),
		"  ",
		m.renderRunPanel(rightWidth, contentHeight),
	)
	return lipgloss.JoinVertical(lipgloss.Left, content, footer)
}

// renderClockPanel renders the session clock and totals
func (m LiveModel) renderClockPanel(width, height int) string {
	center := lipgloss.NewStyle().Align(lipgloss.Center).Width(width)
	var components []string

	state := m.live.State()
	header, color := "○  NO SESSION  ○", ColorDisabledText
	switch state {
	case clock.Running:
		header, color = "●  ON THE LINE  ●", ColorSuccess
	case clock.Paused:
		header, color = "‖  PAUSED  ‖", ColorWarning
	case clock.Ended:
		header, color = "■  ENDED  ■", ColorSecondaryText
	}
	components = append(components, center.Foreground(lipgloss.Color(color)).Bold(true).Render(header))

	clockColor := ColorAccentBright
	if state != clock.Running {
		clockColor = ColorSecondaryText
	}
	var clockLines []string
	for _, line := range strings.Split(renderBigClock(m.live.Elapsed(), clockColor), "\n") {
		clockLines = append(clockLines, center.Render(line))
	}
	components = append(components, strings.Join(clockLines, "\n"))

	if s := m.live.Session(); s != nil {
		rounds, malfunctions := 0, 0
		for _, r := range s.Runs {
			rounds += r.Rounds
			malfunctions += r.MalfunctionTotal
		}
		info := fmt.Sprintf("Started at %s · %d run(s) · %d rounds · %d malf",
			s.StartedAt.Format("15:04"), len(s.Runs), rounds, malfunctions)
		components = append(components, center.Foreground(lipgloss.Color(ColorSecondaryText)).Italic(true).Render(info))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(components, "\n\n"))
}

// renderRunPanel renders the active run's counters
func (m LiveModel) renderRunPanel(width, height int) string {
	var b strings.Builder
	center := lipgloss.NewStyle().Align(lipgloss.Center).Width(width - 8)

	b.WriteString("\n")
	b.WriteString(center.Foreground(lipgloss.Color(ColorAccentMain)).Bold(true).Render(strings.Join(logoLines, "\n")))
	b.WriteString("\n\n")
	b.WriteString(center.Foreground(lipgloss.Color(ColorBorder)).Render(strings.Repeat("─", min(width-12, 40))))
	b.WriteString("\n\n")

	r := m.live.ActiveRun()
	if r == nil {
		b.WriteString(center.Foreground(lipgloss.Color(ColorDisabledText)).Render("No active run\n\nf pick a firearm · n continue the last run"))
		return lipgloss.NewStyle().Width(width).Height(height).Render(b.String())
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Width(width-12).
		Padding(0, 1)
	b.WriteString(titleStyle.Render(firearmName(r)))
	b.WriteString("\n\n")

	rounds := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true).Render(fmt.Sprintf("%d", r.Rounds))
	b.WriteString(center.Render("🔢 Rounds: " + rounds))
	b.WriteString("\n")

	b.WriteString(center.Render("📎 Magazine: " + valueOrNone(r.Magazine != nil, func() string { return r.Magazine.DisplayName() })))
	b.WriteString("\n")
	b.WriteString(center.Render("📦 Ammo: " + valueOrNone(r.Ammo != nil, func() string { return r.Ammo.DisplayName() })))
	b.WriteString("\n")

	malfColor := ColorDisabledText
	if r.MalfunctionTotal > 0 {
		malfColor = ColorError
	}
	malf := lipgloss.NewStyle().Foreground(lipgloss.Color(malfColor)).Render(fmt.Sprintf("%d", r.MalfunctionTotal))
	b.WriteString(center.Render("⚠️  Malfunctions: " + malf))
	b.WriteString("\n")
	for _, t := range r.Malfunctions {
		if t.Count == 0 {
			continue
		}
		line := fmt.Sprintf("%s × %d", t.Kind.Label(), t.Count)
		b.WriteString(center.Foreground(lipgloss.Color(ColorSecondaryText)).Render(line))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().Width(width).Height(height).Render(b.String())
}

// renderFooter renders the prompt or flash line above the help bar
func (m LiveModel) renderFooter() string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width)

	if m.mode != modeNone {
		label := map[inputMode]string{
			modeRounds:      "Rounds",
			modeMalfunction: "Malfunction",
			modeFirearm:     "Firearm",
		}[m.mode]
		line := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true).Render(label+": ") + m.input.View()
		return lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Width(m.width).Align(lipgloss.Center).Render(line),
			helpStyle.Render("enter apply · esc cancel"))
	}

	flashColor := ColorSuccess
	if m.flashErr {
		flashColor = ColorError
	}
	flash := lipgloss.NewStyle().Foreground(lipgloss.Color(flashColor)).Width(m.width).Align(lipgloss.Center).Render(m.flash)
	help := "space pause/resume · +/- round · ]/[ magazine · r rounds · m malfunction · f firearm · n next run · x close run · e end · q leave"
	return lipgloss.JoinVertical(lipgloss.Left, flash, helpStyle.Render(help))
}

func firearmName(r *models.Run) string {
	if r.Firearm == nil {
		return "Unknown firearm"
	}
	return r.Firearm.DisplayName()
}

func valueOrNone(ok bool, value func() string) string {
	if !ok {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText)).Render("none")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText)).Render(value())
}
