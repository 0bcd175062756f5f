package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/rangelog/internal/engine"
)

func newSessionCmd() *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:     "session",
		Aliases: []string{"s"},
		Short:   "Start, pause, resume and end range sessions",
	}

	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start a range session",
		Args:  cobra.NoArgs,
		RunE: withEngine(func(cmd *cobra.Command, args []string, a *app) error {
			live := a.engine.Live()
			if s := live.Session(); s != nil {
				printf(cmd, "Session %s already in progress since %s\n", engine.ShortID(s.ID), s.StartedAt.Format("15:04:05"))
				return nil
			}
			s := live.Start()
			printf(cmd, "⏱️  Started session %s\n", engine.ShortID(s.ID))
			printf(cmd, "Started at: %s\n", s.StartedAt.Format("15:04:05"))
			return nil
		}),
	}

	pauseCmd := &cobra.Command{
		Use:   "pause",
		Short: "Pause the session clock",
		Args:  cobra.NoArgs,
		RunE: withEngine(func(cmd *cobra.Command, args []string, a *app) error {
			live := a.engine.Live()
			if live.Session() == nil {
				return engine.ErrNoLiveSession
			}
			live.Pause()
			printf(cmd, "%s Session %s at %s\n", stateIcon(live.State()), live.State(), formatDuration(live.Elapsed()))
			return nil
		}),
	}

	resumeCmd := &cobra.Command{
		Use:   "resume",
		Short: "Resume a paused session clock",
		Args:  cobra.NoArgs,
		RunE: withEngine(func(cmd *cobra.Command, args []string, a *app) error {
			live := a.engine.Live()
			if live.Session() == nil {
				return engine.ErrNoLiveSession
			}
			live.Resume()
			printf(cmd, "%s Session %s at %s\n", stateIcon(live.State()), live.State(), formatDuration(live.Elapsed()))
			return nil
		}),
	}

	endCmd := &cobra.Command{
		Use:   "end",
		Short: "End the session and close its open run",
		Args:  cobra.NoArgs,
		RunE: withEngine(func(cmd *cobra.Command, args []string, a *app) error {
			live := a.engine.Live()
			s := live.Session()
			if s == nil {
				return engine.ErrNoLiveSession
			}
			if err := live.End(cmd.Context()); err != nil {
				return err
			}
			rounds, malfunctions := sessionRounds(s)
			printf(cmd, "⏹️  Ended session %s\n", engine.ShortID(s.ID))
			printf(cmd, "📊 Duration: %s · %d run(s) · %d rounds · %d malfunction(s)\n",
				formatDuration(live.Elapsed()), len(s.Runs), rounds, malfunctions)
			return nil
		}),
	}

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Abandon the live session (discarded if it has no runs)",
		Args:  cobra.NoArgs,
		RunE: withEngine(func(cmd *cobra.Command, args []string, a *app) error {
			live := a.engine.Live()
			s := live.Session()
			if s == nil {
				return engine.ErrNoLiveSession
			}
			hadRuns := len(s.Runs) > 0
			live.Reset()
			if hadRuns {
				printf(cmd, "↩️  Session %s ended and the clock reset\n", engine.ShortID(s.ID))
			} else {
				printf(cmd, "↩️  Session %s discarded\n", engine.ShortID(s.ID))
			}
			return nil
		}),
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the live session",
		Args:  cobra.NoArgs,
		RunE: withEngine(func(cmd *cobra.Command, args []string, a *app) error {
			live := a.engine.Live()
			s := live.Session()
			if s == nil {
				printf(cmd, "No session in progress\n")
				return nil
			}

			rounds, malfunctions := sessionRounds(s)
			printf(cmd, "%s Session %s (%s)\n", stateIcon(live.State()), engine.ShortID(s.ID), live.State())
			printf(cmd, "Started at: %s\n", s.StartedAt.Format("15:04:05"))
			printf(cmd, "Elapsed time: %s\n", formatDuration(live.Elapsed()))
			printf(cmd, "Rounds: %d · Malfunctions: %d\n", rounds, malfunctions)
			if s.Note != "" {
				printf(cmd, "Note: %s\n", s.Note)
			}
			if len(s.Runs) > 0 {
				printf(cmd, "\nRuns:\n")
				for _, r := range s.Runs {
					printf(cmd, "  %s\n", runLine(r))
				}
			}
			return nil
		}),
	}

	noteCmd := &cobra.Command{
		Use:   "note [text]",
		Short: "Set the note on a session (the live one by default)",
		Args:  cobra.ArbitraryArgs,
		RunE: withEngine(func(cmd *cobra.Command, args []string, a *app) error {
			ref, _ := cmd.Flags().GetString("session")
			s := a.engine.Live().Session()
			if ref != "" {
				var err error
				if s, err = a.engine.FindSession(ref); err != nil {
					return err
				}
			}
			if s == nil {
				return engine.ErrNoLiveSession
			}
			a.engine.SetSessionNote(s.ID, strings.Join(args, " "))
			printf(cmd, "📝 Updated note on session %s\n", engine.ShortID(s.ID))
			return nil
		}),
	}
	noteCmd.Flags().String("session", "", "Session id (defaults to the live session)")

	removeCmd := &cobra.Command{
		Use:   "rm [session]",
		Short: "Delete a session and all of its runs",
		Args:  cobra.ExactArgs(1),
		RunE: withEngine(func(cmd *cobra.Command, args []string, a *app) error {
			s, err := a.engine.FindSession(args[0])
			if err != nil {
				return err
			}
			runs := len(s.Runs)
			a.engine.DeleteSession(s.ID)
			printf(cmd, "🗑️  Deleted session %s from %s (%d run(s))\n", engine.ShortID(s.ID), s.StartedAt.Format("Jan 02, 2006"), runs)
			return nil
		}),
	}

	listCmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List sessions, newest first",
		Args:    cobra.NoArgs,
		RunE: withEngine(func(cmd *cobra.Command, args []string, a *app) error {
			sessions := a.engine.Sessions()
			if len(sessions) == 0 {
				printf(cmd, "No sessions yet. Use 'rangelog session start' or 'rangelog live'.\n")
				return nil
			}
			limit, _ := cmd.Flags().GetInt("limit")

			printf(cmd, "%-8s %-18s %-8s %5s %7s %5s  %s\n", "ID", "DATE", "TIME", "RUNS", "ROUNDS", "MALF", "NOTE")
			printf(cmd, "%s\n", strings.Repeat("-", 80))
			shown := 0
			for i := len(sessions) - 1; i >= 0; i-- {
				if limit > 0 && shown == limit {
					break
				}
				s := sessions[i]
				rounds, malfunctions := sessionRounds(s)
				elapsed := formatDuration(a.engine.SessionElapsed(s))
				if s.IsOpen() {
					elapsed += "*"
				}
				printf(cmd, "%-8s %-18s %-8s %5d %7d %5d  %s\n",
					engine.ShortID(s.ID),
					s.StartedAt.Format("Jan 02 2006 15:04"),
					elapsed,
					len(s.Runs),
					rounds,
					malfunctions,
					truncate(s.Note, 30))
				shown++
			}
			return nil
		}),
	}
	listCmd.Flags().IntP("limit", "n", 20, "Maximum sessions to show (0 for all)")

	sessionCmd.AddCommand(startCmd, pauseCmd, resumeCmd, endCmd, resetCmd, statusCmd, noteCmd, removeCmd, listCmd)
	return sessionCmd
}
