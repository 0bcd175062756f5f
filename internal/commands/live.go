package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/balkashynov/rangelog/internal/engine"
	"github.com/balkashynov/rangelog/internal/tui"
)

func newLiveCmd() *cobra.Command {
	liveCmd := &cobra.Command{
		Use:   "live [firearm]",
		Short: "Open the live session screen",
		Long: `Open the interactive live session screen, starting a session if none is
in progress. Passing a firearm starts a run with it.

Keys:
  space       Pause / resume the clock
  + / -       One round up / down
  ] / [       One magazine up / down
  r           Type a round total or entry (+17, 120, mag)
  m           Log a malfunction (ftf, stovepipe, ls, ...)
  f           Start a run with another firearm
  n           New run with the same firearm
  x           Close the active run
  e           End the session
  q / esc     Leave (the session keeps running)`,
		Args: cobra.MaximumNArgs(1),
		RunE: withEngine(func(cmd *cobra.Command, args []string, a *app) error {
			live := a.engine.Live()
			if live.Session() == nil {
				live.Start()
			}
			if len(args) == 1 {
				f, err := a.engine.FindFirearm(args[0])
				if err != nil {
					return err
				}
				live.StartRun(f.ID)
			}

			// save in the background while the screen is up
			ctx, cancel := context.WithCancel(cmd.Context())
			done := make(chan struct{})
			go func() {
				defer close(done)
				a.engine.Queue().Run(ctx, a.cfg.FlushInterval)
			}()

			outcome, err := tui.RunLive(cmd.Context(), a.engine)
			cancel()
			<-done
			if err != nil {
				return err
			}

			s := outcome.Session
			if s == nil {
				return nil
			}
			rounds, malfunctions := sessionRounds(s)
			if outcome.Ended {
				printf(cmd, "⏹️  Ended session %s\n", engine.ShortID(s.ID))
				printf(cmd, "📊 Duration: %s · %d run(s) · %d rounds · %d malfunction(s)\n",
					formatDuration(outcome.Elapsed), len(s.Runs), rounds, malfunctions)
				return nil
			}
			printf(cmd, "\n💡 Session %s is still %s (%s so far)\n", engine.ShortID(s.ID), outcome.State, formatDuration(outcome.Elapsed))
			printf(cmd, "   Use 'rangelog live' to return or 'rangelog session end' to finish it.\n")
			return nil
		}),
	}
	return liveCmd
}
