package commands

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/rangelog/internal/engine"
	"github.com/balkashynov/rangelog/internal/models"
	"github.com/balkashynov/rangelog/internal/parser"
)

var errNoActiveRun = errors.New("no active run. Use 'rangelog run start <firearm>' or 'rangelog run continue'")

// targetRun returns the run named by --run, or the live session's open run
func targetRun(cmd *cobra.Command, a *app) (*models.Run, error) {
	if ref, _ := cmd.Flags().GetString("run"); ref != "" {
		return a.engine.FindRun(ref)
	}
	live := a.engine.Live()
	if live.Session() == nil {
		return nil, engine.ErrNoLiveSession
	}
	if r := live.ActiveRun(); r != nil {
		return r, nil
	}
	return nil, errNoActiveRun
}

func addRunFlag(cmd *cobra.Command) {
	cmd.Flags().String("run", "", "Run id (defaults to the live session's active run)")
}

func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:     "run",
		Aliases: []string{"r"},
		Short:   "Log runs within the live session",
	}

	startCmd := &cobra.Command{
		Use:   "start [firearm]",
		Short: "Start a run with a firearm, closing the current one",
		Args:  cobra.ExactArgs(1),
		RunE: withEngine(func(cmd *cobra.Command, args []string, a *app) error {
			live := a.engine.Live()
			if live.Session() == nil {
				return engine.ErrNoLiveSession
			}
			f, err := a.engine.FindFirearm(args[0])
			if err != nil {
				return err
			}

			r := live.StartRun(f.ID)
			if r == nil {
				return fmt.Errorf("could not start a run with %s", f.DisplayName())
			}
			if ref, _ := cmd.Flags().GetString("ammo"); ref != "" {
				p, err := a.engine.FindAmmo(ref)
				if err != nil {
					return err
				}
				a.engine.SetAmmo(r.ID, p.ID)
			}
			if ref, _ := cmd.Flags().GetString("mag"); ref != "" {
				m, err := engine.FindMagazine(f, ref)
				if err != nil {
					return err
				}
				a.engine.SetMagazine(r.ID, m.ID)
			}

			printf(cmd, "🎯 Started run %s with %s\n", engine.ShortID(r.ID), f.DisplayName())
			if r.Magazine != nil {
				printf(cmd, "Magazine: %s\n", r.Magazine.DisplayName())
			}
			if r.Ammo != nil {
				printf(cmd, "Ammo: %s\n", r.Ammo.DisplayName())
			}
			return nil
		}),
	}
	startCmd.Flags().String("ammo", "", "Ammo product")
	startCmd.Flags().String("mag", "", "Magazine capacity or label (defaults to the smallest)")

	continueCmd := &cobra.Command{
		Use:   "continue [run]",
		Short: "Start a new run with the same firearm, magazine and ammo",
		Args:  cobra.MaximumNArgs(1),
		RunE: withEngine(func(cmd *cobra.Command, args []string, a *app) error {
			var r *models.Run
			if len(args) == 1 {
				prior, err := a.engine.FindRun(args[0])
				if err != nil {
					return err
				}
				r = a.engine.ContinueRun(prior.ID)
			} else {
				live := a.engine.Live()
				if live.Session() == nil {
					return engine.ErrNoLiveSession
				}
				r = live.ContinueLast()
			}
			if r == nil {
				return errors.New("nothing to continue: the session has no runs or has ended")
			}
			printf(cmd, "🎯 Continued with run %s\n", engine.ShortID(r.ID))
			printf(cmd, "  %s\n", runLine(r))
			return nil
		}),
	}

	endCmd := &cobra.Command{
		Use:   "end",
		Short: "Close the active run",
		Args:  cobra.NoArgs,
		RunE: withEngine(func(cmd *cobra.Command, args []string, a *app) error {
			r, err := targetRun(cmd, a)
			if err != nil {
				return err
			}
			a.engine.EndActiveRun(r.SessionID)
			printf(cmd, "⏹️  Closed run %s · %d rounds in %s\n", engine.ShortID(r.ID), r.Rounds, formatDuration(r.Duration()))
			return nil
		}),
	}

	removeCmd := &cobra.Command{
		Use:   "rm [run]",
		Short: "Delete a run with its malfunctions and photos",
		Args:  cobra.ExactArgs(1),
		RunE: withEngine(func(cmd *cobra.Command, args []string, a *app) error {
			r, err := a.engine.FindRun(args[0])
			if err != nil {
				return err
			}
			a.engine.DeleteRun(r.ID)
			printf(cmd, "🗑️  Deleted run %s (%d rounds)\n", engine.ShortID(r.ID), r.Rounds)
			return nil
		}),
	}

	roundsCmd := &cobra.Command{
		Use:   "rounds [entry]",
		Short: "Record rounds fired",
		Long: `Record rounds fired on the active run.

Entries:
  +17           Add 17 rounds
  -- -5         Remove 5 rounds (the -- stops flag parsing)
  120 / =120    Set the run total to 120
  mag / -mag    Add or remove one load of the selected magazine

Counts never go below zero.`,
		Args: cobra.ExactArgs(1),
		RunE: withEngine(func(cmd *cobra.Command, args []string, a *app) error {
			entry, err := parser.ParseRoundEntry(args[0])
			if err != nil {
				return err
			}
			r, err := targetRun(cmd, a)
			if err != nil {
				return err
			}

			before := r.Rounds
			switch entry.Kind {
			case parser.EntryDelta:
				a.engine.AdjustRounds(r.ID, entry.Value)
			case parser.EntryTotal:
				a.engine.SetRounds(r.ID, entry.Value)
			case parser.EntryMagazine:
				if r.Magazine == nil {
					return errors.New("the run has no magazine selected. Use 'rangelog run mag <capacity>'")
				}
				a.engine.AdjustRoundsByMagazine(r.ID, entry.Value)
			}

			printf(cmd, "🔢 Run %s: %d → %d rounds\n", engine.ShortID(r.ID), before, r.Rounds)
			return nil
		}),
	}
	addRunFlag(roundsCmd)

	malfCmd := &cobra.Command{
		Use:   "malf [kind] [count]",
		Short: "Log a malfunction",
		Long: `Log a malfunction on the active run.

Kinds: ftf (failure to feed), ftx (failure to extract), stovepipe,
fte (failure to eject), ls (light strike), df (double feed),
ftlb (failure to lock back), other.

Use --undo to take logged malfunctions back off.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: withEngine(func(cmd *cobra.Command, args []string, a *app) error {
			kind, err := parser.ParseMalfunctionKind(args[0])
			if err != nil {
				return err
			}
			count := 1
			if len(args) == 2 {
				if count, err = strconv.Atoi(args[1]); err != nil || count <= 0 {
					return fmt.Errorf("invalid count '%s'", args[1])
				}
			}
			if undo, _ := cmd.Flags().GetBool("undo"); undo {
				count = -count
			}
			r, err := targetRun(cmd, a)
			if err != nil {
				return err
			}

			a.engine.AdjustMalfunction(r.ID, kind, count)
			n := 0
			if t := r.Tally(kind); t != nil {
				n = t.Count
			}
			printf(cmd, "⚠️  %s: %d on run %s (%d total)\n", kind.Label(), n, engine.ShortID(r.ID), r.MalfunctionTotal)
			return nil
		}),
	}
	malfCmd.Flags().Bool("undo", false, "Remove instead of add")
	addRunFlag(malfCmd)

	noteCmd := &cobra.Command{
		Use:   "note [text]",
		Short: "Set the note on a run",
		Args:  cobra.ArbitraryArgs,
		RunE: withEngine(func(cmd *cobra.Command, args []string, a *app) error {
			r, err := targetRun(cmd, a)
			if err != nil {
				return err
			}
			a.engine.SetNotes(r.ID, strings.Join(args, " "))
			printf(cmd, "📝 Updated note on run %s\n", engine.ShortID(r.ID))
			return nil
		}),
	}
	addRunFlag(noteCmd)

	ammoCmd := &cobra.Command{
		Use:   "ammo [ammo|none]",
		Short: "Set the ammo used on a run",
		Args:  cobra.ExactArgs(1),
		RunE: withEngine(func(cmd *cobra.Command, args []string, a *app) error {
			r, err := targetRun(cmd, a)
			if err != nil {
				return err
			}
			ammoID := ""
			label := "none"
			if args[0] != "none" {
				p, err := a.engine.FindAmmo(args[0])
				if err != nil {
					return err
				}
				ammoID, label = p.ID, p.DisplayName()
			}

			if isDefault, _ := cmd.Flags().GetBool("default"); isDefault {
				a.engine.SetDefaultAmmo(r.ID, ammoID)
				printf(cmd, "📦 Default ammo for run %s: %s\n", engine.ShortID(r.ID), label)
				return nil
			}
			a.engine.SetAmmo(r.ID, ammoID)
			printf(cmd, "📦 Ammo for run %s: %s\n", engine.ShortID(r.ID), label)
			return nil
		}),
	}
	ammoCmd.Flags().Bool("default", false, "Set the run's default ammo instead")
	addRunFlag(ammoCmd)

	magCmd := &cobra.Command{
		Use:   "mag [capacity|label|none]",
		Short: "Select the magazine used on a run",
		Args:  cobra.ExactArgs(1),
		RunE: withEngine(func(cmd *cobra.Command, args []string, a *app) error {
			r, err := targetRun(cmd, a)
			if err != nil {
				return err
			}
			if args[0] == "none" {
				a.engine.SetMagazine(r.ID, "")
				printf(cmd, "📎 Cleared magazine on run %s\n", engine.ShortID(r.ID))
				return nil
			}
			m, err := engine.FindMagazine(r.Firearm, args[0])
			if err != nil {
				return err
			}
			a.engine.SetMagazine(r.ID, m.ID)
			printf(cmd, "📎 Magazine for run %s: %s\n", engine.ShortID(r.ID), m.DisplayName())
			return nil
		}),
	}
	addRunFlag(magCmd)

	runCmd.AddCommand(startCmd, continueCmd, endCmd, removeCmd, roundsCmd, malfCmd, noteCmd, ammoCmd, magCmd, newPhotoCmd())
	return runCmd
}

func newPhotoCmd() *cobra.Command {
	photoCmd := &cobra.Command{
		Use:   "photo",
		Short: "Attach target and malfunction photos to runs",
	}

	addCmd := &cobra.Command{
		Use:   "add [file]",
		Short: "Attach a photo to a run",
		Args:  cobra.ExactArgs(1),
		RunE: withEngine(func(cmd *cobra.Command, args []string, a *app) error {
			tagFlag, _ := cmd.Flags().GetString("tag")
			tag, err := parser.ParsePhotoTag(tagFlag)
			if err != nil {
				return err
			}
			r, err := targetRun(cmd, a)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read photo: %w", err)
			}

			p, err := a.engine.AttachPhoto(cmd.Context(), r.ID, tag, data)
			if errors.Is(err, engine.ErrFeatureLocked) {
				return fmt.Errorf("photos are a pro feature (set RANGELOG_PRO=true): %w", err)
			}
			if err != nil {
				return err
			}
			printf(cmd, "📷 Attached %s photo %s to run %s\n", p.Tag, engine.ShortID(p.ID), engine.ShortID(r.ID))
			return nil
		}),
	}
	addCmd.Flags().String("tag", "target", "Photo tag: target|malfunction")
	addRunFlag(addCmd)

	listCmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List a run's photos",
		Args:    cobra.NoArgs,
		RunE: withEngine(func(cmd *cobra.Command, args []string, a *app) error {
			r, err := targetRun(cmd, a)
			if err != nil {
				return err
			}
			if len(r.Photos) == 0 {
				printf(cmd, "No photos on run %s\n", engine.ShortID(r.ID))
				return nil
			}
			for _, p := range r.Photos {
				printf(cmd, "%-8s %-12s %s\n", engine.ShortID(p.ID), p.Tag, p.CreatedAt.Format("Jan 02 15:04"))
			}
			return nil
		}),
	}
	addRunFlag(listCmd)

	getCmd := &cobra.Command{
		Use:   "get [photo] [output-file]",
		Short: "Write a photo's content to a file",
		Args:  cobra.ExactArgs(2),
		RunE: withEngine(func(cmd *cobra.Command, args []string, a *app) error {
			p, err := a.engine.FindPhoto(args[0])
			if err != nil {
				return err
			}
			data, err := a.engine.LoadPhoto(cmd.Context(), p.ID)
			if err != nil {
				return err
			}
			if err := os.WriteFile(args[1], data, 0o644); err != nil {
				return fmt.Errorf("failed to write photo: %w", err)
			}
			printf(cmd, "📷 Wrote %d bytes to %s\n", len(data), args[1])
			return nil
		}),
	}

	removeCmd := &cobra.Command{
		Use:   "rm [photo]",
		Short: "Remove a photo from its run",
		Args:  cobra.ExactArgs(1),
		RunE: withEngine(func(cmd *cobra.Command, args []string, a *app) error {
			p, err := a.engine.FindPhoto(args[0])
			if err != nil {
				return err
			}
			a.engine.DeletePhoto(p.ID)
			printf(cmd, "🗑️  Removed photo %s\n", engine.ShortID(p.ID))
			return nil
		}),
	}

	photoCmd.AddCommand(addCmd, listCmd, getCmd, removeCmd)
	return photoCmd
}
