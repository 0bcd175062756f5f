package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/rangelog/internal/engine"
	"github.com/balkashynov/rangelog/internal/parser"
)

func newFirearmCmd() *cobra.Command {
	firearmCmd := &cobra.Command{
		Use:     "firearm",
		Aliases: []string{"gun", "f"},
		Short:   "Manage firearms and their magazines",
	}

	addCmd := &cobra.Command{
		Use:   "add [brand model]",
		Short: "Add a firearm",
		Long: `Add a firearm with optional metadata.

Smart parsing syntax:
  @caliber      - Caliber (e.g. @9mm, @5.56)
  #class        - handgun, rifle, shotgun or other
  mag:15,17     - Magazine capacities

Example:
  rangelog firearm add "Glock 19 @9mm #handgun mag:15,17"`,
		Args: cobra.MinimumNArgs(1),
		RunE: withEngine(func(cmd *cobra.Command, args []string, a *app) error {
			parsed := parser.ParseFirearm(strings.Join(args, " "))

			// Flags override parsed values
			if caliber, _ := cmd.Flags().GetString("caliber"); caliber != "" {
				parsed.Caliber = caliber
			}
			if class, _ := cmd.Flags().GetString("class"); class != "" {
				c, err := parser.ParseFirearmClass(class)
				if err != nil {
					return err
				}
				parsed.Class = c
			}
			if mags, _ := cmd.Flags().GetIntSlice("mag"); len(mags) > 0 {
				parsed.Magazines = append(parsed.Magazines, mags...)
			}
			if len(parsed.Errors) > 0 {
				return joinErrors(parsed.Errors)
			}

			f := a.engine.AddFirearm(engine.FirearmInput{
				Brand:   parsed.Brand,
				Model:   parsed.Model,
				Caliber: parsed.Caliber,
				Class:   parsed.Class,
			})
			for _, capacity := range parsed.Magazines {
				a.engine.AddMagazine(f.ID, capacity, "")
			}

			printf(cmd, "🔫 Added firearm %s: %s\n", engine.ShortID(f.ID), f.DisplayName())
			if len(f.Magazines) > 0 {
				var caps []string
				for _, m := range f.Magazines {
					caps = append(caps, m.DisplayName())
				}
				printf(cmd, "Magazines: %s\n", strings.Join(caps, ", "))
			}
			return nil
		}),
	}
	addCmd.Flags().String("caliber", "", "Caliber")
	addCmd.Flags().String("class", "", "Class: handgun|rifle|shotgun|other")
	addCmd.Flags().IntSlice("mag", nil, "Magazine capacities (comma-separated)")

	listCmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List firearms",
		Args:    cobra.NoArgs,
		RunE: withEngine(func(cmd *cobra.Command, args []string, a *app) error {
			firearms := a.engine.Firearms()
			if len(firearms) == 0 {
				printf(cmd, "No firearms yet. Use 'rangelog firearm add \"Glock 19 @9mm\"' to add one.\n")
				return nil
			}

			printf(cmd, "%-8s %-34s %-8s %8s %s\n", "ID", "FIREARM", "CLASS", "ROUNDS", "MAGAZINES")
			printf(cmd, "%s\n", strings.Repeat("-", 80))
			for _, f := range firearms {
				var caps []string
				for _, m := range f.Magazines {
					caps = append(caps, strconv.Itoa(m.Capacity))
				}
				printf(cmd, "%-8s %-34s %-8s %8d %s\n",
					engine.ShortID(f.ID),
					truncate(f.DisplayName(), 34),
					f.Class,
					f.RoundCount,
					strings.Join(caps, ","))
			}
			return nil
		}),
	}

	removeCmd := &cobra.Command{
		Use:   "rm [firearm]",
		Short: "Delete a firearm with its magazines and every run fired with it",
		Long: `Delete a firearm. Its magazines and all of its runs are deleted too, and
sessions left without runs are removed.`,
		Args: cobra.ExactArgs(1),
		RunE: withEngine(func(cmd *cobra.Command, args []string, a *app) error {
			f, err := a.engine.FindFirearm(args[0])
			if err != nil {
				return err
			}

			runs := 0
			for _, s := range a.engine.Sessions() {
				for _, r := range s.Runs {
					if r.FirearmID == f.ID {
						runs++
					}
				}
			}

			a.engine.DeleteFirearm(f.ID)
			printf(cmd, "🗑️  Deleted firearm %s: %s\n", engine.ShortID(f.ID), f.DisplayName())
			if runs > 0 {
				printf(cmd, "Removed %d run(s) fired with it\n", runs)
			}
			return nil
		}),
	}

	magCmd := &cobra.Command{
		Use:   "mag [firearm] [capacity] [label]",
		Short: "Add a magazine to a firearm",
		Args:  cobra.RangeArgs(2, 3),
		RunE: withEngine(func(cmd *cobra.Command, args []string, a *app) error {
			f, err := a.engine.FindFirearm(args[0])
			if err != nil {
				return err
			}
			capacity, err := strconv.Atoi(args[1])
			if err != nil || capacity <= 0 {
				return fmt.Errorf("invalid capacity '%s'", args[1])
			}
			label := ""
			if len(args) == 3 {
				label = args[2]
			}

			m := a.engine.AddMagazine(f.ID, capacity, label)
			printf(cmd, "📎 Added %s magazine to %s\n", m.DisplayName(), f.DisplayName())
			return nil
		}),
	}

	firearmCmd.AddCommand(addCmd, listCmd, removeCmd, magCmd)
	return firearmCmd
}
