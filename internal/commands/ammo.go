package commands

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/rangelog/internal/engine"
	"github.com/balkashynov/rangelog/internal/parser"
)

func newAmmoCmd() *cobra.Command {
	ammoCmd := &cobra.Command{
		Use:   "ammo",
		Short: "Manage ammunition products",
	}

	addCmd := &cobra.Command{
		Use:   "add [brand]",
		Short: "Add an ammo product",
		Long: `Add an ammo product.

Smart parsing syntax:
  @caliber      - Caliber (required)
  115gr         - Bullet weight in grains
  #type         - fmj, jhp, sp, hp, match or other
  x50           - Rounds per box

Example:
  rangelog ammo add "Federal American Eagle @9mm 115gr #fmj x50"`,
		Args: cobra.MinimumNArgs(1),
		RunE: withEngine(func(cmd *cobra.Command, args []string, a *app) error {
			parsed := parser.ParseAmmo(strings.Join(args, " "))
			if len(parsed.Errors) > 0 {
				return joinErrors(parsed.Errors)
			}

			p := a.engine.AddAmmo(engine.AmmoInput{
				Brand:       parsed.Brand,
				Caliber:     parsed.Caliber,
				GrainWeight: parsed.GrainWeight,
				BulletType:  parsed.BulletType,
				BoxQuantity: parsed.BoxQuantity,
			})
			printf(cmd, "📦 Added ammo %s: %s\n", engine.ShortID(p.ID), p.DisplayName())
			return nil
		}),
	}

	listCmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List ammo products",
		Args:    cobra.NoArgs,
		RunE: withEngine(func(cmd *cobra.Command, args []string, a *app) error {
			products := a.engine.AmmoProducts()
			if len(products) == 0 {
				printf(cmd, "No ammo yet. Use 'rangelog ammo add \"Federal @9mm 115gr\"' to add one.\n")
				return nil
			}

			printf(cmd, "%-8s %-40s %s\n", "ID", "AMMO", "BOX")
			printf(cmd, "%s\n", strings.Repeat("-", 60))
			for _, p := range products {
				box := "-"
				if p.BoxQuantity != nil {
					box = strconv.Itoa(*p.BoxQuantity)
				}
				printf(cmd, "%-8s %-40s %s\n", engine.ShortID(p.ID), truncate(p.DisplayName(), 40), box)
			}
			return nil
		}),
	}

	removeCmd := &cobra.Command{
		Use:   "rm [ammo]",
		Short: "Delete an ammo product",
		Long:  "Delete an ammo product. Runs that used it are kept with no ammo recorded.",
		Args:  cobra.ExactArgs(1),
		RunE: withEngine(func(cmd *cobra.Command, args []string, a *app) error {
			p, err := a.engine.FindAmmo(args[0])
			if err != nil {
				return err
			}
			a.engine.DeleteAmmo(p.ID)
			printf(cmd, "🗑️  Deleted ammo %s: %s\n", engine.ShortID(p.ID), p.DisplayName())
			return nil
		}),
	}

	ammoCmd.AddCommand(addCmd, listCmd, removeCmd)
	return ammoCmd
}
