package commands

import (
	"github.com/spf13/cobra"
)

func newHelpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "help [command]",
		Short: "Show comprehensive help for rangelog",
		Long:  `Display detailed help for all rangelog commands, or for one command.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) > 0 {
				if target, _, err := cmd.Root().Find(args); err == nil && target != cmd.Root() {
					_ = target.Help()
					return
				}
			}
			printf(cmd, "%s", customHelp)
		},
	}
}

const customHelp = `
┬─┐┌─┐┌┐┌┌─┐┌─┐┬  ┌─┐┌─┐
├┬┘├─┤││││ ┬├┤ │  │ ││ ┬
┴└─┴ ┴┘└┘└─┘└─┘┴─┘└─┘└─┘

rangelog - Range Session Logger

COMMANDS:

  firearm add <name>        Add a firearm with smart parsing
    --caliber               Caliber
    --class                 handgun|rifle|shotgun|other
    --mag                   Magazine capacities (comma-separated)

    Smart syntax:
      @9mm          Caliber
      #handgun      Class
      mag:15,17     Magazines

    Example:
      rangelog firearm add "Glock 19 @9mm #handgun mag:15,17"

  firearm ls                List firearms with lifetime round counts
  firearm rm <firearm>      Delete a firearm, its magazines and its runs
  firearm mag <f> <cap>     Add a magazine

  ammo add <name>           Add ammo ("Federal @9mm 115gr #fmj x50")
  ammo ls / rm <ammo>       List or delete ammo (runs keep their history)

  session start             Start the session clock
  session pause / resume    Pause or resume the clock
  session end               End the session and its open run
  session reset             Abandon the session
  session status            Show the live session
  session note <text>       Note on the live session
  session ls / rm <id>      List or delete sessions

  run start <firearm>       Start a run (closes the current one)
    --ammo, --mag           Ammo and magazine for the run
  run continue [run]        New run with the same firearm, magazine and ammo
  run end                   Close the active run
  run rounds <entry>        +17, -- -5, 120, mag, -mag
  run malf <kind> [n]       ftf, ftx, stovepipe, fte, ls, df, ftlb, other
    --undo                  Take malfunctions back off
  run note / ammo / mag     Edit the active run (--run for another)
  run photo add <file>      Attach a photo (pro)
  run photo ls/get/rm       Manage photos
  run rm <run>              Delete a run

  stats                     Totals, chart, top firearms, malfunctions
    --range                 7d|30d|90d|ytd|all (over 30 days is pro)
    --by                    day|week
    --top                   Firearms to rank
    --json                  JSON output

  live [firearm]            Interactive live session screen
  version                   Show version
  help                      Show this help

Ids can be given in full, as the short id shown in listings, or (for
firearms and ammo) as part of the name.

`
