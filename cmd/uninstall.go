package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kennyg/waypoint/internal/installer"
	"github.com/kennyg/waypoint/internal/ui"
)

func newUninstallCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "uninstall [module] [CLAUDE_DIR=path]",
		Aliases: []string{"remove", "rm"},
		Short:   "Remove installed module files",
		Long: `Remove the files install created, then remove the module's
agents/<module> and commands/<module> directories if they are empty.

Running it when nothing is installed is fine.

Examples:
  waypoint uninstall
  waypoint uninstall working-tree`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd, args); err != nil {
				return err
			}
			return runUninstall(a)
		},
	}
}

func runUninstall(a *app) error {
	a.println()
	a.printf("  %s %s\n", ui.RenderTitle("Uninstalling"), ui.RenderMuted("from "+a.opts.TargetDir))
	a.println()

	report, err := a.inst.Uninstall(a.opts)
	if report != nil {
		printResults(a, report)
		for _, dir := range report.KeptDirs {
			a.println(ui.WarningLine(a.rel(dir) + " kept (contains other files)"))
		}
	}
	if err != nil {
		return err
	}

	a.println()
	removed := report.Count(installer.ActionRemoved)
	if removed == 0 {
		a.println(ui.RenderMuted("  Nothing to remove."))
	} else {
		a.println(ui.RenderSuccess(fmt.Sprintf("  Removed %d file(s) and %d director(ies).", removed, len(report.PrunedDirs))))
	}
	a.println()
	return nil
}
