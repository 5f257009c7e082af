package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kennyg/waypoint/internal/installer"
	"github.com/kennyg/waypoint/internal/ui"
)

func newFixCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "fix " + moduleArgs,
		Aliases: []string{"repair"},
		Short:   "Repair missing or broken module files",
		Long: `Recreate every file check reports as missing or broken, using the
same mode semantics as install. Files that are already correct are left
untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd, args); err != nil {
				return err
			}
			return runFix(a)
		},
	}
}

func runFix(a *app) error {
	a.println()
	a.printf("  %s %s %s\n", ui.RenderTitle("Repairing"), ui.ModeBadge(a.opts.Mode.String()), ui.RenderMuted("→ "+a.opts.TargetDir))
	a.println()

	report, err := a.inst.Fix(a.opts)
	repaired := 0
	if report != nil {
		for _, r := range report.Results {
			if r.Action == installer.ActionUnchanged {
				continue
			}
			repaired++
			a.println(ui.SuccessLine(fmt.Sprintf("%s %s", a.rel(r.Entry.Dest), ui.RenderMuted("(was "+r.Before.State.String()+")"))))
		}
	}
	if err != nil {
		return err
	}

	a.println()
	if repaired == 0 {
		a.println(ui.RenderSuccess(fmt.Sprintf("  Nothing to repair; %d file(s) correct.", len(report.Results))))
	} else {
		a.println(ui.RenderSuccess(fmt.Sprintf("  Repaired %d file(s).", repaired)))
	}
	a.println()
	return nil
}
