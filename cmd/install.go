package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kennyg/waypoint/internal/installer"
	"github.com/kennyg/waypoint/internal/ui"
)

func newInstallCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "install " + moduleArgs,
		Short: "Install all modules, or one",
		Long: `Install module files into the Claude directory.

In symlink mode (the default) each destination links to the file in this
repository, so edits show up immediately. In copy mode the files are
copied verbatim.

Examples:
  waypoint install
  waypoint install working-tree
  waypoint install MODE=copy CLAUDE_DIR=/tmp/claude`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd, args); err != nil {
				return err
			}
			return runInstall(a)
		},
	}
}

func runInstall(a *app) error {
	a.println()
	a.printf("  %s %s %s\n", ui.RenderTitle("Installing"), ui.ModeBadge(a.opts.Mode.String()), ui.RenderMuted("→ "+a.opts.TargetDir))
	a.println()

	report, err := a.inst.Install(a.opts)
	if report != nil {
		printResults(a, report)
	}
	if err != nil {
		return err
	}

	a.println()
	a.println(ui.RenderSuccess(fmt.Sprintf("  Installed %d file(s) (%d new, %d replaced, %d unchanged).",
		len(report.Results),
		report.Count(installer.ActionCreated),
		report.Count(installer.ActionReplaced),
		report.Count(installer.ActionUnchanged))))
	a.println()
	return nil
}

// printResults prints one line per entry an operation handled
func printResults(a *app, report *installer.Report) {
	for _, r := range report.Results {
		name := a.rel(r.Entry.Dest)
		switch r.Action {
		case installer.ActionCreated:
			a.println(ui.SuccessLine(name))
		case installer.ActionReplaced:
			a.println(ui.SuccessLine(name + " " + ui.RenderMuted("(replaced)")))
		case installer.ActionUnchanged:
			a.println(ui.SuccessLine(name + " " + ui.RenderDim("(unchanged)")))
		case installer.ActionRemoved:
			a.println(ui.SuccessLine("removed " + name))
		case installer.ActionAbsent:
			a.println(ui.InfoLine(name + " " + ui.RenderDim("(not installed)")))
		case installer.ActionSkipped:
			a.println(ui.WarningLine(name + " left in place (not a file or symlink)"))
		}
	}
}
