package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kennyg/waypoint/internal/installer"
	"github.com/kennyg/waypoint/internal/ui"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "check [module] [CLAUDE_DIR=path]",
		Aliases: []string{"status", "doctor"},
		Short:   "Verify installed module files",
		Long: `Report whether every file install would create is present and,
for symlinks, pointing at this repository. Nothing is modified.

Exits nonzero if any file is missing or broken.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd, args); err != nil {
				return err
			}
			return runCheck(a)
		},
	}
}

func runCheck(a *app) error {
	result, err := a.inst.Check(a.opts)
	if err != nil {
		return err
	}

	a.println()
	a.println(ui.SectionHeader("Checking " + a.opts.TargetDir))
	a.println()

	current := ""
	for _, es := range result.Entries {
		if es.Entry.Module != current {
			if current != "" {
				a.println()
			}
			current = es.Entry.Module
			a.printf("  %s\n", ui.RenderHighlight(current))
		}
		a.println("  " + statusLine(a, es))
	}

	a.println()
	if result.OK() {
		a.println(ui.RenderSuccess(fmt.Sprintf("  All %d file(s) installed correctly.", len(result.Entries))))
		a.println(ui.PageFooter())
		return nil
	}

	a.println(ui.RenderError(fmt.Sprintf("  %d missing, %d broken.",
		result.Count(installer.StateMissing),
		result.Count(installer.StateBroken))))
	a.println(ui.RenderMuted("  Run 'waypoint fix' to repair."))
	a.println(ui.PageFooter())
	return errCheckFailed
}

// statusLine renders a single classified entry
func statusLine(a *app, es installer.EntryStatus) string {
	name := a.rel(es.Entry.Dest)
	st := es.Status

	switch st.State {
	case installer.StateCorrect:
		return ui.SuccessLine(name)
	case installer.StateMissing:
		return ui.ErrorLine(name + " " + ui.RenderMuted("(missing)"))
	default:
		detail := st.Reason
		if st.Actual != "" && st.Reason != installer.ReasonNotFile {
			detail = fmt.Sprintf("%s: %s, expected %s", st.Reason, st.Actual, st.Expected)
		}
		return ui.ErrorLine(name + " " + ui.RenderMuted("(broken: "+detail+")"))
	}
}
