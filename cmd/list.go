package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kennyg/waypoint/internal/artifact"
	"github.com/kennyg/waypoint/internal/ui"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list " + moduleArgs,
		Aliases: []string{"ls"},
		Short:   "Show the modules and files that would be installed",
		Long: `List every available module and the agent and command files
install would create for it. Nothing is written.

Examples:
  waypoint list
  waypoint list working-tree`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd, args); err != nil {
				return err
			}
			return runList(a)
		},
	}
}

func runList(a *app) error {
	plans, err := a.inst.List(a.opts)
	if err != nil {
		return err
	}

	a.println()
	a.println(ui.SectionHeader("Available Modules"))
	a.println()

	if len(plans) == 0 {
		a.println(ui.RenderMuted("  No modules found in " + a.opts.SourceDir))
		a.println(ui.PageFooter())
		return nil
	}

	files := 0
	for _, p := range plans {
		title := ui.RenderHighlight(p.Module.Name)
		if p.Module.Version != "" {
			title += " " + ui.RenderDim("v"+p.Module.Version)
		}
		a.printf("  %s\n", title)
		if p.Module.Description != "" {
			a.printf("    %s\n", ui.RenderMuted(p.Module.Description))
		}

		for _, f := range p.Module.Files() {
			badge := ui.AgentBadge()
			if f.Kind == artifact.KindCommand {
				badge = ui.CmdBadge()
			}
			line := fmt.Sprintf("    %s %s", badge, f.Name)
			if f.Description != "" {
				line += "  " + ui.RenderDim(ui.Truncate(f.Description, 60))
			}
			a.println(line)
			files++
		}

		for _, e := range p.Entries {
			a.logger.Debug("would install", "src", e.Source, "dest", e.Dest)
		}
		a.println()
	}

	a.println(ui.RenderDim(fmt.Sprintf("  %d module(s), %d file(s) → %s", len(plans), files, a.opts.TargetDir)))
	a.println(ui.PageFooter())
	return nil
}
