package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kennyg/waypoint/internal/config"
	"github.com/kennyg/waypoint/internal/logging"
	"github.com/kennyg/waypoint/internal/ui"
)

// buildArtifacts are the paths, relative to the source root, that clean
// removes. Installed files are never touched.
var buildArtifacts = []string{
	"bin",
	"dist",
	"coverage.out",
	"coverage.html",
}

func newCleanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clean [CLAUDE_DIR=path] [MODE=symlink|copy]",
		Short: "Remove local build and test artifacts",
		Long: `Remove build output and coverage files from the repository.
Installed module files are not affected; use uninstall for that.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setupSource(cmd, args); err != nil {
				return err
			}
			return runClean(a)
		},
	}
}

// setupSource resolves only the source root. Other make-style variables
// are accepted so the Makefile can forward them, but are not validated.
func (a *app) setupSource(cmd *cobra.Command, args []string) error {
	v, err := config.New()
	if err != nil {
		return err
	}
	if err := bindFlags(v, cmd); err != nil {
		return err
	}
	rest, err := config.SplitAssignments(v, args)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("clean takes no module, got %v", rest)
	}

	source, err := config.SourceDir(v)
	if err != nil {
		return err
	}

	a.out = cmd.OutOrStdout()
	a.opts = config.Options{SourceDir: source, Verbose: v.GetBool(config.KeyVerbose)}
	a.logger = logging.New(cmd.ErrOrStderr(), a.opts.Verbose)
	return nil
}

func runClean(a *app) error {
	removed := 0
	for _, name := range buildArtifacts {
		path := filepath.Join(a.opts.SourceDir, name)
		if !exists(path) {
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			return err
		}
		a.logger.Debug("removed", "path", path)
		a.println(ui.SuccessLine("removed " + name))
		removed++
	}

	if removed == 0 {
		a.println(ui.RenderMuted("  Already clean."))
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
