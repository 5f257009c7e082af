package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kennyg/waypoint/internal/config"
	"github.com/kennyg/waypoint/internal/installer"
	"github.com/kennyg/waypoint/internal/logging"
	"github.com/kennyg/waypoint/internal/module"
	"github.com/kennyg/waypoint/internal/ui"
)

var (
	// Version is set at build time
	Version = "dev"
)

// errCheckFailed signals a nonzero exit without an extra error message;
// check has already printed what is wrong.
var errCheckFailed = errors.New("check failed")

// app carries what a command needs once flags, environment and make-style
// assignments have been resolved.
type app struct {
	out    io.Writer
	opts   config.Options
	logger *log.Logger
	inst   *installer.Installer

	claudeDir string
	mode      string
	source    string
	verbose   bool
}

// NewRootCmd builds the waypoint command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "waypoint",
		Short: "Install agent and command modules into Claude",
		Long: ui.Logo() + `
  Waypoint installs, checks, repairs and removes modules of agent and
  command files in your Claude directory, as symlinks or as copies.

  Variables may also be given make-style, e.g. CLAUDE_DIR=/tmp/claude MODE=copy.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.claudeDir, "claude-dir", "", "installation root (env CLAUDE_DIR, default ~/.claude)")
	pf.StringVar(&a.mode, "mode", "", "deployment mode: symlink or copy (env MODE)")
	pf.StringVar(&a.source, "source", "", "repository to read modules from (env WAYPOINT_ROOT, default .)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "log every filesystem operation")

	root.AddCommand(
		newListCmd(a),
		newInstallCmd(a),
		newUninstallCmd(a),
		newCheckCmd(a),
		newFixCmd(a),
		newCleanCmd(a),
		newVersionCmd(),
	)

	return root
}

// Execute runs the root command
func Execute() error {
	return execute(NewRootCmd())
}

func execute(root *cobra.Command) error {
	err := root.Execute()
	if err != nil && !errors.Is(err, errCheckFailed) {
		printError(root.ErrOrStderr(), err)
	}
	return err
}

// printError prints an error in the error style
func printError(w io.Writer, err error) {
	fmt.Fprintln(w, ui.RenderError("Error: "+err.Error()))
}

// setup resolves configuration for cmd and returns the remaining
// positional module name, if any.
func (a *app) setup(cmd *cobra.Command, args []string) error {
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
	if len(rest) > 1 {
		return fmt.Errorf("expected at most one module, got %d: %v", len(rest), rest)
	}

	opts, err := config.Load(v)
	if err != nil {
		return err
	}
	if len(rest) == 1 {
		opts.Module = rest[0]
	}

	a.out = cmd.OutOrStdout()
	a.opts = opts
	a.logger = logging.New(cmd.ErrOrStderr(), opts.Verbose)

	provider, err := module.NewDirProvider(opts.SourceDir)
	if err != nil {
		return err
	}
	a.inst = installer.New(provider, installer.WithLogger(a.logger))

	a.logger.Debug("configured",
		"target", opts.TargetDir,
		"source", opts.SourceDir,
		"mode", opts.Mode,
		"module", opts.Module)
	return nil
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for key, flag := range map[string]*pflag.Flag{
		config.KeyClaudeDir: cmd.Flag("claude-dir"),
		config.KeyMode:      cmd.Flag("mode"),
		config.KeySource:    cmd.Flag("source"),
		config.KeyVerbose:   cmd.Flag("verbose"),
	} {
		if err := v.BindPFlag(key, flag); err != nil {
			return err
		}
	}
	return nil
}

// rel shortens dest to a path relative to the target root for display
func (a *app) rel(dest string) string {
	if r, err := filepath.Rel(a.opts.TargetDir, dest); err == nil {
		return r
	}
	return dest
}

func (a *app) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "waypoint %s\n", Version)
		},
	}
}

// moduleArgs documents the positional form shared by module-scoped commands
const moduleArgs = "[module] [CLAUDE_DIR=path] [MODE=symlink|copy]"
