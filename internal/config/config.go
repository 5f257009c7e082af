package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Following the dot-config specification: https://dot-config.github.io/
// User config: ~/.config/waypoint/config.yaml (or $XDG_CONFIG_HOME/waypoint/)

const (
	// ConfigDir is the subdirectory name under .config
	ConfigDir = "waypoint"
	// ConfigName is the config file name without extension
	ConfigName = "config"

	// DefaultClaudeDir is the target root, relative to the home directory
	DefaultClaudeDir = ".claude"
)

// Viper keys
const (
	KeyClaudeDir = "claude_dir"
	KeyMode      = "mode"
	KeySource    = "source"
	KeyVerbose   = "verbose"
)

// envKeys maps each key to the environment variable (and make-style
// KEY=VALUE argument) that sets it.
var envKeys = map[string]string{
	KeyClaudeDir: "CLAUDE_DIR",
	KeyMode:      "MODE",
	KeySource:    "WAYPOINT_ROOT",
	KeyVerbose:   "WAYPOINT_VERBOSE",
}

// ErrUnknownVariable is returned for a KEY=VALUE argument waypoint does not know.
var ErrUnknownVariable = errors.New("unknown variable")

// Options is the explicit configuration every installer operation receives
type Options struct {
	// TargetDir is the installation root, e.g. ~/.claude
	TargetDir string
	// SourceDir is the repository scanned for modules
	SourceDir string
	Mode      Mode
	// Module restricts an operation to one module; empty means all
	Module  string
	Verbose bool
}

// New returns a viper instance with waypoint defaults, environment
// bindings and the user config file (if any) loaded.
func New() (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault(KeyMode, string(DefaultMode))
	v.SetDefault(KeyVerbose, false)

	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	dir, err := UserConfigDir()
	if err != nil {
		return nil, err
	}
	v.SetConfigName(ConfigName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return v, nil
}

// UserConfigDir returns ~/.config/waypoint (or $XDG_CONFIG_HOME/waypoint)
func UserConfigDir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir), nil
}

// DefaultTargetDir returns ~/.claude
func DefaultTargetDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultClaudeDir), nil
}

// SplitAssignments separates make-style KEY=VALUE arguments from plain
// positional arguments, applying each assignment to v. Assignments take
// precedence over flags, environment and config file.
func SplitAssignments(v *viper.Viper, args []string) ([]string, error) {
	var rest []string
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			rest = append(rest, arg)
			continue
		}

		key, known := keyForVariable(name)
		if !known {
			return nil, fmt.Errorf("%w %q", ErrUnknownVariable, name)
		}
		v.Set(key, value)
	}
	return rest, nil
}

func keyForVariable(name string) (string, bool) {
	for key, env := range envKeys {
		if strings.EqualFold(env, name) {
			return key, true
		}
	}
	return "", false
}

// Load resolves Options from v. Relative and ~-prefixed paths are made
// absolute.
func Load(v *viper.Viper) (Options, error) {
	mode, err := ParseMode(v.GetString(KeyMode))
	if err != nil {
		return Options{}, err
	}

	target := v.GetString(KeyClaudeDir)
	if target == "" {
		target, err = DefaultTargetDir()
		if err != nil {
			return Options{}, err
		}
	}
	target, err = absPath(target)
	if err != nil {
		return Options{}, err
	}

	source, err := SourceDir(v)
	if err != nil {
		return Options{}, err
	}

	return Options{
		TargetDir: target,
		SourceDir: source,
		Mode:      mode,
		Verbose:   v.GetBool(KeyVerbose),
	}, nil
}

// SourceDir resolves only the repository root from v, defaulting to the
// working directory. It does not validate the other settings.
func SourceDir(v *viper.Viper) (string, error) {
	source := v.GetString(KeySource)
	if source == "" {
		source = "."
	}
	return absPath(source)
}

func absPath(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve path %s: %w", p, err)
	}
	return abs, nil
}
