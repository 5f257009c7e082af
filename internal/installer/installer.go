// Package installer installs, verifies, repairs and removes module files
// under a target directory, either as symlinks or as copies.
//
// Every operation receives its configuration explicitly through
// config.Options. Operations run sequentially and stop at the first
// unrecoverable filesystem error; there is no rollback, so a partial
// install is repaired with Fix.
package installer

import (
	"github.com/charmbracelet/log"

	"github.com/kennyg/waypoint/internal/config"
	"github.com/kennyg/waypoint/internal/logging"
	"github.com/kennyg/waypoint/internal/module"
)

// Installer applies module operations against a target directory.
type Installer struct {
	provider module.Provider
	logger   *log.Logger
}

// Option configures an Installer
type Option func(*Installer)

// WithLogger sets the logger used for per-entry debug output
func WithLogger(l *log.Logger) Option {
	return func(i *Installer) {
		if l != nil {
			i.logger = l
		}
	}
}

// New returns an Installer reading modules from p
func New(p module.Provider, opts ...Option) *Installer {
	i := &Installer{
		provider: p,
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Planned is a module together with the entries install would create for it
type Planned struct {
	Module  module.Module
	Entries []Entry
}

// Plan resolves the selected modules into destination entries.
func (i *Installer) Plan(opts config.Options) ([]Planned, error) {
	if opts.TargetDir == "" {
		return nil, ErrNoTarget
	}

	mods, err := module.Select(i.provider, opts.Module)
	if err != nil {
		return nil, err
	}

	plans := make([]Planned, 0, len(mods))
	for _, m := range mods {
		plans = append(plans, Planned{
			Module:  m,
			Entries: EntriesFor(opts.TargetDir, m),
		})
	}
	return plans, nil
}

// List is Plan under the name the CLI uses. It never touches the target.
func (i *Installer) List(opts config.Options) ([]Planned, error) {
	return i.Plan(opts)
}
