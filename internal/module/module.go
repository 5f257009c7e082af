// Package module discovers the installable modules of a waypoint repository.
//
// A module is a top-level directory holding agents/*.md and/or
// commands/*.md. Discovery is read-only and sits behind the Provider
// interface so the installer can run against an in-memory manifest.
package module

import (
	"errors"
	"fmt"
	"sort"

	"github.com/kennyg/waypoint/internal/artifact"
)

// ErrUnknownModule is returned when a module filter names nothing.
var ErrUnknownModule = errors.New("unknown module")

// File is one source file a module ships
type File struct {
	Kind artifact.Kind
	// Name is the basename, e.g. "manager.md"
	Name string
	// Path is the absolute path of the source file
	Path string
	// Description comes from the file's frontmatter, if any
	Description string
}

// Module is a named, independently installable set of agent and command files
type Module struct {
	Name        string
	Dir         string
	Description string
	Version     string

	Agents   []File
	Commands []File
}

// Files returns agents followed by commands
func (m Module) Files() []File {
	files := make([]File, 0, len(m.Agents)+len(m.Commands))
	files = append(files, m.Agents...)
	files = append(files, m.Commands...)
	return files
}

// Provider supplies the set of modules available for installation.
type Provider interface {
	Modules() ([]Module, error)
	Module(name string) (Module, error)
}

// Select returns every module when name is empty, or just the named one.
func Select(p Provider, name string) ([]Module, error) {
	if name == "" {
		return p.Modules()
	}
	m, err := p.Module(name)
	if err != nil {
		return nil, err
	}
	return []Module{m}, nil
}

// StaticProvider serves a fixed list of modules
type StaticProvider struct {
	List []Module
}

// NewStaticProvider returns a provider over mods, sorted by name.
func NewStaticProvider(mods ...Module) *StaticProvider {
	sorted := append([]Module(nil), mods...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &StaticProvider{List: sorted}
}

func (s *StaticProvider) Modules() ([]Module, error) {
	return s.List, nil
}

func (s *StaticProvider) Module(name string) (Module, error) {
	for _, m := range s.List {
		if m.Name == name {
			return m, nil
		}
	}
	return Module{}, fmt.Errorf("%w: %s", ErrUnknownModule, name)
}
