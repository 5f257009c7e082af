package installer

import (
	"path/filepath"

	"github.com/kennyg/waypoint/internal/artifact"
	"github.com/kennyg/waypoint/internal/module"
)

// Entry maps one module source file to its destination under the target root.
type Entry struct {
	Module string
	Kind   artifact.Kind
	Source string
	Dest   string
}

// Name is the basename shared by source and destination
func (e Entry) Name() string {
	return filepath.Base(e.Dest)
}

// ModuleDir returns <target>/<kind dir>/<module>
func ModuleDir(target string, k artifact.Kind, mod string) string {
	return filepath.Join(target, k.DirName(), mod)
}

// EntriesFor returns every entry install would create for m under target.
func EntriesFor(target string, m module.Module) []Entry {
	files := m.Files()
	entries := make([]Entry, 0, len(files))
	for _, f := range files {
		entries = append(entries, Entry{
			Module: m.Name,
			Kind:   f.Kind,
			Source: f.Path,
			Dest:   filepath.Join(ModuleDir(target, f.Kind, m.Name), filepath.Base(f.Path)),
		})
	}
	return entries
}
