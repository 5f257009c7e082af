package module

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kennyg/waypoint/internal/artifact"
)

// DirProvider discovers modules by scanning the top level of a repository.
type DirProvider struct {
	Root string
}

// NewDirProvider returns a provider rooted at root, made absolute so that
// symlinks created from its files never depend on the working directory.
func NewDirProvider(root string) (*DirProvider, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve source root %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("source root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source root %s is not a directory", abs)
	}
	return &DirProvider{Root: abs}, nil
}

// Modules returns every module under Root, sorted by name.
func (p *DirProvider) Modules() ([]Module, error) {
	entries, err := os.ReadDir(p.Root)
	if err != nil {
		return nil, err
	}

	var mods []Module
	for _, e := range entries {
		if skipDir(e.Name()) {
			continue
		}
		dir := filepath.Join(p.Root, e.Name())
		if !isDir(dir) {
			continue
		}

		m, ok, err := p.load(e.Name())
		if err != nil {
			return nil, err
		}
		if ok {
			mods = append(mods, m)
		}
	}

	return mods, nil
}

// Module loads a single module by directory name.
func (p *DirProvider) Module(name string) (Module, error) {
	if name == "" || skipDir(name) || strings.ContainsAny(name, `/\`) {
		return Module{}, fmt.Errorf("%w: %q", ErrUnknownModule, name)
	}

	m, ok, err := p.load(name)
	if err != nil {
		return Module{}, err
	}
	if !ok {
		return Module{}, fmt.Errorf("%w: %s", ErrUnknownModule, name)
	}
	return m, nil
}

// load reads a module directory. ok is false when the directory holds no
// agent or command files.
func (p *DirProvider) load(name string) (Module, bool, error) {
	dir := filepath.Join(p.Root, name)
	if !isDir(dir) {
		return Module{}, false, nil
	}

	m := Module{Name: name, Dir: dir}

	for _, k := range artifact.Kinds() {
		files, err := scanKind(filepath.Join(dir, k.DirName()), k)
		if err != nil {
			return Module{}, false, err
		}
		if k == artifact.KindAgent {
			m.Agents = files
		} else {
			m.Commands = files
		}
	}

	if len(m.Agents) == 0 && len(m.Commands) == 0 {
		return Module{}, false, nil
	}

	meta, err := LoadMeta(filepath.Join(dir, artifact.ModuleMetaFilename))
	if err != nil {
		return Module{}, false, err
	}
	m.Description = meta.Description
	m.Version = meta.Version

	return m, true, nil
}

// scanKind lists the markdown files directly inside dir. A missing dir
// yields no files.
func scanKind(dir string, k artifact.Kind) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []File
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != artifact.MarkdownExt {
			continue
		}
		path := filepath.Join(dir, e.Name())
		files = append(files, File{
			Kind:        k,
			Name:        e.Name(),
			Path:        path,
			Description: describe(path),
		})
	}
	return files, nil
}

// describe returns the frontmatter description of a file, or "" when it
// has none or cannot be parsed.
func describe(path string) string {
	content, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var fm Frontmatter
	if _, err := ParseFrontmatter(content, &fm); err != nil {
		return ""
	}
	return fm.Description
}

// skipDir reports whether a top-level directory can never be a module:
// hidden directories and the "_"-prefixed ones Go tooling ignores.
func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
