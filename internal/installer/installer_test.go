package installer

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kennyg/waypoint/internal/artifact"
	"github.com/kennyg/waypoint/internal/config"
	"github.com/kennyg/waypoint/internal/module"
)

// fixture lays out a source repository with two modules and returns an
// installer over it plus the target directory.
type fixture struct {
	src    string
	target string
	inst   *Installer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	src := t.TempDir()
	target := filepath.Join(t.TempDir(), "claude")

	wt := module.Module{Name: "working-tree", Dir: filepath.Join(src, "working-tree")}
	wt.Agents = []module.File{writeSource(t, src, "working-tree", artifact.KindAgent, "manager.md", "# manager\n")}
	for _, name := range []string{"new.md", "status.md", "list.md", "destroy.md", "adopt.md"} {
		wt.Commands = append(wt.Commands, writeSource(t, src, "working-tree", artifact.KindCommand, name, "# "+name+"\n"))
	}

	other := module.Module{Name: "other", Dir: filepath.Join(src, "other")}
	other.Commands = []module.File{writeSource(t, src, "other", artifact.KindCommand, "go.md", "# go\n")}

	return &fixture{
		src:    src,
		target: target,
		inst:   New(module.NewStaticProvider(wt, other)),
	}
}

func writeSource(t *testing.T, root, mod string, k artifact.Kind, name, content string) module.File {
	t.Helper()
	path := filepath.Join(root, mod, k.DirName(), name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return module.File{Kind: k, Name: name, Path: path}
}

func (f *fixture) opts(mode config.Mode, mod string) config.Options {
	return config.Options{TargetDir: f.target, Mode: mode, Module: mod}
}

func (f *fixture) dest(k artifact.Kind, mod, name string) string {
	return filepath.Join(f.target, k.DirName(), mod, name)
}

func (f *fixture) source(k artifact.Kind, mod, name string) string {
	return filepath.Join(f.src, mod, k.DirName(), name)
}

func TestInstall_Symlink(t *testing.T) {
	f := newFixture(t)

	report, err := f.inst.Install(f.opts(config.ModeSymlink, ""))
	require.NoError(t, err)
	assert.Equal(t, 7, report.Count(ActionCreated))

	plans, err := f.inst.Plan(f.opts(config.ModeSymlink, ""))
	require.NoError(t, err)
	for _, p := range plans {
		for _, e := range p.Entries {
			info, err := os.Lstat(e.Dest)
			require.NoError(t, err)
			assert.NotZero(t, info.Mode()&os.ModeSymlink, "%s should be a symlink", e.Dest)

			target, err := os.Readlink(e.Dest)
			require.NoError(t, err)
			assert.Equal(t, e.Source, target)
			assert.Equal(t, filepath.Base(e.Source), filepath.Base(e.Dest))
		}
	}
}

func TestInstall_Copy(t *testing.T) {
	f := newFixture(t)

	_, err := f.inst.Install(f.opts(config.ModeCopy, ""))
	require.NoError(t, err)

	dest := f.dest(artifact.KindAgent, "working-tree", "manager.md")
	info, err := os.Lstat(dest)
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular())

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	want, err := os.ReadFile(f.source(artifact.KindAgent, "working-tree", "manager.md"))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestInstall_Idempotent(t *testing.T) {
	for _, mode := range []config.Mode{config.ModeSymlink, config.ModeCopy} {
		t.Run(string(mode), func(t *testing.T) {
			f := newFixture(t)

			_, err := f.inst.Install(f.opts(mode, ""))
			require.NoError(t, err)

			report, err := f.inst.Install(f.opts(mode, ""))
			require.NoError(t, err)
			assert.Equal(t, 7, report.Count(ActionUnchanged))

			res, err := f.inst.Check(f.opts(mode, ""))
			require.NoError(t, err)
			assert.True(t, res.OK())
		})
	}
}

func TestInstall_ReplacesExisting(t *testing.T) {
	f := newFixture(t)
	dest := f.dest(artifact.KindAgent, "working-tree", "manager.md")
	require.NoError(t, os.MkdirAll(filepath.Dir(dest), 0755))
	require.NoError(t, os.WriteFile(dest, []byte("stale"), 0644))

	report, err := f.inst.Install(f.opts(config.ModeSymlink, "working-tree"))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Count(ActionReplaced))

	target, err := os.Readlink(dest)
	require.NoError(t, err)
	assert.Equal(t, f.source(artifact.KindAgent, "working-tree", "manager.md"), target)

	// Switching modes replaces the link with a copy
	report, err = f.inst.Install(f.opts(config.ModeCopy, "working-tree"))
	require.NoError(t, err)
	assert.Equal(t, 6, report.Count(ActionReplaced))
	info, err := os.Lstat(dest)
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular())
}

func TestInstall_DestinationConflict(t *testing.T) {
	f := newFixture(t)
	dest := f.dest(artifact.KindAgent, "working-tree", "manager.md")
	require.NoError(t, os.MkdirAll(filepath.Join(dest, "inner"), 0755))

	_, err := f.inst.Install(f.opts(config.ModeSymlink, "working-tree"))
	require.ErrorIs(t, err, ErrDestinationConflict)
	assert.Contains(t, err.Error(), dest)
	assert.DirExists(t, filepath.Join(dest, "inner"))
}

func TestInstall_SourceMissing(t *testing.T) {
	target := t.TempDir()
	missing := filepath.Join(t.TempDir(), "gone.md")
	inst := New(module.NewStaticProvider(module.Module{
		Name:   "ghost",
		Agents: []module.File{{Kind: artifact.KindAgent, Name: "gone.md", Path: missing}},
	}))

	_, err := inst.Install(config.Options{TargetDir: target, Mode: config.ModeSymlink})
	require.ErrorIs(t, err, ErrSourceMissing)
	assert.Contains(t, err.Error(), missing)
}

func TestInstall_PermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	f := newFixture(t)
	require.NoError(t, os.MkdirAll(f.target, 0755))
	require.NoError(t, os.Chmod(f.target, 0555))
	t.Cleanup(func() { _ = os.Chmod(f.target, 0755) })

	_, err := f.inst.Install(f.opts(config.ModeSymlink, ""))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrPermission)
}

func TestInstall_UnknownModule(t *testing.T) {
	f := newFixture(t)
	_, err := f.inst.Install(f.opts(config.ModeSymlink, "nope"))
	assert.ErrorIs(t, err, module.ErrUnknownModule)
}

func TestInstall_NoTarget(t *testing.T) {
	f := newFixture(t)
	_, err := f.inst.Install(config.Options{Mode: config.ModeSymlink})
	assert.ErrorIs(t, err, ErrNoTarget)
}

func TestInstall_ScopedToModule(t *testing.T) {
	f := newFixture(t)

	_, err := f.inst.Install(f.opts(config.ModeSymlink, "working-tree"))
	require.NoError(t, err)

	assert.FileExists(t, f.dest(artifact.KindAgent, "working-tree", "manager.md"))
	assert.NoDirExists(t, filepath.Join(f.target, "commands", "other"))
}

func TestUninstall(t *testing.T) {
	f := newFixture(t)
	_, err := f.inst.Install(f.opts(config.ModeSymlink, ""))
	require.NoError(t, err)

	report, err := f.inst.Uninstall(f.opts(config.ModeSymlink, ""))
	require.NoError(t, err)
	assert.Equal(t, 7, report.Count(ActionRemoved))

	assert.NoDirExists(t, filepath.Join(f.target, "agents", "working-tree"))
	assert.NoDirExists(t, filepath.Join(f.target, "commands", "working-tree"))
	assert.NoDirExists(t, filepath.Join(f.target, "commands", "other"))

	// Sources are untouched
	assert.FileExists(t, f.source(artifact.KindAgent, "working-tree", "manager.md"))
}

func TestUninstall_Idempotent(t *testing.T) {
	f := newFixture(t)

	report, err := f.inst.Uninstall(f.opts(config.ModeSymlink, ""))
	require.NoError(t, err)
	assert.Equal(t, 7, report.Count(ActionAbsent))
	assert.Empty(t, report.PrunedDirs)

	_, err = f.inst.Install(f.opts(config.ModeCopy, ""))
	require.NoError(t, err)
	_, err = f.inst.Uninstall(f.opts(config.ModeSymlink, ""))
	require.NoError(t, err)
	_, err = f.inst.Uninstall(f.opts(config.ModeSymlink, ""))
	require.NoError(t, err)
	assert.NoDirExists(t, filepath.Join(f.target, "agents", "working-tree"))
}

func TestUninstall_ScopedToModule(t *testing.T) {
	f := newFixture(t)
	_, err := f.inst.Install(f.opts(config.ModeSymlink, ""))
	require.NoError(t, err)

	_, err = f.inst.Uninstall(f.opts(config.ModeSymlink, "working-tree"))
	require.NoError(t, err)

	assert.NoDirExists(t, filepath.Join(f.target, "agents", "working-tree"))
	assert.FileExists(t, f.dest(artifact.KindCommand, "other", "go.md"))
}

func TestUninstall_LeavesForeignFiles(t *testing.T) {
	f := newFixture(t)
	_, err := f.inst.Install(f.opts(config.ModeSymlink, ""))
	require.NoError(t, err)

	foreign := f.dest(artifact.KindCommand, "working-tree", "mine.md")
	require.NoError(t, os.WriteFile(foreign, []byte("keep me"), 0644))
	unrelated := filepath.Join(f.target, "settings.json")
	require.NoError(t, os.WriteFile(unrelated, []byte("{}"), 0644))

	report, err := f.inst.Uninstall(f.opts(config.ModeSymlink, ""))
	require.NoError(t, err)

	assert.FileExists(t, foreign)
	assert.FileExists(t, unrelated)
	assert.Contains(t, report.KeptDirs, filepath.Join(f.target, "commands", "working-tree"))
	assert.NoFileExists(t, f.dest(artifact.KindCommand, "working-tree", "new.md"))
	assert.NoDirExists(t, filepath.Join(f.target, "agents", "working-tree"))
}

func TestCheck_States(t *testing.T) {
	f := newFixture(t)

	res, err := f.inst.Check(f.opts(config.ModeSymlink, ""))
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, 7, res.Count(StateMissing))

	_, err = f.inst.Install(f.opts(config.ModeSymlink, ""))
	require.NoError(t, err)

	res, err = f.inst.Check(f.opts(config.ModeSymlink, ""))
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, 7, res.Count(StateCorrect))

	manager := f.dest(artifact.KindAgent, "working-tree", "manager.md")
	require.NoError(t, os.Remove(manager))
	require.NoError(t, os.Symlink("/nonexistent/file.md", manager))

	res, err = f.inst.Check(f.opts(config.ModeSymlink, ""))
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, 1, res.Failures())
	assert.Equal(t, 1, res.Count(StateBroken))

	// Check does not repair
	target, err := os.Readlink(manager)
	require.NoError(t, err)
	assert.Equal(t, "/nonexistent/file.md", target)
}

func TestClassify(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.md")
	other := filepath.Join(dir, "other.md")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(other, []byte("y"), 0644))

	tests := []struct {
		name       string
		setup      func(dest string)
		wantState  State
		wantReason string
	}{
		{
			name:      "missing",
			setup:     func(string) {},
			wantState: StateMissing,
		},
		{
			name:      "correct link",
			setup:     func(dest string) { require.NoError(t, os.Symlink(src, dest)) },
			wantState: StateCorrect,
		},
		{
			name: "correct relative link",
			setup: func(dest string) {
				rel, err := filepath.Rel(filepath.Dir(dest), src)
				require.NoError(t, err)
				require.NoError(t, os.Symlink(rel, dest))
			},
			wantState: StateCorrect,
		},
		{
			name:      "regular file",
			setup:     func(dest string) { require.NoError(t, os.WriteFile(dest, []byte("changed"), 0644)) },
			wantState: StateCorrect,
		},
		{
			name:       "wrong target",
			setup:      func(dest string) { require.NoError(t, os.Symlink(other, dest)) },
			wantState:  StateBroken,
			wantReason: ReasonWrongTarget,
		},
		{
			name:       "dangling",
			setup:      func(dest string) { require.NoError(t, os.Symlink("/nonexistent/file.md", dest)) },
			wantState:  StateBroken,
			wantReason: ReasonDangling,
		},
		{
			name:       "directory",
			setup:      func(dest string) { require.NoError(t, os.Mkdir(dest, 0755)) },
			wantState:  StateBroken,
			wantReason: ReasonNotFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			destDir := t.TempDir()
			dest := filepath.Join(destDir, "src.md")
			tt.setup(dest)

			st, err := Classify(Entry{Source: src, Dest: dest})
			require.NoError(t, err)
			assert.Equal(t, tt.wantState, st.State)
			assert.Equal(t, tt.wantReason, st.Reason)
			if tt.wantState == StateBroken {
				assert.Equal(t, src, st.Expected)
			}
		})
	}
}

func TestClassify_SourceDeleted(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.md")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0644))
	dest := filepath.Join(dir, "dest.md")
	require.NoError(t, os.Symlink(src, dest))
	require.NoError(t, os.Remove(src))

	st, err := Classify(Entry{Source: src, Dest: dest})
	require.NoError(t, err)
	assert.Equal(t, StateBroken, st.State)
	assert.Equal(t, ReasonDangling, st.Reason)
}

func TestFix_Converges(t *testing.T) {
	for _, mode := range []config.Mode{config.ModeSymlink, config.ModeCopy} {
		t.Run(string(mode), func(t *testing.T) {
			f := newFixture(t)
			_, err := f.inst.Install(f.opts(mode, ""))
			require.NoError(t, err)

			manager := f.dest(artifact.KindAgent, "working-tree", "manager.md")
			require.NoError(t, os.Remove(manager))
			require.NoError(t, os.Symlink("/nonexistent/file.md", manager))

			newMd := f.dest(artifact.KindCommand, "working-tree", "new.md")
			require.NoError(t, os.Remove(newMd))

			report, err := f.inst.Fix(f.opts(mode, ""))
			require.NoError(t, err)
			assert.Equal(t, 1, report.Count(ActionReplaced))
			assert.Equal(t, 1, report.Count(ActionCreated))
			assert.Equal(t, 5, report.Count(ActionUnchanged))

			res, err := f.inst.Check(f.opts(mode, ""))
			require.NoError(t, err)
			assert.True(t, res.OK())
			assert.Zero(t, res.Failures())
		})
	}
}

func TestFix_RepairsSymlinkTarget(t *testing.T) {
	f := newFixture(t)
	_, err := f.inst.Install(f.opts(config.ModeSymlink, ""))
	require.NoError(t, err)

	manager := f.dest(artifact.KindAgent, "working-tree", "manager.md")
	require.NoError(t, os.Remove(manager))
	require.NoError(t, os.Symlink("/nonexistent/file.md", manager))

	_, err = f.inst.Fix(f.opts(config.ModeSymlink, ""))
	require.NoError(t, err)

	target, err := os.Readlink(manager)
	require.NoError(t, err)
	assert.Equal(t, f.source(artifact.KindAgent, "working-tree", "manager.md"), target)
}

func TestFix_FromEmpty(t *testing.T) {
	f := newFixture(t)

	report, err := f.inst.Fix(f.opts(config.ModeSymlink, "working-tree"))
	require.NoError(t, err)
	assert.Equal(t, 6, report.Count(ActionCreated))
	for _, r := range report.Results {
		assert.Equal(t, StateMissing, r.Before.State)
	}

	res, err := f.inst.Check(f.opts(config.ModeSymlink, "working-tree"))
	require.NoError(t, err)
	assert.True(t, res.OK())
}

func TestPlan(t *testing.T) {
	f := newFixture(t)

	plans, err := f.inst.List(f.opts(config.ModeSymlink, ""))
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "other", plans[0].Module.Name)
	assert.Equal(t, "working-tree", plans[1].Module.Name)
	require.Len(t, plans[1].Entries, 6)

	first := plans[1].Entries[0]
	assert.Equal(t, artifact.KindAgent, first.Kind)
	assert.Equal(t, f.dest(artifact.KindAgent, "working-tree", "manager.md"), first.Dest)
	assert.Equal(t, "manager.md", first.Name())

	// Listing never creates the target
	assert.NoDirExists(t, f.target)
}
