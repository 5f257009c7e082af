package installer

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kennyg/waypoint/internal/config"
)

// Install materializes every selected entry in opts.Mode. Entries already
// in the desired state are left alone, so running Install twice yields
// the same filesystem as running it once.
func (i *Installer) Install(opts config.Options) (*Report, error) {
	plans, err := i.Plan(opts)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, p := range plans {
		for _, e := range p.Entries {
			action, err := i.materialize(e, opts.Mode)
			if err != nil {
				return report, err
			}
			report.add(e, action)
		}
	}
	return report, nil
}

// Fix recreates every entry Classify reports as missing or broken.
// Correct entries are not touched.
func (i *Installer) Fix(opts config.Options) (*Report, error) {
	plans, err := i.Plan(opts)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, p := range plans {
		for _, e := range p.Entries {
			before, err := Classify(e)
			if err != nil {
				return report, err
			}
			if before.OK() {
				report.Results = append(report.Results, Result{Entry: e, Action: ActionUnchanged, Before: before})
				continue
			}

			i.logger.Debug("repairing", "dest", e.Dest, "state", before.State, "reason", before.Reason)
			action, err := i.materialize(e, opts.Mode)
			if err != nil {
				return report, err
			}
			report.Results = append(report.Results, Result{Entry: e, Action: action, Before: before})
		}
	}
	return report, nil
}

// materialize brings one destination into the desired state for mode.
func (i *Installer) materialize(e Entry, mode config.Mode) (Action, error) {
	src, err := os.Stat(e.Source)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &EntryError{Op: "install", Path: e.Source, Err: ErrSourceMissing}
		}
		return "", &EntryError{Op: "install", Path: e.Source, Err: err}
	}
	if !src.Mode().IsRegular() {
		return "", &EntryError{Op: "install", Path: e.Source, Err: fmt.Errorf("%w: source is not a regular file", ErrSourceMissing)}
	}

	if err := os.MkdirAll(filepath.Dir(e.Dest), 0755); err != nil {
		return "", &EntryError{Op: "install", Path: filepath.Dir(e.Dest), Err: err}
	}

	existing, err := os.Lstat(e.Dest)
	exists := err == nil
	if err != nil && !os.IsNotExist(err) {
		return "", &EntryError{Op: "install", Path: e.Dest, Err: err}
	}
	if exists && !existing.Mode().IsRegular() && existing.Mode()&fs.ModeSymlink == 0 {
		return "", &EntryError{Op: "install", Path: e.Dest, Err: ErrDestinationConflict}
	}

	switch mode {
	case config.ModeCopy:
		if exists && existing.Mode().IsRegular() && sameContent(e.Source, e.Dest) {
			return ActionUnchanged, nil
		}
		if err := copyFile(e.Source, e.Dest, src.Mode().Perm()); err != nil {
			return "", &EntryError{Op: "copy", Path: e.Dest, Err: err}
		}
		i.logger.Debug("copied", "src", e.Source, "dest", e.Dest)
	case config.ModeSymlink, "":
		if exists && existing.Mode()&fs.ModeSymlink != 0 {
			if target, err := os.Readlink(e.Dest); err == nil && target == e.Source {
				return ActionUnchanged, nil
			}
		}
		if err := replaceWithSymlink(e.Source, e.Dest); err != nil {
			return "", &EntryError{Op: "symlink", Path: e.Dest, Err: err}
		}
		i.logger.Debug("linked", "src", e.Source, "dest", e.Dest)
	default:
		return "", fmt.Errorf("%w %q", config.ErrInvalidMode, mode)
	}

	if exists {
		return ActionReplaced, nil
	}
	return ActionCreated, nil
}

// replaceWithSymlink points dest at src, swapping out whatever is at dest
// with a single rename.
func replaceWithSymlink(src, dest string) error {
	tmp := tempName(dest)
	_ = os.Remove(tmp)

	if err := os.Symlink(src, tmp); err != nil {
		return err
	}
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// copyFile writes src's bytes to a temp file beside dest and renames it
// into place.
func copyFile(src, dest string, perm fs.FileMode) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := out.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err = out.Chmod(perm); err != nil {
		out.Close()
		return err
	}
	if err = out.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, dest)
}

func sameContent(a, b string) bool {
	x, err := os.ReadFile(a)
	if err != nil {
		return false
	}
	y, err := os.ReadFile(b)
	if err != nil {
		return false
	}
	return bytes.Equal(x, y)
}

func tempName(dest string) string {
	return filepath.Join(filepath.Dir(dest), fmt.Sprintf(".%s.waypoint-%d.tmp", filepath.Base(dest), os.Getpid()))
}
