package installer

import (
	"io/fs"
	"os"

	"github.com/kennyg/waypoint/internal/artifact"
	"github.com/kennyg/waypoint/internal/config"
)

// Uninstall removes every destination install would create for the
// selected modules, then prunes their module directories when empty.
// Absent entries are not an error and nothing outside the managed set is
// deleted.
func (i *Installer) Uninstall(opts config.Options) (*Report, error) {
	plans, err := i.Plan(opts)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, p := range plans {
		for _, e := range p.Entries {
			action, err := i.remove(e)
			if err != nil {
				return report, err
			}
			report.add(e, action)
		}

		for _, k := range artifact.Kinds() {
			dir := ModuleDir(opts.TargetDir, k, p.Module.Name)
			pruned, err := pruneDir(dir)
			if err != nil {
				return report, &EntryError{Op: "uninstall", Path: dir, Err: err}
			}
			switch {
			case pruned:
				report.PrunedDirs = append(report.PrunedDirs, dir)
				i.logger.Debug("pruned", "dir", dir)
			case dirExists(dir):
				report.KeptDirs = append(report.KeptDirs, dir)
				i.logger.Warn("directory not empty, leaving it", "dir", dir)
			}
		}
	}
	return report, nil
}

func (i *Installer) remove(e Entry) (Action, error) {
	info, err := os.Lstat(e.Dest)
	if err != nil {
		if os.IsNotExist(err) {
			return ActionAbsent, nil
		}
		return "", &EntryError{Op: "uninstall", Path: e.Dest, Err: err}
	}

	if !info.Mode().IsRegular() && info.Mode()&fs.ModeSymlink == 0 {
		i.logger.Warn("not a file or symlink, leaving it", "path", e.Dest)
		return ActionSkipped, nil
	}

	if err := os.Remove(e.Dest); err != nil && !os.IsNotExist(err) {
		return "", &EntryError{Op: "uninstall", Path: e.Dest, Err: err}
	}
	i.logger.Debug("removed", "dest", e.Dest)
	return ActionRemoved, nil
}

// pruneDir removes dir if it exists and is empty. It reports whether the
// directory was removed.
func pruneDir(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if len(entries) > 0 {
		return false, nil
	}
	if err := os.Remove(dir); err != nil && !os.IsNotExist(err) {
		return false, err
	}
	return true, nil
}

func dirExists(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}
