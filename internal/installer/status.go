package installer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// State is the condition of a destination entry
type State int

const (
	StateCorrect State = iota
	StateMissing
	StateBroken
)

func (s State) String() string {
	switch s {
	case StateCorrect:
		return "correct"
	case StateMissing:
		return "missing"
	case StateBroken:
		return "broken"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Status is the classified state of one entry. Actual, Expected and
// Reason are only set for StateBroken.
type Status struct {
	State    State
	Actual   string
	Expected string
	Reason   string
}

// OK reports whether the entry needs no repair
func (s Status) OK() bool {
	return s.State == StateCorrect
}

// Broken reasons
const (
	ReasonWrongTarget = "points elsewhere"
	ReasonDangling    = "dangling link"
	ReasonNotFile     = "not a file or symlink"
)

// Classify inspects the destination of e without modifying anything.
// Missing and broken destinations are reported through Status; only
// unexpected filesystem errors are returned.
func Classify(e Entry) (Status, error) {
	info, err := os.Lstat(e.Dest)
	if err != nil {
		if os.IsNotExist(err) {
			return Status{State: StateMissing}, nil
		}
		return Status{}, &EntryError{Op: "check", Path: e.Dest, Err: err}
	}

	switch mode := info.Mode(); {
	case mode&fs.ModeSymlink != 0:
		return classifyLink(e)
	case mode.IsRegular():
		return Status{State: StateCorrect}, nil
	default:
		return Status{
			State:    StateBroken,
			Actual:   e.Dest,
			Expected: e.Source,
			Reason:   ReasonNotFile,
		}, nil
	}
}

func classifyLink(e Entry) (Status, error) {
	target, err := os.Readlink(e.Dest)
	if err != nil {
		return Status{}, &EntryError{Op: "check", Path: e.Dest, Err: err}
	}

	actual := resolveLink(e.Dest, target)
	expected := filepath.Clean(e.Source)

	// Any failure to follow the link (missing target, loop) counts as dangling.
	_, statErr := os.Stat(e.Dest)
	dangling := statErr != nil

	broken := Status{State: StateBroken, Actual: target, Expected: expected}
	switch {
	case dangling:
		broken.Reason = ReasonDangling
		return broken, nil
	case actual != expected:
		broken.Reason = ReasonWrongTarget
		return broken, nil
	}

	return Status{State: StateCorrect}, nil
}

// resolveLink returns the cleaned absolute form of a link target; relative
// targets are relative to the link's directory.
func resolveLink(link, target string) string {
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(link), target)
	}
	return filepath.Clean(target)
}
