package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidMode is returned for a deployment mode other than symlink or copy.
var ErrInvalidMode = errors.New("invalid mode")

// Mode is the strategy used to materialize a destination file
type Mode string

const (
	ModeSymlink Mode = "symlink"
	ModeCopy    Mode = "copy"
)

// DefaultMode is used when no mode is configured
const DefaultMode = ModeSymlink

// ParseMode converts user input to a Mode. Empty input yields DefaultMode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultMode, nil
	case ModeSymlink:
		return ModeSymlink, nil
	case ModeCopy:
		return ModeCopy, nil
	default:
		return "", fmt.Errorf("%w %q (want %s or %s)", ErrInvalidMode, s, ModeSymlink, ModeCopy)
	}
}

func (m Mode) String() string {
	return string(m)
}
