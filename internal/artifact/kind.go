package artifact

import "fmt"

// Kind is the category a module file belongs to
type Kind string

const (
	KindAgent   Kind = "agent"
	KindCommand Kind = "command"
)

// Kinds lists every kind in install order
func Kinds() []Kind {
	return []Kind{KindAgent, KindCommand}
}

// DirName returns the directory name used for this kind, both inside a
// module and under the install target.
func (k Kind) DirName() string {
	switch k {
	case KindAgent:
		return AgentsDirName
	case KindCommand:
		return CommandsDirName
	default:
		panic(fmt.Sprintf("artifact: unknown kind %q", string(k)))
	}
}
