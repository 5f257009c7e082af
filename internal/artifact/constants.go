package artifact

// File and directory name constants used throughout waypoint.
const (
	// AgentsDirName is the directory holding agent definitions, both in a
	// module's source tree and under the install target
	AgentsDirName = "agents"

	// CommandsDirName is the directory holding slash commands
	CommandsDirName = "commands"

	// MarkdownExt is the only file extension picked up from a module
	MarkdownExt = ".md"

	// ModuleMetaFilename is the optional per-module metadata file
	ModuleMetaFilename = "module.yaml"
)
