package installer

// Action is what an operation did to one entry
type Action string

const (
	ActionCreated   Action = "created"
	ActionReplaced  Action = "replaced"
	ActionUnchanged Action = "unchanged"
	ActionRemoved   Action = "removed"
	ActionAbsent    Action = "absent"
	ActionSkipped   Action = "skipped"
)

// Result is the outcome for one entry
type Result struct {
	Entry  Entry
	Action Action
	// Before is the state found prior to the operation (Fix only)
	Before Status
}

// Report collects per-entry results of a mutating operation
type Report struct {
	Results []Result
	// PrunedDirs lists module directories removed by Uninstall
	PrunedDirs []string
	// KeptDirs lists module directories Uninstall left because they still
	// hold files it does not manage
	KeptDirs []string
}

// Count returns how many results carry action a
func (r *Report) Count(a Action) int {
	n := 0
	for _, res := range r.Results {
		if res.Action == a {
			n++
		}
	}
	return n
}

func (r *Report) add(e Entry, a Action) {
	r.Results = append(r.Results, Result{Entry: e, Action: a})
}

// EntryStatus pairs an entry with its classification
type EntryStatus struct {
	Entry  Entry
	Status Status
}

// CheckResult is the read-only outcome of Check
type CheckResult struct {
	Entries []EntryStatus
}

// OK reports whether every entry is correct
func (c *CheckResult) OK() bool {
	return c.Failures() == 0
}

// Failures counts entries that are missing or broken
func (c *CheckResult) Failures() int {
	n := 0
	for _, es := range c.Entries {
		if !es.Status.OK() {
			n++
		}
	}
	return n
}

// Count returns how many entries are in state s
func (c *CheckResult) Count(s State) int {
	n := 0
	for _, es := range c.Entries {
		if es.Status.State == s {
			n++
		}
	}
	return n
}
