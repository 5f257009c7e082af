package installer

import "github.com/kennyg/waypoint/internal/config"

// Check classifies every selected entry. It never modifies the target;
// missing and broken entries are reported in the result, not as errors.
func (i *Installer) Check(opts config.Options) (*CheckResult, error) {
	plans, err := i.Plan(opts)
	if err != nil {
		return nil, err
	}

	result := &CheckResult{}
	for _, p := range plans {
		for _, e := range p.Entries {
			st, err := Classify(e)
			if err != nil {
				return result, err
			}
			result.Entries = append(result.Entries, EntryStatus{Entry: e, Status: st})
		}
	}
	return result, nil
}
