package hotkey

// Conflict is a set of enabled shortcuts bound to the same chord.
type Conflict struct {
	Hotkey    string
	Shortcuts []Shortcut
}

// FindConflicts groups enabled shortcuts by Hotkey and returns every group
// with more than one member, in order of first appearance.
func FindConflicts(c *Config) []Conflict {
	groups := make(map[string][]Shortcut)
	var order []string
	for _, s := range c.Shortcuts {
		if !s.Enabled {
			continue
		}
		hk := s.Hotkey()
		if _, seen := groups[hk]; !seen {
			order = append(order, hk)
		}
		groups[hk] = append(groups[hk], s)
	}

	var conflicts []Conflict
	for _, hk := range order {
		if len(groups[hk]) > 1 {
			conflicts = append(conflicts, Conflict{Hotkey: hk, Shortcuts: groups[hk]})
		}
	}
	return conflicts
}
