package hotkey

import "regexp"

// Inference rules, tried in order. The first match wins.
var inferRules = []struct {
	category Category
	pattern  *regexp.Regexp
}{
	{CategorySpaces, regexp.MustCompile(`-m\s+space\b|--space\s+\S+`)},
	{CategoryResize, regexp.MustCompile(`--resize\b`)},
	{CategoryFocus, regexp.MustCompile(`--focus\b`)},
	{CategoryMove, regexp.MustCompile(`--(swap|warp|move|display)\b|\b(north|south|east|west)\b`)},
	{CategoryLayout, regexp.MustCompile(`--(layout|toggle|rotate|mirror|balance|equalize)\b`)},
}

// InferCategory classifies an action command. Unrecognized commands are custom.
func InferCategory(action string) Category {
	for _, r := range inferRules {
		if r.pattern.MatchString(action) {
			return r.category
		}
	}
	return CategoryCustom
}
