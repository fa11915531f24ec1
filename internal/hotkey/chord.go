package hotkey

import (
	"regexp"
	"slices"
	"strings"

	"tilecfg/internal/core"
)

var modifiers = []string{
	"alt", "lalt", "ralt",
	"cmd", "lcmd", "rcmd",
	"ctrl", "lctrl", "rctrl",
	"shift", "lshift", "rshift",
	"fn", "hyper", "meh",
}

var specialKeys = []string{
	"return", "tab", "space", "backspace", "escape", "delete",
	"home", "end", "pageup", "pagedown", "insert",
	"left", "right", "up", "down",
	"sound_up", "sound_down", "mute", "brightness_up", "brightness_down",
}

var (
	functionKey = regexp.MustCompile(`^f([1-9]|1[0-9]|20)$`)
	hexKeycode  = regexp.MustCompile(`^0x[0-9a-f]{1,2}$`)
)

func validKey(k string) bool {
	if len(k) == 1 && (k[0] >= 'a' && k[0] <= 'z' || k[0] >= '0' && k[0] <= '9') {
		return true
	}
	return functionKey.MatchString(k) || hexKeycode.MatchString(k) || slices.Contains(specialKeys, k)
}

// ParseChord validates a chord such as "alt + shift - h" and returns its
// modifiers in canonical (sorted) order and its key. Tokens are
// case-insensitive.
func ParseChord(text string) ([]string, string, error) {
	chord := strings.ToLower(strings.TrimSpace(text))
	if chord == "" {
		return nil, "", core.Invalid("chord", "", "must not be empty")
	}

	var modPart, key string
	if i := strings.LastIndex(chord, "-"); i >= 0 {
		modPart, key = chord[:i], strings.TrimSpace(chord[i+1:])
		if strings.TrimSpace(modPart) == "" {
			return nil, "", core.Invalid("chord", text, "missing modifier before '-'")
		}
	} else {
		key = chord
	}

	if !validKey(key) {
		return nil, "", core.Invalid("key", key, "unknown key")
	}

	var mods []string
	if modPart != "" {
		for _, m := range strings.Split(modPart, "+") {
			m = strings.TrimSpace(m)
			if !slices.Contains(modifiers, m) {
				return nil, "", core.Invalid("modifier", m, "unknown modifier")
			}
			if slices.Contains(mods, m) {
				return nil, "", core.Invalid("modifier", m, "repeated")
			}
			mods = append(mods, m)
		}
	}
	slices.Sort(mods)
	return mods, key, nil
}

// FormatChord renders a chord the way the daemon documents it: "alt + shift - h".
func FormatChord(mods []string, key string) string {
	if len(mods) == 0 {
		return key
	}
	return strings.Join(mods, " + ") + " - " + key
}
