package wm

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"tilecfg/internal/core"
)

// setting describes one scalar "config <key> <value>" directive.
// set validates before assigning, so a rejected value never touches the Config.
type setting struct {
	key string
	get func(c *Config) (string, bool) // false: nothing to write
	set func(c *Config, value string) error
}

var colorPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{8}$`)

// settings is the serialization order of the scalar directives.
var settings = []setting{
	enumSetting("layout", func(c *Config) *Layout { return &c.Layout }, LayoutBSP, LayoutFloat, LayoutStack),
	intSetting("top_padding", 0, 1000, func(c *Config) *int { return &c.TopPadding }),
	intSetting("bottom_padding", 0, 1000, func(c *Config) *int { return &c.BottomPadding }),
	intSetting("left_padding", 0, 1000, func(c *Config) *int { return &c.LeftPadding }),
	intSetting("right_padding", 0, 1000, func(c *Config) *int { return &c.RightPadding }),
	intSetting("window_gap", 0, 1000, func(c *Config) *int { return &c.WindowGap }),
	enumSetting("window_placement", func(c *Config) *Placement { return &c.WindowPlacement }, PlacementFirstChild, PlacementSecondChild),
	{key: "external_bar", get: getExternalBar, set: setExternalBar},
	boolSetting("mouse_follows_focus", func(c *Config) *bool { return &c.MouseFollowsFocus }),
	enumSetting("focus_follows_mouse", func(c *Config) *FocusMode { return &c.FocusFollowsMouse }, FocusOff, FocusAutoraise, FocusAutofocus),
	enumSetting("mouse_modifier", func(c *Config) *Modifier { return &c.MouseModifier }, ModFn, ModAlt, ModShift, ModCmd, ModCtrl),
	enumSetting("mouse_action1", func(c *Config) *MouseAction { return &c.MouseAction1 }, MouseMove, MouseResize),
	enumSetting("mouse_action2", func(c *Config) *MouseAction { return &c.MouseAction2 }, MouseMove, MouseResize),
	enumSetting("mouse_drop_action", func(c *Config) *DropAction { return &c.MouseDropAction }, DropSwap, DropStack),
	floatSetting("split_ratio", 0, 1, func(c *Config) *float64 { return &c.SplitRatio }),
	enumSetting("split_type", func(c *Config) *SplitType { return &c.SplitType }, SplitAuto, SplitVertical, SplitHorizontal),
	boolSetting("auto_balance", func(c *Config) *bool { return &c.AutoBalance }),
	boolSetting("window_opacity", func(c *Config) *bool { return &c.WindowOpacity }),
	floatSetting("active_window_opacity", 0, 1, func(c *Config) *float64 { return &c.ActiveWindowOpacity }),
	floatSetting("normal_window_opacity", 0, 1, func(c *Config) *float64 { return &c.NormalWindowOpacity }),
	floatSetting("window_opacity_duration", 0, math.MaxFloat64, func(c *Config) *float64 { return &c.WindowOpacityDuration }),
	enumSetting("window_shadow", func(c *Config) *Shadow { return &c.WindowShadow }, ShadowOn, ShadowOff, ShadowFloat),
	boolSetting("window_border", func(c *Config) *bool { return &c.WindowBorder }),
	intSetting("window_border_width", 0, 100, func(c *Config) *int { return &c.WindowBorderWidth }),
	colorSetting("active_window_border_color", func(c *Config) *string { return &c.ActiveBorderColor }),
	colorSetting("normal_window_border_color", func(c *Config) *string { return &c.NormalBorderColor }),
	floatSetting("window_animation_duration", 0, math.MaxFloat64, func(c *Config) *float64 { return &c.AnimationDuration }),
}

func lookupSetting(key string) (setting, bool) {
	for _, s := range settings {
		if s.key == key {
			return s, true
		}
	}
	return setting{}, false
}

// Keys returns the scalar setting keys in serialization order.
func Keys() []string {
	keys := make([]string, len(settings))
	for i, s := range settings {
		keys[i] = s.key
	}
	return keys
}

// Get renders the current value of a scalar setting. An unset external bar
// renders as the empty string.
func (c *Config) Get(key string) (string, error) {
	s, ok := lookupSetting(key)
	if !ok {
		return "", core.Invalid("setting", key, "unknown key")
	}
	v, _ := s.get(c)
	return v, nil
}

// Set validates value and assigns it to the scalar setting key.
// Invalid input returns a *core.ValidationError and leaves c unchanged.
func (c *Config) Set(key, value string) error {
	s, ok := lookupSetting(key)
	if !ok {
		return core.Invalid("setting", key, "unknown key")
	}
	return s.set(c, strings.TrimSpace(value))
}

func intSetting(key string, lo, hi int, field func(*Config) *int) setting {
	return setting{
		key: key,
		get: func(c *Config) (string, bool) { return strconv.Itoa(*field(c)), true },
		set: func(c *Config, value string) error {
			n, err := strconv.Atoi(value)
			if err != nil {
				return core.Invalid(key, value, "not an integer")
			}
			if n < lo || n > hi {
				return core.Invalid(key, value, fmt.Sprintf("must be between %d and %d", lo, hi))
			}
			*field(c) = n
			return nil
		},
	}
}

func floatSetting(key string, lo, hi float64, field func(*Config) *float64) setting {
	return setting{
		key: key,
		get: func(c *Config) (string, bool) { return formatFloat(*field(c)), true },
		set: func(c *Config, value string) error {
			f, err := strconv.ParseFloat(value, 64)
			if err != nil || math.IsNaN(f) {
				return core.Invalid(key, value, "not a number")
			}
			if f < lo || f > hi {
				if hi == math.MaxFloat64 {
					return core.Invalid(key, value, fmt.Sprintf("must be at least %s", formatFloat(lo)))
				}
				return core.Invalid(key, value, fmt.Sprintf("must be between %s and %s", formatFloat(lo), formatFloat(hi)))
			}
			*field(c) = f
			return nil
		},
	}
}

func boolSetting(key string, field func(*Config) *bool) setting {
	return setting{
		key: key,
		get: func(c *Config) (string, bool) { return formatBool(*field(c)), true },
		set: func(c *Config, value string) error {
			b, ok := parseBool(value)
			if !ok {
				return core.Invalid(key, value, "expected on or off")
			}
			*field(c) = b
			return nil
		},
	}
}

func enumSetting[T ~string](key string, field func(*Config) *T, allowed ...T) setting {
	return setting{
		key: key,
		get: func(c *Config) (string, bool) { return string(*field(c)), true },
		set: func(c *Config, value string) error {
			for _, a := range allowed {
				if string(a) == value {
					*field(c) = a
					return nil
				}
			}
			names := make([]string, len(allowed))
			for i, a := range allowed {
				names[i] = string(a)
			}
			return core.Invalid(key, value, "expected one of "+strings.Join(names, ", "))
		},
	}
}

func colorSetting(key string, field func(*Config) *string) setting {
	return setting{
		key: key,
		get: func(c *Config) (string, bool) { return *field(c), true },
		set: func(c *Config, value string) error {
			if !colorPattern.MatchString(value) {
				return core.Invalid(key, value, "expected a color like 0xAARRGGBB")
			}
			*field(c) = value
			return nil
		},
	}
}

func getExternalBar(c *Config) (string, bool) {
	if c.ExternalBar == nil {
		return "", false
	}
	b := c.ExternalBar
	return fmt.Sprintf("%s:%d:%d", b.Mode, b.Top, b.Bottom), true
}

// setExternalBar accepts mode:top:bottom. An empty value clears the bar.
func setExternalBar(c *Config, value string) error {
	if value == "" {
		c.ExternalBar = nil
		return nil
	}
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return core.Invalid("external_bar", value, "expected mode:top:bottom")
	}
	switch parts[0] {
	case "all", "main", "off":
	default:
		return core.Invalid("external_bar", value, "mode must be all, main or off")
	}
	top, err1 := strconv.Atoi(parts[1])
	bottom, err2 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || top < 0 || bottom < 0 {
		return core.Invalid("external_bar", value, "offsets must be non-negative integers")
	}
	c.ExternalBar = &ExternalBar{Mode: parts[0], Top: top, Bottom: bottom}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatBool(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "1":
		return true, true
	case "off", "false", "no", "0":
		return false, true
	}
	return false, false
}
