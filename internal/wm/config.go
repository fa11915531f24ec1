// Package wm models the window manager (yabai) configuration file and
// converts it to and from its shell-script form.
package wm

// Command prefixes of the directives this package understands.
const (
	ConfigPrefix = "yabai -m config"
	RulePrefix   = "yabai -m rule --add"
	SignalPrefix = "yabai -m signal --add"
)

// Shebang is the interpreter line every serialized file starts with.
const Shebang = "#!/usr/bin/env sh"

// SelfApp is the app pattern of the rule that keeps the editor's own window
// out of tiling. SelfRuleID is the identifier that rule always carries.
const (
	SelfApp    = "^tilecfg$"
	SelfRuleID = "rule-self"
)

type Layout string

const (
	LayoutBSP   Layout = "bsp"
	LayoutFloat Layout = "float"
	LayoutStack Layout = "stack"
)

type Placement string

const (
	PlacementFirstChild  Placement = "first_child"
	PlacementSecondChild Placement = "second_child"
)

type FocusMode string

const (
	FocusOff       FocusMode = "off"
	FocusAutoraise FocusMode = "autoraise"
	FocusAutofocus FocusMode = "autofocus"
)

type Modifier string

const (
	ModFn    Modifier = "fn"
	ModAlt   Modifier = "alt"
	ModShift Modifier = "shift"
	ModCmd   Modifier = "cmd"
	ModCtrl  Modifier = "ctrl"
)

type MouseAction string

const (
	MouseMove   MouseAction = "move"
	MouseResize MouseAction = "resize"
)

type DropAction string

const (
	DropSwap  DropAction = "swap"
	DropStack DropAction = "stack"
)

type SplitType string

const (
	SplitAuto       SplitType = "auto"
	SplitVertical   SplitType = "vertical"
	SplitHorizontal SplitType = "horizontal"
)

type Shadow string

const (
	ShadowOn    Shadow = "on"
	ShadowOff   Shadow = "off"
	ShadowFloat Shadow = "float"
)

type Layer string

const (
	LayerNone   Layer = ""
	LayerBelow  Layer = "below"
	LayerNormal Layer = "normal"
	LayerAbove  Layer = "above"
)

// ExternalBar reserves screen space for a status bar, encoded as mode:top:bottom.
type ExternalBar struct {
	Mode   string `yaml:"mode"` // all, main or off
	Top    int    `yaml:"top"`
	Bottom int    `yaml:"bottom"`
}

// Rule is a window rule. Disabled rules live only in memory: the file format
// has no "off" form for an additive rule directive.
type Rule struct {
	ID      string `yaml:"id"`
	Label   string `yaml:"label,omitempty"`
	App     string `yaml:"app,omitempty"`
	Title   string `yaml:"title,omitempty"`
	Manage  bool   `yaml:"manage"`
	Sticky  *bool  `yaml:"sticky,omitempty"`
	Layer   Layer  `yaml:"layer,omitempty"`
	Space   *int   `yaml:"space,omitempty"`
	Enabled bool   `yaml:"enabled"`
}

// IsProtected reports whether r is the editor's own window rule.
func (r Rule) IsProtected() bool { return r.ID == SelfRuleID }

// Signal runs an action when the window manager emits an event.
type Signal struct {
	ID      string `yaml:"id"`
	Event   Event  `yaml:"event"`
	Action  string `yaml:"action"`
	Label   string `yaml:"label,omitempty"`
	Enabled bool   `yaml:"enabled"`
}

// Config is the structured form of the window manager config file.
type Config struct {
	Layout          Layout       `yaml:"layout"`
	TopPadding      int          `yaml:"top_padding"`
	BottomPadding   int          `yaml:"bottom_padding"`
	LeftPadding     int          `yaml:"left_padding"`
	RightPadding    int          `yaml:"right_padding"`
	WindowGap       int          `yaml:"window_gap"`
	WindowPlacement Placement    `yaml:"window_placement"`
	ExternalBar     *ExternalBar `yaml:"external_bar,omitempty"`

	MouseFollowsFocus bool        `yaml:"mouse_follows_focus"`
	FocusFollowsMouse FocusMode   `yaml:"focus_follows_mouse"`
	MouseModifier     Modifier    `yaml:"mouse_modifier"`
	MouseAction1      MouseAction `yaml:"mouse_action1"`
	MouseAction2      MouseAction `yaml:"mouse_action2"`
	MouseDropAction   DropAction  `yaml:"mouse_drop_action"`

	SplitRatio  float64   `yaml:"split_ratio"`
	SplitType   SplitType `yaml:"split_type"`
	AutoBalance bool      `yaml:"auto_balance"`

	WindowOpacity         bool    `yaml:"window_opacity"`
	ActiveWindowOpacity   float64 `yaml:"active_window_opacity"`
	NormalWindowOpacity   float64 `yaml:"normal_window_opacity"`
	WindowOpacityDuration float64 `yaml:"window_opacity_duration"`

	WindowShadow Shadow `yaml:"window_shadow"`

	WindowBorder      bool   `yaml:"window_border"`
	WindowBorderWidth int    `yaml:"window_border_width"`
	ActiveBorderColor string `yaml:"active_window_border_color"`
	NormalBorderColor string `yaml:"normal_window_border_color"`

	AnimationDuration float64 `yaml:"window_animation_duration"`

	Rules   []Rule   `yaml:"rules"`
	Signals []Signal `yaml:"signals"`
}

// NewConfig returns a Config holding the defaults and the protected self rule.
func NewConfig() *Config {
	c := &Config{}
	c.Reset()
	return c
}

// Reset restores every setting to its default and drops all rules and
// signals except the protected self rule. It is the only way that rule is
// ever rebuilt.
func (c *Config) Reset() {
	*c = Config{
		Layout:          LayoutBSP,
		TopPadding:      10,
		BottomPadding:   10,
		LeftPadding:     10,
		RightPadding:    10,
		WindowGap:       10,
		WindowPlacement: PlacementSecondChild,

		FocusFollowsMouse: FocusOff,
		MouseModifier:     ModFn,
		MouseAction1:      MouseMove,
		MouseAction2:      MouseResize,
		MouseDropAction:   DropSwap,

		SplitRatio: 0.5,
		SplitType:  SplitAuto,

		ActiveWindowOpacity: 1.0,
		NormalWindowOpacity: 0.9,

		WindowShadow: ShadowOn,

		WindowBorderWidth: 4,
		ActiveBorderColor: "0xff775759",
		NormalBorderColor: "0xff555555",

		Rules: []Rule{selfRule()},
	}
}

func selfRule() Rule {
	return Rule{ID: SelfRuleID, App: SelfApp, Manage: false, Enabled: true}
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	if c.ExternalBar != nil {
		bar := *c.ExternalBar
		out.ExternalBar = &bar
	}
	out.Rules = make([]Rule, len(c.Rules))
	for i, r := range c.Rules {
		if r.Sticky != nil {
			v := *r.Sticky
			r.Sticky = &v
		}
		if r.Space != nil {
			v := *r.Space
			r.Space = &v
		}
		out.Rules[i] = r
	}
	out.Signals = append([]Signal(nil), c.Signals...)
	return &out
}
