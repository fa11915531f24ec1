package wm

import (
	"testing"

	"tilecfg/internal/core"
)

func TestSetGet(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    string
		wantErr bool
	}{
		{key: "window_gap", value: "12", want: "12"},
		{key: "window_gap", value: "1001", wantErr: true},
		{key: "split_ratio", value: "0.25", want: "0.25"},
		{key: "split_ratio", value: "2", wantErr: true},
		{key: "layout", value: "float", want: "float"},
		{key: "layout", value: "grid", wantErr: true},
		{key: "mouse_follows_focus", value: "true", want: "on"},
		{key: "auto_balance", value: "off", want: "off"},
		{key: "window_shadow", value: "float", want: "float"},
		{key: "external_bar", value: "all:30:0", want: "all:30:0"},
		{key: "external_bar", value: "some:1:1", wantErr: true},
		{key: "active_window_border_color", value: "0xFFAABBCC", want: "0xFFAABBCC"},
		{key: "active_window_border_color", value: "#aabbcc", wantErr: true},
		{key: "window_opacity_duration", value: "-1", wantErr: true},
		{key: "window_animation_duration", value: "0.15", want: "0.15"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			c := NewConfig()
			before, _ := c.Get(tt.key)

			err := c.Set(tt.key, tt.value)
			if tt.wantErr {
				if !core.IsValidation(err) {
					t.Fatalf("Set() error = %v, want validation error", err)
				}
				if after, _ := c.Get(tt.key); after != before {
					t.Errorf("rejected Set() changed value from %q to %q", before, after)
				}
				return
			}
			if err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			got, err := c.Get(tt.key)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Get() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSetGet_UnknownKey(t *testing.T) {
	c := NewConfig()
	if err := c.Set("no_such_key", "1"); !core.IsValidation(err) {
		t.Errorf("Set() error = %v, want validation error", err)
	}
	if _, err := c.Get("no_such_key"); !core.IsValidation(err) {
		t.Errorf("Get() error = %v, want validation error", err)
	}
}

func TestKeys_CoversEverySetting(t *testing.T) {
	keys := Keys()
	if len(keys) != len(settings) {
		t.Fatalf("len(Keys()) = %d, want %d", len(keys), len(settings))
	}
	c := NewConfig()
	for _, k := range keys {
		if _, err := c.Get(k); err != nil {
			t.Errorf("Get(%q) error = %v", k, err)
		}
	}
}
