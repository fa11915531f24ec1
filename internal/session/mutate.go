package session

import (
	"tilecfg/internal/hotkey"
	"tilecfg/internal/wm"
)

// mutate applies fn to the models under the session lock and, when it
// succeeds, schedules a commit of d.
func (e *Editor) mutate(d *Document, fn func() error) error {
	e.mu.Lock()
	err := fn()
	e.mu.Unlock()
	if err != nil {
		return err
	}
	d.ctrl.Notify()
	return nil
}

// SetSetting changes one window manager setting, e.g. "window_gap" to "12".
func (e *Editor) SetSetting(key, value string) error {
	return e.mutate(e.primary, func() error {
		return e.wm.Set(key, value)
	})
}

// Setting renders one window manager setting.
func (e *Editor) Setting(key string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.wm.Get(key)
}

func (e *Editor) AddRule(r wm.Rule) (wm.Rule, error) {
	var added wm.Rule
	err := e.mutate(e.primary, func() error {
		var err error
		added, err = e.wm.AddRule(r)
		return err
	})
	return added, err
}

func (e *Editor) UpdateRule(r wm.Rule) error {
	return e.mutate(e.primary, func() error {
		return e.wm.UpdateRule(r)
	})
}

func (e *Editor) DeleteRule(id string) error {
	return e.mutate(e.primary, func() error {
		return e.wm.DeleteRule(id)
	})
}

func (e *Editor) ToggleRule(id string) (bool, error) {
	var enabled bool
	err := e.mutate(e.primary, func() error {
		var err error
		enabled, err = e.wm.ToggleRule(id)
		return err
	})
	return enabled, err
}

func (e *Editor) MoveRule(id string, index int) error {
	return e.mutate(e.primary, func() error {
		return e.wm.MoveRule(id, index)
	})
}

func (e *Editor) AddSignal(s wm.Signal) (wm.Signal, error) {
	var added wm.Signal
	err := e.mutate(e.primary, func() error {
		var err error
		added, err = e.wm.AddSignal(s)
		return err
	})
	return added, err
}

func (e *Editor) UpdateSignal(s wm.Signal) error {
	return e.mutate(e.primary, func() error {
		return e.wm.UpdateSignal(s)
	})
}

func (e *Editor) DeleteSignal(id string) error {
	return e.mutate(e.primary, func() error {
		return e.wm.DeleteSignal(id)
	})
}

func (e *Editor) ToggleSignal(id string) (bool, error) {
	var enabled bool
	err := e.mutate(e.primary, func() error {
		var err error
		enabled, err = e.wm.ToggleSignal(id)
		return err
	})
	return enabled, err
}

func (e *Editor) AddShortcut(s hotkey.Shortcut) (hotkey.Shortcut, error) {
	var added hotkey.Shortcut
	err := e.mutate(e.hotkeys, func() error {
		var err error
		added, err = e.hk.Add(s)
		return err
	})
	return added, err
}

func (e *Editor) UpdateShortcut(s hotkey.Shortcut) error {
	return e.mutate(e.hotkeys, func() error {
		return e.hk.Update(s)
	})
}

func (e *Editor) DeleteShortcut(id string) error {
	return e.mutate(e.hotkeys, func() error {
		return e.hk.Delete(id)
	})
}

func (e *Editor) ToggleShortcut(id string) (bool, error) {
	var enabled bool
	err := e.mutate(e.hotkeys, func() error {
		var err error
		enabled, err = e.hk.Toggle(id)
		return err
	})
	return enabled, err
}

func (e *Editor) SetShortcutCategory(id string, cat hotkey.Category) error {
	return e.mutate(e.hotkeys, func() error {
		return e.hk.SetCategory(id, cat)
	})
}
