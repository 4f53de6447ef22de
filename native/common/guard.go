package common

import "errors"

// ErrModulePaused is returned when an operator has halted a native module.
var ErrModulePaused = errors.New("module paused")

// PauseView reports whether a named module is currently halted.
type PauseView interface {
	IsPaused(module string) bool
}

// PauseSet is a fixed in-memory PauseView, handy for tooling and tests.
type PauseSet map[string]bool

// IsPaused implements PauseView.
func (s PauseSet) IsPaused(module string) bool { return s[module] }

// Guard rejects the call when the module is paused. A nil view or empty module
// name never blocks.
func Guard(view PauseView, module string) error {
	if view == nil || module == "" {
		return nil
	}
	if view.IsPaused(module) {
		return ErrModulePaused
	}
	return nil
}
