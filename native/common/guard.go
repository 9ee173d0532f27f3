package common

import (
	"errors"
	"fmt"
)

var ErrModulePaused = errors.New("module paused")

// PauseView reports whether a named module is administratively paused.
type PauseView interface {
	IsPaused(module string) bool
}

// Guard returns an error wrapping ErrModulePaused, naming the module, when it
// is paused. A nil view or empty module name disables the check.
func Guard(p PauseView, module string) error {
	if p == nil || module == "" {
		return nil
	}
	if p.IsPaused(module) {
		return fmt.Errorf("%w: %s", ErrModulePaused, module)
	}
	return nil
}
