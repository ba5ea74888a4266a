//go:build !windows

package daemon

import "go.uber.org/zap"

// TrayApp represents system tray application (stub for non-Windows platforms)
type TrayApp struct{}

// NewTrayApp creates a new system tray application (not supported on this platform)
func NewTrayApp(clock *Clock, status StatusFunc, logger *zap.Logger) (*TrayApp, error) {
	return nil, ErrTrayUnsupported
}

// Run does nothing on non-Windows platforms
func (t *TrayApp) Run() {
}

// Stop does nothing on non-Windows platforms
func (t *TrayApp) Stop() {
}
