//go:build windows

package daemon

import (
	"context"
	"syscall"
	"time"
	"unsafe"

	"fyne.io/systray"
	"go.uber.org/zap"
)

var (
	user32      = syscall.NewLazyDLL("user32.dll")
	messageBoxW = user32.NewProc("MessageBoxW")
)

const (
	mbOK              = 0x00000000
	mbIconInformation = 0x00000040
)

// TrayApp shows the current lesson in the system tray
type TrayApp struct {
	clock  *Clock
	status StatusFunc
	logger *zap.Logger
	quit   chan struct{}
}

// NewTrayApp creates a new system tray application
func NewTrayApp(clock *Clock, status StatusFunc, logger *zap.Logger) (*TrayApp, error) {
	return &TrayApp{
		clock:  clock,
		status: status,
		logger: logger,
		quit:   make(chan struct{}),
	}, nil
}

// Run starts the tray and the clock (blocks until Quit)
func (t *TrayApp) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *TrayApp) onReady() {
	systray.SetIcon(boardIcon())
	systray.SetTitle("课表")
	systray.SetTooltip("Teaching board")

	mStatus := systray.AddMenuItem("当前课程", "Show the current lesson")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("退出", "Exit the application")

	t.clock.OnTick(func(now time.Time) {
		systray.SetTooltip(t.status(now))
	})

	go func() {
		if err := t.clock.Run(context.Background()); err != nil {
			t.logger.Error("Clock failed", zap.Error(err))
		}
	}()

	go func() {
		for {
			select {
			case <-mStatus.ClickedCh:
				t.logger.Info("Status clicked from tray")
				showMessageBox("Teaching board", t.status(t.clock.Now()))
			case <-mQuit.ClickedCh:
				t.logger.Info("Quit clicked from tray")
				t.clock.Stop()
				systray.Quit()
				return
			case <-t.clock.Done():
				systray.Quit()
				return
			case <-t.quit:
				systray.Quit()
				return
			}
		}
	}()
}

func (t *TrayApp) onExit() {
	t.logger.Info("System tray exited")
}

// Stop stops the system tray application
func (t *TrayApp) Stop() {
	close(t.quit)
}

func showMessageBox(title, message string) {
	titlePtr, _ := syscall.UTF16PtrFromString(title)
	messagePtr, _ := syscall.UTF16PtrFromString(message)
	messageBoxW.Call(
		0,
		uintptr(unsafe.Pointer(messagePtr)),
		uintptr(unsafe.Pointer(titlePtr)),
		uintptr(mbOK|mbIconInformation),
	)
}
