//go:build windows

package main

import (
	"syscall"

	"github.com/golang/glog"
	"github.com/lxn/win"
)

// raiseWindow brings the HighGUI window to the front, it otherwise opens
// behind the console that started us.
func raiseWindow(title string) {
	name, err := syscall.UTF16PtrFromString(title)
	if err != nil {
		return
	}

	hwnd := win.FindWindow(nil, name)
	if hwnd == 0 {
		glog.V(1).Infof("Window %q not found", title)
		return
	}

	win.ShowWindow(hwnd, win.SW_RESTORE)
	win.SetForegroundWindow(hwnd)
}
