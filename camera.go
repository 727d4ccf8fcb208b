package main

import (
	"errors"
	"fmt"

	"github.com/golang/glog"
	"gocv.io/x/gocv"
)

// frameSource is satisfied by *gocv.VideoCapture.
type frameSource interface {
	Read(m *gocv.Mat) bool
	Close() error
}

// display is satisfied by *gocv.Window.
type display interface {
	IMShow(img gocv.Mat)
	WaitKey(delay int) int
	Close() error
}

// camera owns the capture device and the window it is shown in. Both are
// released together, once, by Close.
type camera struct {
	source frameSource
	window display
	closed bool
}

func openCamera(device int, windowName string) (*camera, error) {
	capture, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, fmt.Errorf("could not open camera %d: %w", device, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("camera %d is not available", device)
	}

	window := gocv.NewWindow(windowName)
	raiseWindow(windowName)

	glog.Infof("Opened camera %d", device)
	return &camera{source: capture, window: window}, nil
}

// Read grabs the next frame. A false return means the device is gone.
func (c *camera) Read(frame *gocv.Mat) bool {
	if c.closed {
		return false
	}
	return c.source.Read(frame) && !frame.Empty()
}

// Show refreshes the window and polls the keyboard for delay
// milliseconds. It reports whether quitKey was pressed.
func (c *camera) Show(frame gocv.Mat, delay, quitKey int) bool {
	c.window.IMShow(frame)
	return c.window.WaitKey(delay)&0xFF == quitKey
}

func (c *camera) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	err := errors.Join(c.source.Close(), c.window.Close())
	glog.Infof("Released camera")
	return err
}
