package main

import "testing"

func TestOpenCameraMissingDevice(t *testing.T) {
	cam, err := openCamera(99, "missing")
	if err == nil {
		cam.Close()
		t.Skip("device 99 exists on this machine")
	}
}

func TestCameraCloseOnce(t *testing.T) {
	cam, src, win := newTestCamera(nil, false)

	for i := 0; i < 3; i++ {
		if err := cam.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}
	if src.closes != 1 || win.closes != 1 {
		t.Errorf("closed capture %d and window %d times, want 1 each", src.closes, win.closes)
	}
}
