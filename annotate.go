package main

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// annotate draws the outline of every box onto the color frame in place.
func annotate(frame *gocv.Mat, boxes []image.Rectangle, c color.RGBA, thickness int) {
	for _, box := range boxes {
		gocv.Rectangle(frame, box, c, thickness)
	}
}

// toGray converts whatever the camera delivers to a single channel frame.
func toGray(frame gocv.Mat, gray *gocv.Mat) {
	switch frame.Channels() {
	case 1:
		frame.CopyTo(gray)
	case 4:
		gocv.CvtColor(frame, gray, gocv.ColorBGRAToGray)
	default:
		gocv.CvtColor(frame, gray, gocv.ColorBGRToGray)
	}
}
