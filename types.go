package main

import (
	"image"

	"gocv.io/x/gocv"
)

type template struct {
	name      string
	path      string
	threshold float32
	mat       gocv.Mat // single channel, 8 bit
}

func (t *template) size() image.Point {
	return image.Pt(t.mat.Cols(), t.mat.Rows())
}

func (t *template) Close() error {
	return t.mat.Close()
}

type matchResult struct {
	name      string
	threshold float32

	// Global maximum of the correlation surface. Informational only,
	// drawing is driven by points.
	best      image.Point
	bestScore float32

	points []image.Point
	scores []float32
	boxes  []image.Rectangle
}
