package main

import (
	"errors"
	"fmt"
	"image"
	"sort"

	"gocv.io/x/gocv"
)

var errTemplateTooLarge = errors.New("template larger than frame")

type matchOptions struct {
	suppress bool
	overlap  float64 // IoU above which the weaker box is dropped
}

// matchTemplate correlates a grayscale template against a grayscale frame
// with TM_CCOEFF_NORMED and returns every top left corner scoring at or
// above the template threshold, in row-major order.
func matchTemplate(gray gocv.Mat, t *template, opts matchOptions) (matchResult, error) {
	res := matchResult{
		name:      t.name,
		threshold: t.threshold,
	}

	size := t.size()
	if size.X > gray.Cols() || size.Y > gray.Rows() {
		return res, fmt.Errorf("%s is %dx%d, frame is %dx%d: %w",
			t.name, size.X, size.Y, gray.Cols(), gray.Rows(), errTemplateTooLarge)
	}

	// Zero variance frame, every window scores 0
	if uniform(gray) {
		return res, nil
	}

	surface := gocv.NewMat()
	defer surface.Close()
	mask := gocv.NewMat()
	defer mask.Close()

	gocv.MatchTemplate(gray, t.mat, &surface, gocv.TmCcoeffNormed, mask)
	_, maxVal, _, maxLoc := gocv.MinMaxLoc(surface)
	res.best = maxLoc
	res.bestScore = maxVal

	points, scores, err := scanSurface(surface, t.threshold)
	if err != nil {
		return res, fmt.Errorf("%s: %w", t.name, err)
	}

	boxes := make([]image.Rectangle, len(points))
	for i, pt := range points {
		boxes[i] = image.Rectangle{Min: pt, Max: pt.Add(size)}
	}

	if opts.suppress && len(boxes) > 1 {
		keep := suppress(boxes, scores, opts.overlap)
		points, scores, boxes = filterKept(keep, points, scores, boxes)
	}

	res.points = points
	res.scores = scores
	res.boxes = boxes
	return res, nil
}

// scanSurface walks every score of the correlation surface. NaN never
// compares true so it is skipped.
func scanSurface(surface gocv.Mat, threshold float32) ([]image.Point, []float32, error) {
	data, err := surface.DataPtrFloat32()
	if err != nil {
		return nil, nil, err
	}

	cols := surface.Cols()
	var points []image.Point
	var scores []float32
	for i, v := range data {
		if v >= threshold {
			points = append(points, image.Pt(i%cols, i/cols))
			scores = append(scores, v)
		}
	}
	return points, scores, nil
}

// suppress is greedy non-maximum suppression: boxes are visited from the
// highest score down and dropped when they overlap an already kept box by
// more than maxOverlap.
func suppress(boxes []image.Rectangle, scores []float32, maxOverlap float64) []bool {
	order := make([]int, len(boxes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	keep := make([]bool, len(boxes))
	var kept []int
	for _, i := range order {
		dropped := false
		for _, k := range kept {
			if overlap(boxes[i], boxes[k]) > maxOverlap {
				dropped = true
				break
			}
		}
		if !dropped {
			keep[i] = true
			kept = append(kept, i)
		}
	}
	return keep
}

func filterKept(keep []bool, points []image.Point, scores []float32, boxes []image.Rectangle) ([]image.Point, []float32, []image.Rectangle) {
	var p []image.Point
	var s []float32
	var b []image.Rectangle
	for i, k := range keep {
		if k {
			p = append(p, points[i])
			s = append(s, scores[i])
			b = append(b, boxes[i])
		}
	}
	return p, s, b
}
