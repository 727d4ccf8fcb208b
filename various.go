package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/disintegration/gift"
	"gocv.io/x/gocv"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var grayscale = gift.New(gift.Grayscale())

// decodeGray loads any registered image format and converts it to 8 bit
// luminance.
func decodeGray(path string) (*image.Gray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	gray := image.NewGray(grayscale.Bounds(img.Bounds()))
	grayscale.Draw(gray, img)
	if gray.Bounds().Empty() {
		return nil, fmt.Errorf("decode %s: empty %s image", path, format)
	}
	return gray, nil
}

// uniform reports whether every pixel of a single channel Mat has the
// same value. Normalized correlation is undefined against such input.
func uniform(m gocv.Mat) bool {
	mean := gocv.NewMat()
	defer mean.Close()
	stddev := gocv.NewMat()
	defer stddev.Close()

	gocv.MeanStdDev(m, &mean, &stddev)
	return stddev.GetDoubleAt(0, 0) < 1e-6
}

func overlap(a, b image.Rectangle) float64 {
	intersect := a.Intersect(b)
	if intersect.Empty() {
		return 0
	}
	interArea := intersect.Dx() * intersect.Dy()
	unionArea := a.Dx()*a.Dy() + b.Dx()*b.Dy() - interArea
	return float64(interArea) / float64(unionArea)
}
