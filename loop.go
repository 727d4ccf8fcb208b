package main

import (
	"context"
	"errors"
	"time"

	"github.com/golang/glog"
	"gocv.io/x/gocv"
)

var errCaptureFailed = errors.New("could not read video frame")

// run is the capture loop. It owns cam and releases it on every return
// path. The quit key ends the whole run, not just the current frame.
func run(ctx context.Context, cfg Config, cam *camera, store *templateStore) error {
	defer func() {
		if err := cam.Close(); err != nil {
			glog.Warningf("Releasing camera: %v", err)
		}
	}()

	frame := gocv.NewMat()
	defer frame.Close()
	gray := gocv.NewMat()
	defer gray.Close()

	opts := matchOptions{
		suppress: cfg.Suppress,
		overlap:  cfg.Overlap,
	}
	boxColor := cfg.boxColor()
	quitKey := cfg.quitKey()
	skipped := make(map[string]bool)

	start := time.Now()
	var frames int
	for {
		if ctx.Err() != nil {
			glog.Infof("Interrupted after %d frames", frames)
			return nil
		}

		if changed, err := store.Refresh(); err != nil {
			glog.Warningf("Reloading templates: %v", err)
		} else if changed {
			skipped = make(map[string]bool)
		}

		if !cam.Read(&frame) {
			glog.Errorf("Could not read video frame after %d frames", frames)
			return errCaptureFailed
		}
		frames++
		toGray(frame, &gray)

		templates := store.Templates()
		if len(templates) == 0 {
			if cam.Show(frame, cfg.KeyDelay, quitKey) {
				glog.Infof("Quit requested after %d frames", frames)
				return nil
			}
			continue
		}

		for _, t := range templates {
			if ctx.Err() != nil {
				break
			}

			res, err := matchTemplate(gray, t, opts)
			switch {
			case errors.Is(err, errTemplateTooLarge):
				if !skipped[t.name] {
					glog.Warningf("Not matching %v", err)
					skipped[t.name] = true
				}
			case err != nil:
				glog.Warningf("Matching %s: %v", t.name, err)
			default:
				glog.V(2).Infof("%s: best %.3f at %v, %d matches >= %.2f",
					res.name, res.bestScore, res.best, len(res.boxes), res.threshold)
				annotate(&frame, res.boxes, boxColor, cfg.BoxThickness)
			}

			if cam.Show(frame, cfg.KeyDelay, quitKey) {
				glog.Infof("Quit requested after %d frames", frames)
				return nil
			}
		}

		if frames%100 == 0 {
			glog.V(1).Infof("%d frames, %.1f fps", frames, float64(frames)/time.Since(start).Seconds())
		}
	}
}
