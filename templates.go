package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/golang/glog"
	"gocv.io/x/gocv"
)

var errUniformTemplate = errors.New("template has no contrast")

// templateStore holds every template of a directory in memory. The set is
// read once at startup and, when watching, again after the directory
// changes.
type templateStore struct {
	dir       string
	threshold func(name string) float32
	templates []*template
	watcher   *fsnotify.Watcher
}

func loadTemplates(cfg Config) (*templateStore, error) {
	s := &templateStore{
		dir:       cfg.TemplateDir,
		threshold: cfg.thresholdFor,
	}

	if err := s.reload(); err != nil {
		return nil, err
	}

	if cfg.Watch {
		if err := s.watch(); err != nil {
			s.Close()
			return nil, err
		}
	}

	return s, nil
}

func (s *templateStore) Templates() []*template {
	return s.templates
}

func (s *templateStore) reload() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to list templates: %w", err)
	}

	var loaded []*template
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		t, err := loadTemplate(path, s.threshold)
		if err != nil {
			glog.Warningf("Skipping template %s: %v", path, err)
			continue
		}
		glog.V(1).Infof("Loaded template %s (%dx%d, threshold %.2f)", t.name, t.mat.Cols(), t.mat.Rows(), t.threshold)
		loaded = append(loaded, t)
	}

	old := s.templates
	s.templates = loaded
	for _, t := range old {
		t.Close()
	}

	glog.Infof("Loaded %d templates from %s", len(loaded), s.dir)
	return nil
}

func loadTemplate(path string, threshold func(string) float32) (*template, error) {
	gray, err := decodeGray(path)
	if err != nil {
		return nil, err
	}

	mat, err := gocv.ImageGrayToMatGray(gray)
	if err != nil {
		return nil, err
	}

	// OpenCV scores a flat template as 1.0 at every position
	if uniform(mat) {
		mat.Close()
		return nil, errUniformTemplate
	}

	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	return &template{
		name:      name,
		path:      path,
		threshold: threshold(name),
		mat:       mat,
	}, nil
}

func (s *templateStore) watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to watch templates: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", s.dir, err)
	}
	s.watcher = watcher
	glog.Infof("Watching %s for template changes", s.dir)
	return nil
}

// Refresh drains pending directory events without blocking and reloads
// the set if any of them touched it. On a failed reload the previous set
// stays in place.
func (s *templateStore) Refresh() (bool, error) {
	if s.watcher == nil {
		return false, nil
	}

	changed := false
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				s.stopWatching()
				return false, errors.New("template watcher stopped")
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				glog.V(1).Infof("Template change: %v", event)
				changed = true
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				s.stopWatching()
				return false, errors.New("template watcher stopped")
			}
			glog.Warningf("Template watcher: %v", err)
		default:
			if !changed {
				return false, nil
			}
			return true, s.reload()
		}
	}
}

func (s *templateStore) stopWatching() {
	if s.watcher != nil {
		s.watcher.Close()
		s.watcher = nil
	}
}

func (s *templateStore) Close() error {
	s.stopWatching()
	for _, t := range s.templates {
		t.Close()
	}
	s.templates = nil
	return nil
}
