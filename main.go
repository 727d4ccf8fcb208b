package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"
)

var flagConfig = flag.String("config", "", "YAML or INI configuration file")
var flagDevice = flag.Int("device", 1, "camera device index")
var flagTemplates = flag.String("templates", "map", "directory of template images")
var flagThreshold = flag.Float64("threshold", 0.8, "minimum normalized correlation for a match")
var flagSuppress = flag.Bool("suppress", false, "merge overlapping boxes with non-maximum suppression")
var flagWatch = flag.Bool("watch", false, "reload templates when the directory changes")

func main() {
	flag.Parse()
	os.Exit(mainExit())
}

func mainExit() int {
	defer glog.Flush()

	cfg, err := configure()
	if err != nil {
		glog.Errorf("Configuration: %v", err)
		return 2
	}

	store, err := loadTemplates(cfg)
	if err != nil {
		glog.Errorf("%v", err)
		return 1
	}
	defer store.Close()

	cam, err := openCamera(cfg.Device, cfg.WindowName)
	if err != nil {
		glog.Errorf("%v", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	glog.Infof("Matching %d templates, press %q in the window to quit", len(store.Templates()), cfg.QuitKey)
	if err := run(ctx, cfg, cam, store); err != nil {
		glog.Errorf("%v", err)
		return 1
	}
	return 0
}

// configure starts from the defaults or the config file and applies the
// flags given on the command line.
func configure() (Config, error) {
	cfg := DefaultConfig()
	if *flagConfig != "" {
		var err error
		cfg, err = LoadConfig(*flagConfig)
		if err != nil {
			return cfg, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "device":
			cfg.Device = *flagDevice
		case "templates":
			cfg.TemplateDir = *flagTemplates
		case "threshold":
			cfg.Threshold = float32(*flagThreshold)
		case "suppress":
			cfg.Suppress = *flagSuppress
		case "watch":
			cfg.Watch = *flagWatch
		}
	})

	return cfg, cfg.Validate()
}
