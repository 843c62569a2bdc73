package main

import (
	"flag"
	"log"
	"runtime"

	"mini2d/internal/config"

	"github.com/xlab/closer"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	fpsLimit := flag.Int("fps", -1, "override the frame rate cap (0 = unlimited)")
	flag.Parse()

	defer closer.Close()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			closer.Fatalln(err)
		}
		cfg = loaded
	}
	if *fpsLimit >= 0 {
		cfg.Frame.FPSLimit = *fpsLimit
	}
	config.Apply(cfg)

	app, err := NewApp(cfg)
	if err != nil {
		closer.Fatalln(err)
	}
	closer.Bind(app.Destroy)

	log.Printf("demo: %dx%d, %d vertices per batch, fps limit %d", cfg.Window.Width, cfg.Window.Height, cfg.Renderer.MaxVertices, config.GetFPSLimit())
	app.Run()
}
