package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/edaniels/golog"

	"github.com/fabricwatch/defect-viewer/internal/annotate"
	"github.com/fabricwatch/defect-viewer/internal/config"
	"github.com/fabricwatch/defect-viewer/internal/detect"
	"github.com/fabricwatch/defect-viewer/internal/gallery"
	"github.com/fabricwatch/defect-viewer/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("defect-viewer %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("defect-viewer - web demo for building-defect detection")
			fmt.Println()
			fmt.Println("Usage: defect-viewer [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  PORT             HTTP listen port (default 8080)")
			fmt.Println("  DETECTOR_URL     Base URL of the detection API (default http://localhost:5000)")
			fmt.Println("  STATIC_DIR       Static assets directory (default ./static)")
			fmt.Println("  DEMO_DIR         Demo images directory (default ./static/demo)")
			fmt.Println("  MIN_CONFIDENCE   Confidence floor for detections (default 0.3)")
			fmt.Println("  MAX_UPLOAD_MB    Upload size cap (default 50)")
			fmt.Println("  JPEG_QUALITY     Quality for rendered JPEGs (default 95)")
			fmt.Println("  DETECT_TIMEOUT   Per-attempt detection timeout (default 60s)")
			fmt.Println("  DEBUG            Any value enables verbose logging")
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := golog.NewLogger("defect-viewer")
	if cfg.Debug {
		logger = golog.NewDevelopmentLogger("defect-viewer")
	}
	logger.Infow("starting", "version", Version, "commit", GitCommit)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	detector := detect.NewClient(cfg.DetectorURL, cfg.DetectTimeout, logger)
	if err := detector.CheckHealth(ctx); err != nil {
		logger.Warnw("detection service not available", "url", cfg.DetectorURL, "error", err)
	}

	annotator, err := annotate.New(annotate.Options{Quality: cfg.JPEGQuality})
	if err != nil {
		logger.Fatalw("failed to build annotator", "error", err)
	}

	srv := server.New(
		detector,
		annotator,
		gallery.New(cfg.DemoDir, cfg.JPEGQuality),
		server.Options{
			MinConfidence:  cfg.MinConfidence,
			MaxUploadBytes: cfg.MaxUploadMB << 20,
			StaticDir:      cfg.StaticDir,
		},
		logger,
	)

	logger.Infow("detection API configured", "url", cfg.DetectorURL)
	if err := srv.Run(ctx, ":"+cfg.Port); err != nil {
		logger.Fatalw("server error", "error", err)
	}
}
