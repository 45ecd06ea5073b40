package server

import (
	"context"
	"net/http"
	"time"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"go.uber.org/multierr"

	"github.com/fabricwatch/defect-viewer/internal/annotate"
	"github.com/fabricwatch/defect-viewer/internal/defect"
	"github.com/fabricwatch/defect-viewer/internal/gallery"
)

// Detector finds defects in an image via the remote detection API.
type Detector interface {
	Detect(ctx context.Context, imageData []byte) ([]defect.Detection, error)
	CheckHealth(ctx context.Context) error
}

// Options tunes the HTTP server.
type Options struct {
	// MinConfidence drops detections at or below this confidence before
	// rendering.
	MinConfidence float64

	// MaxUploadBytes caps multipart uploads. Zero means 50MB.
	MaxUploadBytes int64

	// StaticDir, when set, is served for every path outside /api.
	StaticDir string
}

// Server is the HTTP front of the defect-detection demo: it accepts images,
// forwards them to the detector, renders the annotated result, and serves the
// demo gallery and static assets.
type Server struct {
	detector  Detector
	annotator *annotate.Annotator
	gallery   *gallery.Gallery
	sessions  *SessionStore
	logger    golog.Logger
	opts      Options
}

// New assembles a server from its collaborators.
func New(detector Detector, annotator *annotate.Annotator, g *gallery.Gallery, opts Options, logger golog.Logger) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 50 << 20
	}
	return &Server{
		detector:  detector,
		annotator: annotator,
		gallery:   g,
		sessions:  NewSessionStore(),
		logger:    logger,
		opts:      opts,
	}
}

// Handler builds the route table with permissive CORS, matching what the
// browser demo needs when served from another origin.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/detect", s.handleDetect)
	mux.HandleFunc("GET /api/demo-images", s.handleDemoImages)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/sessions", s.handleStartSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleEndSession)
	if s.opts.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.opts.StaticDir)))
	}
	return cors.AllowAll().Handler(mux)
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()
	s.logger.Infow("server listening", "addr", addr)

	select {
	case err := <-serveErr:
		return errors.Wrap(err, "serve")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	listenErr := <-serveErr
	if errors.Is(listenErr, http.ErrServerClosed) {
		listenErr = nil
	}
	return multierr.Combine(err, listenErr)
}
