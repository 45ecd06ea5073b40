package server

import (
	"bytes"
	"encoding/json"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"net/http"
	"strings"

	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/fabricwatch/defect-viewer/internal/defect"
	"github.com/fabricwatch/defect-viewer/internal/gallery"
	"github.com/fabricwatch/defect-viewer/internal/layout"
)

// sessionHeader optionally ties a detect request to a capture session.
const sessionHeader = "X-Session-ID"

type imageSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// detectResponse is the success envelope for POST /api/detect.
type detectResponse struct {
	Success    bool               `json:"success"`
	Image      string             `json:"image"` // annotated JPEG data URI
	ImageSize  imageSize          `json:"image_size"`
	Detections []defect.Detection `json:"detections"`
	Labels     []layout.Label     `json:"labels"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type demoResponse struct {
	DemoImages []gallery.Image `json:"demo_images"`
	Error      string          `json:"error,omitempty"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Detector string `json:"detector"`
	Message  string `json:"message"`
}

// handleDetect accepts a multipart image upload, runs remote detection, and
// responds with the annotated image plus the laid-out label positions.
func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.opts.MaxUploadBytes); err != nil {
		respondError(w, "failed to parse form", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		respondError(w, "no image provided", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, "failed to read file", http.StatusInternalServerError)
		return
	}

	if contentType := http.DetectContentType(data); !strings.HasPrefix(contentType, "image/") {
		respondError(w, "unsupported file type", http.StatusBadRequest)
		return
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		respondError(w, "failed to decode image", http.StatusBadRequest)
		return
	}

	if id := r.Header.Get(sessionHeader); id != "" {
		if _, ok := s.sessions.Get(id); !ok {
			s.logger.Debugw("detect request references unknown session", "session", id)
		}
	}

	detections, err := s.detector.Detect(r.Context(), data)
	if err != nil {
		s.logger.Errorw("detection request failed", "error", err)
		respondError(w, "detection failed", http.StatusInternalServerError)
		return
	}
	confident := defect.FilterConfident(detections, s.opts.MinConfidence)

	result, err := s.annotator.Render(img, confident)
	if err != nil {
		s.logger.Errorw("annotation failed", "error", err)
		respondError(w, "failed to render result", http.StatusInternalServerError)
		return
	}

	respondJSON(w, detectResponse{
		Success:    true,
		Image:      result.ImageBase64,
		ImageSize:  imageSize{Width: result.Width, Height: result.Height},
		Detections: confident,
		Labels:     result.Labels,
	}, http.StatusOK)
}

// handleDemoImages lists the bundled demo images. A missing demo directory is
// reported in-band with an empty list, not as an HTTP failure.
func (s *Server) handleDemoImages(w http.ResponseWriter, r *http.Request) {
	images, err := s.gallery.List()
	if err != nil {
		s.logger.Warnw("demo gallery unavailable", "error", err)
		respondJSON(w, demoResponse{
			DemoImages: []gallery.Image{},
			Error:      "demo folder not found",
		}, http.StatusOK)
		return
	}
	respondJSON(w, demoResponse{DemoImages: images}, http.StatusOK)
}

// handleHealth reports service liveness and whether the detection API is
// reachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	detectorStatus := "ok"
	if err := s.detector.CheckHealth(r.Context()); err != nil {
		detectorStatus = "unreachable"
	}
	respondJSON(w, healthResponse{
		Status:   "healthy",
		Detector: detectorStatus,
		Message:  "defect detection demo is running",
	}, http.StatusOK)
}

// handleStartSession opens a capture session.
func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Source string `json:"source"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}

	sess, err := s.sessions.Start(SessionSource(req.Source))
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.logger.Debugw("session started", "session", sess.ID, "source", sess.Source)
	respondJSON(w, sess, http.StatusCreated)
}

// handleEndSession tears down a capture session.
func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.sessions.End(id); err != nil {
		respondError(w, "session not found", http.StatusNotFound)
		return
	}
	s.logger.Debugw("session ended", "session", id)
	w.WriteHeader(http.StatusNoContent)
}

func respondJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, errorResponse{Success: false, Error: message}, status)
}
