// Package annotate renders detection overlays onto the processed image:
// bounding-box outlines, translucent fills for moisture patches, and label
// chips positioned by the layout engine.
//
// The source image is first resized to the fixed 512x512 space the detection
// API reports coordinates in, so boxes can be drawn without any further
// coordinate mapping. Output is a JPEG data URI, matching what the demo page
// displays.
package annotate

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/anthonynsimon/bild/blend"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/fabricwatch/defect-viewer/internal/defect"
	"github.com/fabricwatch/defect-viewer/internal/layout"
)

// Options tunes the rendered overlay. Zero fields fall back to defaults.
type Options struct {
	FontSize    float64 // label text size in points (default 13)
	LineWidth   float64 // box outline width in pixels (default 2)
	Quality     int     // JPEG quality 1-100 (default 95)
	FillOpacity float64 // opacity of moisture fills, 0-1 (default 0.25)
}

// Label chip padding around the text, in pixels.
const (
	chipPadX = 6
	chipPadY = 3
)

// Result is the rendered annotation output.
type Result struct {
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	ImageBase64 string         `json:"image_base64"` // data URI
	MimeType    string         `json:"mime_type"`
	Labels      []layout.Label `json:"labels"`
}

// Annotator draws detection overlays. Construct with New; an Annotator is
// safe for concurrent use, with render passes serialized internally (one
// layout-and-draw pass runs at a time).
type Annotator struct {
	mu     sync.Mutex
	opts   Options
	face   font.Face
	engine *layout.Engine
}

// New builds an annotator with the bundled Go Regular font and a layout
// engine backed by real text metrics.
func New(opts Options) (*Annotator, error) {
	if opts.FontSize <= 0 {
		opts.FontSize = 13
	}
	if opts.LineWidth <= 0 {
		opts.LineWidth = 2
	}
	if opts.Quality <= 0 {
		opts.Quality = 95
	}
	if opts.FillOpacity <= 0 {
		opts.FillOpacity = 0.25
	}

	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	a := &Annotator{
		opts: opts,
		face: truetype.NewFace(f, &truetype.Options{Size: opts.FontSize}),
	}
	engine := layout.NewEngine()
	engine.Measure = a.measure
	a.engine = engine
	return a, nil
}

// measure sizes a label chip from the real font metrics. Called only from
// within a render pass, which already holds the annotator lock.
func (a *Annotator) measure(text string) (w, h float64) {
	advance := font.MeasureString(a.face, text)
	metrics := a.face.Metrics()
	w = float64(advance.Ceil()) + 2*chipPadX
	h = float64((metrics.Ascent + metrics.Descent).Ceil()) + 2*chipPadY
	return w, h
}

// Render resizes the image to the 512x512 normalized space, draws all
// detection overlays, and returns the annotated image as a JPEG data URI
// together with the resolved label placements.
//
// Zero detections produce the bare resized image and an empty label list.
func (a *Annotator) Render(img image.Image, detections []defect.Detection) (*Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	const size = defect.NormalizedSize
	base := imaging.Resize(img, size, size, imaging.Lanczos)

	var canvas image.Image = base
	if fills, ok := moistureFills(detections); ok {
		canvas = blend.Opacity(base, fills, a.opts.FillOpacity)
	}

	dc := gg.NewContextForImage(canvas)

	regions := make([]layout.Region, len(detections))
	colors := make(map[layout.Region]color.RGBA, len(detections))
	for i, d := range detections {
		a.drawBox(dc, d.BoundingBox, colorFor(d))
		regions[i] = layout.Region{
			X1:   d.BoundingBox.X1,
			Y1:   d.BoundingBox.Y1,
			X2:   d.BoundingBox.X2,
			Y2:   d.BoundingBox.Y2,
			Text: d.Label(),
		}
		colors[regions[i]] = colorFor(d)
	}

	labels := a.engine.Layout(regions, size, size)
	for _, l := range labels {
		a.drawChip(dc, l, colors[l.Region])
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, dc.Image(), imaging.JPEG, imaging.JPEGQuality(a.opts.Quality)); err != nil {
		return nil, fmt.Errorf("failed to encode annotated image: %w", err)
	}

	return &Result{
		Width:       size,
		Height:      size,
		ImageBase64: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/jpeg",
		Labels:      labels,
	}, nil
}

// moistureFills builds the translucent-fill layer for moisture detections.
// The second return is false when there is nothing to fill.
func moistureFills(detections []defect.Detection) (image.Image, bool) {
	fills := image.NewRGBA(image.Rect(0, 0, defect.NormalizedSize, defect.NormalizedSize))
	any := false
	for _, d := range detections {
		if d.Type != defect.TypeMoisture {
			continue
		}
		b := d.BoundingBox
		rect := image.Rect(int(b.X1), int(b.Y1), int(b.X2), int(b.Y2))
		draw.Draw(fills, rect, &image.Uniform{C: colorFor(d)}, image.Point{}, draw.Src)
		any = true
	}
	return fills, any
}

// drawBox strokes the bounding-box outline edge by edge. Boxes with x2 < x1
// are drawn as-is; the crossed lines are the accepted artifact for malformed
// responses.
func (a *Annotator) drawBox(dc *gg.Context, b defect.BoundingBox, c color.RGBA) {
	dc.SetColor(c)
	dc.SetLineWidth(a.opts.LineWidth)

	dc.DrawLine(b.X1, b.Y1, b.X2, b.Y1)
	dc.Stroke()
	dc.DrawLine(b.X1, b.Y1, b.X1, b.Y2)
	dc.Stroke()
	dc.DrawLine(b.X2, b.Y1, b.X2, b.Y2)
	dc.Stroke()
	dc.DrawLine(b.X1, b.Y2, b.X2, b.Y2)
	dc.Stroke()
}

// drawChip fills the label background and writes the text on top.
func (a *Annotator) drawChip(dc *gg.Context, l layout.Label, c color.RGBA) {
	r := l.ScreenRect
	dc.SetColor(c)
	dc.DrawRectangle(r.Left, r.Top, r.Width, r.Height)
	dc.Fill()

	dc.SetFontFace(a.face)
	dc.SetColor(color.White)
	baseline := r.Top + chipPadY + float64(a.face.Metrics().Ascent.Ceil())
	dc.DrawString(l.Region.Text, r.Left+chipPadX, baseline)
}
