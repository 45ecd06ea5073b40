package layout

import "sort"

// Defaults for the engine tuning knobs.
const (
	DefaultSpace  = 512 // side length of the normalized coordinate space
	DefaultMargin = 5   // px; labels closer than this count as colliding
	DefaultGapX   = 10  // px; gap applied when shifting a label sideways
	DefaultGapY   = 5   // px; gap applied when shifting a label downward
	DefaultPad    = 4   // px; gap between a box edge and its label
)

// Edge-proximity thresholds, as fractions of the normalized space.
const (
	nearTopFrac    = 0.15
	nearBottomFrac = 0.85
	nearRightFrac  = 0.90
)

// Rect is an axis-aligned rectangle in screen pixels.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the X coordinate of the rectangle's right edge.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Bottom returns the Y coordinate of the rectangle's bottom edge.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Overlaps reports whether r and o intersect once grown by margin on every
// side. A zero margin tests plain intersection.
func (r Rect) Overlaps(o Rect, margin float64) bool {
	return r.Left < o.Right()+margin &&
		r.Right()+margin > o.Left &&
		r.Top < o.Bottom()+margin &&
		r.Bottom()+margin > o.Top
}

// Region is one detected area in the normalized coordinate space, plus the
// text of its label. (X1,Y1) is the top-left corner, (X2,Y2) the bottom-right.
type Region struct {
	X1   float64 `json:"x1"`
	Y1   float64 `json:"y1"`
	X2   float64 `json:"x2"`
	Y2   float64 `json:"y2"`
	Text string  `json:"text"`
}

// Offset is a label displacement relative to its box's top-left corner,
// in screen pixels.
type Offset struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// Label is the resolved on-screen placement for one region's label. It is
// recomputed on every layout pass and carries no state between passes.
type Label struct {
	Region     Region `json:"ownerRegion"`
	ScreenRect Rect   `json:"screenRect"`
	TextOffset Offset `json:"textOffset"`
}

// MeasureFunc returns the rendered width and height of label text in screen
// pixels. The annotator supplies real font metrics; EstimateMeasure is the
// fallback.
type MeasureFunc func(text string) (w, h float64)

// EstimateMeasure approximates label dimensions from the text length. Good
// enough for layout when no font metrics are available.
func EstimateMeasure(text string) (w, h float64) {
	return float64(len(text))*7 + 12, 18
}

// Engine computes label placements. The zero value is not usable; construct
// with NewEngine and adjust fields before the first Layout call if needed.
type Engine struct {
	// Space is the side length of the normalized coordinate space regions
	// are expressed in.
	Space float64

	// Margin is the minimum separation between labels; rectangles closer
	// than this are treated as colliding.
	Margin float64

	// GapX and GapY are the clearances applied when shifting a colliding
	// label sideways and downward respectively.
	GapX float64
	GapY float64

	// Pad is the gap between a box edge and its label.
	Pad float64

	// Measure sizes label text in screen pixels.
	Measure MeasureFunc
}

// NewEngine returns an engine with the default tuning and the estimate-based
// text measure.
func NewEngine() *Engine {
	return &Engine{
		Space:   DefaultSpace,
		Margin:  DefaultMargin,
		GapX:    DefaultGapX,
		GapY:    DefaultGapY,
		Pad:     DefaultPad,
		Measure: EstimateMeasure,
	}
}

// Layout computes a screen position for every region's label within a
// container of the given pixel dimensions. Labels that would collide are
// shifted apart pairwise in top-coordinate order; the result is best-effort
// for dense clusters. An empty region list yields a nil result.
func (e *Engine) Layout(regions []Region, containerW, containerH float64) []Label {
	if len(regions) == 0 {
		return nil
	}

	labels := make([]Label, len(regions))
	for i, region := range regions {
		labels[i] = e.place(region, containerW, containerH)
	}

	// Stable sort keeps response order for ties, so the later of two
	// identically-placed labels is the one that moves.
	sort.SliceStable(labels, func(i, j int) bool {
		return labels[i].ScreenRect.Top < labels[j].ScreenRect.Top
	})

	for i := 0; i < len(labels); i++ {
		for j := i + 1; j < len(labels); j++ {
			if !labels[i].ScreenRect.Overlaps(labels[j].ScreenRect, e.Margin) {
				continue
			}
			// First try sliding the later label past the earlier one.
			labels[j].ScreenRect.Left = labels[i].ScreenRect.Right() + e.GapX
			if labels[i].ScreenRect.Overlaps(labels[j].ScreenRect, e.Margin) {
				// Still colliding: drop it below as well.
				labels[j].ScreenRect.Top = labels[i].ScreenRect.Bottom() + e.GapY
			}
		}
	}

	scaleX := containerW / e.Space
	scaleY := containerH / e.Space
	for i := range labels {
		labels[i].TextOffset = Offset{
			DX: labels[i].ScreenRect.Left - labels[i].Region.X1*scaleX,
			DY: labels[i].ScreenRect.Top - labels[i].Region.Y1*scaleY,
		}
	}
	return labels
}

// place computes the edge-avoiding default position for a single region's
// label, ignoring all other labels.
func (e *Engine) place(region Region, containerW, containerH float64) Label {
	scaleX := containerW / e.Space
	scaleY := containerH / e.Space

	boxLeft := region.X1 * scaleX
	boxTop := region.Y1 * scaleY
	boxRight := region.X2 * scaleX
	boxBottom := region.Y2 * scaleY

	w, h := e.Measure(region.Text)

	var top float64
	switch topFrac := region.Y1 / e.Space; {
	case topFrac <= nearTopFrac:
		// Too close to the top edge: the label goes below the box.
		top = boxBottom + e.Pad
	case topFrac >= nearBottomFrac:
		// Close to the bottom edge: the label goes above the box.
		top = boxTop - h - e.Pad
	default:
		// Default placement is also directly above the box.
		top = boxTop - h - e.Pad
	}

	left := boxLeft
	if region.X1/e.Space >= nearRightFrac {
		// Close to the right edge: right-align to the box instead.
		left = boxRight - w
	}

	return Label{
		Region:     region,
		ScreenRect: Rect{Left: left, Top: top, Width: w, Height: h},
	}
}
