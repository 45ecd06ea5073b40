package annotate

import (
	"hash/fnv"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/fabricwatch/defect-viewer/internal/defect"
)

// colorFor returns the box and label color for a detection. Cracks get warm
// hues, moisture gets cool ones, and the exact hue is derived from the
// category name so a category keeps its color across renders.
func colorFor(d defect.Detection) color.RGBA {
	base, span := 0.0, 40.0 // cracks: reds through oranges
	if d.Type == defect.TypeMoisture {
		base, span = 205.0, 45.0 // moisture: blues
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(d.Category.Name))
	hue := base + float64(h.Sum32()%uint32(span))

	r, g, b := colorful.Hsv(hue, 0.85, 0.90).RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
