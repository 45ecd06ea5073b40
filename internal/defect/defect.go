// Package defect defines the domain model for building-fabric defect
// detections: bounding boxes in the fixed normalized coordinate space,
// defect types, and the crack-severity and moisture taxonomies used by
// the detection model.
package defect

import "fmt"

// NormalizedSize is the side length of the fixed coordinate space used by the
// detection API. Bounding boxes are always reported in 0..512 units regardless
// of the source image dimensions.
const NormalizedSize = 512

// Type discriminates the two kinds of findings the detection model returns.
type Type string

// The set of known defect types.
const (
	TypeCrack    Type = "crack"
	TypeMoisture Type = "moisture"
)

// BoundingBox is an axis-aligned rectangle in the normalized coordinate space,
// origin at the top-left corner. (X1,Y1) is the top-left corner and (X2,Y2)
// the bottom-right corner.
//
// Boxes are not validated: a response with x2 < x1 is passed through as-is and
// will render as a negative-width artifact downstream.
type BoundingBox struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Width returns the box width in normalized units.
func (b BoundingBox) Width() float64 { return b.X2 - b.X1 }

// Height returns the box height in normalized units.
func (b BoundingBox) Height() float64 { return b.Y2 - b.Y1 }

// Category carries the human-readable class assigned by the model.
type Category struct {
	Name string `json:"name"`
}

// Detection is one finding returned by the detection API.
type Detection struct {
	Type        Type        `json:"type"`
	Category    Category    `json:"category"`
	Confidence  float64     `json:"confidence"`
	BoundingBox BoundingBox `json:"boundingBox"`
}

// Label returns the text to render next to the detection's bounding box.
// The category name wins when present; the defect type is the fallback.
func (d Detection) Label() string {
	if d.Category.Name != "" {
		return d.Category.Name
	}
	return string(d.Type)
}

// FilterConfident returns the detections whose confidence exceeds min,
// preserving the response order.
func FilterConfident(detections []Detection, min float64) []Detection {
	filtered := make([]Detection, 0, len(detections))
	for _, d := range detections {
		if d.Confidence > min {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

// Severity grades the structural impact of a crack.
type Severity string

// Crack severities, from cosmetic to structural.
const (
	SeverityAesthetic      Severity = "Aesthetic"
	SeverityServiceability Severity = "Serviceability"
	SeverityStability      Severity = "Stability"
)

// DamageCategory grades crack width on the 0-5 survey scale used by the
// detection model:
//
//	0 - Hairline (< 0.1 mm)
//	1 - Fine (<= 1 mm)
//	2 - >1 to <=5 mm
//	3 - >5 to <=15 mm
//	4 - >15 to <=25 mm
//	5 - >25 mm
type DamageCategory int

// Severity maps a damage category to its structural impact grade.
// Categories 0-2 are aesthetic, 3-4 affect serviceability, and 5 indicates
// a stability concern. Out-of-range categories are treated as aesthetic.
func (c DamageCategory) Severity() Severity {
	switch {
	case c >= 5:
		return SeverityStability
	case c >= 3:
		return SeverityServiceability
	default:
		return SeverityAesthetic
	}
}

// String describes the category for label text, e.g. "Fine (<=1mm)".
func (c DamageCategory) String() string {
	switch c {
	case 0:
		return "Hairline (<0.1mm)"
	case 1:
		return "Fine (<=1mm)"
	case 2:
		return ">1-<=5mm"
	case 3:
		return ">5-<=15mm"
	case 4:
		return ">15-<=25mm"
	case 5:
		return ">25mm"
	default:
		return fmt.Sprintf("category %d", int(c))
	}
}

// MoistureType classifies the origin of a damp patch.
type MoistureType string

// Moisture types reported by the detection model.
const (
	MoistureRising      MoistureType = "RD" // rising from ground or bridged DPC
	MoisturePenetrating MoistureType = "PD" // ingress through external walls or roof
	MoistureCondensing  MoistureType = "C"  // vapour condensing on internal surfaces
)

// DisplayName expands the short moisture code for label text.
func (m MoistureType) DisplayName() string {
	switch m {
	case MoistureRising:
		return "Rising Damp"
	case MoisturePenetrating:
		return "Penetrating Damp"
	case MoistureCondensing:
		return "Condensation"
	default:
		return string(m)
	}
}
