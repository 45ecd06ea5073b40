package defect

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectionJSONShape(t *testing.T) {
	raw := `{
		"type": "crack",
		"category": {"name": "Fine (<=1mm)"},
		"confidence": 0.92,
		"boundingBox": {"x1": 10, "y1": 20, "x2": 60, "y2": 80}
	}`

	var d Detection
	require.NoError(t, json.Unmarshal([]byte(raw), &d))
	require.Equal(t, TypeCrack, d.Type)
	require.Equal(t, "Fine (<=1mm)", d.Category.Name)
	require.Equal(t, 0.92, d.Confidence)
	require.Equal(t, 50.0, d.BoundingBox.Width())
	require.Equal(t, 60.0, d.BoundingBox.Height())
}

func TestDetectionLabel(t *testing.T) {
	named := Detection{Type: TypeCrack, Category: Category{Name: "Hairline (<0.1mm)"}}
	require.Equal(t, "Hairline (<0.1mm)", named.Label())

	unnamed := Detection{Type: TypeMoisture}
	require.Equal(t, "moisture", unnamed.Label())
}

func TestFilterConfident(t *testing.T) {
	detections := []Detection{
		{Category: Category{Name: "a"}, Confidence: 0.9},
		{Category: Category{Name: "b"}, Confidence: 0.3},
		{Category: Category{Name: "c"}, Confidence: 0.31},
		{Category: Category{Name: "d"}, Confidence: 0.1},
	}

	filtered := FilterConfident(detections, 0.3)
	require.Len(t, filtered, 2)
	require.Equal(t, "a", filtered[0].Category.Name)
	require.Equal(t, "c", filtered[1].Category.Name)

	require.Empty(t, FilterConfident(nil, 0.3))
}

func TestDamageCategorySeverity(t *testing.T) {
	tests := []struct {
		category DamageCategory
		want     Severity
	}{
		{0, SeverityAesthetic},
		{1, SeverityAesthetic},
		{2, SeverityAesthetic},
		{3, SeverityServiceability},
		{4, SeverityServiceability},
		{5, SeverityStability},
		{7, SeverityStability},
		{-1, SeverityAesthetic},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, tt.category.Severity(), "category %d", tt.category)
	}
}

func TestMoistureTypeDisplayName(t *testing.T) {
	require.Equal(t, "Rising Damp", MoistureRising.DisplayName())
	require.Equal(t, "Penetrating Damp", MoisturePenetrating.DisplayName())
	require.Equal(t, "Condensation", MoistureCondensing.DisplayName())
	require.Equal(t, "XY", MoistureType("XY").DisplayName())
}
