package layout

import (
	"reflect"
	"testing"
)

func TestRectOverlaps(t *testing.T) {
	a := Rect{Left: 0, Top: 0, Width: 10, Height: 10}

	tests := []struct {
		name   string
		b      Rect
		margin float64
		want   bool
	}{
		{"plain overlap", Rect{Left: 5, Top: 5, Width: 10, Height: 10}, 0, true},
		{"contained", Rect{Left: 2, Top: 2, Width: 4, Height: 4}, 0, true},
		{"separated horizontally", Rect{Left: 20, Top: 0, Width: 10, Height: 10}, 0, false},
		{"separated but within margin", Rect{Left: 14, Top: 0, Width: 10, Height: 10}, 5, true},
		{"separated beyond margin", Rect{Left: 20, Top: 0, Width: 10, Height: 10}, 5, false},
		{"separated vertically beyond margin", Rect{Left: 0, Top: 20, Width: 10, Height: 10}, 5, false},
		{"close vertically within margin", Rect{Left: 0, Top: 13, Width: 10, Height: 10}, 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Overlaps(tt.b, tt.margin); got != tt.want {
				t.Errorf("Overlaps(%+v, %v): got %v, want %v", tt.b, tt.margin, got, tt.want)
			}
			// Overlap is symmetric.
			if got := tt.b.Overlaps(a, tt.margin); got != tt.want {
				t.Errorf("reverse Overlaps: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEstimateMeasure(t *testing.T) {
	w, h := EstimateMeasure("crack")
	if w != 47 {
		t.Errorf("width: got %v, want 47", w)
	}
	if h != 18 {
		t.Errorf("height: got %v, want 18", h)
	}
}

func TestLayout_EmptyInput(t *testing.T) {
	e := NewEngine()

	if got := e.Layout(nil, 512, 512); got != nil {
		t.Errorf("nil regions: got %v, want nil", got)
	}
	if got := e.Layout([]Region{}, 512, 512); got != nil {
		t.Errorf("empty regions: got %v, want nil", got)
	}
}

func TestLayout_EdgePlacement(t *testing.T) {
	// Container matches the normalized space, so box coordinates map 1:1 to
	// pixels. "crack" measures 47x18 with the estimate measure.
	tests := []struct {
		name     string
		region   Region
		wantLeft float64
		wantTop  float64
	}{
		{
			// 10/512 is within 15% of the top edge: label below the box.
			name:     "near top edge places below",
			region:   Region{X1: 10, Y1: 10, X2: 60, Y2: 60, Text: "crack"},
			wantLeft: 10,
			wantTop:  64, // boxBottom + pad
		},
		{
			// 450/512 is within 15% of the bottom edge: label above the box.
			name:     "near bottom edge places above",
			region:   Region{X1: 10, Y1: 450, X2: 60, Y2: 500, Text: "crack"},
			wantLeft: 10,
			wantTop:  428, // boxTop - height - pad
		},
		{
			name:     "middle defaults to above",
			region:   Region{X1: 10, Y1: 200, X2: 60, Y2: 260, Text: "crack"},
			wantLeft: 10,
			wantTop:  178,
		},
		{
			// 470/512 is within 10% of the right edge: right-align to the box.
			name:     "near right edge right-aligns",
			region:   Region{X1: 470, Y1: 200, X2: 500, Y2: 260, Text: "crack"},
			wantLeft: 453, // boxRight - width
			wantTop:  178,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine()
			labels := e.Layout([]Region{tt.region}, 512, 512)
			if len(labels) != 1 {
				t.Fatalf("got %d labels, want 1", len(labels))
			}
			r := labels[0].ScreenRect
			if r.Left != tt.wantLeft {
				t.Errorf("Left: got %v, want %v", r.Left, tt.wantLeft)
			}
			if r.Top != tt.wantTop {
				t.Errorf("Top: got %v, want %v", r.Top, tt.wantTop)
			}
		})
	}
}

func TestLayout_ContainerScaling(t *testing.T) {
	e := NewEngine()
	region := Region{X1: 10, Y1: 10, X2: 60, Y2: 60, Text: "crack"}

	labels := e.Layout([]Region{region}, 1024, 1024)
	if len(labels) != 1 {
		t.Fatalf("got %d labels, want 1", len(labels))
	}

	// At 2x scale the box bottom lands at 120, so the label sits at 124.
	if got := labels[0].ScreenRect.Top; got != 124 {
		t.Errorf("Top: got %v, want 124", got)
	}
	if got := labels[0].ScreenRect.Left; got != 20 {
		t.Errorf("Left: got %v, want 20", got)
	}
}

func TestLayout_IdenticalBoxesShiftSecondRight(t *testing.T) {
	e := NewEngine()
	region := Region{X1: 10, Y1: 10, X2: 60, Y2: 60, Text: "crack"}

	labels := e.Layout([]Region{region, region}, 512, 512)
	if len(labels) != 2 {
		t.Fatalf("got %d labels, want 2", len(labels))
	}

	first, second := labels[0], labels[1]
	if first.ScreenRect.Left != 10 {
		t.Errorf("first label moved: Left=%v, want 10", first.ScreenRect.Left)
	}
	wantLeft := first.ScreenRect.Right() + DefaultGapX
	if second.ScreenRect.Left != wantLeft {
		t.Errorf("second Left: got %v, want %v", second.ScreenRect.Left, wantLeft)
	}
	if first.ScreenRect.Overlaps(second.ScreenRect, 0) {
		t.Errorf("labels still overlap after resolution: %+v vs %+v",
			first.ScreenRect, second.ScreenRect)
	}
}

func TestLayout_VerticalFallbackShift(t *testing.T) {
	// With a sideways gap smaller than the collision margin the horizontal
	// shift alone cannot clear the margin, so the later label also drops
	// below the earlier one.
	e := NewEngine()
	e.GapX = 2
	region := Region{X1: 10, Y1: 200, X2: 60, Y2: 260, Text: "crack"}

	labels := e.Layout([]Region{region, region}, 512, 512)
	if len(labels) != 2 {
		t.Fatalf("got %d labels, want 2", len(labels))
	}

	first, second := labels[0], labels[1]
	if got, want := second.ScreenRect.Left, first.ScreenRect.Right()+2; got != want {
		t.Errorf("second Left: got %v, want %v", got, want)
	}
	if got, want := second.ScreenRect.Top, first.ScreenRect.Bottom()+DefaultGapY; got != want {
		t.Errorf("second Top: got %v, want %v", got, want)
	}
}

func TestLayout_Idempotent(t *testing.T) {
	e := NewEngine()
	regions := []Region{
		{X1: 10, Y1: 10, X2: 60, Y2: 60, Text: "crack"},
		{X1: 15, Y1: 12, X2: 70, Y2: 65, Text: "moisture"},
		{X1: 470, Y1: 200, X2: 500, Y2: 260, Text: "damp"},
		{X1: 30, Y1: 460, X2: 90, Y2: 505, Text: "hairline"},
	}

	a := e.Layout(regions, 800, 600)
	b := e.Layout(regions, 800, 600)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("layout is not deterministic:\nfirst:  %+v\nsecond: %+v", a, b)
	}
}

func TestLayout_TextOffsetRelativeToBox(t *testing.T) {
	e := NewEngine()
	region := Region{X1: 10, Y1: 200, X2: 60, Y2: 260, Text: "crack"}

	labels := e.Layout([]Region{region}, 512, 512)
	if len(labels) != 1 {
		t.Fatalf("got %d labels, want 1", len(labels))
	}

	off := labels[0].TextOffset
	if off.DX != 0 {
		t.Errorf("DX: got %v, want 0", off.DX)
	}
	if off.DY != -22 { // height 18 + pad 4 above the box top
		t.Errorf("DY: got %v, want -22", off.DY)
	}
}

func TestLayout_MalformedBoxDoesNotPanic(t *testing.T) {
	e := NewEngine()
	// x2 < x1 is not validated; it flows through as a rendering artifact.
	region := Region{X1: 60, Y1: 200, X2: 10, Y2: 240, Text: "crack"}

	labels := e.Layout([]Region{region}, 512, 512)
	if len(labels) != 1 {
		t.Fatalf("got %d labels, want 1", len(labels))
	}
	if labels[0].ScreenRect.Left != 60 {
		t.Errorf("Left: got %v, want 60", labels[0].ScreenRect.Left)
	}
}
