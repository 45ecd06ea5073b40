// Package layout positions detection labels over an annotated image so that
// each label hugs its bounding box without running off the image edges or
// sitting on top of another label.
//
// # Coordinate Spaces
//
// Input regions live in the fixed normalized space used by the detection API
// (0..512 units, origin top-left). The engine maps them to screen pixels by
// dividing by the space size and scaling by the container dimensions, so the
// same regions re-lay out correctly after a viewport resize.
//
// # Algorithm
//
// Layout runs in two passes:
//
//  1. Placement: each region is placed independently based on its proximity to
//     the image edges. Boxes within 15% of the top edge get their label below
//     the box; boxes within 15% of the bottom edge get it above; everything
//     else gets the default position directly above the box. Boxes within 10%
//     of the right edge have their label right-aligned to the box's right
//     edge instead of left-aligned.
//
//  2. Collision resolution: labels are sorted by screen top coordinate
//     (stable, so response order breaks ties) and compared pairwise. When two
//     labels overlap within the 5px margin, the later label is shifted right
//     past the earlier one with a 10px gap; if that still overlaps, it is
//     additionally dropped below the earlier label with a 5px gap. The later
//     label's rectangle is recomputed after each shift before further pairs
//     are tested.
//
// Resolution is pairwise and greedy with no backtracking, so three or more
// mutually overlapping labels are not guaranteed a collision-free result.
// This is a deliberate best-effort heuristic, not a bug.
//
// # State
//
// The engine is stateless: every call computes from scratch and two calls with
// the same inputs produce identical output. Region rectangles are not
// validated; a box with x2 < x1 flows through as a negative-width artifact.
package layout
