package uihelpers

import (
	"fmt"
	"math"
	"strconv"

	"github.com/mimisukeMaster/AKRecorder/src/recording"
)

// ComputeChartDimensions applies width/height clamp rules used for the two side-by-side panels.
// Input: desired raw panel width. Returns clamped width & height.
func ComputeChartDimensions(rawW int) (int, int) {
	w := rawW
	if w < 480 {
		w = 480
	}
	h := int(float32(w) * 0.75)
	if h < 360 {
		h = 360
	}
	if h > 720 {
		h = 720
	}
	return w, h
}

// ComputeTableColumnWidths returns the 6 column widths for the statistics table given a window width.
// Order: Label, Recordings, Samples, Joints, MeanStd, MeanRange
func ComputeTableColumnWidths(winW float32) [6]int {
	const compactBreakpoint = 700
	if winW < compactBreakpoint {
		return [6]int{80, 0, 0, 60, 110, 110}
	}
	return [6]int{120, 100, 100, 90, 150, 150}
}

// LabelCursor is the viewer's position in the label cycle. It is a value: Next returns
// a new cursor and leaves the receiver untouched.
type LabelCursor struct {
	labels []recording.Label
	index  int
}

// NewLabelCursor starts at the first label of labels (copied).
func NewLabelCursor(labels []recording.Label) LabelCursor {
	return LabelCursor{labels: append([]recording.Label(nil), labels...)}
}

func (c LabelCursor) Len() int   { return len(c.labels) }
func (c LabelCursor) Index() int { return c.index }

// Current returns the selected label; false when the cycle is empty.
func (c LabelCursor) Current() (recording.Label, bool) {
	if len(c.labels) == 0 {
		return "", false
	}
	return c.labels[c.index], true
}

// Next advances to labels[(index+1) % len]. An empty cursor stays empty.
func (c LabelCursor) Next() LabelCursor {
	if len(c.labels) == 0 {
		return c
	}
	return LabelCursor{labels: c.labels, index: (c.index + 1) % len(c.labels)}
}

// Seek moves to label l if present.
func (c LabelCursor) Seek(l recording.Label) (LabelCursor, bool) {
	for i, v := range c.labels {
		if v == l {
			return LabelCursor{labels: c.labels, index: i}, true
		}
	}
	return c, false
}

// Position renders "Label 3 (2/5)" for the toolbar.
func (c LabelCursor) Position() string {
	l, ok := c.Current()
	if !ok {
		return "No labels"
	}
	return fmt.Sprintf("Label %s (%d/%d)", l, c.index+1, len(c.labels))
}

// Project maps a 3D point onto the view plane seen from azimuth/elevation (degrees).
// azimuth rotates around z, elevation tilts towards the xy plane; (0,0) looks down the
// x axis so u=y and v=z.
func Project(x, y, z, azimuthDeg, elevationDeg float64) (u, v float64) {
	az := azimuthDeg * math.Pi / 180
	el := elevationDeg * math.Pi / 180
	sa, ca := math.Sincos(az)
	se, ce := math.Sincos(el)
	u = -x*sa + y*ca
	v = -x*ca*se - y*sa*se + z*ce
	return u, v
}

// WrapAzimuth normalizes an angle to (-180, 180].
func WrapAzimuth(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d > 180 {
		d -= 360
	}
	if d <= -180 {
		d += 360
	}
	return d
}

// ClampElevation keeps the view between straight below and straight above.
func ClampElevation(deg float64) float64 {
	return math.Max(-90, math.Min(90, deg))
}

// round6 rounds to 6 decimal places to stabilize test comparisons / labels prep.
func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }

// BuildNumericTicks generates up to n tick marks spanning [min,max] using the 1,2,2.5,5 pattern.
// Returns slice of raw numeric positions (label formatting left to caller).
func BuildNumericTicks(min, max float64, n int) []float64 {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	candidates := []float64{1, 2, 2.5, 5, 10}
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range candidates {
		step := c * mag
		count := math.Ceil(span/step) + 1
		if count < 2 {
			count = 2
		}
		diff := math.Abs(count - float64(n))
		if diff < bestScore {
			bestScore = diff
			bestStep = step
		}
	}
	start := math.Floor(min/bestStep) * bestStep
	end := math.Ceil(max/bestStep) * bestStep
	var out []float64
	for v := start; v <= end+bestStep*0.5; v += bestStep {
		out = append(out, round6(v))
	}
	if len(out) < 2 {
		out = []float64{min, max}
	}
	return out
}

// FormatNumericTick provides a compact label for dispersion values (meters or millimeters alike).
func FormatNumericTick(v float64) string {
	av := math.Abs(v)
	switch {
	case av >= 100:
		return strconv.FormatInt(int64(math.Round(v)), 10)
	case av >= 10:
		return strconv.FormatFloat(v, 'f', 1, 64)
	case av >= 1:
		return strconv.FormatFloat(v, 'f', 2, 64)
	case av >= 0.01:
		return strconv.FormatFloat(v, 'f', 3, 64)
	default:
		return strconv.FormatFloat(v, 'f', 4, 64)
	}
}

// FormatStat renders a statistic for tables and bar labels; NaN stays visible as "NaN".
func FormatStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return FormatNumericTick(v)
}
