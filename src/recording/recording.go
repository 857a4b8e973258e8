// Package recording loads motion-capture session files and groups them by label.
//
// Layout on disk: <base>/<date folder>/<session>/0/pos.csv, one headerless CSV per
// session. Column 0 carries the label, column 1 a timestamp and from column 2 on every
// joint contributes an x,y,z triple (see the skeleton package for the offsets).
package recording

import (
	"math"
	"strconv"
	"strings"
)

// Label is the canonical identifier grouping recordings of one condition.
// Numeric labels are normalized to their integer text ("1.0" and "01" become "1")
// so a label read from a float column compares equal to the same label read as int.
type Label string

// NormalizeLabel converts a raw label cell into its canonical form.
func NormalizeLabel(raw string) Label {
	s := strings.TrimSpace(raw)
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return Label(strconv.FormatInt(int64(f), 10))
	}
	return Label(s)
}

// Point3 is one joint position. Missing axes are NaN.
type Point3 struct {
	X, Y, Z float64
}

// Finite reports whether all three axes carry a finite value.
func (p Point3) Finite() bool {
	return isFinite(p.X) && isFinite(p.Y) && isFinite(p.Z)
}

// Axis returns axis 0 (x), 1 (y) or 2 (z).
func (p Point3) Axis(i int) float64 {
	switch i {
	case 0:
		return p.X
	case 1:
		return p.Y
	default:
		return p.Z
	}
}

// MissingPoint is the placeholder for a joint without data in a row.
var MissingPoint = Point3{X: math.NaN(), Y: math.NaN(), Z: math.NaN()}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Sample is one frame: a label, a timestamp and one point per joint (index-based).
type Sample struct {
	Label     Label
	Timestamp string
	Joints    []Point3
}

// Joint returns joint i, or MissingPoint when the row did not carry it.
func (s Sample) Joint(i int) Point3 {
	if i < 0 || i >= len(s.Joints) {
		return MissingPoint
	}
	return s.Joints[i]
}

// Recording is the ordered frames of one capture session.
type Recording struct {
	Session string // session directory name
	Path    string
	Label   Label
	Samples []Sample
}

// Dataset maps labels to their recordings. Labels keep the order in which they were
// first seen while loading. A Dataset is read-only once built.
type Dataset struct {
	Root   string
	labels []Label
	groups map[Label][]Recording
}

// NewDataset groups recordings by label in the given order.
func NewDataset(root string, recs []Recording) *Dataset {
	d := &Dataset{Root: root, groups: map[Label][]Recording{}}
	for _, r := range recs {
		if _, ok := d.groups[r.Label]; !ok {
			d.labels = append(d.labels, r.Label)
		}
		d.groups[r.Label] = append(d.groups[r.Label], r)
	}
	return d
}

// Labels returns a copy of the label order.
func (d *Dataset) Labels() []Label {
	if d == nil {
		return nil
	}
	return append([]Label(nil), d.labels...)
}

// Group returns the recordings sharing label l.
func (d *Dataset) Group(l Label) ([]Recording, bool) {
	if d == nil {
		return nil, false
	}
	g, ok := d.groups[l]
	return g, ok
}

// Len returns the number of labels.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.labels)
}

// RecordingCount returns the number of recordings across labels.
func (d *Dataset) RecordingCount() int {
	n := 0
	for _, l := range d.Labels() {
		n += len(d.groups[l])
	}
	return n
}

// SampleCount returns the number of frames recorded under label l.
func (d *Dataset) SampleCount(l Label) int {
	g, _ := d.Group(l)
	n := 0
	for _, r := range g {
		n += len(r.Samples)
	}
	return n
}
