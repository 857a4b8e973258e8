// Package analysis computes per-label dispersion statistics over grouped joint samples.
//
// For one label the engine pools, per joint, every finite (x,y,z) triple of every
// recording, takes the population standard deviation of each axis and averages the
// three into one joint scalar (optionally the same for max-min ranges). Joint scalars
// are then averaged into the label's MeanStd / MeanRange. Joints without a single
// finite triple are left out instead of counting as zero, and a label with no usable
// joint ends up NaN rather than failing.
package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/mimisukeMaster/AKRecorder/src/recording"
	"github.com/mimisukeMaster/AKRecorder/src/skeleton"
)

// Options selects the variant of the computation.
type Options struct {
	IncludeRange bool       // also compute mean max-min ranges
	AxisRemap    *AxisRemap // applied to every point before pooling; nil keeps x,y,z
}

// JointStatistic is the per-joint breakdown of a LabelStatistic.
type JointStatistic struct {
	Index     int
	Name      string
	Samples   int  // finite triples pooled for this joint
	Skipped   bool // no finite triple; excluded from the label means
	AxisStd   [3]float64
	Std       float64
	AxisRange [3]float64
	Range     float64 // NaN unless Options.IncludeRange
}

// LabelStatistic summarizes one label. MeanStd (and MeanRange) are NaN when no joint
// had data; MeanRange is also NaN when range tracking is off.
type LabelStatistic struct {
	Label      recording.Label
	Recordings int
	Samples    int
	JointsUsed int
	MeanStd    float64
	MeanRange  float64
	HasRange   bool
	Joints     []JointStatistic
}

// Defined reports whether MeanStd carries a value.
func (s LabelStatistic) Defined() bool { return !math.IsNaN(s.MeanStd) }

// Engine computes LabelStatistics for a fixed skeleton and option set.
type Engine struct {
	skel skeleton.Skeleton
	opts Options
}

// NewEngine returns an engine over the joints of s.
func NewEngine(s skeleton.Skeleton, opts Options) *Engine {
	return &Engine{skel: s.Clone(), opts: opts}
}

// Options returns the engine configuration.
func (e *Engine) Options() Options { return e.opts }

// Skeleton returns a copy of the joint table.
func (e *Engine) Skeleton() skeleton.Skeleton { return e.skel.Clone() }

// JointCount is the number of joints examined per sample.
func (e *Engine) JointCount() int { return e.skel.Count() }

// Compute produces the statistic for one label group.
func (e *Engine) Compute(label recording.Label, recs []recording.Recording) LabelStatistic {
	out := LabelStatistic{
		Label:      label,
		Recordings: len(recs),
		HasRange:   e.opts.IncludeRange,
		Joints:     make([]JointStatistic, 0, e.JointCount()),
	}
	for _, r := range recs {
		out.Samples += len(r.Samples)
	}
	var stds, ranges []float64
	for i := 0; i < e.JointCount(); i++ {
		js := e.joint(i, recs)
		out.Joints = append(out.Joints, js)
		if js.Skipped {
			continue
		}
		out.JointsUsed++
		stds = append(stds, js.Std)
		if e.opts.IncludeRange {
			ranges = append(ranges, js.Range)
		}
	}
	out.MeanStd = nanMean(stds)
	out.MeanRange = math.NaN()
	if e.opts.IncludeRange {
		out.MeanRange = nanMean(ranges)
	}
	return out
}

func (e *Engine) joint(i int, recs []recording.Recording) JointStatistic {
	js := JointStatistic{Index: i, Name: e.skel.JointName(i), Std: math.NaN(), Range: math.NaN()}
	axes := pooledAxes(recs, i, e.opts.AxisRemap)
	js.Samples = len(axes[0])
	if js.Samples == 0 {
		js.Skipped = true
		return js
	}
	for a := 0; a < 3; a++ {
		// A single point has no spread; keep it at 0 instead of relying on 0/0 handling.
		if js.Samples > 1 {
			_, js.AxisStd[a] = stat.PopMeanStdDev(axes[a], nil)
		}
		if e.opts.IncludeRange {
			js.AxisRange[a] = floats.Max(axes[a]) - floats.Min(axes[a])
		}
	}
	js.Std = (js.AxisStd[0] + js.AxisStd[1] + js.AxisStd[2]) / 3
	if e.opts.IncludeRange {
		js.Range = (js.AxisRange[0] + js.AxisRange[1] + js.AxisRange[2]) / 3
	}
	return js
}

// pooledAxes returns joint i's finite x, y and z values across all samples of recs.
func pooledAxes(recs []recording.Recording, i int, remap *AxisRemap) [3][]float64 {
	var axes [3][]float64
	for _, p := range JointCloud(recs, i, remap) {
		axes[0] = append(axes[0], p.X)
		axes[1] = append(axes[1], p.Y)
		axes[2] = append(axes[2], p.Z)
	}
	return axes
}

// JointCloud returns every finite position of joint i across recs, remapped, in
// recording then frame order. The viewer plots exactly the points the engine pools.
func JointCloud(recs []recording.Recording, i int, remap *AxisRemap) []recording.Point3 {
	var pts []recording.Point3
	for _, r := range recs {
		for _, s := range r.Samples {
			p := s.Joint(i)
			if !p.Finite() {
				continue
			}
			pts = append(pts, remap.Apply(p))
		}
	}
	return pts
}

// nanMean averages the non-NaN values; NaN when none remain.
func nanMean(vals []float64) float64 {
	sum, n := 0.0, 0
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}
