package analysis

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mimisukeMaster/AKRecorder/src/recording"
	"github.com/mimisukeMaster/AKRecorder/src/skeleton"
)

var nan = math.NaN()

// synthetic returns a skeleton with n generically named joints.
func synthetic(n int) skeleton.Skeleton {
	s := skeleton.Skeleton{Name: "synthetic"}
	for i := 0; i < n; i++ {
		s.Joints = append(s.Joints, skeleton.Joint{Name: skeleton.Skeleton{}.JointName(i), Color: "gray"})
	}
	return s
}

// rec builds a recording; frames[f][j] is joint j of frame f.
func rec(label string, frames ...[]recording.Point3) recording.Recording {
	r := recording.Recording{Label: recording.Label(label)}
	for _, f := range frames {
		r.Samples = append(r.Samples, recording.Sample{Label: r.Label, Joints: f})
	}
	return r
}

func pt(x, y, z float64) recording.Point3 { return recording.Point3{X: x, Y: y, Z: z} }

func frame(pts ...recording.Point3) []recording.Point3 { return pts }

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestPooledSeriesAcrossRecordings(t *testing.T) {
	e := NewEngine(synthetic(1), Options{IncludeRange: true})
	recs := []recording.Recording{
		rec("1", frame(pt(0, 0, 0)), frame(pt(2, 0, 0))),
		rec("1", frame(pt(4, 0, 0))),
	}
	st := e.Compute("1", recs)
	js := st.Joints[0]
	if js.Samples != 3 {
		t.Fatalf("expected 3 pooled samples got %d", js.Samples)
	}
	wantX := math.Sqrt(8.0 / 3.0) // population std of [0,2,4] ≈ 1.633
	if !approx(js.AxisStd[0], wantX) || math.Abs(js.AxisStd[0]-1.633) > 1e-3 {
		t.Fatalf("x std: got %.6f want %.6f", js.AxisStd[0], wantX)
	}
	if js.AxisRange[0] != 4 || js.AxisRange[1] != 0 || js.AxisRange[2] != 0 {
		t.Fatalf("axis ranges: %v", js.AxisRange)
	}
	if !approx(st.MeanStd, wantX/3) {
		t.Fatalf("mean std: got %.6f want %.6f", st.MeanStd, wantX/3)
	}
	if !approx(st.MeanRange, 4.0/3.0) {
		t.Fatalf("mean range: got %.6f want %.6f", st.MeanRange, 4.0/3.0)
	}
	if st.Recordings != 2 || st.Samples != 3 || st.JointsUsed != 1 {
		t.Fatalf("counts: %+v", st)
	}
}

func TestSingleSamplePerJointHasZeroStd(t *testing.T) {
	e := NewEngine(synthetic(3), Options{IncludeRange: true})
	recs := []recording.Recording{rec("1", frame(pt(1, 2, 3), pt(-4, 5, 6), pt(7, 8, -9)))}
	st := e.Compute("1", recs)
	if st.MeanStd != 0 || math.IsNaN(st.MeanStd) {
		t.Fatalf("expected 0 got %v", st.MeanStd)
	}
	if st.MeanRange != 0 {
		t.Fatalf("expected zero range got %v", st.MeanRange)
	}
	for _, js := range st.Joints {
		if js.Std != 0 {
			t.Fatalf("joint %d std %v", js.Index, js.Std)
		}
	}
}

func TestRepeatedPointsStillZeroNotNaN(t *testing.T) {
	e := NewEngine(synthetic(2), Options{})
	recs := []recording.Recording{
		rec("1", frame(pt(1, 1, 1), pt(nan, nan, nan))),
		rec("1", frame(pt(1, 1, 1), pt(2, 2, 2))),
	}
	st := e.Compute("1", recs)
	if st.MeanStd != 0 {
		t.Fatalf("expected 0 got %v", st.MeanStd)
	}
}

func TestSkippedJointEqualsAbsentJoint(t *testing.T) {
	joint0 := [][]recording.Point3{
		frame(pt(0, 1, 2), pt(nan, nan, nan)),
		frame(pt(3, 1, 5), pt(nan, 1, 1)),
		frame(pt(6, 2, 2), pt(1, nan, 1)),
	}
	withEmptyJoint := NewEngine(synthetic(2), Options{IncludeRange: true}).
		Compute("a", []recording.Recording{rec("a", joint0...)})

	// Same joint 0 data, joint 1 not carried by the rows at all.
	var short [][]recording.Point3
	for _, f := range joint0 {
		short = append(short, f[:1])
	}
	absentCols := NewEngine(synthetic(2), Options{IncludeRange: true}).
		Compute("a", []recording.Recording{rec("a", short...)})
	oneJoint := NewEngine(synthetic(1), Options{IncludeRange: true}).
		Compute("a", []recording.Recording{rec("a", short...)})

	for _, other := range []LabelStatistic{absentCols, oneJoint} {
		if !approx(withEmptyJoint.MeanStd, other.MeanStd) || !approx(withEmptyJoint.MeanRange, other.MeanRange) {
			t.Fatalf("skip not equivalent: %v/%v vs %v/%v", withEmptyJoint.MeanStd, withEmptyJoint.MeanRange, other.MeanStd, other.MeanRange)
		}
	}
	if !withEmptyJoint.Joints[1].Skipped || withEmptyJoint.JointsUsed != 1 {
		t.Fatalf("joint 1 should be skipped: %+v", withEmptyJoint.Joints[1])
	}
}

func TestTriplesWithMissingAxisAreDropped(t *testing.T) {
	e := NewEngine(synthetic(1), Options{IncludeRange: true})
	recs := []recording.Recording{rec("1",
		frame(pt(1, 2, 3)),
		frame(pt(nan, 50, 50)),
		frame(pt(3, 2, 3)),
		frame(pt(math.Inf(1), 0, 0)),
	)}
	st := e.Compute("1", recs)
	js := st.Joints[0]
	if js.Samples != 2 {
		t.Fatalf("expected 2 finite triples got %d", js.Samples)
	}
	if !approx(js.AxisStd[0], 1) || js.AxisStd[1] != 0 || js.AxisStd[2] != 0 {
		t.Fatalf("axis std %v", js.AxisStd)
	}
	if !approx(st.MeanStd, 1.0/3.0) || !approx(st.MeanRange, 2.0/3.0) {
		t.Fatalf("means %v %v", st.MeanStd, st.MeanRange)
	}
}

func TestNoDataIsNaN(t *testing.T) {
	e := NewEngine(synthetic(3), Options{IncludeRange: true})
	st := e.Compute("x", []recording.Recording{rec("x", frame(pt(nan, 1, 1)), frame())})
	if !math.IsNaN(st.MeanStd) || !math.IsNaN(st.MeanRange) || st.Defined() {
		t.Fatalf("expected NaN statistic got %+v", st)
	}
	if st.JointsUsed != 0 || len(st.Joints) != 3 {
		t.Fatalf("joints: used=%d len=%d", st.JointsUsed, len(st.Joints))
	}
	empty := e.Compute("y", nil)
	if !math.IsNaN(empty.MeanStd) {
		t.Fatalf("empty group should be NaN got %v", empty.MeanStd)
	}
}

func TestRangeDisabled(t *testing.T) {
	e := NewEngine(synthetic(1), Options{})
	st := e.Compute("1", []recording.Recording{rec("1", frame(pt(0, 0, 0)), frame(pt(2, 2, 2)))})
	if st.HasRange || !math.IsNaN(st.MeanRange) || !math.IsNaN(st.Joints[0].Range) {
		t.Fatalf("range should be off: %+v", st)
	}
	if !approx(st.MeanStd, 1) {
		t.Fatalf("mean std %v", st.MeanStd)
	}
}

func TestMeanStdNonNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	e := NewEngine(synthetic(5), Options{IncludeRange: true})
	for trial := 0; trial < 50; trial++ {
		var recs []recording.Recording
		for r := 0; r < 1+rng.Intn(3); r++ {
			var frames [][]recording.Point3
			for f := 0; f < 1+rng.Intn(20); f++ {
				var pts []recording.Point3
				for j := 0; j < 5; j++ {
					p := pt(rng.NormFloat64()*100, rng.NormFloat64(), rng.Float64()-0.5)
					if rng.Intn(4) == 0 {
						p.Y = nan
					}
					pts = append(pts, p)
				}
				frames = append(frames, pts)
			}
			recs = append(recs, rec("r", frames...))
		}
		st := e.Compute("r", recs)
		if st.JointsUsed > 0 && !(st.MeanStd >= 0) {
			t.Fatalf("trial %d: mean std %v", trial, st.MeanStd)
		}
		if st.JointsUsed > 0 && !(st.MeanRange >= 0) {
			t.Fatalf("trial %d: mean range %v", trial, st.MeanRange)
		}
	}
}

func TestAxisRemapAppliedBeforePooling(t *testing.T) {
	remap, err := ParseAxisRemap("-y, x, z")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	recs := []recording.Recording{rec("1", frame(pt(1, 10, 100)), frame(pt(3, 30, 100)))}
	cloud := JointCloud(recs, 0, remap)
	if len(cloud) != 2 || cloud[0] != pt(-10, 1, 100) || cloud[1] != pt(-30, 3, 100) {
		t.Fatalf("cloud: %+v", cloud)
	}
	plain := NewEngine(synthetic(1), Options{IncludeRange: true}).Compute("1", recs)
	mapped := NewEngine(synthetic(1), Options{IncludeRange: true, AxisRemap: remap}).Compute("1", recs)
	// A signed permutation moves per-axis values around but keeps their mean.
	if !approx(plain.MeanStd, mapped.MeanStd) || !approx(plain.MeanRange, mapped.MeanRange) {
		t.Fatalf("remap changed means: %v/%v vs %v/%v", plain.MeanStd, plain.MeanRange, mapped.MeanStd, mapped.MeanRange)
	}
	if mapped.Joints[0].AxisStd[0] != plain.Joints[0].AxisStd[1] {
		t.Fatalf("axis std not permuted: %v vs %v", mapped.Joints[0].AxisStd, plain.Joints[0].AxisStd)
	}
}

func TestEngineJointNames(t *testing.T) {
	e := NewEngine(skeleton.AzureKinect(), Options{})
	st := e.Compute("1", nil)
	if len(st.Joints) != 32 || st.Joints[0].Name != "PELVIS" || st.Joints[26].Name != "HEAD" {
		t.Fatalf("unexpected joint names: %d %s %s", len(st.Joints), st.Joints[0].Name, st.Joints[26].Name)
	}
}
