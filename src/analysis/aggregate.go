package analysis

import (
	"math"
	"sort"
	"time"

	"github.com/mimisukeMaster/AKRecorder/src/recording"
)

// StatisticsSet is the per-label result of one run. Labels keeps the dataset's
// first-seen order, which drives both the bar chart x-axis and the viewer's cycle.
type StatisticsSet struct {
	Labels  []recording.Label
	ByLabel map[recording.Label]LabelStatistic
	Options Options
}

// ComputeStatistics runs the engine independently for every label of ds.
func ComputeStatistics(ds *recording.Dataset, e *Engine) *StatisticsSet {
	defer recording.TimeTrack(time.Now(), "compute statistics")
	set := &StatisticsSet{ByLabel: map[recording.Label]LabelStatistic{}, Options: e.Options()}
	for _, l := range ds.Labels() {
		recs, _ := ds.Group(l)
		st := e.Compute(l, recs)
		set.Labels = append(set.Labels, l)
		set.ByLabel[l] = st
		recording.Debugf("label %s: recordings=%d samples=%d joints_used=%d/%d mean_std=%.4f mean_range=%.4f",
			l, st.Recordings, st.Samples, st.JointsUsed, e.JointCount(), st.MeanStd, st.MeanRange)
		if recording.GetLogLevel() <= recording.LevelDebug {
			for _, js := range st.Joints {
				if js.Skipped {
					recording.Debugf("  joint %2d %-15s skipped (no finite samples)", js.Index, js.Name)
					continue
				}
				recording.Debugf("  joint %2d %-15s n=%d std=%.4f range=%.4f", js.Index, js.Name, js.Samples, js.Std, js.Range)
			}
		}
	}
	return set
}

// Get returns the statistic for label l.
func (s *StatisticsSet) Get(l recording.Label) (LabelStatistic, bool) {
	if s == nil {
		return LabelStatistic{}, false
	}
	st, ok := s.ByLabel[l]
	return st, ok
}

// Ordered returns the statistics in label order.
func (s *StatisticsSet) Ordered() []LabelStatistic {
	out := make([]LabelStatistic, 0, len(s.Labels))
	for _, l := range s.Labels {
		out = append(out, s.ByLabel[l])
	}
	return out
}

// Ranked returns the statistics from the most stable (lowest MeanStd) to the least.
// Undefined (NaN) labels go last; ties keep label order.
func (s *StatisticsSet) Ranked() []LabelStatistic {
	out := s.Ordered()
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].MeanStd, out[j].MeanStd
		if math.IsNaN(a) {
			return false
		}
		if math.IsNaN(b) {
			return true
		}
		return a < b
	})
	return out
}
