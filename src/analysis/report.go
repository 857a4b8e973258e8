package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/google/uuid"
)

// Report is the JSON form of a StatisticsSet. NaN statistics are written as null.
type Report struct {
	ReportID     string        `json:"report_id"`
	GeneratedAt  string        `json:"generated_at"`
	Root         string        `json:"root"`
	Skeleton     string        `json:"skeleton"`
	Joints       int           `json:"joints"`
	AxisRemap    string        `json:"axis_remap"`
	IncludeRange bool          `json:"include_range"`
	Labels       []LabelReport `json:"labels"`
	Ranking      []string      `json:"ranking"` // most stable first
}

// LabelReport is one label entry of a Report.
type LabelReport struct {
	Label      string        `json:"label"`
	Recordings int           `json:"recordings"`
	Samples    int           `json:"samples"`
	JointsUsed int           `json:"joints_used"`
	MeanStd    *float64      `json:"mean_std"`
	MeanRange  *float64      `json:"mean_range,omitempty"`
	Joints     []JointReport `json:"joints,omitempty"`
}

// JointReport is the per-joint breakdown, present when requested.
type JointReport struct {
	Index   int      `json:"index"`
	Name    string   `json:"name"`
	Samples int      `json:"samples"`
	Std     *float64 `json:"std"`
	Range   *float64 `json:"range,omitempty"`
}

func optional(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// BuildReport converts set into its JSON form. withJoints adds the per-joint breakdown.
func BuildReport(set *StatisticsSet, e *Engine, root string, withJoints bool) Report {
	rep := Report{
		ReportID:     uuid.NewString(),
		GeneratedAt:  time.Now().UTC().Format(time.RFC3339Nano),
		Root:         root,
		Skeleton:     e.Skeleton().Name,
		Joints:       e.JointCount(),
		AxisRemap:    set.Options.AxisRemap.String(),
		IncludeRange: set.Options.IncludeRange,
		Labels:       []LabelReport{},
		Ranking:      []string{},
	}
	for _, st := range set.Ordered() {
		lr := LabelReport{
			Label:      string(st.Label),
			Recordings: st.Recordings,
			Samples:    st.Samples,
			JointsUsed: st.JointsUsed,
			MeanStd:    optional(st.MeanStd),
		}
		if st.HasRange {
			lr.MeanRange = optional(st.MeanRange)
		}
		if withJoints {
			for _, js := range st.Joints {
				jr := JointReport{Index: js.Index, Name: js.Name, Samples: js.Samples, Std: optional(js.Std)}
				if st.HasRange {
					jr.Range = optional(js.Range)
				}
				lr.Joints = append(lr.Joints, jr)
			}
		}
		rep.Labels = append(rep.Labels, lr)
	}
	for _, st := range set.Ranked() {
		rep.Ranking = append(rep.Ranking, string(st.Label))
	}
	return rep
}

// WriteReportJSON writes rep as indented JSON to path.
func WriteReportJSON(path string, rep Report) error {
	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
