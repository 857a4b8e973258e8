package analysis

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mimisukeMaster/AKRecorder/src/recording"
)

func TestWriteReportJSONEncodesNaNAsNull(t *testing.T) {
	ds := recording.NewDataset("temp/20250303", []recording.Recording{
		rec("1", frame(pt(0, 0, 0), pt(nan, 0, 0)), frame(pt(2, 2, 2), pt(nan, 0, 0))),
		rec("2", frame(pt(nan, 0, 0), pt(nan, 0, 0))),
	})
	remap, _ := ParseAxisRemap("x,-z,y")
	e := NewEngine(synthetic(2), Options{IncludeRange: true, AxisRemap: remap})
	set := ComputeStatistics(ds, e)
	rep := BuildReport(set, e, ds.Root, true)
	if rep.ReportID == "" || rep.Joints != 2 || rep.AxisRemap != "x,-z,y" || rep.Skeleton != "synthetic" {
		t.Fatalf("header: %+v", rep)
	}

	path := filepath.Join(t.TempDir(), "stats.json")
	if err := WriteReportJSON(path, rep); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var parsed struct {
		Labels []struct {
			Label     string   `json:"label"`
			MeanStd   *float64 `json:"mean_std"`
			MeanRange *float64 `json:"mean_range"`
			Joints    []struct {
				Std *float64 `json:"std"`
			} `json:"joints"`
		} `json:"labels"`
		Ranking []string `json:"ranking"`
	}
	if err := json.Unmarshal(b, &parsed); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, b)
	}
	if len(parsed.Labels) != 2 {
		t.Fatalf("labels: %s", b)
	}
	one, two := parsed.Labels[0], parsed.Labels[1]
	if one.Label != "1" || one.MeanStd == nil || *one.MeanStd != 1 || one.MeanRange == nil || *one.MeanRange != 2 {
		t.Fatalf("label 1: %s", b)
	}
	if len(one.Joints) != 2 || one.Joints[1].Std != nil {
		t.Fatalf("skipped joint should have null std: %s", b)
	}
	if two.MeanStd != nil || two.MeanRange != nil {
		t.Fatalf("label 2 should be null: %s", b)
	}
	if len(parsed.Ranking) != 2 || parsed.Ranking[0] != "1" || parsed.Ranking[1] != "2" {
		t.Fatalf("ranking: %v", parsed.Ranking)
	}
}

func TestWriteReportJSONBadPath(t *testing.T) {
	err := WriteReportJSON(filepath.Join(t.TempDir(), "missing", "dir", "r.json"), Report{})
	if err == nil {
		t.Fatalf("expected write error")
	}
}
