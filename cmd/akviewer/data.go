package main

import (
	"path/filepath"

	"github.com/mimisukeMaster/AKRecorder/src/analysis"
	"github.com/mimisukeMaster/AKRecorder/src/recording"
	"github.com/mimisukeMaster/AKRecorder/src/skeleton"
)

// viewerOptions are the command line choices shared by the window and screenshot mode.
type viewerOptions struct {
	base      string
	date      string
	relPath   string
	layout    string
	axis      string
	withRange bool
	progress  bool
}

// analysisResult is everything the panels read. It is computed once per load and never
// mutated afterwards; a reload replaces it as a whole.
type analysisResult struct {
	skel    skeleton.Skeleton
	engine  *analysis.Engine
	dataset *recording.Dataset
	stats   *analysis.StatisticsSet
}

func (r *analysisResult) source() string {
	if r == nil || r.dataset == nil {
		return ""
	}
	return r.dataset.Root
}

// loadAnalysis runs the load + statistics pipeline eagerly.
func loadAnalysis(o viewerOptions) (*analysisResult, error) {
	skel, err := skeleton.LoadOrDefault(o.layout)
	if err != nil {
		return nil, err
	}
	remap, err := analysis.ParseAxisRemap(o.axis)
	if err != nil {
		return nil, err
	}
	ds, err := recording.Load(o.date, recording.LoadOptions{
		BaseDir:  o.base,
		RelPath:  o.relPath,
		Joints:   skel.Count(),
		Progress: o.progress,
	})
	if err != nil {
		return nil, err
	}
	engine := analysis.NewEngine(skel, analysis.Options{IncludeRange: o.withRange, AxisRemap: remap})
	return &analysisResult{
		skel:    skel,
		engine:  engine,
		dataset: ds,
		stats:   analysis.ComputeStatistics(ds, engine),
	}, nil
}

// splitDateFolder turns a picked folder path into base and date folder name.
func splitDateFolder(path string) (base, date string) {
	clean := filepath.Clean(path)
	return filepath.Dir(clean), filepath.Base(clean)
}
