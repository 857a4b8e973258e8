// AKRecorder analyze entrypoint.
//
// Loads every <base>/<date>/<session>/<path> recording, groups the recordings by label
// and prints one dispersion line per label: mean per-joint std (and mean max-min range)
// of the pooled joint positions. Optionally writes the same numbers as a JSON report.
//
// Design notes:
//   - The date folder is asked on stdin when -date is not given, so the binary can be
//     launched by double click the way recordings are usually inspected.
//   - A missing root folder or a date folder without any usable recording is reported
//     and the program stops before printing statistics (exit code 1).
//   - Dependency direction: main -> analysis -> recording/skeleton. The viewer in
//     cmd/akviewer shares the exact same pipeline.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mimisukeMaster/AKRecorder/src/analysis"
	"github.com/mimisukeMaster/AKRecorder/src/recording"
	"github.com/mimisukeMaster/AKRecorder/src/skeleton"
)

type cliOptions struct {
	base         string
	date         string
	relPath      string
	layout       string
	withRange    bool
	axis         string
	report       string
	jointsReport bool
	progress     bool
}

func main() {
	var o cliOptions
	flag.StringVar(&o.base, "base", recording.DefaultBaseDir, "Base directory holding the date folders")
	flag.StringVar(&o.date, "date", "", "Date folder name (e.g. 20250303); asked interactively when empty")
	flag.StringVar(&o.relPath, "path", recording.DefaultRelPath, "Recording file path relative to each session folder")
	flag.StringVar(&o.layout, "layout", "", "Optional YAML skeleton layout (default: Azure Kinect joint table)")
	flag.BoolVar(&o.withRange, "range", true, "Also compute the mean max-min range per label")
	flag.StringVar(&o.axis, "axis", "", "Axis remap applied before pooling, e.g. \"x,-z,y\" (default x,y,z)")
	flag.StringVar(&o.report, "report", "", "Write a JSON statistics report; \"auto\" derives stats_<date>.json")
	flag.BoolVar(&o.jointsReport, "joints-report", false, "Include the per-joint breakdown in the JSON report")
	flag.BoolVar(&o.progress, "progress", false, "Show a progress bar while reading sessions")
	logLevel := flag.String("log-level", "info", "Log level (debug|info|warn|error)")
	flag.Parse()

	recording.SetLogLevel(*logLevel)
	if err := run(o, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "[analysis] %v\n", err)
		os.Exit(1)
	}
}

// run executes one analysis pass, printing to out. Prompts on in when no date is set.
func run(o cliOptions, in io.Reader, out io.Writer) error {
	defer recording.TimeTrack(time.Now(), "analysis run")
	if strings.TrimSpace(o.date) == "" {
		d, err := recording.PromptDateFolder(in, out)
		if err != nil {
			return err
		}
		o.date = d
	}
	skel, err := skeleton.LoadOrDefault(o.layout)
	if err != nil {
		return err
	}
	remap, err := analysis.ParseAxisRemap(o.axis)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "[analysis start] loading %s (skeleton=%s joints=%d)\n", filepath.Join(o.base, o.date), skel.Name, skel.Count())
	ds, err := recording.Load(o.date, recording.LoadOptions{
		BaseDir:  o.base,
		RelPath:  o.relPath,
		Joints:   skel.Count(),
		Progress: o.progress,
	})
	if err != nil {
		switch {
		case errors.Is(err, recording.ErrMissingRootFolder):
			return fmt.Errorf("nothing to analyze: %w", err)
		case errors.Is(err, recording.ErrNoUsableData):
			return fmt.Errorf("nothing to plot: %w", err)
		}
		return err
	}

	engine := analysis.NewEngine(skel, analysis.Options{IncludeRange: o.withRange, AxisRemap: remap})
	set := analysis.ComputeStatistics(ds, engine)
	printSummary(out, set, engine.JointCount())

	if o.report != "" {
		path := o.report
		if path == "auto" {
			path = deriveDefaultReportPath(o.date)
		}
		rep := analysis.BuildReport(set, engine, ds.Root, o.jointsReport)
		if err := analysis.WriteReportJSON(path, rep); err != nil {
			return err
		}
		fmt.Fprintf(out, "[analysis] wrote statistics report JSON: %s\n", path)
	}
	return nil
}

// printSummary writes one line per label in load order, an overall line and the ranking.
func printSummary(out io.Writer, set *analysis.StatisticsSet, joints int) {
	var recs, samples int
	var stds, ranges []float64
	for _, st := range set.Ordered() {
		line := fmt.Sprintf("[label %s] recordings=%d samples=%d joints=%d/%d mean_std=%s",
			st.Label, st.Recordings, st.Samples, st.JointsUsed, joints, formatStat(st.MeanStd))
		if st.HasRange {
			line += " mean_range=" + formatStat(st.MeanRange)
		}
		fmt.Fprintln(out, line)
		recs += st.Recordings
		samples += st.Samples
		if st.Defined() {
			stds = append(stds, st.MeanStd)
		}
		if st.HasRange && !math.IsNaN(st.MeanRange) {
			ranges = append(ranges, st.MeanRange)
		}
	}
	overall := fmt.Sprintf("[overall] labels=%d recordings=%d samples=%d avg_mean_std=%s",
		len(set.Labels), recs, samples, formatStat(mean(stds)))
	if set.Options.IncludeRange {
		overall += " avg_mean_range=" + formatStat(mean(ranges))
	}
	fmt.Fprintln(out, overall)

	var ranked []string
	for _, st := range set.Ranked() {
		ranked = append(ranked, string(st.Label))
	}
	fmt.Fprintf(out, "[ranking] most stable first: %s\n", strings.Join(ranked, " < "))
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.4f", v)
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	s := 0.0
	for _, v := range vals {
		s += v
	}
	return s / float64(len(vals))
}

// deriveDefaultReportPath returns a stats_<date>.json path; if CWD is src/, write to parent repo root.
func deriveDefaultReportPath(date string) string {
	name := fmt.Sprintf("stats_%s.json", filepath.Base(date))
	cwd, err := os.Getwd()
	if err != nil {
		return name
	}
	if filepath.Base(cwd) == "src" {
		return filepath.Join(filepath.Dir(cwd), name)
	}
	return filepath.Join(cwd, name)
}
