package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mimisukeMaster/AKRecorder/src/recording"
)

func main() {
	var base, date, rel string
	var joints int
	var progress bool
	flag.StringVar(&base, "base", recording.DefaultBaseDir, "Base directory holding the date folders")
	flag.StringVar(&date, "date", "", "Date folder name (asked interactively when empty)")
	flag.StringVar(&rel, "path", recording.DefaultRelPath, "Recording file path relative to each session folder")
	flag.IntVar(&joints, "joints", recording.DefaultJoints, "Joints parsed per row")
	flag.BoolVar(&progress, "progress", false, "Show a progress bar while reading sessions")
	logLevel := flag.String("log-level", "warn", "Log level (debug|info|warn|error)")
	flag.Parse()
	recording.SetLogLevel(*logLevel)

	if date == "" {
		d, err := recording.PromptDateFolder(os.Stdin, os.Stdout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		date = d
	}
	ds, err := recording.Load(date, recording.LoadOptions{BaseDir: base, RelPath: rel, Joints: joints, Progress: progress})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	printInventory(os.Stdout, ds)
}

// printInventory lists every label in load order with its recording and sample counts.
func printInventory(w io.Writer, ds *recording.Dataset) {
	fmt.Fprintf(w, "Root: %s\n", ds.Root)
	fmt.Fprintf(w, "Total recordings: %d in %d labels\n", ds.RecordingCount(), ds.Len())
	for _, l := range ds.Labels() {
		recs, _ := ds.Group(l)
		fmt.Fprintf(w, "%s: recordings=%d samples=%d", l, len(recs), ds.SampleCount(l))
		for _, r := range recs {
			fmt.Fprintf(w, " [%s:%d]", r.Session, len(r.Samples))
		}
		fmt.Fprintln(w)
	}
}
