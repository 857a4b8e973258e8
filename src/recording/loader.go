package recording

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"

	"github.com/mimisukeMaster/AKRecorder/src/skeleton"
)

const (
	// DefaultBaseDir is the directory holding one folder per capture date.
	DefaultBaseDir = "temp"
	// DefaultJoints is the joint count written by the capture tool.
	DefaultJoints = 31
)

// DefaultRelPath is the recording file inside each session directory.
var DefaultRelPath = filepath.Join("0", "pos.csv")

var (
	// ErrMissingRootFolder means <base>/<date folder> does not exist.
	ErrMissingRootFolder = errors.New("root folder not found")
	// ErrNoUsableData means the root folder holds no non-empty recording.
	ErrNoUsableData = errors.New("no usable recordings found")
	// ErrEmptyRecording marks a recording file with zero rows.
	ErrEmptyRecording = errors.New("recording file is empty")
	// ErrNoDateFolder is returned by the prompt when the answer is blank.
	ErrNoDateFolder = errors.New("no date folder given")
)

// LoadOptions controls discovery and parsing.
type LoadOptions struct {
	BaseDir  string // default DefaultBaseDir
	RelPath  string // default DefaultRelPath
	Joints   int    // joints parsed per row; default DefaultJoints
	Progress bool   // show a progress bar on stderr while reading sessions
}

func (o LoadOptions) withDefaults() LoadOptions {
	if o.BaseDir == "" {
		o.BaseDir = DefaultBaseDir
	}
	if o.RelPath == "" {
		o.RelPath = DefaultRelPath
	}
	if o.Joints <= 0 {
		o.Joints = DefaultJoints
	}
	return o
}

// Load discovers every session under <base>/<dateFolder>, reads its recording file and
// groups the recordings by label. Sessions are visited in sorted name order, so the
// label order of the result does not depend on how the filesystem lists directories.
//
// Sessions without a recording file are ignored; empty or unreadable files are skipped
// with a warning. ErrMissingRootFolder and ErrNoUsableData end the load.
func Load(dateFolder string, opts LoadOptions) (*Dataset, error) {
	opts = opts.withDefaults()
	defer TimeTrack(time.Now(), "load "+dateFolder)
	root := filepath.Join(opts.BaseDir, dateFolder)
	if fi, err := os.Stat(root); err != nil || !fi.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrMissingRootFolder, root)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", root, err)
	}
	var sessions []string
	for _, e := range entries {
		if e.IsDir() {
			sessions = append(sessions, e.Name())
		}
	}
	sort.Strings(sessions)
	Debugf("found %d session directories under %s", len(sessions), root)

	var bar *pb.ProgressBar
	if opts.Progress && len(sessions) > 0 {
		bar = pb.StartNew(len(sessions))
		defer bar.Finish()
	}
	var recs []Recording
	for _, session := range sessions {
		if bar != nil {
			bar.Increment()
		}
		path := filepath.Join(root, session, opts.RelPath)
		if _, err := os.Stat(path); err != nil {
			Debugf("session %s has no recording file (%s)", session, path)
			continue
		}
		rec, err := ReadRecordingFile(path, opts.Joints)
		if err != nil {
			if errors.Is(err, ErrEmptyRecording) {
				Warnf("%s is empty; skipping", path)
			} else {
				Warnf("skipping %s: %v", path, err)
			}
			continue
		}
		rec.Session = session
		recs = append(recs, rec)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%w under %s", ErrNoUsableData, root)
	}
	ds := NewDataset(root, recs)
	Infof("loaded %d recordings in %d labels from %s", len(recs), ds.Len(), root)
	return ds, nil
}

// ReadRecordingFile parses one recording file.
func ReadRecordingFile(path string, joints int) (Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return Recording{}, err
	}
	defer f.Close()
	rec, err := ParseRecording(bufio.NewReader(f), joints)
	if err != nil {
		return Recording{}, fmt.Errorf("%s: %w", path, err)
	}
	rec.Path = path
	return rec, nil
}

// ParseRecording reads headerless rows. The recording label comes from the first row.
// Cells that are blank, unparseable or beyond the row width become NaN.
func ParseRecording(r io.Reader, joints int) (Recording, error) {
	if joints <= 0 {
		joints = DefaultJoints
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	var rec Recording
	row := 0
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Recording{}, fmt.Errorf("row %d: %w", row+1, err)
		}
		s := parseRow(fields, joints)
		if row == 0 {
			rec.Label = s.Label
		}
		rec.Samples = append(rec.Samples, s)
		row++
	}
	if row == 0 {
		return Recording{}, ErrEmptyRecording
	}
	if rec.Label == "" {
		return Recording{}, fmt.Errorf("first row has no label")
	}
	return rec, nil
}

func parseRow(fields []string, joints int) Sample {
	s := Sample{Joints: make([]Point3, joints)}
	if len(fields) > skeleton.LabelColumn {
		s.Label = NormalizeLabel(fields[skeleton.LabelColumn])
	}
	if len(fields) > skeleton.TimestampColumn {
		s.Timestamp = strings.TrimSpace(fields[skeleton.TimestampColumn])
	}
	for i := 0; i < joints; i++ {
		start, _ := skeleton.JointColumns(i)
		s.Joints[i] = Point3{
			X: cell(fields, start),
			Y: cell(fields, start+1),
			Z: cell(fields, start+2),
		}
	}
	return s
}

func cell(fields []string, i int) float64 {
	if i >= len(fields) {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(fields[i]), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// PromptDateFolder asks for the date folder name on out and reads one line from in.
func PromptDateFolder(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Enter the date folder name (e.g. 20250303): ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	name := strings.TrimSpace(line)
	if name == "" {
		return "", ErrNoDateFolder
	}
	return name, nil
}
