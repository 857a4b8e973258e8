package main

import (
	"errors"
	"image"
	_ "image/png" // register PNG decoder
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mimisukeMaster/AKRecorder/src/recording"
)

// writeSession writes <base>/<date>/<session>/0/pos.csv with the given rows.
func writeSession(t *testing.T, base, date, session string, rows ...string) {
	t.Helper()
	dir := filepath.Join(base, date, session, "0")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	body := strings.Join(rows, "\n")
	if body != "" {
		body += "\n"
	}
	if err := os.WriteFile(filepath.Join(dir, "pos.csv"), []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// fixture builds a date folder with labels 2, 1 and 3 (in session order) and one empty file.
func fixture(t *testing.T) viewerOptions {
	t.Helper()
	recording.SetLogOutput(io.Discard)
	t.Cleanup(func() { recording.SetLogOutput(os.Stderr) })
	base := t.TempDir()
	writeSession(t, base, "20250303", "100000",
		"2,0.0,0,0,0,1,1,1",
		"2,0.1,2,0,0,1,2,1",
	)
	writeSession(t, base, "20250303", "101000", "1,0.0,5,5,5")
	writeSession(t, base, "20250303", "102000")
	writeSession(t, base, "20250303", "103000", "3,0.0,,,", "3,0.1,nan,1,1")
	writeSession(t, base, "20250303", "104000", "2,0.0,4,0,0,1,1,3")
	return viewerOptions{base: base, date: "20250303", relPath: recording.DefaultRelPath, withRange: true}
}

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return img
}

// TestScreenshotsWriteStatsAndOneScatterPerLabel ensures the headless mode writes the bar
// panel plus one scatter per label, all at the panel width.
func TestScreenshotsWriteStatsAndOneScatterPerLabel(t *testing.T) {
	screenshotWidthOverride = 640
	defer func() { screenshotWidthOverride = 0 }()
	o := fixture(t)
	outDir := t.TempDir()
	if err := RunScreenshotsMode(o, outDir); err != nil {
		t.Fatalf("RunScreenshotsMode: %v", err)
	}
	expectedW, expectedH := chartSize(nil)
	for _, name := range []string{"stats.png", "scatter_01_2.png", "scatter_02_1.png", "scatter_03_3.png"} {
		img := decodePNG(t, filepath.Join(outDir, name))
		if w := img.Bounds().Dx(); w != expectedW {
			t.Fatalf("image width mismatch for %s: got %d, want %d", name, w, expectedW)
		}
		if h := img.Bounds().Dy(); h != expectedH {
			t.Fatalf("image height mismatch for %s: got %d, want %d", name, h, expectedH)
		}
	}
	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatalf("read out dir: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 files, got %d", len(entries))
	}
}

func TestScreenshotsStopOnMissingRoot(t *testing.T) {
	recording.SetLogOutput(io.Discard)
	defer recording.SetLogOutput(os.Stderr)
	outDir := t.TempDir()
	err := RunScreenshotsMode(viewerOptions{base: t.TempDir(), date: "nope"}, outDir)
	if !errors.Is(err, recording.ErrMissingRootFolder) {
		t.Fatalf("expected ErrMissingRootFolder, got %v", err)
	}
	if entries, _ := os.ReadDir(outDir); len(entries) != 0 {
		t.Fatalf("no charts expected, found %d files", len(entries))
	}
}

func TestScatterFileName(t *testing.T) {
	cases := []struct {
		index int
		label recording.Label
		want  string
	}{
		{0, "1", "scatter_01_1.png"},
		{4, "wave/arm", "scatter_05_wave_arm.png"},
		{11, "", "scatter_12_unlabeled.png"},
	}
	for _, c := range cases {
		if got := scatterFileName(c.index, c.label); got != c.want {
			t.Fatalf("scatterFileName(%d, %q)=%q want %q", c.index, c.label, got, c.want)
		}
	}
}

// TestScreenshotsKeepLabelsThatSanitizeAlike writes labels "a/b" and "a_b", which share a
// sanitized name, and expects two distinct scatter files.
func TestScreenshotsKeepLabelsThatSanitizeAlike(t *testing.T) {
	recording.SetLogOutput(io.Discard)
	defer recording.SetLogOutput(os.Stderr)
	base := t.TempDir()
	writeSession(t, base, "20250304", "100000", "a/b,0.0,0,0,0", "a/b,0.1,1,1,1")
	writeSession(t, base, "20250304", "101000", "a_b,0.0,2,2,2")
	o := viewerOptions{base: base, date: "20250304", relPath: recording.DefaultRelPath, withRange: true}
	outDir := t.TempDir()
	if err := RunScreenshotsMode(o, outDir); err != nil {
		t.Fatalf("RunScreenshotsMode: %v", err)
	}
	for _, name := range []string{"stats.png", "scatter_01_a_b.png", "scatter_02_a_b.png"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
	entries, _ := os.ReadDir(outDir)
	if len(entries) != 3 {
		t.Fatalf("expected 3 files, got %d", len(entries))
	}
}
