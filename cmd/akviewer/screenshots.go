package main

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/mimisukeMaster/AKRecorder/src/recording"
)

// RunScreenshotsMode renders the statistics panel and one scatter per label (in cycle
// order, so the files follow what repeated Next clicks would show) as PNGs under outDir.
// It runs headlessly without creating a UI window.
func RunScreenshotsMode(o viewerOptions, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}
	res, err := loadAnalysis(o)
	if err != nil {
		return err
	}
	st := &uiState{
		opts:      o,
		azimuth:   defaultAzimuth,
		elevation: defaultElevation,
	}
	setResult(st, res)

	if err := writePNG(filepath.Join(outDir, "stats.png"), renderStatsChart(st)); err != nil {
		return err
	}
	start := st.cursor
	for i := 0; i < start.Len(); i++ {
		l, _ := st.cursor.Current()
		if err := writePNG(filepath.Join(outDir, scatterFileName(st.cursor.Index(), l)), renderScatter(st, l)); err != nil {
			return err
		}
		st.cursor = st.cursor.Next()
	}
	return nil
}

func writePNG(path string, img image.Image) error {
	if img == nil {
		return nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("png encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// scatterFileName returns scatter_<nn>_<label>.png with path-unsafe characters replaced.
// The cycle index keeps labels that sanitize to the same text apart.
func scatterFileName(index int, l recording.Label) string {
	safe := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			return r
		}
		return '_'
	}, string(l))
	if safe == "" {
		safe = "unlabeled"
	}
	return fmt.Sprintf("scatter_%02d_%s.png", index+1, safe)
}
