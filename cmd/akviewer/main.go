package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"time"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/mimisukeMaster/AKRecorder/cmd/akviewer/uihelpers"
	"github.com/mimisukeMaster/AKRecorder/src/recording"
)

const (
	defaultAzimuth   = -60.0
	defaultElevation = 30.0
	rotateStep       = 15.0
)

type uiState struct {
	app    fyne.App
	window fyne.Window
	opts   viewerOptions

	result *analysisResult
	cursor uihelpers.LabelCursor

	// view
	azimuth    float64
	elevation  float64
	showLegend bool
	showHints  bool

	// widgets
	statsImgCanvas   *canvas.Image
	scatterImgCanvas *canvas.Image
	labelText        *widget.Label
	sourceLabel      *widget.Label
	table            *widget.Table
}

// dark theme wrapper
type darkTheme struct{}

func (d *darkTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}
func (d *darkTheme) Font(style fyne.TextStyle) fyne.Resource { return theme.DefaultTheme().Font(style) }
func (d *darkTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}
func (d *darkTheme) Size(name fyne.ThemeSizeName) float32 { return theme.DefaultTheme().Size(name) }

func main() {
	var o viewerOptions
	var shotsDir string
	flag.StringVar(&o.base, "base", recording.DefaultBaseDir, "Base directory holding the date folders")
	flag.StringVar(&o.date, "date", "", "Date folder name (e.g. 20250303); asked interactively when empty")
	flag.StringVar(&o.relPath, "path", recording.DefaultRelPath, "Recording file path relative to each session folder")
	flag.StringVar(&o.layout, "layout", "", "Optional YAML skeleton layout (default: Azure Kinect joint table)")
	flag.BoolVar(&o.withRange, "range", true, "Also chart the mean max-min range per label")
	flag.StringVar(&o.axis, "axis", "", "Axis remap applied before pooling and plotting, e.g. \"x,-z,y\"")
	flag.BoolVar(&o.progress, "progress", false, "Show a progress bar while reading sessions")
	flag.StringVar(&shotsDir, "screenshots", "", "Render stats.png and one scatter per label into this directory and exit (no window)")
	logLevel := flag.String("log-level", "info", "Log level (debug|info|warn|error)")
	flag.Parse()
	recording.SetLogLevel(*logLevel)

	if shotsDir != "" {
		if o.date == "" {
			d, err := recording.PromptDateFolder(os.Stdin, os.Stdout)
			if err != nil {
				fmt.Fprintf(os.Stderr, "[screenshots] %v\n", err)
				os.Exit(1)
			}
			o.date = d
		}
		if err := RunScreenshotsMode(o, shotsDir); err != nil {
			fmt.Fprintf(os.Stderr, "[screenshots] %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("[screenshots] wrote charts to %s\n", shotsDir)
		return
	}

	a := app.NewWithID("com.akrecorder.viewer")
	a.Settings().SetTheme(&darkTheme{})
	if o.date == "" {
		if err := promptDateFolder(a.Preferences(), &o, flagSet("base")); err != nil {
			fmt.Fprintf(os.Stderr, "[viewer] %v\n", err)
			os.Exit(1)
		}
	}

	// Everything is computed before the window exists; no data means no window.
	res, err := loadAnalysis(o)
	if err != nil {
		reportLoadError(err)
		os.Exit(1)
	}

	w := a.NewWindow("AKRecorder Viewer")
	w.Resize(fyne.NewSize(1400, 760))

	state := &uiState{
		app:       a,
		window:    w,
		opts:      o,
		azimuth:   defaultAzimuth,
		elevation: defaultElevation,
	}
	loadPrefs(state)
	setResult(state, res)

	state.statsImgCanvas = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 100, 60)))
	state.statsImgCanvas.FillMode = canvas.ImageFillContain
	state.statsImgCanvas.SetMinSize(fyne.NewSize(560, 420))
	state.scatterImgCanvas = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 100, 60)))
	state.scatterImgCanvas.FillMode = canvas.ImageFillContain
	state.scatterImgCanvas.SetMinSize(fyne.NewSize(560, 420))

	state.labelText = widget.NewLabel(state.cursor.Position())
	state.sourceLabel = widget.NewLabel(truncatePath(res.source(), 60))
	nextBtn := widget.NewButtonWithIcon("Next", theme.MediaSkipNextIcon(), func() { nextLabel(state) })
	legendChk := widget.NewCheck("Legend", func(b bool) { state.showLegend = b; savePrefs(state); redrawScatter(state) })
	legendChk.SetChecked(state.showLegend)
	hintsChk := widget.NewCheck("Hints", func(b bool) { state.showHints = b; savePrefs(state); redrawScatter(state) })
	hintsChk.SetChecked(state.showHints)

	toolbar := container.NewHBox(
		widget.NewButton("◀", func() { rotate(state, -rotateStep, 0) }),
		widget.NewButton("▶", func() { rotate(state, rotateStep, 0) }),
		widget.NewButton("▲", func() { rotate(state, 0, rotateStep) }),
		widget.NewButton("▼", func() { rotate(state, 0, -rotateStep) }),
		widget.NewButton("Reset View", func() { state.azimuth, state.elevation = defaultAzimuth, defaultElevation; savePrefs(state); redrawScatter(state) }),
		legendChk, hintsChk,
		layout.NewSpacer(),
		state.labelText,
		nextBtn,
	)
	split := container.NewHSplit(state.statsImgCanvas, state.scatterImgCanvas)
	split.SetOffset(0.45)
	charts := container.NewBorder(nil, toolbar, nil, nil, split)

	state.table = newStatsTable(state)
	tabs := container.NewAppTabs(
		container.NewTabItem("Charts", charts),
		container.NewTabItem("Statistics", state.table),
	)
	tabs.SetTabLocation(container.TabLocationTop)
	tabs.OnSelected = func(ti *container.TabItem) {
		state.app.Preferences().SetInt("selectedTabIndex", tabs.SelectedIndex())
	}
	if idx := a.Preferences().IntWithFallback("selectedTabIndex", 0); idx >= 0 && idx < len(tabs.Items) {
		tabs.SelectIndex(idx)
	}
	top := container.NewHBox(
		widget.NewButton("Open…", func() { openFolderDialog(state) }),
		widget.NewButton("Reload", func() { reload(state, state.opts) }),
		widget.NewLabel("Source:"), state.sourceLabel,
	)
	w.SetContent(container.NewBorder(top, nil, nil, nil, tabs))

	buildMenus(state)
	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyN, fyne.KeySpace:
			nextLabel(state)
		case fyne.KeyLeft:
			rotate(state, -rotateStep, 0)
		case fyne.KeyRight:
			rotate(state, rotateStep, 0)
		case fyne.KeyUp:
			rotate(state, 0, rotateStep)
		case fyne.KeyDown:
			rotate(state, 0, -rotateStep)
		}
	})

	// Redraw charts on window resize so they scale with width
	prevW := int(w.Canvas().Size().Width)
	done := make(chan struct{})
	w.SetOnClosed(func() {
		savePrefs(state)
		close(done)
	})
	go func() {
		t := time.NewTicker(300 * time.Millisecond)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				c := w.Canvas()
				if c == nil {
					continue
				}
				curW := int(c.Size().Width)
				if curW != prevW {
					prevW = curW
					fyne.Do(func() { redrawCharts(state) })
				}
			}
		}
	}()

	redrawCharts(state)
	w.ShowAndRun()
}

// promptDateFolder asks on stdin; a blank answer reopens the last date folder the viewer
// showed, together with its base directory unless -base was given explicitly.
func promptDateFolder(prefs fyne.Preferences, o *viewerOptions, baseFromFlag bool) error {
	d, err := recording.PromptDateFolder(os.Stdin, os.Stdout)
	if err == nil {
		o.date = d
		return nil
	}
	last := prefs.StringWithFallback("lastDate", "")
	if !errors.Is(err, recording.ErrNoDateFolder) || last == "" {
		return err
	}
	o.date = last
	if !baseFromFlag {
		o.base = prefs.StringWithFallback("lastBase", o.base)
	}
	fmt.Printf("[viewer] using last date folder %s\n", filepath.Join(o.base, o.date))
	return nil
}

func flagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func reportLoadError(err error) {
	switch {
	case errors.Is(err, recording.ErrMissingRootFolder):
		fmt.Fprintf(os.Stderr, "[viewer] %v; nothing to plot\n", err)
	case errors.Is(err, recording.ErrNoUsableData):
		fmt.Fprintf(os.Stderr, "[viewer] %v; no data found\n", err)
	default:
		fmt.Fprintf(os.Stderr, "[viewer] %v\n", err)
	}
}

// setResult installs a freshly computed result. On reload the cursor stays on the previous
// label when the new result still has it; a first load always starts at the first label.
func setResult(state *uiState, res *analysisResult) {
	prev, hadPrev := state.cursor.Current()
	state.result = res
	state.cursor = uihelpers.NewLabelCursor(res.stats.Labels)
	if hadPrev {
		if c, ok := state.cursor.Seek(prev); ok {
			state.cursor = c
		}
	}
	fmt.Printf("[viewer] loaded %d labels (%d recordings) from %s\n", res.dataset.Len(), res.dataset.RecordingCount(), res.source())
}

// menus and dialogs
func buildMenus(state *uiState) {
	if state == nil || state.window == nil || state.app == nil {
		return
	}
	exportStats := fyne.NewMenuItem("Export Statistics Chart…", func() { exportChartPNG(state, state.statsImgCanvas, "stats.png") })
	exportScatter := fyne.NewMenuItem("Export Scatter Plot…", func() {
		l, _ := state.cursor.Current()
		exportChartPNG(state, state.scatterImgCanvas, scatterFileName(state.cursor.Index(), l))
	})
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Date Folder…", func() { openFolderDialog(state) }),
		fyne.NewMenuItem("Reload", func() { reload(state, state.opts) }),
		fyne.NewMenuItemSeparator(),
		exportStats,
		exportScatter,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { state.window.Close() }),
	)
	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Next Label", func() { nextLabel(state) }),
		fyne.NewMenuItem("Reset View", func() {
			state.azimuth, state.elevation = defaultAzimuth, defaultElevation
			savePrefs(state)
			redrawScatter(state)
		}),
	)
	state.window.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu))

	canv := state.window.Canvas()
	if canv != nil {
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { openFolderDialog(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { openFolderDialog(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { reload(state, state.opts) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { reload(state, state.opts) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { state.window.Close() })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { state.window.Close() })
	}
}

// openFolderDialog picks another <base>/<date> folder and reloads from it.
func openFolderDialog(state *uiState) {
	d := dialog.NewFolderOpen(func(lu fyne.ListableURI, err error) {
		if err != nil || lu == nil {
			return
		}
		o := state.opts
		o.base, o.date = splitDateFolder(lu.Path())
		reload(state, o)
	}, state.window)
	if abs, err := filepath.Abs(state.opts.base); err == nil {
		if loc, err := storage.ListerForURI(storage.NewFileURI(abs)); err == nil {
			d.SetLocation(loc)
		}
	}
	d.Show()
}

// reload recomputes everything for o. On failure the current result stays on screen.
func reload(state *uiState, o viewerOptions) {
	res, err := loadAnalysis(o)
	if err != nil {
		reportLoadError(err)
		dialog.ShowError(err, state.window)
		return
	}
	state.opts = o
	setResult(state, res)
	if state.sourceLabel != nil {
		state.sourceLabel.SetText(truncatePath(res.source(), 60))
	}
	if state.table != nil {
		state.table.Refresh()
	}
	savePrefs(state)
	redrawCharts(state)
}

// nextLabel advances the cycle and replaces the scatter image.
func nextLabel(state *uiState) {
	state.cursor = state.cursor.Next()
	savePrefs(state)
	redrawScatter(state)
}

func rotate(state *uiState, dAz, dEl float64) {
	state.azimuth = uihelpers.WrapAzimuth(state.azimuth + dAz)
	state.elevation = uihelpers.ClampElevation(state.elevation + dEl)
	savePrefs(state)
	redrawScatter(state)
}

func redrawCharts(state *uiState) {
	img := renderStatsChart(state)
	if img != nil && state.statsImgCanvas != nil {
		state.statsImgCanvas.Image = img
		state.statsImgCanvas.Refresh()
	}
	redrawScatter(state)
}

func redrawScatter(state *uiState) {
	if state.labelText != nil {
		state.labelText.SetText(state.cursor.Position())
	}
	l, ok := state.cursor.Current()
	if !ok || state.scatterImgCanvas == nil {
		return
	}
	state.scatterImgCanvas.Image = renderScatter(state, l)
	state.scatterImgCanvas.Refresh()
}

// screenshotWidthOverride fixes the panel width used when no window exists (tests, screenshots).
var screenshotWidthOverride int

// chartSize computes one panel's size from the current window width; the bar and scatter
// panels share the width side by side.
func chartSize(state *uiState) (int, int) {
	if state == nil || state.window == nil || state.window.Canvas() == nil {
		if screenshotWidthOverride > 0 {
			return uihelpers.ComputeChartDimensions(screenshotWidthOverride)
		}
		return 720, 540
	}
	sz := state.window.Canvas().Size()
	return uihelpers.ComputeChartDimensions(int(sz.Width*0.48) - 12)
}

// export PNG
func exportChartPNG(state *uiState, img *canvas.Image, defaultName string) {
	if state == nil || state.window == nil {
		return
	}
	if img == nil || img.Image == nil {
		dialog.ShowInformation("Export", "No chart to export.", state.window)
		return
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if err := png.Encode(wc, img.Image); err != nil {
			dialog.ShowError(err, state.window)
		}
	}, state.window)
	fs.SetFileName(defaultName)
	fs.Show()
}

// statistics table
func newStatsTable(state *uiState) *widget.Table {
	headers := [6]string{"Label", "Recordings", "Samples", "Joints", "Mean Std", "Mean Range"}
	t := widget.NewTable(
		func() (int, int) {
			if state.result == nil {
				return 1, len(headers)
			}
			return len(state.result.stats.Labels) + 1, len(headers)
		},
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TableCellID, o fyne.CanvasObject) {
			lbl := o.(*widget.Label)
			if id.Row == 0 {
				lbl.SetText(headers[id.Col])
				return
			}
			rows := state.result.stats.Ordered()
			if id.Row-1 >= len(rows) {
				lbl.SetText("")
				return
			}
			st := rows[id.Row-1]
			switch id.Col {
			case 0:
				lbl.SetText(string(st.Label))
			case 1:
				lbl.SetText(fmt.Sprintf("%d", st.Recordings))
			case 2:
				lbl.SetText(fmt.Sprintf("%d", st.Samples))
			case 3:
				lbl.SetText(fmt.Sprintf("%d/%d", st.JointsUsed, state.result.engine.JointCount()))
			case 4:
				lbl.SetText(uihelpers.FormatStat(st.MeanStd))
			case 5:
				if st.HasRange {
					lbl.SetText(uihelpers.FormatStat(st.MeanRange))
				} else {
					lbl.SetText("-")
				}
			}
		},
	)
	winW := float32(1400)
	if state.window != nil && state.window.Canvas().Size().Width > 0 {
		winW = state.window.Canvas().Size().Width
	}
	for i, w := range uihelpers.ComputeTableColumnWidths(winW) {
		t.SetColumnWidth(i, float32(w))
	}
	return t
}

// prefs
func savePrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	prefs.SetString("lastBase", state.opts.base)
	prefs.SetString("lastDate", state.opts.date)
	prefs.SetFloat("azimuth", state.azimuth)
	prefs.SetFloat("elevation", state.elevation)
	prefs.SetBool("showLegend", state.showLegend)
	prefs.SetBool("showHints", state.showHints)
}

func loadPrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	state.azimuth = uihelpers.WrapAzimuth(prefs.FloatWithFallback("azimuth", state.azimuth))
	state.elevation = uihelpers.ClampElevation(prefs.FloatWithFallback("elevation", state.elevation))
	state.showLegend = prefs.BoolWithFallback("showLegend", state.showLegend)
	state.showHints = prefs.BoolWithFallback("showHints", state.showHints)
}

// utils
func truncatePath(p string, n int) string {
	if len(p) <= n {
		return p
	}
	base := filepath.Base(p)
	if len(base)+4 >= n {
		return "…" + base
	}
	return p[:n-len(base)-4] + "…/" + base
}
