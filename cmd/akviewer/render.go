package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/mimisukeMaster/AKRecorder/cmd/akviewer/uihelpers"
	"github.com/mimisukeMaster/AKRecorder/src/analysis"
	"github.com/mimisukeMaster/AKRecorder/src/recording"
)

var (
	stdColor   = drawing.ColorFromHex("4169e1") // royalblue
	rangeColor = drawing.ColorFromHex("ff6347") // tomato
	guideColor = drawing.ColorFromHex("808080")
)

// pointStyle returns a style that renders points only (no connecting line)
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    3,
		DotColor:    col,
	}
}

// renderStatsChart draws the per-label bar panel: mean std on top and, when range
// tracking is on, mean range below it, both in label load order.
func renderStatsChart(state *uiState) image.Image {
	cw, chh := chartSize(state)
	if state == nil || state.result == nil || len(state.result.stats.Labels) == 0 {
		return blank(cw, chh)
	}
	rows := state.result.stats.Ordered()
	if !state.result.stats.Options.IncludeRange {
		return renderBarChart("Mean Standard Deviation per Label", rows, stdColor, cw, chh,
			func(s analysis.LabelStatistic) float64 { return s.MeanStd })
	}
	top := renderBarChart("Mean Standard Deviation per Label", rows, stdColor, cw, chh/2,
		func(s analysis.LabelStatistic) float64 { return s.MeanStd })
	bottom := renderBarChart("Mean Range per Label", rows, rangeColor, cw, chh-chh/2,
		func(s analysis.LabelStatistic) float64 { return s.MeanRange })
	return stackImages(top, bottom)
}

// renderBarChart draws one bar per label. A NaN statistic is drawn at zero height but
// keeps a "(NaN)" marker in its label so it is never mistaken for a real zero.
func renderBarChart(title string, rows []analysis.LabelStatistic, col drawing.Color, w, h int, value func(analysis.LabelStatistic) float64) image.Image {
	bars := make([]chart.Value, 0, len(rows))
	maxY := 0.0
	for _, st := range rows {
		v := value(st)
		label := string(st.Label)
		if math.IsNaN(v) {
			v = 0
			label += " (NaN)"
		}
		if v > maxY {
			maxY = v
		}
		bars = append(bars, chart.Value{
			Value: v,
			Label: label,
			Style: chart.Style{FillColor: col, StrokeColor: col, StrokeWidth: 1},
		})
	}
	if maxY <= 0 {
		maxY = 1
	}
	_, nMax := niceAxisBounds(0, maxY)
	ticks := barTicks(0, nMax)
	if len(ticks) > 0 {
		nMax = ticks[len(ticks)-1].Value
	}

	slot := float64(w-120) / float64(len(bars))
	barW := int(slot * 0.6)
	if barW < 4 {
		barW = 4
	}
	if barW > 80 {
		barW = 80
	}
	spacing := int(slot) - barW
	if spacing < 2 {
		spacing = 2
	}
	bc := chart.BarChart{
		Title:      title,
		Width:      w,
		Height:     h,
		BarWidth:   barW,
		BarSpacing: spacing,
		Background: chart.Style{Padding: chart.Box{Top: 36, Left: 16, Right: 12, Bottom: 16}},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: nMax},
			Ticks: ticks,
		},
		Bars: bars,
	}
	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		fmt.Printf("[viewer] bar chart render error: %v; showing blank fallback\n", err)
		return blank(w, h)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		fmt.Printf("[viewer] bar chart decode error: %v; showing blank fallback\n", err)
		return blank(w, h)
	}
	return img
}

func barTicks(min, max float64) []chart.Tick {
	vals := uihelpers.BuildNumericTicks(min, max, 6)
	ticks := make([]chart.Tick, 0, len(vals))
	for _, v := range vals {
		ticks = append(ticks, chart.Tick{Value: v, Label: uihelpers.FormatNumericTick(v)})
	}
	return ticks
}

// renderScatter projects every finite joint position of label onto the current view and
// draws one colored point series per joint. The image fully replaces the previous one.
func renderScatter(state *uiState, label recording.Label) image.Image {
	cw, chh := chartSize(state)
	if state == nil || state.result == nil {
		return blank(cw, chh)
	}
	title := fmt.Sprintf("3D Scatter Plot (Label: %s)", label)
	recs, ok := state.result.dataset.Group(label)
	if !ok {
		return drawHint(blank(cw, chh), title+": label not loaded")
	}
	skel := state.result.skel
	remap := state.result.engine.Options().AxisRemap

	var series []chart.Series
	var clouds [][]recording.Point3
	for i := 0; i < skel.Count(); i++ {
		cloud := analysis.JointCloud(recs, i, remap)
		if len(cloud) == 0 {
			continue
		}
		clouds = append(clouds, cloud)
		xs, ys := projectCloud(cloud, state.azimuth, state.elevation)
		if len(xs) == 1 { // go-chart draws nothing useful for a single value; duplicate it
			xs = append(xs, xs[0])
			ys = append(ys, ys[0])
		}
		col := drawing.ColorFromHex(skel.JointColorHex(i)).WithAlpha(180)
		series = append(series, chart.ContinuousSeries{
			Name:    skel.JointName(i),
			Style:   pointStyle(col),
			XValues: xs,
			YValues: ys,
		})
	}
	if len(series) == 0 {
		return drawHint(blank(cw, chh), title+": no finite joint samples")
	}
	series = append(series, axisGuides(clouds, state.azimuth, state.elevation)...)

	minU, maxU, minV, maxV := seriesBounds(series)
	minU, maxU, minV, maxV = equalAspect(minU, maxU, minV, maxV, float64(cw)/float64(chh))
	ch := chart.Chart{
		Title:      title,
		Width:      cw,
		Height:     chh,
		Background: chart.Style{Padding: chart.Box{Top: 36, Left: 16, Right: 12, Bottom: 28}},
		XAxis:      chart.XAxis{Range: &chart.ContinuousRange{Min: minU, Max: maxU}},
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: minV, Max: maxV}},
		Series:     series,
	}
	if state.showLegend {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		fmt.Printf("[viewer] scatter render error: %v; showing blank fallback\n", err)
		return blank(cw, chh)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		fmt.Printf("[viewer] scatter decode error: %v; showing blank fallback\n", err)
		return blank(cw, chh)
	}
	hint := fmt.Sprintf("azimuth %.0f  elevation %.0f", state.azimuth, state.elevation)
	if state.showHints {
		hint += "  |  arrows rotate, N or space for next label"
	}
	return drawHint(img, hint)
}

func projectCloud(cloud []recording.Point3, az, el float64) ([]float64, []float64) {
	xs := make([]float64, len(cloud))
	ys := make([]float64, len(cloud))
	for i, p := range cloud {
		xs[i], ys[i] = uihelpers.Project(p.X, p.Y, p.Z, az, el)
	}
	return xs, ys
}

// axisGuides returns three short line series along +x, +y and +z starting at the
// minimum corner of the clouds, so the projected orientation stays readable.
func axisGuides(clouds [][]recording.Point3, az, el float64) []chart.Series {
	lo := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, c := range clouds {
		for _, p := range c {
			for a := 0; a < 3; a++ {
				lo[a] = math.Min(lo[a], p.Axis(a))
				hi[a] = math.Max(hi[a], p.Axis(a))
			}
		}
	}
	span := math.Max(hi[0]-lo[0], math.Max(hi[1]-lo[1], hi[2]-lo[2]))
	if span <= 0 {
		span = 1
	}
	length := span * 0.25
	var out []chart.Series
	for a, name := range []string{"x", "y", "z"} {
		end := lo
		end[a] += length
		u0, v0 := uihelpers.Project(lo[0], lo[1], lo[2], az, el)
		u1, v1 := uihelpers.Project(end[0], end[1], end[2], az, el)
		out = append(out, chart.ContinuousSeries{
			Name:    name,
			Style:   chart.Style{StrokeWidth: 2, StrokeColor: guideColor},
			XValues: []float64{u0, u1},
			YValues: []float64{v0, v1},
		})
	}
	return out
}

func seriesBounds(series []chart.Series) (minU, maxU, minV, maxV float64) {
	minU, minV = math.MaxFloat64, math.MaxFloat64
	maxU, maxV = -math.MaxFloat64, -math.MaxFloat64
	for _, s := range series {
		cs, ok := s.(chart.ContinuousSeries)
		if !ok {
			continue
		}
		for i := range cs.XValues {
			minU, maxU = math.Min(minU, cs.XValues[i]), math.Max(maxU, cs.XValues[i])
			minV, maxV = math.Min(minV, cs.YValues[i]), math.Max(maxV, cs.YValues[i])
		}
	}
	return minU, maxU, minV, maxV
}

// equalAspect widens the shorter axis so one data unit spans the same pixels on both.
func equalAspect(minU, maxU, minV, maxV, ratio float64) (float64, float64, float64, float64) {
	minU, maxU = niceAxisBounds(minU, maxU)
	minV, maxV = niceAxisBounds(minV, maxV)
	su, sv := maxU-minU, maxV-minV
	if ratio <= 0 {
		ratio = 1
	}
	if su/sv < ratio {
		pad := (sv*ratio - su) / 2
		minU, maxU = minU-pad, maxU+pad
	} else {
		pad := (su/ratio - sv) / 2
		minV, maxV = minV-pad, maxV+pad
	}
	return minU, maxU, minV, maxV
}

// niceAxisBounds expands [min,max] by a small margin and rounds to "nice" numbers for readability.
func niceAxisBounds(min, max float64) (float64, float64) {
	if math.IsNaN(min) || math.IsNaN(max) {
		return min, max
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	pad := span * 0.05
	a := min - pad
	b := max + pad
	mag := math.Pow(10, math.Floor(math.Log10(span)))
	if !math.IsInf(mag, 0) && mag > 0 {
		a = math.Floor(a/mag) * mag
		b = math.Ceil(b/mag) * mag
	}
	return a, b
}

// stackImages draws b under a on a canvas as wide as the wider of the two.
func stackImages(a, b image.Image) image.Image {
	ab, bb := a.Bounds(), b.Bounds()
	w := ab.Dx()
	if bb.Dx() > w {
		w = bb.Dx()
	}
	out := image.NewRGBA(image.Rect(0, 0, w, ab.Dy()+bb.Dy()))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(out, image.Rect(0, 0, ab.Dx(), ab.Dy()), a, ab.Min, draw.Src)
	draw.Draw(out, image.Rect(0, ab.Dy(), bb.Dx(), ab.Dy()+bb.Dy()), b, bb.Min, draw.Src)
	return out
}

func blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 18, G: 18, B: 18, A: 255}), image.Point{}, draw.Src)
	return img
}

// drawHint draws a small hint string onto the provided image near the bottom-left.
func drawHint(img image.Image, text string) image.Image {
	if img == nil || strings.TrimSpace(text) == "" {
		return img
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	pad := 6
	face := basicfont.Face7x13
	textCol := image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	shadowCol := image.NewUniform(color.RGBA{R: 0, G: 0, B: 0, A: 180})
	dr := &font.Drawer{Dst: rgba, Src: textCol, Face: face}
	tw := dr.MeasureString(text).Ceil()
	x := b.Min.X + 8
	y := b.Max.Y - 6
	bg := image.NewUniform(color.RGBA{R: 0, G: 0, B: 0, A: 200})
	rect := image.Rect(x-pad, y-face.Metrics().Ascent.Ceil()-pad, x+tw+pad, y+pad/2)
	draw.Draw(rgba, rect, bg, image.Point{}, draw.Over)
	drShadow := &font.Drawer{Dst: rgba, Src: shadowCol, Face: face, Dot: fixed.Point26_6{X: fixed.I(x + 1), Y: fixed.I(y + 1)}}
	drShadow.DrawString(text)
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
	return rgba
}
