package chart

import (
	"bytes"
	"fmt"
	"image/png"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"stocklens/internal/config"
	"stocklens/internal/timeseries"
)

// lineColors is the ten-color palette cycled across series.
var lineColors = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Plot layout in pixels. The top margin also holds the title, the left
// margin the rotated price label.
const (
	marginLeft   = 78
	marginRight  = 24
	marginTop    = 56
	marginBottom = 58
)

var (
	fontOnce sync.Once
	baseFont *opentype.Font
	fontErr  error
)

// loadFont parses the embedded Go Regular face once
func loadFont() (*opentype.Font, error) {
	fontOnce.Do(func() {
		baseFont, fontErr = opentype.Parse(goregular.TTF)
	})
	return baseFont, fontErr
}

func setFontFace(dc *gg.Context, fnt *opentype.Font, size, dpi float64) {
	if fnt == nil {
		return
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingNone,
	})
	if err == nil {
		dc.SetFontFace(face)
	}
}

// Renderer draws closing-price line charts into PNG files.
type Renderer struct {
	logger *slog.Logger
	cfg    config.ChartConfig
}

// NewRenderer creates a chart renderer from chart configuration.
func NewRenderer(logger *slog.Logger, cfg config.ChartConfig) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{logger: logger, cfg: cfg}
}

// plotLine is one series to draw. Values align with dates; missing values
// break the line into separate segments.
type plotLine struct {
	name   string
	dates  []time.Time
	values []float64
}

type plotSpec struct {
	title      string
	width      int
	height     int
	lines      []plotLine
	withLegend bool
}

// RenderTickerChart draws one ticker's closing prices as downloaded, gaps
// included, and writes the chart to outputPath.
func (r *Renderer) RenderTickerChart(series timeseries.Series, outputPath string) error {
	spec := plotSpec{
		title:  fmt.Sprintf("%s Closing Price", series.Name()),
		width:  r.cfg.Width,
		height: r.cfg.Height,
		lines: []plotLine{{
			name:   fmt.Sprintf("%s Close", series.Name()),
			dates:  series.Dates(),
			values: series.Values(),
		}},
		withLegend: true,
	}
	if err := r.render(spec, outputPath); err != nil {
		return fmt.Errorf("failed to render chart for %s: %w", series.Name(), err)
	}

	r.logger.Info("Chart written",
		slog.String("ticker", series.Name()),
		slog.String("path", outputPath))
	return nil
}

// RenderCombinedChart draws every close column of the cleaned table on one
// set of axes with a legend, and writes the chart to outputPath.
func (r *Renderer) RenderCombinedChart(frame *timeseries.Frame, outputPath string) error {
	dates := frame.Dates()
	lines := make([]plotLine, 0, frame.Width())
	for _, name := range frame.ColumnNames() {
		series, ok := frame.FloatSeries(name)
		if !ok {
			continue
		}
		lines = append(lines, plotLine{name: name, dates: dates, values: series.Values()})
	}

	spec := plotSpec{
		title:      "Closing Price Comparison",
		width:      r.cfg.CombinedWidth,
		height:     r.cfg.CombinedHeight,
		lines:      lines,
		withLegend: true,
	}
	if err := r.render(spec, outputPath); err != nil {
		return fmt.Errorf("failed to render combined chart: %w", err)
	}

	r.logger.Info("Chart written",
		slog.Int("series_count", len(lines)),
		slog.String("path", outputPath))
	return nil
}

func (r *Renderer) render(spec plotSpec, outputPath string) error {
	fnt, err := loadFont()
	if err != nil {
		return fmt.Errorf("failed to load chart font: %w", err)
	}

	dc := gg.NewContext(spec.width, spec.height)
	// set background as white
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	px0 := float64(marginLeft)
	py0 := float64(marginTop)
	px1 := float64(spec.width - marginRight)
	py1 := float64(spec.height - marginBottom)

	// draw title
	dc.SetRGB(0, 0, 0)
	setFontFace(dc, fnt, 17, 72)
	dc.DrawStringAnchored(spec.title, float64(spec.width)/2, py0/2, 0.5, 0.5)

	// shaded plot area with white gridlines
	dc.SetHexColor("#EAEAF2")
	dc.DrawRectangle(px0, py0, px1-px0, py1-py0)
	dc.Fill()

	t0, t1, vmin, vmax := dataBounds(spec.lines)
	sx := func(t time.Time) float64 {
		f := float64(t.Sub(t0)) / float64(t1.Sub(t0))
		return px0 + f*(px1-px0)
	}
	sy := func(v float64) float64 {
		f := (v - vmin) / (vmax - vmin)
		return py1 - f*(py1-py0)
	}

	yTicks, yStep := niceTicks(vmin, vmax, 5)
	xTicks := timeAxisTicks(t0, t1, 6)

	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(1)
	for _, v := range yTicks {
		dc.DrawLine(px0, sy(v), px1, sy(v))
		dc.Stroke()
	}
	for _, tick := range xTicks {
		dc.DrawLine(sx(tick.at), py0, sx(tick.at), py1)
		dc.Stroke()
	}

	// tick labels
	dc.SetRGB(0.15, 0.15, 0.15)
	setFontFace(dc, fnt, 11, 72)
	prec := tickPrecision(yStep)
	for _, v := range yTicks {
		dc.DrawStringAnchored(strconv.FormatFloat(v, 'f', prec, 64), px0-8, sy(v), 1, 0.5)
	}
	for _, tick := range xTicks {
		dc.DrawStringAnchored(tick.label, sx(tick.at), py1+6, 0.5, 0)
	}

	// axis labels
	setFontFace(dc, fnt, 13, 72)
	dc.DrawStringAnchored("Date", (px0+px1)/2, float64(spec.height)-14, 0.5, 0.5)
	dc.Push()
	dc.Translate(18, (py0+py1)/2)
	dc.Rotate(-math.Pi / 2)
	dc.DrawStringAnchored("Price (USD)", 0, 0, 0.5, 0.5)
	dc.Pop()

	// data lines, one color per series
	dc.SetLineWidth(1.8)
	for i, line := range spec.lines {
		dc.SetHexColor(lineColors[i%len(lineColors)])
		drawSegments(dc, line, sx, sy)
	}

	if spec.withLegend && len(spec.lines) > 0 {
		r.drawLegend(dc, fnt, spec.lines, px0, py0)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return fmt.Errorf("failed to encode chart: %w", err)
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	return nil
}

// drawSegments strokes one series, lifting the pen across missing values
func drawSegments(dc *gg.Context, line plotLine, sx func(time.Time) float64, sy func(float64) float64) {
	pen := false
	for i, v := range line.values {
		if math.IsNaN(v) {
			if pen {
				dc.Stroke()
				pen = false
			}
			continue
		}
		x, y := sx(line.dates[i]), sy(v)
		if pen {
			dc.LineTo(x, y)
		} else {
			dc.MoveTo(x, y)
			pen = true
		}
	}
	if pen {
		dc.Stroke()
	}
}

func (r *Renderer) drawLegend(dc *gg.Context, fnt *opentype.Font, lines []plotLine, px0, py0 float64) {
	setFontFace(dc, fnt, 12, 72)

	maxWidth := 0.0
	for _, line := range lines {
		w, _ := dc.MeasureString(line.name)
		maxWidth = max(maxWidth, w)
	}

	const swatch = 22.0
	const pad = 8.0
	const rowHeight = 18.0
	boxX := px0 + 12
	boxY := py0 + 12

	dc.SetRGBA(1, 1, 1, 0.85)
	dc.DrawRectangle(boxX, boxY, swatch+pad*3+maxWidth, rowHeight*float64(len(lines))+pad)
	dc.Fill()

	for i, line := range lines {
		y := boxY + pad/2 + rowHeight*float64(i) + rowHeight/2
		dc.SetHexColor(lineColors[i%len(lineColors)])
		dc.SetLineWidth(2.2)
		dc.DrawLine(boxX+pad, y, boxX+pad+swatch, y)
		dc.Stroke()
		dc.SetRGB(0.1, 0.1, 0.1)
		dc.DrawStringAnchored(line.name, boxX+pad*2+swatch, y, 0, 0.5)
	}
}

// dataBounds finds the drawing window: the full date range of every line
// and the finite value range padded by 5%. Degenerate ranges widen so the
// scale functions stay defined.
func dataBounds(lines []plotLine) (t0, t1 time.Time, vmin, vmax float64) {
	vmin, vmax = math.Inf(1), math.Inf(-1)
	for _, line := range lines {
		for _, d := range line.dates {
			if t0.IsZero() || d.Before(t0) {
				t0 = d
			}
			if t1.IsZero() || d.After(t1) {
				t1 = d
			}
		}
		for _, v := range line.values {
			if !math.IsNaN(v) {
				vmin = min(vmin, v)
				vmax = max(vmax, v)
			}
		}
	}

	if t0.IsZero() {
		t0 = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)
		t1 = t0
	}
	if !t1.After(t0) {
		t1 = t0.AddDate(0, 0, 1)
	}
	if vmin > vmax {
		vmin, vmax = 0, 1
	}
	if vmin == vmax {
		vmin -= 0.5
		vmax += 0.5
	}
	pad := (vmax - vmin) * 0.05
	return t0, t1, vmin - pad, vmax + pad
}

// niceTicks places about n ticks inside [lo, hi] on a 1/2/5 step
func niceTicks(lo, hi float64, n int) ([]float64, float64) {
	raw := (hi - lo) / float64(n)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	var step float64
	switch norm := raw / mag; {
	case norm < 1.5:
		step = mag
	case norm < 3:
		step = 2 * mag
	case norm < 7:
		step = 5 * mag
	default:
		step = 10 * mag
	}

	// The epsilon keeps a tick that lands on hi despite float drift without
	// admitting one past it.
	var ticks []float64
	for v := math.Ceil(lo/step) * step; v <= hi+step*1e-3; v += step {
		ticks = append(ticks, v)
	}
	return ticks, step
}

// timeTick is one x-axis gridline with its label.
type timeTick struct {
	at    time.Time
	label string
}

// timeAxisTicks places up to n date ticks across [t0, t1]. Ranges of three
// months or more tick on month starts labeled like "Jan 2023"; shorter
// ranges spread n full dates evenly.
func timeAxisTicks(t0, t1 time.Time, n int) []timeTick {
	span := t1.Sub(t0)
	if span >= 90*24*time.Hour {
		first := time.Date(t0.Year(), t0.Month(), 1, 0, 0, 0, 0, time.UTC)
		if first.Before(t0) {
			first = first.AddDate(0, 1, 0)
		}
		var months []time.Time
		for t := first; !t.After(t1); t = t.AddDate(0, 1, 0) {
			months = append(months, t)
		}
		step := (len(months) + n - 1) / n
		if step < 1 {
			step = 1
		}
		ticks := make([]timeTick, 0, n)
		for i := 0; i < len(months); i += step {
			ticks = append(ticks, timeTick{at: months[i], label: months[i].Format("Jan 2006")})
		}
		return ticks
	}

	ticks := make([]timeTick, 0, n)
	for i := 0; i < n; i++ {
		f := float64(i) / float64(n-1)
		at := t0.Add(time.Duration(f * float64(span)))
		ticks = append(ticks, timeTick{at: at, label: at.Format(config.DateFormat)})
	}
	return ticks
}

// tickPrecision picks decimals for tick labels from the step size
func tickPrecision(step float64) int {
	switch {
	case step >= 1:
		return 0
	case step >= 0.1:
		return 1
	default:
		return 2
	}
}
