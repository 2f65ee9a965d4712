package stats

import (
	"fmt"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"

	"cartlab/internal/model"
)

// Graph describes one rendered time series with its overlay annotations.
type Graph struct {
	Title     string
	Unit      string
	Times     []float64
	Values    []float64
	Motion    *model.Interval
	Selection *model.Interval
	CursorS   *float64
	Focused   bool
}

// AxisWidth is the left margin, in cells, before the first plot column.
const AxisWidth = axisLabelWidth + 3

const (
	defaultPlotHeight   = 8
	minPlotWidth        = 10
	axisLabelWidth      = 7
	axisSeparator       = " │ "
	terminalWidthBackup = 80
	colorReset          = "\x1b[0m"
	colorSeries         = "\x1b[36m"
	colorSelection      = "\x1b[33m"
	colorHandle         = "\x1b[93m"
	colorMotion         = "\x1b[90m"
	colorCursor         = "\x1b[35m"
)

// PlotWidthFor computes the braille column count that fits a total width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	width := totalWidth - axisLabelWidth - utf8.RuneCountInString(axisSeparator)
	if width < minPlotWidth {
		width = minPlotWidth
	}
	return width
}

// TimeAtColumn maps a plot column to its time coordinate.
func TimeAtColumn(domainStart, domainEnd float64, col, width int) float64 {
	if width <= 0 {
		return domainStart
	}
	frac := (float64(col) + 0.5) / float64(width)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return domainStart + frac*(domainEnd-domainStart)
}

// ColumnAtTime maps a time coordinate to its plot column.
func ColumnAtTime(domainStart, domainEnd, t float64, width int) int {
	span := domainEnd - domainStart
	if width <= 0 || span <= 0 {
		return 0
	}
	col := int(math.Floor((t - domainStart) / span * float64(width)))
	if col < 0 {
		col = 0
	}
	if col >= width {
		col = width - 1
	}
	return col
}

// ColumnTimeSpan is the width of one plot column in seconds.
func ColumnTimeSpan(domainStart, domainEnd float64, width int) float64 {
	if width <= 0 {
		return 0
	}
	return (domainEnd - domainStart) / float64(width)
}

// Render draws the graph as a multi-line string. Overlay precedence per
// column, highest first: selection handles, playback cursor, selection band,
// motion window edges, the series line.
func (g Graph) Render(width, height int, useColor bool) string {
	if len(g.Times) == 0 || len(g.Values) == 0 {
		return g.renderHeader(width) + "\n(no data)\n"
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(autoTotalWidth())
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	t0 := g.Times[0]
	t1 := g.Times[len(g.Times)-1]
	resampled := resampleSeries(g.Times, g.Values, t0, t1, width)
	minVal, maxVal := seriesMinMax(g.Values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		minVal--
		maxVal++
	}

	cells := makeCells(height, width)
	prevX, prevY := -1, -1
	for x, v := range resampled {
		row := valueToRow(v, minVal, maxVal, height*4)
		px, py := x*2, row
		if prevX >= 0 {
			drawLine(prevX, prevY, px, py, func(dx, dy int) {
				setBrailleDot(cells, dx, dy)
			})
		} else {
			setBrailleDot(cells, px, py)
		}
		prevX, prevY = px, py
	}

	overlay := g.buildOverlay(t0, t1, width)

	var b strings.Builder
	b.WriteString(g.renderHeader(width))
	b.WriteByte('\n')
	labels := makeAxisLabels(minVal, maxVal, height)
	for y := 0; y < height; y++ {
		b.WriteString(fmt.Sprintf("%*s%s", axisLabelWidth, labels[y], axisSeparator))
		for x := 0; x < width; x++ {
			ch := brailleFromMask(cells[y][x])
			color := colorSeries
			switch overlay[x] {
			case overlayHandle:
				ch, color = '┃', colorHandle
			case overlayCursor:
				ch, color = '│', colorCursor
			case overlaySelection:
				if cells[y][x] == 0 {
					ch = '·'
				}
				color = colorSelection
			case overlayMotion:
				if cells[y][x] == 0 {
					ch = '╎'
				}
				color = colorMotion
			default:
				if cells[y][x] == 0 {
					ch = ' '
				}
			}
			if useColor && ch != ' ' {
				b.WriteString(color)
				b.WriteRune(ch)
				b.WriteString(colorReset)
			} else {
				b.WriteRune(ch)
			}
		}
		b.WriteByte('\n')
	}
	b.WriteString(renderTimeAxis(t0, t1, width))
	b.WriteByte('\n')
	return b.String()
}

type overlayKind uint8

const (
	overlayNone overlayKind = iota
	overlayMotion
	overlaySelection
	overlayCursor
	overlayHandle
)

func (g Graph) buildOverlay(t0, t1 float64, width int) []overlayKind {
	overlay := make([]overlayKind, width)
	if g.Motion != nil {
		m := g.Motion.Normalized()
		overlay[ColumnAtTime(t0, t1, m.StartS, width)] = overlayMotion
		overlay[ColumnAtTime(t0, t1, m.EndS, width)] = overlayMotion
	}
	if g.Selection != nil {
		sel := g.Selection.Normalized()
		from := ColumnAtTime(t0, t1, sel.StartS, width)
		to := ColumnAtTime(t0, t1, sel.EndS, width)
		for x := from; x <= to && x < width; x++ {
			overlay[x] = overlaySelection
		}
	}
	if g.CursorS != nil {
		overlay[ColumnAtTime(t0, t1, *g.CursorS, width)] = overlayCursor
	}
	if g.Selection != nil {
		sel := g.Selection.Normalized()
		overlay[ColumnAtTime(t0, t1, sel.StartS, width)] = overlayHandle
		overlay[ColumnAtTime(t0, t1, sel.EndS, width)] = overlayHandle
	}
	return overlay
}

func (g Graph) renderHeader(width int) string {
	title := g.Title
	if g.Unit != "" {
		title += " (" + g.Unit + ")"
	}
	if g.Focused {
		title = "▸ " + title
	} else {
		title = "  " + title
	}
	if g.Selection != nil {
		sel := g.Selection.Normalized()
		title += fmt.Sprintf("  [%.2f s – %.2f s]", sel.StartS, sel.EndS)
	}
	return title
}

func renderTimeAxis(t0, t1 float64, width int) string {
	left := fmt.Sprintf("%.1f s", t0)
	right := fmt.Sprintf("%.1f s", t1)
	pad := width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if pad < 1 {
		pad = 1
	}
	prefix := strings.Repeat(" ", axisLabelWidth+utf8.RuneCountInString(axisSeparator))
	return prefix + left + strings.Repeat(" ", pad) + right
}

func makeAxisLabels(minVal, maxVal float64, height int) []string {
	labels := make([]string, height)
	if height <= 0 {
		return labels
	}
	labels[0] = fmt.Sprintf("%.2f", maxVal)
	if height > 2 {
		labels[height/2] = fmt.Sprintf("%.2f", (minVal+maxVal)/2)
	}
	if height > 1 {
		labels[height-1] = fmt.Sprintf("%.2f", minVal)
	}
	return labels
}

// resampleSeries buckets samples into plot columns by time and averages each
// bucket; empty buckets interpolate from their neighbours.
func resampleSeries(times, values []float64, t0, t1 float64, width int) []float64 {
	out := make([]float64, width)
	counts := make([]int, width)
	for i, t := range times {
		col := ColumnAtTime(t0, t1, t, width)
		out[col] += values[i]
		counts[col]++
	}
	lastFilled := -1
	for x := 0; x < width; x++ {
		if counts[x] > 0 {
			out[x] /= float64(counts[x])
			if lastFilled >= 0 && lastFilled < x-1 {
				fillGap(out, lastFilled, x)
			}
			lastFilled = x
		}
	}
	if lastFilled >= 0 && lastFilled < width-1 {
		for x := lastFilled + 1; x < width; x++ {
			out[x] = out[lastFilled]
		}
	}
	return out
}

func fillGap(out []float64, from, to int) {
	span := float64(to - from)
	for x := from + 1; x < to; x++ {
		frac := float64(x-from) / span
		out[x] = out[from]*(1-frac) + out[to]*frac
	}
}

func seriesMinMax(values []float64) (float64, float64) {
	minVal := math.Inf(1)
	maxVal := math.Inf(-1)
	for _, v := range values {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if minVal == math.Inf(1) {
		minVal = 0
	}
	if maxVal == math.Inf(-1) {
		maxVal = 0
	}
	return minVal, maxVal
}

func valueToRow(v, minVal, maxVal float64, height int) int {
	if height <= 1 {
		return 0
	}
	pos := (v - minVal) / (maxVal - minVal)
	row := int(math.Round((1 - pos) * float64(height-1)))
	if row < 0 {
		row = 0
	}
	if row >= height {
		row = height - 1
	}
	return row
}

func autoTotalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// ShouldUseColor reports whether ANSI color output is appropriate for a file.
func ShouldUseColor(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func makeCells(height, width int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := 0; y < height; y++ {
		cells[y] = make([]uint8, width)
	}
	return cells
}

func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := int(math.Abs(float64(x1 - x0)))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -int(math.Abs(float64(y1 - y0)))
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			if x0 == x1 {
				break
			}
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			if y0 == y1 {
				break
			}
			err += dx
			y0 += sy
		}
	}
}

func setBrailleDot(cells [][]uint8, x, y int) {
	if y < 0 || x < 0 {
		return
	}
	cellY := y / 4
	cellX := x / 2
	if cellY < 0 || cellY >= len(cells) {
		return
	}
	if cellX < 0 || cellX >= len(cells[cellY]) {
		return
	}
	cells[cellY][cellX] |= brailleDotMask(x%2, y%4)
}

func brailleDotMask(x, y int) uint8 {
	switch {
	case x == 0 && y == 0:
		return 0x01
	case x == 0 && y == 1:
		return 0x02
	case x == 0 && y == 2:
		return 0x04
	case x == 0 && y == 3:
		return 0x40
	case x == 1 && y == 0:
		return 0x08
	case x == 1 && y == 1:
		return 0x10
	case x == 1 && y == 2:
		return 0x20
	case x == 1 && y == 3:
		return 0x80
	default:
		return 0
	}
}

func brailleFromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}
