package tui

import (
	"strings"

	"github.com/paulmach/orb"

	"sagamino/internal/render"
)

// dash length in micro pixels for triangulation edges
const edgeDash = 3

type cell struct {
	r     rune
	color string
	dim   bool
}

// cellToLonLat converts a map cell coordinate back to lon/lat using the viewport, zoom, and pan.
func (m Model) cellToLonLat(cx, cy, w, h int) (orb.Point, bool) {
	b := m.view
	if !(b.Max[0] > b.Min[0] && b.Max[1] > b.Min[1]) || w <= 1 || h <= 1 {
		return orb.Point{}, false
	}
	zx := float64(cx-m.offsetX) / float64(w-1)
	zy := 1.0 - float64(cy-m.offsetY)/float64(h-1)
	nx := 0.5 + (zx-0.5)/m.zoom
	ny := 0.5 + (zy-0.5)/m.zoom
	return orb.Point{
		b.Min[0] + nx*(b.Max[0]-b.Min[0]),
		b.Min[1] + ny*(b.Max[1]-b.Min[1]),
	}, true
}

// screenXYMicro maps lon/lat into a 2x4 microgrid per cell for braille rendering.
func (m Model) screenXYMicro(p orb.Point, w, h int) (int, int, bool) {
	b := m.view
	if !(b.Max[0] > b.Min[0] && b.Max[1] > b.Min[1]) {
		return 0, 0, false
	}
	nx := (p[0] - b.Min[0]) / (b.Max[0] - b.Min[0])
	ny := (p[1] - b.Min[1]) / (b.Max[1] - b.Min[1])
	zx := 0.5 + (nx-0.5)*m.zoom
	zy := 0.5 + (ny-0.5)*m.zoom
	sx := int(zx*float64(w*2-1)) + m.offsetX*2
	sy := int((1.0-zy)*float64(h*4-1)) + m.offsetY*4
	return sx, sy, true
}

func (m Model) screenXY(p orb.Point, w, h int) (int, int, bool) {
	mx, my, ok := m.screenXYMicro(p, w, h)
	if !ok {
		return 0, 0, false
	}
	return mx / 2, my / 4, true
}

// renderMap draws each source on its own braille layer. Later sources in
// render.SourceIDs cover earlier ones; markers sit on top.
func (m Model) renderMap(w, h int) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	grid := make([][]cell, h)
	for y := range grid {
		grid[y] = make([]cell, w)
		for x := range grid[y] {
			grid[y][x] = cell{r: ' '}
		}
	}

	for _, id := range render.SourceIDs {
		dash := edgeDash
		if id == render.BaselineSource || id == render.MeasuredBaselineSource {
			dash = 0
		}
		br := newBrailleBuf(w, h)
		for _, ls := range m.src.Lines(id) {
			m.drawLineString(br, ls, w, h, dash)
		}
		color := render.SourceColor(id)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if !br.empty(x, y) {
					grid[y][x] = cell{r: br.glyph(x, y), color: color}
				}
			}
		}
	}

	stage := m.ctrl.Snapshot().Stage
	for _, mk := range m.src.Markers() {
		x, y, ok := m.screenXY(mk.Coordinates, w, h)
		if !ok || x < 0 || y < 0 || x >= w || y >= h {
			continue
		}
		grid[y][x] = cell{r: '●', color: mk.Color, dim: mk.Stage > stage}
	}

	if m.hovering && m.hoverName != "" {
		if mk, ok := m.src.Marker(m.hoverName); ok {
			if x, y, ok := m.screenXY(mk.Coordinates, w, h); ok && x >= 0 && y >= 0 && x < w && y < h {
				grid[y][x] = cell{r: '◯', color: string(hoverFg)}
			}
		}
	}

	lines := make([]string, h)
	for y, row := range grid {
		lines[y] = renderRow(row)
	}
	return strings.Join(lines, "\n")
}

func (m Model) drawLineString(br *brailleBuf, ls orb.LineString, w, h, dash int) {
	var prev [2]int
	have := false
	for _, p := range ls {
		mx, my, ok := m.screenXYMicro(p, w, h)
		if !ok {
			continue
		}
		if have {
			br.drawLine(prev[0], prev[1], mx, my, dash)
		} else {
			br.setPixel(mx, my)
		}
		prev = [2]int{mx, my}
		have = true
	}
}

// renderRow styles runs of cells sharing a color in one lipgloss call.
func renderRow(row []cell) string {
	var sb strings.Builder
	start := 0
	for i := 1; i <= len(row); i++ {
		if i < len(row) && row[i].color == row[start].color && row[i].dim == row[start].dim {
			continue
		}
		var run strings.Builder
		for _, c := range row[start:i] {
			run.WriteRune(c.r)
		}
		switch {
		case row[start].dim:
			sb.WriteString(dimStyle.Render(run.String()))
		case row[start].color != "":
			sb.WriteString(colorStyle(row[start].color).Render(run.String()))
		default:
			sb.WriteString(run.String())
		}
		start = i
	}
	return sb.String()
}

// nearestMarker returns the marker closest to a map cell within radius cells.
func (m Model) nearestMarker(cx, cy, w, h, radius int) (render.Marker, bool) {
	best := radius*radius + 1
	var found render.Marker
	ok := false
	for _, mk := range m.src.Markers() {
		x, y, inView := m.screenXY(mk.Coordinates, w, h)
		if !inView {
			continue
		}
		dx, dy := x-cx, (y-cy)*2 // cells are about twice as tall as wide
		if d := dx*dx + dy*dy; d < best {
			best = d
			found = mk
			ok = true
		}
	}
	return found, ok
}
