package tui

import (
	"fmt"
	"strings"

	"github.com/1broseidon/tagtile/internal/geom"
	"github.com/1broseidon/tagtile/internal/ipc"
)

func summarizePreview(p *ipc.PreviewData) string {
	if p == nil {
		return ""
	}
	if len(p.Rects) == 0 {
		return "floating • clients keep their own geometry"
	}

	minW, minH := p.Rects[0].Width, p.Rects[0].Height
	maxW, maxH := minW, minH
	for _, r := range p.Rects[1:] {
		minW, maxW = min(minW, r.Width), max(maxW, r.Width)
		minH, maxH = min(minH, r.Height), max(maxH, r.Height)
	}

	var s string
	if minW == maxW && minH == maxH {
		s = fmt.Sprintf("%d clients • %d×%d px each", len(p.Rects), minW, minH)
	} else {
		s = fmt.Sprintf("%d clients • min %d×%d • max %d×%d", len(p.Rects), minW, minH, maxW, maxH)
	}
	if p.Shared > 0 {
		s += fmt.Sprintf(" • %d shared", p.Shared)
	}
	return s
}

// renderASCIIPreview draws the preview rectangles scaled from the usable
// area onto a width×height character canvas.
func renderASCIIPreview(p *ipc.PreviewData, width, height int) []string {
	if p == nil || width < 5 || height < 3 || p.Usable.Empty() {
		return emptyCanvas(width, height)
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	// Later clients draw over earlier ones, so the label of a shared slot
	// is its last member.
	for i, r := range p.Rects {
		r.X -= p.Usable.X
		r.Y -= p.Usable.Y
		drawTile(canvas, r, i+1, p.Usable.Width, p.Usable.Height)
	}
	drawBorder(canvas, width, height)

	lines := make([]string, height)
	for i, row := range canvas {
		lines[i] = string(row)
	}
	return lines
}

func drawTile(canvas [][]rune, r geom.Rect, num, areaW, areaH int) {
	canvasH := len(canvas)
	canvasW := len(canvas[0])

	x1 := r.X * canvasW / areaW
	y1 := r.Y * canvasH / areaH
	x2 := (r.X + r.Width) * canvasW / areaW
	y2 := (r.Y + r.Height) * canvasH / areaH

	x1, y1 = max(x1, 1), max(y1, 1)
	x2, y2 = min(x2, canvasW-2), min(y2, canvasH-2)
	if x2 <= x1 || y2 <= y1 {
		return
	}

	for x := x1; x <= x2; x++ {
		canvas[y1][x] = '─'
		canvas[y2][x] = '─'
	}
	for y := y1; y <= y2; y++ {
		canvas[y][x1] = '│'
		canvas[y][x2] = '│'
	}
	canvas[y1][x1] = '┌'
	canvas[y1][x2] = '┐'
	canvas[y2][x1] = '└'
	canvas[y2][x2] = '┘'

	// Clear the inside so an overdrawn tile does not show through.
	for y := y1 + 1; y < y2; y++ {
		for x := x1 + 1; x < x2; x++ {
			canvas[y][x] = ' '
		}
	}

	centerY := (y1 + y2) / 2
	centerX := (x1 + x2) / 2
	if centerY > y1 && centerY < y2 {
		label := fmt.Sprint(num)
		startX := centerX - len(label)/2
		for i, ch := range label {
			if x := startX + i; x > x1 && x < x2 {
				canvas[centerY][x] = ch
			}
		}
	}
}

func drawBorder(canvas [][]rune, width, height int) {
	for x := 0; x < width; x++ {
		canvas[0][x] = '═'
		canvas[height-1][x] = '═'
	}
	for y := 0; y < height; y++ {
		canvas[y][0] = '║'
		canvas[y][width-1] = '║'
	}
	canvas[0][0] = '╔'
	canvas[0][width-1] = '╗'
	canvas[height-1][0] = '╚'
	canvas[height-1][width-1] = '╝'
}

func emptyCanvas(width, height int) []string {
	if width < 0 || height < 0 {
		return nil
	}
	lines := make([]string, height)
	empty := strings.Repeat(" ", width)
	for i := range lines {
		lines[i] = empty
	}
	return lines
}
