package termhost

import (
	"strings"
	"sync"

	"github.com/f3rmion/hoverword/internal/dom"
	"github.com/mattn/go-runewidth"
)

const tabWidth = 4

// position is a rune index within a line.
type position struct {
	row, col int
}

func (p position) before(q position) bool {
	return p.row < q.row || (p.row == q.row && p.col < q.col)
}

// Document is a scrollable plain-text document laid out on a terminal grid.
// Every line is a separate text node. Screen coordinates are relative to the
// text area's top-left cell. It is safe for concurrent use.
type Document struct {
	mu     sync.RWMutex
	lines  []string
	top    int // First visible line
	height int // Visible rows

	selecting bool
	anchor    position
	head      position
}

var _ dom.Document = (*Document)(nil)

// NewDocument lays out text, one line per row. Tabs are expanded to spaces.
func NewDocument(text string) *Document {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\t", strings.Repeat(" ", tabWidth))

	return &Document{
		lines:  strings.Split(strings.TrimSuffix(text, "\n"), "\n"),
		height: 1,
	}
}

// Lines returns the number of lines.
func (d *Document) Lines() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.lines)
}

// SetHeight sets the number of visible rows.
func (d *Document) SetHeight(h int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if h < 1 {
		h = 1
	}
	d.height = h
	d.top = d.clampTop(d.top)
}

// Scroll moves the view by delta lines and reports whether it moved.
func (d *Document) Scroll(delta int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	top := d.clampTop(d.top + delta)
	moved := top != d.top
	d.top = top
	return moved
}

func (d *Document) clampTop(top int) int {
	maxTop := len(d.lines) - d.height
	if top > maxTop {
		top = maxTop
	}
	if top < 0 {
		top = 0
	}
	return top
}

// CaretPositionFromPoint returns the caret just after the character under
// the cell (x, y). Cells past the end of a line or outside the text area hold
// no caret.
func (d *Document) CaretPositionFromPoint(x, y float64) (dom.CaretPosition, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	p, ok := d.locate(int(x), int(y), false)
	if !ok {
		return dom.CaretPosition{}, false
	}
	return dom.CaretPosition{Node: dom.Text(d.lines[p.row]), Offset: p.col + 1}, true
}

// locate maps a cell to a rune position. With clamp set, cells past the end
// of a line map to the line end and rows outside the view are clamped.
func (d *Document) locate(x, y int, clamp bool) (position, bool) {
	if len(d.lines) == 0 {
		return position{}, false
	}

	if y < 0 || y >= d.height {
		if !clamp {
			return position{}, false
		}
		y = max(0, min(y, d.height-1))
	}
	row := d.top + y
	if row >= len(d.lines) {
		if !clamp {
			return position{}, false
		}
		row = len(d.lines) - 1
	}
	if x < 0 {
		if !clamp {
			return position{}, false
		}
		x = 0
	}

	col, ok := runeAtCell(d.lines[row], x)
	if !ok {
		if !clamp {
			return position{}, false
		}
		col = len([]rune(d.lines[row]))
	}
	return position{row: row, col: col}, true
}

// runeAtCell returns the index of the rune occupying terminal column x.
func runeAtCell(line string, x int) (int, bool) {
	cell := 0
	i := 0
	for _, r := range line {
		w := runewidth.RuneWidth(r)
		if x < cell+w {
			return i, true
		}
		cell += w
		i++
	}
	return 0, false
}

// Select sets the selection from the cell (x0, y0) to the cell (x1, y1),
// inclusive, and reports whether it changed.
func (d *Document) Select(x0, y0, x1, y1 int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	anchor, ok := d.locate(x0, y0, true)
	if !ok {
		return false
	}
	head, _ := d.locate(x1, y1, true)

	changed := !d.selecting || anchor != d.anchor || head != d.head
	d.selecting = true
	d.anchor = anchor
	d.head = head
	return changed
}

// ClearSelection drops the selection and reports whether there was one.
func (d *Document) ClearSelection() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	had := d.selecting
	d.selecting = false
	return had
}

// selectionRange returns the ordered selection bounds; end is exclusive.
func (d *Document) selectionRange() (start, end position, ok bool) {
	if !d.selecting {
		return position{}, position{}, false
	}
	start, end = d.anchor, d.head
	if end.before(start) {
		start, end = end, start
	}
	end.col++
	return start, end, true
}

// SelectionText returns the selected text with lines joined by newlines.
func (d *Document) SelectionText() string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	start, end, ok := d.selectionRange()
	if !ok {
		return ""
	}

	var parts []string
	for row := start.row; row <= end.row; row++ {
		line := []rune(d.lines[row])
		from, to := 0, len(line)
		if row == start.row {
			from = min(start.col, len(line))
		}
		if row == end.row {
			to = min(end.col, len(line))
		}
		if from > to {
			from = to
		}
		parts = append(parts, string(line[from:to]))
	}
	return strings.Join(parts, "\n")
}

// visibleLine is a rendered row: the line text split around its selected part.
type visibleLine struct {
	before, selected, after string
}

// visible returns the rows currently in view.
func (d *Document) visible() []visibleLine {
	d.mu.RLock()
	defer d.mu.RUnlock()

	start, end, hasSel := d.selectionRange()

	var rows []visibleLine
	for row := d.top; row < len(d.lines) && row < d.top+d.height; row++ {
		line := []rune(d.lines[row])
		if !hasSel || row < start.row || row > end.row {
			rows = append(rows, visibleLine{before: string(line)})
			continue
		}

		from, to := 0, len(line)
		if row == start.row {
			from = min(start.col, len(line))
		}
		if row == end.row {
			to = min(end.col, len(line))
		}
		if from > to {
			from = to
		}
		rows = append(rows, visibleLine{
			before:   string(line[:from]),
			selected: string(line[from:to]),
			after:    string(line[to:]),
		})
	}
	return rows
}
