package termhost

import (
	"testing"

	"github.com/f3rmion/hoverword/internal/dom"
	"github.com/f3rmion/hoverword/internal/resolve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "The cat-sat on the mat\n\tindented line\n日本 words here\n"

func newSample(height int) *Document {
	d := NewDocument(sample)
	d.SetHeight(height)
	return d
}

func TestNewDocument(t *testing.T) {
	d := newSample(10)
	assert.Equal(t, 3, d.Lines())

	pos, ok := d.CaretPositionFromPoint(0, 1)
	require.True(t, ok)
	assert.Equal(t, "    indented line", pos.Node.Data(), "tabs expanded")
}

func TestCaretPositionFromPoint(t *testing.T) {
	d := newSample(10)

	pos, ok := d.CaretPositionFromPoint(4, 0)
	require.True(t, ok)
	assert.Equal(t, dom.TextNode, pos.Node.Type())
	assert.Equal(t, "The cat-sat on the mat", pos.Node.Data())
	assert.Equal(t, 5, pos.Offset, "caret sits after the character under the pointer")

	_, ok = d.CaretPositionFromPoint(40, 0)
	assert.False(t, ok, "past the end of the line")

	_, ok = d.CaretPositionFromPoint(0, 3)
	assert.False(t, ok, "below the last line")

	_, ok = d.CaretPositionFromPoint(-1, 0)
	assert.False(t, ok)

	// "日本" takes four cells; cell 5 is the 'w' of "words".
	pos, ok = d.CaretPositionFromPoint(5, 2)
	require.True(t, ok)
	assert.Equal(t, 4, pos.Offset)
}

func TestResolveOverDocument(t *testing.T) {
	d := newSample(10)
	el := dom.NewElement(d)

	word, ok := resolve.New(resolve.Single, resolve.DefaultMaxWords).Resolve(el, 4, 0)
	require.True(t, ok)
	assert.Equal(t, "cat-sat", word)

	word, ok = resolve.New(resolve.Phrase, resolve.DefaultMaxWords).Resolve(el, 6, 2)
	require.True(t, ok)
	assert.Equal(t, "日本 words", word)
}

func TestScroll(t *testing.T) {
	d := newSample(2)

	assert.False(t, d.Scroll(-1), "already at the top")
	assert.True(t, d.Scroll(5))

	pos, ok := d.CaretPositionFromPoint(0, 0)
	require.True(t, ok)
	assert.Equal(t, "    indented line", pos.Node.Data(), "scroll clamps to the last page")

	_, ok = d.CaretPositionFromPoint(0, 2)
	assert.False(t, ok, "outside the visible rows")
}

func TestSelection(t *testing.T) {
	d := newSample(10)
	assert.Empty(t, d.SelectionText())

	assert.True(t, d.Select(4, 0, 10, 0))
	assert.Equal(t, "cat-sat", d.SelectionText())
	assert.False(t, d.Select(4, 0, 10, 0), "same selection is not a change")

	// Dragging backwards selects the same span.
	assert.True(t, d.Select(10, 0, 4, 0))
	assert.Equal(t, "cat-sat", d.SelectionText())

	// Across lines, running past the end of the first line.
	assert.True(t, d.Select(19, 0, 11, 1))
	assert.Equal(t, "mat\n    indented", d.SelectionText())

	// Below the text clamps to the last line's end.
	assert.True(t, d.Select(0, 2, 50, 9))
	assert.Equal(t, "日本 words here", d.SelectionText())

	assert.True(t, d.ClearSelection())
	assert.False(t, d.ClearSelection())
	assert.Empty(t, d.SelectionText())
}

func TestVisibleRows(t *testing.T) {
	d := newSample(10)
	d.Select(4, 0, 10, 0)

	rows := d.visible()
	require.Len(t, rows, 3)
	assert.Equal(t, visibleLine{before: "The ", selected: "cat-sat", after: " on the mat"}, rows[0])
	assert.Equal(t, visibleLine{before: "    indented line"}, rows[1])
}
