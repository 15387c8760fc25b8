package resolve

import (
	"testing"

	"github.com/f3rmion/hoverword/internal/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catText = "The cat-sat on the mat"

// pointDoc places the caret at offset when queried at (1, 1) and reports
// nothing anywhere else.
func pointDoc(node dom.Node, offset int) dom.Document {
	return dom.DocumentFunc(func(x, y float64) (dom.CaretPosition, bool) {
		if x != 1 || y != 1 {
			return dom.CaretPosition{}, false
		}
		return dom.CaretPosition{Node: node, Offset: offset}, true
	})
}

func TestResolveCatSat(t *testing.T) {
	el := dom.NewElement(pointDoc(dom.Text(catText), 6))

	word, ok := New(Single, DefaultMaxWords).Resolve(el, 1, 1)
	require.True(t, ok)
	assert.Equal(t, "cat-sat", word)

	word, ok = New(Phrase, DefaultMaxWords).Resolve(el, 1, 1)
	require.True(t, ok)
	assert.Equal(t, "The cat-sat", word)
}

func TestResolveText(t *testing.T) {
	tests := []struct {
		name     string
		variant  Variant
		maxWords int
		text     string
		offset   int
		want     string
		ok       bool
	}{
		{"start of text", Single, 5, catText, 0, "The", true},
		{"offset at token end belongs to that token", Single, 5, catText, 3, "The", true},
		{"caret on a separator", Single, 5, catText, 4, " ", true},
		{"last word", Single, 5, catText, 22, "mat", true},
		{"past the end", Single, 5, catText, 23, "", false},
		{"negative offset", Single, 5, catText, -1, "", false},
		{"empty text", Phrase, 5, "", 0, "", false},
		{"phrase from the start", Phrase, 5, catText, 0, "The", true},
		{"phrase keeps all words when under the bound", Phrase, 5, catText, 22, "The cat-sat on the mat", true},
		{"phrase bounded to five words", Phrase, 5, "a b c d e f g", 13, "c d e f g", true},
		{"phrase bounded to two words", Phrase, 2, "one two three", 13, "two three", true},
		{"zero bound falls back to default", Phrase, 0, "a b c d e f g", 13, "c d e f g", true},
		{"whitespace collapsed", Phrase, 5, "look \n\t up", 10, "look up", true},
		{"leading separator kept at text start", Phrase, 5, "  hello", 7, " hello", true},
		{"phrase on a separator ends at the word before it", Phrase, 5, "alpha beta", 6, "alpha", true},
		{"phrase on a separator after several words", Phrase, 5, catText, 12, "The cat-sat", true},
		{"phrase on a leading separator", Phrase, 5, "  hello", 1, " ", true},
		{"offsets count runes", Single, 5, "日本 cat", 4, "cat", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := New(tt.variant, tt.maxWords).ResolveText(tt.text, tt.offset)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveMisses(t *testing.T) {
	r := Resolver{}

	_, ok := r.Resolve(nil, 1, 1)
	assert.False(t, ok, "nil element")

	_, ok = r.Resolve(dom.NewElement(nil), 1, 1)
	assert.False(t, ok, "element without a document")

	_, ok = r.Resolve(dom.NewElement(pointDoc(dom.Text(catText), 6)), 5, 5)
	assert.False(t, ok, "no caret under the point")

	elementDoc := dom.DocumentFunc(func(x, y float64) (dom.CaretPosition, bool) {
		return dom.CaretPosition{Node: dom.NewElement(nil), Offset: 0}, true
	})
	_, ok = r.Resolve(dom.NewElement(elementDoc), 1, 1)
	assert.False(t, ok, "caret inside an element node")
}

func TestResolveIsIdempotent(t *testing.T) {
	el := dom.NewElement(pointDoc(dom.Text(catText), 13))
	r := Resolver{}

	first, ok1 := r.Resolve(el, 1, 1)
	second, ok2 := r.Resolve(el, 1, 1)
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, first, second)
	assert.Equal(t, "The cat-sat on", first)
}

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant("Single")
	require.NoError(t, err)
	assert.Equal(t, Single, v)

	v, err = ParseVariant("")
	require.NoError(t, err)
	assert.Equal(t, Phrase, v)

	_, err = ParseVariant("sentence")
	assert.Error(t, err)
}
