// Package resolve extracts the word (or short phrase) under a caret position.
package resolve

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/f3rmion/hoverword/internal/dom"
	"github.com/f3rmion/hoverword/internal/token"
)

// DefaultMaxWords bounds how many word tokens a phrase may contain.
const DefaultMaxWords = 5

// Variant selects how much text around the caret is extracted.
type Variant int

const (
	Phrase Variant = iota // Up to MaxWords words ending at the caret's token
	Single                // Only the token under the caret
)

// String returns the variant's config name.
func (v Variant) String() string {
	switch v {
	case Single:
		return "single"
	default:
		return "phrase"
	}
}

// ParseVariant parses a config name into a Variant.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "phrase":
		return Phrase, nil
	case "single":
		return Single, nil
	}
	return Phrase, fmt.Errorf("unknown variant %q (want phrase or single)", s)
}

// Resolver finds the word under a point in a document. The zero value
// resolves phrases of up to DefaultMaxWords words.
type Resolver struct {
	Variant  Variant
	MaxWords int
}

// New returns a resolver for the given variant and word bound.
func New(v Variant, maxWords int) Resolver {
	return Resolver{Variant: v, MaxWords: maxWords}
}

// Resolve maps (x, y) in el's document to a text position and extracts the
// word there. It reports false when the point is not over a text node or no
// token covers the caret offset. The document is only read.
func (r Resolver) Resolve(el dom.Element, x, y float64) (string, bool) {
	if el == nil {
		return "", false
	}
	doc := el.OwnerDocument()
	if doc == nil {
		return "", false
	}

	pos, ok := doc.CaretPositionFromPoint(x, y)
	if !ok || pos.Node == nil || pos.Node.Type() != dom.TextNode {
		return "", false
	}

	return r.ResolveText(pos.Node.Data(), pos.Offset)
}

// ResolveText extracts the word at a rune offset within text.
func (r Resolver) ResolveText(text string, offset int) (string, bool) {
	if offset < 0 {
		return "", false
	}

	tokens := token.Tokenize(text)

	// The caret belongs to the first token whose end reaches the offset.
	cursor := -1
	count := 0
	for i, tok := range tokens {
		count += tok.Len()
		if offset <= count {
			cursor = i
			break
		}
	}
	if cursor < 0 {
		return "", false
	}

	start, end := cursor, cursor
	if r.Variant == Phrase {
		// A phrase ends on a word; a caret on a separator belongs to the
		// word before it.
		if end > 0 && !tokens[end].IsWord() {
			end--
		}
		start = r.phraseStart(tokens, end)
	}

	var sb strings.Builder
	for _, tok := range tokens[start : end+1] {
		sb.WriteString(tok.Text)
	}

	return collapseSpace(sb.String()), true
}

// phraseStart walks back from the caret token, keeping at most MaxWords word
// tokens and the non-word tokens between them.
func (r Resolver) phraseStart(tokens []token.Token, cursor int) int {
	limit := r.MaxWords
	if limit <= 0 {
		limit = DefaultMaxWords
	}

	words := 0
	if tokens[cursor].IsWord() {
		words = 1
	}

	start := cursor
	for i := cursor - 1; i >= 0; i-- {
		if tokens[i].IsWord() {
			if words == limit {
				break
			}
			words++
		}
		start = i
	}

	// A separator left dangling by the word bound is not part of the phrase.
	if start > 0 && start < cursor && !tokens[start].IsWord() {
		start++
	}

	return start
}

// collapseSpace replaces every run of whitespace with a single space.
func collapseSpace(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				sb.WriteByte(' ')
			}
			inSpace = true
			continue
		}
		inSpace = false
		sb.WriteRune(r)
	}

	return sb.String()
}
