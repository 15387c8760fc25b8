// Package token splits text into alternating word and non-word runs.
package token

import (
	"strings"
	"unicode/utf8"
)

// WordChars lists the characters that make up a word: ASCII letters plus the
// hyphen, apostrophe and hash, so "cat-sat", "don't" and "#tag" stay intact.
const WordChars = "a-zA-Z-'#"

// Class tells whether a token is made of word characters or not.
type Class int

const (
	NonWord Class = iota // Whitespace, punctuation, digits, everything else
	Word                 // Runs of WordChars
)

// String returns the class name.
func (c Class) String() string {
	if c == Word {
		return "word"
	}
	return "non-word"
}

// Token is a maximal run of characters of a single class.
type Token struct {
	Text  string
	Class Class
}

// Len returns the token length in runes.
func (t Token) Len() int {
	return utf8.RuneCountInString(t.Text)
}

// IsWord reports whether the token is a word run.
func (t Token) IsWord() bool {
	return t.Class == Word
}

// IsWordRune reports whether r belongs to the word-character class.
func IsWordRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	case r == '-', r == '\'', r == '#':
		return true
	}
	return false
}

// HasWordChar reports whether s contains at least one word character.
// An empty string never does.
func HasWordChar(s string) bool {
	return strings.IndexFunc(s, IsWordRune) >= 0
}

// Tokenize splits s into maximal runs of word and non-word characters.
// Concatenating the Text of the result yields s again; bytes that are not
// valid UTF-8 are kept as non-word content.
func Tokenize(s string) []Token {
	if s == "" {
		return []Token{}
	}

	var tokens []Token
	start := 0
	current := classOf(s)

	for i, r := range s {
		c := NonWord
		if IsWordRune(r) {
			c = Word
		}
		if c != current {
			tokens = append(tokens, Token{Text: s[start:i], Class: current})
			start = i
			current = c
		}
	}
	tokens = append(tokens, Token{Text: s[start:], Class: current})

	return tokens
}

// classOf returns the class of the first rune in s.
func classOf(s string) Class {
	r, _ := utf8.DecodeRuneInString(s)
	if IsWordRune(r) {
		return Word
	}
	return NonWord
}
