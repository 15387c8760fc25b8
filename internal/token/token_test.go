package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{
			name:  "empty",
			input: "",
			want:  []Token{},
		},
		{
			name:  "single word",
			input: "hello",
			want:  []Token{{Text: "hello", Class: Word}},
		},
		{
			name:  "hyphen and apostrophe stay in the word",
			input: "don't cat-sat",
			want: []Token{
				{Text: "don't", Class: Word},
				{Text: " ", Class: NonWord},
				{Text: "cat-sat", Class: Word},
			},
		},
		{
			name:  "hash tag",
			input: "see #golang.",
			want: []Token{
				{Text: "see", Class: Word},
				{Text: " ", Class: NonWord},
				{Text: "#golang", Class: Word},
				{Text: ".", Class: NonWord},
			},
		},
		{
			name:  "leading punctuation and digits",
			input: "  42, apples",
			want: []Token{
				{Text: "  42, ", Class: NonWord},
				{Text: "apples", Class: Word},
			},
		},
		{
			name:  "non-ascii letters are non-word",
			input: "café",
			want: []Token{
				{Text: "caf", Class: Word},
				{Text: "é", Class: NonWord},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.input))
		})
	}
}

func TestTokenizeInvariants(t *testing.T) {
	inputs := []string{
		"The cat-sat on the mat",
		"  leading and trailing  ",
		"a",
		"!!!",
		"multi\n\tline\r\ntext--with''marks##",
		"日本語 mixed with English",
		"bad \xff\xfe utf8 bytes",
		strings.Repeat("ab cd ", 50),
	}

	for _, in := range inputs {
		tokens := Tokenize(in)

		var sb strings.Builder
		for i, tok := range tokens {
			require.NotEmpty(t, tok.Text, "empty token in %q", in)
			if i > 0 {
				require.NotEqual(t, tokens[i-1].Class, tok.Class, "adjacent tokens share a class in %q", in)
			}
			require.Equal(t, tok.IsWord(), HasWordChar(tok.Text), "token %q misclassified", tok.Text)
			sb.WriteString(tok.Text)
		}
		assert.Equal(t, in, sb.String())
	}
}

func TestHasWordChar(t *testing.T) {
	assert.False(t, HasWordChar(""))
	assert.False(t, HasWordChar("   "))
	assert.False(t, HasWordChar("123 ,."))
	assert.True(t, HasWordChar("-"))
	assert.True(t, HasWordChar("#"))
	assert.True(t, HasWordChar(" 1 a "))
}

func TestTokenLen(t *testing.T) {
	assert.Equal(t, 4, Token{Text: "café"}.Len())
	assert.Equal(t, 0, Token{}.Len())
}
