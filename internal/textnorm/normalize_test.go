package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Empty", input: "", expected: ""},
		{name: "Whitespace only", input: " \t\n ", expected: ""},
		{name: "Lowercases", input: "Breaking NEWS", expected: "breaking news"},
		{name: "Strips URLs", input: "see https://example.com/a?b=c and http://x.io now", expected: "see and now"},
		{name: "Strips mentions", input: "thanks /u/someone over in /r/golang", expected: "thanks over in"},
		{name: "Unwraps bold", input: "this is **very** important", expected: "this is very important"},
		{name: "Unwraps italic", input: "an *emphasised* word", expected: "an emphasised word"},
		{name: "Collapses whitespace", input: "a   b\t\tc\n\nd", expected: "a b c d"},
		{name: "Compatibility forms", input: "ｆｕｌｌ width", expected: "full width"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	text := "Check **this** out /r/news https://t.co/abc !!"
	assert.Equal(t, Normalize(text), Normalize(text))
}

func TestStripNonWord(t *testing.T) {
	assert.Equal(t, "ai is here 2024", StripNonWord("AI, is -- here! (2024)"))
	assert.Equal(t, "", StripNonWord("!!! ..."))
	assert.Equal(t, "café déjà vu", StripNonWord("Café: déjà-vu"))
}

func TestIsAlpha(t *testing.T) {
	assert.True(t, IsAlpha("climate"))
	assert.True(t, IsAlpha("café"))
	assert.False(t, IsAlpha("gpt4"))
	assert.False(t, IsAlpha("2024"))
	assert.False(t, IsAlpha(""))
}
