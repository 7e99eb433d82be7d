package postprocess

import "testing"

func TestClean(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "plain translation",
			input:    "Bonjour le monde",
			expected: "Bonjour le monde",
		},
		{
			name:     "surrounding whitespace",
			input:    "  \nBonjour\n  ",
			expected: "Bonjour",
		},
		{
			name:     "think block",
			input:    "<think>The user wants French.</think>Bonjour",
			expected: "Bonjour",
		},
		{
			name:     "unclosed reasoning block",
			input:    "Bonjour<reasoning>checking grammar",
			expected: "Bonjour",
		},
		{
			name:     "translation preamble",
			input:    "Translation: Hola mundo",
			expected: "Hola mundo",
		},
		{
			name:     "chatty preamble",
			input:    "Sure, here is the translation: Hola mundo",
			expected: "Hola mundo",
		},
		{
			name:     "preamble with target language",
			input:    "Here's the translation into Spanish: Hola mundo",
			expected: "Hola mundo",
		},
		{
			name:     "wrapped in double quotes",
			input:    `"مرحبا بالعالم"`,
			expected: "مرحبا بالعالم",
		},
		{
			name:     "wrapped in guillemets",
			input:    "«Bonjour»",
			expected: "Bonjour",
		},
		{
			name:     "mismatched quotes kept",
			input:    `"Bonjour'`,
			expected: `"Bonjour'`,
		},
		{
			name:     "inner quotes kept",
			input:    `Il a dit "bonjour" hier`,
			expected: `Il a dit "bonjour" hier`,
		},
		{
			name:     "special tokens",
			input:    "</s>arb_Arab مرحبا</s>",
			expected: "مرحبا",
		},
		{
			name:     "all phases",
			input:    "<think>hmm</think>Translation: \"Hola\"",
			expected: "Hola",
		},
		{
			name:     "word translation in body kept",
			input:    "La translation: un mot",
			expected: "La translation: un mot",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clean(tt.input)
			if got != tt.expected {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
