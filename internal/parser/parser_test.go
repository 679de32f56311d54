package parser

import (
	"testing"

	"go-image-describer/pkg/models"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		fallback string
		want     models.ImageAnalysis
	}{
		{
			name: "All four lines in order",
			reply: "1. Sunset over the bay\n" +
				"2. A photo of a sunset over a calm bay, golden hour\n" +
				"3. sunset, bay, water, orange\n" +
				"4. JPEG",
			fallback: "image/jpeg",
			want: models.ImageAnalysis{
				Title:    "Sunset over the bay",
				Prompt:   "A photo of a sunset over a calm bay, golden hour",
				Keywords: []string{"sunset", "bay", "water", "orange"},
				Format:   "JPEG",
			},
		},
		{
			name:     "Missing prompt and format",
			reply:    "1. Sunset\n3. orange, sky, dusk",
			fallback: "image/png",
			want: models.ImageAnalysis{
				Title:    "Sunset",
				Prompt:   DefaultPrompt,
				Keywords: []string{"orange", "sky", "dusk"},
				Format:   "image/png",
			},
		},
		{
			name:     "Empty reply uses every default",
			reply:    "",
			fallback: "image/gif",
			want: models.ImageAnalysis{
				Title:    DefaultTitle,
				Prompt:   DefaultPrompt,
				Keywords: []string{},
				Format:   "image/gif",
			},
		},
		{
			name:     "Preamble and indentation",
			reply:    "Here is the analysis:\n\n   1. Cat on a mat\n\t2. a cat sitting on a mat\n  3. cat, mat\n  4. PNG\n",
			fallback: "image/png",
			want: models.ImageAnalysis{
				Title:    "Cat on a mat",
				Prompt:   "a cat sitting on a mat",
				Keywords: []string{"cat", "mat"},
				Format:   "PNG",
			},
		},
		{
			name:     "First match wins",
			reply:    "1. First\n1. Second\n4. webp\n4. png",
			fallback: "image/webp",
			want: models.ImageAnalysis{
				Title:    "First",
				Prompt:   DefaultPrompt,
				Keywords: []string{},
				Format:   "webp",
			},
		},
		{
			name:     "Out of order lines",
			reply:    "4. GIF\n3. a,b\n2. p\n1. t",
			fallback: "image/gif",
			want: models.ImageAnalysis{
				Title:    "t",
				Prompt:   "p",
				Keywords: []string{"a", "b"},
				Format:   "GIF",
			},
		},
		{
			name:     "Windows line endings",
			reply:    "1. Title\r\n2. Prompt\r\n3. x, y\r\n4. JPEG\r\n",
			fallback: "image/jpeg",
			want: models.ImageAnalysis{
				Title:    "Title",
				Prompt:   "Prompt",
				Keywords: []string{"x", "y"},
				Format:   "JPEG",
			},
		},
		{
			name:     "Empty marker lines fall back",
			reply:    "1.\n2.   \n4.",
			fallback: "image/png",
			want: models.ImageAnalysis{
				Title:    DefaultTitle,
				Prompt:   DefaultPrompt,
				Keywords: []string{},
				Format:   "image/png",
			},
		},
		{
			name:     "Marker without space",
			reply:    "1.Bridge\n3.steel,river",
			fallback: "image/jpeg",
			want: models.ImageAnalysis{
				Title:    "Bridge",
				Prompt:   DefaultPrompt,
				Keywords: []string{"steel", "river"},
				Format:   "image/jpeg",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.reply, tt.fallback)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Idempotent(t *testing.T) {
	reply := "1. A\n2. B\n3. c, d\n4. E"

	first := Parse(reply, "image/png")
	second := Parse(reply, "image/png")

	assert.Equal(t, first, second)
}

func TestParse_OnlyLeadingMarkerIsStripped(t *testing.T) {
	got := Parse("1. Chapter 1. The beginning", "image/png")

	assert.Equal(t, "Chapter 1. The beginning", got.Title)
}

func TestSplitKeywords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"Extra whitespace", "cat, dog,  bird", []string{"cat", "dog", "bird"}},
		{"Trailing comma keeps empty element", "cat, dog,", []string{"cat", "dog", ""}},
		{"Double comma keeps empty element", "cat,,dog", []string{"cat", "", "dog"}},
		{"Empty input", "", []string{""}},
		{"Single keyword", "  sky ", []string{"sky"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitKeywords(tt.input))
		})
	}
}
