// Package parser extracts an image description from a free-text model reply.
//
// The reply is expected to contain numbered lines "1." to "4." holding the
// title, generation prompt, comma separated keywords and format. For each
// marker the first matching line wins; a missing marker yields a default and
// is never an error.
package parser

import (
	"strings"
	"unicode"

	"go-image-describer/pkg/models"
)

const (
	DefaultTitle  = "Untitled"
	DefaultPrompt = "Prompt not available"
)

const (
	titleMarker    = "1."
	promptMarker   = "2."
	keywordsMarker = "3."
	formatMarker   = "4."
)

// Parse turns reply into an ImageAnalysis. fallbackFormat is used when the
// reply names no format, normally the MIME type declared by the upload.
func Parse(reply, fallbackFormat string) models.ImageAnalysis {
	lines := strings.Split(reply, "\n")

	result := models.ImageAnalysis{
		Title:    DefaultTitle,
		Prompt:   DefaultPrompt,
		Keywords: []string{},
		Format:   fallbackFormat,
	}

	if v, ok := find(lines, titleMarker); ok && v != "" {
		result.Title = v
	}
	if v, ok := find(lines, promptMarker); ok && v != "" {
		result.Prompt = v
	}
	if v, ok := find(lines, keywordsMarker); ok {
		result.Keywords = SplitKeywords(v)
	}
	if v, ok := find(lines, formatMarker); ok && v != "" {
		result.Format = v
	}

	return result
}

// SplitKeywords splits a comma separated list and trims every piece.
// Empty pieces are kept, so "a,,b," gives ["a" "" "b" ""].
func SplitKeywords(s string) []string {
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// find returns the text after marker on the first line that starts with it,
// ignoring leading whitespace.
func find(lines []string, marker string) (string, bool) {
	for _, line := range lines {
		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
		if strings.HasPrefix(trimmed, marker) {
			return strings.TrimSpace(trimmed[len(marker):]), true
		}
	}
	return "", false
}
