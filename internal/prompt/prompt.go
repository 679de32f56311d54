// Package prompt builds the instruction sent to the chat model.
package prompt

import (
	"encoding/base64"
	"strings"
)

const template = `Analyze this image and provide the following information:
  1. A descriptive title for the image
  2. A prompt that could have been used to generate this image (if applicable)
  3. 40 keywords that summarize the content of the image
  4. The format of the image

  Image: `

// Build returns the analysis instruction followed by the base64 encoding of
// image. The whole image is embedded regardless of size.
func Build(image []byte) string {
	var b strings.Builder
	b.Grow(len(template) + base64.StdEncoding.EncodedLen(len(image)))
	b.WriteString(template)
	b.WriteString(base64.StdEncoding.EncodeToString(image))
	return b.String()
}
