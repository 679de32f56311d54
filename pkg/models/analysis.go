package models

// ImageAnalysis is the description extracted from a model reply.
// Every field is populated, possibly with a default, before it is returned.
type ImageAnalysis struct {
	Title    string   `json:"title"`
	Prompt   string   `json:"prompt"`
	Keywords []string `json:"keywords"`
	Format   string   `json:"format"`
}

// Upload is an image received from a caller. It only lives for the
// duration of one request.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Size returns the number of bytes in the upload.
func (u Upload) Size() int {
	return len(u.Data)
}
