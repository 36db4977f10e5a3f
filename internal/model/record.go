package model

// ImageRecord is produced by the image stage after OCR and consumed by the
// hunting stage. All three fields are always populated; Text may be empty
// but is never a sentinel for "unset".
type ImageRecord struct {
	ID      string
	Content Raster
	Text    string
}

// Result is produced by the hunting stage when a flagger reports a positive
// finding, and handed to the result sink and to the client via the current-
// result slot. It is immutable once created.
type Result struct {
	Author   string
	Details  string
	ImageID  string
	Content  Raster
	Text     string
}

// ContentCopy returns a defensive copy of the result's image content, so the
// caller can freely mutate it without affecting the Result or any other
// caller's copy.
func (r Result) ContentCopy() Raster {
	return r.Content.Copy()
}
