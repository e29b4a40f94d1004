package documents

import "errors"

// ErrLoad indicates the source document could not be read or parsed.
var ErrLoad = errors.New("document load failed")

// Segment is a contiguous span of document text with its source page.
// Segments are immutable once the loader returns them.
type Segment struct {
	Index int
	Page  int
	Text  string
}

// Loader parses a source document into an ordered sequence of segments.
type Loader interface {
	Load(filePath string) ([]Segment, error)
}
