package documents

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// FitzLoader parses page-oriented documents (PDF, EPUB) using go-fitz
type FitzLoader struct {
	chunkSize    int
	chunkOverlap int
}

// NewFitzLoader creates a new loader. chunkSize is the target chunk length in
// characters, chunkOverlap the percentage of words carried into the next chunk.
func NewFitzLoader(chunkSize, chunkOverlap int) *FitzLoader {
	if chunkSize <= 0 {
		chunkSize = 512
	}
	return &FitzLoader{chunkSize: chunkSize, chunkOverlap: chunkOverlap}
}

// Load extracts text from every page and splits it into segments
func (l *FitzLoader) Load(filePath string) ([]Segment, error) {
	doc, err := fitz.New(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %v", ErrLoad, filePath, err)
	}
	defer doc.Close()

	var segments []Segment
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}
		for _, chunk := range splitText(text, l.chunkSize, l.chunkOverlap) {
			segments = append(segments, Segment{
				Index: len(segments),
				Page:  i + 1,
				Text:  chunk,
			})
		}
	}

	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: no extractable text in %s", ErrLoad, filePath)
	}
	return segments, nil
}

// splitText splits text into chunks with overlap
func splitText(text string, chunkSize, chunkOverlap int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	currentChunk := []string{}
	currentSize := 0

	for _, word := range words {
		wordSize := len(word) + 1 // +1 for space
		if currentSize+wordSize > chunkSize && len(currentChunk) > 0 {
			chunks = append(chunks, strings.Join(currentChunk, " "))

			// Keep overlap words for next chunk
			overlapWords := len(currentChunk) * chunkOverlap / 100
			if overlapWords > 0 && overlapWords < len(currentChunk) {
				currentChunk = currentChunk[len(currentChunk)-overlapWords:]
				currentSize = len(strings.Join(currentChunk, " "))
			} else {
				currentChunk = []string{}
				currentSize = 0
			}
		}
		currentChunk = append(currentChunk, word)
		currentSize += wordSize
	}

	if len(currentChunk) > 0 {
		chunks = append(chunks, strings.Join(currentChunk, " "))
	}

	return chunks
}
