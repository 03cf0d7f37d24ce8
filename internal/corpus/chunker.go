package corpus

import (
	"fmt"

	"github.com/valtrilabs/postforge/internal/model"
)

// Chunker splits text into fixed-width windows where each window starts with
// the trailing overlap characters of the previous one. Boundaries are purely
// positional; no sentence or token awareness.
type Chunker struct {
	chunkSize int
	overlap   int
}

// NewChunker validates the window geometry up front. overlap must be strictly
// smaller than chunkSize or the window cannot advance.
func NewChunker(chunkSize, overlap int) (*Chunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size %d must be positive", chunkSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("chunk overlap %d must not be negative", overlap)
	}
	if overlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap %d must be smaller than chunk size %d", overlap, chunkSize)
	}
	return &Chunker{chunkSize: chunkSize, overlap: overlap}, nil
}

// Chunk windows text into model.Chunks for the given source. Empty text yields
// no chunks; text that fits in one window yields exactly one. The window start
// advances by chunkSize-overlap per step, so the loop always terminates.
func (c *Chunker) Chunk(source, text string) []model.Chunk {
	if len(text) == 0 {
		return nil
	}
	var chunks []model.Chunk
	start := 0
	for {
		end := start + c.chunkSize
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, model.Chunk{
			Source: source,
			Index:  len(chunks),
			Text:   text[start:end],
		})
		if end == len(text) {
			return chunks
		}
		start = end - c.overlap
	}
}
