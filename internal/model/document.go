package model

// Document is one extracted source file. It only lives long enough to be
// chunked; nothing downstream keeps it.
type Document struct {
	Source string `json:"source"`
	Text   string `json:"text"`
}

// Chunk is a fixed-width window over a document's text. Adjacent chunks from
// the same document share an overlap region.
type Chunk struct {
	Source string `json:"source"`
	Index  int    `json:"index"`
	Text   string `json:"text"`
}
