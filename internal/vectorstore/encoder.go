// Package vectorstore owns embedding records and nearest-neighbour retrieval
// over one named collection.
package vectorstore

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
)

// DefaultDimensions matches the 384-dim sentence encoders this store was
// built around.
const DefaultDimensions = 384

// Encoder turns text into a fixed-length vector. The same text must always
// produce the same vector.
type Encoder interface {
	Encode(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// HashingEncoder is a deterministic feature-hashing encoder: lower-cased word
// unigrams and bigrams are hashed into a fixed number of buckets and the
// result is L2-normalized. It needs no model files or network access, and
// shared vocabulary between two texts moves their vectors closer together.
type HashingEncoder struct {
	dims int
}

func NewHashingEncoder(dims int) (*HashingEncoder, error) {
	if dims <= 0 {
		return nil, fmt.Errorf("encoder dimensions %d must be positive", dims)
	}
	return &HashingEncoder{dims: dims}, nil
}

func (e *HashingEncoder) Dimensions() int {
	return e.dims
}

func (e *HashingEncoder) Encode(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dims)
	tokens := tokenize(text)
	for i, tok := range tokens {
		e.addFeature(vec, tok)
		if i+1 < len(tokens) {
			e.addFeature(vec, tok+" "+tokens[i+1])
		}
	}
	normalizeL2(vec)
	return vec, nil
}

// addFeature hashes the feature into a bucket; a second hash bit picks the
// sign so colliding features do not systematically inflate one bucket.
func (e *HashingEncoder) addFeature(vec []float32, feature string) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()
	bucket := int(sum % uint64(e.dims))
	if sum&(1<<63) != 0 {
		vec[bucket] -= 1
		return
	}
	vec[bucket] += 1
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9' || r > 127)
	})
}

func normalizeL2(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := 1.0 / math.Sqrt(sum)
	for i := range vec {
		vec[i] *= float32(norm)
	}
}
