// Package embedcache caches encoder output so repeated builds and queries of
// identical text skip re-encoding.
package embedcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/valtrilabs/postforge/internal/vectorstore"
)

// Wrap returns enc behind an expirable LRU. A nil encoder or non-positive
// size/ttl returns enc unchanged.
func Wrap(enc vectorstore.Encoder, size int, ttl time.Duration) vectorstore.Encoder {
	if enc == nil || size <= 0 || ttl <= 0 {
		return enc
	}
	return &lruEncoder{
		next:  enc,
		cache: expirable.NewLRU[string, []float32](size, nil, ttl),
	}
}

type lruEncoder struct {
	next  vectorstore.Encoder
	cache *expirable.LRU[string, []float32]
}

func (l *lruEncoder) Encode(ctx context.Context, text string) ([]float32, error) {
	key := cacheKey(l.next.Dimensions(), text)
	if cached, ok := l.cache.Get(key); ok {
		logutil.GetLogger(ctx).Debug("embedding cache hit", zap.Int("text_len", len(text)))
		return cloneVector(cached), nil
	}
	vec, err := l.next.Encode(ctx, text)
	if err != nil {
		return nil, err
	}
	l.cache.Add(key, cloneVector(vec))
	return vec, nil
}

func (l *lruEncoder) Dimensions() int {
	return l.next.Dimensions()
}

func cacheKey(dims int, text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%d:%s", dims, hex.EncodeToString(sum[:]))
}

func cloneVector(values []float32) []float32 {
	if len(values) == 0 {
		return nil
	}
	clone := make([]float32, len(values))
	copy(clone, values)
	return clone
}
