package vectorstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valtrilabs/postforge/internal/model"
)

// countingEncoder wraps HashingEncoder and counts Encode calls so tests can
// prove that re-opening a store does not re-embed anything.
type countingEncoder struct {
	inner Encoder
	calls int
}

func (c *countingEncoder) Encode(ctx context.Context, text string) ([]float32, error) {
	c.calls++
	return c.inner.Encode(ctx, text)
}

func (c *countingEncoder) Dimensions() int {
	return c.inner.Dimensions()
}

func newTestStore(t *testing.T, dir string) (*Store, *countingEncoder) {
	t.Helper()
	inner, err := NewHashingEncoder(DefaultDimensions)
	require.NoError(t, err)
	enc := &countingEncoder{inner: inner}
	store, err := Open(dir, "test-collection", enc)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, enc
}

func TestOpenRequiresEncoderAndCollection(t *testing.T) {
	_, err := Open(t.TempDir(), "c", nil)
	assert.Error(t, err)

	enc, err := NewHashingEncoder(DefaultDimensions)
	require.NoError(t, err)
	_, err = Open(t.TempDir(), "  ", enc)
	assert.Error(t, err)
}

func TestHashingEncoderRejectsBadDimensions(t *testing.T) {
	_, err := NewHashingEncoder(0)
	assert.Error(t, err)
	_, err = NewHashingEncoder(-4)
	assert.Error(t, err)
}

func TestSearchEmptyCollection(t *testing.T) {
	store, _ := newTestStore(t, t.TempDir())
	results, err := store.Search(context.Background(), "anything", 4)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestBuildAndSearchRanking(t *testing.T) {
	store, _ := newTestStore(t, t.TempDir())
	ctx := context.Background()

	chunks := []model.Chunk{
		{Source: "a.pdf", Index: 0, Text: "bitcoin halving reduces the block reward"},
		{Source: "a.pdf", Index: 1, Text: "custody solutions for institutional clients"},
		{Source: "b.pdf", Index: 0, Text: "the bitcoin halving schedule and miner economics"},
	}
	require.Equal(t, 3, store.BuildFromChunks(ctx, chunks))
	require.NoError(t, store.Persist(ctx))

	results, err := store.Search(ctx, "bitcoin halving block reward", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i-1].Distance, results[i].Distance, "results must be sorted ascending")
	}
	for _, r := range results {
		assert.GreaterOrEqual(t, r.Distance, 0.0)
	}
	assert.Contains(t, results[0].Text, "halving")
}

func TestSearchKLargerThanCollection(t *testing.T) {
	store, _ := newTestStore(t, t.TempDir())
	ctx := context.Background()

	store.BuildFromChunks(ctx, []model.Chunk{
		{Source: "a.pdf", Index: 0, Text: "only record"},
	})
	results, err := store.Search(ctx, "record", 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestDuplicateTextYieldsZeroDistanceTwice(t *testing.T) {
	store, _ := newTestStore(t, t.TempDir())
	ctx := context.Background()

	text := "identical chunk text"
	n := store.BuildFromChunks(ctx, []model.Chunk{
		{Source: "a.pdf", Index: 0, Text: text},
		{Source: "b.pdf", Index: 0, Text: text},
	})
	require.Equal(t, 2, n)

	results, err := store.Search(ctx, text, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, text, r.Text)
		assert.InDelta(t, 0.0, r.Distance, 1e-6)
	}
}

func TestReopenKeepsRecordsWithoutReembedding(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, enc := newTestStore(t, dir)
	store.BuildFromChunks(ctx, []model.Chunk{
		{Source: "a.pdf", Index: 0, Text: "persisted chunk one"},
		{Source: "a.pdf", Index: 1, Text: "persisted chunk two"},
	})
	require.NoError(t, store.Persist(ctx))
	require.NoError(t, store.Close())
	buildCalls := enc.calls

	reopened, enc2 := newTestStore(t, dir)
	count, err := reopened.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 0, enc2.calls, "re-open must not re-embed stored records")

	results, err := reopened.Search(ctx, "persisted chunk one", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "persisted chunk one", results[0].Text)
	assert.Equal(t, 1, enc2.calls, "search embeds only the query")
	assert.Equal(t, buildCalls, enc.calls)
}

func TestRebuildSameChunksIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t, t.TempDir())
	ctx := context.Background()

	chunks := []model.Chunk{
		{Source: "a.pdf", Index: 0, Text: "same chunk"},
	}
	store.BuildFromChunks(ctx, chunks)
	store.BuildFromChunks(ctx, chunks)
	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCollectionsAreDisjoint(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	enc, err := NewHashingEncoder(DefaultDimensions)
	require.NoError(t, err)

	first, err := Open(dir, "first", enc)
	require.NoError(t, err)
	defer first.Close()
	second, err := Open(dir, "second", enc)
	require.NoError(t, err)
	defer second.Close()

	first.BuildFromChunks(ctx, []model.Chunk{{Source: "a.pdf", Index: 0, Text: "belongs to first"}})

	results, err := second.Search(ctx, "belongs to first", 4)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestHashingEncoderDeterministic(t *testing.T) {
	enc, err := NewHashingEncoder(DefaultDimensions)
	require.NoError(t, err)
	ctx := context.Background()

	a, err := enc.Encode(ctx, "the same input text")
	require.NoError(t, err)
	b, err := enc.Encode(ctx, "the same input text")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, DefaultDimensions)

	// normalized output
	var sum float64
	for _, v := range a {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, sum, 1e-3)
}
