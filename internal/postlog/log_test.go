package postlog

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valtrilabs/postforge/internal/model"
)

func TestAppendRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.json")
	l := New(path)
	ctx := context.Background()

	post := &model.PostRecord{
		Theme:     "custody solutions",
		Format:    "educational",
		Query:     "custody solutions exchange security",
		Content:   "Cold storage is not a product feature.\n\n#Crypto #Custody",
		Hashtags:  []string{"#Crypto", "#Custody"},
		Provider:  "gemini",
		CreatedAt: model.Timestamp(time.Now()),
	}
	require.NoError(t, l.Append(ctx, post))

	loaded, err := l.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, *post, loaded[0])
}

func TestAppendPreservesOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.json")
	l := New(path)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, l.Append(ctx, &model.PostRecord{
			Theme:   fmt.Sprintf("theme-%d", i),
			Content: fmt.Sprintf("post %d", i),
		}))
	}
	loaded, err := l.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 5)
	for i, p := range loaded {
		assert.Equal(t, fmt.Sprintf("theme-%d", i), p.Theme)
	}
}

func TestLoadMissingFile(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "never-written.json"))
	loaded, err := l.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestConcurrentAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.json")
	l := New(path)
	ctx := context.Background()

	const writers = 8
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = l.Append(ctx, &model.PostRecord{Content: fmt.Sprintf("post %d", i)})
		}(i)
	}
	wg.Wait()

	loaded, err := l.Load()
	require.NoError(t, err)
	assert.Len(t, loaded, writers, "no append may be lost to a racing rewrite")
}

func TestAppendCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "posts.json")
	l := New(path)
	require.NoError(t, l.Append(context.Background(), &model.PostRecord{Content: "x"}))
	loaded, err := l.Load()
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}
