// Package postlog persists generated posts as an append-only JSON array file.
package postlog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/valtrilabs/postforge/internal/model"
)

// Log appends post records to one UTF-8 JSON array file. Each append reads
// the whole array, appends, and rewrites the file through a temp file and
// rename so a crash never leaves a truncated log. The read-modify-write cycle
// is serialized by an internal mutex; records are never mutated or deleted.
type Log struct {
	path string
	mu   sync.Mutex
}

func New(path string) *Log {
	return &Log{path: path}
}

// Append adds post to the end of the log file.
func (l *Log) Append(ctx context.Context, post *model.PostRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	posts, err := l.read()
	if err != nil {
		return fmt.Errorf("read post log: %w", err)
	}
	posts = append(posts, *post)
	if err := l.write(posts); err != nil {
		return fmt.Errorf("write post log: %w", err)
	}
	logutil.GetLogger(ctx).Info("post saved", zap.String("path", l.path), zap.Int("total", len(posts)))
	return nil
}

// Load returns every record in the log, oldest first.
func (l *Log) Load() ([]model.PostRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.read()
}

func (l *Log) read() ([]model.PostRecord, error) {
	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var posts []model.PostRecord
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (l *Log) write(posts []model.PostRecord) error {
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(l.path), ".posts-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, l.path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
