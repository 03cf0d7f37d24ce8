package vectorstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/didi/gendry/builder"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/valtrilabs/postforge/internal/model"
)

// Record is one embedded chunk as persisted in the collection.
type Record struct {
	ID     string
	Vector []float32
	Source string
	Text   string
}

// Result is one retrieval hit. Distance is cosine distance: non-negative,
// smaller means more similar.
type Result struct {
	Text     string
	Source   string
	Distance float64
}

// Store binds one named collection inside a directory-backed database to one
// encoder. Collections are disjoint namespaces; re-opening the same directory
// and collection yields the previously embedded records.
//
// A Store holds shared state and does no internal locking; concurrent callers
// need external serialization.
type Store struct {
	db         *sql.DB
	collection string
	encoder    Encoder
}

// Open opens (or creates) the store directory and binds to collection. The
// encoder is required; retrieval is impossible without it.
func Open(dir, collection string, encoder Encoder) (*Store, error) {
	if encoder == nil {
		return nil, fmt.Errorf("vector store: encoder is required")
	}
	if strings.TrimSpace(collection) == "" {
		return nil, fmt.Errorf("vector store: collection name is required")
	}
	db, err := openDB(dir)
	if err != nil {
		return nil, fmt.Errorf("open vector store %s: %w", dir, err)
	}
	return &Store{db: db, collection: collection, encoder: encoder}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// BuildFromChunks embeds every chunk and inserts it into the collection.
// Inserts are best-effort: one failed record is logged and the rest still go
// in. Returns how many records were written.
func (s *Store) BuildFromChunks(ctx context.Context, chunks []model.Chunk) int {
	logger := logutil.GetLogger(ctx).With(zap.String("collection", s.collection))
	if len(chunks) == 0 {
		logger.Warn("no chunks provided to build vector store")
		return 0
	}
	inserted := 0
	for _, ch := range chunks {
		rec := Record{
			ID:     fmt.Sprintf("%s#%d", ch.Source, ch.Index),
			Source: ch.Source,
			Text:   ch.Text,
		}
		vec, err := s.encoder.Encode(ctx, ch.Text)
		if err != nil {
			logger.Warn("failed to embed chunk", zap.String("id", rec.ID), zap.Error(err))
			continue
		}
		rec.Vector = vec
		if err := s.insert(ctx, rec); err != nil {
			logger.Warn("failed to insert record", zap.String("id", rec.ID), zap.Error(err))
			continue
		}
		inserted++
	}
	logger.Info("vector store built", zap.Int("chunks", len(chunks)), zap.Int("inserted", inserted))
	return inserted
}

func (s *Store) insert(ctx context.Context, rec Record) error {
	blob, err := json.Marshal(rec.Vector)
	if err != nil {
		return err
	}
	data := map[string]interface{}{
		"collection": s.collection,
		"id":         rec.ID,
		"vector":     blob,
		"source":     rec.Source,
		"document":   rec.Text,
	}
	sqlStr, args, err := builder.BuildInsert(embeddingsTable, []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr = strings.Replace(sqlStr, "INSERT INTO", "INSERT OR REPLACE INTO", 1)
	_, err = s.db.ExecContext(ctx, sqlStr, args...)
	return err
}

// Persist flushes the backing database to disk. Inserts autocommit, so this
// only forces a WAL checkpoint when one is pending.
func (s *Store) Persist(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, "PRAGMA wal_checkpoint(FULL)")
	if err != nil {
		return fmt.Errorf("persist vector store: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("persist vector store: %w", err)
	}
	logutil.GetLogger(ctx).Info("vector store persisted", zap.String("collection", s.collection))
	return nil
}

// Count returns the number of records in the bound collection.
func (s *Store) Count(ctx context.Context) (int, error) {
	row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM embeddings WHERE collection = ?", s.collection)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Search embeds query with the collection's encoder and returns up to k
// records ordered by ascending cosine distance. An empty collection yields an
// empty result. Errors are returned so the caller can decide to degrade.
func (s *Store) Search(ctx context.Context, query string, k int) ([]Result, error) {
	logger := logutil.GetLogger(ctx).With(zap.String("collection", s.collection))
	if k <= 0 {
		return nil, nil
	}
	qvec, err := s.encoder.Encode(ctx, query)
	if err != nil {
		logger.Error("failed to embed query", zap.Error(err))
		return nil, fmt.Errorf("embed query: %w", err)
	}
	records, err := s.list(ctx)
	if err != nil {
		logger.Error("failed to list collection", zap.Error(err))
		return nil, fmt.Errorf("list collection %s: %w", s.collection, err)
	}
	results := make([]Result, 0, len(records))
	for _, rec := range records {
		results = append(results, Result{
			Text:     rec.Text,
			Source:   rec.Source,
			Distance: cosineDistance(qvec, rec.Vector),
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

func (s *Store) list(ctx context.Context) ([]Record, error) {
	where := map[string]interface{}{
		"collection": s.collection,
	}
	sqlStr, args, err := builder.BuildSelect(embeddingsTable, where, []string{"id", "vector", "source", "document"})
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []Record
	for rows.Next() {
		var rec Record
		var blob []byte
		if err := rows.Scan(&rec.ID, &blob, &rec.Source, &rec.Text); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(blob, &rec.Vector); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// cosineDistance is 1 - cosine similarity, clamped at zero so float rounding
// never produces a negative distance. Mismatched or zero vectors score the
// maximum textual dissimilarity of 1.
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) {
		return 1
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	d := 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
	if d < 0 {
		return 0
	}
	return d
}
