// Package corpus loads source documents and splits them into retrieval chunks.
package corpus

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/valtrilabs/postforge/internal/model"
)

// Loader discovers PDF and DOCX files under a root directory and extracts
// their plain text. Every other extension is ignored.
type Loader struct {
	root string
}

func NewLoader(root string) *Loader {
	return &Loader{root: root}
}

// Load walks the corpus directory and returns one Document per file that
// yields text. A file that cannot be read or yields nothing is logged and
// skipped; a missing root directory yields an empty result.
func (l *Loader) Load(ctx context.Context) ([]model.Document, error) {
	logger := logutil.GetLogger(ctx).With(zap.String("corpus_dir", l.root))
	if _, err := os.Stat(l.root); os.IsNotExist(err) {
		logger.Warn("corpus directory does not exist, nothing to load")
		return nil, nil
	}
	var docs []model.Document
	err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("skip unreadable entry", zap.String("path", path), zap.Error(err))
			return nil
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		var text string
		var exerr error
		switch ext {
		case ".pdf":
			text, exerr = extractPDF(path)
		case ".docx":
			text, exerr = extractDOCX(path)
		default:
			return nil
		}
		if exerr != nil {
			logger.Warn("failed to extract document", zap.String("path", path), zap.Error(exerr))
			return nil
		}
		if strings.TrimSpace(text) == "" {
			logger.Warn("no text extracted", zap.String("path", path))
			return nil
		}
		docs = append(docs, model.Document{Source: path, Text: text})
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("corpus loaded", zap.Int("documents", len(docs)))
	return docs, nil
}
