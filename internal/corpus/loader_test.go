package corpus

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDOCX(t *testing.T, path string, documentXML string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	zw := zip.NewWriter(f)
	w, err := zw.Create(docxDocumentPath)
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
}

func TestLoadMissingRootDir(t *testing.T) {
	l := NewLoader(filepath.Join(t.TempDir(), "does-not-exist"))
	docs, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestLoadEmptyRootDir(t *testing.T) {
	l := NewLoader(t.TempDir())
	docs, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestLoadDOCXRecursive(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "nested", "deep"), 0o755))
	writeDOCX(t, filepath.Join(root, "a.docx"),
		`<w:document><w:p><w:r><w:t>hello</w:t></w:r><w:r><w:t xml:space="preserve">world</w:t></w:r></w:p></w:document>`)
	writeDOCX(t, filepath.Join(root, "nested", "deep", "b.docx"),
		`<w:document><w:p w:rsidR="00A"><w:r><w:t>nested content</w:t></w:r></w:p></w:document>`)

	l := NewLoader(root)
	docs, err := l.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)

	byText := map[string]string{}
	for _, d := range docs {
		byText[d.Text] = d.Source
	}
	assert.Contains(t, byText, "hello\nworld")
	assert.Contains(t, byText, "nested content")
}

func TestLoadIgnoresOtherExtensions(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("plain text"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.md"), []byte("# markdown"), 0o644))

	l := NewLoader(root)
	docs, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)
}

// A corrupt file must fail alone; the rest of the batch still loads.
func TestLoadCorruptFileIsIsolated(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "broken.pdf"), []byte("not a pdf at all"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "broken.docx"), []byte("not a zip"), 0o644))
	writeDOCX(t, filepath.Join(root, "good.docx"),
		`<w:document><w:p><w:r><w:t>survivor</w:t></w:r></w:p></w:document>`)

	l := NewLoader(root)
	docs, err := l.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "survivor", docs[0].Text)
}

// A docx whose document part holds no text runs yields nothing and is skipped.
func TestLoadSkipsEmptyDocuments(t *testing.T) {
	root := t.TempDir()
	writeDOCX(t, filepath.Join(root, "empty.docx"), `<w:document><w:body/></w:document>`)

	l := NewLoader(root)
	docs, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)
}
