package vectorstore

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const embeddingsTable = "embeddings"

const schema = `
CREATE TABLE IF NOT EXISTS embeddings (
	collection TEXT NOT NULL,
	id TEXT NOT NULL,
	vector BLOB NOT NULL,
	source TEXT NOT NULL,
	document TEXT NOT NULL,
	PRIMARY KEY (collection, id)
);
`

func openDB(dir string) (*sql.DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", filepath.Join(dir, "vectors.db"))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
