package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/iksnae/chat-harvest/internal"
)

// SQLiteExporter writes the harvest as a SQLite database file
type SQLiteExporter struct{}

// Export builds the database in a scratch directory and copies the
// finished file to w
func (e *SQLiteExporter) Export(result *internal.HarvestResult, w io.Writer) error {
	dir, err := os.MkdirTemp("", "chat-harvest-*")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	dbPath := filepath.Join(dir, "harvest.db")
	if err := WriteSQLite(result, dbPath); err != nil {
		return err
	}

	f, err := os.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to reopen database: %w", err)
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}

// Extension returns the file extension for this format
func (e *SQLiteExporter) Extension() string {
	return "db"
}

// WriteSQLite stores result in the database at path
func WriteSQLite(result *internal.HarvestResult, path string) error {
	db, err := internal.CreateDatabase(path)
	if err != nil {
		return err
	}

	if err := internal.NewStorage(db).SaveHarvest(result); err != nil {
		_ = db.Close()
		return err
	}
	return db.Close()
}
