package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// CreateHarvestDBFixture writes a SQLite export holding one agent with a
// successful and a failed chat
func CreateHarvestDBFixture(t *testing.T, dbPath string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	stmts := []string{
		`CREATE TABLE harvest (agent_id TEXT NOT NULL, timestamp TEXT NOT NULL)`,
		`CREATE TABLE chats (
			position INTEGER PRIMARY KEY,
			id TEXT NOT NULL,
			id_numeric INTEGER NOT NULL DEFAULT 0,
			name TEXT NOT NULL DEFAULT '',
			creation_time TEXT,
			messages TEXT,
			error TEXT
		)`,
		`INSERT INTO harvest (agent_id, timestamp) VALUES ('fixture-agent', '2024-02-03T04:05:06.789Z')`,
		`INSERT INTO chats (position, id, name, creation_time, messages) VALUES
			(0, 'chat-ok', 'Greetings', '2024-02-01T10:00:00', '[{"role":"user","content":"Hello"},{"role":"assistant","content":"Hi there"}]')`,
		`INSERT INTO chats (position, id, name, error) VALUES
			(1, 'chat-ko', 'Broken', 'message error [chat-ko]: status 500')`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("Failed to build fixture: %v", err)
		}
	}
}
