package internal

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

var harvestSchema = []string{
	`CREATE TABLE IF NOT EXISTS harvest (
		agent_id  TEXT NOT NULL,
		timestamp TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS chats (
		position      INTEGER PRIMARY KEY,
		id            TEXT NOT NULL,
		id_numeric    INTEGER NOT NULL DEFAULT 0,
		name          TEXT NOT NULL DEFAULT '',
		creation_time TEXT,
		messages      TEXT,
		error         TEXT
	)`,
}

// OpenDatabase opens a SQLite database in read-only mode
func OpenDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return db, nil
}

// CreateDatabase opens (creating if needed) a writable SQLite database
// holding the harvest schema
func CreateDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	for _, stmt := range harvestSchema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return db, nil
}

// ColumnInfo describes one column of a table
type ColumnInfo struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	NotNull    bool   `json:"not_null"`
	PrimaryKey bool   `json:"primary_key"`
}

// TableInfo describes one table of a database
type TableInfo struct {
	Name     string       `json:"name"`
	Columns  []ColumnInfo `json:"columns"`
	RowCount int64        `json:"row_count"`
}

// DescribeTables lists the tables of db with their columns and row counts
func DescribeTables(db *sql.DB) ([]TableInfo, error) {
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	rows.Close()

	tables := make([]TableInfo, 0, len(names))
	for _, name := range names {
		info := TableInfo{Name: name}

		cols, err := db.Query(fmt.Sprintf("PRAGMA table_info(%q)", name))
		if err != nil {
			return nil, fmt.Errorf("table_info %s failed: %w", name, err)
		}
		for cols.Next() {
			var (
				cid        int
				col        ColumnInfo
				notNull    int
				defaultVal sql.NullString
				pk         int
			)
			if err := cols.Scan(&cid, &col.Name, &col.Type, &notNull, &defaultVal, &pk); err != nil {
				cols.Close()
				return nil, fmt.Errorf("scan failed: %w", err)
			}
			col.NotNull = notNull != 0
			col.PrimaryKey = pk != 0
			info.Columns = append(info.Columns, col)
		}
		cols.Close()

		if err := db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %q", name)).Scan(&info.RowCount); err != nil {
			return nil, fmt.Errorf("count %s failed: %w", name, err)
		}
		tables = append(tables, info)
	}

	return tables, nil
}
