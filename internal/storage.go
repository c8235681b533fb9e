package internal

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// Storage reads and writes harvest documents in a SQLite database
type Storage struct {
	db *sql.DB
}

// NewStorage creates a new Storage instance
func NewStorage(db *sql.DB) *Storage {
	return &Storage{db: db}
}

// SaveHarvest replaces the stored document with result
func (s *Storage) SaveHarvest(result *HarvestResult) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{"DELETE FROM harvest", "DELETE FROM chats"} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to clear previous harvest: %w", err)
		}
	}

	if _, err := tx.Exec("INSERT INTO harvest (agent_id, timestamp) VALUES (?, ?)", result.AgentID, result.Timestamp); err != nil {
		return fmt.Errorf("failed to insert harvest: %w", err)
	}

	insert, err := tx.Prepare("INSERT INTO chats (position, id, id_numeric, name, creation_time, messages, error) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer insert.Close()

	for i, chat := range result.Chats {
		if _, err := insert.Exec(i, chat.ID.String(), chat.ID.Numeric(), chat.Name,
			nullString(chat.CreationTime), nullString(string(chat.Messages)), nullString(chat.Error)); err != nil {
			return fmt.Errorf("failed to insert chat %s: %w", chat.ID, err)
		}
	}

	return tx.Commit()
}

// LoadHarvest reads back the stored document
func (s *Storage) LoadHarvest() (*HarvestResult, error) {
	result := &HarvestResult{Chats: make([]ChatResult, 0)}
	err := s.db.QueryRow("SELECT agent_id, timestamp FROM harvest LIMIT 1").Scan(&result.AgentID, &result.Timestamp)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("database holds no harvest")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query harvest: %w", err)
	}

	rows, err := s.db.Query("SELECT id, id_numeric, name, creation_time, messages, error FROM chats ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query chats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			chat                         ChatResult
			id                           string
			numeric                      bool
			creationTime, messages, errs sql.NullString
		)
		if err := rows.Scan(&id, &numeric, &chat.Name, &creationTime, &messages, &errs); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		chat.ID = NewChatID(id)
		if numeric {
			chat.ID = NumericChatID(id)
		}
		chat.CreationTime = creationTime.String
		chat.Error = errs.String
		if messages.Valid {
			chat.Messages = json.RawMessage(messages.String)
		}
		result.Chats = append(result.Chats, chat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return result, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
