package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iksnae/chat-harvest/internal"
	"gopkg.in/yaml.v3"
)

// ReadFile loads a harvest previously written by the json, yaml or sqlite
// exporter. The format is chosen from the file extension.
func ReadFile(path string) (*internal.HarvestResult, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")

	switch ext {
	case "db", "sqlite":
		return readSQLite(path)
	case "json", "yaml", "yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return Decode(data, ext)
	default:
		return nil, fmt.Errorf("cannot read %s: unsupported extension %q (supported: json, yaml, db)", path, ext)
	}
}

// Decode parses a json or yaml harvest document
func Decode(data []byte, format string) (*internal.HarvestResult, error) {
	if format == "yaml" || format == "yml" {
		var generic any
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
		converted, err := json.Marshal(generic)
		if err != nil {
			return nil, fmt.Errorf("failed to convert YAML: %w", err)
		}
		data = converted
	}

	var result internal.HarvestResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse harvest: %w", err)
	}
	if result.AgentID == "" {
		return nil, fmt.Errorf("document is not a harvest: missing agentId")
	}
	if result.Chats == nil {
		result.Chats = make([]internal.ChatResult, 0)
	}
	return &result, nil
}

func readSQLite(path string) (*internal.HarvestResult, error) {
	db, err := internal.OpenDatabase(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return internal.NewStorage(db).LoadHarvest()
}
