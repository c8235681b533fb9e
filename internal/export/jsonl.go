package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/chat-harvest/internal"
)

// JSONLExporter exports harvests in JSONL format (one chat per line)
type JSONLExporter struct{}

// jsonlRecord is a chat tagged with the agent it belongs to
type jsonlRecord struct {
	AgentID string `json:"agentId"`
	internal.ChatResult
}

// Export exports a harvest to JSONL format
func (e *JSONLExporter) Export(result *internal.HarvestResult, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for _, chat := range result.Chats {
		if err := enc.Encode(jsonlRecord{AgentID: result.AgentID, ChatResult: chat}); err != nil {
			return fmt.Errorf("failed to encode chat %s: %w", chat.ID, err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
