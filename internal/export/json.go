package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/chat-harvest/internal"
)

// JSONExporter writes the whole harvest as one JSON document indented with
// two spaces
type JSONExporter struct{}

// Export exports a harvest to JSON format
func (e *JSONExporter) Export(result *internal.HarvestResult, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	return enc.Encode(result)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
