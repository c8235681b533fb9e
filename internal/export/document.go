package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/iksnae/chat-harvest/internal"
)

// ExportDocument returns the harvest as the downloadable JSON document
func ExportDocument(result *internal.HarvestResult) ([]byte, error) {
	var buf bytes.Buffer
	if err := (&JSONExporter{}).Export(result, &buf); err != nil {
		return nil, &internal.ExportError{Format: "json", Err: err}
	}
	return buf.Bytes(), nil
}

// WriteDocument exports result into dir as
// conversations_{agentId}_{timestamp}.{ext}, stamped with now, and returns
// the path written
func WriteDocument(result *internal.HarvestResult, exporter Exporter, dir string, now time.Time) (string, error) {
	path := filepath.Join(dir, internal.ExportFilename(result.AgentID, now, exporter.Extension()))

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", &internal.ExportError{Format: exporter.Extension(), Path: path, Err: fmt.Errorf("failed to create output directory: %w", err)}
	}

	// sqlite builds the file in place rather than streaming it
	if _, ok := exporter.(*SQLiteExporter); ok {
		_ = os.Remove(path)
		if err := WriteSQLite(result, path); err != nil {
			return "", &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
		}
		return path, nil
	}

	file, err := os.Create(path)
	if err != nil {
		return "", &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}

	if err := exporter.Export(result, file); err != nil {
		_ = file.Close()
		return "", &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}

	if err := file.Close(); err != nil {
		return "", &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	return path, nil
}

// WriteTo streams result to w in the exporter's format
func WriteTo(result *internal.HarvestResult, exporter Exporter, w io.Writer) error {
	if err := exporter.Export(result, w); err != nil {
		return &internal.ExportError{Format: exporter.Extension(), Path: "-", Err: err}
	}
	return nil
}
