package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/chat-harvest/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter exports harvests in YAML format
type YAMLExporter struct{}

// Export exports a harvest to YAML format. The document goes through its
// JSON form first so raw message payloads come out as YAML structures and
// keys keep their JSON order.
func (e *YAMLExporter) Export(result *internal.HarvestResult, w io.Writer) error {
	doc, err := toYAMLNode(result)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()

	return enc.Encode(doc)
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}

// toYAMLNode parses the JSON encoding of v as YAML (JSON being a subset of
// it) and switches every node to block style
func toYAMLNode(v any) (*yaml.Node, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode harvest: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to convert harvest: %w", err)
	}
	clearStyle(&doc)
	return &doc, nil
}

func clearStyle(node *yaml.Node) {
	node.Style = 0
	for _, child := range node.Content {
		clearStyle(child)
	}
}
