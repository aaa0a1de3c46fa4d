package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// printer renders command results in the format chosen with --output.
type printer struct {
	w      io.Writer
	format string
}

func (p printer) print(v any) error {
	switch p.format {
	case formatYAML:
		return p.yaml(v)
	case formatJSON, "":
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
	return exitError(exitUsage, "unknown output format %q (json or yaml)", p.format)
}

// yaml goes through the JSON encoding so keys keep their wire names and
// order. JSON is valid YAML, so the document parses straight into a node
// tree; clearing the styles turns flow mappings into block ones.
func (p printer) yaml(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode json as yaml: %w", err)
	}
	blockStyle(&doc)

	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

func (p printer) message(format string, args ...any) error {
	_, err := fmt.Fprintf(p.w, format+"\n", args...)
	return err
}
