package legspec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"optionlab/internal/models"
)

// Document is the on-disk form of a strategy.
type Document struct {
	Name string             `json:"name" yaml:"name"`
	Legs []models.OptionLeg `json:"legs" yaml:"legs"`
}

// LoadFile reads legs from a YAML or JSON file. The file holds either a bare
// list of legs or a {name, legs} document. Legs without a quantity get 1.
func LoadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read leg file: %w", err)
	}

	var doc Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		doc, err = decodeJSON(data)
	default:
		doc, err = decodeYAML(data)
	}
	if err != nil {
		return Document{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	ApplyDefaults(doc.Legs)
	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return doc, nil
}

// WriteFile stores doc as YAML, or JSON when path ends in .json.
func WriteFile(path string, doc Document) error {
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = yaml.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("failed to encode legs: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func decodeJSON(data []byte) (Document, error) {
	var doc Document
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		err := json.Unmarshal(trimmed, &doc.Legs)
		return doc, err
	}
	err := json.Unmarshal(trimmed, &doc)
	return doc, err
}

func decodeYAML(data []byte) (Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return Document{}, err
	}
	if len(root.Content) == 0 {
		return Document{}, fmt.Errorf("empty document")
	}

	var doc Document
	node := root.Content[0]
	switch node.Kind {
	case yaml.SequenceNode:
		if err := node.Decode(&doc.Legs); err != nil {
			return Document{}, err
		}
	case yaml.MappingNode:
		if err := node.Decode(&doc); err != nil {
			return Document{}, err
		}
	default:
		return Document{}, fmt.Errorf("expected a list of legs or a {name, legs} mapping")
	}
	return doc, nil
}

// ApplyDefaults sets a quantity of 1 on legs that omit it.
func ApplyDefaults(legs []models.OptionLeg) {
	for i := range legs {
		if legs[i].Quantity == 0 {
			legs[i].Quantity = 1
		}
	}
}
