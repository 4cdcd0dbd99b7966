package timeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse decodes a timeline document from raw bytes, accepting either
// JSON (the editor/agent wire format) or YAML.
func Parse(data []byte) (*Timeline, error) {
	var tl Timeline
	if firstByte(bytes.TrimSpace(data)) == '{' {
		if err := json.Unmarshal(data, &tl); err != nil {
			return nil, fmt.Errorf("parse timeline json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &tl); err != nil {
			return nil, fmt.Errorf("parse timeline yaml: %w", err)
		}
	}
	if err := tl.Validate(); err != nil {
		return nil, err
	}
	return &tl, nil
}

// Read loads a timeline file, picking the format from the extension.
func Read(path string) (*Timeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		var tl Timeline
		if err := json.Unmarshal(data, &tl); err != nil {
			return nil, fmt.Errorf("parse timeline json: %w", err)
		}
		if err := tl.Validate(); err != nil {
			return nil, err
		}
		return &tl, nil
	}
	return Parse(data)
}

// Write saves a timeline as YAML (or JSON for .json paths).
func Write(tl *Timeline, path string) error {
	var data []byte
	var err error
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(tl, "", "  ")
	} else {
		data, err = yaml.Marshal(tl)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
