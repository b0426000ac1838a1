package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadResume reads a resume file. Files ending in .yaml or .yml are decoded as YAML,
// everything else as JSON.
func LoadResume(path string) (*Resume, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeResumeYAML(data)
	default:
		return DecodeResume(data)
	}
}

// DecodeResume decodes a JSON resume record. Unknown fields are rejected.
func DecodeResume(data []byte) (*Resume, error) {
	var r Resume
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("failed to decode resume JSON: %w", err)
	}
	return &r, nil
}

// DecodeResumeYAML decodes a YAML resume record.
func DecodeResumeYAML(data []byte) (*Resume, error) {
	var r Resume
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("failed to decode resume YAML: %w", err)
	}
	return &r, nil
}
