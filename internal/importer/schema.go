package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// RoadmapSchema is the top-level structure of a roadmap definition file.
type RoadmapSchema struct {
	ID              string       `json:"id,omitempty" yaml:"id,omitempty"`
	Title           string       `json:"title" yaml:"title"`
	Description     string       `json:"description" yaml:"description"`
	Category        string       `json:"category,omitempty" yaml:"category,omitempty"`
	DifficultyLevel string       `json:"difficulty_level,omitempty" yaml:"difficulty_level,omitempty"`
	Tags            []string     `json:"tags,omitempty" yaml:"tags,omitempty"`
	Nodes           []NodeImport `json:"nodes" yaml:"nodes"`
}

// NodeImport defines one milestone in the definition file.
type NodeImport struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Status      string `json:"status,omitempty" yaml:"status,omitempty"`
	Progress    *int   `json:"progress,omitempty" yaml:"progress,omitempty"`
	Completed   *bool  `json:"completed,omitempty" yaml:"completed,omitempty"`
}

// Format names a definition file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatForPath picks the encoding from the file extension; anything other
// than .json is read as YAML.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// LoadRoadmapSchema reads and parses a roadmap definition file.
func LoadRoadmapSchema(path string) (*RoadmapSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRoadmapSchema(data, FormatForPath(path))
}

// ParseRoadmapSchema decodes data in the given format.
func ParseRoadmapSchema(data []byte, format Format) (*RoadmapSchema, error) {
	var schema RoadmapSchema
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing roadmap file: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing roadmap file: %w", err)
		}
	}
	return &schema, nil
}
