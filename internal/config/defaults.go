// Package config loads and saves prompt defaults for the mirror workflow.
// The tool stays interactive either way; a defaults file only pre-fills
// answers the operator leaves empty.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/NicabarNimble/go-gitmirror/internal/urlutils"
)

// Defaults holds pre-filled answers for the interactive prompts.
type Defaults struct {
	SourceURL      string `json:"source_url,omitempty"`
	DestinationURL string `json:"destination_url,omitempty"`
}

// LoadDefaults loads prompt defaults from a file. A missing file yields
// empty defaults, not an error.
func LoadDefaults(path string) (*Defaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Defaults{}, nil
		}
		return nil, fmt.Errorf("failed to read defaults file: %w", err)
	}

	d := &Defaults{}
	if err := json.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("failed to parse defaults file: %w", err)
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// SaveDefaults writes prompt defaults to a file.
func SaveDefaults(d *Defaults, path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal defaults: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write defaults file: %w", err)
	}

	return nil
}

// Validate checks that any pre-filled URLs match a supported shape.
// Empty fields are fine; they just mean "no default".
func (d *Defaults) Validate() error {
	if d.SourceURL != "" {
		if err := urlutils.Validate(d.SourceURL); err != nil {
			return fmt.Errorf("invalid default source URL: %w", err)
		}
	}
	if d.DestinationURL != "" {
		if err := urlutils.Validate(d.DestinationURL); err != nil {
			return fmt.Errorf("invalid default destination URL: %w", err)
		}
	}
	return nil
}
