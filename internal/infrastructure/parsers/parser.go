// Package parsers provides parsers for importing persons from various formats.
package parsers

import (
	"io"
	"path/filepath"
	"strings"
)

// RawPerson represents a person parsed from an external source before
// validation. Parent and Spouse hold names, not ids; the import service
// resolves them against the tree after all rows are created.
type RawPerson struct {
	Name      string `json:"name"`
	Gender    string `json:"gender,omitempty"`
	BirthDate string `json:"birth_date,omitempty"`
	DeathDate string `json:"death_date,omitempty"`
	Bio       string `json:"bio,omitempty"`
	PhotoURL  string `json:"photo_url,omitempty"`
	Parent    string `json:"parent,omitempty"`
	Spouse    string `json:"spouse,omitempty"`
	LineNum   int    `json:"-"` // Line number in source file (set by parser)
}

// Parser defines the interface for parsing persons from various formats.
type Parser interface {
	Parse(r io.Reader) ([]RawPerson, error)
}

// ForFormat returns the appropriate parser for the given format.
// Supported formats: "json", "csv".
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "json":
		return &JSONParser{}
	case "csv":
		return &CSVParser{}
	default:
		return nil
	}
}

// ForFile returns the appropriate parser based on file extension.
func ForFile(filename string) Parser {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return &JSONParser{}
	case ".csv":
		return &CSVParser{}
	default:
		return nil
	}
}
