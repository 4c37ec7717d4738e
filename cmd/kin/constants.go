package main

// Default limits for CLI commands.
const (
	DefaultNameSearchLimit = 20
	DefaultBioSearchLimit  = 10
)

// Valid export formats.
var validFormats = []string{"json", "csv"}
