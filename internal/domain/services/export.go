package services

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"

	"github.com/ersonp/kin-core/internal/domain/entities"
)

// CSVHeader is the flat export's header row.
var CSVHeader = []string{"ID", "Name", "Gender", "Birth Date", "Parent ID", "Spouse ID"}

// ExportJSON serializes a subgraph as the nested tree produced by
// BuildTree. An absent spouse encodes as null and no children as [].
func ExportJSON(subgraph map[string]*entities.Person) (string, error) {
	tree := BuildTree(subgraph)
	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling tree: %w", err)
	}
	return string(data) + "\n", nil
}

// ExportCSV emits the flat projection of every person in the subgraph,
// independent of rooting: one RFC 4180-quoted row per person, ordered by
// id.
func ExportCSV(subgraph map[string]*entities.Person) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(CSVHeader); err != nil {
		return "", fmt.Errorf("writing header: %w", err)
	}
	for _, id := range sortedIDs(subgraph) {
		p := subgraph[id]
		row := []string{p.ID, p.Name, string(p.Gender), p.BirthDate, p.ParentID, p.SpouseID}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("writing row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing csv: %w", err)
	}
	return buf.String(), nil
}
