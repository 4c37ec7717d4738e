package entities

// BioDoc is the projection of a person indexed for semantic bio search.
// Score is only populated on search results.
type BioDoc struct {
	PersonID  string    `json:"person_id"`
	Name      string    `json:"name"`
	Bio       string    `json:"bio"`
	Embedding []float32 `json:"embedding,omitempty"`
	Score     float32   `json:"score,omitempty"`
}
