package services

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/kin-core/internal/domain/entities"
)

func TestExportJSON(t *testing.T) {
	t.Run("emits the nested tree", func(t *testing.T) {
		graph := viewGraph(
			subgraphPerson("root", "u", func(p *entities.Person) {
				p.IsRoot = true
				p.Name = "Anna"
				p.Gender = entities.GenderFemale
				p.BirthDate = "1950-03-01"
				p.SpouseID = "bart"
			}),
			subgraphPerson("bart", "u", func(p *entities.Person) {
				p.Name = "Bart"
				p.SpouseID = "root"
			}),
			subgraphPerson("kid", "u", func(p *entities.Person) {
				p.Name = "Kid"
				p.ParentID = "root"
			}),
		)

		out, err := ExportJSON(graph)
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(out, "\n"))

		var tree entities.TreeNode
		require.NoError(t, json.Unmarshal([]byte(out), &tree))
		assert.Equal(t, "Anna", tree.Name)
		require.NotNil(t, tree.Spouse)
		assert.Equal(t, "Bart", tree.Spouse.Name)
		require.Len(t, tree.Children, 1)
		assert.Equal(t, "Kid", tree.Children[0].Name)
	})

	t.Run("absent spouse is null and no children is empty array", func(t *testing.T) {
		graph := viewGraph(
			subgraphPerson("solo", "u", func(p *entities.Person) { p.IsRoot = true }),
		)

		out, err := ExportJSON(graph)
		require.NoError(t, err)

		assert.Contains(t, out, `"spouse": null`)
		assert.Contains(t, out, `"children": []`)
	})
}

func TestExportCSV(t *testing.T) {
	t.Run("one row per person ordered by id", func(t *testing.T) {
		graph := viewGraph(
			subgraphPerson("b-id", "u", func(p *entities.Person) {
				p.Name = "Bart"
				p.Gender = entities.GenderMale
				p.SpouseID = "a-id"
			}),
			subgraphPerson("a-id", "u", func(p *entities.Person) {
				p.Name = "Anna"
				p.Gender = entities.GenderFemale
				p.BirthDate = "1950-03-01"
			}),
			subgraphPerson("c-id", "u", func(p *entities.Person) {
				p.Name = "Kid"
				p.ParentID = "a-id"
			}),
		)

		out, err := ExportCSV(graph)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, "ID,Name,Gender,Birth Date,Parent ID,Spouse ID", lines[0])
		assert.Equal(t, "a-id,Anna,female,1950-03-01,,", lines[1])
		assert.Equal(t, "b-id,Bart,male,,,a-id", lines[2])
		assert.Equal(t, "c-id,Kid,,,a-id,", lines[3])
	})

	t.Run("quotes fields containing separators", func(t *testing.T) {
		graph := viewGraph(
			subgraphPerson("p1", "u", func(p *entities.Person) { p.Name = `Smith, "Anna"` }),
		)

		out, err := ExportCSV(graph)
		require.NoError(t, err)
		assert.Contains(t, out, `"Smith, ""Anna"""`)
	})

	t.Run("empty subgraph emits only the header", func(t *testing.T) {
		out, err := ExportCSV(map[string]*entities.Person{})
		require.NoError(t, err)
		assert.Equal(t, "ID,Name,Gender,Birth Date,Parent ID,Spouse ID\n", out)
	})
}
