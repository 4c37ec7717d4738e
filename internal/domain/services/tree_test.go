package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/kin-core/internal/domain/entities"
)

func TestSelectRoot(t *testing.T) {
	t.Run("explicit root flag wins", func(t *testing.T) {
		graph := viewGraph(
			subgraphPerson("a", "u", func(p *entities.Person) { p.Children = []string{"b"} }),
			subgraphPerson("b", "u", func(p *entities.Person) { p.IsRoot = true; p.ParentID = "a" }),
		)

		root := SelectRoot(graph)
		require.NotNil(t, root)
		assert.Equal(t, "b", root.ID)
	})

	t.Run("falls back to the parentless person with most descendants", func(t *testing.T) {
		graph := viewGraph(
			subgraphPerson("grandma", "u", nil),
			subgraphPerson("mother", "u", func(p *entities.Person) { p.ParentID = "grandma" }),
			subgraphPerson("kid", "u", func(p *entities.Person) { p.ParentID = "mother" }),
			subgraphPerson("loner", "u", nil),
		)

		root := SelectRoot(graph)
		require.NotNil(t, root)
		assert.Equal(t, "grandma", root.ID)
	})

	t.Run("ties break toward the smaller id", func(t *testing.T) {
		graph := viewGraph(
			subgraphPerson("beta", "u", nil),
			subgraphPerson("alpha", "u", nil),
		)

		root := SelectRoot(graph)
		require.NotNil(t, root)
		assert.Equal(t, "alpha", root.ID)
	})

	t.Run("self-parented counts as parentless", func(t *testing.T) {
		graph := viewGraph(
			subgraphPerson("weird", "u", func(p *entities.Person) { p.ParentID = "weird"; p.Children = []string{"kid"} }),
			subgraphPerson("kid", "u", func(p *entities.Person) { p.ParentID = "weird" }),
		)

		root := SelectRoot(graph)
		require.NotNil(t, root)
		assert.Equal(t, "weird", root.ID)
	})

	t.Run("empty subgraph has no root", func(t *testing.T) {
		assert.Nil(t, SelectRoot(map[string]*entities.Person{}))
	})
}

func TestBuildTree(t *testing.T) {
	t.Run("nests children under the root", func(t *testing.T) {
		graph := viewGraph(
			subgraphPerson("root", "u", func(p *entities.Person) { p.IsRoot = true }),
			subgraphPerson("kid-a", "u", func(p *entities.Person) { p.ParentID = "root" }),
			subgraphPerson("kid-b", "u", func(p *entities.Person) { p.ParentID = "root" }),
			subgraphPerson("grandkid", "u", func(p *entities.Person) { p.ParentID = "kid-a" }),
		)

		tree := BuildTree(graph)
		require.NotNil(t, tree)
		assert.Equal(t, "root", tree.ID)
		require.Len(t, tree.Children, 2)
		assert.Equal(t, "kid-a", tree.Children[0].ID)
		require.Len(t, tree.Children[0].Children, 1)
		assert.Equal(t, "grandkid", tree.Children[0].Children[0].ID)
	})

	t.Run("attaches the spouse without expanding it", func(t *testing.T) {
		graph := viewGraph(
			subgraphPerson("root", "u", func(p *entities.Person) { p.IsRoot = true; p.SpouseID = "wife" }),
			subgraphPerson("wife", "u", func(p *entities.Person) { p.SpouseID = "root"; p.Name = "Wife" }),
		)

		tree := BuildTree(graph)
		require.NotNil(t, tree)
		require.NotNil(t, tree.Spouse)
		assert.Equal(t, "wife", tree.Spouse.ID)
		assert.Equal(t, "Wife", tree.Spouse.Name)
		assert.Empty(t, tree.Children)
	})

	t.Run("unadopted step-children stay out of the branch", func(t *testing.T) {
		graph := viewGraph(
			subgraphPerson("root", "u", func(p *entities.Person) {
				p.IsRoot = true
				p.SpouseID = "wife"
			}),
			subgraphPerson("wife", "u", func(p *entities.Person) {
				p.SpouseID = "root"
				p.Children = []string{"step"}
			}),
			subgraphPerson("own", "u", func(p *entities.Person) { p.ParentID = "root" }),
			subgraphPerson("step", "u", nil),
		)

		tree := BuildTree(graph)
		require.NotNil(t, tree)
		require.Len(t, tree.Children, 1)
		assert.Equal(t, "own", tree.Children[0].ID)
	})

	t.Run("survives a parent cycle", func(t *testing.T) {
		graph := viewGraph(
			subgraphPerson("a", "u", func(p *entities.Person) { p.IsRoot = true; p.ParentID = "b" }),
			subgraphPerson("b", "u", func(p *entities.Person) { p.ParentID = "a" }),
		)

		tree := BuildTree(graph)
		require.NotNil(t, tree)
		assert.Equal(t, "a", tree.ID)
		require.Len(t, tree.Children, 1)
		assert.Equal(t, "b", tree.Children[0].ID)
		// The cycle back to a is cut instead of recursing forever.
		assert.Empty(t, tree.Children[0].Children)
	})

	t.Run("empty subgraph builds no tree", func(t *testing.T) {
		assert.Nil(t, BuildTree(map[string]*entities.Person{}))
	})
}
