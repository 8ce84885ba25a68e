package taskgraph_test

import (
	"testing"

	"github.com/meikuraledutech/taskgraph"
	"github.com/stretchr/testify/require"
)

func TestWouldCreateCycle(t *testing.T) {
	edges := []taskgraph.DependencyEdge{
		{DependentID: "a", DependencyID: "b"},
		{DependentID: "b", DependencyID: "c"},
		{DependentID: "a", DependencyID: "d"},
	}
	adj := taskgraph.BuildAdjacency(edges)

	tests := []struct {
		name     string
		from, to string
		want     bool
	}{
		{"self reference", "a", "a", true},
		{"closes chain", "c", "a", true},
		{"direct back edge", "b", "a", true},
		{"forward shortcut", "a", "c", false},
		{"unrelated pair", "d", "c", false},
		{"unknown nodes", "x", "y", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, taskgraph.WouldCreateCycle(adj, tt.from, tt.to))
		})
	}
}

func TestIsReachableTerminatesOnCyclicInput(t *testing.T) {
	// Already-malformed data: a → b → a. The visited set must bound the walk.
	adj := taskgraph.BuildAdjacency([]taskgraph.DependencyEdge{
		{DependentID: "a", DependencyID: "b"},
		{DependentID: "b", DependencyID: "a"},
	})

	require.True(t, taskgraph.IsReachable(adj, "a", "b"))
	require.False(t, taskgraph.IsReachable(adj, "a", "missing"))
}

func TestIsAncestor(t *testing.T) {
	// root → mid → leaf
	parents := map[string]string{"leaf": "mid", "mid": "root"}

	require.True(t, taskgraph.IsAncestor(parents, "root", "leaf"))
	require.True(t, taskgraph.IsAncestor(parents, "mid", "leaf"))
	require.False(t, taskgraph.IsAncestor(parents, "leaf", "root"))
	require.False(t, taskgraph.IsAncestor(parents, "leaf", "leaf"))
	require.False(t, taskgraph.IsAncestor(parents, "other", "leaf"))
}

func TestIsAncestorTerminatesOnCyclicInput(t *testing.T) {
	parents := map[string]string{"a": "b", "b": "a"}

	require.True(t, taskgraph.IsAncestor(parents, "b", "a"))
	require.False(t, taskgraph.IsAncestor(parents, "c", "a"))
}
