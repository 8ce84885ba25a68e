package taskgraph_test

import (
	"context"
	"testing"

	"github.com/meikuraledutech/taskgraph"
	"github.com/meikuraledutech/taskgraph/memory"
	"github.com/stretchr/testify/require"
)

func newDepFixture(t *testing.T, ids ...string) (*memory.MemStore, *taskgraph.DependencyGraphManager) {
	t.Helper()
	store := memory.New()
	for _, id := range ids {
		_, err := store.CreateTask(context.Background(), &taskgraph.Task{ID: id, Title: "task " + id})
		require.NoError(t, err)
	}
	return store, taskgraph.NewDependencyGraphManager(store)
}

func taskIDs(tasks []taskgraph.Task) []string {
	ids := []string{}
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	return ids
}

func TestAddDependency(t *testing.T) {
	ctx := context.Background()
	_, mgr := newDepFixture(t, "t1", "t2")

	require.NoError(t, mgr.AddDependency(ctx, "t1", "t2"))

	deps, err := mgr.ListDependencies(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, []string{"t2"}, taskIDs(deps))
}

func TestAddDependencyValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown dependent", func(t *testing.T) {
		_, mgr := newDepFixture(t, "t1")
		require.ErrorIs(t, mgr.AddDependency(ctx, "missing", "t1"), taskgraph.ErrTaskNotFound)
	})

	t.Run("unknown dependency", func(t *testing.T) {
		_, mgr := newDepFixture(t, "t1")
		require.ErrorIs(t, mgr.AddDependency(ctx, "t1", "missing"), taskgraph.ErrTaskNotFound)
	})

	t.Run("self reference", func(t *testing.T) {
		_, mgr := newDepFixture(t, "t1")
		require.ErrorIs(t, mgr.AddDependency(ctx, "t1", "t1"), taskgraph.ErrSelfReference)
	})

	t.Run("duplicate edge", func(t *testing.T) {
		_, mgr := newDepFixture(t, "t1", "t2")
		require.NoError(t, mgr.AddDependency(ctx, "t1", "t2"))
		require.ErrorIs(t, mgr.AddDependency(ctx, "t1", "t2"), taskgraph.ErrEdgeExists)
	})
}

func TestAddDependencyCycleDetection(t *testing.T) {
	ctx := context.Background()

	t.Run("two node loop", func(t *testing.T) {
		_, mgr := newDepFixture(t, "t1", "t2")
		require.NoError(t, mgr.AddDependency(ctx, "t1", "t2"))
		require.ErrorIs(t, mgr.AddDependency(ctx, "t2", "t1"), taskgraph.ErrCycleDetected)
	})

	t.Run("three node loop", func(t *testing.T) {
		_, mgr := newDepFixture(t, "a", "b", "c")
		require.NoError(t, mgr.AddDependency(ctx, "a", "b"))
		require.NoError(t, mgr.AddDependency(ctx, "b", "c"))
		require.ErrorIs(t, mgr.AddDependency(ctx, "c", "a"), taskgraph.ErrCycleDetected)
	})

	t.Run("diamond is legal", func(t *testing.T) {
		_, mgr := newDepFixture(t, "a", "b", "c", "d")
		require.NoError(t, mgr.AddDependency(ctx, "a", "b"))
		require.NoError(t, mgr.AddDependency(ctx, "a", "c"))
		require.NoError(t, mgr.AddDependency(ctx, "b", "d"))
		require.NoError(t, mgr.AddDependency(ctx, "c", "d"))
	})

	t.Run("forward shortcut is legal", func(t *testing.T) {
		_, mgr := newDepFixture(t, "a", "b", "c")
		require.NoError(t, mgr.AddDependency(ctx, "a", "b"))
		require.NoError(t, mgr.AddDependency(ctx, "b", "c"))
		require.NoError(t, mgr.AddDependency(ctx, "a", "c"))
	})
}

func TestRemoveDependency(t *testing.T) {
	ctx := context.Background()
	_, mgr := newDepFixture(t, "t1", "t2")

	require.NoError(t, mgr.AddDependency(ctx, "t1", "t2"))
	require.NoError(t, mgr.RemoveDependency(ctx, "t1", "t2"))

	deps, err := mgr.ListDependencies(ctx, "t1")
	require.NoError(t, err)
	require.Empty(t, deps)

	require.ErrorIs(t, mgr.RemoveDependency(ctx, "t1", "t2"), taskgraph.ErrEdgeNotFound)
	require.ErrorIs(t, mgr.RemoveDependency(ctx, "t1", "missing"), taskgraph.ErrTaskNotFound)
}

func TestListDependents(t *testing.T) {
	ctx := context.Background()
	_, mgr := newDepFixture(t, "a", "b", "c")

	require.NoError(t, mgr.AddDependency(ctx, "a", "c"))
	require.NoError(t, mgr.AddDependency(ctx, "b", "c"))

	dependents, err := mgr.ListDependents(ctx, "c")
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, taskIDs(dependents))

	_, err = mgr.ListDependents(ctx, "missing")
	require.ErrorIs(t, err, taskgraph.ErrTaskNotFound)
}

func TestCascadeDeleteEdges(t *testing.T) {
	ctx := context.Background()
	store, mgr := newDepFixture(t, "a", "b", "c")

	// a → b, b → c: b is both a dependency and a dependent.
	require.NoError(t, mgr.AddDependency(ctx, "a", "b"))
	require.NoError(t, mgr.AddDependency(ctx, "b", "c"))

	require.NoError(t, mgr.CascadeDeleteEdges(ctx, "b"))
	require.NoError(t, store.DeleteTask(ctx, "b"))

	deps, err := mgr.ListDependencies(ctx, "a")
	require.NoError(t, err)
	require.Empty(t, deps)

	dependents, err := mgr.ListDependents(ctx, "c")
	require.NoError(t, err)
	require.Empty(t, dependents)

	edges, err := store.DependencyEdges(ctx)
	require.NoError(t, err)
	require.Empty(t, edges)
}

func TestBuildDependencyTree(t *testing.T) {
	ctx := context.Background()
	_, mgr := newDepFixture(t, "a", "b", "c")

	require.NoError(t, mgr.AddDependency(ctx, "a", "b"))
	require.NoError(t, mgr.AddDependency(ctx, "b", "c"))

	tree, err := mgr.BuildDependencyTree(ctx, "a", taskgraph.DefaultMaxDepth)
	require.NoError(t, err)

	require.Equal(t, "a", tree.ID)
	require.Len(t, tree.Dependencies, 1)
	require.Equal(t, "b", tree.Dependencies[0].ID)
	require.Len(t, tree.Dependencies[0].Dependencies, 1)
	require.Equal(t, "c", tree.Dependencies[0].Dependencies[0].ID)
	require.Empty(t, tree.Dependencies[0].Dependencies[0].Dependencies)

	_, err = mgr.BuildDependencyTree(ctx, "missing", taskgraph.DefaultMaxDepth)
	require.ErrorIs(t, err, taskgraph.ErrTaskNotFound)
}

func TestBuildDependencyTreeDepthBound(t *testing.T) {
	ctx := context.Background()
	_, mgr := newDepFixture(t, "a", "b", "c", "d")

	require.NoError(t, mgr.AddDependency(ctx, "a", "b"))
	require.NoError(t, mgr.AddDependency(ctx, "b", "c"))
	require.NoError(t, mgr.AddDependency(ctx, "c", "d"))

	// Depth counts edges: maxDepth=1 stops after a's direct dependencies,
	// which come back with empty lists rather than an error.
	tree, err := mgr.BuildDependencyTree(ctx, "a", 1)
	require.NoError(t, err)
	require.Len(t, tree.Dependencies, 1)
	require.Equal(t, "b", tree.Dependencies[0].ID)
	require.Empty(t, tree.Dependencies[0].Dependencies)
}

func TestBuildDependencyTreeDiamondExpandsBothPaths(t *testing.T) {
	ctx := context.Background()
	_, mgr := newDepFixture(t, "a", "b", "c", "d")

	require.NoError(t, mgr.AddDependency(ctx, "a", "b"))
	require.NoError(t, mgr.AddDependency(ctx, "a", "c"))
	require.NoError(t, mgr.AddDependency(ctx, "b", "d"))
	require.NoError(t, mgr.AddDependency(ctx, "c", "d"))

	tree, err := mgr.BuildDependencyTree(ctx, "a", taskgraph.DefaultMaxDepth)
	require.NoError(t, err)
	require.Len(t, tree.Dependencies, 2)

	// d is not on its own path twice, so it appears under both b and c.
	for _, branch := range tree.Dependencies {
		require.Len(t, branch.Dependencies, 1)
		require.Equal(t, "d", branch.Dependencies[0].ID)
	}
}

func TestBuildDependencyTreeSurvivesCorruptedGraph(t *testing.T) {
	ctx := context.Background()
	store, mgr := newDepFixture(t, "a", "b")

	// Simulate the write-time guard being raced past: a ↔ b.
	store.AddDependencyEdgeUnchecked("a", "b")
	store.AddDependencyEdgeUnchecked("b", "a")

	tree, err := mgr.BuildDependencyTree(ctx, "a", taskgraph.DefaultMaxDepth)
	require.NoError(t, err)

	// The repeated node terminates its branch with an empty list.
	require.Len(t, tree.Dependencies, 1)
	require.Equal(t, "b", tree.Dependencies[0].ID)
	require.Len(t, tree.Dependencies[0].Dependencies, 1)
	require.Equal(t, "a", tree.Dependencies[0].Dependencies[0].ID)
	require.Empty(t, tree.Dependencies[0].Dependencies[0].Dependencies)
}
