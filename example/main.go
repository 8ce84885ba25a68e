package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/meikuraledutech/taskgraph"
	"github.com/meikuraledutech/taskgraph/memory"
)

func main() {
	ctx := context.Background()

	// The in-memory store needs no database; swap in postgres.New(pool) for
	// persistence.
	var store taskgraph.Store = memory.New()
	deps := taskgraph.NewDependencyGraphManager(store)
	hier := taskgraph.NewHierarchyManager(store)

	// ── Create a few tasks ────────────────────────────────────────────
	mustCreate(ctx, store, &taskgraph.Task{ID: "release", Title: "Ship v2.0", Status: "open", Priority: "high"})
	mustCreate(ctx, store, &taskgraph.Task{ID: "build", Title: "Build artifacts", Status: "open"})
	mustCreate(ctx, store, &taskgraph.Task{ID: "test", Title: "Run test suite", Status: "open"})
	mustCreate(ctx, store, &taskgraph.Task{ID: "unit", Title: "Unit tests", Status: "open"})

	// ── Dependencies: release → build → test ──────────────────────────
	if err := deps.AddDependency(ctx, "release", "build"); err != nil {
		log.Fatalf("add dependency: %v", err)
	}
	if err := deps.AddDependency(ctx, "build", "test"); err != nil {
		log.Fatalf("add dependency: %v", err)
	}

	// Closing the loop is rejected.
	err := deps.AddDependency(ctx, "test", "release")
	fmt.Printf("test → release rejected: %v (cycle: %v)\n", err, errors.Is(err, taskgraph.ErrCycleDetected))

	tree, err := deps.BuildDependencyTree(ctx, "release", taskgraph.DefaultMaxDepth)
	if err != nil {
		log.Fatalf("dependency tree: %v", err)
	}
	fmt.Println("\ndependency tree of release:")
	printJSON(tree)

	// ── Hierarchy: unit is a subtask of test ──────────────────────────
	if err := hier.AddSubtask(ctx, "test", "unit"); err != nil {
		log.Fatalf("add subtask: %v", err)
	}

	// Making test a subtask of its own subtask is rejected.
	err = hier.AddSubtask(ctx, "unit", "test")
	fmt.Printf("\nunit ⊃ test rejected: %v\n", err)

	subtree, err := hier.BuildSubtree(ctx, "test", taskgraph.DefaultMaxDepth)
	if err != nil {
		log.Fatalf("subtree: %v", err)
	}
	fmt.Println("\nsubtree of test:")
	printJSON(subtree)

	// ── Delete test: edges cascade away, unit is orphaned ─────────────
	if err := deps.CascadeDeleteEdges(ctx, "test"); err != nil {
		log.Fatalf("cascade dependencies: %v", err)
	}
	if err := hier.CascadeDeleteEdges(ctx, "test"); err != nil {
		log.Fatalf("cascade hierarchy: %v", err)
	}
	if err := store.DeleteTask(ctx, "test"); err != nil {
		log.Fatalf("delete task: %v", err)
	}

	remaining, err := deps.ListDependencies(ctx, "build")
	if err != nil {
		log.Fatalf("list dependencies: %v", err)
	}
	fmt.Printf("\nafter deleting test, build depends on %d tasks\n", len(remaining))

	orphan, err := store.GetTask(ctx, "unit")
	if err != nil {
		log.Fatalf("get task: %v", err)
	}
	fmt.Printf("unit parent after delete: %q\n", orphan.ParentID)
}

func mustCreate(ctx context.Context, store taskgraph.Store, t *taskgraph.Task) {
	if _, err := store.CreateTask(ctx, t); err != nil {
		log.Fatalf("create task %s: %v", t.ID, err)
	}
}

func printJSON(v any) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}
