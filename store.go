package taskgraph

import (
	"context"
	"errors"
)

var (
	ErrTaskNotFound    = errors.New("taskgraph: task not found")
	ErrSelfReference   = errors.New("taskgraph: task cannot reference itself")
	ErrEdgeExists      = errors.New("taskgraph: dependency edge already exists")
	ErrEdgeNotFound    = errors.New("taskgraph: dependency edge not found")
	ErrSubtaskNotFound = errors.New("taskgraph: task is not a subtask of the given parent")
	ErrCycleDetected   = errors.New("taskgraph: cycle detected, relation must stay acyclic")
)

// Store defines the contract for persisting task records and the raw edges of
// both relations. It holds no graph invariants of its own: every guarded
// mutation goes through DependencyGraphManager or HierarchyManager, which
// validate against the store before issuing these primitives.
type Store interface {
	// Schema
	CreateSchema(ctx context.Context) error
	DropSchema(ctx context.Context) error

	// Tasks
	CreateTask(ctx context.Context, task *Task) (string, error)
	GetTask(ctx context.Context, id string) (*Task, error)
	ListTasks(ctx context.Context) ([]Task, error)
	DeleteTask(ctx context.Context, id string) error

	// Dependency relation primitives
	HasDependencyEdge(ctx context.Context, dependentID, dependencyID string) (bool, error)
	AddDependencyEdge(ctx context.Context, dependentID, dependencyID string) error
	RemoveDependencyEdge(ctx context.Context, dependentID, dependencyID string) error
	EdgesFrom(ctx context.Context, dependentID string) ([]string, error)
	EdgesTo(ctx context.Context, dependencyID string) ([]string, error)
	DependencyEdges(ctx context.Context) ([]DependencyEdge, error)

	// Hierarchy relation primitives. SetParent with an empty parentID clears
	// the link; "children of X" is derived by scanning parent links, so it has
	// no removal primitive of its own.
	GetParent(ctx context.Context, id string) (string, error)
	SetParent(ctx context.Context, id, parentID string) error
	GetChildren(ctx context.Context, parentID string) ([]Task, error)
	ParentLinks(ctx context.Context) (map[string]string, error)
}
