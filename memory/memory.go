// Package memory implements taskgraph.Store with in-process maps guarded by a
// single RWMutex. It backs the test suites and the example, and works as an
// embedded store for callers that don't need persistence.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/meikuraledutech/taskgraph"
)

// MemStore implements taskgraph.Store in memory. The zero value is not usable;
// call New.
type MemStore struct {
	mu    sync.RWMutex
	tasks map[string]taskgraph.Task
	order []string // task ids in creation order, for stable listings
	edges []taskgraph.DependencyEdge
}

func New() *MemStore {
	return &MemStore{tasks: make(map[string]taskgraph.Task)}
}

// CreateSchema is a no-op; the maps exist from New.
func (s *MemStore) CreateSchema(ctx context.Context) error { return nil }

// DropSchema discards all tasks and edges.
func (s *MemStore) DropSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = make(map[string]taskgraph.Task)
	s.order = nil
	s.edges = nil
	return nil
}

// CreateTask stores a task. If task.ID is empty, a UUID is auto-generated.
// Returns the task ID (generated or provided).
// ParentID and SubtaskIDs are relation state and are ignored at create; the
// hierarchy is only written through SetParent.
// Fails if the id is already taken, matching the postgres primary key.
func (s *MemStore) CreateTask(ctx context.Context, task *taskgraph.Task) (string, error) {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[task.ID]; ok {
		return "", fmt.Errorf("taskgraph: insert task: id %s already exists", task.ID)
	}
	s.order = append(s.order, task.ID)
	t := *task
	t.ParentID = ""
	t.SubtaskIDs = nil
	s.tasks[task.ID] = t
	return task.ID, nil
}

// GetTask fetches a task by ID with its derived SubtaskIDs filled in.
// Returns nil, nil if not found.
func (s *MemStore) GetTask(ctx context.Context, id string) (*taskgraph.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, nil
	}
	t.SubtaskIDs = s.childIDsLocked(id)
	return &t, nil
}

// ListTasks returns all tasks in creation order.
// Returns an empty slice (not nil) if none exist.
func (s *MemStore) ListTasks(ctx context.Context) ([]taskgraph.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tasks := []taskgraph.Task{}
	for _, id := range s.order {
		t := s.tasks[id]
		t.SubtaskIDs = s.childIDsLocked(id)
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// DeleteTask removes the task record only; relation cleanup is the managers'
// cascade. No error if the task doesn't exist.
func (s *MemStore) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return nil
	}
	delete(s.tasks, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemStore) HasDependencyEdge(ctx context.Context, dependentID, dependencyID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.edgeIndexLocked(dependentID, dependencyID) >= 0, nil
}

func (s *MemStore) AddDependencyEdge(ctx context.Context, dependentID, dependencyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edgeIndexLocked(dependentID, dependencyID) >= 0 {
		return nil
	}
	s.edges = append(s.edges, taskgraph.DependencyEdge{DependentID: dependentID, DependencyID: dependencyID})
	return nil
}

func (s *MemStore) RemoveDependencyEdge(ctx context.Context, dependentID, dependencyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.edgeIndexLocked(dependentID, dependencyID); i >= 0 {
		s.edges = append(s.edges[:i], s.edges[i+1:]...)
	}
	return nil
}

// EdgesFrom returns the ids dependentID depends on, in insertion order.
func (s *MemStore) EdgesFrom(ctx context.Context, dependentID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := []string{}
	for _, e := range s.edges {
		if e.DependentID == dependentID {
			ids = append(ids, e.DependencyID)
		}
	}
	return ids, nil
}

// EdgesTo returns the ids that depend on dependencyID, in insertion order.
func (s *MemStore) EdgesTo(ctx context.Context, dependencyID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := []string{}
	for _, e := range s.edges {
		if e.DependencyID == dependencyID {
			ids = append(ids, e.DependentID)
		}
	}
	return ids, nil
}

// DependencyEdges returns a snapshot of the full edge set.
func (s *MemStore) DependencyEdges(ctx context.Context) ([]taskgraph.DependencyEdge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	edges := make([]taskgraph.DependencyEdge, len(s.edges))
	copy(edges, s.edges)
	return edges, nil
}

// GetParent returns the parent id of a task, or "" when it has none or the
// task is unknown.
func (s *MemStore) GetParent(ctx context.Context, id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tasks[id].ParentID, nil
}

// SetParent sets or, with an empty parentID, clears a task's parent link.
func (s *MemStore) SetParent(ctx context.Context, id, parentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil
	}
	t.ParentID = parentID
	s.tasks[id] = t
	return nil
}

// GetChildren returns the tasks whose parent is parentID, in creation order.
func (s *MemStore) GetChildren(ctx context.Context, parentID string) ([]taskgraph.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	children := []taskgraph.Task{}
	for _, id := range s.order {
		if s.tasks[id].ParentID == parentID {
			t := s.tasks[id]
			t.SubtaskIDs = s.childIDsLocked(id)
			children = append(children, t)
		}
	}
	return children, nil
}

// ParentLinks returns a child→parent snapshot of the hierarchy relation.
func (s *MemStore) ParentLinks(ctx context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	links := make(map[string]string)
	for id, t := range s.tasks {
		if t.ParentID != "" {
			links[id] = t.ParentID
		}
	}
	return links, nil
}

// SetParentUnchecked bypasses every manager guard. Test hook for building
// deliberately malformed graphs; never call it from production code.
func (s *MemStore) SetParentUnchecked(id, parentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tasks[id]; ok {
		t.ParentID = parentID
		s.tasks[id] = t
	}
}

// AddDependencyEdgeUnchecked appends an edge without any cycle or duplicate
// guard. Test hook, as above.
func (s *MemStore) AddDependencyEdgeUnchecked(dependentID, dependencyID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edges = append(s.edges, taskgraph.DependencyEdge{DependentID: dependentID, DependencyID: dependencyID})
}

func (s *MemStore) edgeIndexLocked(dependentID, dependencyID string) int {
	for i, e := range s.edges {
		if e.DependentID == dependentID && e.DependencyID == dependencyID {
			return i
		}
	}
	return -1
}

func (s *MemStore) childIDsLocked(parentID string) []string {
	var ids []string
	for _, id := range s.order {
		if s.tasks[id].ParentID == parentID {
			ids = append(ids, id)
		}
	}
	return ids
}
