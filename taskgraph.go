package taskgraph

// Task is a unit-of-work record; a node in both the dependency graph and the
// subtask hierarchy.
// SubtaskIDs is derived from the hierarchy relation. It is never written
// directly; stores fill it on reads.
type Task struct {
	ID         string   `json:"id,omitempty"`
	Title      string   `json:"title"`
	Status     string   `json:"status,omitempty"`
	Priority   string   `json:"priority,omitempty"`
	ParentID   string   `json:"parent_id,omitempty"`
	SubtaskIDs []string `json:"subtask_ids,omitempty"`
}

// DependencyEdge is the ordered pair "DependentID depends on DependencyID".
// At most one edge exists per ordered pair, and the full edge set stays acyclic.
type DependencyEdge struct {
	DependentID  string `json:"dependent_id"`
	DependencyID string `json:"dependency_id"`
}

// DependencyNode is one level of a nested dependency-tree query result.
type DependencyNode struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Status       string           `json:"status,omitempty"`
	Priority     string           `json:"priority,omitempty"`
	Dependencies []DependencyNode `json:"dependencies"`
}

// SubtaskNode is one level of a nested subtask-tree query result.
type SubtaskNode struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Status   string        `json:"status,omitempty"`
	Priority string        `json:"priority,omitempty"`
	Subtasks []SubtaskNode `json:"subtasks"`
}
