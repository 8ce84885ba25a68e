package taskgraph

import "context"

// DefaultMaxDepth bounds tree queries when the caller passes no usable depth.
const DefaultMaxDepth = 10

// childrenFunc returns the tasks one edge below id in whichever relation is
// being expanded.
type childrenFunc func(ctx context.Context, id string) ([]Task, error)

type treeNode struct {
	task     Task
	children []*treeNode
}

type treeFrame struct {
	node  *treeNode
	depth int
	exit  bool
}

// buildTree expands root breadth in depth-first order using an explicit stack,
// so termination is a property of the data structure rather than of the graph
// being well-formed. Depth counts edges traversed; nodes at maxDepth keep an
// empty child list. A node already on the current path is emitted but not
// expanded, which stops cycles that slipped past write-time checks while still
// letting diamond-shaped shares expand on every path.
func buildTree(ctx context.Context, root Task, maxDepth int, children childrenFunc) (*treeNode, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	top := &treeNode{task: root}
	stack := []treeFrame{{node: top}}
	onPath := make(map[string]struct{})

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.exit {
			delete(onPath, f.node.task.ID)
			continue
		}

		onPath[f.node.task.ID] = struct{}{}
		stack = append(stack, treeFrame{node: f.node, exit: true})

		if f.depth >= maxDepth {
			continue
		}

		kids, err := children(ctx, f.node.task.ID)
		if err != nil {
			return nil, err
		}
		for _, kid := range kids {
			child := &treeNode{task: kid}
			f.node.children = append(f.node.children, child)
			if _, seen := onPath[kid.ID]; seen {
				continue
			}
			stack = append(stack, treeFrame{node: child, depth: f.depth + 1})
		}
	}

	return top, nil
}

func (n *treeNode) dependencyNode() DependencyNode {
	out := DependencyNode{
		ID:           n.task.ID,
		Title:        n.task.Title,
		Status:       n.task.Status,
		Priority:     n.task.Priority,
		Dependencies: []DependencyNode{},
	}
	for _, c := range n.children {
		out.Dependencies = append(out.Dependencies, c.dependencyNode())
	}
	return out
}

func (n *treeNode) subtaskNode() SubtaskNode {
	out := SubtaskNode{
		ID:       n.task.ID,
		Title:    n.task.Title,
		Status:   n.task.Status,
		Priority: n.task.Priority,
		Subtasks: []SubtaskNode{},
	}
	for _, c := range n.children {
		out.Subtasks = append(out.Subtasks, c.subtaskNode())
	}
	return out
}
