package postgres

import "context"

// The FK actions mirror the managers' cascade semantics as a database-level
// backstop: deleting a task strips its dependency edges and orphans its
// children even if a caller bypasses the managers.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS tasks (
    id         TEXT PRIMARY KEY,
    title      TEXT NOT NULL,
    status     TEXT NOT NULL DEFAULT '',
    priority   TEXT NOT NULL DEFAULT '',
    parent_id  TEXT REFERENCES tasks(id) ON DELETE SET NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS task_dependencies (
    dependent_id  TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
    dependency_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (dependent_id, dependency_id)
);

CREATE INDEX IF NOT EXISTS idx_tasks_parent          ON tasks(parent_id);
CREATE INDEX IF NOT EXISTS idx_task_deps_dependent   ON task_dependencies(dependent_id);
CREATE INDEX IF NOT EXISTS idx_task_deps_dependency  ON task_dependencies(dependency_id);
`

// CreateSchema creates the tasks and task_dependencies tables if they don't exist.
func (s *PGStore) CreateSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schemaSQL)
	return err
}

// DropSchema drops the task_dependencies and tasks tables.
func (s *PGStore) DropSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS task_dependencies, tasks CASCADE;`)
	return err
}
