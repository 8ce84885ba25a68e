package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/meikuraledutech/taskgraph"
	"github.com/meikuraledutech/taskgraph/postgres"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Error("DATABASE_URL is not set")
		os.Exit(1)
	}
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":3000"
	}

	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		logger.Error("connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	var store taskgraph.Store = postgres.New(pool)
	deps := taskgraph.NewDependencyGraphManager(store)
	hier := taskgraph.NewHierarchyManager(store)

	app := newApp(store, deps, hier)

	logger.Info("listening", "addr", addr)
	if err := app.Listen(addr); err != nil {
		logger.Error("listen", "err", err)
		os.Exit(1)
	}
}

func newApp(store taskgraph.Store, deps *taskgraph.DependencyGraphManager, hier *taskgraph.HierarchyManager) *fiber.App {
	app := fiber.New()

	// ── Schema ────────────────────────────────────────────────────────
	app.Post("/schema", func(c fiber.Ctx) error {
		if err := store.CreateSchema(c.Context()); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"message": "schema created"})
	})

	app.Delete("/schema", func(c fiber.Ctx) error {
		if err := store.DropSchema(c.Context()); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"message": "schema dropped"})
	})

	// ── Tasks ─────────────────────────────────────────────────────────
	app.Post("/tasks", func(c fiber.Ctx) error {
		var task taskgraph.Task
		if err := c.Bind().JSON(&task); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		id, err := store.CreateTask(c.Context(), &task)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(201).JSON(fiber.Map{"id": id})
	})

	app.Get("/tasks", func(c fiber.Ctx) error {
		tasks, err := store.ListTasks(c.Context())
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(tasks)
	})

	app.Get("/tasks/:id", func(c fiber.Ctx) error {
		t, err := store.GetTask(c.Context(), param(c, "id"))
		if err != nil {
			return fail(c, err)
		}
		if t == nil {
			return fail(c, taskgraph.ErrTaskNotFound)
		}
		return c.JSON(t)
	})

	// Deleting a task cascades both relations before the record goes: every
	// dependency edge touching it is removed and its children are orphaned.
	app.Delete("/tasks/:id", func(c fiber.Ctx) error {
		id := param(c, "id")
		if err := deps.CascadeDeleteEdges(c.Context(), id); err != nil {
			return fail(c, err)
		}
		if err := hier.CascadeDeleteEdges(c.Context(), id); err != nil {
			return fail(c, err)
		}
		if err := store.DeleteTask(c.Context(), id); err != nil {
			return fail(c, err)
		}
		return c.SendStatus(204)
	})

	// ── Dependencies ──────────────────────────────────────────────────
	app.Post("/tasks/:id/dependencies/:depId", func(c fiber.Ctx) error {
		if err := deps.AddDependency(c.Context(), param(c, "id"), param(c, "depId")); err != nil {
			return fail(c, err)
		}
		return c.SendStatus(201)
	})

	app.Delete("/tasks/:id/dependencies/:depId", func(c fiber.Ctx) error {
		if err := deps.RemoveDependency(c.Context(), param(c, "id"), param(c, "depId")); err != nil {
			return fail(c, err)
		}
		return c.SendStatus(204)
	})

	app.Get("/tasks/:id/dependencies", func(c fiber.Ctx) error {
		tasks, err := deps.ListDependencies(c.Context(), param(c, "id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(tasks)
	})

	app.Get("/tasks/:id/dependents", func(c fiber.Ctx) error {
		tasks, err := deps.ListDependents(c.Context(), param(c, "id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(tasks)
	})

	app.Get("/tasks/:id/dependency-tree", func(c fiber.Ctx) error {
		tree, err := deps.BuildDependencyTree(c.Context(), param(c, "id"), maxDepth(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(tree)
	})

	// ── Subtasks ──────────────────────────────────────────────────────
	app.Post("/tasks/:id/subtasks/:childId", func(c fiber.Ctx) error {
		if err := hier.AddSubtask(c.Context(), param(c, "id"), param(c, "childId")); err != nil {
			return fail(c, err)
		}
		return c.SendStatus(201)
	})

	app.Delete("/tasks/:id/subtasks/:childId", func(c fiber.Ctx) error {
		if err := hier.RemoveSubtask(c.Context(), param(c, "id"), param(c, "childId")); err != nil {
			return fail(c, err)
		}
		return c.SendStatus(204)
	})

	app.Get("/tasks/:id/subtasks", func(c fiber.Ctx) error {
		tasks, err := hier.GetChildren(c.Context(), param(c, "id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(tasks)
	})

	app.Get("/tasks/:id/subtask-tree", func(c fiber.Ctx) error {
		tree, err := hier.BuildSubtree(c.Context(), param(c, "id"), maxDepth(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(tree)
	})

	app.Get("/tasks/:id/parent", func(c fiber.Ctx) error {
		parent, err := hier.GetParent(c.Context(), param(c, "id"))
		if err != nil {
			return fail(c, err)
		}
		if parent == nil {
			return c.JSON(fiber.Map{"parent": nil})
		}
		return c.JSON(parent)
	})

	return app
}

// fail maps the taskgraph error taxonomy onto HTTP statuses. Duplicate edges
// map to 409 rather than 400: the request is well-formed, it conflicts with
// existing relation state.
func fail(c fiber.Ctx, err error) error {
	status := 500
	switch {
	case errors.Is(err, taskgraph.ErrTaskNotFound),
		errors.Is(err, taskgraph.ErrEdgeNotFound),
		errors.Is(err, taskgraph.ErrSubtaskNotFound):
		status = 404
	case errors.Is(err, taskgraph.ErrSelfReference),
		errors.Is(err, taskgraph.ErrCycleDetected):
		status = 400
	case errors.Is(err, taskgraph.ErrEdgeExists):
		status = 409
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// param copies a route parameter out of fiber's reusable request buffer so
// the stores can retain it past the handler.
func param(c fiber.Ctx, name string) string {
	return strings.Clone(c.Params(name))
}

func maxDepth(c fiber.Ctx) int {
	raw := c.Query("maxDepth")
	if raw == "" {
		return taskgraph.DefaultMaxDepth
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return taskgraph.DefaultMaxDepth
	}
	return n
}
