// Package db provides the database access layer for the Plagiarism Review Service.
// Implements SQLite-based storage for check tasks submitted to the detection
// engine. Aggregated plagiarism data itself is never persisted; only the
// administrator's task submissions are recorded here.
package db

import (
	"database/sql"
	"fmt"
	"time"

	"plagiarism-review/pkg/models"

	_ "github.com/mattn/go-sqlite3"
)

// TaskStore provides database operations for check task records.
type TaskStore struct {
	db *sql.DB // SQLite database connection
}

// NewTaskStore creates and initializes a new task store instance.
// Opens SQLite connection, enables WAL mode for better concurrency, and creates required tables.
func NewTaskStore(dbPath string) (*TaskStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrent access and set busy timeout
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	store := &TaskStore{db: db}
	if err := store.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return store, nil
}

// createTables initializes the check task table and its indexes.
func (s *TaskStore) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS check_tasks (
			id TEXT PRIMARY KEY,
			contest_id TEXT NOT NULL,
			problem_id INTEGER NOT NULL DEFAULT 0,
			language TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS ix_check_tasks_contest ON check_tasks(contest_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS ix_check_tasks_created ON check_tasks(created_at)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query %s: %w", query, err)
		}
	}

	return nil
}

// CreateTask stores a new check task record.
func (s *TaskStore) CreateTask(task *models.CheckTask) error {
	_, err := s.db.Exec(`
		INSERT INTO check_tasks (id, contest_id, problem_id, language, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.ContestID, task.ProblemID, task.Language,
		task.Status, task.CreatedAt, task.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert check task: %w", err)
	}

	return nil
}

// GetTask retrieves a check task by its ID.
func (s *TaskStore) GetTask(id string) (*models.CheckTask, error) {
	row := s.db.QueryRow(`
		SELECT id, contest_id, problem_id, language, status, created_at, updated_at
		FROM check_tasks WHERE id = ?`, id)

	var task models.CheckTask
	err := row.Scan(&task.ID, &task.ContestID, &task.ProblemID, &task.Language,
		&task.Status, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get check task: %w", err)
	}

	return &task, nil
}

// UpdateTaskStatus sets a task's status and bumps its updated_at timestamp.
func (s *TaskStore) UpdateTaskStatus(id, status string) error {
	res, err := s.db.Exec(`
		UPDATE check_tasks SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update check task status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("check task %s not found", id)
	}

	return nil
}

// ListRecentTasks returns the most recently created tasks, newest first.
func (s *TaskStore) ListRecentTasks(limit int) ([]models.CheckTask, error) {
	rows, err := s.db.Query(`
		SELECT id, contest_id, problem_id, language, status, created_at, updated_at
		FROM check_tasks ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list check tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.CheckTask
	for rows.Next() {
		var task models.CheckTask
		if err := rows.Scan(&task.ID, &task.ContestID, &task.ProblemID, &task.Language,
			&task.Status, &task.CreatedAt, &task.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan check task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate check tasks: %w", err)
	}

	return tasks, nil
}

// PruneTasks deletes task records created before the cutoff.
// Called periodically so the store does not grow indefinitely.
func (s *TaskStore) PruneTasks(olderThan time.Time) error {
	_, err := s.db.Exec(`DELETE FROM check_tasks WHERE created_at < ?`, olderThan)
	if err != nil {
		return fmt.Errorf("failed to prune check tasks: %w", err)
	}
	return nil
}

// Ping verifies database connectivity for readiness probes.
func (s *TaskStore) Ping() error {
	return s.db.Ping()
}

// Close closes the underlying database connection.
func (s *TaskStore) Close() error {
	return s.db.Close()
}
