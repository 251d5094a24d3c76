package store

import (
	"context"
	"fmt"
	"time"
)

// CreateTask inserts a work item.
func (s *Store) CreateTask(ctx context.Context, task *Task) error {
	if task.Status == "" {
		task.Status = TaskTodo
	}
	if !task.Status.Valid() {
		return fmt.Errorf("%w: task status %q", ErrInvalidStatus, task.Status)
	}
	if task.Priority == "" {
		task.Priority = PriorityMedium
	}
	if !task.Priority.Valid() {
		return fmt.Errorf("%w: priority %q", ErrInvalidStatus, task.Priority)
	}
	if task.MetadataJSON == "" {
		task.MetadataJSON = "{}"
	}
	now := Now()
	task.CreatedAt = now
	task.UpdatedAt = now
	id, err := s.insert(ctx, `
		INSERT INTO tasks (title, description, task_type, status, priority, due_date, assigned_to_id, created_by_id, client_id, estimated_hours, actual_hours, metadata_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		task.Title, task.Description, task.TaskType, task.Status, task.Priority,
		task.DueDate, task.AssignedToID, task.CreatedByID, task.ClientID,
		task.EstimatedHours, task.ActualHours, task.MetadataJSON,
		task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	task.ID = id
	return nil
}

// GetTask loads a task by id.
func (s *Store) GetTask(ctx context.Context, id int64) (*Task, error) {
	var task Task
	if err := s.get(ctx, &task, "SELECT * FROM tasks WHERE id = ?", id); err != nil {
		return nil, notFound(err)
	}
	return &task, nil
}

// TaskFilter narrows ListTasks.
type TaskFilter struct {
	Status       TaskStatus
	Priority     Priority
	AssignedToID int64
	ClientID     int64
}

// ListTasks returns tasks matching the filter, newest first.
func (s *Store) ListTasks(ctx context.Context, filter TaskFilter, page Page) ([]Task, error) {
	page = page.normalize()
	query := "SELECT * FROM tasks WHERE 1=1"
	args := []any{}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.Priority != "" {
		query += " AND priority = ?"
		args = append(args, filter.Priority)
	}
	if filter.AssignedToID != 0 {
		query += " AND assigned_to_id = ?"
		args = append(args, filter.AssignedToID)
	}
	if filter.ClientID != 0 {
		query += " AND client_id = ?"
		args = append(args, filter.ClientID)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, page.Limit, page.Offset)

	tasks := []Task{}
	if err := s.list(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask saves mutable task fields.
func (s *Store) UpdateTask(ctx context.Context, task *Task) error {
	if !task.Status.Valid() {
		return fmt.Errorf("%w: task status %q", ErrInvalidStatus, task.Status)
	}
	if !task.Priority.Valid() {
		return fmt.Errorf("%w: priority %q", ErrInvalidStatus, task.Priority)
	}
	task.UpdatedAt = Now()
	affected, err := s.exec(ctx, `
		UPDATE tasks SET title = ?, description = ?, task_type = ?, status = ?, priority = ?, due_date = ?, assigned_to_id = ?, client_id = ?, estimated_hours = ?, actual_hours = ?, metadata_json = ?, updated_at = ?
		WHERE id = ?`,
		task.Title, task.Description, task.TaskType, task.Status, task.Priority,
		task.DueDate, task.AssignedToID, task.ClientID, task.EstimatedHours,
		task.ActualHours, task.MetadataJSON, task.UpdatedAt, task.ID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTask removes a task.
func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	affected, err := s.exec(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// TaskStats summarizes one employee's task record over a period. Feeds the
// performance calculator.
type TaskStats struct {
	Assigned            int
	Completed           int
	Overdue             int
	TotalEstimatedHours float64
	TotalActualHours    float64
}

// TaskStatsForEmployee aggregates task counts for one assignee in a period.
func (s *Store) TaskStatsForEmployee(ctx context.Context, employeeID int64, start, end time.Time) (*TaskStats, error) {
	var stats TaskStats
	row := struct {
		Assigned       int     `db:"assigned"`
		Completed      int     `db:"completed"`
		Overdue        int     `db:"overdue"`
		EstimatedHours float64 `db:"estimated_hours"`
		ActualHours    float64 `db:"actual_hours"`
	}{}
	err := s.get(ctx, &row, `
		SELECT
			COUNT(1) AS assigned,
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0) AS completed,
			COALESCE(SUM(CASE WHEN status NOT IN ('completed', 'cancelled') AND due_date IS NOT NULL AND due_date < ? THEN 1 ELSE 0 END), 0) AS overdue,
			COALESCE(SUM(estimated_hours), 0) AS estimated_hours,
			COALESCE(SUM(actual_hours), 0) AS actual_hours
		FROM tasks
		WHERE assigned_to_id = ? AND created_at >= ? AND created_at < ?`,
		NewTime(end), employeeID, NewTime(start), NewTime(end))
	if err != nil {
		return nil, fmt.Errorf("task stats: %w", err)
	}
	stats = TaskStats{
		Assigned:            row.Assigned,
		Completed:           row.Completed,
		Overdue:             row.Overdue,
		TotalEstimatedHours: row.EstimatedHours,
		TotalActualHours:    row.ActualHours,
	}
	return &stats, nil
}

// CountTasksByStatus groups task totals by status.
func (s *Store) CountTasksByStatus(ctx context.Context) (map[TaskStatus]int, error) {
	rows := []struct {
		Status TaskStatus `db:"status"`
		Count  int        `db:"count"`
	}{}
	err := s.list(ctx, &rows, "SELECT status, COUNT(1) AS count FROM tasks GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}
	counts := make(map[TaskStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
