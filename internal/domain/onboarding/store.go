package onboarding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const taskColumns = `
    id, employee_id, phase, title, description, duration, status,
    due_date, start_date, completed_at, COALESCE(assigned_to::text, ''),
    generated_by_ai, task_order, created_at, updated_at`

func scanTask(row pgx.Row) (*Task, error) {
	var t Task
	err := row.Scan(
		&t.ID, &t.EmployeeID, &t.Phase, &t.Title, &t.Description, &t.Duration, &t.Status,
		&t.DueDate, &t.StartDate, &t.CompletedAt, &t.AssignedTo,
		&t.GeneratedByAI, &t.Order, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) GetTask(ctx context.Context, taskID string) (*Task, error) {
	row := s.DB.QueryRow(ctx, "SELECT "+taskColumns+" FROM onboarding_tasks WHERE id = $1", taskID)
	return scanTask(row)
}

// ListByEmployee returns an employee's tasks ordered by phase then task
// order, the presentation order of the onboarding checklist.
func (s *Store) ListByEmployee(ctx context.Context, employeeID string) ([]Task, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+taskColumns+`
    FROM onboarding_tasks
    WHERE employee_id = $1
    ORDER BY array_position($2::text[], phase), task_order
  `, employeeID, Phases)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

type CreateTaskParams struct {
	EmployeeID    string
	Phase         string
	Title         string
	Description   string
	Duration      string
	Status        string
	DueDate       *time.Time
	StartDate     *time.Time
	AssignedTo    string
	GeneratedByAI bool
	Order         int
}

func (s *Store) CreateTask(ctx context.Context, params CreateTaskParams) (*Task, error) {
	if params.Status == "" {
		params.Status = StatusPending
	}
	var assignedTo any
	if params.AssignedTo != "" {
		assignedTo = params.AssignedTo
	}

	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO onboarding_tasks (employee_id, phase, title, description, duration, status, due_date, start_date, assigned_to, generated_by_ai, task_order)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    RETURNING id
  `, params.EmployeeID, params.Phase, params.Title, params.Description, params.Duration,
		params.Status, params.DueDate, params.StartDate, assignedTo, params.GeneratedByAI, params.Order).Scan(&id)
	if err != nil {
		return nil, err
	}
	return s.GetTask(ctx, id)
}

// BulkCreate inserts every task in one transaction; either the whole
// checklist lands or none of it does.
func (s *Store) BulkCreate(ctx context.Context, employeeID string, tasks []CreateTaskParams) ([]Task, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ids := make([]string, 0, len(tasks))
	for _, params := range tasks {
		if params.Status == "" {
			params.Status = StatusPending
		}
		var assignedTo any
		if params.AssignedTo != "" {
			assignedTo = params.AssignedTo
		}
		var id string
		err := tx.QueryRow(ctx, `
      INSERT INTO onboarding_tasks (employee_id, phase, title, description, duration, status, due_date, start_date, assigned_to, generated_by_ai, task_order)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
      RETURNING id
    `, employeeID, params.Phase, params.Title, params.Description, params.Duration,
			params.Status, params.DueDate, params.StartDate, assignedTo, params.GeneratedByAI, params.Order).Scan(&id)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	out := make([]Task, 0, len(ids))
	for _, id := range ids {
		task, err := s.GetTask(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, *task)
	}
	return out, nil
}

type UpdateTaskParams struct {
	Phase       *string
	Title       *string
	Description *string
	Duration    *string
	Status      *string
	DueDate     *time.Time
	StartDate   *time.Time
	CompletedAt *time.Time
	AssignedTo  *string
	Order       *int
}

func (s *Store) UpdateTask(ctx context.Context, taskID string, params UpdateTaskParams) (*Task, error) {
	sets := []string{"updated_at = now()"}
	args := []any{}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.Phase != nil {
		add("phase", *params.Phase)
	}
	if params.Title != nil {
		add("title", *params.Title)
	}
	if params.Description != nil {
		add("description", *params.Description)
	}
	if params.Duration != nil {
		add("duration", *params.Duration)
	}
	if params.Status != nil {
		add("status", *params.Status)
	}
	if params.DueDate != nil {
		add("due_date", *params.DueDate)
	}
	if params.StartDate != nil {
		add("start_date", *params.StartDate)
	}
	if params.CompletedAt != nil {
		add("completed_at", *params.CompletedAt)
	}
	if params.AssignedTo != nil {
		if *params.AssignedTo == "" {
			sets = append(sets, "assigned_to = NULL")
		} else {
			add("assigned_to", *params.AssignedTo)
		}
	}
	if params.Order != nil {
		add("task_order", *params.Order)
	}

	args = append(args, taskID)
	query := fmt.Sprintf("UPDATE onboarding_tasks SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	tag, err := s.DB.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return s.GetTask(ctx, taskID)
}

func (s *Store) DeleteTask(ctx context.Context, taskID string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM onboarding_tasks WHERE id = $1", taskID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
