package staffing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

const allocationColumns = `
    a.id, a.employee_id, e.employee_number, a.project_id, p.name,
    a.allocation_percent, a.start_date, a.end_date, a.role, a.status,
    a.match_score, a.match_explanation, a.created_at, a.updated_at`

func scanAllocation(row pgx.Row) (*Allocation, error) {
	var a Allocation
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.EmployeeNumber, &a.ProjectID, &a.ProjectName,
		&a.AllocationPercent, &a.StartDate, &a.EndDate, &a.Role, &a.Status,
		&a.MatchScore, &a.MatchExplanation, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

type AllocationFilter struct {
	EmployeeID string
	ProjectID  string
	Status     string
}

func (s *Store) ListAllocations(ctx context.Context, filter AllocationFilter) ([]Allocation, error) {
	query := `
    SELECT ` + allocationColumns + `
    FROM allocations a
    JOIN employees e ON a.employee_id = e.id
    JOIN projects p ON a.project_id = p.id`
	var clauses []string
	var args []any
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		clauses = append(clauses, fmt.Sprintf("a.employee_id = $%d", len(args)))
	}
	if filter.ProjectID != "" {
		args = append(args, filter.ProjectID)
		clauses = append(clauses, fmt.Sprintf("a.project_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		clauses = append(clauses, fmt.Sprintf("a.status = $%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY a.start_date DESC NULLS LAST"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Allocation{}
	for rows.Next() {
		a, err := scanAllocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (s *Store) GetAllocation(ctx context.Context, allocationID string) (*Allocation, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+allocationColumns+`
    FROM allocations a
    JOIN employees e ON a.employee_id = e.id
    JOIN projects p ON a.project_id = p.id
    WHERE a.id = $1
  `, allocationID)
	return scanAllocation(row)
}

type CreateAllocationParams struct {
	EmployeeID        string
	ProjectID         string
	AllocationPercent int
	StartDate         *time.Time
	EndDate           *time.Time
	Role              string
	Status            string
	MatchScore        *float64
	MatchExplanation  *string
}

func (s *Store) CreateAllocation(ctx context.Context, params CreateAllocationParams) (*Allocation, error) {
	if params.Status == "" {
		params.Status = AllocationStatusPlanned
	}

	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO allocations (employee_id, project_id, allocation_percent, start_date, end_date, role, status, match_score, match_explanation)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING id
  `, params.EmployeeID, params.ProjectID, params.AllocationPercent, params.StartDate, params.EndDate,
		params.Role, params.Status, params.MatchScore, params.MatchExplanation).Scan(&id)
	if err != nil {
		return nil, err
	}

	allocation, err := s.GetAllocation(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ReconcileEmployeeAllocation(ctx, allocation.EmployeeID); err != nil {
		return nil, err
	}
	return allocation, nil
}

type UpdateAllocationParams struct {
	EmployeeID        *string
	ProjectID         *string
	AllocationPercent *int
	StartDate         *time.Time
	EndDate           *time.Time
	Role              *string
	Status            *string
}

// UpdateAllocation applies a partial update and recomputes the rollup
// for the allocation's owner afterwards. A reassignment recomputes the
// new owner only; the previous owner keeps their stored percentage
// until their next allocation write.
func (s *Store) UpdateAllocation(ctx context.Context, allocationID string, params UpdateAllocationParams) (*Allocation, error) {
	sets := []string{"updated_at = now()"}
	args := []any{}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.EmployeeID != nil {
		add("employee_id", *params.EmployeeID)
	}
	if params.ProjectID != nil {
		add("project_id", *params.ProjectID)
	}
	if params.AllocationPercent != nil {
		add("allocation_percent", *params.AllocationPercent)
	}
	if params.StartDate != nil {
		add("start_date", *params.StartDate)
	}
	if params.EndDate != nil {
		add("end_date", *params.EndDate)
	}
	if params.Role != nil {
		add("role", *params.Role)
	}
	if params.Status != nil {
		add("status", *params.Status)
	}

	args = append(args, allocationID)
	query := fmt.Sprintf("UPDATE allocations SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	tag, err := s.DB.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	allocation, err := s.GetAllocation(ctx, allocationID)
	if err != nil {
		return nil, err
	}
	if err := s.ReconcileEmployeeAllocation(ctx, allocation.EmployeeID); err != nil {
		return nil, err
	}
	return allocation, nil
}

func (s *Store) DeleteAllocation(ctx context.Context, allocationID string) error {
	var employeeID string
	err := s.DB.QueryRow(ctx, "DELETE FROM allocations WHERE id = $1 RETURNING employee_id::text", allocationID).Scan(&employeeID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return s.ReconcileEmployeeAllocation(ctx, employeeID)
}

// ReconcileEmployeeAllocation recomputes the employee's
// current_allocation_percent as the sum of planned and active
// allocations. The rows are read in one statement and the employee is
// written in another, with no surrounding transaction; concurrent
// writers to the same employee can leave the stored percentage stale.
// That window is a documented limitation of the system, not something
// this method retries or locks against.
func (s *Store) ReconcileEmployeeAllocation(ctx context.Context, employeeID string) error {
	allocations, err := s.ListAllocations(ctx, AllocationFilter{EmployeeID: employeeID})
	if err != nil {
		return err
	}
	total := TotalAllocationPercent(allocations)

	_, err = s.DB.Exec(ctx, `
    UPDATE employees
    SET current_allocation_percent = $2, updated_at = now()
    WHERE id = $1
  `, employeeID, total)
	return err
}
