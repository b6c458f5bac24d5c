package staffing

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

const projectColumns = `
    id, project_number, name, description, required_skills,
    start_date, end_date, status, priority, COALESCE(manager_id::text, ''),
    created_at, updated_at`

func scanProject(row pgx.Row) (*Project, error) {
	var p Project
	err := row.Scan(
		&p.ID, &p.ProjectNumber, &p.Name, &p.Description, &p.RequiredSkills,
		&p.StartDate, &p.EndDate, &p.Status, &p.Priority, &p.ManagerID,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if p.RequiredSkills == nil {
		p.RequiredSkills = []string{}
	}
	return &p, nil
}

func (s *Store) GetProject(ctx context.Context, projectID string) (*Project, error) {
	row := s.DB.QueryRow(ctx, "SELECT "+projectColumns+" FROM projects WHERE id = $1", projectID)
	return scanProject(row)
}

func (s *Store) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+projectColumns+" FROM projects ORDER BY start_date DESC NULLS LAST")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

type CreateProjectParams struct {
	ProjectNumber  string
	Name           string
	Description    string
	RequiredSkills []string
	StartDate      *time.Time
	EndDate        *time.Time
	Status         string
	Priority       string
	ManagerID      string
}

func (s *Store) CreateProject(ctx context.Context, params CreateProjectParams) (*Project, error) {
	if params.Status == "" {
		params.Status = ProjectStatusPlanning
	}
	if params.Priority == "" {
		params.Priority = "medium"
	}
	if params.RequiredSkills == nil {
		params.RequiredSkills = []string{}
	}
	var managerID any
	if params.ManagerID != "" {
		managerID = params.ManagerID
	}

	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO projects (project_number, name, description, required_skills, start_date, end_date, status, priority, manager_id)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING id
  `, params.ProjectNumber, params.Name, params.Description, params.RequiredSkills,
		params.StartDate, params.EndDate, params.Status, params.Priority, managerID).Scan(&id)
	if err != nil {
		return nil, err
	}
	return s.GetProject(ctx, id)
}

type UpdateProjectParams struct {
	Name           *string
	Description    *string
	RequiredSkills []string
	StartDate      *time.Time
	EndDate        *time.Time
	Status         *string
	Priority       *string
	ManagerID      *string
}

func (s *Store) UpdateProject(ctx context.Context, projectID string, params UpdateProjectParams) (*Project, error) {
	sets := []string{"updated_at = now()"}
	args := []any{}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.Name != nil {
		add("name", *params.Name)
	}
	if params.Description != nil {
		add("description", *params.Description)
	}
	if params.RequiredSkills != nil {
		add("required_skills", params.RequiredSkills)
	}
	if params.StartDate != nil {
		add("start_date", *params.StartDate)
	}
	if params.EndDate != nil {
		add("end_date", *params.EndDate)
	}
	if params.Status != nil {
		add("status", *params.Status)
	}
	if params.Priority != nil {
		add("priority", *params.Priority)
	}
	if params.ManagerID != nil {
		if *params.ManagerID == "" {
			sets = append(sets, "manager_id = NULL")
		} else {
			add("manager_id", *params.ManagerID)
		}
	}

	args = append(args, projectID)
	query := fmt.Sprintf("UPDATE projects SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	tag, err := s.DB.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return s.GetProject(ctx, projectID)
}

// HighestProjectNumber returns the lexicographically greatest project
// number, which for zero-padded PRJ### identifiers is also the numeric
// maximum. Empty string when no projects exist.
func (s *Store) HighestProjectNumber(ctx context.Context) (string, error) {
	var number string
	err := s.DB.QueryRow(ctx, "SELECT COALESCE(MAX(project_number), '') FROM projects").Scan(&number)
	return number, err
}

func (s *Store) DeleteProject(ctx context.Context, projectID string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM projects WHERE id = $1", projectID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
