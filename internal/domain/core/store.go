package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

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

func (s *Store) CreateUser(ctx context.Context, email, passwordHash, role, firstName, lastName string) (*User, error) {
	var user User
	err := s.DB.QueryRow(ctx, `
    INSERT INTO users (email, password_hash, role, first_name, last_name)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id, email, role, first_name, last_name, created_at, updated_at
  `, email, passwordHash, role, firstName, lastName).Scan(
		&user.ID, &user.Email, &user.Role, &user.FirstName, &user.LastName, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetUser(ctx context.Context, userID string) (*User, error) {
	var user User
	err := s.DB.QueryRow(ctx, `
    SELECT id, email, role, first_name, last_name, created_at, updated_at
    FROM users
    WHERE id = $1
  `, userID).Scan(&user.ID, &user.Email, &user.Role, &user.FirstName, &user.LastName, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) UserCredentials(ctx context.Context, email string) (id, passwordHash, role, firstName, lastName string, err error) {
	err = s.DB.QueryRow(ctx, `
    SELECT id, password_hash, role, first_name, last_name
    FROM users
    WHERE lower(email) = lower($1)
  `, email).Scan(&id, &passwordHash, &role, &firstName, &lastName)
	if errors.Is(err, pgx.ErrNoRows) {
		err = ErrNotFound
	}
	return
}

const employeeColumns = `
    e.id,
    e.user_id,
    e.employee_number,
    e.job_title,
    e.department,
    e.skills,
    e.hire_date,
    COALESCE(e.manager_id::text, ''),
    e.status,
    e.current_allocation_percent,
    e.phone_number,
    e.attendance,
    u.first_name,
    u.last_name,
    u.email,
    e.created_at,
    e.updated_at`

func scanEmployee(row pgx.Row) (*Employee, error) {
	var emp Employee
	var attendanceJSON []byte
	err := row.Scan(
		&emp.ID, &emp.UserID, &emp.EmployeeNumber, &emp.JobTitle, &emp.Department,
		&emp.Skills, &emp.HireDate, &emp.ManagerID, &emp.Status,
		&emp.CurrentAllocationPercent, &emp.PhoneNumber, &attendanceJSON,
		&emp.FirstName, &emp.LastName, &emp.Email, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(attendanceJSON) > 0 {
		if err := json.Unmarshal(attendanceJSON, &emp.Attendance); err != nil {
			return nil, fmt.Errorf("decode attendance: %w", err)
		}
	}
	if emp.Skills == nil {
		emp.Skills = []string{}
	}
	if emp.Attendance == nil {
		emp.Attendance = []AttendanceRecord{}
	}
	return &emp, nil
}

func (s *Store) GetEmployee(ctx context.Context, employeeID string) (*Employee, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+employeeColumns+`
    FROM employees e
    JOIN users u ON e.user_id = u.id
    WHERE e.id = $1
  `, employeeID)
	return scanEmployee(row)
}

func (s *Store) ListEmployees(ctx context.Context, status string) ([]Employee, error) {
	query := `
    SELECT ` + employeeColumns + `
    FROM employees e
    JOIN users u ON e.user_id = u.id`
	args := []any{}
	if status != "" {
		query += " WHERE e.status = $1"
		args = append(args, status)
	}
	query += " ORDER BY e.employee_number"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Employee{}
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *emp)
	}
	return out, rows.Err()
}

type CreateEmployeeParams struct {
	UserID                   string
	EmployeeNumber           string
	JobTitle                 string
	Department               string
	Skills                   []string
	ManagerID                string
	Status                   string
	CurrentAllocationPercent int
	PhoneNumber              string
}

func (s *Store) CreateEmployee(ctx context.Context, params CreateEmployeeParams) (*Employee, error) {
	if params.Status == "" {
		params.Status = EmployeeStatusOnboarding
	}
	if params.Skills == nil {
		params.Skills = []string{}
	}
	var managerID any
	if params.ManagerID != "" {
		managerID = params.ManagerID
	}

	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (user_id, employee_number, job_title, department, skills, manager_id, status, current_allocation_percent, phone_number)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING id
  `, params.UserID, params.EmployeeNumber, params.JobTitle, params.Department, params.Skills,
		managerID, params.Status, params.CurrentAllocationPercent, params.PhoneNumber).Scan(&id)
	if err != nil {
		return nil, err
	}
	return s.GetEmployee(ctx, id)
}

// UpdateEmployeeParams carries only the fields present in the PATCH
// payload; nil pointers leave the column untouched.
type UpdateEmployeeParams struct {
	JobTitle    *string
	Department  *string
	Skills      []string
	ManagerID   *string
	Status      *string
	PhoneNumber *string
	Attendance  []AttendanceRecord
}

func (s *Store) UpdateEmployee(ctx context.Context, employeeID string, params UpdateEmployeeParams) (*Employee, error) {
	sets := []string{"updated_at = now()"}
	args := []any{}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.JobTitle != nil {
		add("job_title", *params.JobTitle)
	}
	if params.Department != nil {
		add("department", *params.Department)
	}
	if params.Skills != nil {
		add("skills", params.Skills)
	}
	if params.ManagerID != nil {
		if *params.ManagerID == "" {
			sets = append(sets, "manager_id = NULL")
		} else {
			add("manager_id", *params.ManagerID)
		}
	}
	if params.Status != nil {
		add("status", *params.Status)
	}
	if params.PhoneNumber != nil {
		add("phone_number", *params.PhoneNumber)
	}
	if params.Attendance != nil {
		payload, err := json.Marshal(params.Attendance)
		if err != nil {
			return nil, err
		}
		add("attendance", payload)
	}

	args = append(args, employeeID)
	query := fmt.Sprintf("UPDATE employees SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	tag, err := s.DB.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return s.GetEmployee(ctx, employeeID)
}

func (s *Store) DeleteEmployee(ctx context.Context, employeeID string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM employees WHERE id = $1", employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// HighestEmployeeNumber returns the lexicographically greatest employee
// number, which for zero-padded EMP### identifiers is also the numeric
// maximum. Empty string when no employees exist.
func (s *Store) HighestEmployeeNumber(ctx context.Context) (string, error) {
	var number string
	err := s.DB.QueryRow(ctx, "SELECT COALESCE(MAX(employee_number), '') FROM employees").Scan(&number)
	return number, err
}
