package recruitment

import (
	"context"
	"errors"

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

const jobColumns = `
    id, title, department, description, required_skills, status, posted_date, created_at, updated_at`

func scanJob(row pgx.Row) (*JobOpening, error) {
	var j JobOpening
	err := row.Scan(&j.ID, &j.Title, &j.Department, &j.Description, &j.RequiredSkills,
		&j.Status, &j.PostedDate, &j.CreatedAt, &j.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if j.RequiredSkills == nil {
		j.RequiredSkills = []string{}
	}
	return &j, nil
}

// ListOpenJobs returns open positions, newest postings first.
func (s *Store) ListOpenJobs(ctx context.Context) ([]JobOpening, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+jobColumns+`
    FROM job_openings
    WHERE status = $1
    ORDER BY posted_date DESC
  `, JobStatusOpen)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []JobOpening{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *j)
	}
	return out, rows.Err()
}

func (s *Store) GetJob(ctx context.Context, jobID string) (*JobOpening, error) {
	row := s.DB.QueryRow(ctx, "SELECT "+jobColumns+" FROM job_openings WHERE id = $1", jobID)
	return scanJob(row)
}

const resumeColumns = `
    id, name, email, phone, resume_text, skills, experience_years, education, created_at, updated_at`

func scanResume(row pgx.Row) (*MockResume, error) {
	var r MockResume
	err := row.Scan(&r.ID, &r.Name, &r.Email, &r.Phone, &r.ResumeText, &r.Skills,
		&r.ExperienceYears, &r.Education, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if r.Skills == nil {
		r.Skills = []string{}
	}
	return &r, nil
}

func (s *Store) ListResumes(ctx context.Context) ([]MockResume, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+resumeColumns+" FROM mock_resumes ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []MockResume{}
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func (s *Store) GetResume(ctx context.Context, resumeID string) (*MockResume, error) {
	row := s.DB.QueryRow(ctx, "SELECT "+resumeColumns+" FROM mock_resumes WHERE id = $1", resumeID)
	return scanResume(row)
}
