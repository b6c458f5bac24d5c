package performance

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

const reviewColumns = `
    r.id, r.employee_id, e.employee_number, r.reviewer_id, rv.employee_number,
    r.period_start, r.period_end,
    r.score_technical, r.score_communication, r.score_teamwork, r.score_leadership, r.score_initiative,
    r.average_score, r.strengths, r.areas_for_improvement, r.goals, r.status,
    r.created_at, r.updated_at`

const reviewJoins = `
    FROM performance_reviews r
    JOIN employees e ON r.employee_id = e.id
    JOIN employees rv ON r.reviewer_id = rv.id`

func scanReview(row pgx.Row) (*Review, error) {
	var r Review
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.EmployeeNumber, &r.ReviewerID, &r.ReviewerNumber,
		&r.ReviewPeriod.StartDate, &r.ReviewPeriod.EndDate,
		&r.Scores.Technical, &r.Scores.Communication, &r.Scores.Teamwork, &r.Scores.Leadership, &r.Scores.Initiative,
		&r.AverageScore, &r.Strengths, &r.AreasForImprovement, &r.Goals, &r.Status,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) GetReview(ctx context.Context, reviewID string) (*Review, error) {
	row := s.DB.QueryRow(ctx, "SELECT "+reviewColumns+reviewJoins+" WHERE r.id = $1", reviewID)
	return scanReview(row)
}

type ReviewFilter struct {
	EmployeeID string
	Status     string
}

func (s *Store) ListReviews(ctx context.Context, filter ReviewFilter) ([]Review, error) {
	query := "SELECT " + reviewColumns + reviewJoins
	var clauses []string
	var args []any
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		clauses = append(clauses, fmt.Sprintf("r.employee_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		clauses = append(clauses, fmt.Sprintf("r.status = $%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY r.created_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// RecentReviewsByCreation returns up to limit reviews for an employee,
// newest created first. Feeds the fallback risk scorer.
func (s *Store) RecentReviewsByCreation(ctx context.Context, employeeID string, limit int) ([]Review, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+reviewColumns+reviewJoins+`
    WHERE r.employee_id = $1
    ORDER BY r.created_at DESC
    LIMIT $2
  `, employeeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// RecentReviewsByPeriodEnd returns up to limit reviews for an employee,
// most recent review-period end first. Feeds the analysis aggregator.
func (s *Store) RecentReviewsByPeriodEnd(ctx context.Context, employeeID string, limit int) ([]Review, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+reviewColumns+reviewJoins+`
    WHERE r.employee_id = $1
    ORDER BY r.period_end DESC
    LIMIT $2
  `, employeeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

type CreateReviewParams struct {
	EmployeeID  string
	ReviewerID  string
	PeriodStart time.Time
	PeriodEnd   time.Time
	Scores      Scores
	Strengths   string
	Areas       string
	Goals       string
	Status      string
}

func (s *Store) CreateReview(ctx context.Context, params CreateReviewParams) (*Review, error) {
	if params.Status == "" {
		params.Status = ReviewStatusDraft
	}

	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO performance_reviews
      (employee_id, reviewer_id, period_start, period_end,
       score_technical, score_communication, score_teamwork, score_leadership, score_initiative,
       average_score, strengths, areas_for_improvement, goals, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
    RETURNING id
  `, params.EmployeeID, params.ReviewerID, params.PeriodStart, params.PeriodEnd,
		params.Scores.Technical, params.Scores.Communication, params.Scores.Teamwork,
		params.Scores.Leadership, params.Scores.Initiative,
		AverageOf(params.Scores), params.Strengths, params.Areas, params.Goals, params.Status).Scan(&id)
	if err != nil {
		return nil, err
	}
	return s.GetReview(ctx, id)
}

type UpdateReviewParams struct {
	PeriodStart *time.Time
	PeriodEnd   *time.Time
	Scores      *Scores
	Strengths   *string
	Areas       *string
	Goals       *string
	Status      *string
}

func (s *Store) UpdateReview(ctx context.Context, reviewID string, params UpdateReviewParams) (*Review, error) {
	sets := []string{"updated_at = now()"}
	args := []any{}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.PeriodStart != nil {
		add("period_start", *params.PeriodStart)
	}
	if params.PeriodEnd != nil {
		add("period_end", *params.PeriodEnd)
	}
	if params.Scores != nil {
		add("score_technical", params.Scores.Technical)
		add("score_communication", params.Scores.Communication)
		add("score_teamwork", params.Scores.Teamwork)
		add("score_leadership", params.Scores.Leadership)
		add("score_initiative", params.Scores.Initiative)
		add("average_score", AverageOf(*params.Scores))
	}
	if params.Strengths != nil {
		add("strengths", *params.Strengths)
	}
	if params.Areas != nil {
		add("areas_for_improvement", *params.Areas)
	}
	if params.Goals != nil {
		add("goals", *params.Goals)
	}
	if params.Status != nil {
		add("status", *params.Status)
	}

	args = append(args, reviewID)
	query := fmt.Sprintf("UPDATE performance_reviews SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	tag, err := s.DB.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return s.GetReview(ctx, reviewID)
}

func (s *Store) DeleteReview(ctx context.Context, reviewID string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM performance_reviews WHERE id = $1", reviewID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
