package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AICall captures the metadata of one upstream AI-service call,
// successful or substituted by a local fallback.
type AICall struct {
	Service    string `json:"service"`
	Endpoint   string `json:"endpoint"`
	DurationMs int64  `json:"duration"`
	Fallback   bool   `json:"fallback"`
	ModelUsed  string `json:"modelUsed,omitempty"`
}

type Entry struct {
	ID         string    `json:"id"`
	RequestID  string    `json:"requestId"`
	UserID     string    `json:"userId,omitempty"`
	Action     string    `json:"action"`
	Endpoint   string    `json:"endpoint"`
	Method     string    `json:"method"`
	StatusCode int       `json:"statusCode"`
	IPAddress  string    `json:"ipAddress,omitempty"`
	UserAgent  string    `json:"userAgent,omitempty"`
	AICall     *AICall   `json:"aiCall,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Filter struct {
	Action   string
	Endpoint string
	UserID   string
}

// Stats summarizes AI-service traffic over a trailing window for the
// /api/ai/health endpoint.
type Stats struct {
	TotalCalls    int    `json:"totalCalls"`
	FallbackCalls int    `json:"fallbackCalls"`
	SuccessRate   string `json:"successRate"`
}

type Service struct {
	DB *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Service {
	return &Service{DB: db}
}

func (s *Service) Record(ctx context.Context, entry Entry) error {
	var userID any
	if entry.UserID != "" {
		userID = entry.UserID
	}
	var aiCallJSON []byte
	if entry.AICall != nil {
		payload, err := json.Marshal(entry.AICall)
		if err != nil {
			return err
		}
		aiCallJSON = payload
	}

	_, err := s.DB.Exec(ctx, `
    INSERT INTO audit_logs (request_id, user_id, action, endpoint, method, status_code, ip_address, user_agent, ai_call)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
  `, entry.RequestID, userID, entry.Action, entry.Endpoint, entry.Method, entry.StatusCode,
		entry.IPAddress, entry.UserAgent, aiCallJSON)
	return err
}

func (s *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]Entry, error) {
	query := `
    SELECT id, request_id, COALESCE(user_id::text, ''), action, endpoint, method, status_code, ip_address, user_agent, ai_call, created_at
    FROM audit_logs`
	args := []any{}
	where := ""
	addClause := func(clause string, value any) {
		args = append(args, value)
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(clause, len(args))
	}
	if filter.Action != "" {
		addClause("action = $%d", filter.Action)
	}
	if filter.Endpoint != "" {
		addClause("endpoint = $%d", filter.Endpoint)
	}
	if filter.UserID != "" {
		addClause("user_id::text = $%d", filter.UserID)
	}
	query += where
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var entry Entry
		var aiCallJSON []byte
		if err := rows.Scan(&entry.ID, &entry.RequestID, &entry.UserID, &entry.Action, &entry.Endpoint,
			&entry.Method, &entry.StatusCode, &entry.IPAddress, &entry.UserAgent, &aiCallJSON, &entry.CreatedAt); err != nil {
			return nil, err
		}
		if len(aiCallJSON) > 0 {
			var call AICall
			if err := json.Unmarshal(aiCallJSON, &call); err != nil {
				return nil, err
			}
			entry.AICall = &call
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

// AIStats aggregates AI-call rows since the given cutoff. The success
// rate is formatted to one decimal with a percent sign, or "N/A" when
// nothing was recorded.
func (s *Service) AIStats(ctx context.Context, since time.Time) (Stats, error) {
	var stats Stats
	err := s.DB.QueryRow(ctx, `
    SELECT
      COUNT(1) FILTER (WHERE ai_call->>'service' = 'ai-service'),
      COUNT(1) FILTER (WHERE (ai_call->>'fallback')::boolean)
    FROM audit_logs
    WHERE created_at >= $1 AND ai_call IS NOT NULL
  `, since).Scan(&stats.TotalCalls, &stats.FallbackCalls)
	if err != nil {
		return Stats{}, err
	}

	if stats.TotalCalls > 0 {
		rate := float64(stats.TotalCalls-stats.FallbackCalls) / float64(stats.TotalCalls) * 100
		stats.SuccessRate = fmt.Sprintf("%.1f%%", rate)
	} else {
		stats.SuccessRate = "N/A"
	}
	return stats, nil
}

// Purge deletes entries older than the retention window. A scheduled
// job calls this periodically, so no row-level TTL is needed.
func (s *Service) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	tag, err := s.DB.Exec(ctx, "DELETE FROM audit_logs WHERE created_at < $1", time.Now().Add(-retention))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
