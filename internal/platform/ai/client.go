package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the optional AI microservice. Every method returns
// the raw decoded JSON payload so handlers can pass it through
// untouched, and an error when the service is unreachable or unhappy;
// callers decide whether to substitute a local fallback.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	return c.get(ctx, "/health")
}

func (c *Client) GenerateOnboarding(ctx context.Context, jobTitle, jobDescription, companyContext string, constraints map[string]any) (map[string]any, error) {
	return c.post(ctx, "/api/onboarding/generate", map[string]any{
		"job_title":       jobTitle,
		"job_description": jobDescription,
		"company_context": companyContext,
		"constraints":     constraints,
	})
}

func (c *Client) MatchSkills(ctx context.Context, projectID string, requiredSkills []string, topK int) (map[string]any, error) {
	return c.post(ctx, "/api/skills/match", map[string]any{
		"project_id":      projectID,
		"required_skills": strings.Join(requiredSkills, ","),
		"top_k":           topK,
	})
}

func (c *Client) PerformanceInsight(ctx context.Context, employeeID string, reviews []map[string]any, allocationPercent int) (map[string]any, error) {
	return c.post(ctx, "/api/performance/insight", map[string]any{
		"employee_id":        employeeID,
		"reviews":            reviews,
		"current_allocation": allocationPercent,
	})
}

func (c *Client) GenerateIdealProfile(ctx context.Context, job map[string]any) (map[string]any, error) {
	return c.post(ctx, "/api/recruitment/ideal-profile", map[string]any{"job": job})
}

func (c *Client) RankResumes(ctx context.Context, job map[string]any, resumes []map[string]any) (map[string]any, error) {
	return c.post(ctx, "/api/recruitment/rank-resumes", map[string]any{
		"job":     job,
		"resumes": resumes,
	})
}

func (c *Client) GenerateQuestions(ctx context.Context, job map[string]any, resume map[string]any) (map[string]any, error) {
	return c.post(ctx, "/api/recruitment/interview-questions", map[string]any{
		"job":    job,
		"resume": resume,
	})
}

func (c *Client) get(ctx context.Context, path string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) post(ctx context.Context, path string, body map[string]any) (map[string]any, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (map[string]any, error) {
	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("ai service: %s %s returned %d", req.Method, req.URL.Path, res.StatusCode)
	}

	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("ai service: decode response: %w", err)
	}
	return out, nil
}
