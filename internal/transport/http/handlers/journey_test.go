package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"hrms/internal/app/server"
	"hrms/internal/platform/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   any             `json:"error"`
}

// The journey drives the HTTP surface end to end against a real
// database: seed admin login, hire flow, staffing, reviews, onboarding,
// the analysis aggregation, and the AI fallbacks (the AI base URL
// points at a closed port so every AI call takes the local path).
func TestHRStaffingJourney(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := config.Config{
		DatabaseURL:        dbURL,
		JWTSecret:          "test-secret",
		AIServiceURL:       "http://127.0.0.1:1",
		AIServiceTimeout:   500 * time.Millisecond,
		FrontendDir:        "frontend/dist",
		Environment:        "test",
		SeedAdminEmail:     "admin@test.local",
		SeedAdminPassword:  "ChangeMe123!",
		SeedDemoData:       true,
		EmailFrom:          "no-reply@test.local",
		RunMigrations:      true,
		RunSeed:            true,
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 1000,
		AuditRetention:     30 * 24 * time.Hour,
		MetricsEnabled:     true,
	}

	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()

	client := ts.Client()
	token := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)

	employeeEmail := fmt.Sprintf("journey-%d@example.com", time.Now().UnixNano())
	employee := postJSON(t, client, ts.URL+"/api/employees", token, map[string]any{
		"firstName":  "Jordan",
		"lastName":   "Reyes",
		"email":      employeeEmail,
		"jobTitle":   "Backend Engineer",
		"department": "Engineering",
		"skills":     []string{"go", "postgresql"},
		"status":     "active",
	}, http.StatusCreated)
	employeeID := stringField(t, employee, "id")

	project := postJSON(t, client, ts.URL+"/api/projects", token, map[string]any{
		"name":           "Billing Revamp",
		"requiredSkills": []string{"go", "postgresql", "react"},
		"status":         "active",
		"priority":       "high",
	}, http.StatusCreated)
	projectID := stringField(t, project, "id")

	// Allocation creation must reconcile the employee's rollup.
	postJSON(t, client, ts.URL+"/api/allocations", token, map[string]any{
		"employeeId":        employeeID,
		"projectId":         projectID,
		"allocationPercent": 60,
		"status":            "active",
	}, http.StatusCreated)

	refreshed := getJSON(t, client, ts.URL+"/api/employees/"+employeeID, token)
	if got := numberField(t, refreshed, "currentAllocationPercent"); got != 60 {
		t.Fatalf("expected reconciled allocation 60, got %v", got)
	}

	review := postJSON(t, client, ts.URL+"/api/performance", token, map[string]any{
		"employeeId": employeeID,
		"reviewerId": employeeID,
		"reviewPeriod": map[string]string{
			"startDate": "2026-01-01",
			"endDate":   "2026-03-31",
		},
		"scores": map[string]int{
			"technical":     4,
			"communication": 4,
			"teamwork":      4,
			"leadership":    3,
			"initiative":    5,
		},
		"status": "finalized",
	}, http.StatusCreated)
	reviewID := stringField(t, review, "id")
	if got := numberField(t, review, "averageScore"); got != 4 {
		t.Fatalf("expected average 4.0, got %v", got)
	}

	// A partial score update must recompute the stored average from
	// the merged scores, never leave it stale.
	patched := patchJSON(t, client, ts.URL+"/api/performance/"+reviewID, token, map[string]any{
		"scores": map[string]int{"leadership": 5},
	})
	if got := numberField(t, patched, "averageScore"); got != 4.2 {
		t.Fatalf("expected recomputed average 4.2, got %v", got)
	}

	postJSON(t, client, ts.URL+"/api/onboarding/bulk", token, map[string]any{
		"employeeId": employeeID,
		"tasks": []map[string]any{
			{"phase": "day1", "title": "Account setup", "status": "completed"},
			{"phase": "week1", "title": "First ticket", "status": "pending"},
		},
	}, http.StatusCreated)

	analysis := getJSON(t, client, ts.URL+"/api/performance-analysis/"+employeeID, token)
	var parsed struct {
		TaskStats struct {
			TotalTasks           int     `json:"totalTasks"`
			OnTimeCompletionRate float64 `json:"onTimeCompletionRate"`
		} `json:"taskStats"`
		LatestReview map[string]any `json:"latestReview"`
	}
	if err := json.Unmarshal(analysis, &parsed); err != nil {
		t.Fatalf("decode analysis: %v", err)
	}
	if parsed.TaskStats.TotalTasks != 2 {
		t.Fatalf("expected 2 onboarding tasks in analysis, got %d", parsed.TaskStats.TotalTasks)
	}
	if parsed.TaskStats.OnTimeCompletionRate != 100 {
		t.Fatalf("expected default on-time rate 100, got %v", parsed.TaskStats.OnTimeCompletionRate)
	}
	if parsed.LatestReview == nil {
		t.Fatal("expected latest review in analysis")
	}

	// AI service is unreachable, so skills-match must serve the local
	// token-overlap fallback and still answer 200.
	match := getJSON(t, client, ts.URL+"/api/ai/skills-match?projectId="+projectID, token)
	var matchResult struct {
		Fallback bool `json:"fallback"`
		Matches  []struct {
			EmployeeName string  `json:"employeeName"`
			Score        float64 `json:"score"`
		} `json:"matches"`
	}
	if err := json.Unmarshal(match, &matchResult); err != nil {
		t.Fatalf("decode skills-match: %v", err)
	}
	if !matchResult.Fallback {
		t.Fatal("expected fallback skills match")
	}
	if len(matchResult.Matches) == 0 {
		t.Fatal("expected at least one candidate")
	}

	// Hire flow: seeded demo resumes exist, hiring one creates a user
	// and a sequentially numbered employee.
	resumesRaw := getJSON(t, client, ts.URL+"/api/recruitment/resumes", token)
	var resumes []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resumesRaw, &resumes); err != nil {
		t.Fatalf("decode resumes: %v", err)
	}
	if len(resumes) == 0 {
		t.Fatal("expected seeded resumes")
	}
	hired := postJSON(t, client, ts.URL+"/api/recruitment/hire", token, map[string]any{
		"mockResumeId": resumes[0].ID,
	}, http.StatusCreated)
	hiredNumber := stringField(t, hired, "employeeId")
	if hiredNumber == "" {
		t.Fatal("expected hired employee to carry an employee number")
	}

	// The audit trail saw the AI fallback call.
	auditRaw := getJSON(t, client, ts.URL+"/api/audit?action=ai:skills-match", token)
	var entries []struct {
		AICall *struct {
			Fallback  bool   `json:"fallback"`
			ModelUsed string `json:"modelUsed"`
		} `json:"aiCall"`
	}
	if err := json.Unmarshal(auditRaw, &entries); err != nil {
		t.Fatalf("decode audit: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected an audit entry for the skills-match call")
	}
	if entries[0].AICall == nil || !entries[0].AICall.Fallback || entries[0].AICall.ModelUsed != "token-overlap" {
		t.Fatalf("unexpected audit aiCall: %+v", entries[0].AICall)
	}

	// Deletes must succeed on rows with dependents: the project still
	// has the allocation, the employee has a review and onboarding
	// tasks. Dependents go with the row.
	deleteJSON(t, client, ts.URL+"/api/projects/"+projectID, token)
	doJSON(t, client, http.MethodGet, ts.URL+"/api/projects/"+projectID, token, nil, http.StatusNotFound)

	deleteJSON(t, client, ts.URL+"/api/employees/"+employeeID, token)
	doJSON(t, client, http.MethodGet, ts.URL+"/api/employees/"+employeeID, token, nil, http.StatusNotFound)
	doJSON(t, client, http.MethodGet, ts.URL+"/api/performance/"+reviewID, token, nil, http.StatusNotFound)
}

func login(t *testing.T, client *http.Client, baseURL, email, password string) string {
	t.Helper()
	data := postJSON(t, client, baseURL+"/api/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	}, http.StatusOK)
	var parsed struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if parsed.Token == "" {
		t.Fatal("expected login token")
	}
	return parsed.Token
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, body any, wantStatus int) json.RawMessage {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	if res.StatusCode != wantStatus {
		t.Fatalf("%s %s: expected %d, got %d: %s", method, url, wantStatus, res.StatusCode, raw)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env.Data
}

func postJSON(t *testing.T, client *http.Client, url, token string, body any, wantStatus int) json.RawMessage {
	t.Helper()
	return doJSON(t, client, http.MethodPost, url, token, body, wantStatus)
}

func patchJSON(t *testing.T, client *http.Client, url, token string, body any) json.RawMessage {
	t.Helper()
	return doJSON(t, client, http.MethodPatch, url, token, body, http.StatusOK)
}

func deleteJSON(t *testing.T, client *http.Client, url, token string) json.RawMessage {
	t.Helper()
	return doJSON(t, client, http.MethodDelete, url, token, nil, http.StatusOK)
}

func getJSON(t *testing.T, client *http.Client, url, token string) json.RawMessage {
	t.Helper()
	return doJSON(t, client, http.MethodGet, url, token, nil, http.StatusOK)
}

func stringField(t *testing.T, data json.RawMessage, field string) string {
	t.Helper()
	var parsed map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("decode object: %v", err)
	}
	value, _ := parsed[field].(string)
	return value
}

func numberField(t *testing.T, data json.RawMessage, field string) float64 {
	t.Helper()
	var parsed map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("decode object: %v", err)
	}
	value, _ := parsed[field].(float64)
	return value
}
