package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"staffhire/internal/app/server"
	"staffhire/internal/platform/config"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error any             `json:"error"`
}

func testConfig(dbURL string) config.Config {
	return config.Config{
		DatabaseURL:        dbURL,
		JWTSecret:          "test-secret",
		DataEncryptionKey:  "0123456789abcdef0123456789abcdef",
		Environment:        "test",
		AllowSelfSignup:    true,
		ServiceableRegions: []string{"lagos", "abuja", "port harcourt"},
		BookingHorizonDays: 14,
		CatalogPageSize:    9,
		SeedAdminEmail:     "admin@test.local",
		SeedAdminPassword:  "ChangeMe123!",
		SeedDemoStaff:      true,
		EmailFrom:          "no-reply@test.local",
		RunMigrations:      true,
		RunSeed:            true,
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 1000,
	}
}

// chdirModuleRoot moves to the directory holding go.mod so the file-based
// migration runner finds migrations/ regardless of the test's working dir.
func chdirModuleRoot(t *testing.T) {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd failed: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("module root not found")
		}
		dir = parent
	}
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd failed: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(orig); err != nil {
			t.Fatalf("chdir back failed: %v", err)
		}
	})
}

func TestClientHiringJourney(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	chdirModuleRoot(t)

	app, err := server.New(context.Background(), testConfig(dbURL))
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()
	client := ts.Client()

	email := fmt.Sprintf("journey-%d@example.com", time.Now().UnixNano())
	password := "Journey123!"

	resp := postJSON(t, client, ts.URL+"/api/v1/auth/signup", "", map[string]any{
		"email":    email,
		"password": password,
		"fullName": "Journey Tester",
		"location": "lagos",
	})
	var created map[string]string
	if err := json.Unmarshal(resp.Data, &created); err != nil {
		t.Fatalf("failed to decode signup response: %v", err)
	}
	if created["id"] == "" {
		t.Fatal("expected client id from signup")
	}

	token := login(t, client, ts.URL, email, password)

	// Free tier: 20% of the 5 seeded demo staff floors to 1 accessible member.
	page := browseStaff(t, client, ts.URL, token, 0)
	if page.Accessible != page.Total*20/100 {
		t.Fatalf("quota math off: accessible %d of total %d", page.Accessible, page.Total)
	}
	if len(page.Items) != page.Accessible {
		t.Fatalf("free tier should surface %d members, got %d", page.Accessible, len(page.Items))
	}
	if page.HasMore {
		t.Fatal("free tier single page should report no more")
	}
	staffID := page.Items[0].ID

	// The deep page beyond the quota is empty.
	deep := browseStaff(t, client, ts.URL, token, 3)
	if len(deep.Items) != 0 || deep.HasMore {
		t.Fatalf("page beyond the quota should be empty, got %d items", len(deep.Items))
	}

	date := time.Now().UTC().AddDate(0, 0, 2).Format("2006-01-02")
	resp = postJSON(t, client, ts.URL+"/api/v1/interviews", token, map[string]any{
		"staffId":               staffID,
		"date":                  date,
		"slot":                  "10:00 AM",
		"availabilityConfirmed": true,
	})
	var interview struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(resp.Data, &interview); err != nil {
		t.Fatalf("failed to decode interview response: %v", err)
	}
	if interview.ID == "" || interview.Status != "scheduled" {
		t.Fatalf("expected a scheduled interview, got %+v", interview)
	}

	// A second booking against the same staff member is rejected.
	dup := postJSONStatus(t, client, ts.URL+"/api/v1/interviews", token, map[string]any{
		"staffId":               staffID,
		"date":                  date,
		"slot":                  "11:00 AM",
		"availabilityConfirmed": true,
	})
	if dup != http.StatusConflict {
		t.Fatalf("duplicate booking expected 409, got %d", dup)
	}

	postJSON(t, client, ts.URL+"/api/v1/interviews/"+interview.ID+"/outcome", token, map[string]any{
		"outcome": "hire",
		"rating":  5,
		"comment": "excellent interview",
	})

	engagements := listEngagements(t, client, ts.URL, token)
	if len(engagements) != 1 {
		t.Fatalf("expected one engagement after hiring, got %d", len(engagements))
	}
	if engagements[0].Status != "hired" || engagements[0].ActionStatus != "" {
		t.Fatalf("expected an open hired engagement, got %+v", engagements[0])
	}

	// Dismiss closes the engagement; a repeat hire must then fail.
	postJSON(t, client, ts.URL+"/api/v1/engagements/"+staffID+"/dismiss", token, map[string]any{
		"rating":  3,
		"comment": "no longer needed",
	})
	again := postJSONStatus(t, client, ts.URL+"/api/v1/engagements/"+staffID+"/hire", token, map[string]any{
		"rating":  5,
		"comment": "rehire attempt",
	})
	if again != http.StatusConflict {
		t.Fatalf("hire after dismissal expected 409, got %d", again)
	}

	// The workflow left an activity trail.
	activity := getJSON(t, client, ts.URL+"/api/v1/activity", token)
	var entries []map[string]any
	if err := json.Unmarshal(activity.Data, &entries); err != nil {
		t.Fatalf("failed to decode activity feed: %v", err)
	}
	if len(entries) < 3 {
		t.Fatalf("expected schedule, hire, and dismiss activity entries, got %d", len(entries))
	}
}

func TestSubscriptionPlansAndFreeCheckout(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	chdirModuleRoot(t)

	app, err := server.New(context.Background(), testConfig(dbURL))
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()
	client := ts.Client()

	email := fmt.Sprintf("billing-%d@example.com", time.Now().UnixNano())
	postJSON(t, client, ts.URL+"/api/v1/auth/signup", "", map[string]any{
		"email":    email,
		"password": "Billing123!",
		"fullName": "Billing Tester",
		"location": "abuja",
	})
	token := login(t, client, ts.URL, email, "Billing123!")

	resp := getJSON(t, client, ts.URL+"/api/v1/subscriptions/plans", token)
	var plans []struct {
		Code          string  `json:"code"`
		Price         float64 `json:"price"`
		AccessPercent int     `json:"accessPercent"`
	}
	if err := json.Unmarshal(resp.Data, &plans); err != nil {
		t.Fatalf("failed to decode plans: %v", err)
	}
	if len(plans) < 3 {
		t.Fatalf("expected the seeded plan ladder, got %d plans", len(plans))
	}

	// Checking out the free plan a client already sits on is a conflict.
	status := postJSONStatus(t, client, ts.URL+"/api/v1/subscriptions/checkout", token, map[string]any{
		"planCode": "free",
	})
	if status != http.StatusConflict && status != http.StatusOK {
		t.Fatalf("free checkout returned %d", status)
	}

	// Paid checkout without a configured gateway is a clean 503, not a 500.
	status = postJSONStatus(t, client, ts.URL+"/api/v1/subscriptions/checkout", token, map[string]any{
		"planCode": "standard",
	})
	if status != http.StatusServiceUnavailable {
		t.Fatalf("paid checkout without gateway expected 503, got %d", status)
	}
}

func login(t *testing.T, client *http.Client, baseURL, email, password string) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	})
	var payload map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	token, _ := payload["token"].(string)
	if token == "" {
		t.Fatal("expected token")
	}
	return token
}

type staffPage struct {
	Items []struct {
		ID       string `json:"id"`
		FullName string `json:"fullName"`
	} `json:"items"`
	Total      int  `json:"total"`
	Accessible int  `json:"accessible"`
	HasMore    bool `json:"hasMore"`
}

func browseStaff(t *testing.T, client *http.Client, baseURL, token string, page int) staffPage {
	t.Helper()
	resp := getJSON(t, client, fmt.Sprintf("%s/api/v1/staff?page=%d", baseURL, page), token)
	var out staffPage
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		t.Fatalf("failed to decode staff page: %v", err)
	}
	return out
}

type engagementRow struct {
	StaffID      string `json:"staffId"`
	Status       string `json:"status"`
	ActionStatus string `json:"actionStatus"`
}

func listEngagements(t *testing.T, client *http.Client, baseURL, token string) []engagementRow {
	t.Helper()
	resp := getJSON(t, client, baseURL+"/api/v1/engagements", token)
	var out []engagementRow
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		t.Fatalf("failed to decode engagements: %v", err)
	}
	return out
}

func postJSON(t *testing.T, client *http.Client, url, token string, body any) envelope {
	t.Helper()
	env, status := doJSON(t, client, http.MethodPost, url, token, body)
	if status >= 400 {
		t.Fatalf("POST %s unexpected status %d", url, status)
	}
	return env
}

func postJSONStatus(t *testing.T, client *http.Client, url, token string, body any) int {
	t.Helper()
	_, status := doJSON(t, client, http.MethodPost, url, token, body)
	return status
}

func getJSON(t *testing.T, client *http.Client, url, token string) envelope {
	t.Helper()
	env, status := doJSON(t, client, http.MethodGet, url, token, nil)
	if status >= 400 {
		t.Fatalf("GET %s unexpected status %d", url, status)
	}
	return env
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, body any) (envelope, int) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewBuffer(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode response %s: %v", string(raw), err)
	}
	return env, resp.StatusCode
}
