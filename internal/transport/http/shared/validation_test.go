package shared

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

func TestValidatorCollectsAndSortsIssues(t *testing.T) {
	v := NewValidator()
	v.Required("email", "", "email is required")
	v.Required("fullName", "Journey Tester", "full name is required")
	v.Enum("gender", "other", []string{"male", "female"}, "gender is not recognised")
	v.Range("rating", 7, 1, 5, "rating must be between 1 and 5")
	v.Range("age", 30, 18, 99, "age must be between 18 and 99")

	if !v.HasIssues() {
		t.Fatal("expected issues")
	}
	issues := v.Issues()
	if len(issues) != 3 {
		t.Fatalf("expected 3 issues, got %d", len(issues))
	}
	for i := 1; i < len(issues); i++ {
		if issues[i-1].Field > issues[i].Field {
			t.Fatalf("issues not sorted by field: %+v", issues)
		}
	}
}

func TestValidatorDate(t *testing.T) {
	v := NewValidator()
	parsed, ok := v.Date("date", "2026-09-05")
	if !ok || parsed.IsZero() {
		t.Fatalf("valid date rejected, ok=%v", ok)
	}
	if v.HasIssues() {
		t.Fatalf("valid date should add no issue: %+v", v.Issues())
	}

	if _, ok := v.Date("date", "05/09/2026"); ok {
		t.Fatal("malformed date should not parse")
	}
	if !v.HasIssues() {
		t.Fatal("malformed date should record an issue")
	}
}

func TestValidatorReject(t *testing.T) {
	v := NewValidator()
	rec := httptest.NewRecorder()
	if v.Reject(rec, "req-1") {
		t.Fatal("clean validator must not reject")
	}

	v.Add("slot", "slot is required")
	rec = httptest.NewRecorder()
	if !v.Reject(rec, "req-1") {
		t.Fatal("validator with issues must reject")
	}
	if rec.Code != 400 {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string `json:"code"`
			Details struct {
				Fields []ValidationIssue `json:"fields"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode rejection body: %v", err)
	}
	if body.Success || body.Error.Code != "validation_error" || len(body.Error.Details.Fields) != 1 {
		t.Fatalf("unexpected rejection envelope: %+v", body)
	}
}
