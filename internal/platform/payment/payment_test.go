package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestInitiateSendsMinorUnitsAndAuth(t *testing.T) {
	var got initializeBody
	var authHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/transaction/initialize" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		authHeader = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status": true,
			"data": map[string]any{
				"authorization_url": "https://checkout.example/xyz",
				"access_code":       "ac_1",
				"reference":         got.Reference,
			},
		})
	}))
	defer srv.Close()

	client := New(srv.URL, "sk_test_abc")
	checkout, err := client.Initiate(context.Background(), InitiateRequest{
		Email:       "client@example.com",
		AmountMajor: 5000,
		Reference:   "ref-1",
		Metadata:    map[string]string{"plan_code": "standard"},
	})
	if err != nil {
		t.Fatalf("Initiate failed: %v", err)
	}
	if authHeader != "Bearer sk_test_abc" {
		t.Fatalf("unexpected auth header %q", authHeader)
	}
	if got.Amount != 500000 {
		t.Fatalf("amount must be sent in minor units, got %d", got.Amount)
	}
	if checkout.Reference != "ref-1" || checkout.AuthorizationURL == "" {
		t.Fatalf("unexpected checkout %+v", checkout)
	}
}

func TestVerifyConvertsAmountBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/verify/ref-1" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status": true,
			"data": map[string]any{
				"status":   "success",
				"amount":   500000,
				"currency": "NGN",
				"metadata": map[string]string{"plan_code": "standard"},
			},
		})
	}))
	defer srv.Close()

	client := New(srv.URL, "sk_test_abc")
	v, err := client.Verify(context.Background(), "ref-1")
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !v.Success || v.AmountMajor != 5000 || v.Currency != "NGN" {
		t.Fatalf("unexpected verification %+v", v)
	}
	if v.Metadata["plan_code"] != "standard" {
		t.Fatalf("metadata lost in verification: %+v", v.Metadata)
	}
}

func TestVerifyNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"status": true,
			"data":   map[string]any{"status": "abandoned", "amount": 0},
		})
	}))
	defer srv.Close()

	v, err := New(srv.URL, "sk_test_abc").Verify(context.Background(), "ref-1")
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if v.Success {
		t.Fatalf("abandoned charge must not verify as success")
	}
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	if _, err := New(srv.URL, "sk_bad").Verify(context.Background(), "ref-1"); err == nil {
		t.Fatalf("expected an error from a 401 response")
	}
	if calls != 1 {
		t.Fatalf("4xx responses must not be retried, got %d calls", calls)
	}
}

func TestServerErrorsAreRetried(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status": true,
			"data":   map[string]any{"status": "success", "amount": 100},
		})
	}))
	defer srv.Close()

	v, err := New(srv.URL, "sk_test_abc").Verify(context.Background(), "ref-1")
	if err != nil {
		t.Fatalf("Verify should succeed after retries: %v", err)
	}
	if calls != 3 || !v.Success {
		t.Fatalf("expected success on the third attempt, calls %d success %v", calls, v.Success)
	}
}

func TestUnconfiguredGateway(t *testing.T) {
	client := New("https://api.example", "")
	if _, err := client.Initiate(context.Background(), InitiateRequest{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := client.Verify(context.Background(), "ref-1"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
