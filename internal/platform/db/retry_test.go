package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestRetryStopsOnPermanentError(t *testing.T) {
	permanent := errors.New("syntax error")
	var calls int
	err := Retry(context.Background(), func(ctx context.Context) error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("expected the permanent error back, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("permanent errors must not be retried, got %d calls", calls)
	}
}

func TestRetryRecoversFromTransientError(t *testing.T) {
	var calls int
	err := Retry(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 2 {
			return errors.New("read tcp: connection reset by peer")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected recovery on the second attempt, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls)
	}
}

func TestRetryGivesUpAfterAttempts(t *testing.T) {
	var calls int
	err := Retry(context.Background(), func(ctx context.Context) error {
		calls++
		return errors.New("dial tcp: connection refused")
	})
	if err == nil {
		t.Fatalf("expected the last transient error to surface")
	}
	if calls != retryAttempts {
		t.Fatalf("expected %d attempts, got %d", retryAttempts, calls)
	}
}

func TestIsTransientClassifiesPgErrors(t *testing.T) {
	cases := []struct {
		code string
		want bool
	}{
		{"08006", true},  // connection failure
		{"40001", true},  // serialization failure
		{"40P01", true},  // deadlock
		{"23505", false}, // unique violation
		{"42601", false}, // syntax error
	}
	for _, tc := range cases {
		err := &pgconn.PgError{Code: tc.code}
		if got := IsTransient(err); got != tc.want {
			t.Fatalf("IsTransient(code %s) = %v, want %v", tc.code, got, tc.want)
		}
	}
	if IsTransient(nil) {
		t.Fatalf("nil error is not transient")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !IsUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatalf("23505 should be a unique violation")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatalf("23503 is a foreign key violation, not unique")
	}
	if IsUniqueViolation(errors.New("plain")) {
		t.Fatalf("non-pg errors are not unique violations")
	}
}
