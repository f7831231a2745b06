package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var ErrNotConfigured = errors.New("payment gateway not configured")

type InitiateRequest struct {
	Email       string
	AmountMajor float64
	Reference   string
	CallbackURL string
	Metadata    map[string]string
}

type Checkout struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

type Verification struct {
	Success     bool
	Status      string
	AmountMajor float64
	Currency    string
	Metadata    map[string]string
}

// Gateway is the narrow contract the subscription workflow consumes: start a
// hosted checkout and verify a transaction server-side. The client-reported
// outcome is never trusted on its own.
type Gateway interface {
	Initiate(ctx context.Context, req InitiateRequest) (Checkout, error)
	Verify(ctx context.Context, reference string) (Verification, error)
}

type Client struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

func New(baseURL, secretKey string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Configured() bool {
	return c.secretKey != ""
}

type initializeBody struct {
	Email       string            `json:"email"`
	Amount      int64             `json:"amount"`
	Reference   string            `json:"reference"`
	CallbackURL string            `json:"callback_url,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type initializeResponse struct {
	Status bool `json:"status"`
	Data   struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
	Message string `json:"message"`
}

type verifyResponse struct {
	Status bool `json:"status"`
	Data   struct {
		Status   string            `json:"status"`
		Amount   int64             `json:"amount"`
		Currency string            `json:"currency"`
		Metadata map[string]string `json:"metadata"`
	} `json:"data"`
	Message string `json:"message"`
}

func (c *Client) Initiate(ctx context.Context, req InitiateRequest) (Checkout, error) {
	if !c.Configured() {
		return Checkout{}, ErrNotConfigured
	}
	body := initializeBody{
		Email:       req.Email,
		Amount:      toMinorUnits(req.AmountMajor),
		Reference:   req.Reference,
		CallbackURL: req.CallbackURL,
		Metadata:    req.Metadata,
	}
	var parsed initializeResponse
	if err := c.call(ctx, http.MethodPost, "/transaction/initialize", body, &parsed); err != nil {
		return Checkout{}, err
	}
	if !parsed.Status {
		return Checkout{}, fmt.Errorf("checkout initialization rejected: %s", parsed.Message)
	}
	return Checkout{
		AuthorizationURL: parsed.Data.AuthorizationURL,
		AccessCode:       parsed.Data.AccessCode,
		Reference:        parsed.Data.Reference,
	}, nil
}

func (c *Client) Verify(ctx context.Context, reference string) (Verification, error) {
	if !c.Configured() {
		return Verification{}, ErrNotConfigured
	}
	if strings.TrimSpace(reference) == "" {
		return Verification{}, errors.New("payment reference is required")
	}
	var parsed verifyResponse
	if err := c.call(ctx, http.MethodGet, "/transaction/verify/"+reference, nil, &parsed); err != nil {
		return Verification{}, err
	}
	if !parsed.Status {
		return Verification{}, fmt.Errorf("verification rejected: %s", parsed.Message)
	}
	return Verification{
		Success:     parsed.Data.Status == "success",
		Status:      parsed.Data.Status,
		AmountMajor: fromMinorUnits(parsed.Data.Amount),
		Currency:    parsed.Data.Currency,
		Metadata:    parsed.Data.Metadata,
	}, nil
}

const callAttempts = 3

func (c *Client) call(ctx context.Context, method, path string, body any, out any) error {
	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = encoded
	}

	var lastErr error
	wait := 200 * time.Millisecond
	for attempt := 0; attempt < callAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			wait *= 2
		}

		var reader *bytes.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		} else {
			reader = bytes.NewReader(nil)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.secretKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		status := resp.StatusCode
		callErr := func() error {
			defer resp.Body.Close()
			if status >= 400 {
				return fmt.Errorf("gateway returned %d", status)
			}
			return json.NewDecoder(resp.Body).Decode(out)
		}()
		if callErr == nil {
			return nil
		}
		lastErr = callErr
		// 4xx responses are not retryable
		if status >= 400 && status < 500 {
			return lastErr
		}
	}
	return lastErr
}

func toMinorUnits(major float64) int64 {
	return int64(major*100 + 0.5)
}

func fromMinorUnits(minor int64) float64 {
	return float64(minor) / 100
}
