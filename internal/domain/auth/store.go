package auth

import (
	"context"
	"time"

	cryptoutil "staffhire/internal/platform/crypto"
	"staffhire/internal/platform/db"
)

type Client struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	FullName         string     `json:"fullName"`
	Phone            string     `json:"phone,omitempty"`
	Location         string     `json:"location"`
	Role             string     `json:"role"`
	SubscriptionTier string     `json:"subscriptionTier"`
	Status           string     `json:"status"`
	MFAEnabled       bool       `json:"mfaEnabled"`
	LastLogin        *time.Time `json:"lastLogin,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

type Store struct {
	DB     *db.DB
	Crypto *cryptoutil.Service
}

func NewStore(database *db.DB, crypto *cryptoutil.Service) *Store {
	return &Store{DB: database, Crypto: crypto}
}

func (s *Store) CreateClient(ctx context.Context, email, passwordHash, fullName, phone, location string) (string, error) {
	phoneEnc, err := s.Crypto.EncryptString(phone)
	if err != nil {
		return "", err
	}
	var id string
	err = s.DB.QueryRow(ctx, `
    INSERT INTO clients (email, password_hash, full_name, phone_enc, location, role, subscription_tier, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING id
  `, email, passwordHash, fullName, phoneEnc, location, RoleClient, "free", ClientStatusActive).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

type Credentials struct {
	ClientID     string
	Role         string
	PasswordHash string
	MFAEnabled   bool
	MFASecretEnc []byte
}

func (s *Store) CredentialsByEmail(ctx context.Context, email string) (Credentials, error) {
	var creds Credentials
	err := s.DB.QueryRow(ctx, `
    SELECT id, role, password_hash, mfa_enabled, COALESCE(mfa_secret_enc, '')
    FROM clients
    WHERE email = $1 AND status = $2
  `, email, ClientStatusActive).Scan(&creds.ClientID, &creds.Role, &creds.PasswordHash, &creds.MFAEnabled, &creds.MFASecretEnc)
	return creds, err
}

func (s *Store) ClientByID(ctx context.Context, clientID string) (Client, error) {
	var client Client
	var phoneEnc []byte
	err := s.DB.QueryRow(ctx, `
    SELECT id, email, full_name, COALESCE(phone_enc, ''), location, role, subscription_tier, status, mfa_enabled, last_login, created_at
    FROM clients
    WHERE id = $1
  `, clientID).Scan(&client.ID, &client.Email, &client.FullName, &phoneEnc, &client.Location, &client.Role, &client.SubscriptionTier, &client.Status, &client.MFAEnabled, &client.LastLogin, &client.CreatedAt)
	if err != nil {
		return Client{}, err
	}
	phone, err := s.Crypto.DecryptString(phoneEnc)
	if err == nil {
		client.Phone = phone
	}
	return client, nil
}

func (s *Store) ClientEmail(ctx context.Context, clientID string) (string, error) {
	var email string
	err := s.DB.QueryRow(ctx, "SELECT email FROM clients WHERE id = $1", clientID).Scan(&email)
	return email, err
}

func (s *Store) CreateSession(ctx context.Context, clientID, tokenHash string, expires time.Time) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO sessions (client_id, token_hash, expires_at)
    VALUES ($1,$2,$3)
  `, clientID, tokenHash, expires)
	return err
}

func (s *Store) SessionValid(ctx context.Context, clientID, tokenHash string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM sessions
    WHERE client_id = $1 AND token_hash = $2 AND expires_at > now() AND revoked_at IS NULL
  `, clientID, tokenHash).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) RotateSession(ctx context.Context, clientID, oldHash, newHash string, expires time.Time) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE sessions
    SET token_hash = $1, expires_at = $2, rotated_at = now()
    WHERE client_id = $3 AND token_hash = $4
  `, newHash, expires, clientID, oldHash)
	return err
}

func (s *Store) RevokeSession(ctx context.Context, clientID, tokenHash string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE sessions SET revoked_at = now()
    WHERE client_id = $1 AND token_hash = $2
  `, clientID, tokenHash)
	return err
}

func (s *Store) UpdateLastLogin(ctx context.Context, clientID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE clients SET last_login = now() WHERE id = $1", clientID)
	return err
}

func (s *Store) ClientIDByEmail(ctx context.Context, email string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, "SELECT id FROM clients WHERE email = $1", email).Scan(&id)
	return id, err
}

func (s *Store) CreatePasswordReset(ctx context.Context, clientID, tokenHash string, expires time.Time) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO password_resets (client_id, token_hash, expires_at)
    VALUES ($1,$2,$3)
  `, clientID, tokenHash, expires)
	return err
}

func (s *Store) PasswordResetClientID(ctx context.Context, tokenHash string) (string, error) {
	var clientID string
	err := s.DB.QueryRow(ctx, `
    SELECT client_id
    FROM password_resets
    WHERE token_hash = $1 AND expires_at > now() AND used_at IS NULL
  `, tokenHash).Scan(&clientID)
	return clientID, err
}

func (s *Store) UpdatePassword(ctx context.Context, clientID, passwordHash string) error {
	_, err := s.DB.Exec(ctx, "UPDATE clients SET password_hash = $1 WHERE id = $2", passwordHash, clientID)
	return err
}

func (s *Store) MarkPasswordResetUsed(ctx context.Context, tokenHash string) error {
	_, err := s.DB.Exec(ctx, "UPDATE password_resets SET used_at = now() WHERE token_hash = $1", tokenHash)
	return err
}

func (s *Store) UpdateMFASecret(ctx context.Context, clientID string, secretEnc []byte) error {
	_, err := s.DB.Exec(ctx, "UPDATE clients SET mfa_secret_enc = $1, mfa_enabled = false WHERE id = $2", secretEnc, clientID)
	return err
}

func (s *Store) MFASecret(ctx context.Context, clientID string) ([]byte, error) {
	var secretEnc []byte
	err := s.DB.QueryRow(ctx, "SELECT mfa_secret_enc FROM clients WHERE id = $1", clientID).Scan(&secretEnc)
	return secretEnc, err
}

func (s *Store) SetMFAEnabled(ctx context.Context, clientID string, enabled bool) error {
	_, err := s.DB.Exec(ctx, "UPDATE clients SET mfa_enabled = $1 WHERE id = $2", enabled, clientID)
	return err
}
