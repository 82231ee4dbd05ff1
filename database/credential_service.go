package database

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrCredentialsNotFound reports that a user has no stored credentials yet.
var ErrCredentialsNotFound = errors.New("credentials not found")

// Credentials holds a user's API keys. Either field may be empty.
type Credentials struct {
	LLMAPIKey  string `json:"llmApiKey"`
	ImageToken string `json:"imageToken"`
}

// CredentialService persists per-user API keys
type CredentialService struct {
	db *sql.DB
}

// NewCredentialService creates a new credential service
func NewCredentialService(db *sql.DB) *CredentialService {
	return &CredentialService{db: db}
}

// SaveCredentials inserts or replaces the stored keys for a user.
func (s *CredentialService) SaveCredentials(userID string, creds Credentials) error {
	_, err := s.db.Exec(`
		INSERT INTO user_credentials (user_id, llm_api_key, image_token, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id) DO UPDATE SET
			llm_api_key = excluded.llm_api_key,
			image_token = excluded.image_token,
			updated_at = CURRENT_TIMESTAMP
	`, userID, creds.LLMAPIKey, creds.ImageToken)
	if err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	return nil
}

// GetCredentials reads the stored keys for a user. A missing row returns
// ErrCredentialsNotFound so callers can fall back to configured defaults.
func (s *CredentialService) GetCredentials(userID string) (Credentials, error) {
	var creds Credentials
	err := s.db.QueryRow(
		"SELECT llm_api_key, image_token FROM user_credentials WHERE user_id = ?", userID,
	).Scan(&creds.LLMAPIKey, &creds.ImageToken)
	if err == sql.ErrNoRows {
		return Credentials{}, ErrCredentialsNotFound
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to load credentials: %w", err)
	}
	return creds, nil
}

// DeleteCredentials removes a user's stored keys.
func (s *CredentialService) DeleteCredentials(userID string) error {
	_, err := s.db.Exec("DELETE FROM user_credentials WHERE user_id = ?", userID)
	if err != nil {
		return fmt.Errorf("failed to delete credentials: %w", err)
	}
	return nil
}
