package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"slidesmith/document"
)

// DeckRecord is one saved deck row.
type DeckRecord struct {
	ID     string        `json:"id"`
	UserID string        `json:"userId"`
	Title  string        `json:"title"`
	Deck   document.Deck `json:"deck"`
}

// DeckService persists deck snapshots
type DeckService struct {
	db *sql.DB
}

// NewDeckService creates a new deck service
func NewDeckService(db *sql.DB) *DeckService {
	return &DeckService{db: db}
}

// SaveDeck inserts or replaces a saved deck. The deck value is stored as JSON.
func (s *DeckService) SaveDeck(rec DeckRecord) error {
	data, err := json.Marshal(rec.Deck)
	if err != nil {
		return fmt.Errorf("failed to marshal deck: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO decks (id, user_id, title, deck_data, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			deck_data = excluded.deck_data,
			updated_at = CURRENT_TIMESTAMP
	`, rec.ID, rec.UserID, rec.Title, string(data))
	if err != nil {
		return fmt.Errorf("failed to save deck: %w", err)
	}
	return nil
}

// LoadDeck reads a saved deck by id.
func (s *DeckService) LoadDeck(id string) (DeckRecord, error) {
	var rec DeckRecord
	var data string

	err := s.db.QueryRow(
		"SELECT id, user_id, title, deck_data FROM decks WHERE id = ?", id,
	).Scan(&rec.ID, &rec.UserID, &rec.Title, &data)
	if err == sql.ErrNoRows {
		return DeckRecord{}, fmt.Errorf("deck %s not found", id)
	}
	if err != nil {
		return DeckRecord{}, fmt.Errorf("failed to load deck: %w", err)
	}

	if err := json.Unmarshal([]byte(data), &rec.Deck); err != nil {
		return DeckRecord{}, fmt.Errorf("failed to unmarshal deck %s: %w", id, err)
	}
	return rec, nil
}

// ListDecks returns the saved decks for a user, newest first. Deck data is
// not loaded for listings.
func (s *DeckService) ListDecks(userID string) ([]DeckRecord, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, title FROM decks WHERE user_id = ? ORDER BY updated_at DESC", userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	defer rows.Close()

	var recs []DeckRecord
	for rows.Next() {
		var rec DeckRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Title); err != nil {
			return nil, fmt.Errorf("failed to scan deck row: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// DeleteDeck removes a saved deck. Deleting a missing deck is not an error.
func (s *DeckService) DeleteDeck(id string) error {
	_, err := s.db.Exec("DELETE FROM decks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete deck: %w", err)
	}
	return nil
}
