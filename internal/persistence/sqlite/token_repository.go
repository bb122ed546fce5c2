package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/k-j-hyun/shdocs/internal/persistence"
)

// SaveToken stores or replaces the OAuth token payload for an account.
func (s *Storage) SaveToken(ctx context.Context, account string, payload []byte, updatedAt string) error {
	const query = `
		INSERT INTO tokens (account, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(account) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`

	if _, err := s.db.ExecContext(ctx, query, account, payload, updatedAt); err != nil {
		return fmt.Errorf("sqlite: save token: %w", mapError(err))
	}
	return nil
}

// GetToken returns the stored token payload for an account.
func (s *Storage) GetToken(ctx context.Context, account string) (persistence.Token, error) {
	const query = `SELECT account, payload, updated_at FROM tokens WHERE account = ?`

	var token persistence.Token
	err := s.db.QueryRowContext(ctx, query, account).Scan(&token.Account, &token.Payload, &token.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Token{}, persistence.ErrNotFound
		}
		return persistence.Token{}, fmt.Errorf("sqlite: get token: %w", err)
	}
	return token, nil
}

// DeleteToken removes the stored token for an account. Deleting a token
// that does not exist is not an error.
func (s *Storage) DeleteToken(ctx context.Context, account string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tokens WHERE account = ?`, account); err != nil {
		return fmt.Errorf("sqlite: delete token: %w", mapError(err))
	}
	return nil
}
