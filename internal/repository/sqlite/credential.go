package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uplyft/shopchat-client/internal/model"
)

// slotName is the single named slot holding the bearer token. At most
// one credential is live at a time.
const slotName = "token"

var _ model.CredentialStore = (*CredentialRepository)(nil)

// CredentialRepository persists the session credential in the local
// database.
type CredentialRepository struct {
	db *Connection
}

func NewCredentialRepository(db *Connection) *CredentialRepository {
	return &CredentialRepository{
		db: db,
	}
}

// Get returns the stored token, or model.ErrNotFound when the slot is
// empty.
func (r *CredentialRepository) Get(ctx context.Context) (string, error) {
	var token string
	query := `SELECT token FROM credentials WHERE slot = ?`

	err := r.db.QueryRowContext(ctx, query, slotName).Scan(&token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", model.ErrNotFound
		}
		return "", fmt.Errorf("failed to get credential: %w", err)
	}

	return token, nil
}

// Set stores the token, replacing any previous credential.
func (r *CredentialRepository) Set(ctx context.Context, token string) error {
	query := `INSERT INTO credentials (slot, token, updated_at) VALUES (?, ?, ?)
			  ON CONFLICT(slot) DO UPDATE SET token = excluded.token, updated_at = excluded.updated_at`

	if _, err := r.db.ExecContext(ctx, query, slotName, token, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to set credential: %w", err)
	}

	return nil
}

// Clear erases the slot. Clearing an already-empty slot is not an
// error.
func (r *CredentialRepository) Clear(ctx context.Context) error {
	query := `DELETE FROM credentials WHERE slot = ?`

	if _, err := r.db.ExecContext(ctx, query, slotName); err != nil {
		return fmt.Errorf("failed to clear credential: %w", err)
	}

	return nil
}
