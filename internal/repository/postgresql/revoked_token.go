package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/pkg/database"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/jwt"
)

type revokedTokenRepository struct {
	db *database.DB
}

// NewRevokedTokenRepository stores token revocations in PostgreSQL so every
// API instance sharing the database sees them without Redis.
func NewRevokedTokenRepository(db *database.DB) jwt.RevocationStore {
	return &revokedTokenRepository{db: db}
}

func (r *revokedTokenRepository) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	// Expired rows can no longer match a valid token.
	if _, err := q.Exec(ctx, `DELETE FROM revoked_tokens WHERE expires_at <= NOW()`); err != nil {
		return fmt.Errorf("failed to prune revoked tokens: %w", err)
	}

	query := `
		INSERT INTO revoked_tokens (token_id, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (token_id) DO UPDATE SET expires_at = GREATEST(revoked_tokens.expires_at, EXCLUDED.expires_at)
	`
	if _, err := q.Exec(ctx, query, tokenID, expiresAt.UTC()); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (r *revokedTokenRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var revoked bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE token_id = $1 AND expires_at > NOW())`,
		tokenID,
	).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return revoked, nil
}
