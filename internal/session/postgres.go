package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yigit/schoolportal/internal/db"
	"github.com/yigit/schoolportal/internal/pkg/apperrors"
)

// PostgresStore keeps sessions in the portal_sessions table
type PostgresStore struct {
	db *db.PostgresDB
}

// NewPostgresStore applies pending migrations and returns the store
func NewPostgresStore(ctx context.Context, database *db.PostgresDB) (*PostgresStore, error) {
	migrator, err := db.NewMigrator(database)
	if err != nil {
		return nil, err
	}
	if err := migrator.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to migrate session schema: %w", err)
	}
	return &PostgresStore{db: database}, nil
}

// Load implements Store
func (p *PostgresStore) Load(ctx context.Context, id string) (*Session, error) {
	var data []byte
	err := p.db.Pool.QueryRow(ctx,
		`SELECT data FROM portal_sessions WHERE id = $1 AND expires_at > NOW()`, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return decode(data)
}

// Save implements Store
func (p *PostgresStore) Save(ctx context.Context, s *Session, ttl time.Duration) error {
	data, err := s.encode()
	if err != nil {
		return err
	}
	_, err = p.db.Pool.Exec(ctx, `
		INSERT INTO portal_sessions (id, data, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET data = EXCLUDED.data, expires_at = EXCLUDED.expires_at, updated_at = NOW()`,
		s.ID, string(data), time.Now().Add(ttl))
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete implements Store
func (p *PostgresStore) Delete(ctx context.Context, id string) error {
	if _, err := p.db.Pool.Exec(ctx, `DELETE FROM portal_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes expired rows and returns how many were dropped
func (p *PostgresStore) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := p.db.Pool.Exec(ctx, `DELETE FROM portal_sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Close implements Store
func (p *PostgresStore) Close() error {
	p.db.Close()
	return nil
}
