package credentials

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	// PostgreSQL driver.
	_ "github.com/lib/pq"
)

const createCredentialsTable = `
CREATE TABLE IF NOT EXISTS credentials (
	credential_type TEXT PRIMARY KEY,
	data JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresProvider stores credentials as JSONB rows keyed by credential type.
type PostgresProvider struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewPostgresProvider(ctx context.Context, logger *slog.Logger, databaseURL string) (*PostgresProvider, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		_ = database.Close()

		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	_, err = database.ExecContext(ctx, createCredentialsTable)
	if err != nil {
		_ = database.Close()

		return nil, fmt.Errorf("failed to create credentials table: %w", err)
	}

	logger.DebugContext(ctx, "Credentials table ready")

	return &PostgresProvider{db: database, logger: logger}, nil
}

func (p *PostgresProvider) GetCredentials(ctx context.Context, credentialType string) (Credential, error) {
	var data []byte

	err := p.db.QueryRowContext(ctx,
		"SELECT data FROM credentials WHERE credential_type = $1", credentialType,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to query credential %s: %w", credentialType, err)
	}

	var credential Credential

	err = json.Unmarshal(data, &credential)
	if err != nil {
		return nil, fmt.Errorf("failed to decode credential %s: %w", credentialType, err)
	}

	if len(credential) == 0 {
		return nil, ErrNotFound
	}

	return credential, nil
}

// Save upserts the credential stored for credentialType.
func (p *PostgresProvider) Save(ctx context.Context, credentialType string, credential Credential) error {
	data, err := json.Marshal(credential)
	if err != nil {
		return fmt.Errorf("failed to encode credential %s: %w", credentialType, err)
	}

	_, err = p.db.ExecContext(ctx, `
		INSERT INTO credentials (credential_type, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (credential_type) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`,
		credentialType, data,
	)
	if err != nil {
		return fmt.Errorf("failed to save credential %s: %w", credentialType, err)
	}

	return nil
}

func (p *PostgresProvider) Close() error {
	if p.db != nil {
		err := p.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}
