package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/ceylonworkforce/jobboard/internal/config"
)

// PostgreSQLStorage implements Storage with one JSONB table per collection
type PostgreSQLStorage struct {
	db          *sql.DB
	tablePrefix string
}

// NewPostgreSQLStorage opens the database and creates missing tables
func NewPostgreSQLStorage(cfg config.StorageConfig, collections []string) (*PostgreSQLStorage, error) {
	if cfg.PostgresURI == "" {
		return nil, errors.New("POSTGRES_URI is required for postgresql storage")
	}

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	storage := &PostgreSQLStorage{db: db, tablePrefix: cfg.TablePrefix}
	for _, name := range collections {
		if err := storage.ensureTable(ctx, name); err != nil {
			db.Close()
			return nil, err
		}
	}
	return storage, nil
}

func (p *PostgreSQLStorage) table(collection string) string {
	return pq.QuoteIdentifier(p.tablePrefix + collection)
}

func (p *PostgreSQLStorage) ensureTable(ctx context.Context, collection string) error {
	query := `CREATE TABLE IF NOT EXISTS ` + p.table(collection) + ` (
		id TEXT PRIMARY KEY,
		doc JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`
	if _, err := p.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create table for %s: %w", collection, err)
	}
	return nil
}

func (p *PostgreSQLStorage) Collection(name string) Collection {
	return &postgresCollection{db: p.db, table: p.table(name)}
}

func (p *PostgreSQLStorage) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *PostgreSQLStorage) Close() error {
	return p.db.Close()
}

type postgresCollection struct {
	db    *sql.DB
	table string
}

func (c *postgresCollection) Put(ctx context.Context, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document %s: %w", id, err)
	}
	_, err = c.db.ExecContext(ctx, `INSERT INTO `+c.table+` (id, doc, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = NOW()`, id, data)
	if err != nil {
		return fmt.Errorf("failed to store document %s: %w", id, err)
	}
	return nil
}

func (c *postgresCollection) Get(ctx context.Context, id string, dst any) error {
	var data []byte
	err := c.db.QueryRowContext(ctx, `SELECT doc FROM `+c.table+` WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get document %s: %w", id, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to unmarshal document %s: %w", id, err)
	}
	return nil
}

func (c *postgresCollection) Delete(ctx context.Context, id string) error {
	result, err := c.db.ExecContext(ctx, `DELETE FROM `+c.table+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}
	return checkDeleted(result, id)
}

// checkDeleted reports ErrNotFound when the delete matched no row
func checkDeleted(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *postgresCollection) List(ctx context.Context, dst any) error {
	rows, err := c.db.QueryContext(ctx, `SELECT doc FROM `+c.table+` ORDER BY id`)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", c.table, err)
	}
	defer rows.Close()

	var raw [][]byte
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return fmt.Errorf("failed to scan %s: %w", c.table, err)
		}
		raw = append(raw, data)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate %s: %w", c.table, err)
	}
	return decodeList(raw, dst)
}
