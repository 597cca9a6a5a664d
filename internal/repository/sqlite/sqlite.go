package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"contagion/internal/repository"

	_ "modernc.org/sqlite"
)

// Repository implements repository.Repository using SQLite
type Repository struct {
	db *sql.DB
}

// New creates a new SQLite repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS networks (
		key TEXT PRIMARY KEY,
		node_count INTEGER NOT NULL,
		edges JSON NOT NULL,
		layout JSON NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := r.db.Exec(schema)
	return err
}

// GetNetwork loads the cached network for a dataset key. A key that was
// never stored returns (nil, nil).
func (r *Repository) GetNetwork(ctx context.Context, key string) (*repository.CachedNetwork, error) {
	var (
		nodeCount  int
		edgesJSON  []byte
		layoutJSON []byte
	)

	err := r.db.QueryRowContext(ctx, `
		SELECT node_count, edges, layout FROM networks WHERE key = ?
	`, key).Scan(&nodeCount, &edgesJSON, &layoutJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query network %q: %w", key, err)
	}

	network := &repository.CachedNetwork{Key: key, NodeCount: nodeCount}
	if err := json.Unmarshal(edgesJSON, &network.Edges); err != nil {
		return nil, fmt.Errorf("failed to unmarshal edges for %q: %w", key, err)
	}
	if err := json.Unmarshal(layoutJSON, &network.Layout); err != nil {
		return nil, fmt.Errorf("failed to unmarshal layout for %q: %w", key, err)
	}

	return network, nil
}

// SaveNetwork inserts or replaces the cached network for its key
func (r *Repository) SaveNetwork(ctx context.Context, network *repository.CachedNetwork) error {
	edgesJSON, err := json.Marshal(network.Edges)
	if err != nil {
		return fmt.Errorf("failed to marshal edges: %w", err)
	}
	layoutJSON, err := json.Marshal(network.Layout)
	if err != nil {
		return fmt.Errorf("failed to marshal layout: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO networks (key, node_count, edges, layout)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			node_count = excluded.node_count,
			edges = excluded.edges,
			layout = excluded.layout,
			updated_at = CURRENT_TIMESTAMP
	`, network.Key, network.NodeCount, edgesJSON, layoutJSON)
	if err != nil {
		return fmt.Errorf("failed to save network %q: %w", network.Key, err)
	}

	return nil
}

// DeleteNetwork removes a cached network
func (r *Repository) DeleteNetwork(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM networks WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete network %q: %w", key, err)
	}
	return nil
}

// Keys lists all cached dataset keys
func (r *Repository) Keys(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key FROM networks ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to query keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, key)
	}

	return keys, rows.Err()
}

// Close releases the database handle
func (r *Repository) Close() error {
	return r.db.Close()
}
