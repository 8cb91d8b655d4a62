package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

var ErrPreferenceNotFound = errors.New("preference not found")

// PreferenceRepository is durable key/value storage for local client state such
// as the active game selection.
type PreferenceRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// --- PostgreSQL ---

type postgresPreferenceRepository struct {
	db *sql.DB
}

// NewPostgresPreferenceRepository creates the preferences table if needed.
func NewPostgresPreferenceRepository(ctx context.Context, db *sql.DB) (PreferenceRepository, error) {
	query := `CREATE TABLE IF NOT EXISTS preferences (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return nil, fmt.Errorf("failed to create preferences table: %w", err)
	}
	return &postgresPreferenceRepository{db: db}, nil
}

func (r *postgresPreferenceRepository) Get(ctx context.Context, key string) (string, error) {
	query := `SELECT value FROM preferences WHERE key = $1`

	return scanValue(r.db.QueryRowContext(ctx, query, key), key)
}

func (r *postgresPreferenceRepository) Set(ctx context.Context, key, value string) error {
	query := `INSERT INTO preferences (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

	_, err := r.db.ExecContext(ctx, query, key, value)
	return err
}

func (r *postgresPreferenceRepository) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM preferences WHERE key = $1`

	result, err := r.db.ExecContext(ctx, query, key)
	if err != nil {
		return err
	}
	return checkDeleted(result, key)
}

// --- SQLite ---

type sqlitePreferenceRepository struct {
	db *sql.DB
}

// OpenSQLite opens (and creates) the local state database file.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// один писатель; sqlite не любит параллельные записи
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

func NewSQLitePreferenceRepository(ctx context.Context, db *sql.DB) (PreferenceRepository, error) {
	query := `CREATE TABLE IF NOT EXISTS preferences (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return nil, fmt.Errorf("failed to create preferences table: %w", err)
	}
	return &sqlitePreferenceRepository{db: db}, nil
}

func (r *sqlitePreferenceRepository) Get(ctx context.Context, key string) (string, error) {
	return scanValue(r.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key), key)
}

func (r *sqlitePreferenceRepository) Set(ctx context.Context, key, value string) error {
	query := `INSERT INTO preferences (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`

	_, err := r.db.ExecContext(ctx, query, key, value)
	return err
}

func (r *sqlitePreferenceRepository) Delete(ctx context.Context, key string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM preferences WHERE key = ?`, key)
	if err != nil {
		return err
	}
	return checkDeleted(result, key)
}

// --- Redis ---

const redisPreferencePrefix = "knobel:pref:"

type redisPreferenceRepository struct {
	client *redis.Client
}

func NewRedisPreferenceRepository(client *redis.Client) PreferenceRepository {
	return &redisPreferenceRepository{client: client}
}

func (r *redisPreferenceRepository) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, redisPreferencePrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrPreferenceNotFound
		}
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

func (r *redisPreferenceRepository) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, redisPreferencePrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *redisPreferenceRepository) Delete(ctx context.Context, key string) error {
	n, err := r.client.Del(ctx, redisPreferencePrefix+key).Result()
	if err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	if n == 0 {
		return ErrPreferenceNotFound
	}
	return nil
}

// --- In-memory ---

type memoryPreferenceRepository struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryPreferenceRepository keeps preferences for the lifetime of the process.
func NewMemoryPreferenceRepository() PreferenceRepository {
	return &memoryPreferenceRepository{values: make(map[string]string)}
}

func (r *memoryPreferenceRepository) Get(_ context.Context, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	value, ok := r.values[key]
	if !ok {
		return "", ErrPreferenceNotFound
	}
	return value, nil
}

func (r *memoryPreferenceRepository) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}

func (r *memoryPreferenceRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.values[key]; !ok {
		return ErrPreferenceNotFound
	}
	delete(r.values, key)
	return nil
}
