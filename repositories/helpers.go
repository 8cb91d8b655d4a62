package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// scanValue reads the single value column of a preference row. A missing row
// means the key was never set.
func scanValue(row *sql.Row, key string) (string, error) {
	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", ErrPreferenceNotFound, key)
		}
		return "", fmt.Errorf("failed to read preference %s: %w", key, err)
	}
	return value, nil
}

// checkDeleted reports ErrPreferenceNotFound when a delete matched no row.
func checkDeleted(result sql.Result, key string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrPreferenceNotFound, key) // ключ не был сохранён
	}
	return nil
}
