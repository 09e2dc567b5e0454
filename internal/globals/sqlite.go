package globals

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// LoadSQLite reads every row of table in the database at path. The table
// has a name column and a value column holding YAML or JSON text.
func LoadSQLite(ctx context.Context, path, table string) (*Registry, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid globals table name %q", table)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening globals db %s: %w", path, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "SELECT name, value FROM "+table)
	if err != nil {
		return nil, fmt.Errorf("querying %s.%s: %w", path, table, err)
	}
	defer rows.Close()

	values := make(map[string]interface{})
	for rows.Next() {
		var name, text string
		if err := rows.Scan(&name, &text); err != nil {
			return nil, fmt.Errorf("reading %s.%s: %w", path, table, err)
		}
		var v interface{}
		if err := yaml.Unmarshal([]byte(text), &v); err != nil {
			return nil, fmt.Errorf("%s.%s: global %q: %w", path, table, name, err)
		}
		values[name] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading %s.%s: %w", path, table, err)
	}
	return &Registry{values: values}, nil
}

// StoreSQLite writes the given globals to table, creating it when missing
// and replacing rows with the same name. Values are stored as YAML text.
func StoreSQLite(ctx context.Context, path, table string, values map[string]interface{}) error {
	if !tableName.MatchString(table) {
		return fmt.Errorf("invalid globals table name %q", table)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening globals db %s: %w", path, err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS "+table+" (name TEXT PRIMARY KEY, value TEXT NOT NULL)"); err != nil {
		return fmt.Errorf("creating %s.%s: %w", path, table, err)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for name, v := range values {
		text, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding global %q: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT OR REPLACE INTO "+table+" (name, value) VALUES (?, ?)", name, string(text)); err != nil {
			return fmt.Errorf("writing global %q: %w", name, err)
		}
	}
	return tx.Commit()
}
