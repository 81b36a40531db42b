package datastore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/CTAG07/Sometimes/pkg/sometimes"
	jsonpatch "github.com/evanphx/json-patch"
)

// SetupSchema creates the data table. It is idempotent and safe to call on
// an already-initialized database.
func SetupSchema(db *sql.DB) error {
	const schemaData = `
CREATE TABLE IF NOT EXISTS sometimes_data (
    data_key TEXT PRIMARY KEY,
    data_value TEXT NOT NULL
);
`
	if _, err := db.Exec(schemaData); err != nil {
		return fmt.Errorf("could not create schema: %w", err)
	}
	return nil
}

// DataStore reads and writes store entries through prepared statements.
type DataStore struct {
	db         *sql.DB
	logger     *slog.Logger
	stmtGet    *sql.Stmt
	stmtPut    *sql.Stmt
	stmtDelete *sql.Stmt
	stmtAll    *sql.Stmt
}

// New prepares the statements used by a DataStore. SetupSchema must have been
// called on db first.
func New(db *sql.DB, logger *slog.Logger) (*DataStore, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ds := &DataStore{db: db, logger: logger}
	var err error
	if ds.stmtGet, err = db.Prepare("SELECT data_value FROM sometimes_data WHERE data_key = ?"); err != nil {
		return nil, fmt.Errorf("failed to prepare get statement: %w", err)
	}
	if ds.stmtPut, err = db.Prepare(`
		INSERT INTO sometimes_data (data_key, data_value) VALUES (?, ?)
		ON CONFLICT(data_key) DO UPDATE SET data_value = excluded.data_value;
	`); err != nil {
		ds.Close()
		return nil, fmt.Errorf("failed to prepare put statement: %w", err)
	}
	if ds.stmtDelete, err = db.Prepare("DELETE FROM sometimes_data WHERE data_key = ?"); err != nil {
		ds.Close()
		return nil, fmt.Errorf("failed to prepare delete statement: %w", err)
	}
	if ds.stmtAll, err = db.Prepare("SELECT data_key, data_value FROM sometimes_data ORDER BY data_key"); err != nil {
		ds.Close()
		return nil, fmt.Errorf("failed to prepare list statement: %w", err)
	}
	return ds, nil
}

// Close releases the prepared statements. The database itself stays open.
func (ds *DataStore) Close() {
	for _, stmt := range []*sql.Stmt{ds.stmtGet, ds.stmtPut, ds.stmtDelete, ds.stmtAll} {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
}

// Get returns the decoded value stored under key. A missing key returns
// nil, false and no error.
func (ds *DataStore) Get(ctx context.Context, key string) (any, bool, error) {
	var raw string
	err := ds.stmtGet.QueryRowContext(ctx, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var v any
	if err = json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, false, fmt.Errorf("failed to decode value for %q: %w", key, err)
	}
	return v, true, nil
}

// Put stores value under key, replacing any previous value.
func (ds *DataStore) Put(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for %q: %w", key, err)
	}
	_, err = ds.stmtPut.ExecContext(ctx, key, string(data))
	return err
}

// Delete removes key. Deleting a missing key is not an error.
func (ds *DataStore) Delete(ctx context.Context, key string) error {
	_, err := ds.stmtDelete.ExecContext(ctx, key)
	return err
}

// All returns every stored entry, decoded.
func (ds *DataStore) All(ctx context.Context) (map[string]any, error) {
	return readAll(ctx, ds.stmtAll)
}

func readAll(ctx context.Context, stmt *sql.Stmt) (map[string]any, error) {
	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	out := make(map[string]any)
	for rows.Next() {
		var key, raw string
		if err = rows.Scan(&key, &raw); err != nil {
			return nil, err
		}
		var v any
		if err = json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("failed to decode value for %q: %w", key, err)
		}
		out[key] = v
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Keys returns the stored keys in ascending order.
func (ds *DataStore) Keys(ctx context.Context) ([]string, error) {
	all, err := ds.All(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// LoadInto copies every stored entry into store, overwriting keys it already
// holds. It returns the number of entries loaded.
func (ds *DataStore) LoadInto(ctx context.Context, store *sometimes.Store) (int, error) {
	entries, err := ds.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not load data: %w", err)
	}
	for k, v := range entries {
		store.Set(k, v)
	}
	ds.logger.InfoContext(ctx, "Data loaded into store", slog.Int("entries", len(entries)))
	return len(entries), nil
}

// SaveFrom replaces the table contents with a snapshot of store. The
// operation is performed within a transaction.
func (ds *DataStore) SaveFrom(ctx context.Context, store *sometimes.Store) error {
	snapshot := store.Snapshot()
	err := ds.inTx(ctx, func(tx *sql.Tx) error {
		return ds.writeAll(ctx, tx, snapshot)
	})
	if err != nil {
		return err
	}
	ds.logger.InfoContext(ctx, "Store saved", slog.Int("entries", len(snapshot)))
	return nil
}

// Patch applies a JSON merge patch (RFC 7386) to the table contents viewed as
// one JSON object. Keys patched to null are deleted. The read and the write
// happen in one transaction.
func (ds *DataStore) Patch(ctx context.Context, patch []byte) error {
	var next map[string]any
	err := ds.inTx(ctx, func(tx *sql.Tx) error {
		current, err := readAll(ctx, tx.StmtContext(ctx, ds.stmtAll))
		if err != nil {
			return err
		}
		doc, err := json.Marshal(current)
		if err != nil {
			return fmt.Errorf("failed to encode current data: %w", err)
		}
		patched, err := jsonpatch.MergePatch(doc, patch)
		if err != nil {
			return fmt.Errorf("failed to apply merge patch: %w", err)
		}
		if err = json.Unmarshal(patched, &next); err != nil {
			return fmt.Errorf("merge patch must leave an object: %w", err)
		}
		return ds.writeAll(ctx, tx, next)
	})
	if err != nil {
		return err
	}
	ds.logger.InfoContext(ctx, "Data patched", slog.Int("entries", len(next)))
	return nil
}

func (ds *DataStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := ds.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// writeAll replaces every row with entries.
func (ds *DataStore) writeAll(ctx context.Context, tx *sql.Tx, entries map[string]any) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM sometimes_data"); err != nil {
		return fmt.Errorf("failed to clear data: %w", err)
	}
	stmtPut := tx.StmtContext(ctx, ds.stmtPut)
	for k, v := range entries {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode value for %q: %w", k, err)
		}
		if _, err = stmtPut.ExecContext(ctx, k, string(data)); err != nil {
			return fmt.Errorf("failed to write %q: %w", k, err)
		}
	}
	return nil
}
