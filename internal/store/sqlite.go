package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/lead-intel/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id          TEXT PRIMARY KEY,
	lead_key    TEXT NOT NULL UNIQUE,
	name        TEXT NOT NULL,
	company     TEXT NOT NULL,
	score       INTEGER NOT NULL,
	data        TEXT NOT NULL,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS saved_leads (
	id        TEXT PRIMARY KEY,
	lead_key  TEXT NOT NULL UNIQUE REFERENCES leads(lead_key) ON DELETE CASCADE,
	saved_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS stats (
	name  TEXT PRIMARY KEY,
	value INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_leads_score ON leads(score DESC);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "sqlite: ping")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const sqliteUpsertLead = `
INSERT INTO leads (id, lead_key, name, company, score, data, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(lead_key) DO UPDATE SET
	name = excluded.name,
	company = excluded.company,
	score = excluded.score,
	data = excluded.data,
	updated_at = excluded.updated_at`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertLead(ctx context.Context, ex execer, lead *model.Lead) error {
	data, err := json.Marshal(lead)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal lead")
	}
	now := time.Now().UTC()
	_, err = ex.ExecContext(ctx, sqliteUpsertLead,
		uuid.New().String(), Key(lead), lead.Name, lead.Company, lead.Score, string(data), now, now,
	)
	return eris.Wrapf(err, "sqlite: upsert lead %s", Key(lead))
}

func (s *SQLiteStore) SaveLead(ctx context.Context, lead *model.Lead) error {
	return upsertLead(ctx, s.db, lead)
}

func (s *SQLiteStore) SaveLeads(ctx context.Context, leads []*model.Lead) (int64, error) {
	if len(leads) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	for _, lead := range leads {
		if err := upsertLead(ctx, tx, lead); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit")
	}
	return int64(len(leads)), nil
}

func (s *SQLiteStore) GetLead(ctx context.Context, key string) (*model.Lead, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM leads WHERE lead_key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get lead %s", key)
	}
	return decodeLead([]byte(data))
}

func (s *SQLiteStore) ListLeads(ctx context.Context, filter LeadFilter) ([]*model.Lead, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM leads WHERE score >= ? ORDER BY score DESC, updated_at DESC LIMIT ? OFFSET ?`,
		filter.MinScore, limitOrDefault(filter.Limit), max(filter.Offset, 0),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list leads")
	}
	defer rows.Close()

	var leads []*model.Lead
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan lead")
		}
		lead, err := decodeLead([]byte(data))
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, eris.Wrap(rows.Err(), "sqlite: iterate leads")
}

func (s *SQLiteStore) DeleteLead(ctx context.Context, key string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM saved_leads WHERE lead_key = ?`, key); err != nil {
		return eris.Wrapf(err, "sqlite: delete saved %s", key)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM leads WHERE lead_key = ?`, key)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete lead %s", key)
	}
	if err := checkRowsAffected(res); err != nil {
		return err
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit")
}

func (s *SQLiteStore) IncrementStat(ctx context.Context, name string, delta int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO stats (name, value) VALUES (?, ?) ON CONFLICT(name) DO UPDATE SET value = value + excluded.value`,
		name, delta,
	)
	return eris.Wrapf(err, "sqlite: increment stat %s", name)
}

func (s *SQLiteStore) Stats(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, value FROM stats`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: stats")
	}
	defer rows.Close()

	out := knownStats()
	for rows.Next() {
		var name string
		var v int64
		if err := rows.Scan(&name, &v); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan stat")
		}
		out[name] = v
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate stats")
}

func (s *SQLiteStore) SaveToList(ctx context.Context, key string) (*SavedLead, error) {
	lead, err := s.GetLead(ctx, key)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO saved_leads (id, lead_key, saved_at) VALUES (?, ?, ?) ON CONFLICT(lead_key) DO NOTHING`,
		uuid.New().String(), key, time.Now().UTC(),
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: save to list %s", key)
	}

	saved := &SavedLead{Key: key, Lead: lead}
	err = s.db.QueryRowContext(ctx, `SELECT id, saved_at FROM saved_leads WHERE lead_key = ?`, key).
		Scan(&saved.ID, &saved.SavedAt)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: read saved %s", key)
	}
	return saved, nil
}

func (s *SQLiteStore) ListSaved(ctx context.Context) ([]SavedLead, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.lead_key, s.saved_at, l.data
		FROM saved_leads s JOIN leads l ON l.lead_key = s.lead_key
		ORDER BY s.saved_at DESC, s.id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list saved")
	}
	defer rows.Close()

	var out []SavedLead
	for rows.Next() {
		var sl SavedLead
		var data string
		if err := rows.Scan(&sl.ID, &sl.Key, &sl.SavedAt, &data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan saved")
		}
		if sl.Lead, err = decodeLead([]byte(data)); err != nil {
			return nil, err
		}
		out = append(out, sl)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate saved")
}

// helpers

func checkRowsAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func decodeLead(data []byte) (*model.Lead, error) {
	var lead model.Lead
	if err := json.Unmarshal(data, &lead); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal lead")
	}
	return &lead, nil
}
