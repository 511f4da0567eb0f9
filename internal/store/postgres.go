package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-intel/internal/db"
	"github.com/sells-group/lead-intel/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection.
var preparedStatements = map[string]string{
	"upsert_lead": postgresUpsertLead,
	"get_lead":    `SELECT data FROM leads WHERE lead_key = $1`,
	"incr_stat":   postgresIncrStat,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id          TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	lead_key    TEXT NOT NULL UNIQUE,
	name        TEXT NOT NULL,
	company     TEXT NOT NULL,
	score       INTEGER NOT NULL,
	data        JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS saved_leads (
	id        TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	lead_key  TEXT NOT NULL UNIQUE REFERENCES leads(lead_key) ON DELETE CASCADE,
	saved_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS stats (
	name  TEXT PRIMARY KEY,
	value BIGINT NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_leads_score ON leads(score DESC);
`

const postgresUpsertLead = `
INSERT INTO leads (id, lead_key, name, company, score, data, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (lead_key) DO UPDATE SET
	name = EXCLUDED.name,
	company = EXCLUDED.company,
	score = EXCLUDED.score,
	data = EXCLUDED.data,
	updated_at = EXCLUDED.updated_at`

const postgresIncrStat = `
INSERT INTO stats (name, value) VALUES ($1, $2)
ON CONFLICT (name) DO UPDATE SET value = stats.value + EXCLUDED.value`

var leadColumns = []string{"id", "lead_key", "name", "company", "score", "data", "created_at", "updated_at"}

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func leadRow(lead *model.Lead, now time.Time) ([]any, error) {
	data, err := json.Marshal(lead)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal lead")
	}
	return []any{uuid.New().String(), Key(lead), lead.Name, lead.Company, lead.Score, data, now, now}, nil
}

func (s *PostgresStore) SaveLead(ctx context.Context, lead *model.Lead) error {
	row, err := leadRow(lead, time.Now().UTC())
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, postgresUpsertLead, row...)
	return eris.Wrapf(err, "postgres: upsert lead %s", Key(lead))
}

// SaveLeads upserts a batch through a COPY into a staging table. Duplicate
// keys within one batch keep the last occurrence.
func (s *PostgresStore) SaveLeads(ctx context.Context, leads []*model.Lead) (int64, error) {
	now := time.Now().UTC()
	seen := make(map[string]int, len(leads))
	var rows [][]any
	for _, lead := range leads {
		row, err := leadRow(lead, now)
		if err != nil {
			return 0, err
		}
		if i, ok := seen[Key(lead)]; ok {
			rows[i] = row
			continue
		}
		seen[Key(lead)] = len(rows)
		rows = append(rows, row)
	}

	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "leads",
		Columns:      leadColumns,
		ConflictKeys: []string{"lead_key"},
		UpdateCols:   []string{"name", "company", "score", "data", "updated_at"},
	}, rows)
	return n, eris.Wrap(err, "postgres: save leads")
}

func (s *PostgresStore) GetLead(ctx context.Context, key string) (*model.Lead, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM leads WHERE lead_key = $1`, key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get lead %s", key)
	}
	return decodeLead(data)
}

func (s *PostgresStore) ListLeads(ctx context.Context, filter LeadFilter) ([]*model.Lead, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM leads WHERE score >= $1 ORDER BY score DESC, updated_at DESC LIMIT $2 OFFSET $3`,
		filter.MinScore, limitOrDefault(filter.Limit), max(filter.Offset, 0),
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list leads")
	}
	defer rows.Close()

	var leads []*model.Lead
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan lead")
		}
		lead, err := decodeLead(data)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, eris.Wrap(rows.Err(), "postgres: iterate leads")
}

func (s *PostgresStore) DeleteLead(ctx context.Context, key string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM leads WHERE lead_key = $1`, key)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete lead %s", key)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) IncrementStat(ctx context.Context, name string, delta int64) error {
	_, err := s.pool.Exec(ctx, postgresIncrStat, name, delta)
	return eris.Wrapf(err, "postgres: increment stat %s", name)
}

func (s *PostgresStore) Stats(ctx context.Context) (map[string]int64, error) {
	rows, err := s.pool.Query(ctx, `SELECT name, value FROM stats`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: stats")
	}
	defer rows.Close()

	out := knownStats()
	for rows.Next() {
		var name string
		var v int64
		if err := rows.Scan(&name, &v); err != nil {
			return nil, eris.Wrap(err, "postgres: scan stat")
		}
		out[name] = v
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate stats")
}

func (s *PostgresStore) SaveToList(ctx context.Context, key string) (*SavedLead, error) {
	lead, err := s.GetLead(ctx, key)
	if err != nil {
		return nil, err
	}

	saved := &SavedLead{Key: key, Lead: lead}
	err = s.pool.QueryRow(ctx, `
		INSERT INTO saved_leads (id, lead_key, saved_at) VALUES ($1, $2, $3)
		ON CONFLICT (lead_key) DO UPDATE SET lead_key = EXCLUDED.lead_key
		RETURNING id, saved_at`,
		uuid.New().String(), key, time.Now().UTC(),
	).Scan(&saved.ID, &saved.SavedAt)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: save to list %s", key)
	}
	return saved, nil
}

func (s *PostgresStore) ListSaved(ctx context.Context) ([]SavedLead, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT s.id, s.lead_key, s.saved_at, l.data
		FROM saved_leads s JOIN leads l ON l.lead_key = s.lead_key
		ORDER BY s.saved_at DESC, s.id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list saved")
	}
	defer rows.Close()

	var out []SavedLead
	for rows.Next() {
		var sl SavedLead
		var data []byte
		if err := rows.Scan(&sl.ID, &sl.Key, &sl.SavedAt, &data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan saved")
		}
		if sl.Lead, err = decodeLead(data); err != nil {
			return nil, err
		}
		out = append(out, sl)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate saved")
}
