package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/finsight-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies
// it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}

	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS documents (
	id             TEXT PRIMARY KEY,
	company_id     TEXT NOT NULL,
	file_name      TEXT NOT NULL,
	period         TEXT NOT NULL DEFAULT '',
	financial_year TEXT NOT NULL DEFAULT '',
	page_count     INTEGER NOT NULL DEFAULT 0,
	data           JSONB NOT NULL,
	validation     JSONB NOT NULL,
	metrics        JSONB,
	risk           JSONB,
	analysis       JSONB,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_documents_company ON documents(company_id);
CREATE INDEX IF NOT EXISTS idx_documents_period ON documents(company_id, period);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) UpsertDocument(ctx context.Context, doc *model.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	dataJSON, validationJSON, metricsJSON, riskJSON, analysisJSON, err := marshalDocument(doc)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO documents (id, company_id, file_name, period, financial_year, page_count,
			data, validation, metrics, risk, analysis, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT(id) DO UPDATE SET
			company_id = excluded.company_id,
			file_name = excluded.file_name,
			period = excluded.period,
			financial_year = excluded.financial_year,
			page_count = excluded.page_count,
			data = excluded.data,
			validation = excluded.validation,
			metrics = excluded.metrics,
			risk = excluded.risk,
			analysis = excluded.analysis,
			updated_at = excluded.updated_at`,
		doc.ID, doc.CompanyID, doc.FileName, doc.Period, doc.FinancialYear, doc.PageCount,
		dataJSON, validationJSON, nullableString(metricsJSON), nullableString(riskJSON),
		nullableString(analysisJSON), doc.CreatedAt, doc.UpdatedAt,
	)
	return eris.Wrapf(err, "postgres: upsert document %s", doc.ID)
}

func (s *PostgresStore) GetDocument(ctx context.Context, id string) (*model.Document, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, company_id, file_name, period, financial_year, page_count,
			data, validation, metrics, risk, analysis, created_at, updated_at
		FROM documents WHERE id = $1`, id)

	doc, err := scanPgDocument(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Errorf("postgres: document %s not found", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get document %s", id)
	}
	return doc, nil
}

func (s *PostgresStore) ListDocuments(ctx context.Context, filter DocumentFilter) ([]model.Document, error) {
	query := `
		SELECT id, company_id, file_name, period, financial_year, page_count,
			data, validation, metrics, risk, analysis, created_at, updated_at
		FROM documents WHERE 1=1`
	var args []any

	if filter.CompanyID != "" {
		args = append(args, filter.CompanyID)
		query += " AND company_id = $1"
	}
	if filter.Period != "" {
		args = append(args, filter.Period)
		query += " AND period = $" + strconv.Itoa(len(args))
	}
	query += " ORDER BY period DESC, created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += " OFFSET $" + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list documents")
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		doc, err := scanPgDocument(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan document")
		}
		docs = append(docs, *doc)
	}
	return docs, eris.Wrap(rows.Err(), "postgres: iterate documents")
}

func (s *PostgresStore) DeleteDocument(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete document %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: document %s not found", id)
	}
	return nil
}

func (s *PostgresStore) PeriodRecords(ctx context.Context, companyID string) ([]model.PeriodRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT period, data FROM documents
		WHERE company_id = $1 AND period != ''
		ORDER BY period ASC`, companyID)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: period records for %s", companyID)
	}
	defer rows.Close()

	var records []model.PeriodRecord
	for rows.Next() {
		var period, dataJSON string
		if err := rows.Scan(&period, &dataJSON); err != nil {
			return nil, eris.Wrap(err, "postgres: scan period record")
		}
		var data model.FinancialData
		if err := json.Unmarshal([]byte(dataJSON), &data); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal financial data")
		}
		records = append(records, model.PeriodRecord{Period: period, Data: data})
	}
	return records, eris.Wrap(rows.Err(), "postgres: iterate period records")
}

func scanPgDocument(row pgx.Row) (*model.Document, error) {
	var doc model.Document
	var dataJSON, validationJSON string
	var metricsJSON, riskJSON, analysisJSON *string

	err := row.Scan(&doc.ID, &doc.CompanyID, &doc.FileName, &doc.Period, &doc.FinancialYear,
		&doc.PageCount, &dataJSON, &validationJSON, &metricsJSON, &riskJSON, &analysisJSON,
		&doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(dataJSON), &doc.Data); err != nil {
		return nil, eris.Wrap(err, "unmarshal data")
	}
	if err := json.Unmarshal([]byte(validationJSON), &doc.Validation); err != nil {
		return nil, eris.Wrap(err, "unmarshal validation")
	}
	if metricsJSON != nil {
		doc.Metrics = &model.MetricsSet{}
		if err := json.Unmarshal([]byte(*metricsJSON), doc.Metrics); err != nil {
			return nil, eris.Wrap(err, "unmarshal metrics")
		}
	}
	if riskJSON != nil {
		doc.Risk = &model.RiskProfile{}
		if err := json.Unmarshal([]byte(*riskJSON), doc.Risk); err != nil {
			return nil, eris.Wrap(err, "unmarshal risk")
		}
	}
	if analysisJSON != nil {
		doc.Analysis = &model.Analysis{}
		if err := json.Unmarshal([]byte(*analysisJSON), doc.Analysis); err != nil {
			return nil, eris.Wrap(err, "unmarshal analysis")
		}
	}
	return &doc, nil
}

func nullableString(s sql.NullString) any {
	if s.Valid {
		return s.String
	}
	return nil
}
