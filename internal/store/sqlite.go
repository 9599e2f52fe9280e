package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/finsight-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures
// WAL mode.
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
CREATE TABLE IF NOT EXISTS documents (
	id             TEXT PRIMARY KEY,
	company_id     TEXT NOT NULL,
	file_name      TEXT NOT NULL,
	period         TEXT NOT NULL DEFAULT '',
	financial_year TEXT NOT NULL DEFAULT '',
	page_count     INTEGER NOT NULL DEFAULT 0,
	data           TEXT NOT NULL,
	validation     TEXT NOT NULL,
	metrics        TEXT,
	risk           TEXT,
	analysis       TEXT,
	created_at     DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_documents_company ON documents(company_id);
CREATE INDEX IF NOT EXISTS idx_documents_period ON documents(company_id, period);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertDocument(ctx context.Context, doc *model.Document) error {
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

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (id, company_id, file_name, period, financial_year, page_count,
			data, validation, metrics, risk, analysis, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
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
		dataJSON, validationJSON, metricsJSON, riskJSON, analysisJSON, doc.CreatedAt, doc.UpdatedAt,
	)
	return eris.Wrapf(err, "sqlite: upsert document %s", doc.ID)
}

func (s *SQLiteStore) GetDocument(ctx context.Context, id string) (*model.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, company_id, file_name, period, financial_year, page_count,
			data, validation, metrics, risk, analysis, created_at, updated_at
		FROM documents WHERE id = ?`, id)

	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("sqlite: document %s not found", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get document %s", id)
	}
	return doc, nil
}

func (s *SQLiteStore) ListDocuments(ctx context.Context, filter DocumentFilter) ([]model.Document, error) {
	query := `
		SELECT id, company_id, file_name, period, financial_year, page_count,
			data, validation, metrics, risk, analysis, created_at, updated_at
		FROM documents WHERE 1=1`
	var args []any

	if filter.CompanyID != "" {
		query += " AND company_id = ?"
		args = append(args, filter.CompanyID)
	}
	if filter.Period != "" {
		query += " AND period = ?"
		args = append(args, filter.Period)
	}
	query += " ORDER BY period DESC, created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list documents")
	}
	defer rows.Close() //nolint:errcheck

	var docs []model.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan document")
		}
		docs = append(docs, *doc)
	}
	return docs, eris.Wrap(rows.Err(), "sqlite: iterate documents")
}

func (s *SQLiteStore) DeleteDocument(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete document %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("sqlite: document %s not found", id)
	}
	return nil
}

func (s *SQLiteStore) PeriodRecords(ctx context.Context, companyID string) ([]model.PeriodRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT period, data FROM documents
		WHERE company_id = ? AND period != ''
		ORDER BY period ASC`, companyID)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: period records for %s", companyID)
	}
	defer rows.Close() //nolint:errcheck

	var records []model.PeriodRecord
	for rows.Next() {
		var period, dataJSON string
		if err := rows.Scan(&period, &dataJSON); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan period record")
		}
		var data model.FinancialData
		if err := json.Unmarshal([]byte(dataJSON), &data); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal financial data")
		}
		records = append(records, model.PeriodRecord{Period: period, Data: data})
	}
	return records, eris.Wrap(rows.Err(), "sqlite: iterate period records")
}

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*model.Document, error) {
	var doc model.Document
	var dataJSON, validationJSON string
	var metricsJSON, riskJSON, analysisJSON sql.NullString

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
	if metricsJSON.Valid && metricsJSON.String != "" {
		doc.Metrics = &model.MetricsSet{}
		if err := json.Unmarshal([]byte(metricsJSON.String), doc.Metrics); err != nil {
			return nil, eris.Wrap(err, "unmarshal metrics")
		}
	}
	if riskJSON.Valid && riskJSON.String != "" {
		doc.Risk = &model.RiskProfile{}
		if err := json.Unmarshal([]byte(riskJSON.String), doc.Risk); err != nil {
			return nil, eris.Wrap(err, "unmarshal risk")
		}
	}
	if analysisJSON.Valid && analysisJSON.String != "" {
		doc.Analysis = &model.Analysis{}
		if err := json.Unmarshal([]byte(analysisJSON.String), doc.Analysis); err != nil {
			return nil, eris.Wrap(err, "unmarshal analysis")
		}
	}
	return &doc, nil
}

func marshalDocument(doc *model.Document) (data, validation string, metrics, risk, analysis sql.NullString, err error) {
	dataBytes, err := json.Marshal(doc.Data)
	if err != nil {
		return "", "", metrics, risk, analysis, eris.Wrap(err, "store: marshal data")
	}
	validationBytes, err := json.Marshal(doc.Validation)
	if err != nil {
		return "", "", metrics, risk, analysis, eris.Wrap(err, "store: marshal validation")
	}

	marshalOptional := func(v any) (sql.NullString, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return sql.NullString{}, err
		}
		return sql.NullString{String: string(b), Valid: true}, nil
	}

	if doc.Metrics != nil {
		if metrics, err = marshalOptional(doc.Metrics); err != nil {
			return "", "", metrics, risk, analysis, eris.Wrap(err, "store: marshal metrics")
		}
	}
	if doc.Risk != nil {
		if risk, err = marshalOptional(doc.Risk); err != nil {
			return "", "", metrics, risk, analysis, eris.Wrap(err, "store: marshal risk")
		}
	}
	if doc.Analysis != nil {
		if analysis, err = marshalOptional(doc.Analysis); err != nil {
			return "", "", metrics, risk, analysis, eris.Wrap(err, "store: marshal analysis")
		}
	}
	return string(dataBytes), string(validationBytes), metrics, risk, analysis, nil
}
