package store

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/finsight-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_GetDocument_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, company_id, file_name, period, financial_year, page_count`).
		WithArgs("missing-doc").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetDocument(context.Background(), "missing-doc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertDocument(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`ON CONFLICT`).
		WithArgs(pgxmock.AnyArg(), "acme", "q4.pdf", "2024", "2024", 3,
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	doc := &model.Document{
		CompanyID:     "acme",
		FileName:      "q4.pdf",
		Period:        "2024",
		FinancialYear: "2024",
		PageCount:     3,
		Data:          model.FinancialData{TotalAssets: 1000},
		Validation:    model.ValidationResult{IsValid: true},
	}
	err := s.UpsertDocument(context.Background(), doc)
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.False(t, doc.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteDocument_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM documents WHERE id = \$1`).
		WithArgs("missing-doc").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := s.DeleteDocument(context.Background(), "missing-doc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_PeriodRecords(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	rows := pgxmock.NewRows([]string{"period", "data"}).
		AddRow("2022", `{"totalAssets":500}`).
		AddRow("2023", `{"totalAssets":750}`)
	mock.ExpectQuery(`SELECT period, data FROM documents`).
		WithArgs("acme").
		WillReturnRows(rows)

	records, err := s.PeriodRecords(context.Background(), "acme")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2022", records[0].Period)
	assert.InDelta(t, 500.0, records[0].Data.TotalAssets, 1e-9)
	assert.Equal(t, "2023", records[1].Period)
	assert.NoError(t, mock.ExpectationsWereMet())
}
