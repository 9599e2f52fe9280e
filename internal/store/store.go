// Package store persists analyzed documents.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/finsight-cli/internal/config"
	"github.com/sells-group/finsight-cli/internal/model"
)

// DocumentFilter specifies criteria for listing documents.
type DocumentFilter struct {
	CompanyID string `json:"company_id,omitempty"`
	Period    string `json:"period,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for analyzed documents.
// UpsertDocument is the single write step after a pipeline run; there
// is no partial-update operation.
type Store interface {
	UpsertDocument(ctx context.Context, doc *model.Document) error
	GetDocument(ctx context.Context, id string) (*model.Document, error)
	ListDocuments(ctx context.Context, filter DocumentFilter) ([]model.Document, error)
	DeleteDocument(ctx context.Context, id string) error

	// PeriodRecords returns one record per period for a company,
	// ordered oldest first, ready for the trend engine.
	PeriodRecords(ctx context.Context, companyID string) ([]model.PeriodRecord, error)

	Migrate(ctx context.Context) error
	Close() error
}

// New creates a Store from config.
func New(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return NewSQLite(cfg.DatabaseURL)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
