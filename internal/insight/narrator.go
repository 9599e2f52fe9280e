// Package insight produces the per-document narrative analysis, either
// via the external AI collaborator or a deterministic fallback.
package insight

import (
	"context"

	"github.com/sells-group/finsight-cli/internal/model"
)

// Narrator generates a narrative analysis from structured data. The
// pipeline holds a Narrator by injection so it can be tested without
// network access.
type Narrator interface {
	GenerateAnalysis(ctx context.Context, data model.FinancialData, metrics model.MetricsSet, previous *model.PeriodRecord) (*model.Analysis, error)
}
