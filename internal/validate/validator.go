// Package validate checks extracted figures for internal consistency.
package validate

import (
	"fmt"
	"math"

	"github.com/sells-group/finsight-cli/internal/model"
)

// DefaultBalanceTolerance is the accounting-equation tolerance band as
// a fraction of total assets.
const DefaultBalanceTolerance = 0.05

// Validator runs consistency checks on extracted financial data.
type Validator struct {
	balanceTolerance float64
}

// New creates a Validator. A non-positive tolerance falls back to the
// default.
func New(balanceTolerance float64) *Validator {
	if balanceTolerance <= 0 {
		balanceTolerance = DefaultBalanceTolerance
	}
	return &Validator{balanceTolerance: balanceTolerance}
}

// Validate checks the accounting equation, negative values, and
// completeness. Only the all-zero-critical case is fatal; everything
// else is a warning. Never fails.
func (v *Validator) Validate(d model.FinancialData) model.ValidationResult {
	res := model.ValidationResult{
		IsValid:  true,
		Errors:   []string{},
		Warnings: []string{},
	}

	// Sole fatal condition: no critical financial data at all. The
	// remaining checks still run so warnings are not lost.
	if d.TotalAssets == 0 && d.TotalLiabilities == 0 && d.TotalEquity == 0 {
		res.IsValid = false
		res.Errors = append(res.Errors, "no critical financial data found")
	}

	// Accounting equation: liabilities + equity should equal assets
	// within the tolerance band.
	diff := math.Abs(d.TotalLiabilities + d.TotalEquity - d.TotalAssets)
	if diff > v.balanceTolerance*d.TotalAssets {
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"balance sheet does not balance: liabilities + equity differs from assets by %.2f (tolerance %.0f%%)",
			diff, v.balanceTolerance*100,
		))
	}

	for _, f := range d.Fields() {
		if f.Value < 0 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("negative value for %s: %.2f", f.Name, f.Value))
		}
	}

	return res
}
