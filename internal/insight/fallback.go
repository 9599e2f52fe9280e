package insight

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/finsight-cli/internal/model"
)

// Fallback is the deterministic substitute narrator used whenever the
// AI collaborator is unreachable or errors. It builds templated
// sentences from the already-computed metrics, never fails, and always
// returns a structurally complete analysis.
type Fallback struct {
	printer *message.Printer
}

// NewFallback creates a fallback generator.
func NewFallback() *Fallback {
	return &Fallback{printer: message.NewPrinter(language.English)}
}

// Generate builds a complete analysis from the metrics set. All slices
// and maps in the result are non-nil.
func (f *Fallback) Generate(data model.FinancialData, m model.MetricsSet) *model.Analysis {
	a := &model.Analysis{
		KeyInsights:     []string{},
		RiskFactors:     []string{},
		Recommendations: []string{},
		AdvancedMetrics: map[string]float64{
			"daysSalesOutstanding":     m.DaysSalesOutstanding,
			"daysInventoryOutstanding": m.DaysInventoryOutstanding,
			"daysPayablesOutstanding":  m.DaysPayablesOutstanding,
			"cashConversionCycle":      m.CashConversionCycle,
			"workingCapitalRatio":      m.WorkingCapitalRatio,
			"equityRatio":              m.EquityRatio,
			"assetTurnover":            m.AssetTurnover,
		},
		Source:      model.SourceFallback,
		GeneratedAt: time.Now().UTC(),
	}

	a.Narrative = f.printer.Sprintf(
		"The company reports total assets of %.0f against total liabilities of %.0f and equity of %.0f. "+
			"The current ratio stands at %.2f and debt-to-equity at %.2f, with working capital of %.0f. "+
			"Net margin for the period is %.1f%% on revenue of %.0f.",
		data.TotalAssets, data.TotalLiabilities, data.TotalEquity,
		m.CurrentRatio, m.DebtToEquity, m.WorkingCapital,
		m.NetMargin*100, data.Revenue,
	)

	// Liquidity
	switch {
	case m.CurrentRatio >= 1.5:
		a.KeyInsights = append(a.KeyInsights, fmt.Sprintf(
			"Healthy short-term liquidity: current ratio of %.2f comfortably covers current liabilities.", m.CurrentRatio))
	case m.CurrentRatio >= 1.0:
		a.KeyInsights = append(a.KeyInsights, fmt.Sprintf(
			"Adequate liquidity: current ratio of %.2f leaves a thin buffer over current liabilities.", m.CurrentRatio))
	default:
		a.RiskFactors = append(a.RiskFactors, fmt.Sprintf(
			"Current ratio of %.2f is below 1: current liabilities exceed current assets.", m.CurrentRatio))
		a.Recommendations = append(a.Recommendations,
			"Strengthen working capital by accelerating receivables collection or refinancing short-term obligations.")
	}

	// Solvency
	switch {
	case m.DebtToEquity > 1.0:
		a.RiskFactors = append(a.RiskFactors, fmt.Sprintf(
			"High leverage: debt-to-equity of %.2f means liabilities exceed shareholder equity.", m.DebtToEquity))
		a.Recommendations = append(a.Recommendations,
			"Reduce leverage by retaining earnings or converting short-term debt to equity.")
	case m.DebtToEquity > 0.5:
		a.KeyInsights = append(a.KeyInsights, fmt.Sprintf(
			"Moderate leverage: debt-to-equity of %.2f.", m.DebtToEquity))
	default:
		a.KeyInsights = append(a.KeyInsights, fmt.Sprintf(
			"Conservative capital structure: debt-to-equity of %.2f.", m.DebtToEquity))
	}

	// Profitability
	switch {
	case m.NetMargin < 0:
		a.RiskFactors = append(a.RiskFactors, fmt.Sprintf(
			"The company is loss-making: net margin of %.1f%%.", m.NetMargin*100))
		a.Recommendations = append(a.Recommendations,
			"Review cost structure; operating expenses are consuming more than total revenue.")
	case m.NetMargin < 0.05:
		a.KeyInsights = append(a.KeyInsights, fmt.Sprintf(
			"Thin profitability: net margin of %.1f%%.", m.NetMargin*100))
	default:
		a.KeyInsights = append(a.KeyInsights, fmt.Sprintf(
			"Net margin of %.1f%% with return on equity of %.1f%%.", m.NetMargin*100, m.ReturnOnEquity*100))
	}

	// Cash cycle
	if m.CashConversionCycle > 90 {
		a.RiskFactors = append(a.RiskFactors, fmt.Sprintf(
			"Long cash conversion cycle of %.0f days ties up working capital.", m.CashConversionCycle))
		a.Recommendations = append(a.Recommendations,
			"Negotiate longer payable terms or reduce inventory holding to shorten the cash cycle.")
	}

	if len(a.Recommendations) == 0 {
		a.Recommendations = append(a.Recommendations,
			"Maintain current financial discipline; no immediate corrective action indicated by the computed ratios.")
	}

	a.IndustryBenchmark = fmt.Sprintf(
		"Against a generic benchmark (current ratio 1.5, debt-to-equity 1.0, net margin 10%%), "+
			"the company sits at %.2f, %.2f and %.1f%% respectively.",
		m.CurrentRatio, m.DebtToEquity, m.NetMargin*100,
	)

	return a
}
