// Package risk maps computed ratios to discrete risk classifications.
package risk

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/finsight-cli/internal/config"
	"github.com/sells-group/finsight-cli/internal/model"
)

// DefaultRiskConfig returns the canonical threshold table. The
// debt-to-equity pair is the 0.5/1.0 set; swap in 1.0/2.0 via config
// for the stricter variant.
func DefaultRiskConfig() config.RiskConfig {
	return config.RiskConfig{
		LiquidityHighBelow:   1.0,
		LiquidityMediumBelow: 1.5,
		SolvencyMediumAbove:  0.5,
		SolvencyHighAbove:    1.0,
		OperationalMedAbove:  0.4,
		OperationalHighAbove: 0.6,
	}
}

// ValidateConfig checks that a RiskConfig is internally consistent.
func ValidateConfig(c config.RiskConfig) error {
	var errs []string

	if c.LiquidityHighBelow <= 0 {
		errs = append(errs, "liquidity_high_below must be > 0")
	}
	if c.LiquidityMediumBelow < c.LiquidityHighBelow {
		errs = append(errs, "liquidity_medium_below must be >= liquidity_high_below")
	}
	if c.SolvencyMediumAbove < 0 {
		errs = append(errs, "solvency_medium_above must be >= 0")
	}
	if c.SolvencyHighAbove < c.SolvencyMediumAbove {
		errs = append(errs, "solvency_high_above must be >= solvency_medium_above")
	}
	if c.OperationalMedAbove < 0 {
		errs = append(errs, "operational_medium_above must be >= 0")
	}
	if c.OperationalHighAbove < c.OperationalMedAbove {
		errs = append(errs, "operational_high_above must be >= operational_medium_above")
	}

	if len(errs) > 0 {
		return eris.Errorf("risk: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Classifier applies a fixed threshold table to a metrics set.
type Classifier struct {
	cfg config.RiskConfig
}

// NewClassifier creates a Classifier after validating the thresholds.
func NewClassifier(cfg config.RiskConfig) (*Classifier, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return &Classifier{cfg: cfg}, nil
}

// Classify maps ratios to per-dimension risk levels and aggregates
// them. Overall is High when at least two dimensions are High, Medium
// when at least two are Medium (and the High rule didn't fire), else
// Low.
func (c *Classifier) Classify(m model.MetricsSet) model.RiskProfile {
	p := model.RiskProfile{
		Liquidity:   classifyBelow(m.CurrentRatio, c.cfg.LiquidityHighBelow, c.cfg.LiquidityMediumBelow),
		Solvency:    classifyAbove(m.DebtToEquity, c.cfg.SolvencyHighAbove, c.cfg.SolvencyMediumAbove),
		Operational: classifyAbove(m.DebtToAssets, c.cfg.OperationalHighAbove, c.cfg.OperationalMedAbove),
	}
	p.Overall = overall(p.Liquidity, p.Solvency, p.Operational)
	return p
}

// Explain renders a one-line reason per dimension, for logs and the
// risk endpoint.
func (c *Classifier) Explain(m model.MetricsSet, p model.RiskProfile) []string {
	return []string{
		fmt.Sprintf("liquidity %s: current ratio %.2f (high below %.2f, medium below %.2f)",
			p.Liquidity, m.CurrentRatio, c.cfg.LiquidityHighBelow, c.cfg.LiquidityMediumBelow),
		fmt.Sprintf("solvency %s: debt-to-equity %.2f (medium above %.2f, high above %.2f)",
			p.Solvency, m.DebtToEquity, c.cfg.SolvencyMediumAbove, c.cfg.SolvencyHighAbove),
		fmt.Sprintf("operational %s: debt-to-assets %.2f (medium above %.2f, high above %.2f)",
			p.Operational, m.DebtToAssets, c.cfg.OperationalMedAbove, c.cfg.OperationalHighAbove),
	}
}

// classifyBelow grades a ratio where lower is riskier.
func classifyBelow(v, highBelow, mediumBelow float64) model.RiskLevel {
	switch {
	case v < highBelow:
		return model.RiskHigh
	case v < mediumBelow:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

// classifyAbove grades a ratio where higher is riskier.
func classifyAbove(v, highAbove, mediumAbove float64) model.RiskLevel {
	switch {
	case v > highAbove:
		return model.RiskHigh
	case v > mediumAbove:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

func overall(levels ...model.RiskLevel) model.RiskLevel {
	var highs, mediums int
	for _, l := range levels {
		switch l {
		case model.RiskHigh:
			highs++
		case model.RiskMedium:
			mediums++
		}
	}
	switch {
	case highs >= 2:
		return model.RiskHigh
	case mediums >= 2:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}
