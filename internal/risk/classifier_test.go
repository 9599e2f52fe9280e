package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/finsight-cli/internal/config"
	"github.com/sells-group/finsight-cli/internal/model"
)

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := NewClassifier(DefaultRiskConfig())
	require.NoError(t, err)
	return c
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.RiskConfig)
		wantErr string
	}{
		{"default ok", func(c *config.RiskConfig) {}, ""},
		{"stricter solvency variant ok", func(c *config.RiskConfig) {
			c.SolvencyMediumAbove = 1.0
			c.SolvencyHighAbove = 2.0
		}, ""},
		{"zero liquidity threshold", func(c *config.RiskConfig) {
			c.LiquidityHighBelow = 0
		}, "liquidity_high_below"},
		{"inverted liquidity bands", func(c *config.RiskConfig) {
			c.LiquidityMediumBelow = 0.5
		}, "liquidity_medium_below"},
		{"inverted solvency bands", func(c *config.RiskConfig) {
			c.SolvencyHighAbove = 0.1
		}, "solvency_high_above"},
		{"negative operational threshold", func(c *config.RiskConfig) {
			c.OperationalMedAbove = -0.1
		}, "operational_medium_above"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultRiskConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name            string
		currentRatio    float64
		debtToEquity    float64
		debtToAssets    float64
		wantLiquidity   model.RiskLevel
		wantSolvency    model.RiskLevel
		wantOperational model.RiskLevel
		wantOverall     model.RiskLevel
	}{
		{
			name:         "distressed",
			currentRatio: 0.8, debtToEquity: 1.5, debtToAssets: 0.7,
			wantLiquidity: model.RiskHigh, wantSolvency: model.RiskHigh,
			wantOperational: model.RiskHigh, wantOverall: model.RiskHigh,
		},
		{
			name:         "two medium dimensions",
			currentRatio: 1.2, debtToEquity: 0.7, debtToAssets: 0.3,
			wantLiquidity: model.RiskMedium, wantSolvency: model.RiskMedium,
			wantOperational: model.RiskLow, wantOverall: model.RiskMedium,
		},
		{
			name:         "healthy",
			currentRatio: 2.0, debtToEquity: 0.3, debtToAssets: 0.2,
			wantLiquidity: model.RiskLow, wantSolvency: model.RiskLow,
			wantOperational: model.RiskLow, wantOverall: model.RiskLow,
		},
		{
			name:         "single high stays low overall",
			currentRatio: 0.5, debtToEquity: 0.2, debtToAssets: 0.1,
			wantLiquidity: model.RiskHigh, wantSolvency: model.RiskLow,
			wantOperational: model.RiskLow, wantOverall: model.RiskLow,
		},
		{
			name:         "boundary values are not breaches",
			currentRatio: 1.5, debtToEquity: 1.0, debtToAssets: 0.6,
			wantLiquidity: model.RiskLow, wantSolvency: model.RiskMedium,
			wantOperational: model.RiskMedium, wantOverall: model.RiskMedium,
		},
		{
			name:         "two high one medium",
			currentRatio: 0.9, debtToEquity: 1.2, debtToAssets: 0.5,
			wantLiquidity: model.RiskHigh, wantSolvency: model.RiskHigh,
			wantOperational: model.RiskMedium, wantOverall: model.RiskHigh,
		},
	}

	c := newTestClassifier(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := c.Classify(model.MetricsSet{
				CurrentRatio: tt.currentRatio,
				DebtToEquity: tt.debtToEquity,
				DebtToAssets: tt.debtToAssets,
			})
			assert.Equal(t, tt.wantLiquidity, p.Liquidity)
			assert.Equal(t, tt.wantSolvency, p.Solvency)
			assert.Equal(t, tt.wantOperational, p.Operational)
			assert.Equal(t, tt.wantOverall, p.Overall)
		})
	}
}

func TestClassify_StricterSolvencyVariant(t *testing.T) {
	cfg := DefaultRiskConfig()
	cfg.SolvencyMediumAbove = 1.0
	cfg.SolvencyHighAbove = 2.0
	c, err := NewClassifier(cfg)
	require.NoError(t, err)

	p := c.Classify(model.MetricsSet{CurrentRatio: 2.0, DebtToEquity: 1.5, DebtToAssets: 0.2})
	assert.Equal(t, model.RiskMedium, p.Solvency)
}

func TestNewClassifier_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultRiskConfig()
	cfg.LiquidityHighBelow = -1
	_, err := NewClassifier(cfg)
	require.Error(t, err)
}

func TestExplain(t *testing.T) {
	c := newTestClassifier(t)
	m := model.MetricsSet{CurrentRatio: 0.8, DebtToEquity: 1.5, DebtToAssets: 0.7}
	p := c.Classify(m)

	reasons := c.Explain(m, p)
	require.Len(t, reasons, 3)
	assert.Contains(t, reasons[0], "liquidity High")
	assert.Contains(t, reasons[1], "solvency High")
	assert.Contains(t, reasons[2], "operational High")
}
