package model

// MetricsSet is the full ratio bundle derived from one FinancialData
// instance. Pure function output: recomputed on demand, never mutated.
type MetricsSet struct {
	// Liquidity
	CurrentRatio float64 `json:"currentRatio"`
	QuickRatio   float64 `json:"quickRatio"`
	CashRatio    float64 `json:"cashRatio"`

	// Solvency
	DebtToEquity float64 `json:"debtToEquity"`
	DebtToAssets float64 `json:"debtToAssets"`
	EquityRatio  float64 `json:"equityRatio"`

	// Efficiency
	AssetTurnover       float64 `json:"assetTurnover"`
	InventoryTurnover   float64 `json:"inventoryTurnover"`
	ReceivablesTurnover float64 `json:"receivablesTurnover"`
	FixedAssetTurnover  float64 `json:"fixedAssetTurnover"`

	// Profitability
	ReturnOnAssets float64 `json:"roa"`
	ReturnOnEquity float64 `json:"roe"`
	GrossMargin    float64 `json:"grossMargin"`
	NetMargin      float64 `json:"netMargin"`

	// Working capital
	WorkingCapital      float64 `json:"workingCapital"`
	WorkingCapitalRatio float64 `json:"workingCapitalRatio"`

	// Cash cycle (days)
	DaysSalesOutstanding     float64 `json:"daysSalesOutstanding"`
	DaysInventoryOutstanding float64 `json:"daysInventoryOutstanding"`
	DaysPayablesOutstanding  float64 `json:"daysPayablesOutstanding"`
	CashConversionCycle      float64 `json:"cashConversionCycle"`
}

// RiskLevel is a discrete risk classification.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// RiskProfile maps a MetricsSet to per-dimension risk levels plus an
// aggregate rating.
type RiskProfile struct {
	Liquidity   RiskLevel `json:"liquidityRisk"`
	Solvency    RiskLevel `json:"solvencyRisk"`
	Operational RiskLevel `json:"operationalRisk"`
	Overall     RiskLevel `json:"overallRisk"`
}

// GrowthRate is one period-over-period growth figure. Defined is false
// when the prior value was 0 and the rate is reported as 0 rather than
// infinite.
type GrowthRate struct {
	Percent float64 `json:"percent"`
	Defined bool    `json:"defined"`
}

// PairGrowth holds the growth rates for one adjacent period pair.
type PairGrowth struct {
	Revenue          GrowthRate `json:"revenue"`
	TotalAssets      GrowthRate `json:"totalAssets"`
	TotalEquity      GrowthRate `json:"totalEquity"`
	TotalLiabilities GrowthRate `json:"totalLiabilities"`
}

// CAGREntry is a compound annual growth rate over the full period span.
// Defined is false when the first period's value was <= 0.
type CAGREntry struct {
	Rate    float64 `json:"rate"`
	Defined bool    `json:"defined"`
}

// CAGRBundle holds CAGR per tracked metric.
type CAGRBundle struct {
	Revenue          CAGREntry `json:"revenue"`
	TotalAssets      CAGREntry `json:"totalAssets"`
	TotalEquity      CAGREntry `json:"totalEquity"`
	TotalLiabilities CAGREntry `json:"totalLiabilities"`
}

// TrendResult is the multi-period comparison output: per-adjacent-pair
// growth keyed by "{previousPeriod}-{currentPeriod}" plus CAGR across
// the whole span.
type TrendResult struct {
	Periods int                   `json:"periods"`
	Pairs   map[string]PairGrowth `json:"pairs"`
	CAGR    CAGRBundle            `json:"cagr"`
}
