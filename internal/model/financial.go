// Package model defines the data types exchanged between pipeline phases.
package model

// FinancialData holds the extracted balance-sheet and income-statement
// figures for one reporting period. Field names form the stable contract
// between extraction, metrics, and persisted records; do not rename.
// A missing line item is 0; extraction cannot distinguish "zero" from
// "not reported".
type FinancialData struct {
	// Assets
	TotalAssets            float64 `json:"totalAssets"`
	CurrentAssets          float64 `json:"currentAssets"`
	CashAndEquivalents     float64 `json:"cashAndEquivalents"`
	Receivables            float64 `json:"receivables"`
	Inventory              float64 `json:"inventory"`
	PropertyPlantEquipment float64 `json:"propertyPlantEquipment"`
	Investments            float64 `json:"investments"`
	OtherAssets            float64 `json:"otherAssets"`

	// Liabilities
	TotalLiabilities   float64 `json:"totalLiabilities"`
	CurrentLiabilities float64 `json:"currentLiabilities"`
	LongTermDebt       float64 `json:"longTermDebt"`
	TradePayables      float64 `json:"tradePayables"`
	Provisions         float64 `json:"provisions"`

	// Equity
	TotalEquity        float64 `json:"totalEquity"`
	ShareCapital       float64 `json:"shareCapital"`
	ReservesAndSurplus float64 `json:"reservesAndSurplus"`

	// Income statement
	Revenue           float64 `json:"revenue"`
	CostOfGoodsSold   float64 `json:"costOfGoodsSold"`
	GrossProfit       float64 `json:"grossProfit"`
	OperatingExpenses float64 `json:"operatingExpenses"`
	NetProfit         float64 `json:"netProfit"`

	// Derived figures recomputed in place at save time. Recomputing on
	// unchanged inputs yields identical values.
	WorkingCapital float64 `json:"workingCapital"`
	DebtToEquity   float64 `json:"debtToEquityRatio"`
	CurrentRatio   float64 `json:"currentRatio"`
	QuickRatio     float64 `json:"quickRatio"`
}

// Field is a named line-item value, used for iteration in validation
// and reporting.
type Field struct {
	Name  string
	Value float64
}

// Fields returns the extracted line items in declaration order. Derived
// figures are excluded.
func (d FinancialData) Fields() []Field {
	return []Field{
		{"totalAssets", d.TotalAssets},
		{"currentAssets", d.CurrentAssets},
		{"cashAndEquivalents", d.CashAndEquivalents},
		{"receivables", d.Receivables},
		{"inventory", d.Inventory},
		{"propertyPlantEquipment", d.PropertyPlantEquipment},
		{"investments", d.Investments},
		{"otherAssets", d.OtherAssets},
		{"totalLiabilities", d.TotalLiabilities},
		{"currentLiabilities", d.CurrentLiabilities},
		{"longTermDebt", d.LongTermDebt},
		{"tradePayables", d.TradePayables},
		{"provisions", d.Provisions},
		{"totalEquity", d.TotalEquity},
		{"shareCapital", d.ShareCapital},
		{"reservesAndSurplus", d.ReservesAndSurplus},
		{"revenue", d.Revenue},
		{"costOfGoodsSold", d.CostOfGoodsSold},
		{"grossProfit", d.GrossProfit},
		{"operatingExpenses", d.OperatingExpenses},
		{"netProfit", d.NetProfit},
	}
}

// Set assigns a line item by its canonical name. Returns false for
// unknown names.
func (d *FinancialData) Set(name string, value float64) bool {
	switch name {
	case "totalAssets":
		d.TotalAssets = value
	case "currentAssets":
		d.CurrentAssets = value
	case "cashAndEquivalents":
		d.CashAndEquivalents = value
	case "receivables":
		d.Receivables = value
	case "inventory":
		d.Inventory = value
	case "propertyPlantEquipment":
		d.PropertyPlantEquipment = value
	case "investments":
		d.Investments = value
	case "otherAssets":
		d.OtherAssets = value
	case "totalLiabilities":
		d.TotalLiabilities = value
	case "currentLiabilities":
		d.CurrentLiabilities = value
	case "longTermDebt":
		d.LongTermDebt = value
	case "tradePayables":
		d.TradePayables = value
	case "provisions":
		d.Provisions = value
	case "totalEquity":
		d.TotalEquity = value
	case "shareCapital":
		d.ShareCapital = value
	case "reservesAndSurplus":
		d.ReservesAndSurplus = value
	case "revenue":
		d.Revenue = value
	case "costOfGoodsSold":
		d.CostOfGoodsSold = value
	case "grossProfit":
		d.GrossProfit = value
	case "operatingExpenses":
		d.OperatingExpenses = value
	case "netProfit":
		d.NetProfit = value
	default:
		return false
	}
	return true
}

// PeriodRecord pairs a period label with that period's figures. A
// chronologically ordered slice of these is the unit the trend engine
// operates over.
type PeriodRecord struct {
	Period string        `json:"period"`
	Data   FinancialData `json:"data"`
}
