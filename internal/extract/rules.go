package extract

// defaultLabels maps each canonical field name to the accepted
// English-language labels for that line item, most specific first.
// Statements from Indian and US filings use different vocabulary for
// the same items, so most fields carry several synonyms.
var defaultLabels = map[string][]string{
	"totalAssets":   {"total assets"},
	"currentAssets": {"total current assets", "current assets"},
	"cashAndEquivalents": {
		"cash and cash equivalents", "cash and equivalents",
		"cash and bank balances", "cash equivalents",
	},
	"receivables": {
		"trade receivables", "accounts receivable",
		"sundry debtors", "receivables",
	},
	"inventory": {"inventories", "inventory", "stock in trade"},
	"propertyPlantEquipment": {
		"property, plant and equipment", "property plant and equipment",
		"net fixed assets", "fixed assets",
	},
	"investments": {"non-current investments", "investments"},
	"otherAssets": {"other current assets", "other assets"},
	"totalLiabilities": {
		"total liabilities and provisions", "total liabilities",
	},
	"currentLiabilities": {
		"total current liabilities", "current liabilities",
	},
	"longTermDebt": {
		"long term borrowings", "long-term borrowings",
		"long term debt", "long-term debt", "non-current borrowings",
	},
	"tradePayables": {
		"trade payables", "accounts payable", "sundry creditors",
	},
	"provisions": {"long term provisions", "short term provisions", "provisions"},
	"totalEquity": {
		"total shareholders equity", "total shareholders funds",
		"shareholders funds", "total equity",
	},
	"shareCapital": {
		"equity share capital", "paid up share capital",
		"paid-up capital", "share capital",
	},
	"reservesAndSurplus": {
		"reserves and surplus", "other equity", "retained earnings",
	},
	"revenue": {
		"revenue from operations", "total revenue", "net sales",
		"turnover", "revenue",
	},
	"costOfGoodsSold": {
		"cost of goods sold", "cost of materials consumed",
		"cost of revenue", "cost of sales",
	},
	"grossProfit": {"gross profit"},
	"operatingExpenses": {
		"total operating expenses", "operating expenses",
		"other expenses",
	},
	"netProfit": {
		"net profit for the year", "profit for the year",
		"profit after tax", "net profit", "net income",
	},
}

// fieldOrder fixes the extraction order so output and logs are stable.
var fieldOrder = []string{
	"totalAssets", "currentAssets", "cashAndEquivalents", "receivables",
	"inventory", "propertyPlantEquipment", "investments", "otherAssets",
	"totalLiabilities", "currentLiabilities", "longTermDebt",
	"tradePayables", "provisions",
	"totalEquity", "shareCapital", "reservesAndSurplus",
	"revenue", "costOfGoodsSold", "grossProfit", "operatingExpenses",
	"netProfit",
}
