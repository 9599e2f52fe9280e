package model

import "time"

// ValidationResult reports internal-consistency checks on extracted data.
// Warnings are advisory; a non-empty Errors list means no critical
// financial data was found and AI analysis is skipped.
type ValidationResult struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// AnalysisSource identifies who produced a narrative.
type AnalysisSource string

const (
	SourceAI       AnalysisSource = "ai"
	SourceFallback AnalysisSource = "fallback"
)

// Analysis is the narrative bundle attached to a document, produced by
// the AI narrator or the deterministic fallback. All slices are non-nil
// in a complete analysis.
type Analysis struct {
	Narrative         string             `json:"analysis"`
	KeyInsights       []string           `json:"keyInsights"`
	RiskFactors       []string           `json:"riskFactors"`
	Recommendations   []string           `json:"recommendations"`
	AdvancedMetrics   map[string]float64 `json:"advancedMetrics"`
	IndustryBenchmark string             `json:"industryBenchmark"`
	Source            AnalysisSource     `json:"source"`
	GeneratedAt       time.Time          `json:"generatedAt"`
}

// Document is a stored balance-sheet record: one uploaded PDF's extracted
// figures plus everything derived from them. A document is always in one
// of two states: fully analyzed (Metrics/Risk set, Analysis set unless
// validation failed) or never stored at all.
type Document struct {
	ID            string            `json:"id"`
	CompanyID     string            `json:"companyId"`
	FileName      string            `json:"fileName"`
	Period        string            `json:"period"`
	FinancialYear string            `json:"financialYear,omitempty"`
	PageCount     int               `json:"pageCount"`
	Data          FinancialData     `json:"data"`
	Validation    ValidationResult  `json:"validation"`
	Metrics       *MetricsSet       `json:"metrics,omitempty"`
	Risk          *RiskProfile      `json:"risk,omitempty"`
	Analysis      *Analysis         `json:"analysis,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}
