package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/finsight-cli/internal/extract"
	"github.com/sells-group/finsight-cli/internal/model"
	"github.com/sells-group/finsight-cli/internal/risk"
	"github.com/sells-group/finsight-cli/internal/validate"
)

const sampleStatement = `Balance Sheet FY 2024

Total Assets 1,000
Total Current Assets 500
Inventories 100
Total Current Liabilities 250
Total Liabilities 400
Total Equity 600
Revenue from Operations 2,000
Net Profit for the year 200`

type stubNarrator struct {
	analysis *model.Analysis
	err      error
	calls    int
}

func (s *stubNarrator) GenerateAnalysis(ctx context.Context, data model.FinancialData, m model.MetricsSet, previous *model.PeriodRecord) (*model.Analysis, error) {
	s.calls++
	return s.analysis, s.err
}

func newTestRunner(t *testing.T, narrator *stubNarrator) *Runner {
	t.Helper()
	classifier, err := risk.NewClassifier(risk.DefaultRiskConfig())
	require.NoError(t, err)
	return NewRunner(nil, extract.New(), validate.New(0), classifier, narrator, 2)
}

func aiAnalysis() *model.Analysis {
	return &model.Analysis{
		Narrative:       "AI generated narrative.",
		KeyInsights:     []string{},
		RiskFactors:     []string{},
		Recommendations: []string{},
		Source:          model.SourceAI,
	}
}

func TestRun_FullPipeline(t *testing.T) {
	narrator := &stubNarrator{analysis: aiAnalysis()}
	r := newTestRunner(t, narrator)

	res, err := r.Run(context.Background(), Request{
		Text:      sampleStatement,
		FileName:  "fy2024.pdf",
		CompanyID: "acme",
	})
	require.NoError(t, err)

	doc := res.Document
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "acme", doc.CompanyID)
	assert.Equal(t, "2024", doc.FinancialYear)
	assert.Equal(t, "2024", doc.Period)
	assert.InDelta(t, 1000, doc.Data.TotalAssets, 1e-9)
	assert.True(t, doc.Validation.IsValid)

	require.NotNil(t, doc.Metrics)
	assert.InDelta(t, 2.0, doc.Metrics.CurrentRatio, 1e-9)
	require.NotNil(t, doc.Risk)
	assert.Equal(t, model.RiskLow, doc.Risk.Overall)

	require.NotNil(t, doc.Analysis)
	assert.Equal(t, model.SourceAI, doc.Analysis.Source)
	assert.False(t, res.UsedFallback)

	// Derived figures are written back onto the record itself.
	assert.InDelta(t, 250, doc.Data.WorkingCapital, 1e-9)
	assert.InDelta(t, 2.0, doc.Data.CurrentRatio, 1e-9)
}

func TestRun_NarratorFailureFallsBack(t *testing.T) {
	narrator := &stubNarrator{err: assert.AnError}
	r := newTestRunner(t, narrator)

	res, err := r.Run(context.Background(), Request{Text: sampleStatement, FileName: "x.pdf"})
	require.NoError(t, err)

	assert.True(t, res.UsedFallback)
	require.NotNil(t, res.Document.Analysis)
	assert.Equal(t, model.SourceFallback, res.Document.Analysis.Source)
	assert.NotEmpty(t, res.Document.Analysis.Narrative)
}

func TestRun_NilNarratorUsesFallback(t *testing.T) {
	classifier, err := risk.NewClassifier(risk.DefaultRiskConfig())
	require.NoError(t, err)
	r := NewRunner(nil, extract.New(), validate.New(0), classifier, nil, 1)

	res, err := r.Run(context.Background(), Request{Text: sampleStatement, FileName: "x.pdf"})
	require.NoError(t, err)
	assert.True(t, res.UsedFallback)
	require.NotNil(t, res.Document.Analysis)
}

func TestRun_NoAISkipsNarrator(t *testing.T) {
	narrator := &stubNarrator{analysis: aiAnalysis()}
	r := newTestRunner(t, narrator)

	res, err := r.Run(context.Background(), Request{Text: sampleStatement, FileName: "x.pdf", NoAI: true})
	require.NoError(t, err)

	assert.True(t, res.UsedFallback)
	assert.Zero(t, narrator.calls)
}

func TestRun_InvalidDataSkipsAnalysis(t *testing.T) {
	narrator := &stubNarrator{analysis: aiAnalysis()}
	r := newTestRunner(t, narrator)

	res, err := r.Run(context.Background(), Request{Text: "No figures in this document.", FileName: "x.pdf"})
	require.NoError(t, err)

	assert.False(t, res.Document.Validation.IsValid)
	assert.Nil(t, res.Document.Analysis)
	assert.Zero(t, narrator.calls)

	// Metrics and risk are still computed over the zero figures.
	require.NotNil(t, res.Document.Metrics)
	require.NotNil(t, res.Document.Risk)
}

func TestRun_NoInput(t *testing.T) {
	r := newTestRunner(t, &stubNarrator{analysis: aiAnalysis()})

	_, err := r.Run(context.Background(), Request{FileName: "x.pdf"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "neither PDF path nor text")
}

func TestReprocess(t *testing.T) {
	narrator := &stubNarrator{analysis: aiAnalysis()}
	r := newTestRunner(t, narrator)

	res, err := r.Run(context.Background(), Request{Text: sampleStatement, FileName: "x.pdf"})
	require.NoError(t, err)
	doc := res.Document

	// Tamper with derived values to prove reprocess overwrites them.
	doc.Data.WorkingCapital = -1
	doc.Metrics = nil
	doc.Risk = nil

	re, err := r.Reprocess(context.Background(), &doc, nil, true)
	require.NoError(t, err)

	assert.Equal(t, doc.ID, re.Document.ID)
	assert.InDelta(t, 250, re.Document.Data.WorkingCapital, 1e-9)
	require.NotNil(t, re.Document.Metrics)
	require.NotNil(t, re.Document.Risk)
	assert.True(t, re.UsedFallback)
	require.NotNil(t, re.Document.Analysis)
	assert.Equal(t, model.SourceFallback, re.Document.Analysis.Source)
}

func TestReprocess_Idempotent(t *testing.T) {
	r := newTestRunner(t, &stubNarrator{err: assert.AnError})

	res, err := r.Run(context.Background(), Request{Text: sampleStatement, FileName: "x.pdf"})
	require.NoError(t, err)

	first, err := r.Reprocess(context.Background(), &res.Document, nil, true)
	require.NoError(t, err)
	second, err := r.Reprocess(context.Background(), &first.Document, nil, true)
	require.NoError(t, err)

	assert.Equal(t, first.Document.Data, second.Document.Data)
	assert.Equal(t, *first.Document.Metrics, *second.Document.Metrics)
	assert.Equal(t, *first.Document.Risk, *second.Document.Risk)
}

func TestReprocess_NilDocument(t *testing.T) {
	r := newTestRunner(t, &stubNarrator{})
	_, err := r.Reprocess(context.Background(), nil, nil, true)
	require.Error(t, err)
}

func TestRunBatch(t *testing.T) {
	r := newTestRunner(t, &stubNarrator{analysis: aiAnalysis()})

	reqs := []Request{
		{Text: sampleStatement, FileName: "a.pdf"},
		{FileName: "broken.pdf"}, // no text, no path
		{Text: sampleStatement, FileName: "b.pdf"},
	}

	results, errs := r.RunBatch(context.Background(), reqs)
	assert.Len(t, results, 2)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "neither PDF path nor text")
}
