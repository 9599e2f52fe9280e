package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/finsight-cli/internal/extract"
	"github.com/sells-group/finsight-cli/internal/model"
	"github.com/sells-group/finsight-cli/internal/ocr"
	"github.com/sells-group/finsight-cli/internal/pipeline"
	"github.com/sells-group/finsight-cli/internal/risk"
	"github.com/sells-group/finsight-cli/internal/store"
	"github.com/sells-group/finsight-cli/internal/validate"
)

const serveStatement = `Balance Sheet FY 2024

Total Assets 1,000
Total Current Assets 500
Inventories 100
Total Current Liabilities 250
Total Liabilities 400
Total Equity 600
Revenue from Operations 2,000
Net Profit for the year 200`

// memStore is an in-memory Store for handler tests.
type memStore struct {
	docs    map[string]model.Document
	records []model.PeriodRecord
	upserts int
}

func newMemStore() *memStore {
	return &memStore{docs: map[string]model.Document{}}
}

func (s *memStore) UpsertDocument(ctx context.Context, doc *model.Document) error {
	s.upserts++
	s.docs[doc.ID] = *doc
	return nil
}

func (s *memStore) GetDocument(ctx context.Context, id string) (*model.Document, error) {
	doc, ok := s.docs[id]
	if !ok {
		return nil, eris.Errorf("document %s not found", id)
	}
	return &doc, nil
}

func (s *memStore) ListDocuments(ctx context.Context, filter store.DocumentFilter) ([]model.Document, error) {
	var out []model.Document
	for _, doc := range s.docs {
		if filter.CompanyID != "" && doc.CompanyID != filter.CompanyID {
			continue
		}
		if filter.Period != "" && doc.Period != filter.Period {
			continue
		}
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period > out[j].Period })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *memStore) DeleteDocument(ctx context.Context, id string) error {
	if _, ok := s.docs[id]; !ok {
		return eris.Errorf("document %s not found", id)
	}
	delete(s.docs, id)
	return nil
}

func (s *memStore) PeriodRecords(ctx context.Context, companyID string) ([]model.PeriodRecord, error) {
	return s.records, nil
}

func (s *memStore) Migrate(ctx context.Context) error { return nil }
func (s *memStore) Close() error                      { return nil }

type failingOCR struct{}

func (failingOCR) ExtractText(ctx context.Context, pdfPath string) (*ocr.Result, error) {
	return nil, eris.Errorf("pdftotext: cannot read %s", pdfPath)
}

func newTestRouter(t *testing.T, st *memStore, ocrExt ocr.Extractor) http.Handler {
	t.Helper()
	classifier, err := risk.NewClassifier(risk.DefaultRiskConfig())
	require.NoError(t, err)
	runner := pipeline.NewRunner(ocrExt, extract.New(), validate.New(0), classifier, nil, 2)
	return newRouter(&pipelineEnv{Store: st, Runner: runner}, classifier)
}

func TestRouter_Health(t *testing.T) {
	r := newTestRouter(t, newMemStore(), nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestRouter_AnalyzeDocument(t *testing.T) {
	st := newMemStore()
	r := newTestRouter(t, st, nil)

	payload, _ := json.Marshal(analyzeRequest{
		Text:      serveStatement,
		FileName:  "fy2024.pdf",
		CompanyID: "acme",
		Period:    "2024",
	})
	req := httptest.NewRequest(http.MethodPost, "/documents", bytes.NewReader(payload))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var doc model.Document
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &doc))
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "acme", doc.CompanyID)
	assert.Equal(t, "2024", doc.Period)
	require.NotNil(t, doc.Metrics)
	assert.InDelta(t, 2.0, doc.Metrics.CurrentRatio, 1e-9)
	require.NotNil(t, doc.Risk)
	require.NotNil(t, doc.Analysis)
	assert.Equal(t, model.SourceFallback, doc.Analysis.Source)

	// The handler stores the document before responding.
	assert.Equal(t, 1, st.upserts)
	_, ok := st.docs[doc.ID]
	assert.True(t, ok)
}

func TestRouter_Analyze_MissingInput(t *testing.T) {
	r := newTestRouter(t, newMemStore(), nil)

	req := httptest.NewRequest(http.MethodPost, "/documents", bytes.NewReader([]byte(`{"companyId":"acme"}`)))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "text or pdfPath is required")
}

func TestRouter_Analyze_InvalidJSON(t *testing.T) {
	r := newTestRouter(t, newMemStore(), nil)

	req := httptest.NewRequest(http.MethodPost, "/documents", bytes.NewReader([]byte("not json")))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid request body")
}

func TestRouter_Analyze_ExtractionFailure(t *testing.T) {
	st := newMemStore()
	r := newTestRouter(t, st, failingOCR{})

	req := httptest.NewRequest(http.MethodPost, "/documents", bytes.NewReader([]byte(`{"pdfPath":"/missing.pdf"}`)))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "cannot read")

	// A failed run must not leave a document behind.
	assert.Equal(t, 0, st.upserts)
}

func TestRouter_ListDocuments_Empty(t *testing.T) {
	r := newTestRouter(t, newMemStore(), nil)

	req := httptest.NewRequest(http.MethodGet, "/documents", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]\n", rr.Body.String())
}

func TestRouter_GetDocument_NotFound(t *testing.T) {
	r := newTestRouter(t, newMemStore(), nil)

	req := httptest.NewRequest(http.MethodGet, "/documents/missing", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouter_DeleteDocument(t *testing.T) {
	st := newMemStore()
	st.docs["doc-1"] = model.Document{ID: "doc-1"}
	r := newTestRouter(t, st, nil)

	req := httptest.NewRequest(http.MethodDelete, "/documents/doc-1", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	req = httptest.NewRequest(http.MethodDelete, "/documents/doc-1", nil)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouter_Reprocess(t *testing.T) {
	st := newMemStore()
	st.docs["doc-1"] = model.Document{
		ID:        "doc-1",
		CompanyID: "acme",
		Period:    "2024",
		Data: model.FinancialData{
			TotalAssets:        1000,
			CurrentAssets:      500,
			CurrentLiabilities: 250,
			TotalLiabilities:   400,
			TotalEquity:        600,
			Revenue:            2000,
			NetProfit:          200,
		},
		Validation: model.ValidationResult{IsValid: true},
	}
	r := newTestRouter(t, st, nil)

	req := httptest.NewRequest(http.MethodPost, "/documents/doc-1/reprocess", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var doc model.Document
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &doc))
	assert.Equal(t, "doc-1", doc.ID)
	require.NotNil(t, doc.Metrics)
	assert.InDelta(t, 2.0, doc.Metrics.CurrentRatio, 1e-9)
	require.NotNil(t, doc.Analysis)

	assert.Equal(t, 1, st.upserts)
}

func TestRouter_CompanyTrend(t *testing.T) {
	st := newMemStore()
	st.records = []model.PeriodRecord{
		{Period: "2022", Data: model.FinancialData{Revenue: 1000, TotalAssets: 5000}},
		{Period: "2023", Data: model.FinancialData{Revenue: 1100, TotalAssets: 5500}},
	}
	r := newTestRouter(t, st, nil)

	req := httptest.NewRequest(http.MethodGet, "/companies/acme/trend", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var result model.TrendResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, 2, result.Periods)
	require.Contains(t, result.Pairs, "2022-2023")
	assert.InDelta(t, 0.10, result.Pairs["2022-2023"].Revenue.Percent, 1e-9)
}

func TestRouter_CompanyTrend_TooFewPeriods(t *testing.T) {
	r := newTestRouter(t, newMemStore(), nil)

	req := httptest.NewRequest(http.MethodGet, "/companies/acme/trend", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestRouter_CompanyRisk(t *testing.T) {
	st := newMemStore()
	st.docs["doc-1"] = model.Document{
		ID:        "doc-1",
		CompanyID: "acme",
		Period:    "2024",
		Metrics: &model.MetricsSet{
			CurrentRatio: 0.8,
			DebtToEquity: 1.5,
			QuickRatio:   0.7,
		},
	}
	r := newTestRouter(t, st, nil)

	req := httptest.NewRequest(http.MethodGet, "/companies/acme/risk", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		DocumentID string            `json:"documentId"`
		CompanyID  string            `json:"companyId"`
		Period     string            `json:"period"`
		Risk       model.RiskProfile `json:"risk"`
		Reasons    []string          `json:"reasons"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "doc-1", resp.DocumentID)
	assert.Equal(t, "acme", resp.CompanyID)
	assert.Equal(t, "2024", resp.Period)
	assert.Equal(t, model.RiskHigh, resp.Risk.Overall)
	assert.NotEmpty(t, resp.Reasons)
}

func TestRouter_CompanyRisk_NoDocuments(t *testing.T) {
	r := newTestRouter(t, newMemStore(), nil)

	req := httptest.NewRequest(http.MethodGet, "/companies/ghost/risk", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "no documents for company ghost")
}

func TestRouter_CompanyRisk_NoMetrics(t *testing.T) {
	st := newMemStore()
	st.docs["doc-1"] = model.Document{ID: "doc-1", CompanyID: "acme", Period: "2024"}
	r := newTestRouter(t, st, nil)

	req := httptest.NewRequest(http.MethodGet, "/companies/acme/risk", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "no computed metrics")
}
