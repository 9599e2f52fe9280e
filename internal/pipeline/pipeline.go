// Package pipeline orchestrates the extraction-to-analysis sequence for
// one document: normalize, extract, validate, compute metrics, classify
// risk, narrate.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/finsight-cli/internal/extract"
	"github.com/sells-group/finsight-cli/internal/insight"
	"github.com/sells-group/finsight-cli/internal/metrics"
	"github.com/sells-group/finsight-cli/internal/model"
	"github.com/sells-group/finsight-cli/internal/normalize"
	"github.com/sells-group/finsight-cli/internal/ocr"
	"github.com/sells-group/finsight-cli/internal/risk"
	"github.com/sells-group/finsight-cli/internal/validate"
)

// Request describes one document to analyze. Either PDFPath or Text
// must be set; Text skips OCR (used by tests and the HTTP API's raw
// upload path).
type Request struct {
	PDFPath   string
	Text      string
	FileName  string
	CompanyID string
	Period    string
	// Previous supplies the prior period's figures as narrator context.
	Previous *model.PeriodRecord
	// NoAI forces the deterministic fallback narrator.
	NoAI bool
}

// Result is the complete outcome for one document. Persistence is the
// caller's single upsert step; the pipeline itself never writes.
type Result struct {
	Document     model.Document
	UsedFallback bool
}

// Runner executes the pipeline with injected collaborators.
type Runner struct {
	ocr        ocr.Extractor
	extractor  *extract.Extractor
	validator  *validate.Validator
	classifier *risk.Classifier
	narrator   insight.Narrator
	fallback   *insight.Fallback
	maxConc    int
}

// NewRunner wires a Runner. narrator may be nil, in which case every
// document gets the fallback narrative.
func NewRunner(ocrExt ocr.Extractor, extractor *extract.Extractor, validator *validate.Validator, classifier *risk.Classifier, narrator insight.Narrator, maxConcurrent int) *Runner {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	return &Runner{
		ocr:        ocrExt,
		extractor:  extractor,
		validator:  validator,
		classifier: classifier,
		narrator:   narrator,
		fallback:   insight.NewFallback(),
		maxConc:    maxConcurrent,
	}
}

// Run executes the full pipeline for one document. OCR failure is the
// only hard error; everything downstream always completes.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	text := req.Text
	pageCount := 0
	if text == "" {
		if req.PDFPath == "" {
			return nil, eris.New("pipeline: request has neither PDF path nor text")
		}
		extracted, err := r.ocr.ExtractText(ctx, req.PDFPath)
		if err != nil {
			return nil, eris.Wrapf(err, "pipeline: extract text from %s", req.PDFPath)
		}
		text = extracted.Text
		pageCount = extracted.PageCount
	}

	norm := normalize.Normalize(text)
	data := r.extractor.Extract(norm.Text)
	validation := r.validator.Validate(data)

	metrics.Enrich(&data)
	m := metrics.Compute(data)
	profile := r.classifier.Classify(m)

	doc := model.Document{
		ID:            uuid.New().String(),
		CompanyID:     req.CompanyID,
		FileName:      req.FileName,
		Period:        req.Period,
		FinancialYear: norm.FinancialYear,
		PageCount:     pageCount,
		Data:          data,
		Validation:    validation,
		Metrics:       &m,
		Risk:          &profile,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
	if doc.Period == "" && norm.FinancialYear != "" {
		doc.Period = norm.FinancialYear
	}

	res := &Result{Document: doc}

	// Validation failure blocks AI invocation; the all-zero data is
	// still returned so the caller can decide whether to store it.
	if !validation.IsValid {
		zap.L().Warn("pipeline: validation failed, skipping analysis",
			zap.String("file", req.FileName),
			zap.Strings("errors", validation.Errors),
		)
		return res, nil
	}

	res.Document.Analysis, res.UsedFallback = r.narrate(ctx, req, data, m)

	zap.L().Info("pipeline: document analyzed",
		zap.String("file", req.FileName),
		zap.String("company", req.CompanyID),
		zap.String("period", doc.Period),
		zap.Bool("fallback", res.UsedFallback),
		zap.Int("warnings", len(validation.Warnings)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return res, nil
}

// narrate asks the AI narrator and substitutes the fallback on any
// error. Never returns nil.
func (r *Runner) narrate(ctx context.Context, req Request, data model.FinancialData, m model.MetricsSet) (*model.Analysis, bool) {
	if !req.NoAI && r.narrator != nil {
		analysis, err := r.narrator.GenerateAnalysis(ctx, data, m, req.Previous)
		if err == nil {
			return analysis, false
		}
		zap.L().Warn("pipeline: AI narrative failed, using fallback",
			zap.String("file", req.FileName),
			zap.Error(err),
		)
	}
	return r.fallback.Generate(data, m), true
}

// Reprocess recomputes metrics, risk, and narrative for a stored
// document, fully overwriting prior analysis. Safe to call repeatedly.
func (r *Runner) Reprocess(ctx context.Context, doc *model.Document, previous *model.PeriodRecord, noAI bool) (*Result, error) {
	if doc == nil {
		return nil, eris.New("pipeline: nil document")
	}

	updated := *doc
	metrics.Enrich(&updated.Data)
	updated.Validation = r.validator.Validate(updated.Data)

	m := metrics.Compute(updated.Data)
	profile := r.classifier.Classify(m)
	updated.Metrics = &m
	updated.Risk = &profile
	updated.Analysis = nil
	updated.UpdatedAt = time.Now().UTC()

	res := &Result{Document: updated}
	if !updated.Validation.IsValid {
		return res, nil
	}

	req := Request{FileName: updated.FileName, CompanyID: updated.CompanyID, Previous: previous, NoAI: noAI}
	res.Document.Analysis, res.UsedFallback = r.narrate(ctx, req, updated.Data, m)
	return res, nil
}

// RunBatch analyzes several documents concurrently. Per-document
// failures are collected, not fatal for the batch.
func (r *Runner) RunBatch(ctx context.Context, reqs []Request) ([]Result, []error) {
	results := make([]*Result, len(reqs))
	errs := make([]error, len(reqs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxConc)

	var mu sync.Mutex
	for i, req := range reqs {
		g.Go(func() error {
			res, err := r.Run(gCtx, req)
			mu.Lock()
			results[i], errs[i] = res, err
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	var out []Result
	var outErrs []error
	for i := range reqs {
		if errs[i] != nil {
			outErrs = append(outErrs, errs[i])
			continue
		}
		out = append(out, *results[i])
	}
	return out, outErrs
}
