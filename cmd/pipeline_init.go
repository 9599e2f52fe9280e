package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/finsight-cli/internal/extract"
	"github.com/sells-group/finsight-cli/internal/insight"
	"github.com/sells-group/finsight-cli/internal/ocr"
	"github.com/sells-group/finsight-cli/internal/pipeline"
	"github.com/sells-group/finsight-cli/internal/risk"
	"github.com/sells-group/finsight-cli/internal/store"
	"github.com/sells-group/finsight-cli/internal/validate"
	anthropicpkg "github.com/sells-group/finsight-cli/pkg/anthropic"
)

// pipelineEnv holds the initialized store and pipeline runner used by
// the analyze/reprocess/serve commands.
type pipelineEnv struct {
	Store  store.Store
	Runner *pipeline.Runner
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

// initPipeline sets up the store and all pipeline stages. Callers should
// defer env.Close().
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	ocrExt, err := ocr.NewExtractor(cfg.OCR)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	extractor, err := extract.FromConfig(cfg.Extract.RulesPath)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	validator := validate.New(cfg.Validate.BalanceTolerance)

	classifier, err := risk.NewClassifier(cfg.Risk)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	// Narrative generation is optional: without an API key the pipeline
	// falls back to the deterministic narrator for every document.
	var narrator insight.Narrator
	if cfg.Anthropic.Key != "" {
		client := anthropicpkg.NewClient(cfg.Anthropic.Key)
		narrator = insight.NewClaudeNarrator(client, cfg.Anthropic)
	} else {
		zap.L().Warn("FINSIGHT_ANTHROPIC_KEY not set, narrative generation uses fallback only")
	}

	runner := pipeline.NewRunner(ocrExt, extractor, validator, classifier, narrator, cfg.Analyze.MaxConcurrentDocuments)

	return &pipelineEnv{Store: st, Runner: runner}, nil
}

// initStore opens the configured store and runs migrations.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.New(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}
