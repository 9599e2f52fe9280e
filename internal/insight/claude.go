package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/finsight-cli/internal/config"
	"github.com/sells-group/finsight-cli/internal/model"
	"github.com/sells-group/finsight-cli/pkg/anthropic"
)

const narratorSystemText = "You are a financial analyst reviewing an extracted balance sheet. " +
	"Return a valid JSON object with keys: analysis (string), keyInsights (array of strings), " +
	"riskFactors (array of strings), recommendations (array of strings). " +
	"Base every statement on the figures provided; do not invent numbers."

const narratorPrompt = `Analyze this company's financial position.

Structured financial data:
%s

Computed ratios:
%s
%s
Return a valid JSON object: {"analysis": "...", "keyInsights": [...], "riskFactors": [...], "recommendations": [...]}`

// ClaudeNarrator generates narratives via the Anthropic Messages API.
type ClaudeNarrator struct {
	client  anthropic.Client
	cfg     config.AnthropicConfig
	limiter *rate.Limiter
}

// NewClaudeNarrator creates a narrator with a per-process rate limiter.
func NewClaudeNarrator(client anthropic.Client, cfg config.AnthropicConfig) *ClaudeNarrator {
	rps := cfg.RatePerSec
	if rps <= 0 {
		rps = 1
	}
	return &ClaudeNarrator{
		client:  client,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// GenerateAnalysis calls the model with a bounded timeout and parses
// the JSON answer. Any failure (timeout, quota, malformed response) is
// returned to the caller, who substitutes the fallback generator.
func (n *ClaudeNarrator) GenerateAnalysis(ctx context.Context, data model.FinancialData, m model.MetricsSet, previous *model.PeriodRecord) (*model.Analysis, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "insight: rate limiter")
	}

	ctx, cancel := context.WithTimeout(ctx, n.cfg.Timeout())
	defer cancel()

	dataJSON, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, eris.Wrap(err, "insight: marshal data")
	}
	metricsJSON, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, eris.Wrap(err, "insight: marshal metrics")
	}

	prevBlock := ""
	if previous != nil {
		prevJSON, err := json.MarshalIndent(previous.Data, "", "  ")
		if err != nil {
			return nil, eris.Wrap(err, "insight: marshal previous period")
		}
		prevBlock = fmt.Sprintf("\nPrevious period (%s):\n%s\n", previous.Period, prevJSON)
	}

	prompt := fmt.Sprintf(narratorPrompt, dataJSON, metricsJSON, prevBlock)

	resp, err := n.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     n.cfg.Model,
		MaxTokens: n.cfg.MaxTokens,
		System:    []anthropic.SystemBlock{{Text: narratorSystemText}},
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "insight: create message")
	}

	resp.Usage.LogCost(n.cfg.Model, "narrative")

	analysis, err := parseAnalysis(resp.Text())
	if err != nil {
		return nil, err
	}
	analysis.Source = model.SourceAI
	analysis.GeneratedAt = time.Now().UTC()
	return analysis, nil
}

// parseAnalysis decodes the model's JSON answer, tolerating markdown
// code fences around the object.
func parseAnalysis(text string) (*model.Analysis, error) {
	cleaned := cleanJSON(text)

	var raw struct {
		Analysis        string   `json:"analysis"`
		KeyInsights     []string `json:"keyInsights"`
		RiskFactors     []string `json:"riskFactors"`
		Recommendations []string `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		zap.L().Warn("insight: failed to parse narrative JSON", zap.Error(err))
		return nil, eris.Wrap(err, "insight: parse narrative")
	}
	if raw.Analysis == "" {
		return nil, eris.New("insight: narrative missing analysis text")
	}

	a := &model.Analysis{
		Narrative:       raw.Analysis,
		KeyInsights:     raw.KeyInsights,
		RiskFactors:     raw.RiskFactors,
		Recommendations: raw.Recommendations,
	}
	if a.KeyInsights == nil {
		a.KeyInsights = []string{}
	}
	if a.RiskFactors == nil {
		a.RiskFactors = []string{}
	}
	if a.Recommendations == nil {
		a.Recommendations = []string{}
	}
	return a, nil
}

// cleanJSON strips markdown code fences and anything outside the
// outermost JSON object.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}
