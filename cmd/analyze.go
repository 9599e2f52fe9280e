package main

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/finsight-cli/internal/model"
	"github.com/sells-group/finsight-cli/internal/pipeline"
	"github.com/sells-group/finsight-cli/internal/report"
)

var (
	analyzeCompany string
	analyzePeriod  string
	analyzeFormat  string
	analyzeOut     string
	analyzeNoAI    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <pdf>...",
	Short: "Analyze financial statement PDFs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		var previous *model.PeriodRecord
		if analyzeCompany != "" && analyzePeriod != "" {
			records, err := env.Store.PeriodRecords(ctx, analyzeCompany)
			if err != nil {
				return err
			}
			previous = previousRecord(records, analyzePeriod)
		}

		reqs := make([]pipeline.Request, len(args))
		for i, path := range args {
			reqs[i] = pipeline.Request{
				PDFPath:   path,
				FileName:  filepath.Base(path),
				CompanyID: analyzeCompany,
				Period:    analyzePeriod,
				Previous:  previous,
				NoAI:      analyzeNoAI,
			}
		}

		results, errs := env.Runner.RunBatch(ctx, reqs)
		for _, err := range errs {
			zap.L().Error("analyze failed", zap.Error(err))
		}

		docs := make([]model.Document, 0, len(results))
		for _, res := range results {
			if err := env.Store.UpsertDocument(ctx, &res.Document); err != nil {
				return err
			}
			docs = append(docs, res.Document)
		}

		if err := writeOutput(docs, analyzeFormat, analyzeOut); err != nil {
			return err
		}

		if len(errs) > 0 {
			return eris.Errorf("analyze: %d of %d documents failed", len(errs), len(args))
		}
		return nil
	},
}

// previousRecord returns the latest record strictly before period, or
// nil when none exists. Records arrive sorted ascending.
func previousRecord(records []model.PeriodRecord, period string) *model.PeriodRecord {
	var prev *model.PeriodRecord
	for i := range records {
		if periodLess(records[i].Period, period) {
			prev = &records[i]
		}
	}
	return prev
}

var periodYearRe = regexp.MustCompile(`(?:19|20)\d{2}`)

// periodLess orders caller-supplied period labels. Labels carrying a
// four-digit year ("2023", "FY2024") compare by that year so mixed
// label styles still interleave correctly; anything else compares as
// a raw string.
func periodLess(a, b string) bool {
	ya, aok := periodYear(a)
	yb, bok := periodYear(b)
	if aok && bok {
		return ya < yb
	}
	return a < b
}

func periodYear(s string) (int, bool) {
	m := periodYearRe.FindString(s)
	if m == "" {
		return 0, false
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return y, true
}

func writeOutput(v any, format, out string) error {
	w := os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return eris.Wrapf(err, "create output file %s", out)
		}
		defer f.Close()
		w = f
	}
	return report.Encode(w, v, format)
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeCompany, "company", "", "company identifier for trend context")
	analyzeCmd.Flags().StringVar(&analyzePeriod, "period", "", "reporting period (e.g. 2024)")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "json", "output format (json or yaml)")
	analyzeCmd.Flags().StringVar(&analyzeOut, "out", "", "write output to file instead of stdout")
	analyzeCmd.Flags().BoolVar(&analyzeNoAI, "no-ai", false, "skip AI narrative, use fallback")
	rootCmd.AddCommand(analyzeCmd)
}
