package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/finsight-cli/internal/model"
)

var (
	reprocessFormat string
	reprocessNoAI   bool
)

var reprocessCmd = &cobra.Command{
	Use:   "reprocess <document-id>",
	Short: "Recompute metrics, risk, and narrative for a stored document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		doc, err := env.Store.GetDocument(ctx, args[0])
		if err != nil {
			return err
		}

		var previous *model.PeriodRecord
		if doc.CompanyID != "" && doc.Period != "" {
			records, err := env.Store.PeriodRecords(ctx, doc.CompanyID)
			if err != nil {
				return err
			}
			previous = previousRecord(records, doc.Period)
		}

		res, err := env.Runner.Reprocess(ctx, doc, previous, reprocessNoAI)
		if err != nil {
			return err
		}

		if err := env.Store.UpsertDocument(ctx, &res.Document); err != nil {
			return err
		}

		zap.L().Info("document reprocessed",
			zap.String("id", res.Document.ID),
			zap.Bool("fallback", res.UsedFallback),
		)

		return writeOutput(res.Document, reprocessFormat, "")
	},
}

func init() {
	reprocessCmd.Flags().StringVar(&reprocessFormat, "format", "json", "output format (json or yaml)")
	reprocessCmd.Flags().BoolVar(&reprocessNoAI, "no-ai", false, "skip AI narrative, use fallback")
	rootCmd.AddCommand(reprocessCmd)
}
