package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/finsight-cli/internal/report"
	"github.com/sells-group/finsight-cli/internal/store"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <company-id>",
	Short: "Export a company's figures, metrics, and risk to an xlsx workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		docs, err := st.ListDocuments(ctx, store.DocumentFilter{CompanyID: args[0]})
		if err != nil {
			return err
		}

		// List order is newest first; the workbook reads left to right
		// oldest first.
		for i, j := 0, len(docs)-1; i < j; i, j = i+1, j-1 {
			docs[i], docs[j] = docs[j], docs[i]
		}

		if err := report.WriteWorkbook(exportOut, docs); err != nil {
			return err
		}

		zap.L().Info("workbook written",
			zap.String("company", args[0]),
			zap.Int("documents", len(docs)),
			zap.String("path", exportOut),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "report.xlsx", "output workbook path")
	rootCmd.AddCommand(exportCmd)
}
