package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/finsight-cli/internal/risk"
)

var riskFormat string

var riskCmd = &cobra.Command{
	Use:   "risk <document-id>",
	Short: "Show the risk profile for a stored document with reasons",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		doc, err := st.GetDocument(ctx, args[0])
		if err != nil {
			return err
		}
		if doc.Metrics == nil || doc.Risk == nil {
			return eris.Errorf("document %s has no computed metrics, run reprocess first", doc.ID)
		}

		classifier, err := risk.NewClassifier(cfg.Risk)
		if err != nil {
			return err
		}

		out := struct {
			DocumentID string   `json:"documentId" yaml:"documentId"`
			Risk       any      `json:"risk" yaml:"risk"`
			Reasons    []string `json:"reasons" yaml:"reasons"`
		}{
			DocumentID: doc.ID,
			Risk:       doc.Risk,
			Reasons:    classifier.Explain(*doc.Metrics, *doc.Risk),
		}

		return writeOutput(out, riskFormat, "")
	},
}

func init() {
	riskCmd.Flags().StringVar(&riskFormat, "format", "json", "output format (json or yaml)")
	rootCmd.AddCommand(riskCmd)
}
