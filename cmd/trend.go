package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/finsight-cli/internal/trend"
)

var trendFormat string

var trendCmd = &cobra.Command{
	Use:   "trend <company-id>",
	Short: "Compute period-over-period growth and CAGR for a company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		records, err := st.PeriodRecords(ctx, args[0])
		if err != nil {
			return err
		}

		result, err := trend.Compute(records)
		if err != nil {
			return err
		}

		return writeOutput(result, trendFormat, "")
	},
}

func init() {
	trendCmd.Flags().StringVar(&trendFormat, "format", "json", "output format (json or yaml)")
	rootCmd.AddCommand(trendCmd)
}
