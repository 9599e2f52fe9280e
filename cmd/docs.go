package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/finsight-cli/internal/store"
)

var (
	docsCompany string
	docsPeriod  string
	docsLimit   int
	docsOffset  int
	docsFormat  string
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "List stored documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		docs, err := st.ListDocuments(ctx, store.DocumentFilter{
			CompanyID: docsCompany,
			Period:    docsPeriod,
			Limit:     docsLimit,
			Offset:    docsOffset,
		})
		if err != nil {
			return err
		}

		return writeOutput(docs, docsFormat, "")
	},
}

func init() {
	docsCmd.Flags().StringVar(&docsCompany, "company", "", "filter by company identifier")
	docsCmd.Flags().StringVar(&docsPeriod, "period", "", "filter by reporting period")
	docsCmd.Flags().IntVar(&docsLimit, "limit", 50, "maximum documents to return")
	docsCmd.Flags().IntVar(&docsOffset, "offset", 0, "offset into the result set")
	docsCmd.Flags().StringVar(&docsFormat, "format", "json", "output format (json or yaml)")
	rootCmd.AddCommand(docsCmd)
}
