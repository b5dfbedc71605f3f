package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the configured table",
		Long:  "Fetch the full contents of the table the gateway is configured to serve. Requires a session token from 'wardgate login'.",
		Example: `  # Fetch as an aligned text table
  wardgate fetch

  # Fetch as JSON
  wardgate fetch -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token := tokenFromCmd(cmd)
			if token == "" {
				return fmt.Errorf("no session token: run 'wardgate login' first or pass --token")
			}

			result, err := fetchTable(cmd.Context(), hostFromCmd(cmd), token)
			if err != nil {
				return err
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(cmd.OutOrStdout(), result)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%d rows)\n\n", result.Table, result.RowCount)

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			header := ""
			for i, col := range result.Columns {
				if i > 0 {
					header += "\t"
				}
				header += col
			}
			fmt.Fprintln(w, header)

			for _, row := range result.Rows {
				line := ""
				for i, cell := range row {
					if i > 0 {
						line += "\t"
					}
					line += cellString(cell)
				}
				fmt.Fprintln(w, line)
			}
			return w.Flush()
		},
	}

	return cmd
}

func cellString(v interface{}) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}
