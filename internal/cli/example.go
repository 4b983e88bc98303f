package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/sankey/pkg/flow"
	sankeyio "github.com/matzehuels/sankey/pkg/io"
)

// exampleCommand creates the example command that writes the sample budget
// graph, a starting point for hand-written inputs.
func (c *CLI) exampleCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "example [file]",
		Short: "Write a sample flow graph",
		Long: `Write a sample household budget flow graph.

Without a file argument the graph is printed to stdout in the format given by
--format. With a file argument the format follows the file extension.`,
		Example: `  sankey example budget.csv
  sankey example -f toml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g := flow.SampleBudget()
			if len(args) == 0 {
				return sankeyio.Write(g, stdout, sankeyio.Format(format))
			}
			if err := sankeyio.Export(g, args[0]); err != nil {
				return err
			}
			printSuccess("Wrote example graph")
			printFile(args[0])
			printNewline()
			printNextStep("Render", "sankey render "+args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(sankeyio.FormatCSV), "output format without a file: csv, tsv, json, toml")

	return cmd
}
