package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flowcast-dev/flowcast/internal/categorize"
	"github.com/flowcast-dev/flowcast/internal/parser"
)

func newImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <statement-file>",
		Short: "Parse a statement export and show the detected groups",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(args[0])
		},
	}
	return cmd
}

func runImport(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading statement: %w", err)
	}

	result := parser.Parse(string(data))
	groups := categorize.Apply(result.Transactions)

	fmt.Printf("Parsed %d transactions", len(result.Transactions))
	if result.StartDate != nil && result.EndDate != nil {
		fmt.Printf(" (%s to %s)", result.StartDate, result.EndDate)
	}
	fmt.Println()

	if len(groups) == 0 {
		fmt.Println("No recurring groups detected.")
		return nil
	}

	fmt.Printf("\n%-8s %-36s %-14s %10s %6s\n", "ID", "NAME", "FREQUENCY", "AVG", "COUNT")
	for _, g := range groups {
		fmt.Printf("%-8s %-36s %-14s %10s %6d\n",
			g.ID, g.Name, g.Frequency, g.AvgAmount.StringFixed(2), g.TransactionCount)
	}
	return nil
}
