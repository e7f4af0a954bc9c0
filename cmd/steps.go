// -- cmd/steps.go --
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/greenlight-cli/internal/gherkin"
	"github.com/xkilldash9x/greenlight-cli/internal/suite"
)

func newStepsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "steps",
		Short: "Lists every registered step pattern",
		Long: `Prints the step patterns the suite understands, grouped by category.
Useful when writing a new feature file: a scenario line must match exactly
one of these patterns.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := suite.NewRegistry()
			for _, category := range []gherkin.Category{gherkin.Given, gherkin.When, gherkin.Then} {
				fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", category)
				for _, pattern := range registry.Patterns(category) {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", pattern)
				}
			}
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(newStepsCmd())
}
