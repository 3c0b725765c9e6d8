package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var logger *zap.Logger

var rootCmd = &cobra.Command{
	Use:   "fquery",
	Short: "fquery - full-text search query toolbox",
	Long: `fquery parses, validates, and converts full-text search queries.
It understands the engine's query syntax (boolean operators, NEAR groups,
column filters) and the nested-map document form used by programmatic
query builders.`,
}

func Execute() error {
	defer func() {
		_ = logger.Sync()
	}()
	return rootCmd.Execute()
}

func init() {
	logger, _ = zap.NewProduction()
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(dictCmd)
	rootCmd.AddCommand(tokensCmd)
}
