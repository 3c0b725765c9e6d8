package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/textql/fquery/formatter"
	"github.com/textql/fquery/query"
)

var (
	parseAsDict bool
	parseAsJSON bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [query]",
	Short: "Parse a query and print its canonical form",
	Long: `Parses the given query text and prints the canonical, minimally
parenthesized form. With --dict the nested-map form is printed as YAML
instead, with --json as JSON.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: please provide a query")
			os.Exit(1)
		}
		input := strings.Join(args, " ")

		q, err := query.Parse(input)
		if err != nil {
			exitParseError(err)
		}

		switch {
		case parseAsJSON:
			out, err := json.MarshalIndent(query.ToDict(q), "", "  ")
			if err != nil {
				logger.Fatal("Failed to marshal query", zap.Error(err))
			}
			fmt.Println(string(out))
		case parseAsDict:
			out, err := yaml.Marshal(query.ToDict(q))
			if err != nil {
				logger.Fatal("Failed to marshal query", zap.Error(err))
			}
			fmt.Print(string(out))
		default:
			fmt.Println(query.ToQueryString(q))
		}
	},
}

func init() {
	parseCmd.Flags().BoolVar(&parseAsDict, "dict", false, "Print the nested-map form as YAML")
	parseCmd.Flags().BoolVar(&parseAsJSON, "json", false, "Print the nested-map form as JSON")
}

// exitParseError prints a caret-style diagnostic for position-carrying
// errors and exits non-zero.
func exitParseError(err error) {
	var perr *query.ParseError
	if errors.As(err, &perr) {
		fmt.Fprint(os.Stderr, formatter.FormatParseError(perr))
	} else {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(1)
}
