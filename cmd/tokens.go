package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/textql/fquery/query"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens [query]",
	Short: "Print the token stream of a query",
	Long: `Tokenizes the given query text and prints one token per line with
its kind, position, and text. Useful when debugging why a query parses the
way it does.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: please provide a query")
			os.Exit(1)
		}
		input := strings.Join(args, " ")

		tokens, err := query.Tokenize(input)
		if err != nil {
			exitParseError(err)
		}
		for _, tok := range tokens {
			fmt.Printf("%4d  %-8s %q\n", tok.Position, tok.Kind, tok.Text)
		}
	},
}
