package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/valyala/fastjson"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/textql/fquery/query"
)

var dictAsJSON bool

var dictCmd = &cobra.Command{
	Use:   "dict [file]",
	Short: "Convert a nested-map query document to canonical query text",
	Long: `Reads a query in the nested-map document form (YAML by default,
JSON with --json) from the given file or standard input, validates it, and
prints the canonical query text.
Example) fquery dict query.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		data, err := readInput(args)
		if err != nil {
			logger.Fatal("Failed to read input", zap.Error(err))
		}

		var value any
		if dictAsJSON {
			value, err = parseJSONValue(data)
		} else {
			err = yaml.Unmarshal(data, &value)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}

		q, err := query.FromDict(value)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(query.ToQueryString(q))
	},
}

func init() {
	dictCmd.Flags().BoolVar(&dictAsJSON, "json", false, "Read the document as JSON instead of YAML")
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(args[0])
}

// parseJSONValue parses JSON into the generic value shape the dict codec
// consumes.
func parseJSONValue(data []byte) (any, error) {
	v, err := fastjson.ParseBytes(data)
	if err != nil {
		return nil, err
	}
	return fastjsonValue(v)
}

func fastjsonValue(v *fastjson.Value) (any, error) {
	switch v.Type() {
	case fastjson.TypeObject:
		obj, err := v.Object()
		if err != nil {
			return nil, err
		}
		m := make(map[string]any, obj.Len())
		obj.Visit(func(key []byte, value *fastjson.Value) {
			if err != nil {
				return
			}
			var conv any
			if conv, err = fastjsonValue(value); err == nil {
				m[string(key)] = conv
			}
		})
		return m, err
	case fastjson.TypeArray:
		values, err := v.Array()
		if err != nil {
			return nil, err
		}
		out := make([]any, 0, len(values))
		for _, value := range values {
			conv, err := fastjsonValue(value)
			if err != nil {
				return nil, err
			}
			out = append(out, conv)
		}
		return out, nil
	case fastjson.TypeString:
		b, err := v.StringBytes()
		if err != nil {
			return nil, err
		}
		return string(b), nil
	case fastjson.TypeNumber:
		return v.Float64()
	case fastjson.TypeTrue:
		return true, nil
	case fastjson.TypeFalse:
		return false, nil
	default:
		return nil, nil
	}
}
