package cmd

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joemfb/ml-common-ng/pkg/mlrest"
)

func newExtensionCmd(g *globalOptions) *cobra.Command {
	var method string
	var params []string
	var dataFile string

	cmd := &cobra.Command{
		Use:   "extension <name>",
		Short: "Call a REST resource extension",
		Long: `Extension calls /resources/<name>. Parameters are passed as key=value
and sent verbatim, so extension parameters keep their rs: prefix.

Examples:
  mlq extension summarize --param rs:uri=/docs/1.json
  mlq extension ingest --method PUT -d payload.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseParams(params)
			if err != nil {
				return err
			}
			settings := mlrest.Settings{Method: strings.ToUpper(method), Params: values}
			if dataFile != "" {
				data, err := os.ReadFile(dataFile) //nolint:gosec // path comes from the command line
				if err != nil {
					return fmt.Errorf("read data: %w", err)
				}
				settings.Data = data
				if strings.HasSuffix(strings.ToLower(dataFile), ".json") {
					settings.Headers = http.Header{"Content-Type": {"application/json"}}
				}
			}

			c, err := g.client()
			if err != nil {
				return err
			}
			resp, err := c.Extension(cmd.Context(), args[0], settings)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp)
		},
	}

	cmd.Flags().StringVarP(&method, "method", "X", http.MethodGet, "HTTP method")
	cmd.Flags().StringArrayVar(&params, "param", nil, "Request parameter as key=value (repeatable)")
	cmd.Flags().StringVarP(&dataFile, "data", "d", "", "Request body file")

	return cmd
}

// parseParams turns key=value pairs into url.Values.
func parseParams(pairs []string) (url.Values, error) {
	v := url.Values{}
	for _, p := range pairs {
		key, val, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --param %q, want key=value", p)
		}
		v.Add(key, val)
	}
	return v, nil
}
