package cmd

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joemfb/ml-common-ng/pkg/mlrest"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	query      queryOptions
	options    string
	start      int
	pageLength int
	view       string
}

func (o *searchOptions) params() url.Values {
	v := url.Values{}
	if o.options != "" {
		v.Set("options", o.options)
	}
	if o.start > 0 {
		v.Set("start", strconv.Itoa(o.start))
	}
	if o.pageLength > 0 {
		v.Set("pageLength", strconv.Itoa(o.pageLength))
	}
	if o.view != "" {
		v.Set("view", o.view)
	}
	return v
}

func newSearchCmd(g *globalOptions) *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search [q...]",
		Short: "Run a search",
		Long: `Search runs a MarkLogic search and prints the response.

With -f the query document is built into a combined query and POSTed;
otherwise the positional arguments are sent as the q parameter.

Examples:
  mlq search "cat AND dog"
  mlq search -f query.yaml --options all --page-length 20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			combined, err := opts.query.combined(cmd)
			if err != nil {
				return err
			}
			params := opts.params()
			if len(args) > 0 {
				params.Set("q", strings.Join(args, " "))
			}

			c, err := g.client()
			if err != nil {
				return err
			}
			resp, err := c.Search(cmd.Context(), params, combined)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp)
		},
	}

	opts.query.register(cmd, false)
	cmd.Flags().StringVarP(&opts.options, "options", "o", "", "Stored query options name")
	cmd.Flags().IntVar(&opts.start, "start", 0, "Index of the first result (1-based)")
	cmd.Flags().IntVarP(&opts.pageLength, "page-length", "n", 0, "Number of results per page")
	cmd.Flags().StringVar(&opts.view, "view", "", "Response view: results, facets, metadata, all, none")

	return cmd
}

func newSuggestCmd(g *globalOptions) *cobra.Command {
	var opts queryOptions
	var options string
	var limit int

	cmd := &cobra.Command{
		Use:   "suggest <partial-q>",
		Short: "Request search suggestions for a partial query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			combined, err := opts.combined(cmd)
			if err != nil {
				return err
			}
			params := url.Values{"partial-q": {args[0]}}
			if options != "" {
				params.Set("options", options)
			}
			if limit > 0 {
				params.Set("limit", strconv.Itoa(limit))
			}

			c, err := g.client()
			if err != nil {
				return err
			}
			resp, err := c.Suggest(cmd.Context(), params, combined)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp)
		},
	}

	opts.register(cmd, false)
	cmd.Flags().StringVarP(&options, "options", "o", "", "Stored query options name")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of suggestions")

	return cmd
}

func newValuesCmd(g *globalOptions) *cobra.Command {
	var opts queryOptions
	var options string

	cmd := &cobra.Command{
		Use:   "values <name>",
		Short: "List lexicon values for a values definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			combined, err := opts.combined(cmd)
			if err != nil {
				return err
			}
			params := url.Values{}
			if options != "" {
				params.Set("options", options)
			}

			c, err := g.client()
			if err != nil {
				return err
			}
			resp, err := c.Values(cmd.Context(), args[0], params, combined)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp)
		},
	}

	opts.register(cmd, false)
	cmd.Flags().StringVarP(&options, "options", "o", "", "Stored query options name")

	return cmd
}

func newSparqlCmd(g *globalOptions) *cobra.Command {
	var rdf bool
	cmd := &cobra.Command{
		Use:   "sparql <query>",
		Short: "Run a SPARQL query",
		Long: `Run a SPARQL query against the triple store.

Results come back as SPARQL JSON results. Use --rdf for CONSTRUCT and
DESCRIBE queries to get the graph as RDF/JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			format := mlrest.SparqlResultsJSON
			if rdf {
				format = mlrest.RDFJSON
			}
			resp, err := c.Sparql(cmd.Context(), args[0], format, nil)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp)
		},
	}
	cmd.Flags().BoolVar(&rdf, "rdf", false, "Ask for RDF/JSON instead of SPARQL JSON results")
	return cmd
}

func newConfigCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config <name> [section]",
		Short: "Show stored query options, or one section of them",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			section := ""
			if len(args) == 2 {
				section = args[1]
			}
			c, err := g.client()
			if err != nil {
				return err
			}
			resp, err := c.QueryConfig(cmd.Context(), args[0], section)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp)
		},
	}
}
