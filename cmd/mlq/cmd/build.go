package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joemfb/ml-common-ng/internal/querydoc"
	"github.com/joemfb/ml-common-ng/pkg/qb"
)

// queryOptions holds the flags of commands that read a query document.
type queryOptions struct {
	file  string
	qtext string
}

func (o *queryOptions) register(cmd *cobra.Command, required bool) {
	cmd.Flags().StringVarP(&o.file, "file", "f", "", "Query document (YAML or JSON)")
	cmd.Flags().StringVar(&o.qtext, "qtext", "", "Query text (overrides the document's qtext)")
	if required {
		_ = cmd.MarkFlagRequired("file")
	}
}

// document reads the query document and applies --qtext.
func (o *queryOptions) document(cmd *cobra.Command) (querydoc.Document, error) {
	doc, err := querydoc.ParseFile(o.file)
	if err != nil {
		return querydoc.Document{}, err
	}
	if cmd.Flags().Changed("qtext") {
		doc.QText = o.qtext
	}
	return doc, nil
}

// combined builds the combined query, or returns nil when no document was given.
func (o *queryOptions) combined(cmd *cobra.Command) (*qb.CombinedQuery, error) {
	if o.file == "" {
		if cmd.Flags().Changed("qtext") {
			c := qb.Combined(nil, o.qtext, nil)
			return &c, nil
		}
		return nil, nil
	}
	doc, err := o.document(cmd)
	if err != nil {
		return nil, err
	}
	c, err := doc.Build()
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", o.file, err)
	}
	return &c, nil
}

func newBuildCmd() *cobra.Command {
	var opts queryOptions
	var structuredOnly bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Print the combined query built from a query document",
		Long: `Build reads a query document and prints the combined query JSON that
search would send. With --structured only the structured query is printed,
the value of the structuredQuery search parameter.

Examples:
  mlq build -f query.yaml
  mlq build -f query.yaml --qtext "cats"
  mlq build -f query.yaml --structured`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := opts.document(cmd)
			if err != nil {
				return err
			}
			if structuredOnly {
				q, err := doc.Structured()
				if err != nil {
					return fmt.Errorf("build %s: %w", opts.file, err)
				}
				return printJSON(cmd, q)
			}
			c, err := doc.Build()
			if err != nil {
				return fmt.Errorf("build %s: %w", opts.file, err)
			}
			return printJSON(cmd, c)
		},
	}

	opts.register(cmd, true)
	cmd.Flags().BoolVar(&structuredOnly, "structured", false, "Print only the structured query")

	return cmd
}
