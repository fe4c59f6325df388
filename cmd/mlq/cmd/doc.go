package cmd

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

func newDocCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doc",
		Short: "Read, write and delete documents",
	}

	cmd.AddCommand(newDocGetCmd(g))
	cmd.AddCommand(newDocCreateCmd(g))
	cmd.AddCommand(newDocUpdateCmd(g))
	cmd.AddCommand(newDocPatchCmd(g))
	cmd.AddCommand(newDocDeleteCmd(g))

	return cmd
}

func newDocGetCmd(g *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "get <uri>",
		Short: "Print a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := url.Values{}
			if format != "" {
				params.Set("format", format)
			}
			c, err := g.client()
			if err != nil {
				return err
			}
			resp, err := c.GetDocument(cmd.Context(), args[0], params)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Document format (default json)")

	return cmd
}

// writeOptions holds the flags of document writes.
type writeOptions struct {
	file        string
	uri         string
	collections []string
}

func (o *writeOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.file, "file", "f", "", "Document content")
	cmd.Flags().StringVar(&o.uri, "uri", "", "Document URI")
	cmd.Flags().StringSliceVar(&o.collections, "collection", nil, "Collection to add the document to (repeatable)")
	_ = cmd.MarkFlagRequired("file")
}

// load reads the document file. JSON files are sent as JSON; anything else
// is sent raw with a format derived from the extension.
func (o *writeOptions) load() (any, url.Values, error) {
	data, err := os.ReadFile(o.file) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, nil, fmt.Errorf("read document: %w", err)
	}
	params := url.Values{}
	if o.uri != "" {
		params.Set("uri", o.uri)
	}
	for _, coll := range o.collections {
		params.Add("collection", coll)
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(o.file)), ".")
	if ext == "json" {
		if !json.Valid(data) {
			return nil, nil, fmt.Errorf("%s is not valid JSON", o.file)
		}
		return json.RawMessage(data), params, nil
	}
	params.Set("format", formatOf(ext))
	return data, params, nil
}

// formatOf maps a file extension to a MarkLogic document format.
func formatOf(ext string) string {
	switch ext {
	case "xml", "xhtml", "html":
		return "xml"
	case "txt", "text", "csv", "md":
		return "text"
	default:
		return "binary"
	}
}

func newDocCreateCmd(g *globalOptions) *cobra.Command {
	var opts writeOptions

	cmd := &cobra.Command{
		Use:   "create -f <file>",
		Short: "Insert a document and print its location",
		Long: `Create inserts a new document. Without --uri MarkLogic generates one;
the file extension is passed as the extension parameter.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, params, err := opts.load()
			if err != nil {
				return err
			}
			if opts.uri == "" {
				if ext := strings.TrimPrefix(filepath.Ext(opts.file), "."); ext != "" {
					params.Set("extension", ext)
				}
			}
			c, err := g.client()
			if err != nil {
				return err
			}
			location, err := c.CreateDocument(cmd.Context(), doc, params)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), location)
			return err
		},
	}

	opts.register(cmd)

	return cmd
}

func newDocUpdateCmd(g *globalOptions) *cobra.Command {
	var opts writeOptions

	cmd := &cobra.Command{
		Use:   "update -f <file> --uri <uri>",
		Short: "Write a document at a known URI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, params, err := opts.load()
			if err != nil {
				return err
			}
			c, err := g.client()
			if err != nil {
				return err
			}
			location, err := c.UpdateDocument(cmd.Context(), doc, params)
			if err != nil {
				return err
			}
			if location == "" {
				location = opts.uri
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), location)
			return err
		},
	}

	opts.register(cmd)
	_ = cmd.MarkFlagRequired("uri")

	return cmd
}

func newDocPatchCmd(g *globalOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "patch <uri> -f <patch.json>",
		Short: "Apply a JSON patch to a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file) //nolint:gosec // path comes from the command line
			if err != nil {
				return fmt.Errorf("read patch: %w", err)
			}
			if !json.Valid(data) {
				return fmt.Errorf("%s is not valid JSON", file)
			}
			c, err := g.client()
			if err != nil {
				return err
			}
			location, err := c.PatchDocument(cmd.Context(), args[0], json.RawMessage(data))
			if err != nil {
				return err
			}
			if location == "" {
				location = args[0]
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), location)
			return err
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Patch document (JSON)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func newDocDeleteCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <uri>",
		Short: "Delete a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.client()
			if err != nil {
				return err
			}
			if err := c.DeleteDocument(cmd.Context(), args[0], nil); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return err
		},
	}
}
