package cmd

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/acervo/autorctl/internal/autor"
	"github.com/spf13/cobra"
)

type authorCommandOperations struct {
	baseOperations
	output string
	out    io.Writer
}

func NewAuthorCommand(base baseOperations) *cobra.Command {
	operations := &authorCommandOperations{baseOperations: base}

	cmd := &cobra.Command{
		Use:     "author",
		Aliases: []string{"autor"},
		Short:   "Fetch the author",
		Long: `Fetch the author from the backend's /autor endpoint.

By default the local backend is queried. Use --pod, --deployment or
--selector to query backends running in the cluster instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := operations.complete(cmd); err != nil {
				return err
			}
			if err := operations.validate(); err != nil {
				return err
			}
			operations.out = cmd.OutOrStdout()
			return RunForEachTarget(cmd.Context(), operations.out, operations.targets, "fetch author", operations.runForTarget)
		},
	}

	cmd.Flags().StringVarP(&operations.output, "output", "o", OutputFormatJSON, fmt.Sprintf("Output format, one of %v", outputFormats))
	_ = cmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(outputFormats, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func (o *authorCommandOperations) validate() error {
	if !slices.Contains(outputFormats, o.output) {
		return fmt.Errorf("unsupported output format %q, supported: %v", o.output, outputFormats)
	}
	return o.validateTargets()
}

func (o *authorCommandOperations) runForTarget(ctx context.Context, target string) error {
	client, err := o.newClient(ctx, target)
	if err != nil {
		return err
	}

	author, err := client.FetchAuthor(ctx)
	if err != nil {
		return err
	}

	return printAuthor(o.out, author, o.output)
}

func printAuthor(out io.Writer, author any, format string) error {
	if format == OutputFormatJSON {
		return writeJSON(out, author)
	}

	authors, err := autor.DecodeAuthors(author)
	if err != nil {
		return err
	}

	if format == OutputFormatName {
		return writeAuthorNames(out, authors)
	}
	return writeAuthorTable(out, authors)
}
