package cmd

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"
)

type targetResult struct {
	Name  string          `json:"name"`
	Data  json.RawMessage `json:"data"`
	Error *string         `json:"error"`
}

type rawOutput struct {
	Targets []targetResult `json:"targets"`
}

type rawCommandOperations struct {
	baseOperations
	endpoint string
}

func NewRawCommand(base baseOperations) *cobra.Command {
	operations := &rawCommandOperations{baseOperations: base}

	cmd := &cobra.Command{
		Use:   "raw <endpoint>",
		Short: "Get the raw response of any backend endpoint",
		Long: `Get the raw response of any backend endpoint.

Responses are collected per target into a single JSON document, which
makes the command suitable for scripting.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := operations.complete(cmd, args); err != nil {
				return err
			}
			if err := operations.validateTargets(); err != nil {
				return err
			}
			output := operations.run(cmd.Context())
			return writeJSON(cmd.OutOrStdout(), output)
		},
	}

	return cmd
}

func (o *rawCommandOperations) complete(cmd *cobra.Command, args []string) error {
	if err := o.baseOperations.complete(cmd); err != nil {
		return err
	}

	if len(args) >= 1 && args[0] != "/" {
		o.endpoint = args[0]
	}

	return nil
}

func (o *rawCommandOperations) run(ctx context.Context) rawOutput {
	output := rawOutput{Targets: make([]targetResult, 0, len(o.targets))}

	for _, target := range o.targets {
		if ctx.Err() != nil {
			break
		}
		output.Targets = append(output.Targets, o.fetch(ctx, target))
	}

	return output
}

func (o *rawCommandOperations) fetch(ctx context.Context, target string) targetResult {
	result := targetResult{Name: target}

	client, err := o.newClient(ctx, target)
	if err != nil {
		msg := err.Error()
		result.Error = &msg
		return result
	}

	data, err := client.GetRaw(ctx, o.endpoint)
	if err != nil {
		msg := err.Error()
		result.Error = &msg
		return result
	}

	if !json.Valid(data) {
		// non-JSON bodies are embedded as a string
		data, _ = json.Marshal(string(data))
	}
	result.Data = data
	return result
}
