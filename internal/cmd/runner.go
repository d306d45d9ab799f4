package cmd

import (
	"context"
	"fmt"
	"io"
)

// TargetFunc processes a single target and returns an error if it fails.
type TargetFunc func(ctx context.Context, target string) error

// RunForEachTarget executes fn for each target. With several targets every
// result is preceded by a "<target>:" header. Failures are printed and
// counted, and the returned error reports how many targets failed.
func RunForEachTarget(ctx context.Context, out io.Writer, targets []string, action string, fn TargetFunc) error {
	size := len(targets)
	var failed []string

	for i, target := range targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if size > 1 {
			_, _ = fmt.Fprintf(out, "%s:\n", target)
		}

		if err := fn(ctx, target); err != nil {
			_, _ = fmt.Fprintf(out, "Error: %v\n", err)
			failed = append(failed, target)
		}

		if i != size-1 {
			_, _ = fmt.Fprintln(out)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%s failed on %d target(s)", action, len(failed))
	}

	return nil
}
