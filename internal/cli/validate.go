package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/jsonview/pkg/jsonvalue"
)

// validateResult is the outcome for one file.
type validateResult struct {
	Path string
	Err  error
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check that files contain exactly one valid JSON value",
		Long: `Validate each FILE concurrently. Errors are reported with line and column.
The exit status is non-zero when any file is invalid.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog := newProgress(loggerFromContext(cmd.Context()))
			results, err := validateFiles(cmd.Context(), args)
			if err != nil {
				return err
			}

			failed := 0
			out := cmd.OutOrStdout()
			for _, r := range results {
				if r.Err != nil {
					failed++
					fmt.Fprintf(out, "FAIL %s: %s\n", r.Path, describe(r.Err))
					continue
				}
				fmt.Fprintf(out, "ok   %s\n", r.Path)
			}
			prog.done(fmt.Sprintf("Validated %d files", len(results)))

			if failed > 0 {
				return fmt.Errorf("%d of %d files invalid", failed, len(results))
			}
			return nil
		},
	}
}

// validateFiles parses every path concurrently. Per-file failures are
// captured in the results, which keep the order of paths.
func validateFiles(ctx context.Context, paths []string) ([]validateResult, error) {
	results := make([]validateResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = validateResult{Path: path, Err: validateFile(path)}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func validateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = jsonvalue.Parse(data)
	return err
}

// describe adds the position to syntax errors.
func describe(err error) string {
	var se *jsonvalue.SyntaxError
	if errors.As(err, &se) {
		return fmt.Sprintf("%s: %s", se.Location(), se.Msg)
	}
	return err.Error()
}
