package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vanderheijden86/jsonview/pkg/hooks"
)

// ErrAborted is returned when the user declines to overwrite a file.
var ErrAborted = errors.New("aborted")

// confirmOverwrite asks before fmt -w replaces a file. Tests swap it out.
var confirmOverwrite = func(path string) (bool, error) {
	ok := true
	form := newForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Rewrite %s in canonical form?", path)).
				Description("Key order and number literals are kept; whitespace is normalized.").
				Value(&ok).
				Affirmative("Yes, rewrite").
				Negative("No"),
		),
	)
	if err := form.Run(); err != nil {
		return false, err
	}
	return ok, nil
}

// stdinIsTerminal reports whether standard input is interactive.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form that falls back to accessible mode without a TTY.
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !stdinIsTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

func newFmtCmd(root *rootOptions) *cobra.Command {
	var write, yes bool
	cmd := &cobra.Command{
		Use:   "fmt FILE",
		Short: "Print a JSON file in canonical form",
		Long: `Print FILE pretty-printed with two-space indentation, the same text the
viewer writes on save. With -w the file is rewritten in place.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if write && path == "-" {
				return errors.New("cannot write back to stdin")
			}
			s, err := loadSession(cmd.InOrStdin(), path)
			if err != nil {
				return err
			}
			if !write {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), s.Canonical())
				return err
			}

			logger := loggerFromContext(cmd.Context())
			cfg, err := root.loadConfig()
			if err != nil {
				logger.Warn("using default config", "err", err)
			}
			if !yes && cfg.Editor.ConfirmOverwrite {
				ok, err := confirmOverwrite(path)
				if err != nil {
					return err
				}
				if !ok {
					return ErrAborted
				}
			}
			text := s.Canonical() + "\n"
			sc := hooks.SaveContext{
				File:      path,
				Lines:     s.Document().Len(),
				Bytes:     len(text),
				Timestamp: time.Now(),
			}
			ex, err := hooks.Around(root.loadHooks(logger), sc, func() error {
				return s.Export(path)
			})
			if summary := ex.Summary(); summary != "" {
				logger.Info(summary)
			}
			if err != nil {
				return err
			}
			logger.Info("formatted", "file", path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to FILE")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask before overwriting")
	return cmd
}
