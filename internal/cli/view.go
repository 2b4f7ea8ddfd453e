package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vanderheijden86/jsonview/pkg/config"
	"github.com/vanderheijden86/jsonview/pkg/debug"
	"github.com/vanderheijden86/jsonview/pkg/editor"
	"github.com/vanderheijden86/jsonview/pkg/ui"
	"github.com/vanderheijden86/jsonview/pkg/viewstate"
	"github.com/vanderheijden86/jsonview/pkg/watcher"
)

// ErrNoTerminal is returned by view when stdout is not a terminal.
var ErrNoTerminal = errors.New("view needs a terminal; use jv print for piped output")

func newViewCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "view FILE",
		Short: "Browse and edit a JSON file interactively",
		Long: `Open FILE in the interactive viewer. Objects and arrays fold and unfold,
single lines can be edited, and ctrl+s validates the whole document before
writing it back in canonical form. Press ? inside the viewer for all keys.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, opts, args[0])
		},
	}
}

func runView(cmd *cobra.Command, opts *rootOptions, path string) error {
	logger := loggerFromContext(cmd.Context())
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return ErrNoTerminal
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		logger.Warn("using default config", "err", err)
	}

	s := editor.NewSession()
	if err := s.Load(path); err != nil {
		return err
	}

	// The TUI owns the terminal from here on.
	defer redirectLog()()

	uiOpts := ui.Options{Config: cfg, Hooks: opts.loadHooks(logger)}
	if store := openStore(cfg); store != nil {
		defer store.Close()
		uiOpts.Store = store
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	if cfg.Editor.Watch {
		if w := startWatcher(ctx, s.Path()); w != nil {
			defer w.Stop()
			uiOpts.Watcher = w
		}
	}

	return runTUIProgram(ui.NewModel(s, uiOpts))
}

// redirectLog points the shared logger at the log file and returns a func
// that restores stderr.
func redirectLog() func() {
	restore := func() { debug.SetOutput(os.Stderr) }
	path := config.LogPath()
	if path == "" {
		debug.SetOutput(io.Discard)
		return restore
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		debug.SetOutput(io.Discard)
		return restore
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		debug.SetOutput(io.Discard)
		return restore
	}
	debug.SetOutput(f)
	return func() {
		restore()
		f.Close()
	}
}

func openStore(cfg config.Config) *viewstate.Store {
	if !cfg.Editor.RememberCollapsed {
		return nil
	}
	path := cfg.StatePath()
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		debug.Warn("view state disabled", "err", err)
		return nil
	}
	store, err := viewstate.Open(path)
	if err != nil {
		debug.Warn("view state disabled", "err", err)
		return nil
	}
	return store
}

func startWatcher(ctx context.Context, path string) *watcher.Watcher {
	w, err := watcher.New(path)
	if err != nil {
		debug.Warn("file watching disabled", "err", err)
		return nil
	}
	if err := w.Start(ctx); err != nil {
		debug.Warn("file watching disabled", "err", err)
		return nil
	}
	debug.Log("watching %s (polling=%v)", w.Path(), w.IsPolling())
	return w
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM; a second signal or a stuck
	// program gets killed.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated runs: set JV_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("JV_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}
				p.Quit()
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("running viewer: %w", err)
	}
	return nil
}
