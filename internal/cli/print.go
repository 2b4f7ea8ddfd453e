package cli

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/vanderheijden86/jsonview/pkg/editor"
	"github.com/vanderheijden86/jsonview/pkg/linemodel"
)

type printOptions struct {
	collapse    []string
	collapseAll bool
	depth       int
	markup      bool
	numbers     bool
	asJSON      bool
}

// lineRecord is the --json form of one visible line.
type lineRecord struct {
	ID          linemodel.ID `json:"id"`
	ParentID    linemodel.ID `json:"parent_id"`
	Depth       int          `json:"depth"`
	Kind        string       `json:"kind"`
	Content     string       `json:"content"`
	Collapsible bool         `json:"collapsible"`
	Collapsed   bool         `json:"collapsed"`
	Line        int          `json:"line"`
	Path        string       `json:"path"`
}

func newPrintCmd() *cobra.Command {
	opts := &printOptions{}
	cmd := &cobra.Command{
		Use:   "print FILE",
		Short: "Print the visible lines of a JSON file",
		Long: `Print the lines of FILE that remain visible after collapsing. Collapsed
containers print as one summary line. Use - to read standard input.`,
		Example: `  jv print data.json --depth 2
  jv print data.json --collapse /items --numbers
  cat data.json | jv print - --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			doc := s.Document()
			applyCollapse(cmd, doc, opts)
			if opts.asJSON {
				return writeRecords(cmd.OutOrStdout(), doc.Visible())
			}
			return writeLines(cmd.OutOrStdout(), doc.Visible(), opts)
		},
	}

	cmd.Flags().StringArrayVar(&opts.collapse, "collapse", nil, "collapse the container at this JSON pointer (repeatable)")
	cmd.Flags().BoolVar(&opts.collapseAll, "collapse-all", false, "collapse every container")
	cmd.Flags().IntVar(&opts.depth, "depth", 0, "collapse containers at this depth and deeper (0 = none)")
	cmd.Flags().BoolVar(&opts.markup, "markup", false, "HTML-escape line content")
	cmd.Flags().BoolVarP(&opts.numbers, "numbers", "n", false, "prefix lines with their display number")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print line records as JSON")
	return cmd
}

// loadSession loads path, or standard input when path is "-".
func loadSession(stdin io.Reader, path string) (*editor.Session, error) {
	s := editor.NewSession()
	if path != "-" {
		return s, s.Load(path)
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return s, fmt.Errorf("reading stdin: %w", err)
	}
	return s, s.LoadBytes("stdin", data)
}

// applyCollapse applies --depth, then --collapse-all, then each --collapse.
func applyCollapse(cmd *cobra.Command, doc *linemodel.Document, opts *printOptions) {
	logger := loggerFromContext(cmd.Context())
	if opts.depth > 0 {
		doc.CollapseDepth(opts.depth)
	}
	if opts.collapseAll {
		doc.CollapseAll()
	}
	for _, p := range opts.collapse {
		id, ok := doc.FindPath(p)
		if l, _ := doc.Line(id); !ok || !l.IsContainerOpen() {
			logger.Warn("no container at pointer", "pointer", p)
			continue
		}
		doc.SetCollapsed(id, true)
	}
}

func writeLines(w io.Writer, lines []linemodel.Line, opts *printOptions) error {
	mode := linemodel.Plain
	if opts.markup {
		mode = linemodel.Markup
	}
	width := len(fmt.Sprint(len(lines)))
	for _, l := range lines {
		var err error
		if opts.numbers {
			_, err = fmt.Fprintf(w, "%*d  %s\n", width, l.DisplayLine, l.Render(mode))
		} else {
			_, err = fmt.Fprintln(w, l.Render(mode))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func writeRecords(w io.Writer, lines []linemodel.Line) error {
	records := make([]lineRecord, len(lines))
	for i, l := range lines {
		records[i] = lineRecord{
			ID:          l.ID,
			ParentID:    l.ParentID,
			Depth:       l.Depth,
			Kind:        l.Kind.String(),
			Content:     l.Content(),
			Collapsible: l.IsContainerOpen(),
			Collapsed:   l.Collapsed,
			Line:        l.DisplayLine,
			Path:        l.Path,
		}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding lines: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
