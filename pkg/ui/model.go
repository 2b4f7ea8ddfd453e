package ui

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/vanderheijden86/jsonview/pkg/config"
	"github.com/vanderheijden86/jsonview/pkg/debug"
	"github.com/vanderheijden86/jsonview/pkg/editor"
	"github.com/vanderheijden86/jsonview/pkg/hooks"
	"github.com/vanderheijden86/jsonview/pkg/jsonvalue"
	"github.com/vanderheijden86/jsonview/pkg/linemodel"
	"github.com/vanderheijden86/jsonview/pkg/viewstate"
	"github.com/vanderheijden86/jsonview/pkg/watcher"
)

// viewMode selects what the body shows.
type viewMode int

const (
	modeTree viewMode = iota
	modeRaw
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

// FileEventMsg carries a watcher event into the update loop.
type FileEventMsg struct {
	watcher.Event
}

// WatchFileCmd waits for the next watcher event.
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		return FileEventMsg{<-w.Events()}
	}
}

// clipboardWrite is swapped out in tests.
var clipboardWrite = clipboard.WriteAll

// Options wires optional collaborators into the model.
type Options struct {
	Config  config.Config
	Store   *viewstate.Store // nil disables remembered collapse state
	Watcher *watcher.Watcher // nil disables external change detection
	Theme   *Theme           // nil selects DefaultTheme
	Hooks   *hooks.Config    // nil runs no save hooks
}

// Model is the Bubble Tea model of the viewer.
type Model struct {
	session *editor.Session
	cfg     config.Config
	store   *viewstate.Store
	watcher *watcher.Watcher
	hooks   *hooks.Config
	theme   Theme

	tree  TreeModel
	raw   viewport.Model
	input textinput.Model
	mode  viewMode

	editing  bool
	editID   linemodel.ID
	showHelp bool
	help     string

	status     string
	statusKind statusKind

	// lastWritten is what ctrl+s wrote, so the watcher event it causes is
	// not mistaken for an external change.
	lastWritten []byte
	// unwritten is set when a save was accepted but the file write failed
	// or was vetoed by a hook.
	unwritten   bool
	confirmQuit bool

	width  int
	height int
}

// NewModel creates the viewer for a loaded session.
func NewModel(s *editor.Session, opts Options) Model {
	theme := DefaultTheme(lipgloss.DefaultRenderer())
	if opts.Theme != nil {
		theme = *opts.Theme
	}

	input := textinput.New()
	input.Prompt = "edit: "
	input.PromptStyle = theme.Renderer.NewStyle().Foreground(theme.Primary).Bold(true)

	m := Model{
		session: s,
		cfg:     opts.Config,
		store:   opts.Store,
		watcher: opts.Watcher,
		hooks:   opts.Hooks,
		theme:   theme,
		tree:    NewTreeModel(theme),
		raw:     viewport.New(80, 20),
		input:   input,
		width:   80,
		height:  24,
	}
	if opts.Config.UI.DefaultMode == config.ModeRaw {
		m.mode = modeRaw
	}
	m.tree.SetLineNumbers(opts.Config.UI.LineNumbers)
	m.tree.SetDocument(s.Document())
	m.restoreViewState()
	m.layout()
	m.refreshRaw()
	if s.Loaded() {
		m.setStatus(statusInfo, fmt.Sprintf("%s: %d lines", filepath.Base(s.Path()), s.Document().Len()))
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.watcher != nil {
		return WatchFileCmd(m.watcher)
	}
	return nil
}

func (m *Model) setStatus(kind statusKind, msg string) {
	m.statusKind = kind
	m.status = msg
}

// layout distributes the terminal between header, body and status bar.
func (m *Model) layout() {
	bodyHeight := m.height - 2
	if m.editing {
		bodyHeight--
	}
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	m.tree.SetSize(m.width, bodyHeight)
	m.raw.Width = m.width
	m.raw.Height = bodyHeight
	m.input.Width = m.width - lipgloss.Width(m.input.Prompt) - 1
}

func (m *Model) refreshRaw() {
	m.raw.SetContent(m.session.Text())
}

// rebuildTree re-attaches the tree to a rebuilt document and puts the cursor
// back on the same JSON pointer.
func (m *Model) rebuildTree(pointer string) {
	m.tree.SetDocument(m.session.Document())
	m.tree.SelectByPath(pointer)
	m.refreshRaw()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help = ""
		m.layout()
		return m, nil

	case FileEventMsg:
		m.handleFileEvent(msg.Event)
		if m.watcher != nil {
			return m, WatchFileCmd(m.watcher)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		if m.editing {
			return m.handleEditKeys(msg)
		}
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		if msg.String() != "q" {
			m.confirmQuit = false
		}
		if m.mode == modeRaw {
			return m.handleRawKeys(msg)
		}
		return m.handleTreeKeys(msg)
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.saveViewState()
	return m, tea.Quit
}

// handleCommonKeys handles keys shared by tree and raw mode. It reports
// whether the key was consumed.
func (m *Model) handleCommonKeys(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "q":
		if (m.session.Dirty() || m.unwritten) && !m.confirmQuit {
			m.confirmQuit = true
			m.setStatus(statusWarn, "Unsaved edits. Press q again to quit without saving.")
			return true, nil
		}
		_, cmd := m.quit()
		return true, cmd
	case "?":
		if m.help == "" {
			m.help = renderHelp(m.width)
		}
		m.showHelp = true
		return true, nil
	case "tab":
		if m.mode == modeTree {
			m.mode = modeRaw
			m.refreshRaw()
		} else {
			m.mode = modeTree
		}
		return true, nil
	case "ctrl+s":
		m.save()
		return true, nil
	case "v":
		m.validate()
		return true, nil
	case "R":
		m.reformat()
		return true, nil
	case "y":
		m.copy(m.session.Text(), "document")
		return true, nil
	}
	return false, nil
}

func (m Model) handleTreeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if ok, cmd := m.handleCommonKeys(msg); ok {
		return m, cmd
	}
	switch msg.String() {
	case "j", "down":
		m.tree.MoveDown()
	case "k", "up":
		m.tree.MoveUp()
	case "l", "right":
		m.tree.ExpandOrMoveToChild()
	case "h", "left":
		m.tree.CollapseOrJumpToParent()
	case " ", "enter":
		m.tree.ToggleExpand()
	case "E":
		m.tree.ExpandAll()
	case "C":
		m.tree.CollapseAll()
	case "ctrl+a":
		m.tree.ToggleExpandCollapseAll()
	case "g", "home":
		m.tree.JumpToTop()
	case "G", "end":
		m.tree.JumpToBottom()
	case "ctrl+d", "pgdown":
		m.tree.PageDown()
	case "ctrl+u", "pgup":
		m.tree.PageUp()
	case "p":
		if path := m.tree.SelectedPath(); path != "" {
			m.copy(path, path)
		} else {
			m.copy(path, "root pointer")
		}
	case "e":
		cmd := m.startEdit()
		return m, cmd
	}
	return m, nil
}

func (m Model) handleRawKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if ok, cmd := m.handleCommonKeys(msg); ok {
		return m, cmd
	}
	var cmd tea.Cmd
	m.raw, cmd = m.raw.Update(msg)
	return m, cmd
}

func (m *Model) startEdit() tea.Cmd {
	l, ok := m.tree.SelectedLine()
	if !ok {
		return nil
	}
	m.editing = true
	m.editID = l.ID
	m.input.SetValue(l.Text)
	m.input.CursorEnd()
	m.layout()
	return m.input.Focus()
}

func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.stopEdit()
		m.setStatus(statusInfo, "Edit cancelled")
		return m, nil
	case "enter":
		text := m.input.Value()
		m.stopEdit()
		if err := m.session.Edit(m.editID, text); err != nil {
			m.setStatus(statusError, err.Error())
			return m, nil
		}
		m.refreshRaw()
		m.setStatus(statusWarn, "Line edited. ctrl+s saves, v validates, R discards.")
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) stopEdit() {
	m.editing = false
	m.input.Blur()
	m.layout()
}

// save validates, rebuilds the line model and writes the canonical text back
// to the file. An invalid document changes nothing.
func (m *Model) save() {
	pointer := m.tree.SelectedPath()
	if err := m.session.Save(); err != nil {
		m.setStatus(statusError, describeError(err))
		return
	}
	m.rebuildTree(pointer)

	path := m.session.Path()
	if path == "" {
		m.setStatus(statusOK, "Saved")
		return
	}
	data := []byte(m.session.Canonical() + "\n")
	sc := hooks.SaveContext{
		File:      path,
		Lines:     m.session.Document().Len(),
		Bytes:     len(data),
		Timestamp: time.Now(),
	}
	written := false
	ex, err := hooks.Around(m.hooks, sc, func() error {
		if err := editor.WriteFileAtomic(path, data); err != nil {
			return err
		}
		written = true
		m.lastWritten = data
		return nil
	})
	m.unwritten = !written
	if summary := ex.Summary(); summary != "" {
		debug.Log("%s", summary)
	}
	switch {
	case err != nil && !written:
		m.setStatus(statusError, fmt.Sprintf("Not written: %v", err))
	case err != nil:
		m.setStatus(statusWarn, fmt.Sprintf("Saved %s, but %v", filepath.Base(path), err))
	default:
		m.setStatus(statusOK, fmt.Sprintf("Saved %s", filepath.Base(path)))
	}
}

func (m *Model) validate() {
	if err := m.session.Validate(); err != nil {
		m.setStatus(statusError, describeError(err))
		return
	}
	m.setStatus(statusOK, "Valid JSON")
}

func (m *Model) reformat() {
	pointer := m.tree.SelectedPath()
	if err := m.session.Reformat(); err != nil {
		m.setStatus(statusError, err.Error())
		return
	}
	m.rebuildTree(pointer)
	m.setStatus(statusInfo, "Reformatted from last saved value")
}

func (m *Model) copy(text, what string) {
	if err := clipboardWrite(text); err != nil {
		m.setStatus(statusError, fmt.Sprintf("Clipboard error: %v", err))
		return
	}
	m.setStatus(statusOK, fmt.Sprintf("Copied %s to clipboard", what))
}

// handleFileEvent reacts to the open file changing on disk. A clean session
// reloads; a dirty one keeps its edits and says so.
func (m *Model) handleFileEvent(ev watcher.Event) {
	switch ev.Kind {
	case watcher.Removed:
		m.setStatus(statusWarn, "File was removed on disk. ctrl+s writes it back.")
		return
	case watcher.Failed:
		m.setStatus(statusWarn, fmt.Sprintf("Watch error: %v", ev.Err))
		return
	}

	data, err := os.ReadFile(m.session.Path())
	if err != nil {
		m.setStatus(statusWarn, fmt.Sprintf("Reload failed: %v", err))
		return
	}
	if bytes.Equal(data, m.lastWritten) {
		return
	}
	if m.session.Dirty() {
		m.setStatus(statusWarn, "File changed on disk. Your unsaved edits are kept.")
		return
	}

	doc := m.session.Document()
	collapsed := doc.CollapsedPaths()
	pointer := m.tree.SelectedPath()
	if err := m.session.ReloadBytes(data); err != nil {
		m.setStatus(statusError, "Reload failed: "+describeError(err))
		return
	}
	m.session.Document().ApplyCollapsed(collapsed)
	m.rebuildTree(pointer)
	debug.Log("reloaded %s after external change", m.session.Path())
	m.setStatus(statusInfo, "Reloaded after change on disk")
}

// describeError renders parse failures with their position.
func describeError(err error) string {
	var ve *editor.ValidationError
	if errors.As(err, &ve) {
		return fmt.Sprintf("Invalid JSON at %s: %s", ve.Err.Location(), ve.Err.Msg)
	}
	var se *jsonvalue.SyntaxError
	if errors.As(err, &se) {
		return fmt.Sprintf("Invalid JSON at %s: %s", se.Location(), se.Msg)
	}
	return err.Error()
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(m.renderHeader())
	sb.WriteString("\n")

	switch {
	case m.showHelp:
		sb.WriteString(m.help)
	case m.mode == modeRaw:
		sb.WriteString(m.raw.View())
	default:
		sb.WriteString(m.tree.View())
	}
	sb.WriteString("\n")

	if m.editing {
		sb.WriteString(m.input.View())
		sb.WriteString("\n")
	}
	sb.WriteString(m.renderStatusBar())
	return sb.String()
}

func (m Model) renderHeader() string {
	name := "(no file)"
	if p := m.session.Path(); p != "" {
		name = filepath.Base(p)
	}
	mode := "tree"
	if m.mode == modeRaw {
		mode = "raw"
	}
	title := fmt.Sprintf("jv  %s  [%s]", name, mode)
	switch {
	case m.session.Dirty():
		title += "  ● modified"
	case m.unwritten:
		title += "  ● not written"
	}
	return m.theme.Header.Width(m.width).Render(truncateRunesHelper(title, m.width-2, "…"))
}

func (m Model) renderStatusBar() string {
	text := m.status
	if m.mode == modeTree {
		if p := m.tree.SelectedPath(); p != "" {
			text = strings.TrimSpace(fmt.Sprintf("%s  %s", text, m.theme.MutedText.Render(p)))
		}
	}
	if text == "" {
		text = "? for help"
	}
	wrapped := wordwrap.String(text, m.width)
	first, _, _ := strings.Cut(wrapped, "\n")
	return m.theme.StatusStyle(m.statusKind).Render(truncateStyled(first, m.width))
}
