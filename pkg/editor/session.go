// Package editor owns the authoritative JSON value of an open document and
// the line model derived from it.
//
// A Session accepts a new value wholesale on load, save and reformat; between
// those rebuilds only collapse state and single-line text change. Save is
// all-or-nothing: text that does not parse leaves the model exactly as it was.
package editor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vanderheijden86/jsonview/pkg/debug"
	"github.com/vanderheijden86/jsonview/pkg/jsonvalue"
	"github.com/vanderheijden86/jsonview/pkg/linemodel"
)

var (
	// ErrNotJSONFile is returned by Load for paths without a .json extension.
	ErrNotJSONFile = errors.New("not a .json file")
	// ErrNoDocument is returned by operations that need a loaded document.
	ErrNoDocument = errors.New("no document loaded")
	// ErrUnknownLine is returned by Edit for ids outside the flat sequence.
	ErrUnknownLine = errors.New("unknown line")
)

// ValidationError reports reconstructed text that is not valid JSON.
type ValidationError struct {
	Err *jsonvalue.SyntaxError
	// Text is the reconstructed document that failed to parse.
	Text string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid JSON at %s: %s", e.Err.Location(), e.Err.Msg)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// SourceLine returns the line of Text the error points at.
func (e *ValidationError) SourceLine() string {
	lines := strings.Split(e.Text, "\n")
	if e.Err.Line < 1 || e.Err.Line > len(lines) {
		return ""
	}
	return lines[e.Err.Line-1]
}

// Session is one open document. It is not safe for concurrent use; callers
// serialize access the way a single event loop does.
type Session struct {
	path  string
	value jsonvalue.Value
	doc   *linemodel.Document
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{}
}

// IsJSONPath reports whether path names a .json file (case-insensitive).
func IsJSONPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// Load reads and parses the file at path. Any failure clears the session.
func (s *Session) Load(path string) error {
	if !IsJSONPath(path) {
		s.Clear()
		return fmt.Errorf("%w: %s", ErrNotJSONFile, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		s.Clear()
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return s.LoadBytes(path, data)
}

// LoadBytes parses data as the content of name. A parse failure clears the
// session and returns the *jsonvalue.SyntaxError wrapped with name.
func (s *Session) LoadBytes(name string, data []byte) error {
	v, err := jsonvalue.Parse(data)
	if err != nil {
		s.Clear()
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	s.path = name
	s.accept(v)
	debug.Log("loaded %s: %d lines", name, s.doc.Len())
	return nil
}

// Reload re-reads the file the session was loaded from. Unlike Load, a
// read or parse failure leaves the current document in place.
func (s *Session) Reload() error {
	if s.doc == nil || s.path == "" {
		return ErrNoDocument
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", s.path, err)
	}
	return s.ReloadBytes(data)
}

// ReloadBytes replaces the document with data when it parses.
func (s *Session) ReloadBytes(data []byte) error {
	v, err := jsonvalue.Parse(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", s.path, err)
	}
	s.accept(v)
	debug.Log("reloaded %s: %d lines", s.path, s.doc.Len())
	return nil
}

// accept installs v as the authoritative value and rebuilds the line model
// fully expanded.
func (s *Session) accept(v jsonvalue.Value) {
	s.value = v
	s.doc = linemodel.NewDocument(v)
}

// Clear drops the document.
func (s *Session) Clear() {
	s.path = ""
	s.value = jsonvalue.Value{}
	s.doc = nil
}

// Loaded reports whether a document is open.
func (s *Session) Loaded() bool { return s.doc != nil }

// Path returns the name the document was loaded from.
func (s *Session) Path() string { return s.path }

// Value returns the authoritative value. Unsaved edits are not reflected.
func (s *Session) Value() jsonvalue.Value { return s.value }

// Document returns the line model, or nil when nothing is loaded.
func (s *Session) Document() *linemodel.Document { return s.doc }

// Dirty reports whether there are unsaved edits.
func (s *Session) Dirty() bool {
	return s.doc != nil && s.doc.Dirty()
}

// Edit replaces the text of one line.
func (s *Session) Edit(id linemodel.ID, text string) error {
	if s.doc == nil {
		return ErrNoDocument
	}
	if !s.doc.Edit(id, text) {
		return fmt.Errorf("%w: %d", ErrUnknownLine, id)
	}
	return nil
}

// Text reconstructs the document from every line, edits included.
func (s *Session) Text() string {
	if s.doc == nil {
		return ""
	}
	return s.doc.Reconstruct()
}

// Validate parses the reconstructed text without changing anything. It
// returns nil or a *ValidationError.
func (s *Session) Validate() error {
	_, err := s.parseText()
	return err
}

func (s *Session) parseText() (jsonvalue.Value, error) {
	if s.doc == nil {
		return jsonvalue.Value{}, ErrNoDocument
	}
	text := s.doc.Reconstruct()
	v, err := jsonvalue.ParseString(text)
	if err != nil {
		var se *jsonvalue.SyntaxError
		if errors.As(err, &se) {
			return jsonvalue.Value{}, &ValidationError{Err: se, Text: text}
		}
		return jsonvalue.Value{}, err
	}
	return v, nil
}

// Save validates the edited text and, when it parses, makes it the
// authoritative value and rebuilds a fully expanded line model. On failure
// the value, the lines, their collapse state and the dirty flag are left
// untouched.
func (s *Session) Save() error {
	v, err := s.parseText()
	if err != nil {
		debug.Log("save rejected: %v", err)
		return err
	}
	s.accept(v)
	return nil
}

// Reformat discards unsaved edits and rebuilds the line model from the
// authoritative value.
func (s *Session) Reformat() error {
	if s.doc == nil {
		return ErrNoDocument
	}
	s.accept(s.value)
	return nil
}

// Canonical returns the authoritative value pretty-printed with 2-space
// indentation.
func (s *Session) Canonical() string {
	return Canonical(s.value)
}

// Canonical pretty-prints v the way a fresh line model reconstructs it.
func Canonical(v jsonvalue.Value) string {
	return linemodel.Reconstruct(linemodel.Flatten(v))
}

// Export writes the canonical text, newline-terminated, to path.
func (s *Session) Export(path string) error {
	if s.doc == nil {
		return ErrNoDocument
	}
	return WriteFileAtomic(path, []byte(s.Canonical()+"\n"))
}
