package editor

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/jsonview/pkg/jsonvalue"
	"github.com/vanderheijden86/jsonview/pkg/linemodel"
	"github.com/vanderheijden86/jsonview/pkg/testutil"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func loaded(t *testing.T, content string) *Session {
	t.Helper()
	s := NewSession()
	if err := s.LoadBytes("doc.json", []byte(content)); err != nil {
		t.Fatalf("LoadBytes failed: %v", err)
	}
	return s
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "doc.JSON", `{"a":1,"b":[2,3]}`)
	s := NewSession()
	if err := s.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !s.Loaded() || s.Path() != path {
		t.Errorf("expected loaded session for %s, got %q", path, s.Path())
	}
	if s.Document().Len() != 7 {
		t.Errorf("expected 7 lines, got %d", s.Document().Len())
	}
	if s.Dirty() {
		t.Error("fresh session should be clean")
	}
}

func TestLoadRejectsNonJSONName(t *testing.T) {
	path := writeFile(t, "doc.txt", `{}`)
	s := loaded(t, `[1]`)
	err := s.Load(path)
	if !errors.Is(err, ErrNotJSONFile) {
		t.Fatalf("expected ErrNotJSONFile, got %v", err)
	}
	if s.Loaded() {
		t.Error("expected failed load to clear the session")
	}
}

func TestLoadMissingFile(t *testing.T) {
	s := NewSession()
	err := s.Load(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestLoadParseFailureClears(t *testing.T) {
	s := loaded(t, `[1]`)
	err := s.LoadBytes("bad.json", []byte(`{"a": }`))
	var se *jsonvalue.SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("expected *jsonvalue.SyntaxError, got %v", err)
	}
	if s.Loaded() || s.Document() != nil {
		t.Error("expected previous document to be discarded")
	}
	if s.Text() != "" {
		t.Errorf("expected no text, got %q", s.Text())
	}
}

func TestOperationsWithoutDocument(t *testing.T) {
	s := NewSession()
	if err := s.Edit(0, "x"); !errors.Is(err, ErrNoDocument) {
		t.Errorf("Edit: expected ErrNoDocument, got %v", err)
	}
	if err := s.Validate(); !errors.Is(err, ErrNoDocument) {
		t.Errorf("Validate: expected ErrNoDocument, got %v", err)
	}
	if err := s.Save(); !errors.Is(err, ErrNoDocument) {
		t.Errorf("Save: expected ErrNoDocument, got %v", err)
	}
	if err := s.Reformat(); !errors.Is(err, ErrNoDocument) {
		t.Errorf("Reformat: expected ErrNoDocument, got %v", err)
	}
	if err := s.Export(filepath.Join(t.TempDir(), "out.json")); !errors.Is(err, ErrNoDocument) {
		t.Errorf("Export: expected ErrNoDocument, got %v", err)
	}
}

func TestEditUnknownLine(t *testing.T) {
	s := loaded(t, `[1]`)
	if err := s.Edit(17, "2"); !errors.Is(err, ErrUnknownLine) {
		t.Errorf("expected ErrUnknownLine, got %v", err)
	}
}

func TestSaveValidEdit(t *testing.T) {
	s := loaded(t, `{"a":1,"b":[2,3]}`)
	s.Document().Toggle(2)

	if err := s.Edit(1, `"a": {"deep": true},`); err != nil {
		t.Fatal(err)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("expected edit to validate, got %v", err)
	}
	if err := s.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if s.Dirty() {
		t.Error("expected clean session after save")
	}

	want, _ := jsonvalue.ParseString(`{"a":{"deep":true},"b":[2,3]}`)
	if !jsonvalue.Equal(s.Value(), want) {
		t.Errorf("expected %s, got %s", jsonvalue.Compact(want), jsonvalue.Compact(s.Value()))
	}
	doc := s.Document()
	if doc.HasCollapsed() {
		t.Error("expected save to rebuild fully expanded")
	}
	testutil.AssertFlat(t, doc.Lines())
	if doc.Len() != 9 {
		t.Errorf("expected 9 lines after rebuild, got %d", doc.Len())
	}
	if s.Text() != s.Canonical() {
		t.Errorf("expected text to be canonical after save:\n%s", s.Text())
	}
}

func TestSaveInvalidEditLeavesModelUntouched(t *testing.T) {
	s := loaded(t, `{"a":1,"b":[2,3]}`)
	s.Document().Toggle(2)
	if err := s.Edit(3, "2,,"); err != nil {
		t.Fatal(err)
	}
	beforeLines := s.Document().Lines()
	beforeValue := s.Value()

	err := s.Save()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	var se *jsonvalue.SyntaxError
	if !errors.As(err, &se) {
		t.Error("expected ValidationError to unwrap to *jsonvalue.SyntaxError")
	}
	if ve.Text != s.Text() {
		t.Error("expected error to carry the rejected text")
	}
	if !strings.Contains(err.Error(), se.Msg) {
		t.Errorf("expected parser message in %q", err.Error())
	}

	if !s.Dirty() {
		t.Error("expected session to stay dirty")
	}
	if !jsonvalue.Equal(s.Value(), beforeValue) {
		t.Error("authoritative value changed on failed save")
	}
	after := s.Document().Lines()
	if len(after) != len(beforeLines) {
		t.Fatalf("line count changed: %d -> %d", len(beforeLines), len(after))
	}
	for i := range after {
		if after[i] != beforeLines[i] {
			t.Errorf("line %d changed: %+v -> %+v", i, beforeLines[i], after[i])
		}
	}
}

func TestSaveTruncatedDocumentReportsEnd(t *testing.T) {
	s := loaded(t, `{"a":1,"b":[2,3]}`)
	if err := s.Edit(6, ""); err != nil {
		t.Fatal(err)
	}
	err := s.Save()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if want := "invalid JSON at line 7, column 1: unexpected end of JSON input"; err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestLoadOutOfRangeNumber(t *testing.T) {
	s := loaded(t, `{"huge": 1e400, "ok": [1]}`)
	if !s.Loaded() {
		t.Fatal("expected document to load")
	}
	if got := s.Canonical(); !strings.Contains(got, `"huge": 1e400,`) {
		t.Errorf("expected literal kept, got %q", got)
	}
}

func TestValidationErrorSourceLine(t *testing.T) {
	e := &ValidationError{
		Err:  &jsonvalue.SyntaxError{Msg: "bad", Line: 2, Column: 3},
		Text: "{\n  oops\n}",
	}
	if e.SourceLine() != "  oops" {
		t.Errorf("expected offending line, got %q", e.SourceLine())
	}
	e.Err.Line = 9
	if e.SourceLine() != "" {
		t.Errorf("expected empty line out of range, got %q", e.SourceLine())
	}
}

func TestReformatDiscardsEdits(t *testing.T) {
	s := loaded(t, `[1, 2]`)
	canonical := s.Text()
	if err := s.Edit(1, "100,"); err != nil {
		t.Fatal(err)
	}
	if err := s.Reformat(); err != nil {
		t.Fatal(err)
	}
	if s.Dirty() || s.Text() != canonical {
		t.Errorf("expected edits discarded, got dirty=%v text=%q", s.Dirty(), s.Text())
	}
}

func TestExport(t *testing.T) {
	s := loaded(t, `{"k":[true,null]}`)
	out := filepath.Join(t.TempDir(), "sub", "out.json")
	if err := s.Export(out); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"k\": [\n    true,\n    null\n  ]\n}\n"
	if string(data) != want {
		t.Errorf("expected\n%s\ngot\n%s", want, data)
	}
}

func TestWriteFileAtomicKeepsMode(t *testing.T) {
	path := writeFile(t, "doc.json", "{}")
	if err := os.Chmod(path, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := WriteFileAtomic(path, []byte("[]\n")); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected temp file cleaned up, found %d entries", len(entries))
	}
}

func TestIsJSONPath(t *testing.T) {
	tests := map[string]bool{
		"a.json":      true,
		"A.JSON":      true,
		"dir/x.Json":  true,
		"a.jsonl":     false,
		"a.json.bak":  false,
		"json":        false,
		"noextension": false,
	}
	for path, want := range tests {
		if got := IsJSONPath(path); got != want {
			t.Errorf("%s: expected %v, got %v", path, want, got)
		}
	}
}

func TestSaveAllOrNothingProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := testutil.ContainerGen(3).Draw(t, "doc")
		s := NewSession()
		if err := s.LoadBytes("doc.json", []byte(Canonical(v))); err != nil {
			t.Fatalf("canonical text did not load: %v", err)
		}

		lines := s.Document().Lines()
		target := rapid.SampledFrom(lines).Draw(t, "line")
		text := rapid.SampledFrom([]string{
			target.Text + ",",
			"{",
			target.Text + " }",
			"",
			target.Text,
		}).Draw(t, "text")
		if err := s.Edit(target.ID, text); err != nil {
			t.Fatal(err)
		}

		before := s.Document().Lines()
		err := s.Save()
		if err != nil {
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if !jsonvalue.Equal(s.Value(), v) {
				t.Fatal("failed save changed the value")
			}
			if len(s.Document().Lines()) != len(before) {
				t.Fatal("failed save rebuilt the line model")
			}
			return
		}
		testutil.AssertFlat(t, s.Document().Lines())
		if s.Dirty() {
			t.Fatal("successful save left the session dirty")
		}
		if s.Text() != Canonical(s.Value()) {
			t.Fatal("line model out of sync with saved value")
		}
	})
}

func TestCanonicalMatchesFlatten(t *testing.T) {
	v := jsonvalue.Array(jsonvalue.Object(), jsonvalue.String("x"))
	if Canonical(v) != linemodel.Reconstruct(linemodel.Flatten(v)) {
		t.Error("canonical form must equal reconstruction of a fresh flatten")
	}
}

func TestReloadKeepsDocumentOnFailure(t *testing.T) {
	path := writeFile(t, "doc.json", `{"a": 1}`)
	s := NewSession()
	if err := s.Load(path); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte(`{"a": `), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.Reload(); err == nil {
		t.Fatal("expected reload of broken file to fail")
	}
	if !s.Loaded() || s.Document().Len() != 3 {
		t.Error("expected previous document to survive a failed reload")
	}

	if err := os.WriteFile(path, []byte(`{"a": 1, "b": 2}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if s.Document().Len() != 4 {
		t.Errorf("expected 4 lines after reload, got %d", s.Document().Len())
	}
	if s.Path() != path {
		t.Errorf("expected path kept, got %q", s.Path())
	}
}
