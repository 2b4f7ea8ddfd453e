package testutil

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/jsonview/pkg/jsonvalue"
	"github.com/vanderheijden86/jsonview/pkg/linemodel"
)

func TestGeneratorDeterministic(t *testing.T) {
	a := New(DefaultConfig()).Document()
	b := New(DefaultConfig()).Document()
	if !jsonvalue.Equal(a, b) {
		t.Errorf("same seed produced different documents:\n%s\n%s", jsonvalue.Compact(a), jsonvalue.Compact(b))
	}
	if !a.IsContainer() {
		t.Errorf("expected container root, got %v", a.Kind())
	}
}

func TestGeneratorRespectsDepth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDepth = 2
	g := New(cfg)
	for i := 0; i < 20; i++ {
		lines := linemodel.Flatten(g.Document())
		for _, l := range lines {
			if l.Depth > cfg.MaxDepth {
				t.Fatalf("expected depth <= %d, got %d", cfg.MaxDepth, l.Depth)
			}
		}
	}
}

func TestWideAndDeep(t *testing.T) {
	if got := Wide(5).Len(); got != 5 {
		t.Errorf("expected 5 members, got %d", got)
	}
	lines := linemodel.Flatten(Deep(3))
	// 3 opens, 1 scalar, 3 closes
	if len(lines) != 7 {
		t.Errorf("expected 7 lines, got %d", len(lines))
	}
	AssertFlat(t, lines)
}

func TestCheckFlatRejectsBrokenSequences(t *testing.T) {
	good := linemodel.Flatten(Wide(2))
	if err := CheckFlat(good); err != nil {
		t.Fatalf("expected valid sequence, got %v", err)
	}

	missingClose := good[:len(good)-1]
	if err := CheckFlat(missingClose); err == nil {
		t.Error("expected error for unclosed container")
	}

	badParent := append([]linemodel.Line(nil), good...)
	badParent[1].ParentID = 7
	if err := CheckFlat(badParent); err == nil {
		t.Error("expected error for wrong parent")
	}
}

func TestSubtree(t *testing.T) {
	lines := linemodel.Flatten(jsonvalue.Object(
		jsonvalue.M("a", jsonvalue.Array(jsonvalue.Int(1), jsonvalue.Array())),
		jsonvalue.M("b", jsonvalue.Null()),
	))
	// 0 {  1 "a": [  2 1,  3 [  4 ]  5 ],  6 "b": null  7 }
	got := Subtree(lines, 1)
	want := []linemodel.ID{2, 3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
			break
		}
	}
}

func TestRapidGeneratorsProduceValidSequences(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := ContainerGen(3).Draw(t, "doc")
		if !v.IsContainer() {
			t.Fatalf("expected container, got %v", v.Kind())
		}
		AssertFlat(t, linemodel.Flatten(v))
	})
}
