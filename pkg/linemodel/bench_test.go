package linemodel_test

import (
	"testing"

	"github.com/vanderheijden86/jsonview/pkg/linemodel"
	"github.com/vanderheijden86/jsonview/pkg/testutil"
)

func benchDoc() *linemodel.Document {
	gen := testutil.New(testutil.GeneratorConfig{Seed: 7, MaxDepth: 5, MaxWidth: 10})
	return linemodel.NewDocument(gen.Document())
}

func BenchmarkFlatten(b *testing.B) {
	v := testutil.New(testutil.GeneratorConfig{Seed: 7, MaxDepth: 5, MaxWidth: 10}).Document()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = linemodel.Flatten(v)
	}
}

func BenchmarkProject(b *testing.B) {
	lines := benchDoc().Lines()
	for i := range lines {
		if lines[i].IsContainerOpen() && lines[i].Depth == 2 {
			lines[i].Collapsed = true
		}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = linemodel.Project(lines)
	}
}

func BenchmarkToggle(b *testing.B) {
	doc := benchDoc()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		doc.Toggle(0)
	}
}

func BenchmarkReconstruct(b *testing.B) {
	doc := benchDoc()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = doc.Reconstruct()
	}
}

func BenchmarkDeepProject(b *testing.B) {
	lines := linemodel.Flatten(testutil.Deep(1000))
	lines[len(lines)/4].Collapsed = true
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = linemodel.Project(lines)
	}
}
