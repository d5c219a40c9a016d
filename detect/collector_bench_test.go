package detect

import (
	"fmt"
	"testing"

	"github.com/joshuapare/apiwatch/classfile"
	"github.com/joshuapare/apiwatch/declindex"
	"github.com/joshuapare/apiwatch/internal/classtest"
	"github.com/joshuapare/apiwatch/lookup"
	"github.com/joshuapare/apiwatch/usage"
)

var benchUsages []usage.Usage

// BenchmarkCollect measures detection over a class where most references
// miss the index, the common case on a real classpath.
func BenchmarkCollect(b *testing.B) {
	d := declindex.New()
	e := d.Entry(exp)
	for i := range 500 {
		e.AddMethod(fmt.Sprintf("com.acme.Api%d", i%50), fmt.Sprintf("m%d", i), "()V")
	}
	e.AddClass("com.acme.Api7")
	ix, err := lookup.Build(d)
	if err != nil {
		b.Fatalf("Build failed: %v", err)
	}

	cb := classtest.New("user/App")
	for i := range 200 {
		cb.Methodref(fmt.Sprintf("user/dep/T%d", i%20), fmt.Sprintf("call%d", i), "()V")
	}
	cb.Methodref("com/acme/Api7", "m7", "()V")
	data := cb.Bytes()

	s := classfile.NewScanner(classfile.Options{})
	scratch := classfile.NewScratch()
	c := NewCollector(ix)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		v, err := s.ScanBytes(data, scratch)
		if err != nil {
			b.Fatalf("ScanBytes failed: %v", err)
		}
		benchUsages = c.Collect(v)
	}
}
