package declindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fixture(annotation string, classes ...string) *Index {
	ix := New()
	e := ix.Entry(annotation)
	for _, c := range classes {
		e.AddClass(c)
	}
	return ix
}

func TestMergeIsCommutative(t *testing.T) {
	a := fixture("com.acme.Exp", "a.A", "b.B")
	a.Entry("com.acme.Exp").AddMethod("a.A", "m", "()V")
	b := fixture("com.acme.Exp", "b.B", "c.C")
	b.Entry("com.acme.Beta").AddField("c.C", "f")

	assert.True(t, Merge(a, b).Equal(Merge(b, a)))
}

func TestMergeIsAssociative(t *testing.T) {
	a := fixture("com.acme.Exp", "a.A")
	b := fixture("com.acme.Exp", "b.B")
	c := fixture("com.acme.Other", "c.C")

	left := Merge(Merge(a, b), c)
	right := Merge(a, Merge(b, c))
	assert.True(t, left.Equal(right))
}

func TestMergeIsIdempotent(t *testing.T) {
	a := fixture("com.acme.Exp", "a.A")
	a.Entry("com.acme.Exp").AddConstructor("a.A", "()V")
	assert.True(t, Merge(a, a).Equal(a))
}

func TestMergeEqualsSinglePass(t *testing.T) {
	// Indexing the union of two jars in one pass equals merging the
	// per-jar indexes.
	jar1 := New()
	jar1.Entry("com.acme.Exp").AddClass("a.A")
	jar1.Entry("com.acme.Exp").AddField("a.A", "f")
	jar2 := New()
	jar2.Entry("com.acme.Exp").AddInterface("b.I")

	single := New()
	e := single.Entry("com.acme.Exp")
	e.AddClass("a.A")
	e.AddField("a.A", "f")
	e.AddInterface("b.I")

	assert.True(t, Merge(jar1, jar2).Equal(single))
}

func TestMergeDoesNotAliasInputs(t *testing.T) {
	a := fixture("com.acme.Exp", "a.A")
	m := Merge(a)
	m.Entry("com.acme.Exp").AddClass("z.Z")
	e, _ := a.Lookup("com.acme.Exp")
	assert.NotContains(t, e.Classes, "z.Z")
}

func TestEqualDetectsDifferences(t *testing.T) {
	assert.False(t, fixture("x.X", "a.A").Equal(fixture("x.X", "b.B")))
	assert.False(t, fixture("x.X").Equal(fixture("y.Y")))
	assert.False(t, fixture("x.X").Equal(New()))
}

func TestSortedAccessors(t *testing.T) {
	e := New().Entry("x.X")
	e.AddMethod("b.B", "m", "()V")
	e.AddMethod("a.A", "z", "()V")
	e.AddMethod("a.A", "a", "(I)V")
	e.AddMethod("a.A", "a", "()V")
	got := e.SortedMethods()
	assert.Equal(t, []MethodRef{
		{"a.A", "a", "()V"},
		{"a.A", "a", "(I)V"},
		{"a.A", "z", "()V"},
		{"b.B", "m", "()V"},
	}, got)
}
