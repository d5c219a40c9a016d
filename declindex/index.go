// Package declindex models the declarative index of tracked symbols: for each
// tracked annotation, the classes, interfaces, annotation types, methods,
// constructors and fields it marks. Class names are in dotted source form
// (com.acme.Lib, com.acme.Outer$Inner); descriptors are in VM form.
//
// Indexes are plain sets. Merge is set union, so merging is commutative,
// associative and idempotent.
package declindex

import (
	"cmp"
	"maps"
	"slices"
)

// MethodRef identifies a method by declaring class, name and descriptor.
type MethodRef struct {
	Class      string
	Name       string
	Descriptor string
}

// ConstructorRef identifies a constructor by declaring class and descriptor.
type ConstructorRef struct {
	Class      string
	Descriptor string
}

// FieldRef identifies a field by declaring class and name.
type FieldRef struct {
	Class string
	Name  string
}

// Entry lists the symbols marked by one tracked annotation.
type Entry struct {
	Annotation   string
	Interfaces   map[string]struct{}
	Classes      map[string]struct{}
	Annotations  map[string]struct{}
	Methods      map[MethodRef]struct{}
	Constructors map[ConstructorRef]struct{}
	Fields       map[FieldRef]struct{}
}

func newEntry(annotation string) *Entry {
	return &Entry{
		Annotation:   annotation,
		Interfaces:   make(map[string]struct{}),
		Classes:      make(map[string]struct{}),
		Annotations:  make(map[string]struct{}),
		Methods:      make(map[MethodRef]struct{}),
		Constructors: make(map[ConstructorRef]struct{}),
		Fields:       make(map[FieldRef]struct{}),
	}
}

// AddInterface marks an interface.
func (e *Entry) AddInterface(class string) { e.Interfaces[class] = struct{}{} }

// AddClass marks a class.
func (e *Entry) AddClass(class string) { e.Classes[class] = struct{}{} }

// AddAnnotation marks an annotation type.
func (e *Entry) AddAnnotation(class string) { e.Annotations[class] = struct{}{} }

// AddMethod marks a method.
func (e *Entry) AddMethod(class, name, descriptor string) {
	e.Methods[MethodRef{Class: class, Name: name, Descriptor: descriptor}] = struct{}{}
}

// AddConstructor marks a constructor.
func (e *Entry) AddConstructor(class, descriptor string) {
	e.Constructors[ConstructorRef{Class: class, Descriptor: descriptor}] = struct{}{}
}

// AddField marks a field.
func (e *Entry) AddField(class, name string) {
	e.Fields[FieldRef{Class: class, Name: name}] = struct{}{}
}

// Len returns the number of marked symbols.
func (e *Entry) Len() int {
	return len(e.Interfaces) + len(e.Classes) + len(e.Annotations) +
		len(e.Methods) + len(e.Constructors) + len(e.Fields)
}

func (e *Entry) mergeFrom(o *Entry) {
	maps.Copy(e.Interfaces, o.Interfaces)
	maps.Copy(e.Classes, o.Classes)
	maps.Copy(e.Annotations, o.Annotations)
	maps.Copy(e.Methods, o.Methods)
	maps.Copy(e.Constructors, o.Constructors)
	maps.Copy(e.Fields, o.Fields)
}

// Equal reports content equality.
func (e *Entry) Equal(o *Entry) bool {
	return e.Annotation == o.Annotation &&
		maps.Equal(e.Interfaces, o.Interfaces) &&
		maps.Equal(e.Classes, o.Classes) &&
		maps.Equal(e.Annotations, o.Annotations) &&
		maps.Equal(e.Methods, o.Methods) &&
		maps.Equal(e.Constructors, o.Constructors) &&
		maps.Equal(e.Fields, o.Fields)
}

// SortedMethods returns the marked methods ordered by class, name, descriptor.
func (e *Entry) SortedMethods() []MethodRef {
	return slices.SortedFunc(maps.Keys(e.Methods), func(a, b MethodRef) int {
		return cmp.Or(cmp.Compare(a.Class, b.Class), cmp.Compare(a.Name, b.Name), cmp.Compare(a.Descriptor, b.Descriptor))
	})
}

// SortedConstructors returns the marked constructors ordered by class, descriptor.
func (e *Entry) SortedConstructors() []ConstructorRef {
	return slices.SortedFunc(maps.Keys(e.Constructors), func(a, b ConstructorRef) int {
		return cmp.Or(cmp.Compare(a.Class, b.Class), cmp.Compare(a.Descriptor, b.Descriptor))
	})
}

// SortedFields returns the marked fields ordered by class, name.
func (e *Entry) SortedFields() []FieldRef {
	return slices.SortedFunc(maps.Keys(e.Fields), func(a, b FieldRef) int {
		return cmp.Or(cmp.Compare(a.Class, b.Class), cmp.Compare(a.Name, b.Name))
	})
}

// Index groups Entries by tracked annotation name.
type Index struct {
	entries map[string]*Entry
}

// New creates an empty Index.
func New() *Index {
	return &Index{entries: make(map[string]*Entry)}
}

// Entry returns the Entry for annotation, creating it when absent.
func (ix *Index) Entry(annotation string) *Entry {
	if e, ok := ix.entries[annotation]; ok {
		return e
	}
	e := newEntry(annotation)
	ix.entries[annotation] = e
	return e
}

// Lookup returns the Entry for annotation without creating it.
func (ix *Index) Lookup(annotation string) (*Entry, bool) {
	e, ok := ix.entries[annotation]
	return e, ok
}

// TrackedAnnotations returns the tracked annotation names in sorted order.
func (ix *Index) TrackedAnnotations() []string {
	return slices.Sorted(maps.Keys(ix.entries))
}

// Len returns the number of tracked annotations.
func (ix *Index) Len() int { return len(ix.entries) }

// Merge adds every symbol of other into ix.
func (ix *Index) Merge(other *Index) {
	if other == nil {
		return
	}
	for name, e := range other.entries {
		ix.Entry(name).mergeFrom(e)
	}
}

// Merge returns a new Index holding the union of indexes.
func Merge(indexes ...*Index) *Index {
	out := New()
	for _, ix := range indexes {
		out.Merge(ix)
	}
	return out
}

// Equal reports content equality. Blocks without symbols still count, since
// they record that an annotation is tracked.
func (ix *Index) Equal(other *Index) bool {
	if len(ix.entries) != len(other.entries) {
		return false
	}
	for name, e := range ix.entries {
		o, ok := other.entries[name]
		if !ok || !e.Equal(o) {
			return false
		}
	}
	return true
}
