// Package lookup builds the read-only index that answers "is this constant
// pool reference a tracked symbol" without decoding names to strings.
//
// # Key Format
//
// Every class name, member name and descriptor is stored as a classfile.Key
// in CONSTANT_Utf8 layout, so Keys sliced out of a class file hit the index
// directly. Class names are stored in VM format (com/acme/Lib); the reverse
// maps return the dotted form used in reports.
//
// # Thread Safety
//
// An Index is never mutated after Build returns. Any number of goroutines may
// query it without synchronization.
package lookup

import (
	"fmt"
	"slices"
	"strings"

	"github.com/joshuapare/apiwatch/classfile"
	"github.com/joshuapare/apiwatch/declindex"
	"github.com/joshuapare/apiwatch/internal/format"
	"github.com/joshuapare/apiwatch/usage"
)

type annSet = usage.AnnotationSet

// objectKey is the key of java/lang/Object, used to skip the superclass check
// for the common case.
var objectKey = classfile.KeyOf(format.ObjectClassName)

// Index maps class and member Keys to the tracked annotations that flag them.
type Index struct {
	classes     *classfile.KeyMap[annSet]
	annotations *classfile.KeyMap[annSet]
	methods     *classfile.KeyMap[*classfile.KeyMap[*classfile.KeyMap[annSet]]]
	fields      *classfile.KeyMap[*classfile.KeyMap[annSet]]

	classNames  *classfile.KeyMap[string]
	memberNames *classfile.KeyMap[string]
	descriptors *classfile.KeyMap[string]
	fieldNames  *classfile.KeyMap[string]

	tracked         []string
	annotationTypes []string // dotted, sorted
}

// Stats reports index metrics.
type Stats struct {
	TrackedAnnotations int
	Classes            int
	AnnotationTypes    int
	MethodOwners       int
	Methods            int
	FieldOwners        int
	Fields             int
}

// Empty returns an Index that tracks nothing.
func Empty() *Index {
	ix, _ := Build(declindex.New())
	return ix
}

// Build converts a declarative index into an Index. Constructors are merged
// into the method maps under the name "<init>".
func Build(decl *declindex.Index) (*Index, error) {
	b := &builder{ix: &Index{
		classes:         classfile.NewKeyMap[annSet](256),
		annotations:     classfile.NewKeyMap[annSet](16),
		methods:         classfile.NewKeyMap[*classfile.KeyMap[*classfile.KeyMap[annSet]]](64),
		fields:          classfile.NewKeyMap[*classfile.KeyMap[annSet]](32),
		classNames:      classfile.NewKeyMap[string](256),
		memberNames:     classfile.NewKeyMap[string](64),
		descriptors:     classfile.NewKeyMap[string](64),
		fieldNames:      classfile.NewKeyMap[string](32),
	}}

	for _, name := range decl.TrackedAnnotations() {
		e, _ := decl.Lookup(name)
		one := usage.NewAnnotationSet(name)
		b.ix.tracked = append(b.ix.tracked, name)

		for _, c := range sortedNames(e.Classes) {
			if err := b.addClass(c, one); err != nil {
				return nil, err
			}
		}
		for _, c := range sortedNames(e.Interfaces) {
			if err := b.addClass(c, one); err != nil {
				return nil, err
			}
		}
		for _, c := range sortedNames(e.Annotations) {
			// Annotation types are also classes: user code may implement an
			// annotation interface.
			if err := b.addClass(c, one); err != nil {
				return nil, err
			}
			if err := b.addAnnotation(c, one); err != nil {
				return nil, err
			}
		}
		for _, m := range e.SortedMethods() {
			if err := b.addMethod(m.Class, m.Name, m.Descriptor, one); err != nil {
				return nil, err
			}
		}
		for _, c := range e.SortedConstructors() {
			if err := b.addMethod(c.Class, format.ConstructorName, c.Descriptor, one); err != nil {
				return nil, err
			}
		}
		for _, f := range e.SortedFields() {
			if err := b.addField(f.Class, f.Name, one); err != nil {
				return nil, err
			}
		}
	}
	slices.Sort(b.ix.annotationTypes)
	b.ix.annotationTypes = slices.Compact(b.ix.annotationTypes)
	return b.ix, nil
}

type builder struct {
	ix *Index
}

func (b *builder) key(s string) (classfile.Key, error) {
	k, err := classfile.EncodeKey(s)
	if err != nil {
		return classfile.Key{}, fmt.Errorf("lookup: %q: %w", s, err)
	}
	return k, nil
}

func (b *builder) classKey(dotted string) (classfile.Key, error) {
	k, err := b.key(ToVMName(dotted))
	if err != nil {
		return k, err
	}
	if _, ok := b.ix.classNames.Get(k); !ok {
		b.ix.classNames.Put(k, dotted)
	}
	return k, nil
}

func (b *builder) addClass(dotted string, ann annSet) error {
	k, err := b.classKey(dotted)
	if err != nil {
		return err
	}
	prev, _ := b.ix.classes.Get(k)
	b.ix.classes.Put(k, prev.Union(ann))
	return nil
}

func (b *builder) addAnnotation(dotted string, ann annSet) error {
	k, err := b.classKey(dotted)
	if err != nil {
		return err
	}
	prev, _ := b.ix.annotations.Get(k)
	b.ix.annotations.Put(k, prev.Union(ann))
	b.ix.annotationTypes = append(b.ix.annotationTypes, dotted)
	return nil
}

func (b *builder) addMethod(class, name, desc string, ann annSet) error {
	ck, err := b.classKey(class)
	if err != nil {
		return err
	}
	nk, err := b.key(name)
	if err != nil {
		return err
	}
	dk, err := b.key(desc)
	if err != nil {
		return err
	}
	b.ix.memberNames.GetOrPut(nk, func() string { return name })
	b.ix.descriptors.GetOrPut(dk, func() string { return desc })

	byName := b.ix.methods.GetOrPut(ck, func() *classfile.KeyMap[*classfile.KeyMap[annSet]] {
		return classfile.NewKeyMap[*classfile.KeyMap[annSet]](4)
	})
	byDesc := byName.GetOrPut(nk, func() *classfile.KeyMap[annSet] {
		return classfile.NewKeyMap[annSet](1)
	})
	prev, _ := byDesc.Get(dk)
	byDesc.Put(dk, prev.Union(ann))
	return nil
}

func (b *builder) addField(class, name string, ann annSet) error {
	ck, err := b.classKey(class)
	if err != nil {
		return err
	}
	nk, err := b.key(name)
	if err != nil {
		return err
	}
	b.ix.fieldNames.GetOrPut(nk, func() string { return name })

	byName := b.ix.fields.GetOrPut(ck, func() *classfile.KeyMap[annSet] {
		return classfile.NewKeyMap[annSet](4)
	})
	prev, _ := byName.Get(nk)
	byName.Put(nk, prev.Union(ann))
	return nil
}

// ToVMName converts a dotted class name to VM format.
func ToVMName(dotted string) string {
	return strings.ReplaceAll(dotted, ".", "/")
}

// ToDottedName converts a VM-format class name to dotted form.
func ToDottedName(vm string) string {
	return strings.ReplaceAll(vm, "/", ".")
}

func sortedNames(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// IsObject reports whether k names java/lang/Object.
func IsObject(k classfile.Key) bool {
	return k.Equal(objectKey)
}

// Class returns the tracked annotations of a class, interface or annotation
// type.
func (ix *Index) Class(k classfile.Key) (usage.AnnotationSet, bool) {
	return ix.classes.Get(k)
}

// Annotation returns the tracked annotations of an annotation type.
func (ix *Index) Annotation(k classfile.Key) (usage.AnnotationSet, bool) {
	return ix.annotations.Get(k)
}

// Method returns the tracked annotations of a method or constructor.
func (ix *Index) Method(class, name, descriptor classfile.Key) (usage.AnnotationSet, bool) {
	byName, ok := ix.methods.Get(class)
	if !ok {
		return usage.AnnotationSet{}, false
	}
	byDesc, ok := byName.Get(name)
	if !ok {
		return usage.AnnotationSet{}, false
	}
	return byDesc.Get(descriptor)
}

// Field returns the tracked annotations of a field.
func (ix *Index) Field(class, name classfile.Key) (usage.AnnotationSet, bool) {
	byName, ok := ix.fields.Get(class)
	if !ok {
		return usage.AnnotationSet{}, false
	}
	return byName.Get(name)
}

// ClassName returns the dotted name of a tracked class Key. Keys that are
// not tracked are decoded.
func (ix *Index) ClassName(k classfile.Key) string {
	if s, ok := ix.classNames.Get(k); ok {
		return s
	}
	return ToDottedName(k.String())
}

// MethodName returns the text of a tracked method name Key.
func (ix *Index) MethodName(k classfile.Key) string {
	if s, ok := ix.memberNames.Get(k); ok {
		return s
	}
	return k.String()
}

// Descriptor returns the text of a tracked descriptor Key.
func (ix *Index) Descriptor(k classfile.Key) string {
	if s, ok := ix.descriptors.Get(k); ok {
		return s
	}
	return k.String()
}

// FieldName returns the text of a tracked field name Key.
func (ix *Index) FieldName(k classfile.Key) string {
	if s, ok := ix.fieldNames.Get(k); ok {
		return s
	}
	return k.String()
}

// TrackedAnnotations returns the tracked annotation names in sorted order.
func (ix *Index) TrackedAnnotations() []string {
	return slices.Clone(ix.tracked)
}

// AnnotationTypes returns the dotted names of tracked annotation types in
// sorted order. Resolve the responsible annotations with Annotation.
func (ix *Index) AnnotationTypes() []string {
	return slices.Clone(ix.annotationTypes)
}

// Stats returns index statistics.
func (ix *Index) Stats() Stats {
	s := Stats{
		TrackedAnnotations: len(ix.tracked),
		Classes:            ix.classes.Len(),
		AnnotationTypes:    ix.annotations.Len(),
		MethodOwners:       ix.methods.Len(),
		FieldOwners:        ix.fields.Len(),
	}
	ix.methods.Range(func(_ classfile.Key, byName *classfile.KeyMap[*classfile.KeyMap[annSet]]) bool {
		byName.Range(func(_ classfile.Key, byDesc *classfile.KeyMap[annSet]) bool {
			s.Methods += byDesc.Len()
			return true
		})
		return true
	})
	ix.fields.Range(func(_ classfile.Key, byName *classfile.KeyMap[annSet]) bool {
		s.Fields += byName.Len()
		return true
	})
	return s
}
