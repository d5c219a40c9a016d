package usage

import (
	"fmt"
	"strings"
)

// Usage is one detected dependency on a tracked symbol.
type Usage interface {
	// Kind returns the variant discriminant.
	Kind() Kind
	// Source returns the dotted name of the class the usage is attributed
	// to: the referencing class, or the annotated user class.
	Source() string
	// Annotations returns the tracked annotations responsible. Never empty
	// for usages produced by the detectors.
	Annotations() AnnotationSet
	// Key returns the structural identity of the usage. Two usages are
	// equal iff their Keys are equal.
	Key() string
	// String renders the usage for reports.
	String() string

	sealed()
}

// Equal reports structural equality.
func Equal(a, b Usage) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Key() == b.Key()
}

// As narrows u to the variant T. It returns ErrWrongKind when u holds a
// different variant.
func As[T Usage](u Usage) (T, error) {
	v, ok := u.(T)
	if !ok {
		var zero T
		got := "nil"
		if u != nil {
			got = u.Kind().String()
		}
		return zero, fmt.Errorf("%w: have %s, want %T", ErrWrongKind, got, zero)
	}
	return v, nil
}

// MustAs is like As but panics on a kind mismatch. Use it where the shape is
// known at the call site.
func MustAs[T Usage](u Usage) T {
	v, err := As[T](u)
	if err != nil {
		panic(err)
	}
	return v
}

func makeKey(k Kind, ann AnnotationSet, parts ...string) string {
	var b strings.Builder
	b.WriteString(k.String())
	for _, p := range parts {
		b.WriteByte(0)
		b.WriteString(p)
	}
	b.WriteByte(0)
	b.WriteString(ann.key)
	return b.String()
}

func suffix(ann AnnotationSet) string {
	return " [" + strings.Join(ann.names, ", ") + "]"
}

// ExtendsClass records a class extending a tracked class.
type ExtendsClass struct {
	from  string
	class string
	ann   AnnotationSet
	key   string
}

// NewExtendsClass creates an ExtendsClass usage.
func NewExtendsClass(from, class string, ann AnnotationSet) ExtendsClass {
	return ExtendsClass{from: from, class: class, ann: ann, key: makeKey(KindExtendsClass, ann, from, class)}
}

func (u ExtendsClass) Kind() Kind                 { return KindExtendsClass }
func (u ExtendsClass) Source() string             { return u.from }
func (u ExtendsClass) Annotations() AnnotationSet { return u.ann }
func (u ExtendsClass) sealed()                    {}

// Class returns the dotted name of the tracked superclass.
func (u ExtendsClass) Class() string { return u.class }

func (u ExtendsClass) Key() string {
	if u.key != "" {
		return u.key
	}
	return makeKey(KindExtendsClass, u.ann, u.from, u.class)
}

func (u ExtendsClass) String() string {
	return u.from + " extends " + u.class + suffix(u.ann)
}

// ImplementsInterface records a class implementing a tracked interface.
type ImplementsInterface struct {
	from  string
	iface string
	ann   AnnotationSet
	key   string
}

// NewImplementsInterface creates an ImplementsInterface usage.
func NewImplementsInterface(from, iface string, ann AnnotationSet) ImplementsInterface {
	return ImplementsInterface{from: from, iface: iface, ann: ann, key: makeKey(KindImplementsInterface, ann, from, iface)}
}

func (u ImplementsInterface) Kind() Kind                 { return KindImplementsInterface }
func (u ImplementsInterface) Source() string             { return u.from }
func (u ImplementsInterface) Annotations() AnnotationSet { return u.ann }
func (u ImplementsInterface) sealed()                    {}

// Interface returns the dotted name of the tracked interface.
func (u ImplementsInterface) Interface() string { return u.iface }

func (u ImplementsInterface) Key() string {
	if u.key != "" {
		return u.key
	}
	return makeKey(KindImplementsInterface, u.ann, u.from, u.iface)
}

func (u ImplementsInterface) String() string {
	return u.from + " implements " + u.iface + suffix(u.ann)
}

// MethodReference records a call to, or a method handle on, a tracked
// method or constructor. Constructors carry the name "<init>".
type MethodReference struct {
	from       string
	class      string
	method     string
	descriptor string
	ann        AnnotationSet
	key        string
}

// NewMethodReference creates a MethodReference usage.
func NewMethodReference(from, class, method, descriptor string, ann AnnotationSet) MethodReference {
	return MethodReference{
		from: from, class: class, method: method, descriptor: descriptor, ann: ann,
		key: makeKey(KindMethodReference, ann, from, class, method, descriptor),
	}
}

func (u MethodReference) Kind() Kind                 { return KindMethodReference }
func (u MethodReference) Source() string             { return u.from }
func (u MethodReference) Annotations() AnnotationSet { return u.ann }
func (u MethodReference) sealed()                    {}

// Class returns the dotted name of the declaring class.
func (u MethodReference) Class() string { return u.class }

// Method returns the method name, "<init>" for constructors.
func (u MethodReference) Method() string { return u.method }

// Descriptor returns the VM method descriptor.
func (u MethodReference) Descriptor() string { return u.descriptor }

func (u MethodReference) Key() string {
	if u.key != "" {
		return u.key
	}
	return makeKey(KindMethodReference, u.ann, u.from, u.class, u.method, u.descriptor)
}

func (u MethodReference) String() string {
	return u.from + " references method " + u.class + "#" + u.method + u.descriptor + suffix(u.ann)
}

// FieldReference records a read or write of a tracked field.
type FieldReference struct {
	from  string
	class string
	field string
	ann   AnnotationSet
	key   string
}

// NewFieldReference creates a FieldReference usage.
func NewFieldReference(from, class, field string, ann AnnotationSet) FieldReference {
	return FieldReference{from: from, class: class, field: field, ann: ann, key: makeKey(KindFieldReference, ann, from, class, field)}
}

func (u FieldReference) Kind() Kind                 { return KindFieldReference }
func (u FieldReference) Source() string             { return u.from }
func (u FieldReference) Annotations() AnnotationSet { return u.ann }
func (u FieldReference) sealed()                    {}

// Class returns the dotted name of the declaring class.
func (u FieldReference) Class() string { return u.class }

// Field returns the field name.
func (u FieldReference) Field() string { return u.field }

func (u FieldReference) Key() string {
	if u.key != "" {
		return u.key
	}
	return makeKey(KindFieldReference, u.ann, u.from, u.class, u.field)
}

func (u FieldReference) String() string {
	return u.from + " references field " + u.class + "#" + u.field + suffix(u.ann)
}

// ClassUsage records a load-bearing reference to a tracked class that is not
// explained by an extends or implements relationship.
type ClassUsage struct {
	from  string
	class string
	ann   AnnotationSet
	key   string
}

// NewClassUsage creates a ClassUsage usage.
func NewClassUsage(from, class string, ann AnnotationSet) ClassUsage {
	return ClassUsage{from: from, class: class, ann: ann, key: makeKey(KindClassUsage, ann, from, class)}
}

func (u ClassUsage) Kind() Kind                 { return KindClassUsage }
func (u ClassUsage) Source() string             { return u.from }
func (u ClassUsage) Annotations() AnnotationSet { return u.ann }
func (u ClassUsage) sealed()                    {}

// Class returns the dotted name of the referenced class.
func (u ClassUsage) Class() string { return u.class }

func (u ClassUsage) Key() string {
	if u.key != "" {
		return u.key
	}
	return makeKey(KindClassUsage, u.ann, u.from, u.class)
}

func (u ClassUsage) String() string {
	return u.from + " references class " + u.class + suffix(u.ann)
}
