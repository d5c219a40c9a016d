// Package usage defines the closed set of records describing one dependency
// of scanned code on a tracked symbol.
//
// Usage is a sealed interface: only the nine variant types in this package
// implement it. Each variant is an immutable value that compares structurally
// through Key, which is computed once by the variant constructor.
package usage

import (
	"errors"
	"fmt"
)

// Kind discriminates Usage variants.
type Kind uint8

const (
	KindExtendsClass Kind = iota + 1
	KindImplementsInterface
	KindMethodReference
	KindFieldReference
	KindClassUsage
	KindAnnotatedAnnotation
	KindAnnotatedUserClass
	KindAnnotatedUserField
	KindAnnotatedUserMethod
)

// Kinds lists every Kind in declaration order.
var Kinds = []Kind{
	KindExtendsClass,
	KindImplementsInterface,
	KindMethodReference,
	KindFieldReference,
	KindClassUsage,
	KindAnnotatedAnnotation,
	KindAnnotatedUserClass,
	KindAnnotatedUserField,
	KindAnnotatedUserMethod,
}

func (k Kind) String() string {
	switch k {
	case KindExtendsClass:
		return "EXTENDS_CLASS"
	case KindImplementsInterface:
		return "IMPLEMENTS_INTERFACE"
	case KindMethodReference:
		return "METHOD_REFERENCE"
	case KindFieldReference:
		return "FIELD_REFERENCE"
	case KindClassUsage:
		return "CLASS_USAGE"
	case KindAnnotatedAnnotation:
		return "ANNOTATED_ANNOTATION_USAGE"
	case KindAnnotatedUserClass:
		return "ANNOTATED_USER_CLASS"
	case KindAnnotatedUserField:
		return "ANNOTATED_USER_FIELD"
	case KindAnnotatedUserMethod:
		return "ANNOTATED_USER_METHOD"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// ErrWrongKind is returned when a Usage is narrowed to a variant it is not.
var ErrWrongKind = errors.New("usage: wrong kind")
