package detect

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/joshuapare/apiwatch/classfile"
	"github.com/joshuapare/apiwatch/lookup"
	"github.com/joshuapare/apiwatch/usage"
)

// TargetKind is the kind of declaration an annotation is placed on.
type TargetKind int

const (
	TargetClass TargetKind = iota
	TargetField
	TargetMethod
	TargetMethodParameter
	TargetRecordComponent
	TargetAnnotationType
)

var targetKindNames = [...]string{
	TargetClass:           "class",
	TargetField:           "field",
	TargetMethod:          "method",
	TargetMethodParameter: "method_parameter",
	TargetRecordComponent: "record_component",
	TargetAnnotationType:  "annotation_type",
}

func (k TargetKind) String() string {
	if k < 0 || int(k) >= len(targetKindNames) {
		return fmt.Sprintf("TargetKind(%d)", int(k))
	}
	return targetKindNames[k]
}

// MarshalYAML implements yaml.Marshaler.
func (k TargetKind) MarshalYAML() (any, error) { return k.String(), nil }

// UnmarshalYAML implements yaml.Unmarshaler.
func (k *TargetKind) UnmarshalYAML(n *yaml.Node) error {
	for i, name := range targetKindNames {
		if strings.EqualFold(n.Value, name) {
			*k = TargetKind(i)
			return nil
		}
	}
	return fmt.Errorf("line %d: unknown target kind %q", n.Line, n.Value)
}

// Target is one placement of an annotation. Class is the dotted name of the
// declaring class. Member is the field, method or record component name;
// Descriptor is set for methods and method parameters.
type Target struct {
	Kind       TargetKind `yaml:"kind"`
	Class      string     `yaml:"class"`
	Member     string     `yaml:"member,omitempty"`
	Descriptor string     `yaml:"descriptor,omitempty"`
	Parameter  int        `yaml:"parameter,omitempty"`
}

// AnnotationIndex returns every placement of the annotation with the given
// dotted name. Implementations are typically backed by a general-purpose
// annotation indexer.
type AnnotationIndex interface {
	Lookup(annotation string) []Target
}

// MapAnnotationIndex is an AnnotationIndex held in memory.
type MapAnnotationIndex map[string][]Target

// Lookup implements AnnotationIndex.
func (m MapAnnotationIndex) Lookup(annotation string) []Target { return m[annotation] }

// LoadAnnotationIndex decodes a YAML document mapping annotation names to
// target lists.
func LoadAnnotationIndex(r io.Reader) (MapAnnotationIndex, error) {
	m := MapAnnotationIndex{}
	if err := yaml.NewDecoder(r).Decode(&m); err != nil && err != io.EOF {
		return nil, fmt.Errorf("detect: annotation index: %w", err)
	}
	return m, nil
}

// LoadAnnotationIndexFile reads an annotation index from path.
func LoadAnnotationIndexFile(path string) (MapAnnotationIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadAnnotationIndex(f)
}

type member struct {
	class string
	name  string
}

// Annotated reports user declarations carrying an annotation whose type is
// tracked. For every tracked annotation type it asks ai for the placements
// and maps them to usages:
//
//	annotation type  ANNOTATED_ANNOTATION_USAGE
//	class            ANNOTATED_USER_CLASS
//	field            ANNOTATED_USER_FIELD
//	record component ANNOTATED_USER_FIELD
//	method           ANNOTATED_USER_METHOD
//	method parameter ANNOTATED_USER_METHOD (the enclosing method)
//
// An annotation on a record component is also copied by the compiler onto
// the backing field and the canonical accessor. Those copies are dropped when
// the component itself is reported.
func Annotated(ai AnnotationIndex, ix *lookup.Index) []usage.Usage {
	out := usage.NewSet()
	for _, via := range ix.AnnotationTypes() {
		k, err := classfile.EncodeKey(lookup.ToVMName(via))
		if err != nil {
			continue
		}
		ann, ok := ix.Annotation(k)
		if !ok {
			continue
		}
		targets := ai.Lookup(via)

		components := make(map[member]struct{})
		for _, t := range targets {
			if t.Kind == TargetRecordComponent {
				components[member{t.Class, t.Member}] = struct{}{}
			}
		}

		for _, t := range targets {
			switch t.Kind {
			case TargetAnnotationType:
				out.Add(usage.NewAnnotatedAnnotation(t.Class, via, ann))
			case TargetClass:
				out.Add(usage.NewAnnotatedUserClass(t.Class, via, ann))
			case TargetRecordComponent:
				out.Add(usage.NewAnnotatedUserField(t.Class, t.Member, via, ann))
			case TargetField:
				if _, ok := components[member{t.Class, t.Member}]; ok {
					continue
				}
				out.Add(usage.NewAnnotatedUserField(t.Class, t.Member, via, ann))
			case TargetMethod:
				if _, ok := components[member{t.Class, t.Member}]; ok && isAccessor(t.Descriptor) {
					continue
				}
				out.Add(usage.NewAnnotatedUserMethod(t.Class, t.Member, t.Descriptor, via, ann))
			case TargetMethodParameter:
				out.Add(usage.NewAnnotatedUserMethod(t.Class, t.Member, t.Descriptor, via, ann))
			}
		}
	}
	return out.Items()
}

// isAccessor reports whether desc is the descriptor of a no-argument method.
// An unknown descriptor is treated as an accessor.
func isAccessor(desc string) bool {
	return desc == "" || strings.HasPrefix(desc, "()")
}
