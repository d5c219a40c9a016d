package usage

// AnnotatedAnnotation records a user annotation type that is itself
// annotated with a tracked annotation type.
type AnnotatedAnnotation struct {
	annotation string
	via        string
	ann        AnnotationSet
	key        string
}

// NewAnnotatedAnnotation creates an AnnotatedAnnotation usage.
func NewAnnotatedAnnotation(annotation, via string, ann AnnotationSet) AnnotatedAnnotation {
	return AnnotatedAnnotation{annotation: annotation, via: via, ann: ann, key: makeKey(KindAnnotatedAnnotation, ann, annotation, via)}
}

func (u AnnotatedAnnotation) Kind() Kind                 { return KindAnnotatedAnnotation }
func (u AnnotatedAnnotation) Source() string             { return u.annotation }
func (u AnnotatedAnnotation) Annotations() AnnotationSet { return u.ann }
func (u AnnotatedAnnotation) sealed()                    {}

// Annotation returns the dotted name of the annotated annotation type.
func (u AnnotatedAnnotation) Annotation() string { return u.annotation }

// Via returns the tracked annotation type applied to it.
func (u AnnotatedAnnotation) Via() string { return u.via }

func (u AnnotatedAnnotation) Key() string {
	if u.key != "" {
		return u.key
	}
	return makeKey(KindAnnotatedAnnotation, u.ann, u.annotation, u.via)
}

func (u AnnotatedAnnotation) String() string {
	return "annotation " + u.annotation + " is annotated with @" + u.via + suffix(u.ann)
}

// AnnotatedUserClass records a user class annotated with a tracked
// annotation type.
type AnnotatedUserClass struct {
	class string
	via   string
	ann   AnnotationSet
	key   string
}

// NewAnnotatedUserClass creates an AnnotatedUserClass usage.
func NewAnnotatedUserClass(class, via string, ann AnnotationSet) AnnotatedUserClass {
	return AnnotatedUserClass{class: class, via: via, ann: ann, key: makeKey(KindAnnotatedUserClass, ann, class, via)}
}

func (u AnnotatedUserClass) Kind() Kind                 { return KindAnnotatedUserClass }
func (u AnnotatedUserClass) Source() string             { return u.class }
func (u AnnotatedUserClass) Annotations() AnnotationSet { return u.ann }
func (u AnnotatedUserClass) sealed()                    {}

// Class returns the dotted name of the annotated class.
func (u AnnotatedUserClass) Class() string { return u.class }

// Via returns the tracked annotation type.
func (u AnnotatedUserClass) Via() string { return u.via }

func (u AnnotatedUserClass) Key() string {
	if u.key != "" {
		return u.key
	}
	return makeKey(KindAnnotatedUserClass, u.ann, u.class, u.via)
}

func (u AnnotatedUserClass) String() string {
	return u.class + " is annotated with @" + u.via + suffix(u.ann)
}

// AnnotatedUserField records a user field (or record component) annotated
// with a tracked annotation type.
type AnnotatedUserField struct {
	class string
	field string
	via   string
	ann   AnnotationSet
	key   string
}

// NewAnnotatedUserField creates an AnnotatedUserField usage.
func NewAnnotatedUserField(class, field, via string, ann AnnotationSet) AnnotatedUserField {
	return AnnotatedUserField{class: class, field: field, via: via, ann: ann, key: makeKey(KindAnnotatedUserField, ann, class, field, via)}
}

func (u AnnotatedUserField) Kind() Kind                 { return KindAnnotatedUserField }
func (u AnnotatedUserField) Source() string             { return u.class }
func (u AnnotatedUserField) Annotations() AnnotationSet { return u.ann }
func (u AnnotatedUserField) sealed()                    {}

// Class returns the dotted name of the declaring class.
func (u AnnotatedUserField) Class() string { return u.class }

// Field returns the field or record component name.
func (u AnnotatedUserField) Field() string { return u.field }

// Via returns the tracked annotation type.
func (u AnnotatedUserField) Via() string { return u.via }

func (u AnnotatedUserField) Key() string {
	if u.key != "" {
		return u.key
	}
	return makeKey(KindAnnotatedUserField, u.ann, u.class, u.field, u.via)
}

func (u AnnotatedUserField) String() string {
	return u.class + "#" + u.field + " is annotated with @" + u.via + suffix(u.ann)
}

// AnnotatedUserMethod records a user method or constructor annotated with a
// tracked annotation type, directly or on one of its parameters.
type AnnotatedUserMethod struct {
	class      string
	method     string
	descriptor string
	via        string
	ann        AnnotationSet
	key        string
}

// NewAnnotatedUserMethod creates an AnnotatedUserMethod usage.
func NewAnnotatedUserMethod(class, method, descriptor, via string, ann AnnotationSet) AnnotatedUserMethod {
	return AnnotatedUserMethod{
		class: class, method: method, descriptor: descriptor, via: via, ann: ann,
		key: makeKey(KindAnnotatedUserMethod, ann, class, method, descriptor, via),
	}
}

func (u AnnotatedUserMethod) Kind() Kind                 { return KindAnnotatedUserMethod }
func (u AnnotatedUserMethod) Source() string             { return u.class }
func (u AnnotatedUserMethod) Annotations() AnnotationSet { return u.ann }
func (u AnnotatedUserMethod) sealed()                    {}

// Class returns the dotted name of the declaring class.
func (u AnnotatedUserMethod) Class() string { return u.class }

// Method returns the method name.
func (u AnnotatedUserMethod) Method() string { return u.method }

// Descriptor returns the VM method descriptor, empty when unknown.
func (u AnnotatedUserMethod) Descriptor() string { return u.descriptor }

// Via returns the tracked annotation type.
func (u AnnotatedUserMethod) Via() string { return u.via }

func (u AnnotatedUserMethod) Key() string {
	if u.key != "" {
		return u.key
	}
	return makeKey(KindAnnotatedUserMethod, u.ann, u.class, u.method, u.descriptor, u.via)
}

func (u AnnotatedUserMethod) String() string {
	return u.class + "#" + u.method + u.descriptor + " is annotated with @" + u.via + suffix(u.ann)
}
