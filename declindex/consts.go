package declindex

const (
	// ============================================================================
	// Block Markers
	// ============================================================================

	// BeginMarker opens a block. The next line holds the tracked annotation's
	// fully-qualified name.
	BeginMarker = "=BEGIN"

	// EndMarker closes a block.
	EndMarker = "=END"

	// ============================================================================
	// Section Headers
	// ============================================================================

	SectionInterfaces   = "=INTERFACES"
	SectionClasses      = "=CLASSES"
	SectionAnnotations  = "=ANNOTATIONS"
	SectionMethods      = "=METHODS"
	SectionConstructors = "=CONSTRUCTORS"
	SectionFields       = "=FIELDS"

	// ============================================================================
	// Entry Syntax
	// ============================================================================

	// Separator splits the class, member and descriptor fields of method,
	// constructor and field lines. U+241F (SYMBOL FOR UNIT SEPARATOR) cannot
	// occur in a class name, member name or descriptor.
	Separator = "␟"

	// CommentPrefix marks a comment line outside of blocks.
	CommentPrefix = "#"

	// CR is stripped from line ends so CRLF files parse the same.
	CR = "\r"
)

// sectionOrder is the order sections are written in.
var sectionOrder = []string{
	SectionInterfaces,
	SectionClasses,
	SectionAnnotations,
	SectionMethods,
	SectionConstructors,
	SectionFields,
}
