// Package format houses the low-level constants of the JVM class-file format.
// Only the parts needed to walk the constant pool and the class header are
// described here; method bodies and attributes are never decoded.
package format

// Magic is the four-byte signature at the start of every class file.
//
//	Offset  Size  Field
//	0x00    4     magic (0xCAFEBABE)
//	0x04    2     minor_version
//	0x06    2     major_version
//	0x08    2     constant_pool_count
//	0x0A    ...   constant_pool[constant_pool_count-1]
//	...     2     access_flags
//	...     2     this_class
//	...     2     super_class
//	...     2     interfaces_count
//	...     2*n   interfaces[interfaces_count]
const Magic uint32 = 0xCAFEBABE

const (
	// HeaderSize covers magic, minor, major and constant_pool_count.
	HeaderSize = 10

	// ObjectClassName is the VM-format name every class without an explicit
	// superclass extends.
	ObjectClassName = "java/lang/Object"

	// ConstructorName is the reserved method name of instance initializers.
	ConstructorName = "<init>"

	// ModuleInfoClass and PackageInfoClass are artifacts that are not
	// ordinary classes. Scanners typically skip them.
	ModuleInfoClass  = "module-info.class"
	PackageInfoClass = "package-info.class"
)

// Well-known major versions, used for the optional version floor.
const (
	MajorJava1_1 = 45
	MajorJava5   = 49
	MajorJava8   = 52
	MajorJava11  = 55
	MajorJava17  = 61
	MajorJava21  = 65
)

// Constant-pool tags (JVMS §4.4).
const (
	TagUtf8               byte = 1
	TagInteger            byte = 3
	TagFloat              byte = 4
	TagLong               byte = 5
	TagDouble             byte = 6
	TagClass              byte = 7
	TagString             byte = 8
	TagFieldref           byte = 9
	TagMethodref          byte = 10
	TagInterfaceMethodref byte = 11
	TagNameAndType        byte = 12
	TagMethodHandle       byte = 15
	TagMethodType         byte = 16
	TagDynamic            byte = 17
	TagInvokeDynamic      byte = 18
	TagModule             byte = 19
	TagPackage            byte = 20
)

// TagNone marks a constant-pool slot that holds no entry: slot 0 and the
// phantom slot following a Long or Double.
const TagNone byte = 0

// PayloadSize returns the fixed payload length following the tag byte, or
// -1 for Utf8 (variable length) and for unknown tags. ok is false for
// unknown tags.
func PayloadSize(tag byte) (size int, ok bool) {
	switch tag {
	case TagUtf8:
		return -1, true
	case TagClass, TagString, TagMethodType, TagModule, TagPackage:
		return 2, true
	case TagMethodHandle:
		return 3, true
	case TagInteger, TagFloat,
		TagFieldref, TagMethodref, TagInterfaceMethodref,
		TagNameAndType, TagDynamic, TagInvokeDynamic:
		return 4, true
	case TagLong, TagDouble:
		return 8, true
	default:
		return -1, false
	}
}

// IsWide reports whether the tag occupies two constant-pool slots.
func IsWide(tag byte) bool {
	return tag == TagLong || tag == TagDouble
}

// TagName returns the JVMS name of a tag, for diagnostics.
func TagName(tag byte) string {
	switch tag {
	case TagUtf8:
		return "Utf8"
	case TagInteger:
		return "Integer"
	case TagFloat:
		return "Float"
	case TagLong:
		return "Long"
	case TagDouble:
		return "Double"
	case TagClass:
		return "Class"
	case TagString:
		return "String"
	case TagFieldref:
		return "Fieldref"
	case TagMethodref:
		return "Methodref"
	case TagInterfaceMethodref:
		return "InterfaceMethodref"
	case TagNameAndType:
		return "NameAndType"
	case TagMethodHandle:
		return "MethodHandle"
	case TagMethodType:
		return "MethodType"
	case TagDynamic:
		return "Dynamic"
	case TagInvokeDynamic:
		return "InvokeDynamic"
	case TagModule:
		return "Module"
	case TagPackage:
		return "Package"
	case TagNone:
		return "None"
	default:
		return "Unknown"
	}
}
