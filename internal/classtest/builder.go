// Package classtest synthesizes class files for tests. It writes a valid
// header and constant pool, followed by empty field, method and attribute
// tables. Entries are deduplicated the way javac does, so a Builder output
// looks like compiler output to the scanner.
package classtest

import (
	"encoding/binary"
	"math"

	"github.com/joshuapare/apiwatch/internal/format"
	"github.com/joshuapare/apiwatch/internal/mutf8"
)

// Method handle reference kinds (JVMS §5.4.3.5).
const (
	RefGetField         byte = 1
	RefGetStatic        byte = 2
	RefInvokeVirtual    byte = 5
	RefInvokeStatic     byte = 6
	RefInvokeSpecial    byte = 7
	RefNewInvokeSpecial byte = 8
	RefInvokeInterface  byte = 9
)

type entry struct {
	tag  byte
	body []byte
}

// Builder accumulates constant-pool entries for one class.
type Builder struct {
	major   uint16
	minor   uint16
	entries []entry // index 0 unused
	dedup   map[string]uint16
	this    uint16
	super   uint16
	ifaces  []uint16
}

// New starts a class named thisClass (VM format) extending java/lang/Object.
func New(thisClass string) *Builder {
	b := &Builder{
		major:   format.MajorJava17,
		entries: make([]entry, 1),
		dedup:   make(map[string]uint16),
	}
	b.this = b.Class(thisClass)
	b.super = b.Class(format.ObjectClassName)
	return b
}

// Major sets the major version.
func (b *Builder) Major(v uint16) *Builder {
	b.major = v
	return b
}

// Extends sets the superclass. An empty name produces super_class = 0.
func (b *Builder) Extends(name string) *Builder {
	if name == "" {
		b.super = 0
		return b
	}
	b.super = b.Class(name)
	return b
}

// Implements adds implemented interfaces.
func (b *Builder) Implements(names ...string) *Builder {
	for _, n := range names {
		b.ifaces = append(b.ifaces, b.Class(n))
	}
	return b
}

func (b *Builder) add(tag byte, body []byte) uint16 {
	k := string(append([]byte{tag}, body...))
	if idx, ok := b.dedup[k]; ok {
		return idx
	}
	idx := uint16(len(b.entries))
	b.entries = append(b.entries, entry{tag: tag, body: body})
	if format.IsWide(tag) {
		b.entries = append(b.entries, entry{tag: format.TagNone})
	}
	b.dedup[k] = idx
	return idx
}

func u16(v uint16) []byte { return binary.BigEndian.AppendUint16(nil, v) }

func pair(a, c uint16) []byte { return binary.BigEndian.AppendUint16(u16(a), c) }

// Utf8 adds a Utf8 entry.
func (b *Builder) Utf8(s string) uint16 {
	enc := mutf8.Encode(s)
	return b.add(format.TagUtf8, append(u16(uint16(len(enc))), enc...))
}

// Class adds a Class entry.
func (b *Builder) Class(name string) uint16 {
	return b.add(format.TagClass, u16(b.Utf8(name)))
}

// String adds a String entry.
func (b *Builder) String(s string) uint16 {
	return b.add(format.TagString, u16(b.Utf8(s)))
}

// Integer adds an Integer entry.
func (b *Builder) Integer(v int32) uint16 {
	return b.add(format.TagInteger, binary.BigEndian.AppendUint32(nil, uint32(v)))
}

// Float adds a Float entry.
func (b *Builder) Float(v float32) uint16 {
	return b.add(format.TagFloat, binary.BigEndian.AppendUint32(nil, math.Float32bits(v)))
}

// Long adds a Long entry, which occupies two slots.
func (b *Builder) Long(v int64) uint16 {
	return b.add(format.TagLong, binary.BigEndian.AppendUint64(nil, uint64(v)))
}

// Double adds a Double entry, which occupies two slots.
func (b *Builder) Double(v float64) uint16 {
	return b.add(format.TagDouble, binary.BigEndian.AppendUint64(nil, math.Float64bits(v)))
}

// NameAndType adds a NameAndType entry.
func (b *Builder) NameAndType(name, desc string) uint16 {
	return b.add(format.TagNameAndType, pair(b.Utf8(name), b.Utf8(desc)))
}

// Fieldref adds a Fieldref entry.
func (b *Builder) Fieldref(class, name, desc string) uint16 {
	return b.add(format.TagFieldref, pair(b.Class(class), b.NameAndType(name, desc)))
}

// Methodref adds a Methodref entry.
func (b *Builder) Methodref(class, name, desc string) uint16 {
	return b.add(format.TagMethodref, pair(b.Class(class), b.NameAndType(name, desc)))
}

// InterfaceMethodref adds an InterfaceMethodref entry.
func (b *Builder) InterfaceMethodref(class, name, desc string) uint16 {
	return b.add(format.TagInterfaceMethodref, pair(b.Class(class), b.NameAndType(name, desc)))
}

// MethodHandle adds a MethodHandle entry pointing at ref.
func (b *Builder) MethodHandle(kind byte, ref uint16) uint16 {
	return b.add(format.TagMethodHandle, append([]byte{kind}, u16(ref)...))
}

// MethodType adds a MethodType entry.
func (b *Builder) MethodType(desc string) uint16 {
	return b.add(format.TagMethodType, u16(b.Utf8(desc)))
}

// InvokeDynamic adds an InvokeDynamic entry with the given bootstrap index.
func (b *Builder) InvokeDynamic(bootstrap uint16, name, desc string) uint16 {
	return b.add(format.TagInvokeDynamic, pair(bootstrap, b.NameAndType(name, desc)))
}

// Dynamic adds a Dynamic (condy) entry with the given bootstrap index.
func (b *Builder) Dynamic(bootstrap uint16, name, desc string) uint16 {
	return b.add(format.TagDynamic, pair(bootstrap, b.NameAndType(name, desc)))
}

// Module adds a Module entry.
func (b *Builder) Module(name string) uint16 {
	return b.add(format.TagModule, u16(b.Utf8(name)))
}

// Package adds a Package entry.
func (b *Builder) Package(name string) uint16 {
	return b.add(format.TagPackage, u16(b.Utf8(name)))
}

// LambdaRef adds the constant-pool shape javac emits for a method reference
// such as Lib::call: a Methodref (or InterfaceMethodref) reached only through
// a MethodHandle that an InvokeDynamic call site bootstraps with. indyDesc is
// the call-site descriptor, e.g. "()Ljava/util/function/Supplier;".
func (b *Builder) LambdaRef(kind byte, class, name, desc, samName, indyDesc string) uint16 {
	var ref uint16
	if kind == RefInvokeInterface {
		ref = b.InterfaceMethodref(class, name, desc)
	} else {
		ref = b.Methodref(class, name, desc)
	}
	mh := b.MethodHandle(kind, ref)
	b.MethodType(desc)
	b.InvokeDynamic(0, samName, indyDesc)
	return mh
}

// Bytes serializes the class file.
func (b *Builder) Bytes() []byte {
	out := binary.BigEndian.AppendUint32(nil, format.Magic)
	out = binary.BigEndian.AppendUint16(out, b.minor)
	out = binary.BigEndian.AppendUint16(out, b.major)
	out = binary.BigEndian.AppendUint16(out, uint16(len(b.entries)))
	for _, e := range b.entries[1:] {
		if e.tag == format.TagNone {
			continue
		}
		out = append(out, e.tag)
		out = append(out, e.body...)
	}
	out = binary.BigEndian.AppendUint16(out, 0x0021) // ACC_PUBLIC | ACC_SUPER
	out = binary.BigEndian.AppendUint16(out, b.this)
	out = binary.BigEndian.AppendUint16(out, b.super)
	out = binary.BigEndian.AppendUint16(out, uint16(len(b.ifaces)))
	for _, idx := range b.ifaces {
		out = binary.BigEndian.AppendUint16(out, idx)
	}
	// fields_count, methods_count, attributes_count
	out = append(out, 0, 0, 0, 0, 0, 0)
	return out
}
