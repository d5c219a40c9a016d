package classfile

import (
	"github.com/joshuapare/apiwatch/internal/format"
)

// View is the resolved projection of one parsed class file. It borrows the
// Scratch it was scanned into and becomes invalid on the next Scan with the
// same Scratch.
//
// Slot indices are 1-based, as in the class file. Accessors return ok=false
// when the slot does not hold the requested kind of entry.
type View struct {
	s *Scratch

	Minor       uint16
	Major       uint16
	AccessFlags uint16

	thisClass  uint16
	superClass uint16
}

// MemberRef is a decomposed Fieldref, Methodref or InterfaceMethodref.
type MemberRef struct {
	Tag        byte
	Class      Key // VM-format declaring class name
	Name       Key
	Descriptor Key
}

// Count returns constant_pool_count. Valid slots are 1..Count()-1.
func (v *View) Count() int { return len(v.s.tags) }

// Tag returns the tag of slot i, or format.TagNone when i is out of range or
// is the phantom slot after a Long or Double.
func (v *View) Tag(i int) byte {
	if i <= 0 || i >= len(v.s.tags) {
		return format.TagNone
	}
	return v.s.tags[i]
}

// UTF8Key returns the Key of the Utf8 entry at slot i.
func (v *View) UTF8Key(i int) (Key, bool) {
	if v.Tag(i) != format.TagUtf8 {
		return Key{}, false
	}
	if k := v.s.keys[i]; !k.IsZero() {
		return k, true
	}
	off := int(v.s.slots[i])
	n := int(v.s.pool[off])<<8 | int(v.s.pool[off+1])
	k := NewKey(v.s.pool, off, 2+n)
	v.s.keys[i] = k
	return k, true
}

// ClassKey returns the name Key of the Class entry at slot i. The result is
// memoized in the slot.
func (v *View) ClassKey(i int) (Key, bool) {
	if v.Tag(i) != format.TagClass {
		return Key{}, false
	}
	if k := v.s.keys[i]; !k.IsZero() {
		return k, true
	}
	k, _ := v.UTF8Key(int(v.s.slots[i]))
	v.s.keys[i] = k
	return k, true
}

// NameAndType returns the name and descriptor Keys of the NameAndType entry
// at slot i.
func (v *View) NameAndType(i int) (name, descriptor Key, ok bool) {
	if v.Tag(i) != format.TagNameAndType {
		return Key{}, Key{}, false
	}
	slot := v.s.slots[i]
	name, _ = v.UTF8Key(int(slot >> 16))
	descriptor, _ = v.UTF8Key(int(slot & 0xFFFF))
	return name, descriptor, true
}

// MemberRef decomposes the Fieldref, Methodref or InterfaceMethodref at slot i.
func (v *View) MemberRef(i int) (MemberRef, bool) {
	tag := v.Tag(i)
	switch tag {
	case format.TagFieldref, format.TagMethodref, format.TagInterfaceMethodref:
	default:
		return MemberRef{}, false
	}
	slot := v.s.slots[i]
	class, _ := v.ClassKey(int(slot >> 16))
	name, desc, _ := v.NameAndType(int(slot & 0xFFFF))
	return MemberRef{Tag: tag, Class: class, Name: name, Descriptor: desc}, true
}

// ThisClass returns the name Key of the class described by the file.
func (v *View) ThisClass() Key {
	k, _ := v.ClassKey(int(v.thisClass))
	return k
}

// ThisClassName decodes the name of the class described by the file.
func (v *View) ThisClassName() string {
	return v.ThisClass().String()
}

// SuperClass returns the name Key of the direct superclass. ok is false for
// java/lang/Object and module-info, which have none.
func (v *View) SuperClass() (Key, bool) {
	if v.superClass == 0 {
		return Key{}, false
	}
	return v.ClassKey(int(v.superClass))
}

// InterfaceCount returns the number of directly implemented interfaces.
func (v *View) InterfaceCount() int { return len(v.s.ifaces) }

// Interface returns the name Key of the j-th implemented interface.
func (v *View) Interface(j int) Key {
	k, _ := v.ClassKey(int(v.s.ifaces[j]))
	return k
}
