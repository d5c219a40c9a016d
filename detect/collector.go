// Package detect cross-references parsed class files against a lookup.Index
// and reports every dependency on a tracked symbol as a usage.Usage.
//
// Two paths exist. Collector reads the constant pool of one class file at a
// time. Annotated answers the questions constant-pool bytes cannot: which
// user declarations carry an annotation whose type is itself tracked. It
// consumes an injected AnnotationIndex.
package detect

import (
	"github.com/joshuapare/apiwatch/classfile"
	"github.com/joshuapare/apiwatch/internal/format"
	"github.com/joshuapare/apiwatch/lookup"
	"github.com/joshuapare/apiwatch/usage"
)

// Collector finds the usages in one class file at a time. It keeps per-class
// working state and must not be shared between goroutines; create one per
// worker. The Index it reads is shared.
type Collector struct {
	ix *lookup.Index

	// Class hits held back until the hierarchy is known, and their
	// first-seen order.
	deferred  *classfile.KeyMap[usage.AnnotationSet]
	order     []classfile.Key
	// Names the superclass and interfaces account for.
	accounted []classfile.Key

	out *usage.Set
}

// NewCollector creates a Collector over ix.
func NewCollector(ix *lookup.Index) *Collector {
	return &Collector{
		ix:       ix,
		deferred: classfile.NewKeyMap[usage.AnnotationSet](16),
		out:      usage.NewSet(),
	}
}

// Collect returns the usages of class file v in detection order: member
// references in constant-pool order, then extends, then implements, then the
// remaining class usages. The result is duplicate-free and owned by the
// caller; it does not borrow v.
//
// A Class entry is never reported as soon as it is seen. The superclass and
// interfaces are Class entries too, so Class hits are collected first, the
// names the hierarchy accounts for are subtracted, and only the remainder is
// reported as class usage.
func (c *Collector) Collect(v *classfile.View) []usage.Usage {
	c.reset()
	from := lookup.ToDottedName(v.ThisClassName())

	for i := 1; i < v.Count(); i++ {
		switch v.Tag(i) {
		case format.TagFieldref:
			ref, _ := v.MemberRef(i)
			if ann, ok := c.ix.Field(ref.Class, ref.Name); ok {
				c.out.Add(usage.NewFieldReference(from,
					c.ix.ClassName(ref.Class), c.ix.FieldName(ref.Name), ann))
			}
		case format.TagMethodref, format.TagInterfaceMethodref:
			ref, _ := v.MemberRef(i)
			if ann, ok := c.ix.Method(ref.Class, ref.Name, ref.Descriptor); ok {
				c.out.Add(usage.NewMethodReference(from,
					c.ix.ClassName(ref.Class), c.ix.MethodName(ref.Name), c.ix.Descriptor(ref.Descriptor), ann))
			}
		case format.TagClass:
			k, _ := v.ClassKey(i)
			if ann, ok := c.ix.Class(k); ok {
				c.stash(k, ann)
			}
		}
	}

	if super, ok := v.SuperClass(); ok && !lookup.IsObject(super) {
		if ann, ok := c.ix.Class(super); ok {
			c.out.Add(usage.NewExtendsClass(from, c.ix.ClassName(super), ann))
			c.accounted = append(c.accounted, super)
		}
	}
	for j := 0; j < v.InterfaceCount(); j++ {
		iface := v.Interface(j)
		if ann, ok := c.ix.Class(iface); ok {
			c.out.Add(usage.NewImplementsInterface(from, c.ix.ClassName(iface), ann))
			c.accounted = append(c.accounted, iface)
		}
	}

	for _, k := range c.accounted {
		c.deferred.Delete(k)
	}
	for _, k := range c.order {
		if ann, ok := c.deferred.Get(k); ok {
			c.out.Add(usage.NewClassUsage(from, c.ix.ClassName(k), ann))
		}
	}

	out := c.out.Items()
	c.reset()
	return out
}

// stash defers a Class hit. javac never emits two Class entries for one
// name, but hand-written or obfuscated class files may.
func (c *Collector) stash(k classfile.Key, ann usage.AnnotationSet) {
	if _, ok := c.deferred.Get(k); ok {
		return
	}
	c.deferred.Put(k, ann)
	c.order = append(c.order, k)
}

// reset drops every Key borrowed from the last View.
func (c *Collector) reset() {
	c.deferred.Clear()
	clear(c.order)
	c.order = c.order[:0]
	clear(c.accounted)
	c.accounted = c.accounted[:0]
	c.out.Reset()
}
