// Package classfile walks the constant pool of a JVM class file without
// materializing class or member names as strings.
//
// # Overview
//
// A Scanner reads one class file from an io.Reader, copies every
// CONSTANT_Utf8 payload (together with its two-byte length prefix) into a
// caller-owned Scratch arena, and records the tag and reference indices of
// every other entry. The result is a View: a short-lived projection that
// resolves constant-pool slots to Keys on demand.
//
// A Key is a (buffer, offset, length) window with a cached FNV-1a hash. Keys
// compare by content, so a Key sliced out of a class file equals a Key built
// from a Go string with KeyOf, as long as both use the length-prefixed
// modified UTF-8 layout of a CONSTANT_Utf8 entry. KeyMap is a hash map keyed
// by Key content.
//
// # Buffer ownership
//
// Keys obtained from a View borrow the Scratch buffer. They are valid until
// the Scratch is passed to the next Scan call. Keys that must outlive a scan
// need Key.Clone. Keys created with KeyOf own their buffer.
//
// # Usage Example
//
//	sc := classfile.NewScanner(classfile.Options{})
//	scratch := classfile.NewScratch()
//	for _, path := range paths {
//	    f, _ := os.Open(path)
//	    v, err := sc.Scan(f, scratch)
//	    f.Close()
//	    if err != nil {
//	        continue // one bad file does not stop the scan
//	    }
//	    for i := 1; i < v.Count(); i++ {
//	        if ref, ok := v.MemberRef(i); ok {
//	            _ = ref.Class // Key of the declaring class
//	        }
//	    }
//	}
//
// # Thread Safety
//
// Scanner, Scratch and View are not safe for concurrent use. Create one of
// each per goroutine. Keys and KeyMaps that are no longer mutated may be read
// concurrently.
package classfile
