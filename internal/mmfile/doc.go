// Package mmfile provides platform-specific helpers for memory-mapping
// class files and jar archives.
package mmfile
