package scan

import (
	"runtime"

	"github.com/joshuapare/apiwatch/detect"
)

// Options controls a Scanner.
type Options struct {
	// Workers is the number of concurrent parse workers.
	// Default: runtime.GOMAXPROCS(0)
	Workers int

	// CacheSize is the number of per-class results kept in the content
	// cache. Zero disables the cache.
	CacheSize int

	// MinMajorVersion rejects class files compiled for an older VM.
	// Zero accepts every version.
	MinMajorVersion uint16

	// SkipModuleInfo skips module-info.class and package-info.class.
	SkipModuleInfo bool

	// Annotations enables the annotated-usage path. Nil disables it.
	Annotations detect.AnnotationIndex

	// Metrics receives scan metrics. Nil disables metrics.
	Metrics *Metrics
}

// DefaultOptions returns the options used by the CLI.
func DefaultOptions() Options {
	return Options{
		Workers:        runtime.GOMAXPROCS(0),
		CacheSize:      4096,
		SkipModuleInfo: true,
	}
}
