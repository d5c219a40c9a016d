// Package scan runs usage detection over a classpath: directories, single
// class files and jar archives.
//
// # Overview
//
// A Scanner owns a read-only lookup.Index and fans class files out to a
// bounded pool of workers. Each worker holds its own classfile.Scanner,
// classfile.Scratch and detect.Collector, so the parse buffers are reused
// across every class the worker sees and never shared.
//
//	ix, _ := lookup.Build(decl)
//	s, _ := scan.New(ix, scan.DefaultOptions())
//	res, err := s.Scan(ctx, "build/classes", "libs/app.jar")
//	for _, c := range res.Classes {
//	    for _, u := range c.Usages {
//	        fmt.Println(u)
//	    }
//	}
//
// # Failures
//
// A class file that cannot be read or parsed is recorded as a FileError and
// the scan continues. Scan itself fails only when the context is cancelled.
// module-info.class and package-info.class are skipped by default; they are
// not ordinary classes.
//
// # Caching
//
// Results are cached by the SHA-256 of the class bytes, so a class that
// appears in several jars on one classpath is parsed once.
package scan
