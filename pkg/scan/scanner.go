package scan

import (
	"cmp"
	"context"
	"crypto/sha256"
	"errors"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/joshuapare/apiwatch/classfile"
	"github.com/joshuapare/apiwatch/detect"
	"github.com/joshuapare/apiwatch/internal/logger"
	"github.com/joshuapare/apiwatch/internal/mmfile"
	"github.com/joshuapare/apiwatch/lookup"
	"github.com/joshuapare/apiwatch/usage"
)

// ClassResult holds the usages found in one class file.
type ClassResult struct {
	Path   string // file path, or archive!/entry
	Class  string // dotted class name
	Usages []usage.Usage
}

// Result is the outcome of a Scan. Classes lists only class files with at
// least one usage, ordered by path.
type Result struct {
	Classes   []ClassResult
	Annotated []usage.Usage
	Errors    []*FileError

	Scanned  int // class files parsed or answered from cache
	Skipped  int // module and package descriptors
	Duration time.Duration
}

// Usages returns every usage in report order: class results by path, then
// annotated usages.
func (r *Result) Usages() []usage.Usage {
	var out []usage.Usage
	for _, c := range r.Classes {
		out = append(out, c.Usages...)
	}
	return append(out, r.Annotated...)
}

// CountByKind returns the number of usages per kind.
func (r *Result) CountByKind() map[usage.Kind]int {
	out := make(map[usage.Kind]int)
	for _, u := range r.Usages() {
		out[u.Kind()]++
	}
	return out
}

type cached struct {
	class  string
	usages []usage.Usage
}

// Scanner scans classpaths against one lookup.Index. A Scanner is safe for
// concurrent use; each Scan call runs its own worker pool.
type Scanner struct {
	ix    *lookup.Index
	opts  Options
	cache *lru.Cache[[sha256.Size]byte, cached]
}

// New creates a Scanner.
func New(ix *lookup.Index, opts Options) (*Scanner, error) {
	if ix == nil {
		return nil, errors.New("scan: nil lookup index")
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	s := &Scanner{ix: ix, opts: opts}
	if opts.CacheSize > 0 {
		c, err := lru.New[[sha256.Size]byte, cached](opts.CacheSize)
		if err != nil {
			return nil, err
		}
		s.cache = c
	}
	return s, nil
}

// worker is the per-goroutine parse state.
type worker struct {
	s       *Scanner
	parser  *classfile.Scanner
	scratch *classfile.Scratch
	col     *detect.Collector
}

func (s *Scanner) newWorker() *worker {
	return &worker{
		s:       s,
		parser:  classfile.NewScanner(classfile.Options{MinMajorVersion: s.opts.MinMajorVersion}),
		scratch: classfile.NewScratch(),
		col:     detect.NewCollector(s.ix),
	}
}

// Scan scans every directory, class file and jar in paths. Unreadable or
// malformed inputs are reported in Result.Errors; the returned error is
// non-nil only when ctx is cancelled.
func (s *Scanner) Scan(ctx context.Context, paths ...string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	res := &Result{}
	var mu sync.Mutex

	fail := func(p string, err error) {
		fe := &FileError{Path: p, Err: err}
		logger.Warn("scan: skipping input", "path", p, "reason", fe.Reason(), "err", err)
		if m := s.opts.Metrics; m != nil {
			m.FilesFailed.WithLabelValues(fe.Reason()).Inc()
		}
		mu.Lock()
		res.Errors = append(res.Errors, fe)
		mu.Unlock()
	}
	emit := func(c ClassResult) {
		mu.Lock()
		res.Scanned++
		if len(c.Usages) > 0 {
			res.Classes = append(res.Classes, c)
		}
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan job, s.opts.Workers*4)
	w := &walker{ctx: gctx, skip: s.opts.SkipModuleInfo, jobs: jobs, fail: fail}

	g.Go(func() error {
		defer close(jobs)
		return w.walk(paths)
	})
	for range s.opts.Workers {
		wk := s.newWorker()
		g.Go(func() error {
			for j := range jobs {
				if err := gctx.Err(); err != nil {
					return err
				}
				c, err := wk.run(j)
				if err != nil {
					fail(j.path, err)
					continue
				}
				emit(c)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if s.opts.Annotations != nil {
		res.Annotated = detect.Annotated(s.opts.Annotations, s.ix)
	}

	slices.SortFunc(res.Classes, func(a, b ClassResult) int { return cmp.Compare(a.Path, b.Path) })
	slices.SortFunc(res.Errors, func(a, b *FileError) int { return cmp.Compare(a.Path, b.Path) })
	res.Skipped = w.skipped
	res.Duration = time.Since(start)

	if m := s.opts.Metrics; m != nil {
		for _, u := range res.Usages() {
			m.Usages.WithLabelValues(u.Kind().String()).Inc()
		}
		m.ScanDuration.Observe(res.Duration.Seconds())
	}
	logger.Info("scan: complete",
		"classes", res.Scanned,
		"usages", len(res.Usages()),
		"errors", len(res.Errors),
		"skipped", res.Skipped,
		"duration", res.Duration)
	return res, nil
}

// ScanClass scans one class file held in memory.
func (s *Scanner) ScanClass(data []byte) (ClassResult, error) {
	return s.newWorker().scan("", data)
}

func (w *worker) run(j job) (ClassResult, error) {
	if j.file == "" {
		return w.scan(j.path, j.data)
	}
	data, release, err := mmfile.Map(j.file)
	if err != nil {
		return ClassResult{}, err
	}
	defer func() {
		if err := release(); err != nil {
			logger.Warn("scan: unmap failed", "path", j.file, "err", err)
		}
	}()
	return w.scan(j.path, data)
}

// scan parses data and collects its usages. The result does not reference
// data, so the caller may release it afterwards.
func (w *worker) scan(p string, data []byte) (ClassResult, error) {
	m := w.s.opts.Metrics
	var sum [sha256.Size]byte
	if w.s.cache != nil {
		sum = sha256.Sum256(data)
		if c, ok := w.s.cache.Get(sum); ok {
			if m != nil {
				m.CacheHits.Inc()
				m.ClassesScanned.Inc()
			}
			return ClassResult{Path: p, Class: c.class, Usages: slices.Clone(c.usages)}, nil
		}
	}

	v, err := w.parser.ScanBytes(data, w.scratch)
	if err != nil {
		return ClassResult{}, err
	}
	c := cached{
		class:  lookup.ToDottedName(v.ThisClassName()),
		usages: w.col.Collect(v),
	}
	if w.s.cache != nil {
		w.s.cache.Add(sum, c)
	}
	if m != nil {
		m.ClassesScanned.Inc()
	}
	return ClassResult{Path: p, Class: c.class, Usages: slices.Clone(c.usages)}, nil
}
