package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/joshuapare/apiwatch/pkg/scan"
	"github.com/joshuapare/apiwatch/usage"
)

// Document is the JSON form of a scan.
type Document struct {
	RunID     string         `json:"run_id"`
	Generated time.Time      `json:"generated"`
	Scanned   int            `json:"scanned"`
	Skipped   int            `json:"skipped"`
	Duration  string         `json:"duration"`
	Counts    map[string]int `json:"counts"`
	Usages    []UsageDoc     `json:"usages"`
	Errors    []ErrorDoc     `json:"errors,omitempty"`
}

// UsageDoc is one usage in a Document.
type UsageDoc struct {
	Kind        string   `json:"kind"`
	Path        string   `json:"path,omitempty"`
	Source      string   `json:"source"`
	Class       string   `json:"class,omitempty"`
	Member      string   `json:"member,omitempty"`
	Descriptor  string   `json:"descriptor,omitempty"`
	Via         string   `json:"via,omitempty"`
	Annotations []string `json:"annotations"`
}

// ErrorDoc is one unreadable input in a Document.
type ErrorDoc struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
	Error  string `json:"error"`
}

// JSONOptions controls NewDocument.
type JSONOptions struct {
	// RunID identifies the scan. Default: a random UUID.
	RunID string
	// Now stamps the document. Default: time.Now.
	Now func() time.Time
}

// NewDocument builds the JSON form of res.
func NewDocument(res *scan.Result, opts JSONOptions) *Document {
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	d := &Document{
		RunID:     opts.RunID,
		Generated: opts.Now().UTC(),
		Scanned:   res.Scanned,
		Skipped:   res.Skipped,
		Duration:  res.Duration.String(),
		Counts:    make(map[string]int),
		Usages:    []UsageDoc{},
	}
	for k, n := range res.CountByKind() {
		d.Counts[k.String()] = n
	}
	for _, c := range res.Classes {
		for _, u := range c.Usages {
			d.Usages = append(d.Usages, usageDoc(c.Path, u))
		}
	}
	for _, u := range res.Annotated {
		d.Usages = append(d.Usages, usageDoc("", u))
	}
	for _, e := range res.Errors {
		d.Errors = append(d.Errors, ErrorDoc{Path: e.Path, Reason: e.Reason(), Error: e.Err.Error()})
	}
	return d
}

func usageDoc(path string, u usage.Usage) UsageDoc {
	d := UsageDoc{
		Kind:        u.Kind().String(),
		Path:        path,
		Source:      u.Source(),
		Annotations: u.Annotations().Names(),
	}
	switch u := u.(type) {
	case usage.ExtendsClass:
		d.Class = u.Class()
	case usage.ImplementsInterface:
		d.Class = u.Interface()
	case usage.ClassUsage:
		d.Class = u.Class()
	case usage.MethodReference:
		d.Class, d.Member, d.Descriptor = u.Class(), u.Method(), u.Descriptor()
	case usage.FieldReference:
		d.Class, d.Member = u.Class(), u.Field()
	case usage.AnnotatedAnnotation:
		d.Via = u.Via()
	case usage.AnnotatedUserClass:
		d.Via = u.Via()
	case usage.AnnotatedUserField:
		d.Member, d.Via = u.Field(), u.Via()
	case usage.AnnotatedUserMethod:
		d.Member, d.Descriptor, d.Via = u.Method(), u.Descriptor(), u.Via()
	}
	return d
}

// WriteJSON writes the JSON form of res, indented.
func WriteJSON(w io.Writer, res *scan.Result, opts JSONOptions) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(res, opts))
}
