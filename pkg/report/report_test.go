package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/apiwatch/internal/format"
	"github.com/joshuapare/apiwatch/pkg/scan"
	"github.com/joshuapare/apiwatch/usage"
)

var ann = usage.NewAnnotationSet("com.acme.Experimental")

func sampleResult() *scan.Result {
	return &scan.Result{
		Classes: []scan.ClassResult{
			{
				Path:  "out/user/A.class",
				Class: "user.A",
				Usages: []usage.Usage{
					usage.NewMethodReference("user.A", "com.acme.Lib", "run", "(I)V", ann),
					usage.NewClassUsage("user.A", "com.acme.Lib", ann),
				},
			},
			{
				Path:  "app.jar!/user/B.class",
				Class: "user.B",
				Usages: []usage.Usage{
					usage.NewExtendsClass("user.B", "com.acme.Base", ann),
				},
			},
		},
		Annotated: []usage.Usage{
			usage.NewAnnotatedUserField("user.Point", "x", "com.acme.Marker", ann),
		},
		Errors: []*scan.FileError{
			{Path: "out/Bad.class", Err: &format.ParseError{Field: "magic", Err: format.ErrBadMagic}},
		},
		Scanned:  3,
		Skipped:  1,
		Duration: 1500 * time.Millisecond,
	}
}

func TestLinesSortedAndStable(t *testing.T) {
	got := Lines(sampleResult())
	assert.Equal(t, []string{
		"user.A references class com.acme.Lib [com.acme.Experimental]",
		"user.A references method com.acme.Lib#run(I)V [com.acme.Experimental]",
		"user.B extends com.acme.Base [com.acme.Experimental]",
		"user.Point#x is annotated with @com.acme.Marker [com.acme.Experimental]",
	}, got)
}

func TestWriteTextWithPathsAndErrors(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, sampleResult(), TextOptions{Paths: true, Errors: true}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "out/user/A.class: user.A references method com.acme.Lib#run(I)V [com.acme.Experimental]", lines[0])
	assert.Equal(t, "app.jar!/user/B.class: user.B extends com.acme.Base [com.acme.Experimental]", lines[2])
	assert.True(t, strings.HasPrefix(lines[4], "error: out/Bad.class: "))
}

func TestSummary(t *testing.T) {
	assert.Equal(t,
		"3 classes, 4 usages (1 EXTENDS_CLASS, 1 METHOD_REFERENCE, 1 CLASS_USAGE, 1 ANNOTATED_USER_FIELD), 1 error",
		Summary(sampleResult()))
	assert.Equal(t, "1 class, 0 usages", Summary(&scan.Result{Scanned: 1}))
}

func TestJSONDocument(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	d := NewDocument(sampleResult(), JSONOptions{RunID: "run-1", Now: func() time.Time { return fixed }})

	assert.Equal(t, "run-1", d.RunID)
	assert.Equal(t, fixed, d.Generated)
	assert.Equal(t, map[string]int{
		"METHOD_REFERENCE":     1,
		"CLASS_USAGE":          1,
		"EXTENDS_CLASS":        1,
		"ANNOTATED_USER_FIELD": 1,
	}, d.Counts)
	require.Len(t, d.Usages, 4)
	assert.Equal(t, UsageDoc{
		Kind:        "METHOD_REFERENCE",
		Path:        "out/user/A.class",
		Source:      "user.A",
		Class:       "com.acme.Lib",
		Member:      "run",
		Descriptor:  "(I)V",
		Annotations: []string{"com.acme.Experimental"},
	}, d.Usages[0])
	assert.Equal(t, "com.acme.Marker", d.Usages[3].Via)
	require.Len(t, d.Errors, 1)
	assert.Equal(t, "bad_magic", d.Errors[0].Reason)
}

func TestWriteJSONGeneratesRunID(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, &scan.Result{}, JSONOptions{}))

	var d Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &d))
	_, err := uuid.Parse(d.RunID)
	assert.NoError(t, err)
	assert.NotNil(t, d.Usages)
	assert.Empty(t, d.Errors)
}

func TestCompare(t *testing.T) {
	old := []string{"a", "b", "c", "b"}
	cur := []string{"c", "d", "a"}
	d := Compare(old, cur)
	assert.Equal(t, []string{"d"}, d.Added)
	assert.Equal(t, []string{"b"}, d.Removed)
	assert.False(t, d.Empty())
	assert.True(t, Compare(old, []string{"c", "b", "a"}).Empty())
}

func TestUnified(t *testing.T) {
	old := []string{"user.A extends x.Y [a]", "user.B references class x.Z [a]"}
	cur := []string{"user.B references class x.Z [a]", "user.C implements x.I [a]"}

	out, err := Unified("baseline.txt", "current.txt", old, cur, -1)
	require.NoError(t, err)
	assert.Contains(t, out, "--- baseline.txt")
	assert.Contains(t, out, "+++ current.txt")
	assert.Contains(t, out, "-user.A extends x.Y [a]\n")
	assert.Contains(t, out, "+user.C implements x.I [a]\n")
	assert.Contains(t, out, " user.B references class x.Z [a]\n")

	same, err := Unified("a", "b", old, []string{old[1], old[0], old[0]}, 3)
	require.NoError(t, err)
	assert.Empty(t, same)
}

func TestUnifiedZeroContext(t *testing.T) {
	old := []string{"user.A extends x.Y [a]", "user.B references class x.Z [a]"}
	cur := []string{"user.B references class x.Z [a]", "user.C implements x.I [a]"}

	out, err := Unified("baseline.txt", "current.txt", old, cur, 0)
	require.NoError(t, err)
	assert.Contains(t, out, "-user.A extends x.Y [a]\n")
	assert.Contains(t, out, "+user.C implements x.I [a]\n")
	assert.NotContains(t, out, " user.B references class x.Z [a]\n")
}

func TestReadLines(t *testing.T) {
	in := "b line\r\n\nerror: x: broken\na line\n"
	got, err := ReadLines(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"b line", "a line"}, got)
}

func TestRoundTripThroughText(t *testing.T) {
	res := sampleResult()
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, res, TextOptions{Errors: true}))
	lines, err := ReadLines(&buf)
	require.NoError(t, err)
	assert.Equal(t, Lines(res), lines)
	assert.True(t, Compare(Lines(res), lines).Empty())
}
