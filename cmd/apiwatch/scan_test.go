package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/apiwatch/pkg/report"
)

func scanConfig(indexPath string) *Config {
	c := DefaultConfig()
	c.Indexes = []string{indexPath}
	return c
}

func TestScanTextReport(t *testing.T) {
	resetGlobals()
	idx, classes := writeFixture(t)

	var buf bytes.Buffer
	res, err := scanWithConfig(context.Background(), scanConfig(idx), []string{classes}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Scanned)
	assert.Equal(t,
		"user.App references class com.acme.Lib [com.acme.Experimental]\n"+
			"user.App references method com.acme.Lib#run(I)V [com.acme.Experimental]\n",
		buf.String())
}

func TestScanTextReportWithPaths(t *testing.T) {
	resetGlobals()
	scanPaths = true
	idx, classes := writeFixture(t)

	var buf bytes.Buffer
	_, err := scanWithConfig(context.Background(), scanConfig(idx), []string{classes}, &buf)
	require.NoError(t, err)
	assertContains(t, buf.String(), []string{
		filepath.Join(classes, "user", "App.class") + ": user.App references method",
	})
}

func TestScanJSONReport(t *testing.T) {
	resetGlobals()
	jsonOut = true
	defer resetGlobals()
	idx, classes := writeFixture(t)

	var buf bytes.Buffer
	_, err := scanWithConfig(context.Background(), scanConfig(idx), []string{classes}, &buf)
	require.NoError(t, err)
	assertJSON(t, buf.String())

	var doc report.Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 2, doc.Scanned)
	assert.Equal(t, map[string]int{"METHOD_REFERENCE": 1, "CLASS_USAGE": 1}, doc.Counts)
	assert.NotEmpty(t, doc.RunID)
}

func TestScanRequiresIndex(t *testing.T) {
	resetGlobals()
	_, err := scanWithConfig(context.Background(), DefaultConfig(), []string{t.TempDir()}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "no declarative index")
}

func TestScanBadIndexFile(t *testing.T) {
	resetGlobals()
	p := writeTestFile(t, t.TempDir(), "bad.idx", []byte("not an index\n"))
	_, err := scanWithConfig(context.Background(), scanConfig(p), []string{t.TempDir()}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestScanAnnotationsFile(t *testing.T) {
	resetGlobals()
	idx, classes := writeFixture(t)
	ann := writeTestFile(t, t.TempDir(), "annotations.yaml", []byte(`
com.acme.Marker:
  - kind: record_component
    class: user.Point
    member: x
  - kind: field
    class: user.Point
    member: x
`))
	c := scanConfig(idx)
	c.Annotations = ann

	var buf bytes.Buffer
	res, err := scanWithConfig(context.Background(), c, []string{classes}, &buf)
	require.NoError(t, err)
	assert.Len(t, res.Annotated, 1)
	assert.Contains(t, buf.String(), "user.Point#x is annotated with @com.acme.Marker [com.acme.Experimental]")
}

func TestScanMetricsFile(t *testing.T) {
	resetGlobals()
	idx, classes := writeFixture(t)
	c := scanConfig(idx)
	c.MetricsFile = filepath.Join(t.TempDir(), "scan.prom")

	_, err := scanWithConfig(context.Background(), c, []string{classes}, &bytes.Buffer{})
	require.NoError(t, err)

	data, err := os.ReadFile(c.MetricsFile)
	require.NoError(t, err)
	assertContains(t, string(data), []string{
		"apiwatch_scan_classes_total 2",
		`apiwatch_scan_usages_total{kind="METHOD_REFERENCE"} 1`,
		"apiwatch_scan_duration_seconds_count 1",
	})
}

func TestCheckUsagesFailOnUsage(t *testing.T) {
	resetGlobals()
	idx, classes := writeFixture(t)
	c := scanConfig(idx)

	res, err := scanWithConfig(context.Background(), c, []string{classes}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.NoError(t, checkUsages(c, res))

	c.FailOnUsage = true
	err = checkUsages(c, res)
	var ee *exitError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, 2, ee.code)
	assert.Contains(t, ee.msg, "2 usage(s)")
}

func TestCheckUsagesBaseline(t *testing.T) {
	resetGlobals()
	idx, classes := writeFixture(t)
	c := scanConfig(idx)
	c.FailOnUsage = true

	var buf bytes.Buffer
	res, err := scanWithConfig(context.Background(), c, []string{classes}, &buf)
	require.NoError(t, err)

	// Everything accepted.
	c.Baseline = writeTestFile(t, t.TempDir(), "baseline.txt", buf.Bytes())
	assert.NoError(t, checkUsages(c, res))

	// Only one line accepted.
	first := strings.SplitAfter(buf.String(), "\n")[0]
	c.Baseline = writeTestFile(t, t.TempDir(), "partial.txt", []byte(first))
	var ee *exitError
	require.True(t, errors.As(checkUsages(c, res), &ee))
	assert.Contains(t, ee.msg, "1 usage(s)")

	c.Baseline = filepath.Join(t.TempDir(), "missing.txt")
	assert.Error(t, checkUsages(c, res))
}

func TestApplyScanFlags(t *testing.T) {
	resetGlobals()
	cmd := newScanCmd()
	cmd.Flags().StringSliceVarP(&scanIndexes, "index", "i", nil, "")
	cmd.Flags().IntVarP(&scanWorkers, "workers", "w", 0, "")
	cmd.Flags().BoolVar(&scanFailOnUsage, "fail-on-usage", false, "")
	require.NoError(t, cmd.Flags().Parse([]string{"-i", "flag.idx", "--fail-on-usage"}))

	c := DefaultConfig()
	c.Indexes = []string{"file.idx"}
	c.Workers = 5
	applyScanFlags(cmd.Flags(), c)

	assert.Equal(t, []string{"flag.idx"}, c.Indexes)
	assert.True(t, c.FailOnUsage)
	assert.Equal(t, 5, c.Workers, "unset flags keep the configured value")
}
