package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joshuapare/apiwatch/internal/classtest"
)

// testIndexText is a declarative index tracking com.acme.Lib and its run(I)V
// method under com.acme.Experimental.
const testIndexText = "=BEGIN\n" +
	"com.acme.Experimental\n" +
	"=CLASSES\n" +
	"com.acme.Lib\n" +
	"=ANNOTATIONS\n" +
	"com.acme.Marker\n" +
	"=METHODS\n" +
	"com.acme.Lib␟run␟(I)V\n" +
	"=END\n"

// writeTestFile writes data under dir and returns the path.
func writeTestFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

// writeFixture lays out an index file and a classes directory holding one
// class that uses tracked API and one that does not.
func writeFixture(t *testing.T) (indexPath, classesDir string) {
	t.Helper()
	dir := t.TempDir()
	indexPath = writeTestFile(t, dir, "experimental.idx", []byte(testIndexText))
	classesDir = filepath.Join(dir, "classes")

	user := classtest.New("user/App")
	user.Methodref("com/acme/Lib", "run", "(I)V")
	writeTestFile(t, classesDir, "user/App.class", user.Bytes())

	clean := classtest.New("user/Clean")
	clean.Methodref("java/lang/Object", "hashCode", "()I")
	writeTestFile(t, classesDir, "user/Clean.class", clean.Bytes())
	return indexPath, classesDir
}

// resetGlobals restores global flag state between tests
func resetGlobals() {
	verbose = false
	quiet = true
	jsonOut = false
	scanPaths = false
	scanOutput = ""
	indexStats = false
	indexOutput = ""
	diffContext = 3
	diffFail = false
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	return buf.String(), fnErr
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result any
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}
