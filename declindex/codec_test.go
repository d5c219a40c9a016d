package declindex

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `=BEGIN
com.acme.Experimental
=INTERFACES
com.acme.Api
=CLASSES
com.acme.Lib
com.acme.Outer$Inner
=ANNOTATIONS
com.acme.Marker
=METHODS
com.acme.Lib␟call␟(Ljava/lang/String;)V
=CONSTRUCTORS
com.acme.Lib␟(Ljava/lang/String;)V
=FIELDS
com.acme.Lib␟flag
=END
=BEGIN
com.acme.Beta
=CLASSES
com.acme.Lib
=END
`

func TestReadSample(t *testing.T) {
	ix, err := Read(strings.NewReader(sample))
	require.NoError(t, err)
	assert.Equal(t, []string{"com.acme.Beta", "com.acme.Experimental"}, ix.TrackedAnnotations())

	e, ok := ix.Lookup("com.acme.Experimental")
	require.True(t, ok)
	assert.Contains(t, e.Interfaces, "com.acme.Api")
	assert.Contains(t, e.Classes, "com.acme.Outer$Inner")
	assert.Contains(t, e.Annotations, "com.acme.Marker")
	assert.Contains(t, e.Methods, MethodRef{"com.acme.Lib", "call", "(Ljava/lang/String;)V"})
	assert.Contains(t, e.Constructors, ConstructorRef{"com.acme.Lib", "(Ljava/lang/String;)V"})
	assert.Contains(t, e.Fields, FieldRef{"com.acme.Lib", "flag"})
	assert.Equal(t, 7, e.Len())
}

func TestWriteReadRoundTrip(t *testing.T) {
	ix, err := Read(strings.NewReader(sample))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, Write(&out, ix))

	back, err := Read(&out)
	require.NoError(t, err)
	assert.True(t, ix.Equal(back))
	assert.True(t, back.Equal(ix))
}

func TestWriteIsDeterministic(t *testing.T) {
	a := New()
	a.Entry("x.Y").AddClass("b.B")
	a.Entry("x.Y").AddClass("a.A")
	a.Entry("a.Z").AddField("c.C", "f")

	b := New()
	b.Entry("a.Z").AddField("c.C", "f")
	b.Entry("x.Y").AddClass("a.A")
	b.Entry("x.Y").AddClass("b.B")

	var wa, wb bytes.Buffer
	require.NoError(t, Write(&wa, a))
	require.NoError(t, Write(&wb, b))
	assert.Equal(t, wa.String(), wb.String())
	assert.True(t, strings.HasPrefix(wa.String(), BeginMarker+"\na.Z\n"))
}

func TestReadIntoTwiceIsIdempotent(t *testing.T) {
	once, err := Read(strings.NewReader(sample))
	require.NoError(t, err)

	twice := New()
	require.NoError(t, ReadInto(twice, strings.NewReader(sample)))
	require.NoError(t, ReadInto(twice, strings.NewReader(sample)))
	assert.True(t, once.Equal(twice))
}

func TestReadEmptyBlockAndComments(t *testing.T) {
	in := "# generated\n\n=BEGIN\ncom.acme.Empty\n=END\n"
	ix, err := Read(strings.NewReader(in))
	require.NoError(t, err)
	e, ok := ix.Lookup("com.acme.Empty")
	require.True(t, ok)
	assert.Equal(t, 0, e.Len())
}

func TestReadCRLF(t *testing.T) {
	in := strings.ReplaceAll(sample, "\n", "\r\n")
	ix, err := Read(strings.NewReader(in))
	require.NoError(t, err)
	lf, _ := Read(strings.NewReader(sample))
	assert.True(t, lf.Equal(ix))
}

func TestReadSyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"missing begin", "com.acme.X\n", "line 1"},
		{"missing name", "=BEGIN\n=CLASSES\n", "annotation name"},
		{"entry outside section", "=BEGIN\ncom.acme.X\ncom.acme.Lib\n=END\n", "outside of a section"},
		{"unknown section", "=BEGIN\ncom.acme.X\n=THINGS\n=END\n", "unknown section"},
		{"short method", "=BEGIN\ncom.acme.X\n=METHODS\ncom.acme.Lib␟call\n=END\n", "needs 3"},
		{"empty field", "=BEGIN\ncom.acme.X\n=FIELDS\ncom.acme.Lib␟\n=END\n", "empty field"},
		{"unterminated", "=BEGIN\ncom.acme.X\n=CLASSES\ncom.acme.Lib\n", "unterminated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.in))
			require.ErrorIs(t, err, ErrSyntax)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReadWriteFile(t *testing.T) {
	ix, err := Read(strings.NewReader(sample))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "tracked.idx")
	require.NoError(t, WriteFile(path, ix))
	back, err := ReadFile(path)
	require.NoError(t, err)
	assert.True(t, ix.Equal(back))

	require.NoError(t, os.WriteFile(path, []byte("garbage\n"), 0o644))
	_, err = ReadFile(path)
	require.ErrorIs(t, err, ErrSyntax)
	assert.Contains(t, err.Error(), path)
}
