package xmlops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emredjan/xml-validation/pkg/diag"
)

func TestToUTF8(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "<a/>", want: "<a/>"},
		{name: "utf-8 byte order mark", input: "\xef\xbb\xbf<a/>", want: "<a/>"},
		{
			name:  "utf-16le with byte order mark",
			input: "\xff\xfe<\x00a\x00/\x00>\x00",
			want:  "<a/>",
		},
		{
			name:  "utf-16be without byte order mark",
			input: "\x00<\x00?\x00x\x00m\x00l\x00 \x00e\x00n\x00c\x00o\x00d\x00i\x00n\x00g\x00=\x00'\x00U\x00T\x00F\x00-\x001\x006\x00'\x00?\x00>\x00<\x00a\x00/\x00>",
			want:  "<?xml encoding='UTF-8'?><a/>",
		},
		{
			name:  "latin-1",
			input: "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n<a>caf\xe9</a>",
			want:  "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<a>café</a>",
		},
		{
			name:  "utf-16 label on single byte text",
			input: "<?xml version=\"1.0\" encoding=\"UTF-16\"?><a/>",
			want:  "<?xml version=\"1.0\" encoding=\"UTF-8\"?><a/>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := toUTF8([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestToUTF8_UnknownEncoding(t *testing.T) {
	t.Parallel()

	_, err := toUTF8([]byte(`<?xml version="1.0" encoding="x-no-such-charset"?><a/>`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "x-no-such-charset")
}

func TestInternalEntities(t *testing.T) {
	t.Parallel()

	assert.Nil(t, internalEntities([]byte("<a/>")))
	assert.Nil(t, internalEntities([]byte(`<!DOCTYPE a SYSTEM "a.dtd"><a/>`)))

	got := internalEntities([]byte(`<!DOCTYPE a [
  <!ENTITY co "Acme &amp; Co">
  <!ENTITY year '2026'>
  <!ENTITY co "ignored">
  <!ENTITY % param "p">
  <!ENTITY ext SYSTEM "ext.xml">
]><a>&co; &year;</a>`))
	assert.Equal(t, map[string]string{"co": "Acme &amp; Co", "year": "2026"}, got)
}

func TestScanWellFormed_Position(t *testing.T) {
	t.Parallel()

	collector := diag.NewCollector("doc.xml", 5)
	ok := scanWellFormed([]byte("<root>\n  <a x=\"1\" x=\"2\"/>\n</root>"), nil, collector)
	require.False(t, ok)

	log := collector.Log()
	require.Len(t, log, 1)
	assert.Equal(t, 2, log[0].Line)
	assert.Contains(t, log[0].Message, "duplicate attribute")
	assert.Equal(t, "doc.xml", log[0].Source)
}

func TestInnermost(t *testing.T) {
	t.Parallel()

	assert.Empty(t, innermost(""))
	assert.Equal(t, "a", innermost("/a[0]"))
	assert.Equal(t, "b", innermost("/a[0]/b[3]"))
	assert.Equal(t, "item", innermost("/list/item"))
}

func TestElementAt(t *testing.T) {
	t.Parallel()

	source := []byte("<library>\n  <book id=\"1\">\n    <title>Go</title>\n  </book>\n</library>\n")

	tests := []struct {
		name      string
		line, col int
		want      string
	}{
		{name: "start tag", line: 2, col: 3, want: "book"},
		{name: "inside start tag", line: 2, col: 9, want: "book"},
		{name: "after text", line: 3, col: 14, want: "title"},
		{name: "end tag", line: 4, col: 3, want: "book"},
		{name: "first line", line: 1, col: 1, want: "library"},
		{name: "before any tag", line: 2, col: 1, want: ""},
		{name: "past last line", line: 9, col: 1, want: ""},
		{name: "no position", line: 0, col: 0, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, elementAt(source, tt.line, tt.col))
		})
	}

	assert.Empty(t, elementAt(nil, 1, 1))
}
