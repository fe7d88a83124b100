package xmlops_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emredjan/xml-validation/pkg/fsutil"
	"github.com/emredjan/xml-validation/pkg/xmlops"
)

const librarySchema = `<?xml version="1.0" encoding="UTF-8"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:element name="library">
    <xs:complexType>
      <xs:sequence>
        <xs:element name="book" maxOccurs="unbounded">
          <xs:complexType>
            <xs:sequence>
              <xs:element name="title" type="xs:string"/>
            </xs:sequence>
            <xs:attribute name="id" type="xs:string" use="required"/>
          </xs:complexType>
        </xs:element>
      </xs:sequence>
    </xs:complexType>
  </xs:element>
</xs:schema>
`

const validLibrary = `<?xml version="1.0" encoding="UTF-8"?>
<library>
  <book id="b1">
    <title>The Go Programming Language</title>
  </book>
</library>
`

const libraryMissingID = `<?xml version="1.0" encoding="UTF-8"?>
<library>
  <book>
    <title>The Go Programming Language</title>
  </book>
</library>
`

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCheckSyntax(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name     string
		content  string
		wantOK   bool
		wantKind xmlops.ErrorKind
		wantText string
	}{
		{
			name:     "well formed",
			content:  validLibrary,
			wantOK:   true,
			wantKind: xmlops.KindNone,
		},
		{
			name:     "mismatched tag",
			content:  "<a><b></a>",
			wantKind: xmlops.KindSyntax,
			wantText: "mismatched end element in <b>",
		},
		{
			name:     "unclosed root",
			content:  "<a><b/>",
			wantKind: xmlops.KindSyntax,
			wantText: "unexpected EOF",
		},
		{
			name:     "two roots",
			content:  "<a/><b/>",
			wantKind: xmlops.KindSyntax,
			wantText: "multiple root elements",
		},
		{
			name:     "empty document",
			content:  "",
			wantKind: xmlops.KindSyntax,
			wantText: "missing root element",
		},
		{
			name:     "text after root",
			content:  "<a/>trailing",
			wantKind: xmlops.KindSyntax,
			wantText: "content outside root element",
		},
		{
			name:     "undefined entity",
			content:  "<a>&nbsp;</a>",
			wantKind: xmlops.KindSyntax,
		},
		{
			name:     "utf-8 byte order mark",
			content:  "\xef\xbb\xbf<a/>",
			wantOK:   true,
			wantKind: xmlops.KindNone,
		},
		{
			name:     "utf-16 with byte order mark",
			content:  "\xff\xfe<\x00?\x00x\x00m\x00l\x00 \x00v\x00e\x00r\x00s\x00i\x00o\x00n\x00=\x00\"\x001\x00.\x000\x00\"\x00 \x00e\x00n\x00c\x00o\x00d\x00i\x00n\x00g\x00=\x00\"\x00U\x00T\x00F\x00-\x001\x006\x00\"\x00?\x00>\x00<\x00a\x00/\x00>\x00",
			wantOK:   true,
			wantKind: xmlops.KindNone,
		},
		{
			name:     "internal entity",
			content:  `<!DOCTYPE a [<!ENTITY e "x">]><a>&e;</a>`,
			wantOK:   true,
			wantKind: xmlops.KindNone,
		},
		{
			name:     "duplicate attribute",
			content:  `<a x="1" x="2"/>`,
			wantKind: xmlops.KindSyntax,
			wantText: "duplicate attribute",
		},
		{
			name:     "declaration inside root",
			content:  `<a><?xml version="1.0"?></a>`,
			wantKind: xmlops.KindSyntax,
			wantText: "XML declaration not at start",
		},
		{
			name:     "repeated declaration",
			content:  `<?xml version="1.0"?><?xml version="1.0"?><a/>`,
			wantKind: xmlops.KindSyntax,
			wantText: "duplicate XML declaration",
		},
		{
			name:     "unsupported declared version",
			content:  `<?xml version="2.0"?><a/>`,
			wantKind: xmlops.KindSyntax,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeTemp(t, t.TempDir(), "doc.xml", tt.content)
			result := xmlops.CheckSyntax(ctx, path)

			assert.Equal(t, tt.wantOK, result.OK)
			assert.Equal(t, tt.wantKind, result.Kind)
			if tt.wantOK {
				require.NotNil(t, result.Document)
				assert.Empty(t, result.Text)
				assert.Equal(t, path, result.Document.Path())
				return
			}

			assert.Nil(t, result.Document)
			assert.NotEmpty(t, result.Text)
			assert.True(t, strings.HasPrefix(result.Text, path+":"), "text %q should start with the path", result.Text)
			require.Len(t, result.Diagnostics, 1)
			if tt.wantText != "" {
				assert.Contains(t, result.Text, tt.wantText)
			}
		})
	}
}

func TestCheckSyntaxReportsLine(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, t.TempDir(), "doc.xml", "<root>\n  <a>\n  </b>\n</root>\n")
	result := xmlops.CheckSyntax(context.Background(), path)

	require.Equal(t, xmlops.KindSyntax, result.Kind)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, 3, result.Diagnostics[0].Line)
	assert.Equal(t, path, result.Diagnostics[0].Source)
}

func TestCheckSyntaxIO(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()

	for name, path := range map[string]string{
		"missing":   filepath.Join(dir, "missing.xml"),
		"directory": dir,
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			result := xmlops.CheckSyntax(ctx, path)
			assert.False(t, result.OK)
			assert.Equal(t, xmlops.KindIO, result.Kind)
			assert.Equal(t, xmlops.MsgInvalidFile, result.Text)
			assert.Nil(t, result.Document)
		})
	}
}

func TestCheckSyntaxLatin1(t *testing.T) {
	t.Parallel()

	content := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n<menu><item>caf\xe9</item></menu>\n"
	path := writeTemp(t, t.TempDir(), "latin1.xml", content)

	result := xmlops.CheckSyntax(context.Background(), path)
	require.True(t, result.OK, result.Text)

	item := result.Document.Root().SelectElement("item")
	require.NotNil(t, item)
	assert.Equal(t, "café", item.Text())
	assert.Contains(t, string(result.Document.Bytes()), `encoding="UTF-8"`)
}

func TestCheckSyntaxConcurrent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ops := xmlops.New()
	ctx := context.Background()

	const workers = 16
	paths := make([]string, workers)
	for i := range workers {
		content := "<ok/>"
		if i%2 == 1 {
			content = fmt.Sprintf("<bad%d></oops>", i)
		}
		paths[i] = writeTemp(t, dir, fmt.Sprintf("doc%02d.xml", i), content)
	}

	results := make([]xmlops.ParseResult, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx] = ops.CheckSyntax(ctx, paths[idx])
		}(i)
	}
	wg.Wait()

	for i, result := range results {
		if i%2 == 0 {
			assert.True(t, result.OK, paths[i])
			continue
		}
		require.Equal(t, xmlops.KindSyntax, result.Kind, paths[i])
		require.Len(t, result.Diagnostics, 1)
		assert.Equal(t, paths[i], result.Diagnostics[0].Source)
		assert.Contains(t, result.Text, fmt.Sprintf("<bad%d>", i))
	}
}

func TestTrimXML(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name  string
		input string
		opts  []xmlops.Option
		want  string
	}{
		{
			name:  "drops formatting whitespace",
			input: "<root>\n\n     <a   x='1'/>   <b>keep  me</b>\n</root>",
			want: "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
				"<root>\n  <a x=\"1\"/>\n  <b>keep  me</b>\n</root>\n",
		},
		{
			name:  "replaces declaration",
			input: "<?xml version=\"1.0\" standalone=\"yes\"?><root><a/></root>",
			want: "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
				"<root>\n  <a/>\n</root>\n",
		},
		{
			name:  "nested indentation",
			input: "<a><b><c>x</c></b></a>",
			want: "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
				"<a>\n  <b>\n    <c>x</c>\n  </b>\n</a>\n",
		},
		{
			name:  "custom indent",
			input: "<a><b/></a>",
			opts:  []xmlops.Option{xmlops.WithIndent(4)},
			want: "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
				"<a>\n    <b/>\n</a>\n",
		},
		{
			name:  "tabs",
			input: "<a><b/></a>",
			opts:  []xmlops.Option{xmlops.WithTabs(true)},
			want: "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
				"<a>\n\t<b/>\n</a>\n",
		},
		{
			name:  "mixed content untouched",
			input: "<p>Hello <b>world</b>!</p>",
			want: "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
				"<p>Hello <b>world</b>!</p>\n",
		},
		{
			name:  "comments are indented like elements",
			input: "<a>  <!-- note -->  <b/></a>",
			want: "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
				"<a>\n  <!-- note -->\n  <b/>\n</a>\n",
		},
		{
			name:  "whitespace-only leaf kept",
			input: "<a><b>   </b></a>",
			want: "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
				"<a>\n  <b>   </b>\n</a>\n",
		},
		{
			name:  "character references kept as references",
			input: "<a><b>x&#13;y</b><c v=\"1&#10;2&#9;3&#13;\"/></a>",
			want: "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
				"<a>\n  <b>x&#xD;y</b>\n  <c v=\"1&#xA;2&#x9;3&#xD;\"/>\n</a>\n",
		},
		{
			name:  "preserved space untouched",
			input: "<a><pre xml:space=\"preserve\">\n  <b/>\n</pre><c> <d/> </c></a>",
			want: "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
				"<a>\n  <pre xml:space=\"preserve\">\n  <b/>\n</pre>\n  <c>\n    <d/>\n  </c>\n</a>\n",
		},
		{
			name:  "default resets preserve",
			input: "<a xml:space=\"preserve\"> <b xml:space=\"default\"> <c/> </b> </a>",
			want: "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
				"<a xml:space=\"preserve\"> <b xml:space=\"default\">\n    <c/>\n  </b> </a>\n",
		},
		{
			name:  "byte order mark dropped",
			input: "\xef\xbb\xbf<a> <b/> </a>",
			want: "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
				"<a>\n  <b/>\n</a>\n",
		},
		{
			name:  "internal entity expanded",
			input: "<!DOCTYPE a [<!ENTITY e \"x\">]><a><b>&e;</b></a>",
			want: "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
				"<!DOCTYPE a [<!ENTITY e \"x\">]>\n<a>\n  <b>x</b>\n</a>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			in := writeTemp(t, dir, "in.xml", tt.input)
			out := filepath.Join(dir, "out.xml")

			result := xmlops.New(tt.opts...).TrimXML(ctx, in, out, xmlops.TrimOptions{})
			require.True(t, result.OK)
			assert.True(t, result.Written)
			require.NotNil(t, result.Document)

			got, err := os.ReadFile(out)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
			assert.Equal(t, tt.want, string(result.Output))
		})
	}
}

func TestTrimXMLFailures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("missing source", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		out := filepath.Join(dir, "out.xml")
		result := xmlops.TrimXML(ctx, filepath.Join(dir, "missing.xml"), out)

		assert.False(t, result.OK)
		assert.Equal(t, xmlops.KindIO, result.Kind)
		assert.Nil(t, result.Document)
		assert.NoFileExists(t, out)
	})

	t.Run("malformed source", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := writeTemp(t, dir, "in.xml", "<a><b></a>")
		out := filepath.Join(dir, "out.xml")
		result := xmlops.TrimXML(ctx, in, out)

		assert.Equal(t, xmlops.KindSyntax, result.Kind)
		assert.NoFileExists(t, out)
	})

	t.Run("unwritable destination", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := writeTemp(t, dir, "in.xml", "<a/>")
		result := xmlops.TrimXML(ctx, in, filepath.Join(dir, "no", "such", "dir", "out.xml"))

		assert.Equal(t, xmlops.KindIO, result.Kind)
		assert.Nil(t, result.Document)
		assert.False(t, result.Written)
	})
}

func TestTrimXMLOptions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("dry run writes nothing", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := writeTemp(t, dir, "in.xml", "<a> <b/> </a>")
		out := filepath.Join(dir, "out.xml")

		result := xmlops.New().TrimXML(ctx, in, out, xmlops.TrimOptions{DryRun: true})
		require.True(t, result.OK)
		assert.False(t, result.Written)
		assert.NotEmpty(t, result.Output)
		assert.Equal(t, in, result.Document.Path())
		assert.NoFileExists(t, out)
	})

	t.Run("backup of existing output", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := writeTemp(t, dir, "in.xml", "<a> <b/> </a>")
		out := writeTemp(t, dir, "out.xml", "<previous/>")

		result := xmlops.New().TrimXML(ctx, in, out, xmlops.TrimOptions{Backup: true})
		require.True(t, result.OK)

		backup, err := os.ReadFile(fsutil.BackupPath(out))
		require.NoError(t, err)
		assert.Equal(t, "<previous/>", string(backup))
	})

	t.Run("in place", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := writeTemp(t, dir, "doc.xml", "<a>   <b/></a>")

		result := xmlops.TrimXML(ctx, path, path)
		require.True(t, result.OK)

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<a>\n  <b/>\n</a>\n", string(got))
	})
}

func TestTrimXMLRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	minimal := `<catalog version="2"><entry key="a" lang="en">Alpha</entry><entry key="b"/><group><entry key="c">Gamma &amp; Delta</entry></group></catalog>`
	in := writeTemp(t, dir, "in.xml", minimal)
	out := filepath.Join(dir, "out.xml")

	trimmed := xmlops.TrimXML(ctx, in, out)
	require.True(t, trimmed.OK)

	original := xmlops.CheckSyntax(ctx, in)
	require.True(t, original.OK)
	reparsed := xmlops.CheckSyntax(ctx, out)
	require.True(t, reparsed.OK, reparsed.Text)

	assertSameStructure(t, original.Document.Root(), reparsed.Document.Root())
}

func TestTrimXMLIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "mixed document",
			input: "<?xml version=\"1.0\"?>\n<r>\n\t<a  b=\"1\">x</a>\n\n<c><d/><!-- c --></c><p>mixed <i>text</i></p></r>",
		},
		{name: "carriage return in text", input: "<a>x&#13;y</a>"},
		{name: "line feed in attribute", input: `<a v="1&#10;2"/>`},
		{name: "tab in attribute", input: `<a v="1&#9;2"/>`},
		{name: "carriage return in attribute", input: `<a><b v="1&#13;2">x&#9;y&#10;z</b></a>`},
		{name: "preserved space", input: "<a xml:space=\"preserve\">\n <b> <c/> </b>\n</a>"},
		{name: "byte order mark", input: "\xef\xbb\xbf<a> <b/> </a>"},
		{name: "internal entity", input: `<!DOCTYPE a [<!ENTITY e "x">]><a><b>&e;</b></a>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			in := writeTemp(t, dir, "in.xml", tt.input)
			first := filepath.Join(dir, "first.xml")
			second := filepath.Join(dir, "second.xml")

			require.True(t, xmlops.TrimXML(ctx, in, first).OK)
			require.True(t, xmlops.TrimXML(ctx, first, second).OK)

			firstBytes, err := os.ReadFile(first)
			require.NoError(t, err)
			secondBytes, err := os.ReadFile(second)
			require.NoError(t, err)
			assert.Equal(t, string(firstBytes), string(secondBytes))
		})
	}
}

func TestTrimXMLKeepsValues(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	in := writeTemp(t, dir, "in.xml", `<a><b v="1&#10;2&#9;3&#13;4">x&#13;y</b></a>`)
	out := filepath.Join(dir, "out.xml")
	require.True(t, xmlops.TrimXML(ctx, in, out).OK)

	original := xmlops.CheckSyntax(ctx, in)
	require.True(t, original.OK, original.Text)
	trimmed := xmlops.CheckSyntax(ctx, out)
	require.True(t, trimmed.OK, trimmed.Text)

	want := original.Document.Root().SelectElement("b")
	got := trimmed.Document.Root().SelectElement("b")
	require.NotNil(t, got)
	assert.Equal(t, "1\n2\t3\r4", got.SelectAttrValue("v", ""))
	assert.Equal(t, want.SelectAttrValue("v", ""), got.SelectAttrValue("v", ""))
	assert.Equal(t, want.Text(), got.Text())
}

func TestTrimXMLTranscodes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeTemp(t, dir, "in.xml", "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><a><b>caf\xe9</b></a>")
	out := filepath.Join(dir, "out.xml")

	result := xmlops.TrimXML(context.Background(), in, out)
	require.True(t, result.OK)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<a>\n  <b>café</b>\n</a>\n", string(got))
}

func TestValidateXML(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("valid document", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		schema := writeTemp(t, dir, "library.xsd", librarySchema)
		doc := xmlops.CheckSyntax(ctx, writeTemp(t, dir, "library.xml", validLibrary))
		require.True(t, doc.OK)

		result := xmlops.ValidateXML(ctx, doc.Document, schema)
		assert.True(t, result.OK, result.Text)
		assert.Equal(t, xmlops.KindNone, result.Kind)
		assert.Empty(t, result.Text)
	})

	t.Run("missing required attribute", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		schema := writeTemp(t, dir, "library.xsd", librarySchema)
		docPath := writeTemp(t, dir, "library.xml", libraryMissingID)
		doc := xmlops.CheckSyntax(ctx, docPath)
		require.True(t, doc.OK)

		result := xmlops.ValidateXML(ctx, doc.Document, schema)
		assert.False(t, result.OK)
		assert.Equal(t, xmlops.KindSchema, result.Kind)
		require.NotEmpty(t, result.Diagnostics)
		assert.Equal(t, "cvc-complex-type.4", result.Diagnostics[0].Code)
		assert.Equal(t, docPath, result.Diagnostics[0].Source)
		assert.Contains(t, result.Diagnostics[0].Message, "<book>")
		assert.Contains(t, result.Text, "cvc-complex-type.4")
		assert.Contains(t, result.Text, "<book>")
		assert.Contains(t, result.Text, docPath)
	})

	t.Run("byte order marks", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		schema := writeTemp(t, dir, "library.xsd", "\xef\xbb\xbf"+librarySchema)
		doc := xmlops.CheckSyntax(ctx, writeTemp(t, dir, "library.xml", "\xef\xbb\xbf"+validLibrary))
		require.True(t, doc.OK, doc.Text)

		result := xmlops.ValidateXML(ctx, doc.Document, schema)
		assert.True(t, result.OK, result.Text)
		assert.Equal(t, xmlops.KindNone, result.Kind)
	})

	t.Run("malformed schema", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		schema := writeTemp(t, dir, "broken.xsd",
			`<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"><xs:element name="a"></xs:schema>`)
		docPath := writeTemp(t, dir, "library.xml", validLibrary)
		doc := xmlops.CheckSyntax(ctx, docPath)
		require.True(t, doc.OK)

		result := xmlops.ValidateXML(ctx, doc.Document, schema)
		assert.Equal(t, xmlops.KindSyntax, result.Kind)
		assert.Contains(t, result.Text, schema)
		assert.NotContains(t, result.Text, docPath)
	})

	t.Run("missing schema", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		doc := xmlops.CheckSyntax(ctx, writeTemp(t, dir, "library.xml", validLibrary))
		require.True(t, doc.OK)

		result := xmlops.ValidateXML(ctx, doc.Document, filepath.Join(dir, "missing.xsd"))
		assert.Equal(t, xmlops.KindIO, result.Kind)
		assert.Equal(t, xmlops.MsgSchemaIOError, result.Text)
	})

	t.Run("released document", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		schema := writeTemp(t, dir, "library.xsd", librarySchema)
		doc := xmlops.CheckSyntax(ctx, writeTemp(t, dir, "library.xml", validLibrary))
		require.True(t, doc.OK)

		doc.Document.Release()
		assert.True(t, doc.Document.Released())

		result := xmlops.ValidateXML(ctx, doc.Document, schema)
		assert.Equal(t, xmlops.KindIO, result.Kind)
		assert.Equal(t, xmlops.MsgNoDocument, result.Text)
	})

	t.Run("validates the checked bytes, not the file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		schema := writeTemp(t, dir, "library.xsd", librarySchema)
		docPath := writeTemp(t, dir, "library.xml", validLibrary)
		doc := xmlops.CheckSyntax(ctx, docPath)
		require.True(t, doc.OK)

		require.NoError(t, os.WriteFile(docPath, []byte(libraryMissingID), 0o644))

		result := xmlops.ValidateXML(ctx, doc.Document, schema)
		assert.True(t, result.OK, result.Text)
	})
}

func TestCompileSchemaReuse(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	ops := xmlops.New()

	schema, compiled := ops.CompileSchema(ctx, writeTemp(t, dir, "library.xsd", librarySchema))
	require.True(t, compiled.OK)
	require.NotNil(t, schema)

	good := ops.CheckSyntax(ctx, writeTemp(t, dir, "good.xml", validLibrary))
	bad := ops.CheckSyntax(ctx, writeTemp(t, dir, "bad.xml", libraryMissingID))
	require.True(t, good.OK)
	require.True(t, bad.OK)

	assert.True(t, ops.ValidateWith(ctx, good.Document, schema).OK)
	assert.Equal(t, xmlops.KindSchema, ops.ValidateWith(ctx, bad.Document, schema).Kind)
	assert.Equal(t, xmlops.KindIO, ops.ValidateWith(ctx, good.Document, nil).Kind)
}

func TestErrorKindText(t *testing.T) {
	t.Parallel()

	for _, kind := range []xmlops.ErrorKind{xmlops.KindNone, xmlops.KindIO, xmlops.KindSyntax, xmlops.KindSchema} {
		text, err := kind.MarshalText()
		require.NoError(t, err)

		var parsed xmlops.ErrorKind
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, kind, parsed)
	}

	_, err := xmlops.ParseErrorKind("bogus")
	require.Error(t, err)
}

func TestOptions(t *testing.T) {
	t.Parallel()

	ops := xmlops.New()
	assert.Equal(t, xmlops.DefaultIndent, ops.Indent())
	assert.False(t, ops.UseTabs())
	assert.Zero(t, ops.MaxErrors())

	ops = xmlops.New(xmlops.WithIndent(-1), xmlops.WithMaxErrors(5), xmlops.WithTabs(true))
	assert.Equal(t, xmlops.DefaultIndent, ops.Indent())
	assert.Equal(t, 5, ops.MaxErrors())
	assert.True(t, ops.UseTabs())
}

// assertSameStructure compares element names, attributes and text content.
func assertSameStructure(t *testing.T, want, got *etree.Element) {
	t.Helper()

	require.NotNil(t, want)
	require.NotNil(t, got)
	assert.Equal(t, want.FullTag(), got.FullTag())
	assert.Equal(t, attrMap(want), attrMap(got), want.GetPath())
	assert.Equal(t, strings.TrimSpace(want.Text()), strings.TrimSpace(got.Text()), want.GetPath())

	wantChildren := want.ChildElements()
	gotChildren := got.ChildElements()
	require.Len(t, gotChildren, len(wantChildren), want.GetPath())
	for i := range wantChildren {
		assertSameStructure(t, wantChildren[i], gotChildren[i])
	}
}

func attrMap(elem *etree.Element) map[string]string {
	attrs := make(map[string]string, len(elem.Attr))
	for _, attr := range elem.Attr {
		attrs[attr.FullKey()] = attr.Value
	}
	return attrs
}

func FuzzCheckBytes(f *testing.F) {
	f.Add([]byte("<a/>"))
	f.Add([]byte("<a><b></a>"))
	f.Add([]byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><a>\xe9</a>"))
	f.Add([]byte("<a>&undefined;</a>"))
	f.Add([]byte(""))

	ops := xmlops.New(xmlops.WithMaxErrors(5))

	f.Fuzz(func(t *testing.T, data []byte) {
		result := ops.CheckBytes("fuzz.xml", data)

		assert.Equal(t, result.OK, result.Document != nil)
		if result.OK {
			assert.Equal(t, xmlops.KindNone, result.Kind)
			assert.Empty(t, result.Text)
			result.Document.Release()
			return
		}
		assert.Equal(t, xmlops.KindSyntax, result.Kind)
		assert.LessOrEqual(t, result.Diagnostics.Len(), 5)
	})
}
