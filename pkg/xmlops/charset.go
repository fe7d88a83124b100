package xmlops

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}

	// "<?" without a byte order mark.
	prologUTF16BE = []byte{0x00, 0x3C, 0x00, 0x3F}
	prologUTF16LE = []byte{0x3C, 0x00, 0x3F, 0x00}
)

// charsetReader decodes documents whose prolog declares a non-UTF-8
// encoding. Labels are resolved through the IANA character set registry.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	if isUTF8Label(label) {
		return input, nil
	}

	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", label, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", label)
	}

	return transform.NewReader(input, enc.NewDecoder()), nil
}

var declEncoding = regexp.MustCompile(`^(\s*<\?xml[^>]*?encoding\s*=\s*["'])([A-Za-z0-9._:-]+)(["'])`)

// toUTF8 returns data as UTF-8 without a byte order mark. UTF-16 is
// detected from its byte order mark or the shape of "<?"; other encodings
// come from the declaration. A transcoded document gets its declaration's
// encoding label rewritten to UTF-8. Line structure is preserved.
func toUTF8(data []byte) ([]byte, error) {
	if rest, ok := bytes.CutPrefix(data, bomUTF8); ok {
		return rest, nil
	}

	if enc := utf16Encoding(data); enc != nil {
		decoded, err := enc.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("decode UTF-16: %w", err)
		}
		return relabel(decoded), nil
	}

	match := declEncoding.FindSubmatchIndex(data)
	if match == nil {
		return data, nil
	}
	label := string(data[match[4]:match[5]])
	switch {
	case isUTF8Label(label):
		return data, nil
	case strings.HasPrefix(strings.ToLower(label), "utf-16"):
		// The bytes are not UTF-16 shaped, so the label is wrong.
		return relabel(data), nil
	}

	reader, err := charsetReader(label, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", label, err)
	}
	return relabel(decoded), nil
}

// utf16Encoding returns the UTF-16 variant data is written in, or nil.
func utf16Encoding(data []byte) encoding.Encoding {
	switch {
	case bytes.HasPrefix(data, bomUTF16BE):
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM)
	case bytes.HasPrefix(data, bomUTF16LE):
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)
	case bytes.HasPrefix(data, prologUTF16BE):
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	case bytes.HasPrefix(data, prologUTF16LE):
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	}
	return nil
}

func relabel(decoded []byte) []byte {
	return declEncoding.ReplaceAll(decoded, []byte("${1}UTF-8${3}"))
}

func isUTF8Label(label string) bool {
	switch strings.ToLower(label) {
	case "utf-8", "utf8", "us-ascii", "ascii":
		return true
	}
	return false
}
