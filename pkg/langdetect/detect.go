// Package langdetect recognizes XML documents among arbitrary files.
// It uses go-enry so that files with XML content but unusual extensions
// (.xsd, .svg, .plist, .csproj, ...) are picked up by directory discovery.
package langdetect

import (
	"bytes"

	"github.com/go-enry/go-enry/v2"
)

// sniffLen is how much of a file Detect inspects.
const sniffLen = 8 << 10

// xmlLanguages are go-enry language names whose files are XML documents.
//
//nolint:gochecknoglobals // Read-only lookup table.
var xmlLanguages = map[string]bool{
	"XML":                   true,
	"XML Property List":     true,
	"XSLT":                  true,
	"SVG":                   true,
	"Maven POM":             true,
	"Ant Build System":      true,
	"XPages":                true,
	"Web Ontology Language": true,
}

// Detect returns the language of a file, or "" when none is certain.
// content may be a prefix of the file.
//
// An XML declaration wins outright. Otherwise only go-enry's unambiguous
// strategies are consulted, never its statistical classifier.
func Detect(path string, content []byte) string {
	if len(content) > sniffLen {
		content = content[:sniffLen]
	}
	if hasXMLProlog(content) {
		return "XML"
	}
	if enry.IsBinary(content) {
		return ""
	}
	if lang, safe := enry.GetLanguageByFilename(path); safe {
		return lang
	}
	if lang, safe := enry.GetLanguageByExtension(path); safe {
		return lang
	}
	if lang, safe := enry.GetLanguageByContent(path, content); safe {
		return lang
	}
	return ""
}

// IsXML reports whether a file looks like an XML document.
func IsXML(path string, content []byte) bool {
	return xmlLanguages[Detect(path, content)]
}

// IsXMLByName reports whether the file name alone identifies XML.
// Ambiguous extensions such as .ts never match.
func IsXMLByName(path string) bool {
	lang, safe := enry.GetLanguageByExtension(path)
	return safe && xmlLanguages[lang]
}

// IsVendored reports whether path is in a vendored or third-party location.
func IsVendored(path string) bool {
	return enry.IsVendor(path)
}

// hasXMLProlog reports whether content opens with an XML declaration,
// optionally after a UTF-8 byte order mark.
func hasXMLProlog(content []byte) bool {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	return bytes.HasPrefix(content, []byte("<?xml ")) ||
		bytes.HasPrefix(content, []byte("<?xml\t")) ||
		bytes.HasPrefix(content, []byte("<?xml\n")) ||
		bytes.HasPrefix(content, []byte("<?xml\r"))
}
