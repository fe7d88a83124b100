package xmlops

import (
	"bytes"
	"fmt"

	"github.com/beevik/etree"
)

// Document is a parsed XML tree together with the bytes it was parsed from.
//
// The operation that creates a Document transfers ownership to the caller.
// Validation only borrows it. Release drops the tree and the bytes; a
// released document can no longer be validated.
type Document struct {
	tree   *etree.Document
	source []byte
	path   string
}

// Path returns the file the document was read from.
func (d *Document) Path() string {
	if d == nil {
		return ""
	}
	return d.path
}

// Tree returns the parsed element tree, or nil after Release.
func (d *Document) Tree() *etree.Document {
	if d == nil {
		return nil
	}
	return d.tree
}

// Root returns the document element, or nil after Release.
func (d *Document) Root() *etree.Element {
	if d == nil || d.tree == nil {
		return nil
	}
	return d.tree.Root()
}

// Bytes returns the UTF-8 bytes backing the document, without a byte order
// mark. They match the file line for line. The slice must not be modified.
func (d *Document) Bytes() []byte {
	if d == nil {
		return nil
	}
	return d.source
}

// Released reports whether the document has been released or was never set.
func (d *Document) Released() bool {
	return d == nil || d.tree == nil
}

// Release drops the parsed tree and source bytes. It is safe to call more
// than once and on a nil document.
func (d *Document) Release() {
	if d == nil {
		return
	}
	d.tree = nil
	d.source = nil
}

// parseTree builds an etree document from a scanned document.
func parseTree(doc wellFormed) (*etree.Document, error) {
	tree := etree.NewDocument()
	tree.ReadSettings = etree.ReadSettings{
		CharsetReader: charsetReader,
		Entity:        doc.entities,
	}
	if err := tree.ReadFromBytes(doc.text); err != nil {
		return nil, fmt.Errorf("build tree: %w", err)
	}
	return tree, nil
}

func newDocument(path string, doc wellFormed) (*Document, error) {
	tree, err := parseTree(doc)
	if err != nil {
		return nil, err
	}
	return &Document{tree: tree, source: bytes.Clone(doc.text), path: path}, nil
}
