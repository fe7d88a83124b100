package xmlops

import (
	"bytes"
	"errors"
	"io"
	"regexp"
	"strings"

	"github.com/jacoelho/xsd/pkg/xmltext"

	"github.com/emredjan/xml-validation/pkg/diag"
)

// wellFormed is a document that passed scanWellFormed.
type wellFormed struct {
	// text is the document transcoded to UTF-8.
	text     []byte
	entities map[string]string
}

// checkWellFormed transcodes data to UTF-8 and scans it. Failures are
// reported to c.
func checkWellFormed(data []byte, c *diag.Collector) (wellFormed, bool) {
	text, err := toUTF8(data)
	if err != nil {
		c.Addf(1, 1, "%v", err)
		return wellFormed{}, false
	}

	entities := internalEntities(text)
	if !scanWellFormed(text, entities, c) {
		return wellFormed{}, false
	}
	return wellFormed{text: text, entities: entities}, true
}

// scanWellFormed reads every token of data, which must already be UTF-8,
// with a strict decoder and reports the first fatal error to c. It returns
// true when the document is well-formed. Parsing stops at the first fatal
// error, so at most one diagnostic is produced.
//
// Named entities other than the predefined five must be declared in
// entities.
func scanWellFormed(data []byte, entities map[string]string, c *diag.Collector) bool {
	dec := xmltext.NewDecoder(bytes.NewReader(data),
		xmltext.Strict(true),
		xmltext.WithCharsetReader(charsetReader),
		xmltext.WithEntityMap(entities),
	)

	var tok xmltext.Token
	for {
		err := dec.ReadTokenInto(&tok)
		if errors.Is(err, io.EOF) {
			return true
		}
		if err != nil {
			reportSyntaxError(err, c)
			return false
		}
	}
}

func reportSyntaxError(err error, c *diag.Collector) {
	var syntaxErr *xmltext.SyntaxError
	if !errors.As(err, &syntaxErr) {
		c.Addf(1, 1, "%v", err)
		return
	}

	message := "malformed XML"
	if syntaxErr.Err != nil {
		message = syntaxErr.Err.Error()
	}
	if open := innermost(syntaxErr.Path); open != "" {
		message += " in <" + open + ">"
	}
	c.Add(diag.Diagnostic{
		Line:    syntaxErr.Line,
		Column:  syntaxErr.Column,
		Message: message,
		Path:    syntaxErr.Path,
	})
}

// innermost returns the local name of the last step of a decoder stack
// path such as "/a[0]/b[1]".
func innermost(path string) string {
	step := path[strings.LastIndexByte(path, '/')+1:]
	if i := strings.IndexByte(step, '['); i >= 0 {
		step = step[:i]
	}
	return step
}

var (
	doctypeStart   = []byte("<!DOCTYPE")
	internalSubset = []byte("]>")
	entityDecl     = regexp.MustCompile(`<!ENTITY\s+([^\s%"'>]+)\s+(?:"([^"]*)"|'([^']*)')\s*>`)
)

// internalEntities returns the internal general entities declared in the
// DOCTYPE internal subset of data, or nil when there are none. Parameter
// and external entities are not collected.
func internalEntities(data []byte) map[string]string {
	start := bytes.Index(data, doctypeStart)
	if start < 0 {
		return nil
	}
	end := bytes.Index(data[start:], internalSubset)
	if end < 0 {
		return nil
	}

	var entities map[string]string
	for _, m := range entityDecl.FindAllSubmatch(data[start:start+end], -1) {
		if entities == nil {
			entities = make(map[string]string)
		}
		name := string(m[1])
		if _, seen := entities[name]; seen {
			// The first declaration is binding.
			continue
		}
		entities[name] = string(m[2]) + string(m[3])
	}
	return entities
}
