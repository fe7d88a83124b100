package xmlops

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/emredjan/xml-validation/internal/logging"
	"github.com/emredjan/xml-validation/pkg/diag"
	"github.com/emredjan/xml-validation/pkg/fsutil"
)

// xmlDeclaration is written at the top of every trimmed document.
const xmlDeclaration = `version="1.0" encoding="UTF-8"`

// TrimOptions controls how TrimXML writes its output.
type TrimOptions struct {
	// Backup copies an existing output file to a sidecar backup first.
	Backup bool

	// DryRun computes the output without writing anything.
	DryRun bool
}

// TrimXML re-parses pathIn, drops formatting-only whitespace, re-indents the
// tree and writes it to pathOut as UTF-8 with an XML declaration.
//
// The source is always read and parsed again, independent of any earlier
// CheckSyntax. A failed trim never leaves a partial output file.
func (o *Operations) TrimXML(ctx context.Context, pathIn, pathOut string, opts TrimOptions) TrimResult {
	start := time.Now()
	logger := o.log(ctx)

	data, info, err := fsutil.ReadFile(ctx, pathIn)
	if err != nil {
		logger.Debug("xml read failed", logging.FieldPath, pathIn, logging.FieldError, err)
		return TrimResult{Kind: KindIO}
	}

	scanned, ok := checkWellFormed(data, diag.NewCollector(pathIn, 1))
	if !ok {
		return TrimResult{Kind: KindSyntax}
	}

	tree, err := parseTree(scanned)
	if err != nil {
		logger.Debug("tree build failed", logging.FieldPath, pathIn, logging.FieldError, err)
		return TrimResult{Kind: KindSyntax}
	}

	output, err := o.serialize(tree)
	if err != nil {
		logger.Debug("serialize failed", logging.FieldPath, pathIn, logging.FieldError, err)
		return TrimResult{Kind: KindIO}
	}

	docPath := pathOut
	if opts.DryRun {
		docPath = pathIn
	}
	result := TrimResult{
		OK:       true,
		Kind:     KindNone,
		Document: &Document{tree: tree, source: output, path: docPath},
		Output:   output,
	}
	if opts.DryRun {
		return result
	}

	if err := o.writeOutput(ctx, pathIn, pathOut, info, output, opts); err != nil {
		logger.Debug("write failed", logging.FieldOutput, pathOut, logging.FieldError, err)
		result.Document.Release()
		return TrimResult{Kind: KindIO}
	}
	result.Written = true

	logger.Debug("trimmed",
		logging.FieldInput, pathIn,
		logging.FieldOutput, pathOut,
		logging.FieldDuration, time.Since(start),
	)
	return result
}

func (o *Operations) writeOutput(
	ctx context.Context,
	pathIn, pathOut string,
	info *fsutil.FileInfo,
	output []byte,
	opts TrimOptions,
) error {
	if samePath(pathIn, pathOut) {
		modified, err := fsutil.CheckModified(ctx, info)
		if err != nil {
			return fmt.Errorf("check source: %w", err)
		}
		if modified {
			return fmt.Errorf("%s changed while trimming", pathIn)
		}
	}

	if opts.Backup {
		cfg := fsutil.DefaultBackupConfig()
		cfg.Enabled = true
		if _, err := fsutil.CreateBackup(ctx, pathOut, cfg); err != nil {
			return fmt.Errorf("backup: %w", err)
		}
	}

	mode := fsutil.DefaultFileMode
	if samePath(pathIn, pathOut) {
		mode = info.Mode.Perm()
	}
	if _, err := fsutil.WriteAtomicIfChanged(ctx, pathOut, output, mode); err != nil {
		return fmt.Errorf("write %s: %w", pathOut, err)
	}
	return nil
}

// serialize replaces the XML declaration, re-indents the tree and renders it.
func (o *Operations) serialize(tree *etree.Document) ([]byte, error) {
	setDeclaration(tree)

	unit := strings.Repeat(" ", o.indent)
	if o.useTabs {
		unit = "\t"
	}
	reindent(&tree.Element, 0, unit, false)

	// Character references for CR, and for tab, LF and CR in attributes,
	// must survive the next parse unchanged.
	tree.WriteSettings.CanonicalText = true
	tree.WriteSettings.CanonicalAttrVal = true

	out, err := tree.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serialize: %w", err)
	}
	return out, nil
}

// setDeclaration drops any existing <?xml ...?> declaration and inserts a
// UTF-8 one as the first token.
func setDeclaration(tree *etree.Document) {
	for i := len(tree.Child) - 1; i >= 0; i-- {
		if pi, ok := tree.Child[i].(*etree.ProcInst); ok && pi.Target == "xml" {
			tree.RemoveChildAt(i)
		}
	}
	tree.InsertChildAt(0, etree.NewProcInst("xml", xmlDeclaration))
}

// reindent strips whitespace-only text between tokens and inserts one
// newline plus depth indentation before each child. Elements with mixed
// content or text-only content are left untouched, along with their subtree.
// Elements in the scope of xml:space="preserve" keep their whitespace, but
// descendants that switch back to xml:space="default" are re-indented.
func reindent(elem *etree.Element, depth int, unit string, preserve bool) {
	if preserve = spacePreserved(elem, preserve); preserve {
		for _, child := range elem.ChildElements() {
			reindent(child, depth+1, unit, true)
		}
		return
	}
	if !indentable(elem) {
		return
	}

	for i := len(elem.Child) - 1; i >= 0; i-- {
		if isBlank(elem.Child[i]) {
			elem.RemoveChildAt(i)
		}
	}

	for i := len(elem.Child) - 1; i >= 0; i-- {
		if child, ok := elem.Child[i].(*etree.Element); ok {
			reindent(child, depth+1, unit, preserve)
		}
		if depth == 0 && i == 0 {
			continue
		}
		elem.InsertChildAt(i, etree.NewText(newline(depth, unit)))
	}

	elem.InsertChildAt(len(elem.Child), etree.NewText(newline(max(depth-1, 0), unit)))
}

// spacePreserved applies the xml:space attribute of elem, if any, to the
// inherited setting.
func spacePreserved(elem *etree.Element, inherited bool) bool {
	attr := elem.SelectAttr("xml:space")
	if attr == nil {
		return inherited
	}
	switch attr.Value {
	case "preserve":
		return true
	case "default":
		return false
	}
	return inherited
}

// indentable reports whether elem holds only markup children separated by
// whitespace. Text-only elements keep their whitespace.
func indentable(elem *etree.Element) bool {
	markup := false
	for _, tok := range elem.Child {
		if cd, ok := tok.(*etree.CharData); ok {
			if !isBlank(cd) {
				return false
			}
			continue
		}
		markup = true
	}
	return markup
}

func isBlank(tok etree.Token) bool {
	cd, ok := tok.(*etree.CharData)
	return ok && !cd.IsCData() && strings.TrimSpace(cd.Data) == ""
}

func newline(level int, unit string) string {
	return "\n" + strings.Repeat(unit, level)
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
