package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"github.com/emredjan/xml-validation/pkg/langdetect"
)

// sniffBytes is how much of a file is read for content classification.
const sniffBytes = 512

// Discover resolves opts.Paths to a sorted, deduplicated list of absolute
// file paths. Directories are walked for XML files; files named explicitly
// are always included, even when they do not exist, so that processing
// reports them as I/O failures.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	d := &discoverer{
		workDir:    workDir,
		extensions: opts.effectiveExtensions(),
		detect:     opts.DetectContent,
		follow:     opts.FollowSymlinks,
		seen:       make(map[string]struct{}),
	}
	if d.include, err = compileGlobs(opts.IncludeGlobs); err != nil {
		return nil, err
	}
	if d.exclude, err = compileGlobs(opts.ExcludeGlobs); err != nil {
		return nil, err
	}

	for _, input := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		path := input
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}
		path = filepath.Clean(path)

		if info, statErr := os.Stat(path); statErr != nil || !info.IsDir() {
			d.add(path)
			continue
		}
		if err := d.walk(ctx, path); err != nil {
			return nil, err
		}
	}

	slices.Sort(d.files)
	return d.files, nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return abs, nil
}

// discoverer accumulates files across the requested paths.
type discoverer struct {
	workDir    string
	extensions []string
	detect     bool
	follow     bool
	include    globSet
	exclude    globSet

	seen  map[string]struct{}
	files []string
}

func (d *discoverer) add(path string) {
	if _, ok := d.seen[path]; ok {
		return
	}
	d.seen[path] = struct{}{}
	d.files = append(d.files, path)
}

// walk adds the XML files under root. Hidden entries are skipped, and
// unreadable directories are ignored.
func (d *discoverer) walk(ctx context.Context, root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				return nil
			}
			return walkErr
		}

		hidden := strings.HasPrefix(entry.Name(), ".") && path != root
		rel := d.rel(path)

		switch {
		case entry.IsDir():
			if hidden || d.exclude.matchDir(rel) {
				return filepath.SkipDir
			}
			return nil
		case hidden:
			return nil
		case entry.Type()&fs.ModeSymlink != 0:
			return d.symlink(ctx, path, rel)
		}

		if d.matches(path, rel) {
			d.add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

// symlink handles a link found while walking. Links to directories are
// walked at their target only when following is enabled; broken links are
// skipped.
func (d *discoverer) symlink(ctx context.Context, path, rel string) error {
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil //nolint:nilerr // broken link
	}
	info, err := os.Stat(target)
	if err != nil {
		return nil //nolint:nilerr // unreachable target
	}

	if !info.IsDir() {
		if d.matches(path, rel) {
			d.add(path)
		}
		return nil
	}
	if !d.follow || d.exclude.matchDir(rel) {
		return nil
	}
	// WalkDir does not descend into links, so walk the resolved target.
	return d.walk(ctx, target)
}

// matches applies the extension or content test, then the globs.
func (d *discoverer) matches(path, rel string) bool {
	if !d.hasExtension(path) && !isXMLFile(path, d.detect) {
		return false
	}
	if d.exclude.match(rel) {
		return false
	}
	return len(d.include) == 0 || d.include.match(rel)
}

func (d *discoverer) hasExtension(path string) bool {
	ext := filepath.Ext(path)
	return slices.ContainsFunc(d.extensions, func(e string) bool {
		return strings.EqualFold(e, ext)
	})
}

// rel returns path relative to the working directory in slash form, or
// path itself when it lies elsewhere.
func (d *discoverer) rel(path string) string {
	rel, err := filepath.Rel(d.workDir, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}

// isXMLFile classifies a file by name and, when sniff is set, by its
// first bytes.
func isXMLFile(path string, sniff bool) bool {
	if langdetect.IsXMLByName(path) {
		return true
	}
	if !sniff {
		return false
	}

	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	head := make([]byte, sniffBytes)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false
	}
	return langdetect.IsXML(path, head[:n])
}

// globSet is a list of compiled patterns. A pattern matches a slash path
// when it matches the whole path or the base name; "**" crosses
// directories and a leading "**/" also matches at the top level.
type globSet []glob.Glob

func compileGlobs(patterns []string) (globSet, error) {
	set := make(globSet, 0, len(patterns))
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		variants := []string{pattern}
		if trimmed, ok := strings.CutPrefix(pattern, "**/"); ok {
			variants = append(variants, trimmed)
		}
		for _, v := range variants {
			g, err := glob.Compile(v, '/')
			if err != nil {
				return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
			}
			set = append(set, g)
		}
	}
	return set, nil
}

func (s globSet) match(rel string) bool {
	base := rel[strings.LastIndexByte(rel, '/')+1:]
	for _, g := range s {
		if g.Match(rel) || g.Match(base) {
			return true
		}
	}
	return false
}

// matchDir also tries rel with a trailing slash so that "dir/**" prunes
// dir itself.
func (s globSet) matchDir(rel string) bool {
	if s.match(rel) {
		return true
	}
	for _, g := range s {
		if g.Match(rel + "/") {
			return true
		}
	}
	return false
}
