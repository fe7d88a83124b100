//go:build stave

package main

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const binary = "bin/xmltools"

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":   Build,
	"t":   Test.Default,
	"l":   Lint.Default,
	"c":   Check,
	"s":   Smoke,
	"fmt": Lint.Fmt,
}

type (
	Test st.Namespace
	Lint st.Namespace
	CI   st.Namespace
)

// Build compiles xmltools with version info when sources changed.
func Build() error {
	rebuild, err := target.Dir(binary, "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println(binary, "is up to date")
		return nil
	}
	fmt.Println("Building xmltools...")
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binary, "./cmd/xmltools")
}

// Install runs go install for the xmltools command.
func Install() error {
	fmt.Println("Installing xmltools...")
	return sh.RunV("go", "install", "-ldflags", ldflags(), "./cmd/xmltools")
}

// Check formats, lints and tests.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Default)
}

// Clean removes build and coverage output.
func Clean() error {
	for _, path := range []string{"bin", "coverage.out", "coverage.html"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// Smoke builds the binary and runs check, trim and validate against a
// scratch document and schema.
func Smoke() error {
	st.Deps(Build)

	dir, err := os.MkdirTemp("", "xmltools-smoke-")
	if err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	doc := filepath.Join(dir, "note.xml")
	schema := filepath.Join(dir, "note.xsd")
	if err := os.WriteFile(doc, []byte(smokeDocument), 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	if err := os.WriteFile(schema, []byte(smokeSchema), 0o644); err != nil {
		return fmt.Errorf("write schema: %w", err)
	}

	steps := [][]string{
		{"check", "--no-config", dir},
		{"trim", "--no-config", doc, "--diff"},
		{"trim", "--no-config", doc},
		{"validate", "--no-config", doc, "--schema", schema},
		{"validate", "--no-config", dir, "--schema", schema, "--format", "summary"},
	}
	for _, args := range steps {
		fmt.Println("\n$ xmltools", strings.Join(args, " "))
		if err := sh.RunV(binary, args...); err != nil {
			return fmt.Errorf("xmltools %s: %w", args[0], err)
		}
	}
	return nil
}

const smokeDocument = `<note id="1">
      <to>Tove</to>
</note>`

const smokeSchema = `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:element name="note">
    <xs:complexType>
      <xs:sequence>
        <xs:element name="to" type="xs:string"/>
      </xs:sequence>
      <xs:attribute name="id" type="xs:string" use="required"/>
    </xs:complexType>
  </xs:element>
</xs:schema>`

// Default runs all tests through gotestsum with the race detector and
// coverage. TEST_FORMAT overrides the gotestsum format.
func (Test) Default() error {
	fmt.Println("Running tests...")
	procs := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	return sh.RunV("go",
		"tool", "gotestsum",
		"-f", cmp.Or(os.Getenv("TEST_FORMAT"), "pkgname-and-test-fails"),
		"--",
		"-race",
		"-p", procs,
		"-parallel", procs,
		"-coverprofile=coverage.out",
		"-covermode=atomic",
		"./...",
	)
}

// Fuzz runs the fsutil fuzz targets for a short while each.
func (Test) Fuzz() error {
	for _, fuzz := range []string{"FuzzWriteAtomic", "FuzzBackupRestore"} {
		fmt.Println("Fuzzing", fuzz, "...")
		if err := sh.RunV("go", "test", "-run=^$", "-fuzz=^"+fuzz+"$", "-fuzztime=20s", "./pkg/fsutil"); err != nil {
			return err
		}
	}
	return nil
}

// Bench runs the Go benchmarks.
func (Test) Bench() error {
	return sh.RunV("go", "test", "-run=^$", "-bench=.", "-benchmem", "./...")
}

// Default runs golangci-lint with auto-fix.
func (Lint) Default() error {
	fmt.Println("Running linters...")
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// Fmt formats all Go code.
func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-w", ".")
}

// FmtCheck fails when any file needs formatting.
func (Lint) FmtCheck() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return fmt.Errorf("gofmt: %w", err)
	}
	if out != "" {
		return fmt.Errorf("unformatted files:\n%s", out)
	}
	return nil
}

// Gate runs everything CI checks, in order.
func (CI) Gate() {
	st.SerialDeps(Lint.FmtCheck, CI.Vet, CI.Lint, Build, Test.Default, CI.Tidy, CI.Cross, Smoke)
}

// Vet runs go vet.
func (CI) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Lint runs golangci-lint without fixing anything.
func (CI) Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Tidy fails when go mod tidy would change go.mod or go.sum.
func (CI) Tidy() error {
	files := []string{"go.mod", "go.sum"}
	before := make(map[string]string, len(files))
	for _, name := range files {
		content, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		before[name] = string(content)
	}

	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}

	for _, name := range files {
		content, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if string(content) != before[name] {
			return errors.New(name + " is not tidy; run go mod tidy and commit the result")
		}
	}
	return nil
}

// Cross builds the command for every release platform.
func (CI) Cross() error {
	for _, platform := range []string{
		"linux/amd64", "linux/arm64",
		"darwin/amd64", "darwin/arm64",
		"windows/amd64", "freebsd/amd64",
	} {
		goos, goarch, _ := strings.Cut(platform, "/")
		fmt.Println("  building", platform)
		env := map[string]string{"GOOS": goos, "GOARCH": goarch, "CGO_ENABLED": "0"}
		if err := sh.RunWith(env, "go", "build", "-o", os.DevNull, "./cmd/xmltools"); err != nil {
			return fmt.Errorf("build %s: %w", platform, err)
		}
	}
	return nil
}

// ldflags injects version, commit and build date into main.
func ldflags() string {
	version := cmp.Or(git("describe", "--tags", "--always", "--dirty"), "dev")
	commit := cmp.Or(git("rev-parse", "--short", "HEAD"), "none")
	date := time.Now().UTC().Format(time.RFC3339)
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s", version, commit, date)
}

func git(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}
