package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/emredjan/xml-validation/internal/session"
	"github.com/emredjan/xml-validation/internal/ui/pretty"
	"github.com/emredjan/xml-validation/pkg/config"
)

const shellPrompt = "xmltools> "

const shellHelp = `Commands:
  xml PATH       select the XML file
  xsd PATH       select the XSD schema
  check          check the XML file for well-formedness
  trim [OUT]     write a trimmed copy (default <name>_trimmed<ext>)
  validate       validate the checked document against the schema
  save [PATH]    save the last error details (default error_details.log)
  status         show the selected files and the last status
  details        show the last error details
  help           show this help
  quit           leave the shell`

// lineReader yields one input line at a time.
type lineReader interface {
	ReadLine() (string, error)
}

// scannerLines reads lines from a non-terminal input.
type scannerLines struct {
	scanner *bufio.Scanner
}

func (s *scannerLines) ReadLine() (string, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

func newShellCommand() *cobra.Command {
	var xmlPath, schemaPath string

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive check, trim and validate session",
		Long: `Start an interactive session that keeps the selected XML and XSD files
and the checked document between commands.

Select a file with "xml PATH", check it, then validate it against the
schema selected with "xsd PATH". Type "help" for the list of commands.
When input is not a terminal, commands are read one per line.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd, xmlPath, schemaPath)
		},
	}

	cmd.Flags().StringVar(&xmlPath, "xml", "", "XML file to start with")
	cmd.Flags().StringVar(&schemaPath, "xsd", "", "XSD schema to start with (default from config)")

	return cmd
}

func runShell(cmd *cobra.Command, xmlPath, schemaPath string) error {
	ctx := commandContext(cmd)

	cfg, err := loadConfig(cmd, &config.Config{})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	colorEnabled := pretty.IsColorEnabled(string(cfg.Color), out)

	var lines lineReader
	if in, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(in.Fd())) {
		state, err := term.MakeRaw(int(in.Fd()))
		if err != nil {
			return fmt.Errorf("enter raw mode: %w", err)
		}
		defer func() { _ = term.Restore(int(in.Fd()), state) }()

		terminal := term.NewTerminal(struct {
			io.Reader
			io.Writer
		}{in, out}, shellPrompt)
		if width, height, err := term.GetSize(int(in.Fd())); err == nil {
			_ = terminal.SetSize(width, height)
		}
		lines = terminal
		out = terminal
	} else {
		lines = &scannerLines{scanner: bufio.NewScanner(cmd.InOrStdin())}
	}

	sess := session.New(newOperations(ctx, cfg),
		session.WithOutputSuffix(cfg.OutputSuffix),
		session.WithLogFile(cfg.LogFile),
		session.WithBackup(cfg.BackupValue()),
	)
	defer sess.Close()

	if xmlPath != "" {
		sess.SetXMLPath(xmlPath)
	}
	if schemaPath == "" {
		schemaPath = cfg.Schema
	}
	if schemaPath != "" {
		sess.SetSchemaPath(schemaPath)
	}

	sh := &shell{
		session: sess,
		styles:  pretty.NewStyles(colorEnabled),
		out:     out,
	}
	return sh.run(ctx, lines)
}

// shell dispatches interactive commands to a session.
type shell struct {
	session *session.Session
	styles  *pretty.Styles
	out     io.Writer
}

func (sh *shell) run(ctx context.Context, lines lineReader) error {
	sh.printStatus(sh.session.Status())

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("shell: %w", err)
		}

		line, err := lines.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if quit := sh.execute(ctx, line); quit {
			return nil
		}
	}
}

// execute runs one command line and reports whether the shell should exit.
func (sh *shell) execute(ctx context.Context, line string) bool {
	name, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = unquote(strings.TrimSpace(arg))

	switch strings.ToLower(name) {
	case "":
	case "xml":
		if arg == "" {
			sh.println(sh.styles.Failure.Render("usage: xml PATH"))
			break
		}
		sh.session.SetXMLPath(arg)
		sh.println(sh.styles.Dim.Render("XML file: ") + sh.styles.FilePath.Render(arg))
	case "xsd":
		if arg == "" {
			sh.println(sh.styles.Failure.Render("usage: xsd PATH"))
			break
		}
		sh.session.SetSchemaPath(arg)
		sh.println(sh.styles.Dim.Render("XSD file: ") + sh.styles.FilePath.Render(arg))
	case "check":
		status, _ := sh.session.Check(ctx)
		sh.printStatus(status)
	case "trim":
		status, _ := sh.session.Trim(ctx, arg)
		sh.printStatus(status)
	case "validate":
		status, _ := sh.session.Validate(ctx)
		sh.printStatus(status)
	case "save":
		status, _ := sh.session.SaveLog(ctx, arg)
		sh.printStatus(status)
	case "status":
		sh.println(sh.styles.Dim.Render("XML file: ") + orNone(sh.session.XMLPath()))
		sh.println(sh.styles.Dim.Render("XSD file: ") + orNone(sh.session.SchemaPath()))
		sh.printStatus(sh.session.Status())
	case "details":
		if details := sh.session.LastError(); details != "" {
			sh.println(details)
		} else {
			sh.println(sh.styles.Dim.Render("No error details."))
		}
	case "help", "?":
		sh.println(shellHelp)
	case "quit", "exit", "q":
		return true
	default:
		sh.println(sh.styles.Failure.Render(fmt.Sprintf("unknown command %q; type help for a list", name)))
	}
	return false
}

func (sh *shell) printStatus(status session.Status) {
	sh.println(sh.styles.FormatStatus(status))
}

func (sh *shell) println(text string) {
	fmt.Fprintln(sh.out, text)
}

func orNone(path string) string {
	if path == "" {
		return "(none)"
	}
	return path
}

// unquote strips one pair of matching surrounding quotes.
func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
