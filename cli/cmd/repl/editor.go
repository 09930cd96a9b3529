package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/symscope/lang"
	"github.com/ardnew/symscope/log"
)

const defaultEditor = "vi"

// editScopeCommand implements [tea.ExecCommand] for the edit-parse-retry
// loop over the session scope. The scope is written as assignment
// statements to a temp file, the user's editor opens it, and the result is
// parsed back. On a parse error the user is asked to edit again; declining
// ends the session.
type editScopeCommand struct {
	scope    lang.Scope
	ctxFunc  func() context.Context
	newScope lang.Scope
	logger   log.Logger
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
}

func (c *editScopeCommand) SetStdin(r io.Reader)  { c.stdin = r }
func (c *editScopeCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *editScopeCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the loop. It returns [ErrEditDeclined] if the user does not
// fix a parse error, and leaves newScope nil if the file was emptied.
func (c *editScopeCommand) Run() error {
	ctx := c.ctxFunc()
	content := formatScope(c.scope)

	f, err := os.CreateTemp("", "symscope-*.scope")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Close(); err != nil {
		return err
	}

	for {
		if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath); err != nil {
			return err
		}

		data, err := os.ReadFile(tmpPath)
		if err != nil {
			return err
		}

		content = string(data)

		scope, parseErr := parseScope(ctx, content, c.logger)
		c.logger.TraceContext(ctx, "editor parse attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", parseErr == nil),
		)

		if parseErr == nil {
			c.newScope = scope

			return nil
		}

		fmt.Fprintf(c.stderr, "\n%s\n", parseErr)
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

// formatScope writes each binding as an assignment statement, sorted by
// name. Values that have no literal form are kept as comments.
func formatScope(scope lang.Scope) string {
	var sb strings.Builder

	for _, name := range scope.Names() {
		value := scope[name]

		switch v := value.(type) {
		case lang.Node:
			fmt.Fprintf(&sb, "%s = %s\n", name, lang.Format(v))
			continue
		case nil, string, bool:
			fmt.Fprintf(&sb, "%s = %s\n", name, lang.Format(lang.NewConstant(v)))
			continue
		}

		if text, err := lang.FormatNumeral(value); err == nil {
			fmt.Fprintf(&sb, "%s = %s\n", name, text)
		} else {
			fmt.Fprintf(&sb, "# %s: %T\n", name, value)
		}
	}

	return sb.String()
}

// parseScope reads assignment statements back into a scope. Input without
// statements yields a nil scope.
func parseScope(ctx context.Context, text string, logger log.Logger) (lang.Scope, error) {
	if !hasStatements(text) {
		return nil, nil
	}

	root, err := lang.ParseString(ctx, text, lang.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	stmts := []lang.Node{root}
	if block, ok := root.(*lang.BlockNode); ok {
		stmts = block.Statements()
	}

	scope := make(lang.Scope, len(stmts))

	for _, stmt := range stmts {
		assign, ok := stmt.(*lang.AssignmentNode)
		if !ok {
			return nil, errors.New("not an assignment: " + lang.Format(stmt))
		}

		scope[assign.Name()] = assign.Value()
	}

	return scope, nil
}

// hasStatements reports whether text holds anything besides blank lines and
// comments.
func hasStatements(text string) bool {
	for line := range strings.Lines(text) {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			return true
		}
	}

	return false
}

// runEditor launches the user's editor on the given file path.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
