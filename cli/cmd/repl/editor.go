package repl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/fz/cli/cmd"
	"github.com/ardnew/fz/log"
	"github.com/ardnew/fz/pkg"
)

const defaultEditor = "vi"

// editArgsCommand implements [tea.ExecCommand]. It writes the bound
// arguments to a temporary YAML file, opens it in the user's editor, and
// decodes the result as the new argument list. On a decode error the user
// is asked to edit again; declining keeps the previous arguments.
type editArgsCommand struct {
	args    []any
	newArgs []any
	edited  bool
	ctxFunc func() context.Context
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editArgsCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editArgsCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editArgsCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-decode-retry loop.
func (c *editArgsCommand) Run() error {
	ctx := c.ctxFunc()

	content, err := encodeArgs(ctx, c.args)
	if err != nil {
		return err
	}

	f, err := os.CreateTemp(os.TempDir(), pkg.Name+"-args-*.yaml")
	if err != nil {
		return err
	}

	path := f.Name()

	defer os.Remove(path)

	if err := f.Close(); err != nil {
		return err
	}

	for {
		if err := os.WriteFile(path, content, 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, path); err != nil {
			return err
		}

		if content, err = os.ReadFile(path); err != nil {
			return err
		}

		args, decodeErr := decodeArgList(ctx, content)
		c.logger.TraceContext(ctx, "editor decode attempt",
			slog.Int("content_length", len(content)),
			slog.Bool("success", decodeErr == nil),
		)

		if decodeErr == nil {
			c.newArgs, c.edited = args, true

			return nil
		}

		fmt.Fprintf(c.stderr, "\nDecode error: %s\n", decodeErr)
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

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

// encodeArgs renders args as a YAML sequence, one argument per item.
func encodeArgs(ctx context.Context, args []any) ([]byte, error) {
	if len(args) == 0 {
		return []byte("# one argument per item\n[]\n"), nil
	}

	data, err := yaml.MarshalContext(ctx, args, yaml.Indent(2))
	if err != nil {
		return nil, pkg.ErrYAMLMarshal.Wrap(err)
	}

	return data, nil
}

// decodeArgList decodes a YAML sequence of arguments. An empty document
// clears the arguments.
func decodeArgList(ctx context.Context, data []byte) ([]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var doc any
	if err := yaml.UnmarshalContext(ctx, data, &doc); err != nil {
		return nil, pkg.ErrInvalidArgument.Wrap(err)
	}

	switch seq := cmd.Native(doc).(type) {
	case nil:
		return nil, nil
	case []any:
		return seq, nil
	default:
		return nil, pkg.ErrInvalidArgument.Wrapf("expected a sequence, got %T", seq)
	}
}

// runEditor opens path in $EDITOR and waits for it to exit.
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

	c := exec.CommandContext(ctx, editor, path)
	c.Stdin = stdin
	c.Stdout = stdout
	c.Stderr = stderr

	return c.Run()
}
