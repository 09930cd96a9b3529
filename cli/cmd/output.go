package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/symscope/lang"
)

// stdout is replaced by tests.
var stdout io.Writer = os.Stdout

// Output selects how a tree is written.
type Output struct {
	Format string `default:"text" enum:"text,json,yaml,ast" help:"Output format (${enum})." short:"o"`
	Indent int    `default:"2"                              help:"Indent width for JSON and YAML output; 0 for compact." short:"i"`
}

func (o Output) write(ctx context.Context, w io.Writer, n lang.Node) error {
	switch o.Format {
	case "", "text":
		_, err := fmt.Fprintln(w, lang.Format(n))

		return err

	case "json":
		if err := lang.FormatJSON(ctx, w, n, o.Indent); err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		return nil

	case "yaml":
		if err := lang.FormatYAML(ctx, w, n, o.Indent); err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		return nil

	case "ast":
		_, err := fmt.Fprint(w, lang.Tree(n))

		return err

	default:
		return ErrOutputFormat.With(slog.String("format", o.Format))
	}
}
