package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/symscope/help"
)

// Help renders documentation for a builtin function or constant.
type Help struct {
	JSON bool `help:"Print the documentation record as JSON." xor:"format"`
	YAML bool `help:"Print the documentation record as YAML." xor:"format"`

	Name string `arg:"" help:"Function or constant name; omit to list all." name:"name" optional:""`
}

// Run executes the help command.
func (h *Help) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if h.Name == "" {
		return listTopics(ctx)
	}

	doc, ok := help.Lookup(h.Name)
	if !ok {
		return ErrNoHelp.With(slog.String("name", h.Name))
	}

	topic, err := help.New(&doc, helpFactory(ctx))
	if err != nil {
		return err
	}

	switch {
	case h.JSON:
		data, err := json.MarshalIndent(topic, "", "  ")
		if err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		_, err = fmt.Fprintln(stdout, string(data))

		return err

	case h.YAML:
		data, err := yaml.MarshalContext(ctx, topic)
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		_, err = stdout.Write(data)

		return err
	}

	_, err = fmt.Fprint(stdout, topic.Render(ctx))

	return err
}

// helpFactory returns evaluators seeded with the context scope, so examples
// see the same bindings as the other commands.
func helpFactory(ctx context.Context) help.Factory {
	return func() help.Evaluator { return newEvaluator(ctx) }
}

func listTopics(context.Context) error {
	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)

	for _, name := range help.Names() {
		doc, _ := help.Lookup(name)
		summary, _, _ := strings.Cut(doc.Description, ". ")
		summary = strings.TrimSuffix(summary, ".")

		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, doc.Category, summary)
	}

	return tw.Flush()
}
