package help

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/symscope/eval"
	"github.com/ardnew/symscope/lang"
)

// TypeKey is the field identifying exported records as documentation.
const (
	TypeKey  = "@type"
	TypeName = "Help"
)

// Precision is the number of significant digits of example results.
const Precision = 14

// Predefined errors (sentinel values).
var (
	ErrMissingDoc       = lang.NewError(`argument "doc" missing`)
	ErrMissingEvaluator = lang.NewError(`argument "evaluator" missing`)
	ErrNotHelp          = lang.NewError("record is not documentation")
	ErrDecode           = lang.NewError("cannot decode documentation")
)

// Doc is a documentation record. Empty strings and nil slices are absent
// and omitted from every rendering; a non-nil empty slice is present.
type Doc struct {
	Name        string   `json:"name,omitempty"        yaml:"name,omitempty"`
	Category    string   `json:"category,omitempty"    yaml:"category,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Syntax      []string `json:"syntax,omitempty"      yaml:"syntax,omitempty"`
	Examples    []string `json:"examples,omitempty"    yaml:"examples,omitempty"`
	SeeAlso     []string `json:"seealso,omitempty"     yaml:"seealso,omitempty"`
}

// Clone returns a deep copy of d.
func (d Doc) Clone() Doc {
	d.Syntax = slices.Clone(d.Syntax)
	d.Examples = slices.Clone(d.Examples)
	d.SeeAlso = slices.Clone(d.SeeAlso)

	return d
}

// Evaluator evaluates example expressions.
type Evaluator interface {
	Evaluate(ctx context.Context, text string) (any, error)
}

// Factory returns a new evaluator. Each rendering uses its own evaluator so
// assignments in one example are visible to the examples after it.
type Factory func() Evaluator

// Help is renderable documentation.
type Help struct {
	doc     Doc
	factory Factory
}

// New returns the documentation for doc, evaluating examples with
// evaluators obtained from factory.
func New(doc *Doc, factory Factory) (*Help, error) {
	if doc == nil {
		return nil, ErrMissingDoc
	}

	if factory == nil {
		return nil, ErrMissingEvaluator
	}

	return &Help{doc: doc.Clone(), factory: factory}, nil
}

// Doc returns a copy of the documentation record.
func (h *Help) Doc() Doc { return h.doc.Clone() }

// String renders the documentation as text. See [Help.Render].
func (h *Help) String() string { return h.Render(context.Background()) }

// Render renders the documentation as text with one section per present
// field. Each example is followed by its indented result, or by the error
// it produced.
func (h *Help) Render(ctx context.Context) string {
	var sb strings.Builder

	sb.WriteString("\n")

	if h.doc.Name != "" {
		sb.WriteString("Name: " + h.doc.Name + "\n\n")
	}

	if h.doc.Category != "" {
		sb.WriteString("Category: " + h.doc.Category + "\n\n")
	}

	if h.doc.Description != "" {
		sb.WriteString("Description:\n    " + h.doc.Description + "\n\n")
	}

	if h.doc.Syntax != nil {
		sb.WriteString("Syntax:\n    " + strings.Join(h.doc.Syntax, "\n    ") + "\n\n")
	}

	if h.doc.Examples != nil {
		sb.WriteString("Examples:\n")

		ev := h.factory()

		for _, example := range h.doc.Examples {
			sb.WriteString("    " + example + "\n")

			if line, ok := result(ctx, ev, example); ok {
				sb.WriteString("        " + line + "\n")
			}
		}

		sb.WriteString("\n")
	}

	if h.doc.SeeAlso != nil {
		sb.WriteString("See also: " + strings.Join(h.doc.SeeAlso, ", ") + "\n")
	}

	return sb.String()
}

// result evaluates example and formats its value. Evaluation errors are
// formatted in place of the value.
func result(ctx context.Context, ev Evaluator, example string) (string, bool) {
	if ev == nil {
		return eval.FormatValue(ErrMissingEvaluator, Precision), true
	}

	v, err := ev.Evaluate(ctx, example)
	if err != nil {
		return eval.FormatValue(err, Precision), true
	}

	switch v.(type) {
	case nil, *Help:
		return "", false
	}

	return eval.FormatValue(v, Precision), true
}

// ToMap returns the present fields of the record tagged with [TypeKey].
func (h *Help) ToMap() map[string]any {
	m := map[string]any{TypeKey: TypeName}

	set := func(key, s string) {
		if s != "" {
			m[key] = s
		}
	}

	list := func(key string, s []string) {
		if s != nil {
			m[key] = slices.Clone(s)
		}
	}

	set("name", h.doc.Name)
	set("category", h.doc.Category)
	set("description", h.doc.Description)
	list("syntax", h.doc.Syntax)
	list("examples", h.doc.Examples)
	list("seealso", h.doc.SeeAlso)

	return m
}

// MarshalJSON implements [json.Marshaler].
func (h *Help) MarshalJSON() ([]byte, error) { return json.Marshal(h.ToMap()) }

// MarshalYAML implements the goccy/go-yaml InterfaceMarshaler.
func (h *Help) MarshalYAML() (any, error) { return h.ToMap(), nil }

// FromJSON reconstructs documentation exported by [Help.MarshalJSON].
func FromJSON(data []byte, factory Factory) (*Help, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, ErrDecode.Wrap(err)
	}

	if raw, ok := m[TypeKey]; ok {
		var typ string
		if err := json.Unmarshal(raw, &typ); err != nil || typ != TypeName {
			return nil, ErrNotHelp.With(slog.String("type", string(raw)))
		}
	}

	var doc Doc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, ErrDecode.Wrap(err)
	}

	return New(&doc, factory)
}
