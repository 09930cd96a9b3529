package help

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/symscope/eval"
)

func evaluators() Factory {
	return func() Evaluator { return eval.New() }
}

// scripted returns canned results in order and counts its instances.
type scripted struct {
	results []any
	calls   int
}

func (s *scripted) Evaluate(context.Context, string) (any, error) {
	r := s.results[s.calls]
	s.calls++

	if err, ok := r.(error); ok {
		return nil, err
	}

	return r, nil
}

func TestNew_MissingArguments(t *testing.T) {
	_, err := New(nil, evaluators())
	assert.ErrorIs(t, err, ErrMissingDoc)

	_, err = New(&Doc{Name: "x"}, nil)
	assert.ErrorIs(t, err, ErrMissingEvaluator)
}

func TestHelp_String_Layout(t *testing.T) {
	h, err := New(&Doc{
		Name:        "add",
		Category:    "Operators",
		Description: "Add two values.",
		Syntax:      []string{"x + y", "add(x, y)"},
		Examples:    []string{"a = 2.1 + 3.6", "a - 3.6"},
		SeeAlso:     []string{"subtract", "multiply"},
	}, evaluators())
	require.NoError(t, err)

	want := "\n" +
		"Name: add\n\n" +
		"Category: Operators\n\n" +
		"Description:\n    Add two values.\n\n" +
		"Syntax:\n    x + y\n    add(x, y)\n\n" +
		"Examples:\n" +
		"    a = 2.1 + 3.6\n        5.7\n" +
		"    a - 3.6\n        2.1\n" +
		"\n" +
		"See also: subtract, multiply\n"

	assert.Equal(t, want, h.String())
}

func TestHelp_String_OmitsAbsentSections(t *testing.T) {
	tests := []struct {
		name string
		doc  Doc
		want string
	}{
		{"empty", Doc{}, "\n"},
		{"name only", Doc{Name: "pi"}, "\nName: pi\n\n"},
		{"see also only", Doc{SeeAlso: []string{"e"}}, "\nSee also: e\n"},
		{"present empty syntax", Doc{Syntax: []string{}}, "\nSyntax:\n    \n\n"},
		{"present empty examples", Doc{Examples: []string{}}, "\nExamples:\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := New(&tt.doc, evaluators())
			require.NoError(t, err)
			assert.Equal(t, tt.want, h.String())
		})
	}
}

func TestHelp_String_ExampleResults(t *testing.T) {
	tests := []struct {
		name   string
		result any
		want   string
	}{
		{"number", 0.1 + 0.2, "    x\n        0.3\n"},
		{"precision", 1.0 / 3.0, "    x\n        0.33333333333333\n"},
		{"error", errors.New("boom"), "    x\n        Error: boom\n"},
		{"nil", nil, "    x\n"},
		{"help", &Help{}, "    x\n"},
		{"string", "s", "    x\n        \"s\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := New(&Doc{Examples: []string{"x"}}, func() Evaluator {
				return &scripted{results: []any{tt.result}}
			})
			require.NoError(t, err)
			assert.Equal(t, "\nExamples:\n"+tt.want+"\n", h.String())
		})
	}
}

func TestHelp_String_EvaluatorPerRendering(t *testing.T) {
	instances := 0

	h, err := New(&Doc{Examples: []string{"x = 1", "x + 1"}}, func() Evaluator {
		instances++

		return eval.New()
	})
	require.NoError(t, err)

	first := h.String()
	second := h.String()

	assert.Equal(t, first, second)
	assert.Equal(t, 2, instances)
	assert.Contains(t, first, "    x + 1\n        2\n")
}

func TestHelp_String_ErrorDoesNotStopRendering(t *testing.T) {
	h, err := New(&Doc{
		Examples: []string{"nope(1)", "1 + 1"},
		SeeAlso:  []string{"add"},
	}, evaluators())
	require.NoError(t, err)

	out := h.String()
	assert.Contains(t, out, "    nope(1)\n        Error: undefined function: nope\n")
	assert.Contains(t, out, "    1 + 1\n        2\n")
	assert.True(t, strings.HasSuffix(out, "See also: add\n"))
}

func TestHelp_MarshalJSON(t *testing.T) {
	h, err := New(&Doc{
		Name:     "sqrt",
		Syntax:   []string{"sqrt(x)"},
		Examples: []string{},
	}, evaluators())
	require.NoError(t, err)

	data, err := json.Marshal(h)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"@type":"Help","name":"sqrt","syntax":["sqrt(x)"],"examples":[]}`,
		string(data))

	back, err := FromJSON(data, evaluators())
	require.NoError(t, err)
	assert.Equal(t, h.Doc(), back.Doc())
	assert.Equal(t, h.String(), back.String())
}

func TestHelp_MarshalJSON_DoesNotAlias(t *testing.T) {
	doc := Doc{Syntax: []string{"a"}}

	h, err := New(&doc, evaluators())
	require.NoError(t, err)

	doc.Syntax[0] = "b"
	h.ToMap()["syntax"].([]string)[0] = "c"

	assert.Equal(t, []string{"a"}, h.Doc().Syntax)
}

func TestFromJSON_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"malformed", `{`, ErrDecode},
		{"wrong type", `{"@type":"OperatorNode"}`, ErrNotHelp},
		{"bad field", `{"syntax":"x"}`, ErrDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromJSON([]byte(tt.data), evaluators())
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := FromJSON([]byte(`{"name":"x"}`), nil)
	assert.ErrorIs(t, err, ErrMissingEvaluator)
}

func TestHelp_MarshalYAML(t *testing.T) {
	h, err := New(&Doc{Name: "pi", SeeAlso: []string{"tau"}}, evaluators())
	require.NoError(t, err)

	data, err := yaml.Marshal(h)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, yaml.Unmarshal(data, &m))
	assert.Equal(t, "Help", m["@type"])
	assert.Equal(t, "pi", m["name"])
	assert.Equal(t, []any{"tau"}, m["seealso"])
}
