package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type initCLI struct {
	Scope   []string `name:"scope"   sep:"none"`
	Verbose bool     `name:"verbose"`
	Secret  string   `hidden:""      name:"secret"`
	Output  `embed:""`
}

func parseInitCLI(t *testing.T, confPath string, args ...string) context.Context {
	t.Helper()

	var cli initCLI

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
	require.NoError(t, err)

	ktx, err := parser.Parse(args)
	require.NoError(t, err)

	return WithContext(t.Context(), ktx)
}

// TestInitRun tests the Init.Run command.
func TestInitRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr error
	}{
		{name: "create_new_config"},
		{name: "overwrite_existing_with_force", force: true, exists: true},
		{name: "fail_without_force", exists: true, wantErr: ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.exists {
				require.NoError(t, os.WriteFile(confPath, []byte("existing: content\n"), 0o600))
			}

			ctx := parseInitCLI(t, confPath, "--format=json", "--scope=a.yaml", "--secret=x")

			err := (&Init{Force: tt.force}).Run(ctx)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, ErrWriteConfig)

				return
			}

			require.NoError(t, err)

			data, err := os.ReadFile(confPath)
			require.NoError(t, err)

			var got map[string]any
			require.NoError(t, yaml.Unmarshal(data, &got))

			assert.Equal(t, "json", got["format"])
			assert.EqualValues(t, 2, got["indent"])
			assert.Equal(t, false, got["verbose"])
			assert.Equal(t, []any{"a.yaml"}, got["scope"])
			assert.NotContains(t, got, "secret", "hidden flags are not written")
			assert.NotContains(t, got, "help")
			assert.NotContains(t, got, "existing")
		})
	}
}

func TestInitRequiresCommandLine(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { _ = (&Init{}).Run(t.Context()) })
}

func TestFlagValuesOmitsEmpty(t *testing.T) {
	t.Parallel()

	ctx := parseInitCLI(t, filepath.Join(t.TempDir(), "config.yaml"))
	values := flagValues(kongContextFrom(ctx))

	assert.NotContains(t, values, "scope", "empty list")
	assert.Equal(t, "text", values["format"])
}

func TestPlainValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want any
		ok   bool
	}{
		{name: "nil", in: nil, ok: false},
		{name: "empty string", in: "", ok: false},
		{name: "string", in: "x", want: "x", ok: true},
		{name: "int", in: 3, want: 3, ok: true},
		{name: "bool", in: false, want: false, ok: true},
		{name: "empty slice", in: []string{}, ok: false},
		{name: "slice", in: []string{"a"}, want: []string{"a"}, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := plainValue(tt.in)
			assert.Equal(t, tt.ok, ok)

			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
