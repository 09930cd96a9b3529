package repl

import (
	"slices"
	"strings"
	"testing"
)

func TestDetectFunctionCall(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		cursor     int
		wantName   string
		wantIndex  int
		wantInCall bool
	}{
		{"no call", "radius", 6, "", 0, false},
		{"grouping paren", "2 * (x", 6, "", 0, false},
		{"first arg empty", "sqrt(", 5, "sqrt", 0, true},
		{"first arg", "sqrt(1", 6, "sqrt", 0, true},
		{"second arg", "atan2(1,", 8, "atan2", 1, true},
		{"second arg with value", "atan2(1, 2", 10, "atan2", 1, true},
		{"nested call inner", "max(1, sqrt(4", 13, "sqrt", 0, true},
		{"nested call closed", "max(1, sqrt(4), ", 16, "max", 2, true},
		{"array argument", "max([1, 2], ", 12, "max", 1, true},
		{"after closing", "sqrt(4)", 7, "", 0, false},
		{"cursor inside", "atan2(1, 2)", 7, "atan2", 0, true},
		{"cursor past end", "sqrt(", 99, "sqrt", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectFunctionCall(tt.input, tt.cursor)

			if got.inCall != tt.wantInCall {
				t.Errorf("inCall = %v, want %v", got.inCall, tt.wantInCall)
			}

			if got.name != tt.wantName {
				t.Errorf("name = %q, want %q", got.name, tt.wantName)
			}

			if got.argIndex != tt.wantIndex {
				t.Errorf("argIndex = %d, want %d", got.argIndex, tt.wantIndex)
			}
		})
	}
}

func TestGetSignature(t *testing.T) {
	tests := []struct {
		name          string
		funcName      string
		wantSignature string
		wantParams    []string
	}{
		{"unary", "sqrt", "sqrt(x)", []string{"x"}},
		{"binary", "atan2", "atan2(y, x)", []string{"y", "x"}},
		{"first of several forms", "log", "log(x)", []string{"x"}},
		{"variadic", "min", "min(a, b, c, ...)", []string{"a", "b", "c", "..."}},
		{"constant", "pi", "", nil},
		{"unknown", "doesnotexist", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSig, gotParams := getSignature(tt.funcName)

			if gotSig != tt.wantSignature {
				t.Errorf("signature = %q, want %q", gotSig, tt.wantSignature)
			}

			if !slices.Equal(gotParams, tt.wantParams) {
				t.Errorf("params = %q, want %q", gotParams, tt.wantParams)
			}
		})
	}
}

func TestRenderSignatureHint(t *testing.T) {
	tests := []struct {
		name       string
		signature  string
		params     []string
		currentArg int
	}{
		{"no params", "random()", nil, 0},
		{"first param", "atan2(y, x)", []string{"y", "x"}, 0},
		{"second param", "atan2(y, x)", []string{"y", "x"}, 1},
		{"variadic", "min(a, ...)", []string{"a", "..."}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderSignatureHint(tt.signature, tt.params, tt.currentArg)

			name, _, _ := strings.Cut(tt.signature, "(")
			if !strings.Contains(got, name) {
				t.Errorf("renderSignatureHint() = %q, missing %q", got, name)
			}

			for _, p := range tt.params {
				if !strings.Contains(got, p) {
					t.Errorf("renderSignatureHint() = %q, missing param %q", got, p)
				}
			}
		})
	}

	if got := renderSignatureHint("", nil, 0); got != "" {
		t.Errorf("renderSignatureHint(\"\") = %q, want empty", got)
	}
}
