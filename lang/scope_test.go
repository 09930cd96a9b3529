package lang

import (
	"errors"
	"math"
	"math/big"
	"testing"
)

func TestClassify(t *testing.T) {
	type celsius int16

	tests := []struct {
		name  string
		value any
		want  ValueKind
	}{
		{"node", NewSymbol("x"), ValueNode},
		{"typed nil node", (*OperatorNode)(nil), ValueUnsupported},
		{"int", 1, ValueNumber},
		{"uint8", uint8(1), ValueNumber},
		{"float32", float32(1), ValueNumber},
		{"named int", celsius(-4), ValueNumber},
		{"nil", nil, ValueUnsupported},
		{"string", "1", ValueUnsupported},
		{"bool", true, ValueUnsupported},
		{"complex", complex(1, 0), ValueUnsupported},
		{"big float", big.NewFloat(1), ValueUnsupported},
		{"slice", []int{1}, ValueUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.value); got != tt.want {
				t.Errorf("Classify(%#v) = %s, want %s", tt.value, got, tt.want)
			}
		})
	}
}

func TestFormatNumeral(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{0, "0"},
		{-17, "-17"},
		{int64(math.MaxInt64), "9223372036854775807"},
		{uint64(math.MaxUint64), "18446744073709551615"},
		{2.5, "2.5"},
		{1.0, "1"},
		{1e-7, "1e-07"},
		{1e21, "1e+21"},
		{float32(0.1), "0.1"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
		{math.NaN(), "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := FormatNumeral(tt.value)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("FormatNumeral(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}

	if _, err := FormatNumeral("1"); !errors.Is(err, ErrInvalidNumber) {
		t.Errorf("FormatNumeral(string) error = %v, want ErrInvalidNumber", err)
	}
}

func TestFormatNumeral_ParsesBack(t *testing.T) {
	for _, v := range []float64{0.1, 1.0 / 3, 6.02214076e23, 1e-300, 123456789} {
		text, err := FormatNumeral(v)
		if err != nil {
			t.Fatalf("FormatNumeral(%v): %v", v, err)
		}

		n, err := ParseString(t.Context(), text)
		if err != nil {
			t.Fatalf("parse %q: %v", text, err)
		}

		c, ok := n.(*ConstantNode)
		if !ok {
			t.Fatalf("parse %q = %s, want constant", text, n.Kind())
		}

		if f, _ := c.Number(); f != v {
			t.Errorf("parse %q = %v, want %v", text, f, v)
		}
	}
}

func TestScope_Merge(t *testing.T) {
	base := Scope{"x": 1, "y": 2}
	merged := base.Merge(Scope{"y": 3}, Scope{"z": 4})

	if len(base) != 2 || base["y"] != 2 {
		t.Errorf("Merge modified receiver: %v", base)
	}

	want := []string{"x", "y", "z"}
	if got := merged.Names(); len(got) != 3 || got[0] != want[0] || got[2] != want[2] {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	if merged["y"] != 3 {
		t.Errorf("merged[y] = %v, want 3", merged["y"])
	}

	if Scope(nil).Names() != nil {
		t.Error("Names() of nil scope should be nil")
	}
}
