package expr

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestEval_Arithmetic(t *testing.T) {
	cases := []struct {
		expr string
		vars map[string]float64
		want float64
	}{
		{"1 + 2 * 3", nil, 7},
		{"(1 + 2) * 3", nil, 9},
		{"10 / 4", nil, 2.5},
		{"7 % 3", nil, 1},
		{"-4 + 2", nil, -2},
		{"--4", nil, 4},
		{"2.5e2 + 1", nil, 251},
		{"torque * 1.5 + temperature * 0.01", map[string]float64{"torque": 10, "temperature": 50}, 15.5},
	}

	for _, tc := range cases {
		got, err := Eval(tc.expr, tc.vars)
		if err != nil {
			t.Errorf("Eval(%q) returned error: %v", tc.expr, err)
			continue
		}
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("Eval(%q) = %v, want %v", tc.expr, got, tc.want)
		}
	}
}

func TestEval_SqrtPlusPi(t *testing.T) {
	got, err := Eval("sqrt(16) + pi", nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	want := 4 + math.Pi
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestEval_Functions(t *testing.T) {
	cases := []struct {
		expr string
		want float64
	}{
		{"abs(-3.5)", 3.5},
		{"min(4, 2, 9)", 2},
		{"max(4, 2, 9)", 9},
		{"pow(2, 10)", 1024},
		{"round(2.4)", 2},
		{"round(2.567, 2)", 2.57},
		{"sin(0)", 0},
		{"cos(0)", 1},
		{"tan(0)", 0},
		{"log(exp(1))", 1},
	}

	for _, tc := range cases {
		got, err := Eval(tc.expr, nil)
		if err != nil {
			t.Errorf("Eval(%q) returned error: %v", tc.expr, err)
			continue
		}
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("Eval(%q) = %v, want %v", tc.expr, got, tc.want)
		}
	}
}

func TestEval_UndefinedName(t *testing.T) {
	_, err := Eval("bogus + 1", map[string]float64{"x": 1})
	if err == nil {
		t.Fatal("Expected error for undefined name")
	}
	var ee *Error
	if !errors.As(err, &ee) {
		t.Fatalf("Expected *expr.Error, got %T", err)
	}
	if !strings.Contains(ee.Message, "undefined name") {
		t.Errorf("Expected undefined-name message, got: %s", ee.Message)
	}
}

func TestEval_DisallowedCall(t *testing.T) {
	_, err := Eval("open(1)", nil)
	if err == nil {
		t.Fatal("Expected error for disallowed call")
	}
	if !strings.Contains(err.Error(), "not allowed") {
		t.Errorf("Expected disallowed-call message, got: %v", err)
	}
}

func TestEval_RuntimeFaults(t *testing.T) {
	bad := []string{
		"1 / 0",
		"5 % 0",
		"sqrt(-1)",
		"log(0)",
		"log(-2)",
	}
	for _, e := range bad {
		if _, err := Eval(e, nil); err == nil {
			t.Errorf("Eval(%q): expected runtime fault, got nil error", e)
		}
	}
}

func TestEval_RejectsForeignSyntax(t *testing.T) {
	bad := []string{
		"1 < 2",
		"x == y",
		"a and b",         // bare names are undefined, and no boolean grammar exists
		"__import__('os')",
		"x.y",
		"2 ** 8",
		"1 +",
		"(1 + 2",
		"",
	}
	for _, e := range bad {
		if _, err := Eval(e, map[string]float64{"x": 1, "y": 2}); err == nil {
			t.Errorf("Eval(%q): expected error, got nil", e)
		}
	}
}

func TestEval_ArityChecked(t *testing.T) {
	bad := []string{"min(1)", "pow(2)", "sqrt(1, 2)", "round(1, 2, 3)"}
	for _, e := range bad {
		if _, err := Eval(e, nil); err == nil {
			t.Errorf("Eval(%q): expected arity error, got nil", e)
		}
	}
}
