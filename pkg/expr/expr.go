// Package expr evaluates arithmetic expressions over a closed grammar:
// float literals, variable names, the operators + - * / %, parentheses, and
// a fixed whitelist of math functions. There is no way to reach I/O,
// attribute access, or any capability beyond arithmetic from an expression.
package expr

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Error describes a failure while lexing, parsing, or evaluating an
// expression. Pos is a byte offset into Expression.
type Error struct {
	Expression string
	Pos        int
	Message    string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("expression %q: %s (at offset %d)", e.Expression, e.Message, e.Pos)
}

// function describes a whitelisted callable: its arity bounds and
// implementation.
type function struct {
	minArgs int
	maxArgs int
	apply   func(args []float64) (float64, error)
}

// functions is the closed whitelist available to expressions. Anything not
// listed here is a disallowed call.
var functions = map[string]function{
	"abs":  {1, 1, func(a []float64) (float64, error) { return math.Abs(a[0]), nil }},
	"sqrt": {1, 1, func(a []float64) (float64, error) {
		if a[0] < 0 {
			return 0, fmt.Errorf("sqrt of negative value %v", a[0])
		}
		return math.Sqrt(a[0]), nil
	}},
	"sin": {1, 1, func(a []float64) (float64, error) { return math.Sin(a[0]), nil }},
	"cos": {1, 1, func(a []float64) (float64, error) { return math.Cos(a[0]), nil }},
	"tan": {1, 1, func(a []float64) (float64, error) { return math.Tan(a[0]), nil }},
	"log": {1, 1, func(a []float64) (float64, error) {
		if a[0] <= 0 {
			return 0, fmt.Errorf("log of non-positive value %v", a[0])
		}
		return math.Log(a[0]), nil
	}},
	"exp": {1, 1, func(a []float64) (float64, error) { return math.Exp(a[0]), nil }},
	"pow": {2, 2, func(a []float64) (float64, error) {
		r := math.Pow(a[0], a[1])
		if math.IsNaN(r) {
			return 0, fmt.Errorf("pow(%v, %v) is undefined", a[0], a[1])
		}
		return r, nil
	}},
	"min": {2, -1, func(a []float64) (float64, error) {
		m := a[0]
		for _, v := range a[1:] {
			m = math.Min(m, v)
		}
		return m, nil
	}},
	"max": {2, -1, func(a []float64) (float64, error) {
		m := a[0]
		for _, v := range a[1:] {
			m = math.Max(m, v)
		}
		return m, nil
	}},
	"round": {1, 2, func(a []float64) (float64, error) {
		if len(a) == 1 {
			return math.RoundToEven(a[0]), nil
		}
		shift := math.Pow(10, math.Trunc(a[1]))
		return math.RoundToEven(a[0]*shift) / shift, nil
	}},
}

// constants available to every expression.
var constants = map[string]float64{
	"pi": math.Pi,
}

// Functions returns the names of the whitelisted functions.
func Functions() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	return names
}

// Eval parses and evaluates expression against vars. Undefined names,
// calls outside the whitelist, malformed syntax, and runtime math faults
// (division by zero, domain errors) all return an *Error.
func Eval(expression string, vars map[string]float64) (float64, error) {
	p := &parser{expr: expression, vars: vars}
	v, err := p.parseExpression()
	if err != nil {
		return 0, err
	}
	p.skipSpaces()
	if p.pos != len(p.expr) {
		return 0, p.errorf(p.pos, "unexpected character %q", p.expr[p.pos])
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, p.errorf(0, "result is not a finite number")
	}
	return v, nil
}

// parser is a recursive-descent parser that evaluates as it parses. The
// grammar is small enough that a separate AST buys nothing.
type parser struct {
	expr string
	pos  int
	vars map[string]float64
}

func (p *parser) errorf(pos int, format string, args ...any) *Error {
	return &Error{Expression: p.expr, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) skipSpaces() {
	for p.pos < len(p.expr) && (p.expr[p.pos] == ' ' || p.expr[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	if p.pos < len(p.expr) {
		return p.expr[p.pos]
	}
	return 0
}

// parseExpression handles + and - (lowest precedence).
func (p *parser) parseExpression() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpaces()
		switch p.peek() {
		case '+':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left += right
		case '-':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left -= right
		default:
			return left, nil
		}
	}
}

// parseTerm handles * / and %.
func (p *parser) parseTerm() (float64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpaces()
		switch p.peek() {
		case '*':
			opPos := p.pos
			if p.pos+1 < len(p.expr) && p.expr[p.pos+1] == '*' {
				// Reject ** explicitly: exponentiation goes through pow().
				return 0, p.errorf(opPos, "operator ** is not supported, use pow(x, y)")
			}
			p.pos++
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			left *= right
		case '/':
			opPos := p.pos
			p.pos++
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, p.errorf(opPos, "division by zero")
			}
			left /= right
		case '%':
			opPos := p.pos
			p.pos++
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, p.errorf(opPos, "modulo by zero")
			}
			left = math.Mod(left, right)
		default:
			return left, nil
		}
	}
}

// parseUnary handles prefix + and -.
func (p *parser) parseUnary() (float64, error) {
	p.skipSpaces()
	switch p.peek() {
	case '+':
		p.pos++
		return p.parseUnary()
	case '-':
		p.pos++
		v, err := p.parseUnary()
		return -v, err
	}
	return p.parsePrimary()
}

// parsePrimary handles literals, names, calls, and parenthesized groups.
func (p *parser) parsePrimary() (float64, error) {
	p.skipSpaces()
	if p.pos >= len(p.expr) {
		return 0, p.errorf(p.pos, "unexpected end of expression")
	}

	c := p.expr[p.pos]
	switch {
	case c == '(':
		p.pos++
		v, err := p.parseExpression()
		if err != nil {
			return 0, err
		}
		p.skipSpaces()
		if p.peek() != ')' {
			return 0, p.errorf(p.pos, "missing closing parenthesis")
		}
		p.pos++
		return v, nil

	case c >= '0' && c <= '9' || c == '.':
		return p.parseNumber()

	case isNameStart(c):
		return p.parseNameOrCall()
	}

	return 0, p.errorf(p.pos, "unexpected character %q", c)
}

func (p *parser) parseNumber() (float64, error) {
	start := p.pos
	for p.pos < len(p.expr) && isNumberChar(p.expr[p.pos]) {
		// 1e-3 / 2E+5 style exponents keep their sign characters.
		if (p.expr[p.pos] == 'e' || p.expr[p.pos] == 'E') &&
			p.pos+1 < len(p.expr) && (p.expr[p.pos+1] == '+' || p.expr[p.pos+1] == '-') {
			p.pos++
		}
		p.pos++
	}
	text := p.expr[start:p.pos]
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, p.errorf(start, "invalid number %q", text)
	}
	return v, nil
}

func (p *parser) parseNameOrCall() (float64, error) {
	start := p.pos
	for p.pos < len(p.expr) && isNameChar(p.expr[p.pos]) {
		p.pos++
	}
	name := p.expr[start:p.pos]

	p.skipSpaces()
	if p.peek() != '(' {
		if v, ok := p.vars[name]; ok {
			return v, nil
		}
		if v, ok := constants[name]; ok {
			return v, nil
		}
		return 0, p.errorf(start, "undefined name %q", name)
	}

	fn, ok := functions[name]
	if !ok {
		return 0, p.errorf(start, "call to %q is not allowed, available functions: %s",
			name, strings.Join(Functions(), ", "))
	}

	p.pos++ // consume '('
	args, err := p.parseArgs()
	if err != nil {
		return 0, err
	}

	if len(args) < fn.minArgs || (fn.maxArgs >= 0 && len(args) > fn.maxArgs) {
		return 0, p.errorf(start, "%s expects %s, got %d arguments",
			name, arityString(fn), len(args))
	}

	v, err := fn.apply(args)
	if err != nil {
		return 0, p.errorf(start, "%v", err)
	}
	return v, nil
}

func (p *parser) parseArgs() ([]float64, error) {
	var args []float64
	p.skipSpaces()
	if p.peek() == ')' {
		p.pos++
		return args, nil
	}
	for {
		v, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, v)

		p.skipSpaces()
		switch p.peek() {
		case ',':
			p.pos++
		case ')':
			p.pos++
			return args, nil
		default:
			return nil, p.errorf(p.pos, "expected , or ) in argument list")
		}
	}
}

func arityString(fn function) string {
	if fn.maxArgs < 0 {
		return fmt.Sprintf("at least %d", fn.minArgs)
	}
	if fn.minArgs == fn.maxArgs {
		return fmt.Sprintf("%d", fn.minArgs)
	}
	return fmt.Sprintf("%d to %d", fn.minArgs, fn.maxArgs)
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}

func isNumberChar(c byte) bool {
	return (c >= '0' && c <= '9') || c == '.' || c == 'e' || c == 'E'
}
