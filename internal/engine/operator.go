package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownOperator is returned by ParseOperator for labels that name no operator.
var ErrUnknownOperator = errors.New("unknown operator")

// Operator is a pending binary operation. The zero value means no operator.
type Operator int

const (
	NoOperator Operator = iota
	Add
	Subtract
	Multiply
	Divide
)

// String returns the glyph shown in the expression readout.
func (op Operator) String() string {
	switch op {
	case Add:
		return "+"
	case Subtract:
		return "−"
	case Multiply:
		return "×"
	case Divide:
		return "÷"
	default:
		return ""
	}
}

// Name is the lower-case identifier used in metrics and logs.
func (op Operator) Name() string {
	switch op {
	case Add:
		return "add"
	case Subtract:
		return "subtract"
	case Multiply:
		return "multiply"
	case Divide:
		return "divide"
	default:
		return "none"
	}
}

func (op Operator) valid() bool {
	return op >= Add && op <= Divide
}

// apply computes a op b. ok is false for division by zero.
func (op Operator) apply(a, b float64) (result float64, ok bool) {
	switch op {
	case Add:
		return a + b, true
	case Subtract:
		return a - b, true
	case Multiply:
		return a * b, true
	case Divide:
		if b == 0 {
			return 0, false
		}
		return a / b, true
	default:
		// no pending operator: the typed value starts the chain
		return b, true
	}
}

// ParseOperator accepts the display glyph, its ASCII form or the operator name.
func ParseOperator(s string) (Operator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "+", "add":
		return Add, nil
	case "-", "−", "subtract":
		return Subtract, nil
	case "*", "x", "×", "multiply":
		return Multiply, nil
	case "/", "÷", "divide":
		return Divide, nil
	}
	return NoOperator, fmt.Errorf("%w: %q", ErrUnknownOperator, s)
}
