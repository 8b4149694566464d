// Package engine implements the calculator's input and evaluation state
// machine. An Engine holds the readouts of one calculator and is mutated only
// by the five key commands; it is not safe for concurrent use.
package engine

import (
	"math"
	"strings"
)

const (
	// DefaultMaxDisplayLength caps the number of characters on the display.
	DefaultMaxDisplayLength = 15
	// MinMaxDisplayLength is the smallest cap that still fits an exponent readout.
	MinMaxDisplayLength = 10

	// ErrorDisplay is shown after a division by zero or an overflow.
	ErrorDisplay = "Error"

	initialDisplay = "0"
)

// Mode is the coarse state of the engine as seen by a view.
type Mode string

const (
	ModeEntry           Mode = "entry"
	ModeOperatorPending Mode = "operator_pending"
	ModeError           Mode = "error"
)

// Engine is a single calculator instance.
type Engine struct {
	maxLen int

	display    string
	expression string

	firstOperand float64
	hasOperand   bool
	operator     Operator
	awaiting     bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxDisplayLength overrides the display cap. Values below
// MinMaxDisplayLength are raised to it.
func WithMaxDisplayLength(n int) Option {
	return func(e *Engine) {
		e.maxLen = max(n, MinMaxDisplayLength)
	}
}

// New returns an engine in its initial state.
func New(opts ...Option) *Engine {
	e := &Engine{maxLen: DefaultMaxDisplayLength}
	for _, opt := range opts {
		opt(e)
	}
	e.reset(false)
	return e
}

// ---------------------------------------------------------------------------
// Readouts
// ---------------------------------------------------------------------------

// Display returns the main readout: the number being typed, the last result
// or ErrorDisplay.
func (e *Engine) Display() string {
	return e.display
}

// Expression returns the secondary readout showing the pending operation.
func (e *Engine) Expression() string {
	return e.expression
}

// MaxDisplayLength returns the display cap in characters.
func (e *Engine) MaxDisplayLength() int {
	return e.maxLen
}

// Mode reports which of the three machine states the engine is in.
func (e *Engine) Mode() Mode {
	switch {
	case e.display == ErrorDisplay:
		return ModeError
	case e.operator.valid() && e.awaiting:
		return ModeOperatorPending
	default:
		return ModeEntry
	}
}

// ---------------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------------

// Digit enters one numeral. Anything other than '0'..'9' is ignored, as are
// digits past the display cap.
func (e *Engine) Digit(d rune) {
	if d < '0' || d > '9' || e.Mode() == ModeError {
		return
	}

	switch {
	case e.awaiting:
		e.display = string(d)
		e.awaiting = false
	case e.display == initialDisplay:
		e.display = string(d)
	case len(e.display) < e.maxLen:
		e.display += string(d)
	}

	e.expression = e.trace()
}

// Decimal enters the decimal point. A display that already has one is left alone.
func (e *Engine) Decimal() {
	if e.Mode() == ModeError {
		return
	}

	switch {
	case e.awaiting:
		e.display = "0."
		e.awaiting = false
	case !strings.Contains(e.display, ".") && len(e.display) < e.maxLen:
		e.display += "."
	}

	e.expression = e.trace()
}

// Operator selects the next binary operation. If a second operand was typed
// since the last operator, the pending operation is computed first.
func (e *Engine) Operator(op Operator) {
	if !op.valid() || e.Mode() == ModeError {
		return
	}

	if !e.hasOperand {
		e.firstOperand = parseDisplay(e.display)
		e.hasOperand = true
	} else if !e.awaiting {
		if !e.evaluate() {
			return
		}
	}

	e.operator = op
	e.awaiting = true
	e.expression = e.trace()
}

// Equals computes the pending operation. The result stays as the first
// operand so a following operator continues from it, and the next digit
// replaces it.
func (e *Engine) Equals() {
	if !e.operator.valid() || e.Mode() == ModeError {
		return
	}

	if !e.evaluate() {
		return
	}
	e.operator = NoOperator
	e.awaiting = true
}

// Clear returns the engine to its initial state.
func (e *Engine) Clear() {
	e.reset(false)
}

// ---------------------------------------------------------------------------
// Internals
// ---------------------------------------------------------------------------

// evaluate applies the pending operator to the first operand and the display.
// It returns false when the result put the engine in the error state.
func (e *Engine) evaluate() bool {
	value := parseDisplay(e.display)

	result, ok := e.operator.apply(e.firstOperand, value)
	if !ok || math.IsInf(result, 0) || math.IsNaN(result) {
		e.display = ErrorDisplay
		e.reset(true)
		return false
	}

	e.firstOperand = round(result)
	e.hasOperand = true
	e.display = formatNumber(e.firstOperand, e.maxLen)
	e.expression = e.display
	return true
}

// reset clears every field. keepDisplay leaves the display untouched so the
// error marker stays visible until the next Clear.
func (e *Engine) reset(keepDisplay bool) {
	if !keepDisplay {
		e.display = initialDisplay
	}
	e.expression = ""
	e.firstOperand = 0
	e.hasOperand = false
	e.operator = NoOperator
	e.awaiting = false
}

// trace derives the expression readout from the current fields.
func (e *Engine) trace() string {
	if !e.operator.valid() {
		return e.display
	}

	left := formatNumber(e.firstOperand, e.maxLen) + " " + e.operator.String() + " "
	if e.awaiting {
		return left
	}
	return left + e.display
}
