package engine

// Snapshot is a read-only copy of an engine's state, shaped for serialisation
// by the views.
type Snapshot struct {
	Display               string   `json:"display"`
	Expression            string   `json:"expression"`
	FirstOperand          *float64 `json:"first_operand,omitempty"`
	Operator              string   `json:"operator,omitempty"`
	AwaitingSecondOperand bool     `json:"awaiting_second_operand"`
	Mode                  Mode     `json:"mode"`
	Error                 bool     `json:"error"`
}

// Snapshot captures the current state.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Display:               e.display,
		Expression:            e.expression,
		Operator:              e.operator.String(),
		AwaitingSecondOperand: e.awaiting,
		Mode:                  e.Mode(),
		Error:                 e.display == ErrorDisplay,
	}
	if e.hasOperand {
		v := e.firstOperand
		s.FirstOperand = &v
	}
	return s
}

// Initial reports whether the engine is indistinguishable from a new one.
func (e *Engine) Initial() bool {
	return e.display == initialDisplay &&
		e.expression == "" &&
		!e.hasOperand &&
		!e.operator.valid() &&
		!e.awaiting
}
