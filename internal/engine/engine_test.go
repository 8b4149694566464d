package engine

import (
	"strings"
	"testing"
)

// press feeds a compact key string to a fresh engine.
func press(t *testing.T, keys string, opts ...Option) *Engine {
	t.Helper()

	parsed, err := ParseKeys(keys)
	if err != nil {
		t.Fatalf("parsing keys %q: %v", keys, err)
	}

	e := New(opts...)
	for _, k := range parsed {
		e.Press(k)
	}
	return e
}

func TestNewEngineIsInitial(t *testing.T) {
	e := New()

	if got := e.Display(); got != "0" {
		t.Fatalf("expected display %q, got %q", "0", got)
	}
	if got := e.Expression(); got != "" {
		t.Fatalf("expected empty expression, got %q", got)
	}
	if !e.Initial() {
		t.Fatal("expected new engine to be in its initial state")
	}
	if e.Mode() != ModeEntry {
		t.Fatalf("expected mode %q, got %q", ModeEntry, e.Mode())
	}
}

func TestDigitEntry(t *testing.T) {
	tests := []struct {
		keys string
		want string
	}{
		{keys: "7", want: "7"},
		{keys: "123", want: "123"},
		{keys: "0", want: "0"},
		{keys: "0007", want: "7"},
		{keys: "1000", want: "1000"},
		{keys: "12345678901234567890", want: "123456789012345"},
	}

	for _, tc := range tests {
		t.Run(tc.keys, func(t *testing.T) {
			e := press(t, tc.keys)
			if got := e.Display(); got != tc.want {
				t.Fatalf("expected display %q, got %q", tc.want, got)
			}
			if got := e.Expression(); got != tc.want {
				t.Fatalf("expected expression %q, got %q", tc.want, got)
			}
		})
	}
}

func TestDigitIgnoresNonNumerals(t *testing.T) {
	e := New()
	e.Digit('a')
	e.Digit('.')

	if !e.Initial() {
		t.Fatalf("expected engine unchanged, got %+v", e.Snapshot())
	}
}

func TestMaxDisplayLengthOption(t *testing.T) {
	e := press(t, strings.Repeat("9", 30), WithMaxDisplayLength(12))
	if got := len(e.Display()); got != 12 {
		t.Fatalf("expected display length 12, got %d (%q)", got, e.Display())
	}

	e = New(WithMaxDisplayLength(3))
	if got := e.MaxDisplayLength(); got != MinMaxDisplayLength {
		t.Fatalf("expected cap raised to %d, got %d", MinMaxDisplayLength, got)
	}
}

func TestDecimal(t *testing.T) {
	tests := []struct {
		name string
		keys string
		want string
	}{
		{name: "leading point", keys: ".", want: "0."},
		{name: "twice", keys: "..", want: "0."},
		{name: "fraction", keys: "1.5", want: "1.5"},
		{name: "second point ignored", keys: "1.5.2", want: "1.52"},
		{name: "after operator", keys: "3+.", want: "0."},
		{name: "after equals", keys: "3+4=.5", want: "0.5"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := press(t, tc.keys)
			if got := e.Display(); got != tc.want {
				t.Fatalf("expected display %q, got %q", tc.want, got)
			}
			if n := strings.Count(e.Display(), "."); n > 1 {
				t.Fatalf("expected at most one decimal point, got %d", n)
			}
		})
	}
}

func TestDecimalRespectsDisplayCap(t *testing.T) {
	e := press(t, strings.Repeat("1", DefaultMaxDisplayLength)+".")
	if strings.Contains(e.Display(), ".") {
		t.Fatalf("expected no point on a full display, got %q", e.Display())
	}
}

func TestOperatorSetsPendingState(t *testing.T) {
	e := press(t, "12+")

	if got := e.Expression(); got != "12 + " {
		t.Fatalf("expected expression %q, got %q", "12 + ", got)
	}
	if got := e.Display(); got != "12" {
		t.Fatalf("expected display %q, got %q", "12", got)
	}
	if e.Mode() != ModeOperatorPending {
		t.Fatalf("expected mode %q, got %q", ModeOperatorPending, e.Mode())
	}

	e.Digit('5')
	if got := e.Expression(); got != "12 + 5" {
		t.Fatalf("expected expression %q, got %q", "12 + 5", got)
	}
	if got := e.Display(); got != "5" {
		t.Fatalf("expected display %q, got %q", "5", got)
	}
}

func TestOperatorReplacesPendingOperator(t *testing.T) {
	e := press(t, "8+-*")

	snap := e.Snapshot()
	if snap.Operator != "×" {
		t.Fatalf("expected operator %q, got %q", "×", snap.Operator)
	}
	if got := e.Expression(); got != "8 × " {
		t.Fatalf("expected expression %q, got %q", "8 × ", got)
	}
}

func TestChainedEvaluation(t *testing.T) {
	e := press(t, "5*3+")

	if got := e.Display(); got != "15" {
		t.Fatalf("expected chained result %q, got %q", "15", got)
	}
	if got := e.Expression(); got != "15 + " {
		t.Fatalf("expected expression %q, got %q", "15 + ", got)
	}

	e = press(t, "2+3+")
	if got := e.Display(); got != "5" {
		t.Fatalf("expected first addition performed, got %q", got)
	}
	snap := e.Snapshot()
	if snap.FirstOperand == nil || *snap.FirstOperand != 5 {
		t.Fatalf("expected first operand 5, got %v", snap.FirstOperand)
	}
}

func TestEquals(t *testing.T) {
	tests := []struct {
		keys string
		want string
	}{
		{keys: "2+3=", want: "5"},
		{keys: "9-12=", want: "-3"},
		{keys: "6*7=", want: "42"},
		{keys: "1/4=", want: "0.25"},
		{keys: "1/3=", want: "0.3333333333"},
		{keys: ".1+.2=", want: "0.3"},
		{keys: "2.5*4=", want: "10"},
		{keys: "0-0=", want: "0"},
		{keys: "1+2*3=", want: "9"},
	}

	for _, tc := range tests {
		t.Run(tc.keys, func(t *testing.T) {
			e := press(t, tc.keys)
			if got := e.Display(); got != tc.want {
				t.Fatalf("expected display %q, got %q", tc.want, got)
			}
			if got := e.Expression(); got != tc.want {
				t.Fatalf("expected expression %q, got %q", tc.want, got)
			}
		})
	}
}

func TestEqualsWithoutOperatorIsNoop(t *testing.T) {
	e := press(t, "42=")
	if got := e.Display(); got != "42" {
		t.Fatalf("expected display %q, got %q", "42", got)
	}
	if snap := e.Snapshot(); snap.FirstOperand != nil || snap.AwaitingSecondOperand {
		t.Fatalf("expected no state change, got %+v", snap)
	}
}

func TestDigitAfterEqualsReplacesResult(t *testing.T) {
	e := press(t, "2+3=7")
	if got := e.Display(); got != "7" {
		t.Fatalf("expected display %q, got %q", "7", got)
	}
	if got := e.Expression(); got != "7" {
		t.Fatalf("expected expression %q, got %q", "7", got)
	}
}

func TestOperatorAfterEqualsContinuesFromResult(t *testing.T) {
	e := press(t, "2+3=*4=")
	if got := e.Display(); got != "20" {
		t.Fatalf("expected display %q, got %q", "20", got)
	}

	e = press(t, "2+3=7+")
	if got := e.Expression(); got != "7 + " {
		t.Fatalf("expected typed number as first operand, got expression %q", got)
	}

	e = press(t, "2+3=7+1=")
	if got := e.Display(); got != "8" {
		t.Fatalf("expected typed number to start a new chain, got %q", got)
	}
}

func TestDivisionByZero(t *testing.T) {
	e := press(t, "5/0=")

	if got := e.Display(); got != ErrorDisplay {
		t.Fatalf("expected display %q, got %q", ErrorDisplay, got)
	}
	snap := e.Snapshot()
	if !snap.Error || snap.Mode != ModeError {
		t.Fatalf("expected error mode, got %+v", snap)
	}
	if snap.FirstOperand != nil || snap.Operator != "" || snap.AwaitingSecondOperand || snap.Expression != "" {
		t.Fatalf("expected internal fields reset, got %+v", snap)
	}

	e.Clear()
	if !e.Initial() {
		t.Fatalf("expected clear to restore the initial state, got %+v", e.Snapshot())
	}
}

func TestDivisionByZeroDuringChain(t *testing.T) {
	e := press(t, "5/0+")
	if got := e.Display(); got != ErrorDisplay {
		t.Fatalf("expected display %q, got %q", ErrorDisplay, got)
	}
	if got := e.Expression(); got != "" {
		t.Fatalf("expected empty expression, got %q", got)
	}
}

func TestErrorStateAbsorbsInput(t *testing.T) {
	e := press(t, "5/0=7.+=")
	if got := e.Display(); got != ErrorDisplay {
		t.Fatalf("expected error to persist until clear, got %q", got)
	}

	e.Press(ClearKey())
	e.Digit('4')
	if got := e.Display(); got != "4" {
		t.Fatalf("expected fresh entry after clear, got %q", got)
	}
}

func TestOverflowIsError(t *testing.T) {
	e := New()
	for _, k := range strings.Repeat("9", 15) {
		e.Digit(k)
	}
	e.Operator(Multiply)
	for i := 0; i < 25; i++ {
		e.Equals()
		if e.Mode() == ModeError {
			break
		}
		e.Operator(Multiply)
		for _, k := range strings.Repeat("9", 15) {
			e.Digit(k)
		}
	}

	if e.Mode() != ModeError {
		t.Fatalf("expected overflow to end in the error state, got %+v", e.Snapshot())
	}
}

func TestLargeResultFitsDisplay(t *testing.T) {
	e := press(t, "999999999999999*999999999999999=")

	if got := len(e.Display()); got > DefaultMaxDisplayLength {
		t.Fatalf("expected display within %d chars, got %q", DefaultMaxDisplayLength, e.Display())
	}
	if !strings.Contains(e.Display(), "e+") {
		t.Fatalf("expected exponent form, got %q", e.Display())
	}
}

func TestClearFromAnyState(t *testing.T) {
	for _, keys := range []string{"", "123", "1.5", "4+", "4+5", "4+5=", "5/0=", "9*9*"} {
		t.Run(keys, func(t *testing.T) {
			e := press(t, keys)
			e.Clear()
			if !e.Initial() {
				t.Fatalf("expected initial state, got %+v", e.Snapshot())
			}
		})
	}
}
