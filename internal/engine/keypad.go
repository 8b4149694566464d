package engine

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrUnknownKey is returned for labels that match no calculator button.
var ErrUnknownKey = errors.New("unknown key")

// KeyKind identifies which command a key dispatches.
type KeyKind int

const (
	KeyDigit KeyKind = iota + 1
	KeyDecimal
	KeyOperator
	KeyEquals
	KeyClear
)

// Key is one button press.
type Key struct {
	Kind     KeyKind
	Digit    rune
	Operator Operator
}

// String returns the button label.
func (k Key) String() string {
	switch k.Kind {
	case KeyDigit:
		return string(k.Digit)
	case KeyDecimal:
		return "."
	case KeyOperator:
		return k.Operator.String()
	case KeyEquals:
		return "="
	case KeyClear:
		return "AC"
	default:
		return "?"
	}
}

// Command names the engine command the key maps to.
func (k Key) Command() string {
	switch k.Kind {
	case KeyDigit:
		return "digit"
	case KeyDecimal:
		return "decimal"
	case KeyOperator:
		return "operator"
	case KeyEquals:
		return "equals"
	case KeyClear:
		return "clear"
	default:
		return "unknown"
	}
}

// DigitKey returns the key for numeral d.
func DigitKey(d rune) Key {
	return Key{Kind: KeyDigit, Digit: d}
}

// DecimalKey returns the decimal point key.
func DecimalKey() Key {
	return Key{Kind: KeyDecimal}
}

// OperatorKey returns the key for op.
func OperatorKey(op Operator) Key {
	return Key{Kind: KeyOperator, Operator: op}
}

// EqualsKey returns the equals key.
func EqualsKey() Key {
	return Key{Kind: KeyEquals}
}

// ClearKey returns the AC key.
func ClearKey() Key {
	return Key{Kind: KeyClear}
}

// ParseKey maps a single button label to a key.
func ParseKey(label string) (Key, error) {
	s := strings.TrimSpace(label)

	if utf8.RuneCountInString(s) == 1 {
		r, _ := utf8.DecodeRuneInString(s)
		if r >= '0' && r <= '9' {
			return DigitKey(r), nil
		}
	}

	switch strings.ToLower(s) {
	case ".", ",":
		return DecimalKey(), nil
	case "=", "equals", "enter":
		return EqualsKey(), nil
	case "c", "ac", "clear":
		return ClearKey(), nil
	}

	if op, err := ParseOperator(s); err == nil {
		return OperatorKey(op), nil
	}

	return Key{}, fmt.Errorf("%w: %q", ErrUnknownKey, label)
}

// ParseKeys splits a compact key string such as "12+3=" into keys, one rune
// per key. Whitespace is skipped.
func ParseKeys(s string) ([]Key, error) {
	keys := make([]Key, 0, len(s))
	for i, r := range s {
		if r == ' ' || r == '\t' || r == '\n' {
			continue
		}
		k, err := ParseKey(string(r))
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// ParseLabels parses a list of button labels, failing on the first unknown one.
func ParseLabels(labels []string) ([]Key, error) {
	keys := make([]Key, 0, len(labels))
	for i, l := range labels {
		k, err := ParseKey(l)
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// Press dispatches a key to the matching command.
func (e *Engine) Press(k Key) {
	switch k.Kind {
	case KeyDigit:
		e.Digit(k.Digit)
	case KeyDecimal:
		e.Decimal()
	case KeyOperator:
		e.Operator(k.Operator)
	case KeyEquals:
		e.Equals()
	case KeyClear:
		e.Clear()
	}
}
