package filter

import "strconv"

// Value is a field value or literal after numeric coercion.
type Value struct {
	Text    string
	Num     float64
	Numeric bool
}

// Coerce classifies s as numeric when, after removing at most one '.',
// every remaining character is a decimal digit. Signs and exponents are
// not numeric; such strings compare as text.
func Coerce(s string) Value {
	v := Value{Text: s}
	if !isNumeric(s) {
		return v
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return v
	}
	v.Num = f
	v.Numeric = true
	return v
}

func isNumeric(s string) bool {
	digits := 0
	dots := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			digits++
		case c == '.':
			dots++
			if dots > 1 {
				return false
			}
		default:
			return false
		}
	}
	return digits > 0
}

// compare applies op to a and b. Both sides compare as numbers only when
// both are numeric; otherwise the text forms are compared lexicographically.
func compare(op Operator, a, b Value) bool {
	if a.Numeric && b.Numeric {
		switch op {
		case OpGreater:
			return a.Num > b.Num
		case OpLess:
			return a.Num < b.Num
		case OpGreaterEqual:
			return a.Num >= b.Num
		case OpLessEqual:
			return a.Num <= b.Num
		case OpEqual:
			return a.Num == b.Num
		case OpNotEqual:
			return a.Num != b.Num
		}
		return false
	}

	switch op {
	case OpGreater:
		return a.Text > b.Text
	case OpLess:
		return a.Text < b.Text
	case OpGreaterEqual:
		return a.Text >= b.Text
	case OpLessEqual:
		return a.Text <= b.Text
	case OpEqual:
		return a.Text == b.Text
	case OpNotEqual:
		return a.Text != b.Text
	}
	return false
}
