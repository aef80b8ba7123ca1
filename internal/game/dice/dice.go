// Package dice parses and rolls dice expressions. Ability cost, damage,
// and duration formulas are dice expressions stored verbatim and
// validated at edit time.
package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Expression is a parsed dice expression.
// Invariant: Count >= 1 and Sides >= 2 after a successful Parse.
type Expression struct {
	Raw      string // original input string
	Count    int    // number of dice
	Sides    int    // faces per die
	Modifier int    // flat modifier (may be negative)
}

// Parse parses a dice expression string.
// Supported forms: "d20", "2d6", "2d6+3", "4d8-2".
//
// Precondition: expr must be non-empty.
// Postcondition: Returns an Expression or a descriptive error.
func Parse(expr string) (Expression, error) {
	if expr == "" {
		return Expression{}, fmt.Errorf("dice: empty expression")
	}

	raw := expr
	s := strings.ToLower(strings.TrimSpace(expr))

	dIdx := strings.Index(s, "d")
	if dIdx < 0 {
		return Expression{}, fmt.Errorf("dice: missing 'd' in expression %q", raw)
	}

	count := 1
	if countStr := s[:dIdx]; countStr != "" {
		n, err := strconv.Atoi(countStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: %w", raw, err)
		}
		if n <= 0 {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: must be >= 1", raw)
		}
		count = n
	}

	rest := s[dIdx+1:]

	// First '+' or '-' past position 0 splits sides from the modifier.
	modOffset := -1
	for i := 1; i < len(rest); i++ {
		if rest[i] == '+' || rest[i] == '-' {
			modOffset = i
			break
		}
	}

	sidesStr, modStr := rest, ""
	if modOffset >= 0 {
		sidesStr, modStr = rest[:modOffset], rest[modOffset:]
	}

	sides, err := strconv.Atoi(sidesStr)
	if err != nil {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: %w", raw, err)
	}
	if sides < 2 {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: must be >= 2", raw)
	}

	modifier := 0
	if modStr != "" {
		modifier, err = strconv.Atoi(modStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid modifier in %q: %w", raw, err)
		}
	}

	return Expression{Raw: raw, Count: count, Sides: sides, Modifier: modifier}, nil
}

// Valid reports whether expr parses as a dice expression.
func Valid(expr string) bool {
	_, err := Parse(expr)
	return err == nil
}

// Source supplies uniform random values for rolls.
type Source interface {
	// Intn returns a uniform value in [0, n). Precondition: n > 0.
	Intn(n int) int
}

// Roller rolls expressions and percentage checks against a Source.
type Roller struct {
	src Source
}

// NewRoller creates a Roller backed by src.
//
// Precondition: src must be non-nil.
func NewRoller(src Source) *Roller {
	return &Roller{src: src}
}

// Roll evaluates expr and returns the total.
//
// Precondition: expr must come from Parse.
func (r *Roller) Roll(expr Expression) int {
	total := expr.Modifier
	for i := 0; i < expr.Count; i++ {
		total += r.src.Intn(expr.Sides) + 1
	}
	return total
}

// RollExpr parses and rolls expr in one call.
//
// Postcondition: Returns the total, or a parse error.
func (r *Roller) RollExpr(expr string) (int, error) {
	e, err := Parse(expr)
	if err != nil {
		return 0, err
	}
	return r.Roll(e), nil
}

// Percent reports whether a 1-100 roll lands at or under chance.
//
// Postcondition: Always false for chance <= 0, always true for chance >= 100.
func (r *Roller) Percent(chance int) bool {
	if chance <= 0 {
		return false
	}
	if chance >= 100 {
		return true
	}
	return r.src.Intn(100)+1 <= chance
}
