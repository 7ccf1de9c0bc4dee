package go_bsexplain

import (
	"fmt"
	"strings"

	"github.com/golang/glog"
)

// Solve assembles one calculation step: the symbolic formulas, the same
// formulas with every input's display value substituted for its name, and the
// rounded answer.
//
//	[formula_1 .. formula_n, substituted_1 .. substituted_n, answer]
//
// Names are matched as whole tokens in a single left-to-right pass, taking the
// longest name at each position, so the result does not depend on the order
// of inputs. Only the engine's own symbols (S, K, \tau, \sigma, r, q, d_1,
// d_2 and the N terms) are known: one of them left unbound fails with
// ErrUnresolvedVariable, while any other name is left in the text as is.
func Solve(formulas []string, inputs []EquationInput, answer string) ([]string, error) {
	parts := make([]string, 0, 2*len(formulas)+1)
	for _, f := range formulas {
		parts = append(parts, strings.TrimSpace(f))
	}
	for _, f := range formulas {
		sub, err := substitute(strings.TrimSpace(f), inputs)
		if err != nil {
			return nil, err
		}
		if name, ok := findSymbol(sub, knownSymbols); ok {
			glog.Errorf("formula %q: no input for %s", f, name)
			return nil, fmt.Errorf("%w: %s in %q", ErrUnresolvedVariable, name, f)
		}
		parts = append(parts, sub)
	}
	return append(parts, answer), nil
}

// solveNamed prefixes the step with the quantity being defined, e.g. d_1.
func solveNamed(notation, formula string, inputs []EquationInput, answer string) ([]string, error) {
	parts, err := Solve([]string{formula}, inputs, answer)
	if err != nil {
		return nil, err
	}
	return append([]string{notation}, parts...), nil
}

func substitute(template string, inputs []EquationInput) (string, error) {
	var b strings.Builder
	for i := 0; i < len(template); {
		best := -1
		for j, in := range inputs {
			if tokenAt(template, i, in.name) && (best < 0 || len(in.name) > len(inputs[best].name)) {
				best = j
			}
		}
		if best < 0 {
			b.WriteByte(template[i])
			i++
			continue
		}
		v, err := inputs[best].display()
		if err != nil {
			return "", err
		}
		b.WriteString(v)
		i += len(inputs[best].name)
	}
	return b.String(), nil
}

func findSymbol(s string, symbols []string) (string, bool) {
	for i := range s {
		for _, sym := range symbols {
			if tokenAt(s, i, sym) {
				return sym, true
			}
		}
	}
	return "", false
}

// tokenAt reports whether name occurs at s[i:] as a whole token: a name that
// starts with a word character must not continue a word or a LaTeX command,
// and one that ends with a word character must not run into another.
func tokenAt(s string, i int, name string) bool {
	if name == "" || !strings.HasPrefix(s[i:], name) {
		return false
	}
	if i > 0 && isWordByte(name[0]) {
		if prev := s[i-1]; isWordByte(prev) || prev == '\\' {
			return false
		}
	}
	if end := i + len(name); end < len(s) && isWordByte(name[len(name)-1]) && isWordByte(s[end]) {
		return false
	}
	return true
}

func isWordByte(b byte) bool {
	return b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}
