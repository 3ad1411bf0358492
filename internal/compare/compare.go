// Package compare implements structural comparison of expected
// fixture payloads against adapter observations.
//
// Both sides use decoded-JSON shapes: map[string]any, []any, string,
// float64, bool, nil. Comparison is strict: a missing, extra, or
// differing field is a mismatch. Per-case policies relax specific
// rules (numeric tolerance, newline normalization, extra keys).
package compare

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// DefaultTolerance is the absolute tolerance for numeric equality.
// Floating point round-trips through XML serialization lose precision
// beyond this.
const DefaultTolerance = 1e-4

// Policy controls comparison rules for one test case.
type Policy struct {
	// Tolerance is the absolute numeric tolerance. Zero means
	// DefaultTolerance; use a negative value for exact equality.
	Tolerance float64 `json:"tolerance,omitempty" yaml:"tolerance,omitempty"`

	// NormalizeNewlines folds CRLF and CR to LF on both sides
	// before string comparison. Off by default: line-ending
	// divergence is a real fidelity difference unless a case
	// opts out.
	NormalizeNewlines bool `json:"normalize_newlines,omitempty" yaml:"normalize_newlines,omitempty"`

	// AllowExtra permits actual objects to carry keys the
	// expected payload does not mention.
	AllowExtra bool `json:"allow_extra,omitempty" yaml:"allow_extra,omitempty"`
}

func (p Policy) tolerance() float64 {
	switch {
	case p.Tolerance == 0:
		return DefaultTolerance
	case p.Tolerance < 0:
		return 0
	default:
		return p.Tolerance
	}
}

// Outcome is the result of one comparison.
type Outcome struct {
	// Passed reports structural equality under the policy.
	Passed bool `json:"passed"`

	// Reason describes the first mismatch, empty when passed.
	Reason string `json:"reason,omitempty"`
}

// Values compares an expected payload against an actual observation.
// The full payloads are retained by the caller; the outcome only
// carries the verdict and the first mismatch.
func Values(expected, actual any, pol Policy) Outcome {
	if reason := walk("", expected, actual, pol); reason != "" {
		return Outcome{Passed: false, Reason: reason}
	}
	return Outcome{Passed: true}
}

func walk(path string, expected, actual any, pol Policy) string {
	if expected == nil {
		if actual == nil {
			return ""
		}
		return mismatch(path, "expected null, got %s", typeName(actual))
	}

	switch exp := expected.(type) {
	case map[string]any:
		act, ok := actual.(map[string]any)
		if !ok {
			return mismatch(path, "expected object, got %s", typeName(actual))
		}
		return walkObject(path, exp, act, pol)

	case []any:
		act, ok := actual.([]any)
		if !ok {
			return mismatch(path, "expected array, got %s", typeName(actual))
		}
		if len(exp) != len(act) {
			return mismatch(path, "expected %d elements, got %d", len(exp), len(act))
		}
		for i := range exp {
			if r := walk(fmt.Sprintf("%s[%d]", path, i), exp[i], act[i], pol); r != "" {
				return r
			}
		}
		return ""

	case string:
		act, ok := actual.(string)
		if !ok {
			return mismatch(path, "expected string %q, got %s", exp, typeName(actual))
		}
		if !stringsEqual(exp, act, pol) {
			return mismatch(path, "expected %q, got %q", exp, act)
		}
		return ""

	case bool:
		act, ok := actual.(bool)
		if !ok {
			return mismatch(path, "expected %v, got %s", exp, typeName(actual))
		}
		if exp != act {
			return mismatch(path, "expected %v, got %v", exp, act)
		}
		return ""

	default:
		expF, expOK := asFloat(expected)
		if !expOK {
			return mismatch(path, "unsupported expected type %T", expected)
		}
		actF, actOK := asFloat(actual)
		if !actOK {
			return mismatch(path, "expected number %v, got %s", expF, typeName(actual))
		}
		if math.Abs(expF-actF) > pol.tolerance() {
			return mismatch(path, "expected %v, got %v", expF, actF)
		}
		return ""
	}
}

func walkObject(path string, expected, actual map[string]any, pol Policy) string {
	keys := make([]string, 0, len(expected))
	for k := range expected {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		expV := expected[k]
		actV, present := actual[k]
		if !present {
			// A null expectation tolerates an absent key.
			if expV == nil {
				continue
			}
			return mismatch(join(path, k), "missing key")
		}
		if r := walk(join(path, k), expV, actV, pol); r != "" {
			return r
		}
	}

	if !pol.AllowExtra {
		extra := make([]string, 0)
		for k := range actual {
			if _, ok := expected[k]; !ok {
				extra = append(extra, k)
			}
		}
		if len(extra) > 0 {
			sort.Strings(extra)
			return mismatch(path, "unexpected keys %v", extra)
		}
	}
	return ""
}

func stringsEqual(exp, act string, pol Policy) bool {
	if pol.NormalizeNewlines {
		exp = normalizeNewlines(exp)
		act = normalizeNewlines(act)
	}
	// Hex colors compare case-insensitively.
	if strings.HasPrefix(exp, "#") && strings.HasPrefix(act, "#") {
		return strings.EqualFold(exp, act)
	}
	return exp == act
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64, uint64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func mismatch(path, format string, args ...any) string {
	msg := fmt.Sprintf(format, args...)
	if path == "" {
		return msg
	}
	return path + ": " + msg
}
