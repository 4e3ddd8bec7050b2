// Package jsonrepair recovers structured data from model output that is
// supposed to be JSON but frequently is not: wrapped in prose, fenced in
// markdown, cut off mid-stream, or written as a JavaScript-style literal.
package jsonrepair

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tailscale/hujson"
)

type Strategy string

const (
	StrategyStrict        Strategy = "strict"
	StrategyLenient       Strategy = "lenient"
	StrategySubstring     Strategy = "substring"
	StrategyBracketRepair Strategy = "bracket_repair"
	StrategyLiteral       Strategy = "literal"
)

var ErrRecoveryFailed = errors.New("json recovery failed")

// Result is the decoded value plus how it was obtained. RepairedText is only
// set when a strategy other than a direct strict parse produced the value, so
// it can be stored next to the untouched raw text.
type Result struct {
	Value        any
	Strategy     Strategy
	Repaired     bool
	RepairedText string
}

type attempt struct {
	strategy Strategy
	err      error
}

// RecoveryError reports every strategy that was tried.
type RecoveryError struct {
	attempts []attempt
	snippet  string
}

func (e *RecoveryError) Error() string {
	var b strings.Builder
	b.WriteString("json recovery failed")
	for _, a := range e.attempts {
		fmt.Fprintf(&b, "; %s: %v", a.strategy, a.err)
	}
	if e.snippet != "" {
		fmt.Fprintf(&b, " (payload snippet: %s)", e.snippet)
	}
	return b.String()
}

func (e *RecoveryError) Unwrap() error { return ErrRecoveryFailed }

// Strategies lists the strategies that were attempted, in order.
func (e *RecoveryError) Strategies() []Strategy {
	out := make([]Strategy, 0, len(e.attempts))
	for _, a := range e.attempts {
		out = append(out, a.strategy)
	}
	return out
}

// Recover decodes raw, trying cheap strategies first:
// strict, lenient, substring extraction, bracket-balance repair and finally
// the literal-only grammar parser. It never evaluates code.
func Recover(raw string) (*Result, error) {
	var attempts []attempt
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, &RecoveryError{attempts: []attempt{{StrategyStrict, errors.New("empty payload")}}}
	}

	if v, err := decodeStrict(trimmed); err == nil {
		return &Result{Value: v, Strategy: StrategyStrict}, nil
	} else {
		attempts = append(attempts, attempt{StrategyStrict, err})
	}

	if v, text, err := decodeLenient(trimmed); err == nil {
		return repaired(v, StrategyLenient, text), nil
	} else {
		attempts = append(attempts, attempt{StrategyLenient, err})
	}

	slice := extractSubstring(trimmed)
	if slice != "" && slice != trimmed {
		if v, text, err := decodeEither(slice); err == nil {
			return repaired(v, StrategySubstring, text), nil
		} else {
			attempts = append(attempts, attempt{StrategySubstring, err})
		}
	} else {
		attempts = append(attempts, attempt{StrategySubstring, errors.New("no enclosing object found")})
	}

	fixed := RepairBrackets(trimmed)
	if fixed != "" {
		if v, text, err := decodeEither(fixed); err == nil {
			return repaired(v, StrategyBracketRepair, text), nil
		} else {
			attempts = append(attempts, attempt{StrategyBracketRepair, err})
		}
	} else {
		attempts = append(attempts, attempt{StrategyBracketRepair, errors.New("no opening bracket")})
	}

	literalInput := slice
	if literalInput == "" {
		literalInput = trimmed
	}
	if v, err := ParseLiteral(literalInput); err == nil {
		canon, mErr := json.Marshal(v)
		if mErr == nil {
			return repaired(v, StrategyLiteral, string(canon)), nil
		}
		attempts = append(attempts, attempt{StrategyLiteral, mErr})
	} else {
		attempts = append(attempts, attempt{StrategyLiteral, err})
	}

	return nil, &RecoveryError{attempts: attempts, snippet: summarize(trimmed)}
}

// DecodeInto recovers raw and decodes the result into target.
func DecodeInto(raw string, target any) (*Result, error) {
	res, err := Recover(raw)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(res.Value)
	if err != nil {
		return nil, fmt.Errorf("re-encode recovered value: %w", err)
	}
	if err := json.Unmarshal(b, target); err != nil {
		return nil, fmt.Errorf("decode recovered value: %w", err)
	}
	return res, nil
}

// LooksLikeJSON reports whether s is plausibly JSON text for an object or array.
func LooksLikeJSON(s string) bool {
	t := strings.TrimSpace(stripCodeFence(s))
	if t == "" {
		return false
	}
	return t[0] == '{' || t[0] == '['
}

func repaired(v any, s Strategy, text string) *Result {
	return &Result{Value: v, Strategy: s, Repaired: true, RepairedText: text}
}

func decodeStrict(s string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, err
	}
	return v, nil
}

func decodeLenient(s string) (any, string, error) {
	std, err := hujson.Standardize([]byte(s))
	if err != nil {
		return nil, "", err
	}
	v, err := decodeStrict(string(std))
	if err != nil {
		return nil, "", err
	}
	return v, string(std), nil
}

func decodeEither(s string) (any, string, error) {
	if v, err := decodeStrict(s); err == nil {
		return v, s, nil
	}
	return decodeLenient(s)
}

// extractSubstring drops code fences and any prose around the outermost
// object (or array when the text holds no object).
func extractSubstring(s string) string {
	s = strings.TrimSpace(stripCodeFence(s))
	if start := strings.Index(s, "{"); start >= 0 {
		if end := strings.LastIndex(s, "}"); end > start {
			return strings.TrimSpace(s[start : end+1])
		}
	}
	if start := strings.Index(s, "["); start >= 0 {
		if end := strings.LastIndex(s, "]"); end > start {
			return strings.TrimSpace(s[start : end+1])
		}
	}
	return ""
}

func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "```")
	if start < 0 {
		return trimmed
	}
	body := trimmed[start+3:]
	body = strings.TrimLeft(body, " \t\r\n")
	if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
		body = strings.TrimLeft(body[4:], " \t\r\n")
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}

func summarize(s string) string {
	const limit = 160
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
