package utils

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	numberToken   = regexp.MustCompile(`\d+(?:,\d+)*(?:\.\d+)?`)
	negativeLead  = regexp.MustCompile(`^[^\d-]*-\s*\d`)
	nonNumericish = regexp.MustCompile(`[^\d.,]`)
)

// ParseCost turns whatever the model put in a cost field into a plain
// non-negative number. It never fails: anything unreadable is 0.
//
// Strings resolve in order: the amount after the last "=" (the model likes to
// show its arithmetic), else the last number in the string, else whatever is
// left after dropping every character that is not a digit or separator.
func ParseCost(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		return nonNegative(t)
	case float32:
		return nonNegative(float64(t))
	case int:
		return nonNegative(float64(t))
	case int64:
		return nonNegative(float64(t))
	case int32:
		return nonNegative(float64(t))
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return ParseCostString(t.String())
		}
		return nonNegative(f)
	case string:
		return ParseCostString(t)
	case map[string]any:
		for _, key := range []string{"amount", "value", "total", "cost", "price"} {
			if inner, ok := t[key]; ok {
				return ParseCost(inner)
			}
		}
		return 0
	default:
		return 0
	}
}

func ParseCostString(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	if idx := strings.LastIndex(s, "="); idx >= 0 {
		if tok := numberToken.FindString(s[idx+1:]); tok != "" {
			if negativeLead.MatchString(s[idx+1:]) {
				return 0
			}
			return parseToken(tok)
		}
	}

	if negativeLead.MatchString(s) {
		return 0
	}
	if toks := numberToken.FindAllString(s, -1); len(toks) > 0 {
		return parseToken(toks[len(toks)-1])
	}

	return parseToken(nonNumericish.ReplaceAllString(s, ""))
}

func parseToken(tok string) float64 {
	tok = strings.ReplaceAll(tok, ",", "")
	tok = strings.Trim(tok, ".")
	if tok == "" {
		return 0
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0
	}
	return nonNegative(f)
}

func nonNegative(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// RoundMoney rounds to two decimals.
func RoundMoney(f float64) float64 {
	return math.Round(f*100) / 100
}
