// Package nlquery turns short English queries such as
// "palindromic strings longer than 10 characters" into a filter.Set.
//
// It is a fixed table of pattern rules, not a language parser. Every rule
// is tried against the lowercased query and every rule that fires adds its
// predicate, so rules combine with AND. Negation, number words and "or"
// are not understood.
package nlquery

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/dreamware/lexis/internal/filter"
)

// rule detects one phrase and sets the matching predicate.
// apply returns false when the phrase is absent.
type rule struct {
	name  string
	apply func(q string, s *filter.Set) bool
}

var (
	longerThanRe  = regexp.MustCompile(`\blong(?:er)? than (\d+) characters?\b`)
	shorterThanRe = regexp.MustCompile(`\bshorter than (\d+) characters?\b`)
	letterRe      = regexp.MustCompile(`\bcontains? (?:the )?letter (\p{L})(?:\P{L}|$)`)
)

// rules run in order; later rules overwrite a predicate an earlier one set
var rules = []rule{
	{name: "palindrome", apply: func(q string, s *filter.Set) bool {
		if strings.Contains(q, "palindrome") || strings.Contains(q, "palindromic") {
			s.IsPalindrome = filter.Bool(true)
			return true
		}
		return false
	}},
	{name: "single word", apply: func(q string, s *filter.Set) bool {
		if strings.Contains(q, "single word") {
			s.WordCount = filter.Int(1)
			return true
		}
		return false
	}},
	{name: "longer than", apply: func(q string, s *filter.Set) bool {
		n, ok := captureInt(longerThanRe, q)
		if !ok {
			return false
		}
		// No string reaches math.MaxInt characters, so clamping still matches nothing
		s.MinLength = filter.Int(min(n, math.MaxInt-1) + 1)
		return true
	}},
	{name: "shorter than", apply: func(q string, s *filter.Set) bool {
		n, ok := captureInt(shorterThanRe, q)
		if !ok {
			return false
		}
		s.MaxLength = filter.Int(n - 1)
		return true
	}},
	{name: "contains letter", apply: func(q string, s *filter.Set) bool {
		m := letterRe.FindStringSubmatch(q)
		if m == nil {
			return false
		}
		s.ContainsCharacter = filter.String(m[1])
		return true
	}},
	{name: "first vowel", apply: func(q string, s *filter.Set) bool {
		if strings.Contains(q, "first vowel") {
			s.ContainsCharacter = filter.String("a")
			return true
		}
		return false
	}},
}

// Translate maps query to a filter set.
// ok is false when no rule recognized anything in the query.
func Translate(query string) (s filter.Set, ok bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return filter.Set{}, false
	}

	for _, r := range rules {
		if r.apply(q, &s) {
			ok = true
		}
	}
	return s, ok
}

// captureInt returns the first capture group of re in q as an int
func captureInt(re *regexp.Regexp, q string) (int, bool) {
	m := re.FindStringSubmatch(q)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		// digits too long for int
		return 0, false
	}
	return n, true
}
