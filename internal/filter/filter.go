// Package filter evaluates structured property filters against stored
// records.
package filter

import (
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dreamware/lexis/internal/errs"
	"github.com/dreamware/lexis/internal/storage"
)

// Query parameter names accepted by Parse
const (
	ParamIsPalindrome      = "is_palindrome"
	ParamMinLength         = "min_length"
	ParamMaxLength         = "max_length"
	ParamWordCount         = "word_count"
	ParamContainsCharacter = "contains_character"
)

// Set is a collection of optional predicates combined with AND.
// A nil field imposes no constraint.
type Set struct {
	IsPalindrome      *bool   `json:"is_palindrome,omitempty"`
	MinLength         *int    `json:"min_length,omitempty"`
	MaxLength         *int    `json:"max_length,omitempty"`
	WordCount         *int    `json:"word_count,omitempty"`
	ContainsCharacter *string `json:"contains_character,omitempty"`
}

// Empty reports whether no predicate is set
func (s Set) Empty() bool {
	return s.IsPalindrome == nil && s.MinLength == nil && s.MaxLength == nil &&
		s.WordCount == nil && s.ContainsCharacter == nil
}

// Conflicting reports whether the length bounds can never both hold
func (s Set) Conflicting() bool {
	return s.MinLength != nil && s.MaxLength != nil && *s.MinLength > *s.MaxLength
}

// Matches reports whether rec satisfies every predicate in s
func Matches(rec storage.Record, s Set) bool {
	p := rec.Properties

	if s.IsPalindrome != nil && p.IsPalindrome != *s.IsPalindrome {
		return false
	}
	if s.MinLength != nil && p.Length < *s.MinLength {
		return false
	}
	if s.MaxLength != nil && p.Length > *s.MaxLength {
		return false
	}
	if s.WordCount != nil && p.WordCount != *s.WordCount {
		return false
	}
	if s.ContainsCharacter != nil && p.CharacterFrequency[*s.ContainsCharacter] <= 0 {
		return false
	}
	return true
}

// Apply returns the records that match s, preserving order
func Apply(records []storage.Record, s Set) []storage.Record {
	out := make([]storage.Record, 0, len(records))
	for _, rec := range records {
		if Matches(rec, s) {
			out = append(out, rec)
		}
	}
	return out
}

// Parse builds a Set from query parameters.
// Unknown parameters are ignored; malformed values yield a validation error.
func Parse(q url.Values) (Set, error) {
	const op = "filter.Parse"
	var s Set

	if q.Has(ParamIsPalindrome) {
		switch strings.ToLower(q.Get(ParamIsPalindrome)) {
		case "true":
			s.IsPalindrome = Bool(true)
		case "false":
			s.IsPalindrome = Bool(false)
		default:
			return Set{}, errs.Validation(op, "is_palindrome must be 'true' or 'false'")
		}
	}

	ints := []struct {
		name string
		dst  **int
	}{
		{ParamMinLength, &s.MinLength},
		{ParamMaxLength, &s.MaxLength},
		{ParamWordCount, &s.WordCount},
	}
	for _, f := range ints {
		if !q.Has(f.name) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(q.Get(f.name)))
		if err != nil {
			return Set{}, errs.E(errs.KindValidation, op, f.name+" must be an integer", err)
		}
		*f.dst = Int(n)
	}

	if q.Has(ParamContainsCharacter) {
		c := q.Get(ParamContainsCharacter)
		if utf8.RuneCountInString(c) != 1 {
			return Set{}, errs.Validation(op, "contains_character must be a single character")
		}
		s.ContainsCharacter = String(c)
	}

	return s, nil
}

// Bool returns a pointer to b
func Bool(b bool) *bool { return &b }

// Int returns a pointer to n
func Int(n int) *int { return &n }

// String returns a pointer to s
func String(s string) *string { return &s }
