package analyzer

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"unicode/utf8"
)

// ErrEmptyInput is returned when a string is empty after trimming
var ErrEmptyInput = errors.New("empty input")

// Properties holds everything derived from a stored string.
// It is a pure function of the value and never changes after Analyze returns.
type Properties struct {
	CharacterFrequency map[string]int `json:"character_frequency_map"`
	Fingerprint        string         `json:"sha256_hash"`
	Length             int            `json:"length"`
	UniqueCharacters   int            `json:"unique_characters"`
	WordCount          int            `json:"word_count"`
	IsPalindrome       bool           `json:"is_palindrome"`
}

// Canonicalize strips leading and trailing whitespace.
// Returns ErrEmptyInput if nothing is left.
func Canonicalize(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", ErrEmptyInput
	}
	return value, nil
}

// Fingerprint returns the hex-encoded SHA-256 digest of value.
// The digest is case-sensitive and covers the exact bytes given.
func Fingerprint(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// Analyze computes the properties of an already-trimmed string.
// Characters are counted as runes, so multi-byte text is measured the way
// a reader would count it.
func Analyze(value string) (Properties, error) {
	if value == "" {
		return Properties{}, ErrEmptyInput
	}

	freq := make(map[string]int)
	for _, r := range value {
		freq[string(r)]++
	}

	return Properties{
		Length:             utf8.RuneCountInString(value),
		IsPalindrome:       IsPalindrome(value),
		UniqueCharacters:   len(freq),
		WordCount:          len(strings.Fields(value)),
		Fingerprint:        Fingerprint(value),
		CharacterFrequency: freq,
	}, nil
}

// IsPalindrome reports whether the lowercase form of s reads the same reversed.
func IsPalindrome(s string) bool {
	lower := strings.ToLower(s)
	return lower == Reverse(lower)
}

// Reverse returns s with its runes in reverse order.
func Reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
