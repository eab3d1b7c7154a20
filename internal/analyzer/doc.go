// Package analyzer derives the properties Lexis reports for every stored
// string: length, palindrome flag, distinct characters, word count, the
// SHA-256 fingerprint used as the record key, and a per-character frequency
// table.
//
// # Determinism
//
// Analyze is a pure function. The same input always yields identical
// Properties, which is what makes duplicate detection by fingerprint work:
// resubmitting a value recomputes the same key and the store rejects it.
//
// # Character Semantics
//
// All counts operate on Unicode code points (runes), not bytes:
//   - Length: number of runes in the value
//   - UniqueCharacters: number of distinct runes
//   - CharacterFrequency: rune (as a one-rune string) to occurrence count
//
// Internal whitespace is a character like any other. Only leading and
// trailing whitespace is removed, and that happens in Canonicalize before
// analysis.
//
// # Palindromes
//
// The palindrome check lowercases the value and compares it with its
// rune-reversed form. Punctuation and spaces are not stripped, so
// "Racecar" is a palindrome but "nurses run" is not.
//
// # Fingerprints
//
// Fingerprints are computed over the exact trimmed value with case
// preserved. "Racecar" and "racecar" are distinct records.
//
// # Usage
//
//	value, err := analyzer.Canonicalize("  Racecar ")
//	if err != nil {
//	    return err // analyzer.ErrEmptyInput
//	}
//	props, _ := analyzer.Analyze(value)
//	fmt.Println(props.Length, props.IsPalindrome) // 7 true
package analyzer
