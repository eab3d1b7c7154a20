package filter

import (
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/lexis/internal/analyzer"
	"github.com/dreamware/lexis/internal/errs"
	"github.com/dreamware/lexis/internal/storage"
)

func record(t *testing.T, value string) storage.Record {
	t.Helper()
	props, err := analyzer.Analyze(value)
	require.NoError(t, err)
	return storage.Record{ID: props.Fingerprint, Value: value, Properties: props, CreatedAt: time.Now()}
}

func TestMatchesEmptySet(t *testing.T) {
	for _, v := range []string{"a", "Racecar", "hello world", "ÀbcbÀ"} {
		assert.True(t, Matches(record(t, v), Set{}), "value %q", v)
	}
	assert.True(t, Set{}.Empty())
}

func TestMatchesPredicates(t *testing.T) {
	racecar := record(t, "Racecar")     // length 7, palindrome, 1 word
	phrase := record(t, "hello world") // length 11, not palindrome, 2 words

	tests := []struct {
		name    string
		set     Set
		racecar bool
		phrase  bool
	}{
		{"palindrome true", Set{IsPalindrome: Bool(true)}, true, false},
		{"palindrome false", Set{IsPalindrome: Bool(false)}, false, true},
		{"min length inclusive", Set{MinLength: Int(7)}, true, true},
		{"min length excludes", Set{MinLength: Int(8)}, false, true},
		{"max length inclusive", Set{MaxLength: Int(7)}, true, false},
		{"length window", Set{MinLength: Int(5), MaxLength: Int(10)}, true, false},
		{"word count", Set{WordCount: Int(2)}, false, true},
		{"contains character", Set{ContainsCharacter: String("w")}, false, true},
		{"contains is case-sensitive", Set{ContainsCharacter: String("r")}, true, true},
		{"contains uppercase", Set{ContainsCharacter: String("R")}, true, false},
		{"contains space", Set{ContainsCharacter: String(" ")}, false, true},
		{"all predicates AND", Set{IsPalindrome: Bool(true), WordCount: Int(1), ContainsCharacter: String("z")}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.racecar, Matches(racecar, tt.set), "Racecar")
			assert.Equal(t, tt.phrase, Matches(phrase, tt.set), "hello world")
		})
	}
}

func TestApply(t *testing.T) {
	records := []storage.Record{
		record(t, "level"),
		record(t, "hello world"),
		record(t, "noon"),
	}

	got := Apply(records, Set{IsPalindrome: Bool(true)})
	require.Len(t, got, 2)
	assert.Equal(t, "level", got[0].Value)
	assert.Equal(t, "noon", got[1].Value)

	assert.Empty(t, Apply(records, Set{MinLength: Int(100)}))
	assert.Empty(t, Apply(nil, Set{}))
}

func TestParse(t *testing.T) {
	t.Run("all parameters", func(t *testing.T) {
		q := url.Values{
			"is_palindrome":      {"TRUE"},
			"min_length":         {"5"},
			"max_length":         {"10"},
			"word_count":         {"1"},
			"contains_character": {"a"},
			"unrelated":          {"ignored"},
		}
		s, err := Parse(q)
		require.NoError(t, err)

		assert.Equal(t, Set{
			IsPalindrome:      Bool(true),
			MinLength:         Int(5),
			MaxLength:         Int(10),
			WordCount:         Int(1),
			ContainsCharacter: String("a"),
		}, s)
	})

	t.Run("no parameters", func(t *testing.T) {
		s, err := Parse(url.Values{})
		require.NoError(t, err)
		assert.True(t, s.Empty())
	})

	t.Run("multi-byte character", func(t *testing.T) {
		s, err := Parse(url.Values{"contains_character": {"é"}})
		require.NoError(t, err)
		assert.Equal(t, "é", *s.ContainsCharacter)
	})

	invalid := []struct {
		name string
		q    url.Values
	}{
		{"palindrome not boolean", url.Values{"is_palindrome": {"yes"}}},
		{"palindrome empty", url.Values{"is_palindrome": {""}}},
		{"min length not integer", url.Values{"min_length": {"five"}}},
		{"max length float", url.Values{"max_length": {"1.5"}}},
		{"word count empty", url.Values{"word_count": {""}}},
		{"contains two characters", url.Values{"contains_character": {"ab"}}},
		{"contains empty", url.Values{"contains_character": {""}}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.q)
			require.Error(t, err)
			assert.Equal(t, errs.KindValidation, errs.KindOf(err))
		})
	}
}

func TestConflicting(t *testing.T) {
	assert.True(t, Set{MinLength: Int(10), MaxLength: Int(5)}.Conflicting())
	assert.False(t, Set{MinLength: Int(5), MaxLength: Int(5)}.Conflicting())
	assert.False(t, Set{MinLength: Int(10)}.Conflicting())
}

func TestSetJSONOmitsAbsentPredicates(t *testing.T) {
	data, err := json.Marshal(Set{IsPalindrome: Bool(false), MinLength: Int(3)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"is_palindrome":false,"min_length":3}`, string(data))
}
