// Package classify decides whether a username fits a naming pattern.
// Every method is a pure function of the username; none of them touch the network.
package classify

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Method names a username pattern
type Method string

// Methods in display order
const (
	Random             Method = "random"
	Numberless         Method = "numberless"
	Numbers            Method = "numbers"
	EndsIn123          Method = "ends_in_123"
	EndsIn1Digit       Method = "ends_in_1_digit"
	EndsIn2Digits      Method = "ends_in_2_digits"
	EndsIn4Digits      Method = "ends_in_4_digits"
	Year               Method = "year"
	Double             Method = "double"
	RealName           Method = "real_name"
	DoubleRealName     Method = "double_real_name"
	FourDigitsRealName Method = "4digits_real_name"
	Nonstop            Method = "nonstop"
)

// Methods lists every known method
var Methods = []Method{
	Random, Numberless, Numbers, EndsIn123, EndsIn1Digit, EndsIn2Digits, EndsIn4Digits,
	Year, Double, RealName, DoubleRealName, FourDigitsRealName, Nonstop,
}

// Known reports whether m is one of Methods
func (m Method) Known() bool {
	for _, k := range Methods {
		if k == m {
			return true
		}
	}
	return false
}

// Filtering reports whether the method rejects any username at all
func (m Method) Filtering() bool { return m != Random && m != Nonstop && m.Known() }

// Year bounds accepted by the year method
const (
	MinYear = 1970
	MaxYear = 2017
)

// Classify reports whether username fits m, with a human readable reason.
// Unknown methods match.
func Classify(username string, m Method) (bool, string) {
	switch m {
	case Random:
		return true, "method=random (no filtering)"
	case Numberless:
		if !hasDigit(username) {
			return true, "no digits in username"
		}
		return false, "contains digits while method=numberless"
	case Numbers:
		if hasDigit(username) {
			return true, "contains at least one digit"
		}
		return false, "has no digits while method=numbers"
	case EndsIn123:
		if strings.HasSuffix(username, "123") {
			return true, "username ends with '123'"
		}
		return false, "does not end with '123'"
	case EndsIn1Digit:
		return exactTrailing(username, 1)
	case EndsIn2Digits:
		return exactTrailing(username, 2)
	case EndsIn4Digits:
		return exactTrailing(username, 4)
	case Year:
		return year(username)
	case Double:
		return double(username)
	case RealName:
		ok, _, reason := realName(lower(username))
		return ok, reason
	case DoubleRealName:
		return doubleRealName(lower(username))
	case FourDigitsRealName:
		return fourDigitsRealName(lower(username))
	case Nonstop:
		return true, "nonstop scanning (inactive only, output to files)"
	default:
		return true, "fallback: unknown method, treated as match"
	}
}

// RealNameTokens returns the dictionary tokens that made username a real_name match, or nil
func RealNameTokens(username string) []string {
	ok, tokens, _ := realName(lower(username))
	if !ok {
		return nil
	}
	return tokens
}

// TrailingDigits counts the ASCII digits at the end of s
func TrailingDigits(s string) int {
	n := 0
	for i := len(s) - 1; i >= 0 && isDigit(s[i]); i-- {
		n++
	}
	return n
}

// EndsInExactly reports whether s ends in exactly n digits, not more
func EndsInExactly(s string, n int) bool { return n > 0 && TrailingDigits(s) == n }

func exactTrailing(s string, n int) (bool, string) {
	unit := "digits"
	if n == 1 {
		unit = "digit"
	}
	if EndsInExactly(s, n) {
		return true, fmt.Sprintf("ends in exactly %d %s", n, unit)
	}
	return false, fmt.Sprintf("does not end in exactly %d %s", n, unit)
}

func year(s string) (bool, string) {
	switch t := TrailingDigits(s); {
	case t < 4:
		return false, "does not end with 4 digits"
	case t > 4:
		return false, "ends with more than 4 digits"
	}
	y, _ := strconv.Atoi(s[len(s)-4:])
	if y >= MinYear && y <= MaxYear {
		return true, fmt.Sprintf("ends with valid year %d", y)
	}
	return false, fmt.Sprintf("ends with year %d outside %d-%d", y, MinYear, MaxYear)
}

func double(s string) (bool, string) {
	t := TrailingDigits(s)
	if t == 0 {
		return false, "username must end with digits"
	}
	core := s[:len(s)-t]

	// leftmost start wins, longest chunk at that start
	for i := 0; i < len(core); i++ {
		for n := (len(core) - i) / 2; n >= 3; n-- {
			chunk := core[i : i+n]
			if allLetters(chunk) && core[i+n:i+2*n] == chunk {
				return true, fmt.Sprintf("contains repeated word '%s' and ends with digits", chunk)
			}
		}
	}
	for i := 0; i+4 <= len(core); i++ {
		if isDigit(core[i]) && isDigit(core[i+1]) && core[i:i+2] == core[i+2:i+4] {
			return true, fmt.Sprintf("contains repeated 2-digit number '%s' and ends with digits", core[i:i+2])
		}
	}
	return false, "no repeated 2-digit or 3+ letter chunk found before ending digits"
}

type hit struct {
	name       string
	start, end int
}

func realName(s string) (bool, []string, string) {
	ending := "123"
	if !strings.HasSuffix(s, "123") {
		t := TrailingDigits(s)
		if t < 2 || t > 4 {
			return false, nil, fmt.Sprintf("has %d trailing digits at end (need 2-4 digits or '123') for real_name", t)
		}
		ending = fmt.Sprintf("%d_digits", t)
	}

	letters := lettersOnly(s)
	if letters == "" {
		return false, nil, "no letters in username for real_name"
	}

	var hits []hit
	for _, name := range nameTokens {
		for from := 0; from < len(letters); {
			idx := strings.Index(letters[from:], name)
			if idx < 0 {
				break
			}
			idx += from
			hits = append(hits, hit{name: name, start: idx, end: idx + len(name)})
			from = idx + 1
		}
	}
	if len(hits) == 0 {
		return false, nil, "no real-name token found for real_name"
	}
	sort.SliceStable(hits, func(i, j int) bool {
		li, lj := hits[i].end-hits[i].start, hits[j].end-hits[j].start
		if li != lj {
			return li > lj
		}
		if hits[i].start != hits[j].start {
			return hits[i].start < hits[j].start
		}
		return hits[i].name < hits[j].name
	})

	covered := make([]bool, len(letters))
	contributing := map[string]struct{}{}
	for _, h := range hits {
		fresh := false
		for i := h.start; i < h.end; i++ {
			if !covered[i] {
				fresh = true
				break
			}
		}
		if !fresh {
			continue
		}
		for i := h.start; i < h.end; i++ {
			covered[i] = true
		}
		contributing[h.name] = struct{}{}
	}
	if len(contributing) == 0 {
		return false, nil, "no real-name token contributed coverage for real_name"
	}

	tokens := make([]string, 0, len(contributing))
	for n := range contributing {
		tokens = append(tokens, n)
	}
	sort.Strings(tokens)

	extra := 0
	for i := range letters { // rune starts only
		if !covered[i] {
			extra++
		}
	}
	if extra < 1 {
		return false, tokens, fmt.Sprintf("letters-only='%s', tokens=%v, extra_letters=%d (<1), ending=%s",
			letters, tokens, extra, ending)
	}
	return true, tokens, fmt.Sprintf("letters-only='%s', tokens=%v, extra_letters=%d (>=1), ending=%s",
		letters, tokens, extra, ending)
}

func doubleRealName(s string) (bool, string) {
	letters := lettersOnly(s[:len(s)-TrailingDigits(s)])
	if letters == "" {
		return false, "no letters in username for double_real_name"
	}
	half := len(letters) / 2
	if len(letters)%2 == 0 && letters[:half] == letters[half:] && IsName(letters[:half]) {
		return true, fmt.Sprintf("doubled real name '%s'", letters[:half])
	}
	return false, "not a doubled real name"
}

func fourDigitsRealName(s string) (bool, string) {
	if t := TrailingDigits(s); t != 4 {
		return false, fmt.Sprintf("has %d trailing digits (need exactly 4) for 4digits_real_name", t)
	}
	prefix := s[:len(s)-4]
	if prefix == "" || lettersOnly(prefix) != prefix {
		return false, "name part contains non-letter characters"
	}
	if !IsName(prefix) {
		return false, fmt.Sprintf("'%s' is not a real name token", prefix)
	}
	return true, fmt.Sprintf("real name '%s' + 4 digits", prefix)
}

// lower folds with a fresh caser per call; casers are not safe for concurrent use
func lower(s string) string { return cases.Lower(language.Und).String(s) }

func lettersOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allLetters(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}

func hasDigit(s string) bool {
	for i := 0; i < len(s); i++ {
		if isDigit(s[i]) {
			return true
		}
	}
	return false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
