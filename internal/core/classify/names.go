package classify

import (
	_ "embed"
	"sort"
	"strings"
)

//go:embed names.txt
var namesTxt string

var (
	nameSet    map[string]struct{}
	nameTokens []string // longest first, then alphabetical
)

func init() {
	nameSet = make(map[string]struct{}, 600)
	for _, line := range strings.Split(namesTxt, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		nameSet[strings.ToLower(line)] = struct{}{}
	}
	nameTokens = make([]string, 0, len(nameSet))
	for n := range nameSet {
		nameTokens = append(nameTokens, n)
	}
	sort.Slice(nameTokens, func(i, j int) bool {
		if len(nameTokens[i]) != len(nameTokens[j]) {
			return len(nameTokens[i]) > len(nameTokens[j])
		}
		return nameTokens[i] < nameTokens[j]
	})
}

// IsName reports whether token (any case) is in the first-name dictionary
func IsName(token string) bool {
	_, ok := nameSet[strings.ToLower(token)]
	return ok
}

// NameCount returns the dictionary size
func NameCount() int { return len(nameTokens) }
