package glob

import (
	"regexp"
	"strings"
	"sync"
)

// matches reports whether name matches the single-segment wildcard pattern.
// cache, if non-nil, memoizes compiled patterns across calls; its lifetime
// is the enclosing query.
func matches(pattern, name string, cache *sync.Map) bool {
	if len(pattern) == 0 || len(name) == 0 {
		return false
	}

	// Common case: **
	if pattern == "**" {
		return true
	}

	// If a filename starts with '.', that char must be matched explicitly.
	if name[0] == '.' && pattern[0] != '.' {
		return false
	}

	// Common case: *
	if pattern == "*" {
		return true
	}

	// Common case: *.xyz
	if pattern[0] == '*' && strings.LastIndexByte(pattern, '*') == 0 &&
		!strings.ContainsRune(pattern, '?') {
		return strings.HasSuffix(name, pattern[1:])
	}
	// Common case: xyz*
	last := len(pattern) - 1
	if pattern[last] == '*' && strings.IndexByte(pattern, '*') == last &&
		!strings.ContainsRune(pattern, '?') {
		return strings.HasPrefix(name, pattern[:last])
	}

	var re *regexp.Regexp
	if cache == nil {
		re = compileWildcard(pattern)
	} else if v, ok := cache.Load(pattern); ok {
		re = v.(*regexp.Regexp)
	} else {
		v, _ := cache.LoadOrStore(pattern, compileWildcard(pattern))
		re = v.(*regexp.Regexp)
	}
	return re.MatchString(name)
}

// compileWildcard translates a wildcard pattern into an anchored regular
// expression, e.g. "foo*bar?.go" -> "^foo.*bar.\.go$".
func compileWildcard(pattern string) *regexp.Regexp {
	buf := make([]byte, 0, len(pattern)+8)
	buf = append(buf, '^')
	for i := 0; i < len(pattern); i++ {
		switch c := pattern[i]; c {
		case '*':
			toIncrement := 0
			if len(pattern) > i+1 && pattern[i+1] == '*' {
				// '**' matches zero or more directory separators, not one or
				// more: skip the second '*' and fold an adjacent '/' into
				// the ".*". A segment is supposed to be '**' on its own, but
				// the substitution keeps the edge cases matching.
				toIncrement = 1
				if len(pattern) > i+2 && pattern[i+2] == '/' {
					// '**/' -- skip the '/'.
					toIncrement = 2
				} else if len(pattern) == i+2 && i > 0 && pattern[i-1] == '/' {
					// '/**' -- drop the '/'.
					buf = buf[:len(buf)-1]
				}
			}
			buf = append(buf, '.', '*')
			i += toIncrement
		case '?':
			buf = append(buf, '.')
		// Escape the regexp metacharacters that are allowed in wildcards.
		case '^', '$', '|', '+', '{', '}', '[', ']', '\\', '.':
			buf = append(buf, '\\', c)
		default:
			buf = append(buf, c)
		}
	}
	buf = append(buf, '$')
	return regexp.MustCompile(string(buf))
}
