package glob

import (
	"fmt"
	"strings"
)

// checkPatternForError returns a description of the first problem with
// pattern, or "" if the pattern is well-formed.
func checkPatternForError(pattern string) string {
	if pattern == "" {
		return "pattern cannot be empty"
	}
	if pattern[0] == '/' {
		return "pattern cannot be absolute"
	}
	for _, segment := range strings.Split(pattern, "/") {
		switch {
		case segment == "":
			return "empty segment not permitted"
		case segment == "." || segment == "..":
			return fmt.Sprintf("segment '%s' not permitted", segment)
		case strings.Contains(segment, "**") && segment != "**":
			return "recursive wildcard must be its own segment"
		}
	}
	return ""
}

// ValidatePattern checks that pattern is a legal include pattern: non-empty,
// relative, with no empty, ".", or ".." segments, and with "**" appearing
// only as a complete segment.
func ValidatePattern(pattern string) error {
	if msg := checkPatternForError(pattern); msg != "" {
		return fmt.Errorf("%s (in glob pattern '%s')", msg, pattern)
	}
	return nil
}

// checkAndSplitPatterns validates each pattern and splits it on '/' into
// segments. The first invalid pattern aborts the whole batch.
func checkAndSplitPatterns(patterns []string) ([][]string, error) {
	split := make([][]string, 0, len(patterns))
	for _, pattern := range patterns {
		if err := ValidatePattern(pattern); err != nil {
			return nil, err
		}
		split = append(split, strings.Split(pattern, "/"))
	}
	return split, nil
}

func isRecursiveSegment(segment string) bool {
	return segment == "**"
}
