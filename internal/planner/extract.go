package planner

import (
	"encoding/json"
	"errors"
	"strings"
)

// extractJSON defensively pulls a JSON object out of potentially noisy
// model output: code fences are stripped, and if a direct parse fails the
// first balanced JSON object or array is tried.
func extractJSON(text string) ([]byte, error) {
	s := stripMarkdownCodeBlocks(text)
	if s == "" {
		return nil, errors.New("empty response")
	}

	if json.Valid([]byte(s)) {
		return []byte(s), nil
	}

	for _, pair := range [][2]byte{{'{', '}'}, {'[', ']'}} {
		if candidate := balancedSlice(s, pair[0], pair[1]); candidate != "" && json.Valid([]byte(candidate)) {
			return []byte(candidate), nil
		}
	}
	return nil, errors.New("no JSON found in response")
}

// balancedSlice returns the first balanced open..close region of s, or "".
func balancedSlice(s string, open, close byte) string {
	depth := 0
	start := -1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case open:
			if depth == 0 {
				start = i
			}
			depth++
		case close:
			if depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					return s[start : i+1]
				}
			}
		}
	}
	return ""
}

// stripMarkdownCodeBlocks removes ```json fences around a response.
func stripMarkdownCodeBlocks(s string) string {
	s = strings.TrimSpace(s)
	if cut, found := strings.CutPrefix(s, "```json"); found {
		s = cut
	} else if cut, found := strings.CutPrefix(s, "```"); found {
		s = cut
	}
	if cut, found := strings.CutSuffix(s, "```"); found {
		s = cut
	}
	return strings.TrimSpace(s)
}
