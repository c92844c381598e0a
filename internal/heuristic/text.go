package heuristic

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// progressPattern matches a "(n/m)" progress tuple.
	// RE2 has no backreferences, so equality is checked after matching.
	progressPattern = regexp.MustCompile(`\(\s*(\d+)\s*/\s*(\d+)\s*\)`)

	// goalVerbPattern matches goal text that starts with a known verb.
	goalVerbPattern = regexp.MustCompile(`(?i)^(win|use|defeat|kill|complete|reach|play|earn|get)\b`)

	requirementPattern = regexp.MustCompile(`(?i)Rank:\s*At least\s*[^.]+`)
	rewardPattern      = regexp.MustCompile(`(?i)(Unlocks|Reward)\s*:\s*[A-Za-z0-9 '._-]+`)

	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Clean collapses whitespace runs to a single space and trims the result.
func Clean(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

// HasProgress reports whether s contains a "(n/m)" progress tuple.
func HasProgress(s string) bool {
	return progressPattern.MatchString(s)
}

// IsCompleted reports whether s contains a progress tuple whose numerator
// equals its denominator, as in "Win 3 duels (8/8)".
func IsCompleted(s string) bool {
	for _, m := range progressPattern.FindAllStringSubmatch(s, -1) {
		done, err1 := strconv.Atoi(m[1])
		total, err2 := strconv.Atoi(m[2])
		if err1 == nil && err2 == nil && done == total {
			return true
		}
	}
	return false
}

// StartsWithGoalVerb reports whether s opens with one of the verbs mission
// goals are phrased with.
func StartsWithGoalVerb(s string) bool {
	return goalVerbPattern.MatchString(s)
}

// Requirements extracts a "Rank: At least ..." clause from page text.
// It returns "" when none is present.
func Requirements(text string) string {
	return strings.TrimSpace(requirementPattern.FindString(text))
}

// Reward extracts the value of an "Unlocks:" or "Reward:" label from page
// text. It returns "" when none is present.
func Reward(text string) string {
	m := rewardPattern.FindString(text)
	if m == "" {
		return ""
	}
	_, value, _ := strings.Cut(m, ":")
	return strings.TrimSpace(value)
}
