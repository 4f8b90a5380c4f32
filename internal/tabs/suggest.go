package tabs

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/cristianoliveira/inboxkit/internal/inbox"
)

// Suggest returns the tab label closest to label by edit distance, provided
// it is close enough to be a plausible typo.
func Suggest(label string, tabs []inbox.Tab) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(label))
	if needle == "" {
		return "", false
	}

	best, bestDist := "", -1
	for _, tab := range tabs {
		d := levenshtein.ComputeDistance(needle, strings.ToLower(tab.Label))
		if bestDist < 0 || d < bestDist {
			best, bestDist = tab.Label, d
		}
	}
	if bestDist < 0 || bestDist > maxDistance(needle) {
		return "", false
	}
	return best, true
}

func maxDistance(s string) int {
	if n := len([]rune(s)) / 3; n > 2 {
		return n
	}
	return 2
}
