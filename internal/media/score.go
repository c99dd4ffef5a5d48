package media

import (
	"strings"

	"episync/internal/config"
)

// Score sums the score of every preference tag whose match string occurs in
// filename (case-insensitive). Higher-scored files win when several source
// files share one key.
func Score(filename string, tags []config.Tag) int {
	lower := strings.ToLower(filename)
	total := 0
	for _, tag := range tags {
		match := strings.ToLower(tag.Match)
		if match != "" && strings.Contains(lower, match) {
			total += tag.Score
		}
	}
	return total
}
