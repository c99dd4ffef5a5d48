package media

import (
	"testing"

	"episync/internal/config"
)

func TestScore(t *testing.T) {
	t.Parallel()
	tags := []config.Tag{
		{Match: "4k", Score: 30},
		{Match: "1080p", Score: 20},
		{Match: "720p", Score: 10},
	}
	tests := []struct {
		in   string
		want int
	}{
		{"show - S01E01 [4K].mkv", 30},
		{"show - S01E01 [1080p].mkv", 20},
		{"show - S01E01 [4k][1080p].mkv", 50},
		{"show - S01E01.mkv", 0},
	}
	for _, tc := range tests {
		if got := Score(tc.in, tags); got != tc.want {
			t.Errorf("Score(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestScoreNoTags(t *testing.T) {
	t.Parallel()
	if got := Score("show - S01E01 [4k].mkv", nil); got != 0 {
		t.Errorf("Score with no tags = %d, want 0", got)
	}
}
