package media

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Episode identity extraction.
//
// A file is identified by the triple (show, episode code, media type). The
// show comes from the top-level directory the file sits under, the episode
// code from an SxxExx token in the filename, and the media type from the
// file extension. When any of the three cannot be derived the file simply
// has no identity; that is an expected outcome, not an error.
var (
	// episodeCodeRe matches SxxExx tokens: S + 1-2 digit season + E + 1-4
	// digit episode. Long episode numbers (S01E100, S01E1000) are valid for
	// shows without seasons. The first match in a filename wins.
	episodeCodeRe = regexp.MustCompile(`(?i)s(\d{1,2})e(\d{1,4})`)

	// videoRe matches video file extensions. ".file" is the placeholder
	// extension used by the synthetic build scenario.
	videoRe = regexp.MustCompile(`(?i)\.(mkv|mp4|avi|mov|wmv|flv|mpeg|mpg|m4v|webm|file)$`)

	// subtitleRe matches subtitle file extensions.
	subtitleRe = regexp.MustCompile(`(?i)\.(srt|sub|ass|ssa|vtt)$`)
)

// Type classifies a file as video or subtitle.
type Type int

const (
	Video Type = iota
	Subtitle
)

func (t Type) String() string {
	if t == Subtitle {
		return "subtitle"
	}
	return "video"
}

// Key uniquely identifies the slot an episode file occupies. Two files with
// the same key are interchangeable for matching purposes regardless of how
// differently they are named.
type Key struct {
	Show string // top-level directory under the scanned root, lowercased
	Code string // normalized SxxExx episode code
	Type Type
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s [%s]", k.Show, k.Code, k.Type)
}

// Reason explains why extraction produced no key.
type Reason int

const (
	OK Reason = iota
	NoShowFolder
	NoEpisodeCode
	UnknownExtension
)

func (r Reason) String() string {
	switch r {
	case OK:
		return "ok"
	case NoShowFolder:
		return "file sits directly in the root, no show folder"
	case NoEpisodeCode:
		return "no SxxExx code in filename"
	case UnknownExtension:
		return "extension is neither video nor subtitle"
	default:
		return "unknown"
	}
}

// IsVideo reports whether filename has a recognized video extension.
func IsVideo(filename string) bool {
	return videoRe.MatchString(filename)
}

// IsSubtitle reports whether filename has a recognized subtitle extension.
func IsSubtitle(filename string) bool {
	return subtitleRe.MatchString(filename)
}

// Classify determines the media type of filename from its extension.
func Classify(filename string) (Type, bool) {
	switch {
	case IsVideo(filename):
		return Video, true
	case IsSubtitle(filename):
		return Subtitle, true
	default:
		return Video, false
	}
}

// EpisodeCode extracts and normalizes the first SxxExx token in filename.
// "s1e2" and "S01E02" both normalize to "S01E02"; episode numbers wider
// than two digits keep their width.
func EpisodeCode(filename string) (string, bool) {
	m := episodeCodeRe.FindStringSubmatch(filename)
	if m == nil {
		return "", false
	}
	season, err1 := strconv.Atoi(m[1])
	episode, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil {
		return "", false
	}
	return fmt.Sprintf("S%02dE%02d", season, episode), true
}

// Extract derives the identity key for path, which must live under root.
// The returned Reason is OK exactly when the key is valid.
func Extract(path, root string) (Key, Reason) {
	show, ok := showFolder(path, root)
	if !ok {
		return Key{}, NoShowFolder
	}
	code, ok := EpisodeCode(filepath.Base(path))
	if !ok {
		return Key{}, NoEpisodeCode
	}
	typ, ok := Classify(filepath.Base(path))
	if !ok {
		return Key{}, UnknownExtension
	}
	return Key{Show: strings.ToLower(show), Code: code, Type: typ}, OK
}

// showFolder returns the first component of path relative to root. Files
// directly in root have no show folder.
func showFolder(path, root string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	parts := strings.Split(rel, string(filepath.Separator))
	if len(parts) < 2 {
		return "", false
	}
	return parts[0], true
}
