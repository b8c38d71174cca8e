package tracker

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultDuration backs manual progress overrides when no duration is
// known.
const DefaultDuration = 3600

// Duration pattern heuristics, tried in order. The first match wins, so an
// explicit "3h 15m" beats any keyword in the same name.
var (
	reHoursMinutes = regexp.MustCompile(`(?i)(\d+)\s*h\s*(\d+)\s*m`)
	reMinutes      = regexp.MustCompile(`(?i)(\d+)\s*min`)
	reHMS          = regexp.MustCompile(`(\d+):(\d{2}):(\d{2})`)
	reMS           = regexp.MustCompile(`(\d+):(\d{2})`)
	reLeadingIndex = regexp.MustCompile(`^(\d+)\.`)
)

// keywordBuckets map name keywords to typical lengths, checked in order.
var keywordBuckets = []struct {
	words   []string
	seconds float64
}{
	{[]string{"intro", "welcome", "orientation"}, 600},
	{[]string{"fundamentals", "basics"}, 1200},
	{[]string{"advanced", "deep"}, 2400},
	{[]string{"tutorial", "lesson"}, 1800},
}

// EstimateDuration infers a duration in seconds from a file's display
// name. It never fails: when every heuristic misses, the sequence-index
// bucket supplies a default.
func EstimateDuration(name string) float64 {
	if m := reHoursMinutes.FindStringSubmatch(name); m != nil {
		h, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		return float64(h*3600 + min*60)
	}

	if m := reMinutes.FindStringSubmatch(name); m != nil {
		min, _ := strconv.Atoi(m[1])
		return float64(min * 60)
	}

	if m := reHMS.FindStringSubmatch(name); m != nil {
		h, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		sec, _ := strconv.Atoi(m[3])
		return float64(h*3600 + min*60 + sec)
	}

	if m := reMS.FindStringSubmatch(name); m != nil {
		min, _ := strconv.Atoi(m[1])
		sec, _ := strconv.Atoi(m[2])
		return float64(min*60 + sec)
	}

	lower := strings.ToLower(name)
	for _, bucket := range keywordBuckets {
		for _, word := range bucket.words {
			if strings.Contains(lower, word) {
				return bucket.seconds
			}
		}
	}

	// A leading "<n>." prefix is a sequence index; early entries in a
	// series tend to run shorter.
	if m := reLeadingIndex.FindStringSubmatch(strings.TrimSpace(name)); m != nil {
		idx, _ := strconv.Atoi(m[1])
		switch {
		case idx <= 5:
			return 900
		case idx <= 20:
			return 1500
		}
	}
	return 1800
}
