package youtube

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var isoDuration = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// FormatDuration renders an ISO-8601 video duration such as PT1H2M3S as
// 1:02:03, or PT4M5S as 4:05. Anything else yields "".
func FormatDuration(iso string) string {
	m := isoDuration.FindStringSubmatch(iso)
	if m == nil || iso == "PT" {
		return ""
	}

	part := func(s string) int {
		n, _ := strconv.Atoi(s)
		return n
	}
	hours, minutes, seconds := part(m[1]), part(m[2]), part(m[3])

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// FormatViews renders a view count with one optional decimal and a K or M
// suffix.
func FormatViews(count int64) string {
	switch {
	case count >= 1_000_000:
		return compact(float64(count)/1_000_000) + "M views"
	case count >= 1_000:
		return compact(float64(count)/1_000) + "K views"
	default:
		return strconv.FormatInt(count, 10) + " views"
	}
}

func compact(v float64) string {
	return strings.TrimSuffix(strconv.FormatFloat(v, 'f', 1, 64), ".0")
}
