// README: Time normalization to 24-hour HH:MM.
package booking

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const dateLayout = "2006-01-02"

var meridiemRE = regexp.MustCompile(`\s*(am|pm)\s*`)

// NormalizeTime converts a time expression such as "2:30 PM", "9 am", "14:00"
// or "noon" to zero-padded 24-hour HH:MM. ok is false for anything unparseable.
func NormalizeTime(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(s, "noon"):
		return "12:00", true
	case strings.Contains(s, "midnight"):
		return "00:00", true
	}

	pm := strings.Contains(s, "pm")
	am := strings.Contains(s, "am")
	if pm || am {
		clean := meridiemRE.ReplaceAllString(s, "")
		if !strings.Contains(clean, ":") {
			clean += ":00"
		}
		h, m, ok := parseClock(clean)
		if !ok || h > 12 {
			return "", false
		}
		switch {
		case pm && h != 12:
			h += 12
		case am && h == 12:
			h = 0
		}
		return formatClock(h, m), true
	}

	if !strings.Contains(s, ":") {
		if len(s) > 2 {
			return "", false
		}
		s += ":00"
	}
	h, m, ok := parseClock(s)
	if !ok {
		return "", false
	}
	return formatClock(h, m), true
}

// parseClock accepts H:MM or HH:MM with one or two digits per side.
func parseClock(s string) (hour, minute int, ok bool) {
	hs, ms, found := strings.Cut(s, ":")
	if !found || !isShortNumber(hs) || !isShortNumber(ms) {
		return 0, 0, false
	}
	hour, _ = strconv.Atoi(hs)
	minute, _ = strconv.Atoi(ms)
	if hour > 23 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

func isShortNumber(s string) bool {
	if len(s) == 0 || len(s) > 2 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func formatClock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}
