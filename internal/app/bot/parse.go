package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var errUnbalancedQuotes = errors.New("unbalanced quotes in arguments")

// splitArgs tokenizes a command tail. Double-quoted runs form a single
// token so multi-word locations and names survive.
func splitArgs(s string) ([]string, error) {
	var (
		out      []string
		cur      strings.Builder
		inQuotes bool
		started  bool
	)
	flush := func() {
		if started {
			out = append(out, cur.String())
			cur.Reset()
			started = false
		}
	}
	for _, r := range s {
		switch {
		case r == '"':
			if inQuotes {
				out = append(out, cur.String())
				cur.Reset()
				started = false
			} else {
				flush()
			}
			inQuotes = !inQuotes
		case !inQuotes && (r == ' ' || r == '\t'):
			flush()
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if inQuotes {
		return nil, errUnbalancedQuotes
	}
	flush()
	return out, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	return t, nil
}

func parseStartTime(s string) (string, error) {
	if _, err := time.Parse("15:04", s); err != nil {
		return "", fmt.Errorf("invalid time %q, use HH:MM (24-hour)", s)
	}
	return s, nil
}

func parseHours(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid duration %q, use a positive number of hours", s)
	}
	return n, nil
}

func parseTripID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid trip id %q", s)
	}
	return id, nil
}
