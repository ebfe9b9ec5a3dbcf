package schedule

import (
	"fmt"
	"strconv"
	"time"
)

// units maps interval suffixes to their duration
var units = map[byte]time.Duration{
	's': time.Second,
	'm': time.Minute,
	'h': time.Hour,
	'd': 24 * time.Hour,
}

// IntervalError reports a malformed interval such as "5x" or "abc"
type IntervalError struct {
	Value   string
	Message string
}

func (e *IntervalError) Error() string {
	return e.Message
}

// ParseInterval parses "<digits><unit>" where unit is s, m, h or d.
// An empty string yields 0, meaning run once.
func ParseInterval(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}

	unit := s[len(s)-1]
	value := s[:len(s)-1]

	if value == "" || !isDigits(value) {
		return 0, &IntervalError{
			Value:   s,
			Message: fmt.Sprintf("Wrong time value was provided: '%s'", s),
		}
	}

	base, ok := units[unit]
	if !ok {
		return 0, &IntervalError{
			Value:   s,
			Message: fmt.Sprintf("Unknown time unit was used: '%c'", unit),
		}
	}

	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n <= 0 || time.Duration(n) > maxDuration/base {
		return 0, &IntervalError{
			Value:   s,
			Message: fmt.Sprintf("Wrong time value was provided: '%s'", s),
		}
	}

	return time.Duration(n) * base, nil
}

const maxDuration = time.Duration(1<<63 - 1)

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
