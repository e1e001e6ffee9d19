package core

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// TimestampLayout renders local wall-clock time as HH:MM:SS.mmm.
const TimestampLayout = "15:04:05.000"

// LineSize is the byte length of one timestamp line including its newline.
// It bounds the region a single write can touch.
const LineSize = len(TimestampLayout) + 1

var timestampPattern = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})\.(\d{3})$`)

// FormatTimestamp returns t in local time formatted as a timestamp line,
// without the trailing newline.
func FormatTimestamp(t time.Time) string {
	return t.Local().Format(TimestampLayout)
}

// ParseTimestamp parses a timestamp line back into an offset from midnight.
func ParseTimestamp(line string) (time.Duration, error) {
	m := timestampPattern.FindStringSubmatch(line)
	if m == nil {
		return 0, fmt.Errorf("invalid timestamp line %q", line)
	}
	h, _ := strconv.Atoi(m[1])
	mins, _ := strconv.Atoi(m[2])
	sec, _ := strconv.Atoi(m[3])
	ms, _ := strconv.Atoi(m[4])
	if h > 23 || mins > 59 || sec > 59 {
		return 0, fmt.Errorf("timestamp %q out of range", line)
	}
	return time.Duration(h)*time.Hour +
		time.Duration(mins)*time.Minute +
		time.Duration(sec)*time.Second +
		time.Duration(ms)*time.Millisecond, nil
}
