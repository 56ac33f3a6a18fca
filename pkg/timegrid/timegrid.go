// Package timegrid provides wall-clock interval arithmetic for the booking core.
//
// Every time-of-day value is an integer count of minutes since local midnight
// (0-1439). Calendar timestamps are never used for within-day arithmetic, so the
// package is immune to time zone and DST ambiguity. All intervals are half-open:
// [start, end), which lets back-to-back bookings touch without overlapping.
package timegrid

import (
	"errors"
	"fmt"
	"sort"
)

// MinutesPerDay is the exclusive upper bound for a minute-of-day value.
const MinutesPerDay = 24 * 60

var (
	// ErrInvalidInterval возвращается, когда start >= end или границы вне суток
	ErrInvalidInterval = errors.New("timegrid: invalid interval")

	// ErrInvalidClock возвращается при некорректной строке времени "HH:MM"
	ErrInvalidClock = errors.New("timegrid: invalid clock string")
)

// Interval is a half-open [StartMinute, EndMinute) range within a single day.
type Interval struct {
	StartMinute int
	EndMinute   int
}

// NewInterval builds a validated interval.
func NewInterval(start, end int) (Interval, error) {
	iv := Interval{StartMinute: start, EndMinute: end}
	if err := iv.Validate(); err != nil {
		return Interval{}, err
	}
	return iv, nil
}

// Validate checks the start < end invariant and the day bounds.
func (iv Interval) Validate() error {
	if iv.StartMinute < 0 || iv.EndMinute > MinutesPerDay {
		return fmt.Errorf("%w: [%d, %d) outside day bounds", ErrInvalidInterval, iv.StartMinute, iv.EndMinute)
	}
	if iv.StartMinute >= iv.EndMinute {
		return fmt.Errorf("%w: start %d >= end %d", ErrInvalidInterval, iv.StartMinute, iv.EndMinute)
	}
	return nil
}

// Duration returns the interval length in minutes.
func (iv Interval) Duration() int {
	return iv.EndMinute - iv.StartMinute
}

// Contains reports whether other lies fully inside iv.
func (iv Interval) Contains(other Interval) bool {
	return iv.StartMinute <= other.StartMinute && other.EndMinute <= iv.EndMinute
}

// String formats the interval as "HH:MM-HH:MM".
func (iv Interval) String() string {
	return FormatClock(iv.StartMinute) + "-" + FormatClock(iv.EndMinute)
}

// Overlaps reports whether two half-open intervals intersect. An interval
// ending at minute M does not overlap one starting at M.
func Overlaps(a, b Interval) bool {
	return a.StartMinute < b.EndMinute && b.StartMinute < a.EndMinute
}

// Merge sorts the intervals and coalesces every overlapping pair into one.
// Touching intervals ([a,b) and [b,c)) are merged as well: for hole
// subtraction they behave as a single covered range. The input slice is not
// modified.
func Merge(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return []Interval{}
	}

	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].StartMinute == sorted[j].StartMinute {
			return sorted[i].EndMinute < sorted[j].EndMinute
		}
		return sorted[i].StartMinute < sorted[j].StartMinute
	})

	merged := make([]Interval, 0, len(sorted))
	current := sorted[0]
	for _, iv := range sorted[1:] {
		if iv.StartMinute <= current.EndMinute {
			if iv.EndMinute > current.EndMinute {
				current.EndMinute = iv.EndMinute
			}
			continue
		}
		merged = append(merged, current)
		current = iv
	}
	merged = append(merged, current)

	return merged
}

// Subtract returns the ordered sub-intervals of base not covered by any hole.
// Holes may be unsorted and overlapping; they are merged first. Holes outside
// base are ignored. The result is sorted and non-overlapping; it is empty when
// the holes cover base entirely.
func Subtract(base Interval, holes []Interval) []Interval {
	free := make([]Interval, 0, len(holes)+1)
	cursor := base.StartMinute

	for _, hole := range Merge(holes) {
		if hole.EndMinute <= cursor || hole.StartMinute >= base.EndMinute {
			continue
		}
		if hole.StartMinute > cursor {
			free = append(free, Interval{StartMinute: cursor, EndMinute: hole.StartMinute})
		}
		if hole.EndMinute > cursor {
			cursor = hole.EndMinute
		}
	}

	if cursor < base.EndMinute {
		free = append(free, Interval{StartMinute: cursor, EndMinute: base.EndMinute})
	}

	return free
}

// Quantize splits each interval into consecutive step-minute chunks, discarding
// any trailing remainder shorter than step. Step must be positive.
func Quantize(intervals []Interval, step int) []Interval {
	if step <= 0 {
		return []Interval{}
	}

	chunks := make([]Interval, 0)
	for _, iv := range intervals {
		for start := iv.StartMinute; start+step <= iv.EndMinute; start += step {
			chunks = append(chunks, Interval{StartMinute: start, EndMinute: start + step})
		}
	}
	return chunks
}

// Windows slides a duration-length window across each interval in step
// increments and returns every window fully contained in its interval, in
// ascending start order. This is the slot candidate primitive: window starts
// are aligned to the interval start, not to the duration, so a 90-minute
// service still gets offered at every 30-minute step.
func Windows(intervals []Interval, duration, step int) []Interval {
	if duration <= 0 || step <= 0 {
		return []Interval{}
	}

	windows := make([]Interval, 0)
	for _, iv := range intervals {
		for start := iv.StartMinute; start+duration <= iv.EndMinute; start += step {
			windows = append(windows, Interval{StartMinute: start, EndMinute: start + duration})
		}
	}
	return windows
}

// ParseClock converts "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q, expected HH:MM", ErrInvalidClock, s)
	}

	hours, ok1 := parseTwoDigits(s[0], s[1])
	minutes, ok2 := parseTwoDigits(s[3], s[4])
	if !ok1 || !ok2 || hours > 23 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q, expected HH:MM", ErrInvalidClock, s)
	}

	return hours*60 + minutes, nil
}

// FormatClock converts minutes since midnight into "HH:MM". A value of
// MinutesPerDay formats as "24:00" so interval ends at midnight stay readable.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func parseTwoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}
