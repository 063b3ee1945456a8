package message

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ValentinKolb/dSearch/rpc/stream"
)

// TimeValue is a duration with the canonical text form used by the search
// protocol ("5m", "1.5h", "30s", "-1").
type TimeValue time.Duration

// TimeValueInfinite is the "-1" keep-alive (no expiry)
const TimeValueInfinite = TimeValue(-time.Millisecond)

// time units recognized by ParseTimeValue. Longer suffixes come first so that
// "ms" is not mistaken for "s".
var timeUnitSuffixes = []struct {
	suffix string
	unit   time.Duration
}{
	{"nanos", time.Nanosecond},
	{"micros", time.Microsecond},
	{"ms", time.Millisecond},
	{"s", time.Second},
	{"m", time.Minute},
	{"h", time.Hour},
	{"d", 24 * time.Hour},
	{"w", 7 * 24 * time.Hour},
}

// time units used by String, largest first
var timeUnitRender = []struct {
	suffix string
	unit   time.Duration
}{
	{"d", 24 * time.Hour},
	{"h", time.Hour},
	{"m", time.Minute},
	{"s", time.Second},
	{"ms", time.Millisecond},
	{"micros", time.Microsecond},
	{"nanos", time.Nanosecond},
}

// ParseTimeValue parses a duration such as "5m", "1.5h", "100ms" or "-1".
// A number without suffix is read as milliseconds.
func ParseTimeValue(s string) (TimeValue, error) {
	raw := strings.ToLower(strings.TrimSpace(s))
	if raw == "" {
		return 0, fmt.Errorf("failed to parse time value: empty string")
	}
	if raw == "-1" {
		return TimeValueInfinite, nil
	}

	number, unit := raw, time.Millisecond
	for _, u := range timeUnitSuffixes {
		if strings.HasSuffix(raw, u.suffix) {
			number, unit = strings.TrimSuffix(raw, u.suffix), u.unit
			break
		}
	}

	v, err := strconv.ParseFloat(number, 64)
	if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("failed to parse time value [%s]", s)
	}

	nanos := math.Round(v * float64(unit))
	if nanos >= math.MaxInt64 {
		return 0, fmt.Errorf("failed to parse time value [%s]: out of range", s)
	}
	return TimeValue(int64(nanos)), nil
}

// Duration returns the value as time.Duration
func (t TimeValue) Duration() time.Duration {
	return time.Duration(t)
}

// Millis returns the value in whole milliseconds
func (t TimeValue) Millis() int64 {
	return time.Duration(t).Milliseconds()
}

// String renders the canonical form: the largest unit with a value of at least
// one, at most one (truncated) decimal and no trailing ".0". Negative values are
// rendered as plain milliseconds.
func (t TimeValue) String() string {
	nanos := int64(t)
	if nanos < 0 {
		return strconv.FormatInt(nanos/int64(time.Millisecond), 10)
	}
	if nanos == 0 {
		return "0s"
	}

	for _, u := range timeUnitRender {
		unit := int64(u.unit)
		if nanos < unit {
			continue
		}
		whole := nanos / unit
		tenth := (nanos % unit) * 10 / unit
		if tenth == 0 {
			return strconv.FormatInt(whole, 10) + u.suffix
		}
		return fmt.Sprintf("%d.%d%s", whole, tenth, u.suffix)
	}
	return strconv.FormatInt(nanos, 10) + "nanos"
}

// --------------------------------------------------------------------------
// Stream Methods (docu see stream.Streamable)
// --------------------------------------------------------------------------

// WriteStream writes the value as nanoseconds (8 bytes)
func (t TimeValue) WriteStream(out *stream.Output) error {
	out.WriteLong(int64(t))
	return nil
}

func (t *TimeValue) ReadStream(in *stream.Input) error {
	nanos, err := in.ReadLong("time_value")
	if err != nil {
		return err
	}
	*t = TimeValue(nanos)
	return nil
}
