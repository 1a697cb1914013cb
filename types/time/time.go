// Package time carries the time helpers of the light verifier: canonical
// timestamps and a Duration wide enough for multi-millennium trusting periods,
// with addition that reports overflow instead of wrapping.
package time

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	tmmath "github.com/tendermint/light-verifier/libs/math"
)

const nanosPerSecond = int64(time.Second)

// unixToInternal is the number of seconds between year 1 and 1970, the offset
// the time package adds to Unix seconds.
const unixToInternal int64 = (1969*365 + 1969/4 - 1969/100 + 1969/400) * 24 * 60 * 60

// maxUnixSeconds is the largest Unix second time.Unix can represent without
// wrapping.
const maxUnixSeconds = math.MaxInt64 - unixToInternal

// Now returns the current time in UTC with no monotonic component.
func Now() time.Time {
	return Canonical(time.Now())
}

// Canonical returns UTC time with no monotonic component.
// Stripping the monotonic component is for time equality.
// See https://github.com/tendermint/tendermint/pull/2203#discussion_r215064334
func Canonical(t time.Time) time.Time {
	return t.Round(0).UTC()
}

// Duration is a signed span of time shaped like google.protobuf.Duration.
// Unlike time.Duration it is not limited to roughly 292 years.
type Duration struct {
	Seconds int64 `json:"seconds"`
	Nanos   int32 `json:"nanos"`
}

// DurationFromStd converts a time.Duration.
func DurationFromStd(d time.Duration) Duration {
	return Duration{
		Seconds: int64(d) / nanosPerSecond,
		Nanos:   int32(int64(d) % nanosPerSecond),
	}
}

// Seconds returns a Duration of s whole seconds.
func Seconds(s int64) Duration {
	return Duration{Seconds: s}
}

// Std converts d to a time.Duration. The boolean is false when d does not fit.
func (d Duration) Std() (time.Duration, bool) {
	ns, err := tmmath.SafeMulInt64(d.Seconds, nanosPerSecond)
	if err != nil {
		return 0, false
	}
	ns, err = tmmath.SafeAddInt64(ns, int64(d.Nanos))
	if err != nil {
		return 0, false
	}
	return time.Duration(ns), true
}

// IsNegative reports whether d is below zero.
func (d Duration) IsNegative() bool {
	return d.Seconds < 0 || (d.Seconds == 0 && d.Nanos < 0)
}

// ValidateBasic checks the protobuf Duration invariants: nanos within one
// second and carrying the same sign as seconds.
func (d Duration) ValidateBasic() error {
	if int64(d.Nanos) <= -nanosPerSecond || int64(d.Nanos) >= nanosPerSecond {
		return fmt.Errorf("nanos out of range: %d", d.Nanos)
	}
	if (d.Seconds < 0 && d.Nanos > 0) || (d.Seconds > 0 && d.Nanos < 0) {
		return fmt.Errorf("seconds (%d) and nanos (%d) have different signs", d.Seconds, d.Nanos)
	}
	return nil
}

func (d Duration) String() string {
	if std, ok := d.Std(); ok {
		return std.String()
	}
	return fmt.Sprintf("%ds", d.Seconds)
}

// ParseDuration accepts anything time.ParseDuration does, plus a plain count
// of seconds such as "315576000000s" that exceeds time.Duration.
func ParseDuration(s string) (Duration, error) {
	if std, err := time.ParseDuration(s); err == nil {
		return DurationFromStd(std), nil
	}
	secs, err := strconv.ParseInt(strings.TrimSuffix(s, "s"), 10, 64)
	if err != nil || !strings.HasSuffix(s, "s") {
		return Duration{}, fmt.Errorf("invalid duration %q", s)
	}
	return Seconds(secs), nil
}

// MarshalText encodes d the way String prints it.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes the output of MarshalText.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Add returns t+d in UTC. It fails with tmmath.ErrOverflowInt64 when the
// result cannot be represented by time.Time.
func Add(t time.Time, d Duration) (time.Time, error) {
	sec, err := tmmath.SafeAddInt64(t.Unix(), d.Seconds)
	if err != nil {
		return time.Time{}, fmt.Errorf("%v + %v: %w", t, d, err)
	}

	nsec := int64(t.Nanosecond()) + int64(d.Nanos)
	carry := nsec / nanosPerSecond
	nsec %= nanosPerSecond
	if nsec < 0 {
		nsec += nanosPerSecond
		carry--
	}
	sec, err = tmmath.SafeAddInt64(sec, carry)
	if err != nil {
		return time.Time{}, fmt.Errorf("%v + %v: %w", t, d, err)
	}

	if sec > maxUnixSeconds {
		return time.Time{}, fmt.Errorf("%v + %v: %w", t, d, tmmath.ErrOverflowInt64)
	}

	return time.Unix(sec, nsec).UTC(), nil
}
