package clock

import (
	"errors"
	"fmt"
	"time"
)

// Domain identifies which transport produced a Time.
type Domain uint8

const (
	// Wall is system monotonic time, used when no audio is playing.
	Wall Domain = iota
	// Device is the position of the active audio stream.
	Device
)

func (d Domain) String() string {
	switch d {
	case Wall:
		return "wall"
	case Device:
		return "device"
	}
	return fmt.Sprintf("domain(%d)", uint8(d))
}

var ErrDomainMismatch = errors.New("clock: timestamps from different domains")

// Time is a point on one transport. Values from different domains are not
// comparable; Sub and friends panic with ErrDomainMismatch if asked to.
type Time struct {
	Domain Domain
	At     time.Duration // offset from the transport's own origin
}

func (t Time) String() string {
	return fmt.Sprintf("%v@%v", t.At, t.Domain)
}

func (t Time) check(u Time) {
	if !t.Comparable(u) {
		panic(fmt.Errorf("%w: %v and %v", ErrDomainMismatch, t.Domain, u.Domain))
	}
}

// Sub returns t-u.
func (t Time) Sub(u Time) time.Duration {
	t.check(u)
	return t.At - u.At
}

func (t Time) Add(d time.Duration) Time {
	return Time{Domain: t.Domain, At: t.At + d}
}

func (t Time) Before(u Time) bool {
	t.check(u)
	return t.At < u.At
}

func (t Time) After(u Time) bool {
	t.check(u)
	return t.At > u.At
}

// Comparable reports whether t and u share a domain.
func (t Time) Comparable(u Time) bool {
	return t.Domain == u.Domain
}

// Clock supplies monotonically non-decreasing Times in a single domain.
type Clock interface {
	Now() Time
	Domain() Domain
}
