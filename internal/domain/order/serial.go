package order

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/zenithstudio/backend/internal/domain/shared"
)

// SerialPrefix is the studio prefix on every serial number.
const SerialPrefix = "ZN"

var serialPattern = regexp.MustCompile(`^ZN-(\d{4})-(\d{4,})$`)

// FormatSerial builds a serial number for the given year and sequence,
// e.g. FormatSerial(2026, 7) -> "ZN-2026-0007".
func FormatSerial(year, seq int) string {
	return fmt.Sprintf("%s-%d-%04d", SerialPrefix, year, seq)
}

// ParseSerial extracts the year and sequence from a serial number.
func ParseSerial(serial string) (year, seq int, err error) {
	m := serialPattern.FindStringSubmatch(serial)
	if m == nil {
		return 0, 0, shared.NewDomainError("INVALID_SERIAL", fmt.Sprintf("Malformed serial number %q", serial))
	}
	year, _ = strconv.Atoi(m[1])
	seq, _ = strconv.Atoi(m[2])
	return year, seq, nil
}

// SerialAllocator hands out the next serial number for a calendar year.
// Implementations must be atomic: no two concurrent allocations may
// return the same serial, and numbers within a year are gapless and
// monotonic. An unavailable allocator fails order creation; a serial is
// never reused.
type SerialAllocator interface {
	NextSerial(ctx context.Context, year int) (string, error)
}
