package ledger

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Month tokens are zero-padded "YYYY-MM" strings. The padding is what
// makes lexicographic comparison equal to chronological comparison, so
// the format is validated wherever a token enters the engine.
var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ErrInvalidMonth is returned for tokens that are not zero-padded YYYY-MM.
var ErrInvalidMonth = errors.New("month must be a zero-padded YYYY-MM token")

// MonthOf returns the month token for a date.
func MonthOf(t time.Time) string {
	return t.Format("2006-01")
}

// ParseMonth validates a month token and returns its components.
func ParseMonth(token string) (year int, month time.Month, err error) {
	if !monthPattern.MatchString(token) {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidMonth, token)
	}
	year, _ = strconv.Atoi(token[:4])
	m, _ := strconv.Atoi(token[5:])
	return year, time.Month(m), nil
}

// InMonth reports whether a record date falls inside the target month.
func InMonth(date time.Time, month string) bool {
	return MonthOf(date) == month
}

// ShiftMonth adds offset calendar months to a token, rolling the year over
// in either direction: shifting "2024-01" by -1 yields "2023-12".
func ShiftMonth(token string, offset int) (string, error) {
	year, month, err := ParseMonth(token)
	if err != nil {
		return "", err
	}
	idx := year*12 + int(month) - 1 + offset
	if idx < 0 {
		return "", fmt.Errorf("%w: shifting %s by %d leaves the calendar", ErrInvalidMonth, token, offset)
	}
	return fmt.Sprintf("%04d-%02d", idx/12, idx%12+1), nil
}
