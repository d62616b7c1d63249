package entity

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const DateLayoutBR = "02/01/2006"

var (
	ErrInvalidDate = errors.New("data inválida")

	dateBRPattern = regexp.MustCompile(`^([0-2]\d|3[01])/(0\d|1[0-2])/\d{4}$`)
	isoPrefix     = regexp.MustCompile(`^(\d{4})[/-](\d{2})[/-](\d{2})`)
	brPrefix      = regexp.MustCompile(`^(\d{2})[/-](\d{2})[/-](\d{4})`)
)

// ParseDateBR parses DD/MM/AAAA and rejects impossible dates such as 31/02.
func ParseDateBR(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if !dateBRPattern.MatchString(s) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	t, err := time.ParseInLocation(DateLayoutBR, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

func FormatDateBR(t time.Time) string {
	return t.Format(DateLayoutBR)
}

func IsValidDateBR(s string) bool {
	_, err := ParseDateBR(s)
	return err == nil
}

// ParseFlexibleDate accepts the formats found in stored records: ISO
// (YYYY-MM-DD with optional time), DD/MM/YYYY and DD-MM-YYYY.
func ParseFlexibleDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(time.Local), true
	}
	if m := isoPrefix.FindStringSubmatch(s); m != nil {
		if t, err := time.ParseInLocation("2006-01-02", m[1]+"-"+m[2]+"-"+m[3], time.Local); err == nil {
			return t, true
		}
	}
	if m := brPrefix.FindStringSubmatch(s); m != nil {
		if t, err := time.ParseInLocation("2006-01-02", m[3]+"-"+m[2]+"-"+m[1], time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// StartOfDay trunca para meia-noite no fuso local.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.In(time.Local).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// IsPastDay is true when date's day is strictly before now's day.
// Unparseable dates are never past.
func IsPastDay(date string, now time.Time) bool {
	t, ok := ParseFlexibleDate(date)
	if !ok {
		return false
	}
	return StartOfDay(t).Before(StartOfDay(now))
}

// IsOnOrBeforeToday is IsPastDay including today.
func IsOnOrBeforeToday(date string, now time.Time) bool {
	t, ok := ParseFlexibleDate(date)
	if !ok {
		return false
	}
	return !StartOfDay(t).After(StartOfDay(now))
}
