package gtfs

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is seconds since service-day midnight. Overnight trips carry
// values past 86400; they are never wrapped.
type TimeOfDay int

// ParseTimeOfDay parses a GTFS H:MM:SS / HH:MM:SS clock value.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("malformed time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("malformed time %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("malformed time %q", s)
	}
	sec, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, fmt.Errorf("malformed time %q", s)
	}
	if h < 0 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	return TimeOfDay(h*3600 + m*60 + sec), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", int(t)/3600, int(t)%3600/60, int(t)%60)
}

// UnmarshalCSV implements gocsv decoding. Empty values stay zero so sparse
// stop_times rows still parse.
func (t *TimeOfDay) UnmarshalCSV(s string) error {
	if strings.TrimSpace(s) == "" {
		*t = 0
		return nil
	}
	v, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// MarshalCSV implements gocsv encoding.
func (t TimeOfDay) MarshalCSV() (string, error) { return t.String(), nil }

// Date is a GTFS service date (YYYYMMDD), held at UTC midnight.
type Date struct {
	time.Time
}

// ParseDate parses a GTFS YYYYMMDD date.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation("20060102", strings.TrimSpace(s), time.UTC)
	if err != nil {
		return Date{}, fmt.Errorf("malformed date %q", s)
	}
	return Date{t}, nil
}

// NewDate builds a Date from a calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string { return d.Format("20060102") }

// Next returns the following day.
func (d Date) Next() Date { return Date{d.AddDate(0, 0, 1)} }

// UnmarshalCSV implements gocsv decoding.
func (d *Date) UnmarshalCSV(s string) error {
	if strings.TrimSpace(s) == "" {
		*d = Date{}
		return nil
	}
	v, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// MarshalCSV implements gocsv encoding.
func (d Date) MarshalCSV() (string, error) {
	if d.IsZero() {
		return "", nil
	}
	return d.String(), nil
}
