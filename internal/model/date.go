package model

import (
	"errors"
	"strings"
	"time"
)

const (
	// DisplayLayout renders a calendar date the way the API returns it,
	// e.g. "Sun Jan 15 2023".
	DisplayLayout = "Mon Jan 02 2006"

	// StorageLayout is the sortable text form used by SQL stores.
	StorageLayout = "2006-01-02"
)

// ErrInvalidDate is returned by ParseDate when no accepted layout matches.
var ErrInvalidDate = errors.New("invalid date")

// acceptedLayouts are tried in order by ParseDate. Besides ISO dates and
// timestamps they cover the loose forms browsers and JavaScript clients
// commonly send: unpadded ISO parts, US slashes, written month names and
// the toDateString/toUTCString renderings.
var acceptedLayouts = []string{
	StorageLayout,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-1-2",
	"2006/1/2",
	"1/2/2006",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	DisplayLayout,
	"Mon Jan 2 2006",
	time.RFC1123,
	time.RFC1123Z,
}

// ParseDate parses a client-supplied date and returns it as a calendar date.
// Timestamps are reduced to the day they name in their own offset.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range acceptedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return CalendarDate(t), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// CalendarDate drops the clock part of t, keeping the year, month and day as
// seen in t's own location, and returns midnight UTC of that day.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders t with DisplayLayout.
func FormatDate(t time.Time) string {
	return CalendarDate(t).Format(DisplayLayout)
}
