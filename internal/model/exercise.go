package model

import "time"

// Exercise is a single logged activity belonging to a user.
//
// Duration is in whole minutes. Date is a calendar date held as midnight UTC;
// use CalendarDate to normalise any time before storing it.
type Exercise struct {
	ID          string
	UserID      string
	Description string
	Duration    int
	Date        time.Time
}
