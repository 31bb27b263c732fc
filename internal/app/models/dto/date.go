package dto

import (
	"errors"
	"strconv"
	"time"
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

var errDateFormat = errors.New("date must be a string in YYYY-MM-DD format")

// Date is a calendar date without time of day, serialized as YYYY-MM-DD
type Date time.Time

// NewDate truncates t to its calendar day
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// Today returns the current local calendar day
func Today() Date {
	return NewDate(time.Now())
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, errDateFormat
	}
	return NewDate(t), nil
}

// Time returns the date as midnight UTC
func (d Date) Time() time.Time {
	return time.Time(d)
}

func (d Date) String() string {
	return time.Time(d).Format(DateLayout)
}

// MarshalJSON implements json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

// UnmarshalJSON implements json.Unmarshaler; null leaves the value untouched
func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return errDateFormat
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
