package protocol

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrMonthYearFormat = errors.New("monthYear must be 'MMYYYY', e.g. '012025'")
	ErrMonthYearDigits = errors.New("month and year must be integers")
	ErrMonthRange      = errors.New("month must be between 01 and 12")
)

// ParseMonthYear parses the MMYYYY selector used by getPriceHistory.
// Surrounding quotes are stripped, matching what interactive clients
// tend to send.
func ParseMonthYear(s string) (month, year int, err error) {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `'"`)

	if len(s) != 6 {
		return 0, 0, ErrMonthYearFormat
	}

	month, err = strconv.Atoi(s[:2])
	if err != nil {
		return 0, 0, ErrMonthYearDigits
	}
	year, err = strconv.Atoi(s[2:])
	if err != nil {
		return 0, 0, ErrMonthYearDigits
	}

	if month < 1 || month > 12 {
		return 0, 0, ErrMonthRange
	}

	return month, year, nil
}
