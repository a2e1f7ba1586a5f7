package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Field scans text line by line, in document order, for the first keyword
// hit. Keyword matching is a case-insensitive substring search; on a hit the
// remainder of the line is returned with leading separators stripped. A hit
// with an empty remainder does not stop the scan. Returns nil when no keyword
// produced a value.
func Field(text string, keywords []string) *string {
	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		for _, keyword := range keywords {
			idx := strings.Index(lower, strings.ToLower(keyword))
			if idx < 0 {
				continue
			}
			after := line[idx+len(keyword):]
			value := strings.TrimSpace(strings.TrimLeft(after, ": \t"))
			if value != "" {
				return &value
			}
		}
	}
	return nil
}

var (
	dayFirstDate  = regexp.MustCompile(`\b(\d{1,2})[/\-](\d{1,2})[/\-](\d{2,4})\b`)
	yearFirstDate = regexp.MustCompile(`\b(\d{4})[/\-](\d{1,2})[/\-](\d{1,2})\b`)
	textualDate   = regexp.MustCompile(`\b(\d{1,2})\s+([A-Za-z]{3,9})\s+(\d{2,4})\b`)
)

var monthsByName = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// DateField finds the first date in text, trying a day-first numeric pattern,
// then year-first numeric, then textual "2 April 2024". A pattern only wins
// if its first occurrence survives calendar validation; otherwise the next
// pattern is tried. The result is normalized to ISO YYYY-MM-DD.
func DateField(text string) *string {
	if m := dayFirstDate.FindStringSubmatch(text); m != nil {
		if iso, ok := normalizeDate(m[3], m[2], m[1]); ok {
			return &iso
		}
	}
	if m := yearFirstDate.FindStringSubmatch(text); m != nil {
		if iso, ok := normalizeDate(m[1], m[2], m[3]); ok {
			return &iso
		}
	}
	if m := textualDate.FindStringSubmatch(text); m != nil {
		month, ok := monthsByName[strings.ToLower(m[2])]
		if ok {
			if iso, ok := normalizeDate(m[3], strconv.Itoa(int(month)), m[1]); ok {
				return &iso
			}
		}
	}
	return nil
}

func normalizeDate(yearStr, monthStr, dayStr string) (string, bool) {
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return "", false
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return "", false
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil {
		return "", false
	}
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 {
		return "", false
	}

	// time.Date normalizes overflow (e.g. 31 February), so a round trip
	// detects invalid calendar dates.
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Year() != year || date.Month() != time.Month(month) || date.Day() != day {
		return "", false
	}
	return date.Format("2006-01-02"), true
}
