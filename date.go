package fat12

import (
	"time"
)

// A date stamp counts from the MS-DOS epoch 1980-01-01:
//
//	bits 0-4:  day of month, 1-31
//	bits 5-8:  month of year, 1-12
//	bits 9-15: years since 1980, 0-127
func splitDate(stamp uint16) (year, month, day int) {
	return 1980 + int(stamp>>9), int(stamp>>5&0x0F), int(stamp&0x1F)
}

// A time stamp has a granularity of two seconds:
//
//	bits 0-4:   seconds / 2, 0-29
//	bits 5-10:  minutes, 0-59
//	bits 11-15: hours, 0-23
//
// Fields out of range carry over like in time.Date, but never past the
// day. Such stamps are capped to 23:59:59.
func splitTime(stamp uint16) (hour, minute, second int) {
	hour, minute, second = int(stamp>>11), int(stamp>>5&0x3F), int(stamp&0x1F)*2
	if hour*3600+minute*60+second >= 24*3600 {
		return 23, 59, 59
	}
	return hour, minute, second
}

// parseDateTime combines a date and a time stamp. Day or month 0 is
// invalid and yields time.Time{}. A month above 12 rolls over into the
// following year.
func parseDateTime(date, clock uint16) time.Time {
	year, month, day := splitDate(date)
	if day == 0 || month == 0 {
		return time.Time{}
	}

	hour, minute, second := splitTime(clock)
	return time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
}

// ParseDate decodes a directory entry date stamp at 00:00:00 UTC.
// Invalid dates yield time.Time{}, so IsZero can be used to detect them.
func ParseDate(stamp uint16) time.Time {
	return parseDateTime(stamp, 0)
}

// ParseTime decodes a directory entry time stamp on January 1 of year 1,
// so midnight is time.Time{}.
func ParseTime(stamp uint16) time.Time {
	hour, minute, second := splitTime(stamp)
	return time.Date(1, 1, 1, hour, minute, second, 0, time.UTC)
}
