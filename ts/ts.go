// Package ts converts the timestamp formats met while carving filesystem,
// registry and database artifacts into time.Time values.
//
// All converters return UTC. DOS timestamps are the exception in spirit:
// they carry local wall-clock time with no zone information, so the result
// holds the recorded wall-clock fields in UTC and callers attach the real
// zone themselves.
//
// Unix-epoch helpers are deliberately absent. time.Unix, time.UnixMilli,
// time.UnixMicro and their method counterparts already cover those.
package ts

import (
	"math"
	"time"
)

const (
	// Seconds between 1601-01-01 and the Unix epoch.
	epochDelta1601 = 11_644_473_600
	// Seconds between 1582-10-15, the Gregorian reform, and the Unix epoch.
	epochDelta1582 = 12_219_292_800
	// Seconds between the Unix epoch and 2001-01-01, the Cocoa epoch.
	cocoaEpochDelta = 978_307_200
	// Days between 1899-12-30, the OLE Automation epoch, and the Unix epoch.
	oaEpochDays = 25_569

	ticksPerSecond = 10_000_000

	dosEpochYear = 1980
)

// WinTimestamp converts a Windows FILETIME value, the number of 100ns
// intervals since 1601-01-01, to UTC. The full tick precision is kept.
func WinTimestamp(ts uint64) time.Time {
	return time.Unix(int64(ts/ticksPerSecond)-epochDelta1601, int64(ts%ticksPerSecond)*100).UTC()
}

// WinTimestampSplit converts the dwLowDateTime and dwHighDateTime halves
// of an on-disk FILETIME structure.
func WinTimestampSplit(low, high uint32) time.Time {
	return WinTimestamp(uint64(high)<<32 | uint64(low))
}

// WebKitTimestamp converts a WebKit timestamp, microseconds since
// 1601-01-01, to UTC. Chrome history and cookie databases use this format.
func WebKitTimestamp(ts int64) time.Time {
	return time.UnixMicro(ts - epochDelta1601*1_000_000).UTC()
}

// CocoaTimestamp converts an Apple Cocoa Core Data timestamp, seconds
// since 2001-01-01, to UTC.
func CocoaTimestamp(ts float64) time.Time {
	return fromUnixFloat(ts + cocoaEpochDelta)
}

// OATimestamp converts an OLE Automation timestamp, fractional days since
// 1899-12-30, to UTC.
func OATimestamp(ts float64) time.Time {
	return fromUnixFloat((ts - oaEpochDays) * 86400)
}

// OATimestampBits converts an OLE Automation timestamp stored as the raw
// little-endian bit pattern of the double, the way OLE property sets and
// shell items serialize it.
func OATimestampBits(ts uint64) time.Time {
	return OATimestamp(math.Float64frombits(ts))
}

// UUID1Timestamp converts a version 1 UUID timestamp, the number of 100ns
// intervals since 1582-10-15, to UTC.
func UUID1Timestamp(ts uint64) time.Time {
	return time.Unix(int64(ts/ticksPerSecond)-epochDelta1582, int64(ts%ticksPerSecond)*100).UTC()
}

// XFSTimestamp converts an XFS inode timestamp, split into seconds since
// the Unix epoch and a nanoseconds component, to UTC.
func XFSTimestamp(seconds, nanoseconds int64) time.Time {
	return time.Unix(seconds, nanoseconds).UTC()
}

// UFSTimestamp converts a UFS inode timestamp, which shares the XFS
// seconds plus nanoseconds layout.
func UFSTimestamp(seconds, nanoseconds int64) time.Time {
	return XFSTimestamp(seconds, nanoseconds)
}

// DOSTimestamp converts a packed MS-DOS timestamp with the date word in
// the high 16 bits. Zero month or day fields clamp to 1; seconds have
// two-second granularity.
func DOSTimestamp(ts uint32) time.Time {
	return dosTime(ts, 0, false)
}

// DOSTimestampSwapped converts an MS-DOS timestamp stored with the time
// word in the high 16 bits instead.
func DOSTimestampSwapped(ts uint32) time.Time {
	return dosTime(ts, 0, true)
}

// ExFATTimestamp converts an exFAT timestamp together with its extra
// centiseconds component, which adds back the sub-two-second precision the
// DOS layout drops. Centiseconds run 0 to 199.
func ExFATTimestamp(ts uint32, centiseconds int) time.Time {
	return dosTime(ts, centiseconds, false)
}

// fromUnixFloat splits fractional Unix seconds into the integer and
// nanosecond components, rounding the fraction half away from zero.
func fromUnixFloat(sec float64) time.Time {
	whole, frac := math.Modf(sec)

	return time.Unix(int64(whole), int64(math.Round(frac*1e9))).UTC()
}

func dosTime(ts uint32, centiseconds int, swapped bool) time.Time {
	var year, month, day, hours, minutes, seconds int
	if swapped {
		year = int((ts>>9)&0x7F) + dosEpochYear
		month = int((ts >> 5) & 0x0F)
		day = int(ts & 0x1F)

		hours = int((ts >> 27) & 0x1F)
		minutes = int((ts >> 21) & 0x3F)
		seconds = int((ts>>16)&0x1F) * 2
	} else {
		year = int((ts>>25)&0x7F) + dosEpochYear
		month = int((ts >> 21) & 0x0F)
		day = int((ts >> 16) & 0x1F)

		hours = int((ts >> 11) & 0x1F)
		minutes = int((ts >> 5) & 0x3F)
		seconds = int(ts&0x1F) * 2
	}

	if month == 0 {
		month = 1
	}
	if day == 0 {
		day = 1
	}

	seconds += centiseconds / 100
	nanoseconds := (centiseconds % 100) * 10_000_000

	return time.Date(year, time.Month(month), day, hours, minutes, seconds, nanoseconds, time.UTC)
}
