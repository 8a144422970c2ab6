package extension

import (
	"fmt"
	"net/mail"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
)

// Keys of the standard extension fields that hold timestamps.
const (
	ReceiptTime       = "rt"
	StartTime         = "start"
	EndTime           = "end"
	DeviceReceiptTime = "deviceReceiptTime"
	AgentReceiptTime  = "art"
)

// TimeKeys lists the standard extension keys whose values are timestamps.
var TimeKeys = []string{ReceiptTime, StartTime, EndTime, DeviceReceiptTime, AgentReceiptTime}

// IsTimeKey returns true if key is one of TimeKeys.
func IsTimeKey(key string) bool {
	for _, k := range TimeKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Even more custom date formats, built from those seen in device logs that the
// usual parsers have trouble with.
const (
	// SyslogDateWithYear is the BSD syslog stamp with the year tacked on.
	SyslogDateWithYear = "Jan _2 2006 15:04:05"
)

// ParseTime parses a timestamp in whatever form a device might have reported
// it. Epoch milliseconds are tried first, since that is what CEF itself uses,
// then RFC 5322, then the many layouts dateparse recognizes. A timestamp
// without a zone is taken to be UTC.
func ParseTime(s string) (time.Time, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}

	t, err := mail.ParseDate(s)
	if err == nil {
		return t, nil
	}

	t, err = dateparse.ParseIn(s, time.UTC)
	if err == nil {
		return t, nil
	}

	t, err = time.Parse(SyslogDateWithYear, s)
	if err == nil {
		return t, nil
	}

	return t, fmt.Errorf("time string %q cannot be parsed", s)
}

// FormatTime renders t as milliseconds since the epoch.
func FormatTime(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

// SetTime sets key to t formatted with FormatTime.
func (e *Extension) SetTime(key string, t time.Time) error {
	return e.Set(key, FormatTime(t))
}

// GetTime parses the value of key with ParseTime.
func (e *Extension) GetTime(key string) (time.Time, error) {
	v, err := e.Get(key)
	if err != nil {
		return time.Time{}, err
	}
	return ParseTime(v)
}
