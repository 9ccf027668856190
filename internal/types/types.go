package types

import "time"

// Unix timestamp at millisecond resolution.
type UnixMilli int64

func NewUnixMilli(t time.Time) UnixMilli {
	return UnixMilli(t.UTC().UnixMilli())
}

func (m UnixMilli) Time() time.Time {
	return time.UnixMilli(int64(m)).UTC()
}
