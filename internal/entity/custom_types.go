package entity

import (
	"bytes"
	"fmt"
	"time"
)

// DateTime accepts both RFC 3339 timestamps and the zone-less
// "2006-01-02T15:04:05" form the frontend sends; zone-less values are UTC.
type DateTime struct {
	time.Time
}

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func (dt *DateTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("date must be a string, got %s", b)
	}
	s := string(b[1 : len(b)-1])
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			dt.Time = t
			return nil
		}
	}
	return fmt.Errorf("cannot parse %q as a date", s)
}

func (dt DateTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + dt.Format(time.RFC3339) + `"`), nil
}
