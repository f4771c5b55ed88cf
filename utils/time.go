package utils

import (
	"time"
)

// UTCNow returns the current time in UTC
func UTCNow() time.Time {
	return time.Now().UTC()
}

// UTCNowPtr returns a pointer to the current time in UTC
func UTCNowPtr() *time.Time {
	now := UTCNow()
	return &now
}

// UTCNowAdd returns the current UTC time plus the given duration
func UTCNowAdd(d time.Duration) time.Time {
	return UTCNow().Add(d)
}

// UTCNowRFC3339 returns the current UTC time in RFC3339 format
func UTCNowRFC3339() string {
	return UTCNow().Format(time.RFC3339)
}

// RiyadhLocation returns the Asia/Riyadh timezone used for customer-facing
// timestamps. Falls back to a fixed +03:00 offset when the tz database is
// not available in the runtime image.
func RiyadhLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Riyadh")
	if err != nil {
		return time.FixedZone("AST", 3*60*60)
	}
	return loc
}

// RiyadhNow returns the current time in the Asia/Riyadh timezone.
func RiyadhNow() time.Time {
	return time.Now().In(RiyadhLocation())
}
