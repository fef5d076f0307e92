// Package timezone parses the timestamp formats travel providers send.
package timezone

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Fixed zones for the airports providers commonly report local times for.
// DST is ignored; providers that care send an explicit offset.
var (
	IST  = time.FixedZone("IST", 5*60*60+30*60) // UTC+5:30 - India
	GST  = time.FixedZone("GST", 4*60*60)       // UTC+4 - Gulf
	SGT  = time.FixedZone("SGT", 8*60*60)       // UTC+8 - Singapore
	WIB  = time.FixedZone("WIB", 7*60*60)       // UTC+7 - Western Indonesia
	WITA = time.FixedZone("WITA", 8*60*60)      // UTC+8 - Central Indonesia
	CET  = time.FixedZone("CET", 1*60*60)
	EST  = time.FixedZone("EST", -5*60*60)
	PST  = time.FixedZone("PST", -8*60*60)
)

var airportZones = map[string]*time.Location{
	// India
	"DEL": IST, // Delhi
	"BOM": IST, // Mumbai
	"BLR": IST, // Bengaluru
	"MAA": IST, // Chennai
	"CCU": IST, // Kolkata
	"HYD": IST, // Hyderabad
	"GOI": IST, // Goa - Dabolim
	"GOX": IST, // Goa - Mopa
	"JAI": IST, // Jaipur
	"COK": IST, // Kochi
	"PNQ": IST, // Pune
	"AMD": IST, // Ahmedabad
	"IXB": IST, // Bagdogra
	"DED": IST, // Dehradun

	"DXB": GST, // Dubai
	"AUH": GST, // Abu Dhabi
	"SIN": SGT, // Singapore
	"CGK": WIB, // Jakarta
	"DPS": WITA, // Bali

	"LHR": time.UTC, // London Heathrow
	"CDG": CET,      // Paris
	"FRA": CET,      // Frankfurt
	"AMS": CET,      // Amsterdam

	"NYC": EST, // New York, all airports
	"JFK": EST,
	"EWR": EST,
	"BOS": EST,
	"LAX": PST,
	"SFO": PST,
	"SEA": PST,
}

// LocationByAirport returns the zone of an IATA airport or city code.
func LocationByAirport(code string) (*time.Location, bool) {
	loc, ok := airportZones[strings.ToUpper(strings.TrimSpace(code))]
	return loc, ok
}

var ErrUnparseable = errors.New("unable to parse time string")

var offsetLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700", // Without colon
	"2006-01-02T15:04-07:00",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05Z07:00",
	time.RFC1123Z,
}

var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04",
}

// Parse reads text as a timestamp. Values without an offset are read in
// loc, or UTC when loc is nil. Numeric values are taken as Unix seconds, or
// milliseconds when they are too large to be seconds.
func Parse(text string, loc *time.Location) (time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, ErrUnparseable
	}

	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, nil
		}
	}

	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, text, loc); err == nil {
			return t, nil
		}
	}

	if n, err := strconv.ParseInt(text, 10, 64); err == nil && n > 0 {
		return FromUnix(n), nil
	}

	return time.Time{}, &time.ParseError{
		Value:   text,
		Message: ": " + ErrUnparseable.Error(),
	}
}

// FromUnix interprets n as seconds, or milliseconds past the year 2286.
func FromUnix(n int64) time.Time {
	if n > 1e10 {
		return time.UnixMilli(n).UTC()
	}
	return time.Unix(n, 0).UTC()
}

// Clock formats t as HH:MM.
func Clock(t time.Time) string {
	return t.Format("15:04")
}

// IsClock reports whether s is a bare HH:MM time of day.
func IsClock(s string) bool {
	_, err := time.Parse("15:04", strings.TrimSpace(s))
	return err == nil
}
