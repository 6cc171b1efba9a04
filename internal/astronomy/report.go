// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

package astronomy

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/samber/oops"
)

// Display layouts.
const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04:05"
	hourLayout  = "15:04"
	ampmLayout  = "03:04 PM"
)

// Report is a parsed astronomy response. Clock values carry only their
// time of day.
type Report struct {
	Location    string
	Date        time.Time
	CurrentTime time.Time
	Sunrise     time.Time
	Sunset      time.Time
	SolarNoon   time.Time
	DayLength   time.Duration
}

// Parse converts a Response into a Report.
func Parse(resp *Response) (*Report, error) {
	date, err := time.Parse(dateLayout, resp.Date)
	if err != nil {
		return nil, decodeError("date", resp.Date, err)
	}

	// Fractional seconds are dropped.
	current, _, _ := strings.Cut(resp.CurrentTime, ".")
	currentTime, err := time.Parse(clockLayout, current)
	if err != nil {
		return nil, decodeError("current_time", resp.CurrentTime, err)
	}

	sunrise, err := time.Parse(hourLayout, resp.Sunrise)
	if err != nil {
		return nil, decodeError("sunrise", resp.Sunrise, err)
	}
	sunset, err := time.Parse(hourLayout, resp.Sunset)
	if err != nil {
		return nil, decodeError("sunset", resp.Sunset, err)
	}
	solarNoon, err := time.Parse(hourLayout, resp.SolarNoon)
	if err != nil {
		return nil, decodeError("solar_noon", resp.SolarNoon, err)
	}

	dayLength, err := parseDayLength(resp.DayLength)
	if err != nil {
		return nil, decodeError("day_length", resp.DayLength, err)
	}

	return &Report{
		Location:    FormatLocation(resp.Location),
		Date:        date,
		CurrentTime: currentTime,
		Sunrise:     sunrise,
		Sunset:      sunset,
		SolarNoon:   solarNoon,
		DayLength:   dayLength,
	}, nil
}

// parseDayLength reads the hours and minutes of an "HH:MM[:SS]" value.
// Seconds are ignored.
func parseDayLength(s string) (time.Duration, error) {
	if len(s) < 5 || s[2] != ':' {
		return 0, oops.Errorf("want HH:MM, got %q", s)
	}
	hours, err := strconv.Atoi(s[:2])
	if err != nil {
		return 0, oops.Wrapf(err, "hours")
	}
	minutes, err := strconv.Atoi(s[3:5])
	if err != nil {
		return 0, oops.Wrapf(err, "minutes")
	}
	if hours < 0 || minutes < 0 {
		return 0, oops.Errorf("negative day length %q", s)
	}
	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute, nil
}

// FormatLocation renders "city, state, country", dropping an empty city.
func FormatLocation(l Location) string {
	if l.City == "" {
		return l.State + ", " + l.Country
	}
	return l.City + ", " + l.State + ", " + l.Country
}

// FormatDuration renders d as H:MM:SS, prefixed with whole days when d
// spans 24 hours or more.
func FormatDuration(d time.Duration) string {
	total := int64(d / time.Second)
	days := total / 86400
	rest := total % 86400
	clock := fmt.Sprintf("%d:%02d:%02d", rest/3600, rest%3600/60, rest%60)

	switch {
	case days == 1:
		return "1 day, " + clock
	case days > 1:
		return fmt.Sprintf("%d days, %s", days, clock)
	default:
		return clock
	}
}

// Render writes the report as it is shown after a lookup.
func (r *Report) Render(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"\nAstronomy data for %s:\nDate: %s\nCurrent Time: %s\nSunrise: %s\nSunset: %s\nSolar Noon: %s\nDay Length: %s\n",
		r.Location,
		r.Date.Format(dateLayout),
		r.CurrentTime.Format(clockLayout),
		r.Sunrise.Format(ampmLayout),
		r.Sunset.Format(ampmLayout),
		r.SolarNoon.Format(ampmLayout),
		FormatDuration(r.DayLength),
	)
	if err != nil {
		return oops.With("operation", "render report").Wrap(err)
	}
	return nil
}

func decodeError(field, value string, err error) error {
	return oops.Code(CodeLookupFailed).
		With("stage", StageDecode).
		With("field", field).
		With("value", value).
		Errorf("%s: %v", field, err)
}
