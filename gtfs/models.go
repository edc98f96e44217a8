package gtfs

import "time"

// Stop is one row of stops.txt.
type Stop struct {
	ID        string  `csv:"stop_id"`
	Code      string  `csv:"stop_code"`
	Name      string  `csv:"stop_name"`
	Latitude  float64 `csv:"stop_lat"`
	Longitude float64 `csv:"stop_lon"`
}

// Route is one row of routes.txt. Type is the GTFS route_type mode code.
type Route struct {
	ID        string `csv:"route_id"`
	AgencyID  string `csv:"agency_id"`
	ShortName string `csv:"route_short_name"`
	LongName  string `csv:"route_long_name"`
	Type      int    `csv:"route_type"`
}

// Trip is one row of trips.txt.
type Trip struct {
	RouteID   string `csv:"route_id"`
	ServiceID string `csv:"service_id"`
	ID        string `csv:"trip_id"`
	Headsign  string `csv:"trip_headsign"`
	ShapeID   string `csv:"shape_id"`
}

// StopTime is one row of stop_times.txt, ordered within a trip by Sequence.
type StopTime struct {
	TripID    string    `csv:"trip_id"`
	Arrival   TimeOfDay `csv:"arrival_time"`
	Departure TimeOfDay `csv:"departure_time"`
	StopID    string    `csv:"stop_id"`
	Sequence  int       `csv:"stop_sequence"`
}

// Calendar is one weekly-pattern row of calendar.txt. StartDate and EndDate
// form a closed interval.
type Calendar struct {
	ServiceID string `csv:"service_id"`
	Monday    int    `csv:"monday"`
	Tuesday   int    `csv:"tuesday"`
	Wednesday int    `csv:"wednesday"`
	Thursday  int    `csv:"thursday"`
	Friday    int    `csv:"friday"`
	Saturday  int    `csv:"saturday"`
	Sunday    int    `csv:"sunday"`
	StartDate Date   `csv:"start_date"`
	EndDate   Date   `csv:"end_date"`
}

// RunsOn reports whether the weekly pattern has the flag set for a weekday.
func (c Calendar) RunsOn(day time.Weekday) bool {
	switch day {
	case time.Monday:
		return c.Monday == 1
	case time.Tuesday:
		return c.Tuesday == 1
	case time.Wednesday:
		return c.Wednesday == 1
	case time.Thursday:
		return c.Thursday == 1
	case time.Friday:
		return c.Friday == 1
	case time.Saturday:
		return c.Saturday == 1
	default:
		return c.Sunday == 1
	}
}

// Covers reports whether a date falls inside the closed [StartDate, EndDate]
// range.
func (c Calendar) Covers(d Date) bool {
	return !d.Before(c.StartDate.Time) && !d.After(c.EndDate.Time)
}

// Calendar date exception kinds.
const (
	ExceptionAdd    = 1
	ExceptionRemove = 2
)

// CalendarDate is one exception row of calendar_dates.txt.
type CalendarDate struct {
	ServiceID     string `csv:"service_id"`
	Date          Date   `csv:"date"`
	ExceptionType int    `csv:"exception_type"`
}

// ShapePoint is one row of shapes.txt.
type ShapePoint struct {
	ShapeID   string  `csv:"shape_id"`
	Latitude  float64 `csv:"shape_pt_lat"`
	Longitude float64 `csv:"shape_pt_lon"`
	Sequence  int     `csv:"shape_pt_sequence"`
}
