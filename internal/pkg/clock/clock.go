package clock

import "time"

// Clock supplies the current time in the zone used for attendance dates.
type Clock interface {
	Now() time.Time
}

type systemClock struct {
	loc *time.Location
}

// New returns a wall clock reporting times in loc.
func New(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return systemClock{loc: loc}
}

func (c systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// Func adapts a plain function to Clock.
type Func func() time.Time

func (f Func) Now() time.Time {
	return f()
}

// DateOf truncates t to midnight in t's location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WeekBounds returns Monday and Sunday of the week containing t.
func WeekBounds(t time.Time) (time.Time, time.Time) {
	day := DateOf(t)
	offset := (int(day.Weekday()) + 6) % 7
	monday := day.AddDate(0, 0, -offset)
	return monday, monday.AddDate(0, 0, 6)
}
