package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusAt(t *testing.T) {
	day := func(h, m, s int) time.Time {
		return time.Date(2026, 1, 12, h, m, s, 0, time.UTC)
	}

	cases := []struct {
		name string
		at   time.Time
		want Status
	}{
		{"early", day(7, 45, 0), StatusPresent},
		{"09:29", day(9, 29, 0), StatusPresent},
		{"09:30 exactly", day(9, 30, 0), StatusPresent},
		{"09:30:59", day(9, 30, 59), StatusPresent},
		{"09:31", day(9, 31, 0), StatusLate},
		{"afternoon", day(13, 5, 0), StatusLate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusAt(tc.at))
		})
	}
}

func TestStatusAt_UsesLocalWallClock(t *testing.T) {
	wib := time.FixedZone("WIB", 7*3600)
	// 02:45 UTC is 09:45 in WIB.
	at := time.Date(2026, 1, 12, 2, 45, 0, 0, time.UTC).In(wib)
	assert.Equal(t, StatusLate, StatusAt(at))
}

func TestWorkHours(t *testing.T) {
	in := time.Date(2026, 1, 12, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		out  time.Time
		want string
	}{
		{in.Add(8*time.Hour + 30*time.Minute), "8.5"},
		{in.Add(20 * time.Minute), "0.33"},
		{in.Add(40 * time.Minute), "0.67"},
		{in.Add(7*time.Hour + 59*time.Minute + 59*time.Second), "8"},
		{in, "0"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, WorkHours(in, tc.out).String())
	}
}

func TestHistoryFilter_Validate(t *testing.T) {
	f := HistoryFilter{}
	assert.NoError(t, f.Validate())
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 30, f.Limit)

	start, end := "2026-01-10", "2026-01-01"
	f = HistoryFilter{StartDate: &start, EndDate: &end}
	assert.Error(t, f.Validate())

	bad := "10/01/2026"
	f = HistoryFilter{StartDate: &bad}
	assert.Error(t, f.Validate())
}
