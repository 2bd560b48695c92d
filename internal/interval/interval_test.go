package interval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(DBFormat, s)
	require.NoError(t, err)
	return ts.UTC()
}

func TestIsValid(t *testing.T) {
	start := at(t, "2023-08-07 10:00:00")

	assert.True(t, New(start, start.Add(time.Hour)).IsValid())
	assert.False(t, New(start, start).IsValid(), "empty interval is invalid")
	assert.False(t, New(start, start.Add(-time.Minute)).IsValid(), "backwards interval is invalid")
}

func TestOverlaps(t *testing.T) {
	a := New(at(t, "2023-08-07 10:00:00"), at(t, "2023-08-07 12:00:00"))

	cases := []struct {
		name string
		b    Interval
		want bool
	}{
		{"identical", a, true},
		{"partial tail", New(at(t, "2023-08-07 11:00:00"), at(t, "2023-08-07 13:00:00")), true},
		{"partial head", New(at(t, "2023-08-07 09:00:00"), at(t, "2023-08-07 11:00:00")), true},
		{"contained", New(at(t, "2023-08-07 10:30:00"), at(t, "2023-08-07 11:30:00")), true},
		{"surrounding", New(at(t, "2023-08-07 09:00:00"), at(t, "2023-08-07 13:00:00")), true},
		{"touching after", New(at(t, "2023-08-07 12:00:00"), at(t, "2023-08-07 14:00:00")), false},
		{"touching before", New(at(t, "2023-08-07 08:00:00"), at(t, "2023-08-07 10:00:00")), false},
		{"disjoint", New(at(t, "2023-08-08 10:00:00"), at(t, "2023-08-08 12:00:00")), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, a.Overlaps(tc.b))
			assert.Equal(t, tc.want, tc.b.Overlaps(a), "Overlaps must be symmetric")
		})
	}
}

func TestContains(t *testing.T) {
	iv := New(at(t, "2023-08-07 10:00:00"), at(t, "2023-08-07 12:00:00"))

	assert.True(t, iv.Contains(at(t, "2023-08-07 10:00:00")), "start bound is included")
	assert.True(t, iv.Contains(at(t, "2023-08-07 11:00:00")))
	assert.False(t, iv.Contains(at(t, "2023-08-07 12:00:00")), "end bound is excluded")
	assert.False(t, iv.Contains(at(t, "2023-08-07 09:59:59")))
}

func TestParseTime(t *testing.T) {
	want := at(t, "2023-08-07 10:00:00")

	got, err := ParseTime("2023-08-07 10:00:00")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = ParseTime("2023-08-07T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = ParseTime("2023-08-7 10:00")
	assert.ErrorIs(t, err, ErrMalformedTime)
	_, err = ParseTime("")
	assert.ErrorIs(t, err, ErrMalformedTime)
}

func TestNewNormalizesZone(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	iv := New(time.Date(2023, 8, 7, 13, 0, 0, 500, loc), time.Date(2023, 8, 7, 15, 0, 0, 0, loc))

	assert.Equal(t, at(t, "2023-08-07 10:00:00"), iv.Start)
	assert.Equal(t, at(t, "2023-08-07 12:00:00"), iv.End)
	assert.Equal(t, "2023-08-07 10:00:00", FormatDB(iv.Start))
}
