package types

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeString_On(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		name string
		date time.Time
		at   TimeString
		want time.Time
	}{
		{
			name: "regular day",
			date: time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
			at:   "18:30",
			want: time.Date(2026, 3, 4, 18, 30, 0, 0, newYork),
		},
		{
			name: "spring forward",
			date: time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
			at:   "03:30",
			want: time.Date(2026, 3, 8, 3, 30, 0, 0, newYork),
		},
		{
			name: "fall back",
			date: time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
			at:   "18:00",
			want: time.Date(2026, 11, 1, 18, 0, 0, 0, newYork),
		},
		{
			name: "end of day",
			date: time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
			at:   "24:00",
			want: time.Date(2026, 3, 9, 0, 0, 0, 0, newYork),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.at.On(tt.date, newYork)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)

			hour, minute, _ := got.Clock()
			if tt.at != endOfDayString {
				assert.Equal(t, string(tt.at), time.Date(0, 1, 1, hour, minute, 0, 0, time.UTC).Format(timeLayout))
			}
		})
	}
}

func TestTimeString_OnDefaultsToUTC(t *testing.T) {
	got, err := TimeString("09:15").On(time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 4, 9, 15, 0, 0, time.UTC), got)
}

func TestTimeString_Validate(t *testing.T) {
	assert.NoError(t, TimeString("07:05").Validate())
	assert.NoError(t, TimeString("24:00").Validate())
	assert.ErrorIs(t, TimeString("").Validate(), ErrInvalidTimeString)
	assert.Error(t, TimeString("7h").Validate())

	_, err := TimeString("bad").On(time.Now(), time.UTC)
	assert.Error(t, err)
}
