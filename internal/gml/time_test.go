package gml

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	t0 = time.Date(2012, 11, 19, 13, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Hour)
	t2 = t1.Add(time.Hour)
)

func TestParseTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    Time
		wantErr bool
	}{
		{name: "instant", in: "2012-11-19T13:00:00Z", want: NewTimeInstant(t0)},
		{name: "instant with millis", in: "2012-11-19T13:00:00.000Z", want: NewTimeInstant(t0)},
		{name: "period", in: "2012-11-19T13:00:00Z/2012-11-19T14:00:00Z", want: NewTimePeriod(t0, t1)},
		{name: "unknown", in: "unknown", want: TimeInstant{Indeterminate: IndeterminateUnknown}},
		{name: "garbage", in: "yesterday", wantErr: true},
		{name: "bad period end", in: "2012-11-19T13:00:00Z/x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseTime(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidTime))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseInstant_Now(t *testing.T) {
	t.Parallel()

	got, err := ParseInstant("now")
	require.NoError(t, err)
	assert.Equal(t, IndeterminateNow, got.Indeterminate)
	assert.False(t, got.Value.IsZero())
}

func TestTimeInstant_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2012-11-19T13:00:00.000Z", NewTimeInstant(t0).String())
	assert.Equal(t, "unknown", TimeInstant{Indeterminate: IndeterminateUnknown}.String())
	assert.False(t, TimeInstant{}.IsSet())
}

func TestTimePeriod_Extend(t *testing.T) {
	t.Parallel()

	var p TimePeriod
	assert.False(t, p.IsSet())

	p.Extend(NewTimeInstant(t1))
	assert.Equal(t, NewTimePeriod(t1, t1), p)

	p.Extend(NewTimePeriod(t0, t2))
	assert.Equal(t, NewTimePeriod(t0, t2), p)

	p.Extend(nil)
	assert.Equal(t, NewTimePeriod(t0, t2), p)
}

func TestTimePeriod_ContainsAndOverlaps(t *testing.T) {
	t.Parallel()

	p := NewTimePeriod(t0, t1)

	assert.True(t, p.Contains(NewTimeInstant(t0)))
	assert.True(t, p.Contains(NewTimeInstant(t1)))
	assert.False(t, p.Contains(NewTimeInstant(t2)))
	assert.False(t, p.Contains(TimeInstant{}))

	assert.True(t, p.Overlaps(NewTimePeriod(t1, t2)))
	assert.False(t, p.Overlaps(NewTimeInstant(t2)))
	assert.False(t, NewTimePeriod(t1, t2).Overlaps(NewTimeInstant(t0)))
}
