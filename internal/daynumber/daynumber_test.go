package daynumber

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

var reference = time.Date(2019, 2, 14, 0, 0, 0, 0, time.UTC)

func TestDay(t *testing.T) {
	tests := []struct {
		name     string
		date     time.Time
		expected int
	}{
		{
			name:     "reference date is day 1",
			date:     reference,
			expected: 1,
		},
		{
			name:     "day before reference is day 0",
			date:     reference.AddDate(0, 0, -1),
			expected: 0,
		},
		{
			name:     "day after reference is day 2",
			date:     reference.AddDate(0, 0, 1),
			expected: 2,
		},
		{
			name:     "one year later",
			date:     time.Date(2020, 2, 14, 0, 0, 0, 0, time.UTC),
			expected: 366,
		},
		{
			name:     "time of day is ignored",
			date:     time.Date(2019, 2, 15, 23, 59, 59, 0, time.UTC),
			expected: 2,
		},
		{
			name:     "reference just before midnight still day 1",
			date:     time.Date(2019, 2, 14, 23, 59, 0, 0, time.UTC),
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Day(tt.date, reference))
		})
	}
}

func TestDayAcrossTimezones(t *testing.T) {
	saoPaulo, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Fatal(err)
	}

	// 23:30 local on the 14th must not bleed into the 15th
	date := time.Date(2019, 2, 14, 23, 30, 0, 0, saoPaulo)
	assert.Equal(t, 1, Day(date, reference))
}

// Day numbers must grow by exactly 1 per calendar day, whatever the
// time-of-day component of either endpoint.
func TestDayMonotonicStep(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	genDate := gopter.CombineGens(
		gen.Int64Range(0, 4_000).Map(func(days int64) time.Time {
			return reference.AddDate(0, 0, int(days)-2_000)
		}),
		gen.IntRange(0, 23),
		gen.IntRange(0, 59),
	).Map(func(vals []interface{}) time.Time {
		d := vals[0].(time.Time)
		return time.Date(d.Year(), d.Month(), d.Day(), vals[1].(int), vals[2].(int), 0, 0, time.UTC)
	})

	properties.Property("next calendar day increments by exactly 1", prop.ForAll(
		func(d time.Time) bool {
			return Day(d.AddDate(0, 0, 1), reference) == Day(d, reference)+1
		},
		genDate,
	))

	properties.TestingRun(t)
}
