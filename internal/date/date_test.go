package date_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoinvoice/internal/date"
)

func TestParse(t *testing.T) {
	d, err := date.Parse("10/21/2017")
	require.NoError(t, err)
	assert.Equal(t, date.New(2017, time.October, 21), d)
	assert.Equal(t, "10/21/2017", d.String())
	assert.Equal(t, "2017-10-21", d.ISO())
	assert.Equal(t, "10/21/17", d.Short())
}

func TestParseInvalid(t *testing.T) {
	for _, s := range []string{"", "2017-10-21", "21/10/2017", "banana"} {
		_, err := date.Parse(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestParseISO(t *testing.T) {
	d, err := date.ParseISO("2024-02-05")
	require.NoError(t, err)
	assert.Equal(t, date.New(2024, time.February, 5), d)
}

func TestAddNormalizes(t *testing.T) {
	d := date.New(2024, time.January, 31)
	assert.Equal(t, date.New(2024, time.February, 1), d.Add(1))
	assert.Equal(t, date.New(2023, time.December, 31), d.Add(-31))

	// leap year
	assert.Equal(t, date.New(2024, time.February, 29), date.New(2024, time.February, 28).Add(1))
	assert.Equal(t, date.New(2023, time.March, 1), date.New(2023, time.February, 28).Add(1))
}

func TestOrdering(t *testing.T) {
	a := date.New(2024, time.January, 1)
	b := date.New(2024, time.January, 2)

	assert.True(t, b.After(a))
	assert.False(t, a.After(b))
	assert.False(t, a.After(a))
	assert.True(t, a.Before(b))
	assert.True(t, a.Equal(a))
}

func TestIsZero(t *testing.T) {
	var d date.Date
	assert.True(t, d.IsZero())
	assert.False(t, date.Today().IsZero())
}
