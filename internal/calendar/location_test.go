package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLocation(t *testing.T) {
	loc, err := ResolveLocation("")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	loc, err = ResolveLocation("Local")
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	loc, err = ResolveLocation("America/New_York")
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", loc.String())

	_, err = ResolveLocation("Mars/Olympus_Mons")
	assert.Error(t, err)
}

func TestLocator(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	preferring := NewLocator(tokyo, true)
	assert.Equal(t, tokyo, preferring.For(""))
	assert.Equal(t, tokyo, preferring.For("not/a-zone"))
	assert.Equal(t, "Europe/Lisbon", preferring.For("Europe/Lisbon").String())

	fixed := NewLocator(tokyo, false)
	assert.Equal(t, tokyo, fixed.For("Europe/Lisbon"))
	assert.True(t, preferring.PrefersUser())
	assert.False(t, fixed.PrefersUser())

	assert.Equal(t, time.UTC, NewLocator(nil, false).Default())
}
