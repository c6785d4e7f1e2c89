package id

import (
	"sort"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsSortable(t *testing.T) {
	ids := make([]string, 100)
	for i := range ids {
		ids[i] = New()
	}

	assert.True(t, sort.StringsAreSorted(ids))
	for _, s := range ids {
		assert.Len(t, s, 26)
	}
}

func TestNewAtCarriesTimestamp(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	u, err := ulid.ParseStrict(newAt(at))
	require.NoError(t, err)
	assert.Equal(t, at, ulid.Time(u.Time()).UTC())
}
