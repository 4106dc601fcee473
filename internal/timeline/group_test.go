package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stamped struct {
	id string
	at time.Time
}

func TestGroupByDayPartitionsContiguousDays(t *testing.T) {
	day1 := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	items := []stamped{
		{id: "m1", at: day1},
		{id: "m2", at: day1.Add(time.Hour)},
		{id: "m3", at: day1.AddDate(0, 0, 1)},
	}

	groups := GroupByDay(items, func(s stamped) time.Time { return s.at }, day1.AddDate(0, 0, 1))

	require.Len(t, groups, 2)
	assert.Len(t, groups[0].Items, 2)
	assert.Len(t, groups[1].Items, 1)

	// Order preserved across and within groups.
	assert.Equal(t, "m1", groups[0].Items[0].id)
	assert.Equal(t, "m2", groups[0].Items[1].id)
	assert.Equal(t, "m3", groups[1].Items[0].id)
}

func TestGroupByDayLabels(t *testing.T) {
	now := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)
	items := []stamped{
		{id: "old", at: now.AddDate(0, 0, -5)},
		{id: "yday", at: now.AddDate(0, 0, -1)},
		{id: "today", at: now.Add(-time.Hour)},
	}

	groups := GroupByDay(items, func(s stamped) time.Time { return s.at }, now)

	require.Len(t, groups, 3)
	assert.Equal(t, "March 7, 2025", groups[0].Label)
	assert.Equal(t, "Yesterday", groups[1].Label)
	assert.Equal(t, "Today", groups[2].Label)
}

func TestGroupByDayEmptyInput(t *testing.T) {
	groups := GroupByDay(nil, func(s stamped) time.Time { return s.at }, time.Now())
	assert.Empty(t, groups)
}

func TestSameDayBoundary(t *testing.T) {
	justBeforeMidnight := time.Date(2025, 3, 10, 23, 59, 59, 0, time.UTC)
	justAfterMidnight := time.Date(2025, 3, 11, 0, 0, 1, 0, time.UTC)
	assert.False(t, SameDay(justBeforeMidnight, justAfterMidnight))
	assert.True(t, SameDay(justBeforeMidnight, justBeforeMidnight.Add(-23*time.Hour)))
}
