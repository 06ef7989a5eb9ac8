package utils

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSliceHelpers(t *testing.T) {
	nums := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{2, 4}, Filter(nums, func(n int) bool { return n%2 == 0 }))
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, Map(nums, func(n int) string { return strconv.Itoa(n) }))
	assert.Equal(t, 3, Count(nums, func(n int) bool { return n > 2 }))

	found := Find(nums, func(n int) bool { return n == 3 })
	if assert.NotNil(t, found) {
		*found = 30
	}
	assert.Equal(t, []int{1, 2, 30, 4, 5}, nums)
	assert.Nil(t, Find(nums, func(n int) bool { return n == 99 }))

	kept, removed := Remove(nums, func(n int) bool { return n > 3 })
	assert.Equal(t, []int{1, 2}, kept)
	assert.Equal(t, 3, removed)

	groups := GroupBy([]string{"apple", "avocado", "banana"}, func(s string) byte { return s[0] })
	assert.Len(t, groups['a'], 2)
	assert.Len(t, groups['b'], 1)
}

func TestContainsFold(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		fields   []string
		expected bool
	}{
		{name: "Empty query matches", query: "  ", fields: []string{"Alice"}, expected: true},
		{name: "Case insensitive", query: "ALI", fields: []string{"Alice"}, expected: true},
		{name: "Second field", query: "emp00", fields: []string{"Alice", "EMP001"}, expected: true},
		{name: "No match", query: "zed", fields: []string{"Alice", "EMP001"}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ContainsFold(tt.query, tt.fields...))
		})
	}
}

func TestDayBounds(t *testing.T) {
	brisbane := time.FixedZone("UTC+10", 10*60*60)
	// 20:00 UTC on the 1st is 06:00 on the 2nd in Brisbane
	instant := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)

	start, end := DayBounds(instant, brisbane)
	assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, brisbane), start)
	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, brisbane), end)

	assert.True(t, SameDay(instant, time.Date(2025, 3, 2, 23, 0, 0, 0, brisbane), brisbane))
	assert.False(t, SameDay(instant, time.Date(2025, 3, 1, 23, 0, 0, 0, brisbane), brisbane))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-02", time.UTC)
	assert.NoError(t, err)
	assert.Equal(t, MustParseDate("2025-03-02"), d)

	_, err = ParseDate("02/03/2025", time.UTC)
	assert.Error(t, err)
	assert.Panics(t, func() { MustParseDate("02/03/2025") })

	iso, err := ParseISOTime("2025-03-02T09:30:00Z")
	assert.NoError(t, err)
	assert.Equal(t, 9, iso.Hour())
}

func TestPtrDeref(t *testing.T) {
	assert.Equal(t, 5, Deref(Ptr(5)))
	var missing *string
	assert.Equal(t, "", Deref(missing))
}
