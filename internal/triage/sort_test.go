package triage_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/leadscope/leadscope/internal/entity"
	"github.com/leadscope/leadscope/internal/triage"
)

func day(n int) *time.Time {
	t := time.Date(2026, time.January, n, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestSortUsernameCaseInsensitive(t *testing.T) {
	leads := []entity.Lead{
		lead(1, "Zoe", entity.StatusNew),
		lead(2, "anna", entity.StatusNew),
		lead(3, "Mia", entity.StatusNew),
	}

	got := triage.Sort(leads, triage.SortSpec{Key: triage.SortByUsername, Direction: triage.Ascending}, triage.TabUnfiltered)
	assert.Equal(t, []int64{2, 3, 1}, pks(got))

	got = triage.Sort(leads, triage.SortSpec{Key: triage.SortByUsername, Direction: triage.Descending}, triage.TabUnfiltered)
	assert.Equal(t, []int64{1, 3, 2}, pks(got))
}

func TestSortIsStable(t *testing.T) {
	a := lead(1, "anna", entity.StatusNew)
	a.FollowersCount = 100
	b := lead(2, "bea", entity.StatusNew)
	b.FollowersCount = 100
	c := lead(3, "carl", entity.StatusNew)
	c.FollowersCount = 100

	got := triage.Sort([]entity.Lead{a, b, c}, triage.SortSpec{Key: triage.SortByFollowers, Direction: triage.Ascending}, triage.TabFavorites)
	assert.Equal(t, []int64{1, 2, 3}, pks(got))

	got = triage.Sort([]entity.Lead{a, b, c}, triage.SortSpec{Key: triage.SortByFollowers, Direction: triage.Descending}, triage.TabFavorites)
	assert.Equal(t, []int64{1, 2, 3}, pks(got))
}

func TestSortMissingDatesFirstAscending(t *testing.T) {
	a := lead(1, "anna", entity.StatusNew)
	a.FoundDate = day(10)
	b := lead(2, "bea", entity.StatusNew)
	c := lead(3, "carl", entity.StatusNew)
	c.FoundDate = day(5)

	got := triage.Sort([]entity.Lead{a, b, c}, triage.SortSpec{Key: triage.SortByFoundDate, Direction: triage.Ascending}, triage.TabFavorites)
	assert.Equal(t, []int64{2, 3, 1}, pks(got))

	got = triage.Sort([]entity.Lead{a, b, c}, triage.SortSpec{Key: triage.SortByFoundDate, Direction: triage.Descending}, triage.TabFavorites)
	assert.Equal(t, []int64{1, 3, 2}, pks(got))
}

func TestSortGermanFirstOnUnfilteredFoundDate(t *testing.T) {
	older := lead(1, "anna", entity.StatusNew)
	older.German = entity.GermanYes
	older.FoundDate = day(1)
	newer := lead(2, "bea", entity.StatusNew)
	newer.FoundDate = day(20)
	unscanned := lead(3, "carl", entity.StatusNew)
	unscanned.FoundDate = day(15)

	leads := []entity.Lead{newer, unscanned, older}

	// On the unfiltered tab the classified lead jumps ahead even though
	// its date would sort it last.
	got := triage.Sort(leads, triage.SortSpec{Key: triage.SortByFoundDate, Direction: triage.Descending}, triage.TabUnfiltered)
	assert.Equal(t, []int64{1, 2, 3}, pks(got))

	// Any other key, or any other tab, sorts purely by the key.
	got = triage.Sort(leads, triage.SortSpec{Key: triage.SortByFoundDate, Direction: triage.Descending}, triage.TabFavorites)
	assert.Equal(t, []int64{2, 3, 1}, pks(got))

	got = triage.Sort(leads, triage.SortSpec{Key: triage.SortByUsername, Direction: triage.Ascending}, triage.TabUnfiltered)
	assert.Equal(t, []int64{1, 2, 3}, pks(got))
}

func TestSortDoesNotMutateInput(t *testing.T) {
	leads := []entity.Lead{
		lead(2, "bea", entity.StatusNew),
		lead(1, "anna", entity.StatusNew),
	}

	triage.Sort(leads, triage.SortSpec{Key: triage.SortByUsername, Direction: triage.Ascending}, triage.TabUnfiltered)
	assert.Equal(t, []int64{2, 1}, pks(leads))
}

func TestSortSpecToggle(t *testing.T) {
	spec := triage.SortSpec{Key: triage.SortByFoundDate, Direction: triage.Descending}

	spec = spec.Toggle(triage.SortByUsername)
	assert.Equal(t, triage.SortSpec{Key: triage.SortByUsername, Direction: triage.Ascending}, spec)

	spec = spec.Toggle(triage.SortByUsername)
	assert.Equal(t, triage.SortSpec{Key: triage.SortByUsername, Direction: triage.Descending}, spec)

	spec = spec.Toggle(triage.SortByUsername)
	assert.Equal(t, triage.SortSpec{Key: triage.SortByUsername, Direction: triage.Ascending}, spec)

	spec = spec.Toggle(triage.SortByFollowers)
	assert.Equal(t, triage.SortSpec{Key: triage.SortByFollowers, Direction: triage.Ascending}, spec)
}
