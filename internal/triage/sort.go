package triage

import (
	"sort"
	"strings"
	"time"

	"github.com/leadscope/leadscope/internal/entity"
)

type SortKey string

const (
	SortByUsername  SortKey = "username"
	SortByFollowers SortKey = "followersCount"
	SortByFoundDate SortKey = "foundDate"
)

func (k SortKey) Valid() bool {
	return k == SortByUsername || k == SortByFollowers || k == SortByFoundDate
}

type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// SortSpec is the operator's current ordering choice.
type SortSpec struct {
	Key       SortKey
	Direction SortDirection
}

// Toggle implements the header-click contract: same key flips the
// direction, a new key resets to ascending.
func (s SortSpec) Toggle(key SortKey) SortSpec {
	if s.Key == key && s.Direction == Ascending {
		return SortSpec{Key: key, Direction: Descending}
	}
	return SortSpec{Key: key, Direction: Ascending}
}

// Sort orders the filtered subset in place-copy and returns it. The
// sort is stable so equal keys keep their incoming order. On the
// unfiltered tab with the foundDate key, German-classified leads are
// forced ahead of everything else before the requested key applies.
func Sort(leads []entity.Lead, spec SortSpec, tab Tab) []entity.Lead {
	out := make([]entity.Lead, len(leads))
	copy(out, leads)

	germanFirst := tab == TabUnfiltered && spec.Key == SortByFoundDate

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]

		if germanFirst {
			aDE := a.German == entity.GermanYes
			bDE := b.German == entity.GermanYes
			if aDE != bDE {
				return aDE
			}
		}

		cmp := compare(a, b, spec.Key)
		if spec.Direction == Descending {
			return cmp > 0
		}
		return cmp < 0
	})
	return out
}

func compare(a, b entity.Lead, key SortKey) int {
	switch key {
	case SortByFollowers:
		return a.FollowersCount - b.FollowersCount
	case SortByFoundDate:
		return compareTime(a.FoundDate, b.FoundDate)
	default:
		return strings.Compare(strings.ToLower(a.Username), strings.ToLower(b.Username))
	}
}

// Missing timestamps order first ascending, like an empty string would.
func compareTime(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	case a.Before(*b):
		return -1
	case a.After(*b):
		return 1
	default:
		return 0
	}
}
