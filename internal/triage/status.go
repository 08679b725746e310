package triage

import "github.com/leadscope/leadscope/internal/entity"

// The classification machine is deliberately permissive: any status may
// be set from any other status, and re-setting the current status is a
// no-op that still counts as success. Workflow enforcement is not its
// job; durability is the dispatcher's.

// Transition returns the status a lead ends up in when the operator
// sets it to next. Invalid targets leave the lead untouched.
func Transition(current, next entity.Status) entity.Status {
	if !next.Valid() {
		return current
	}
	return next
}

// ToggleFavorite flips a lead in and out of the favorites view.
// favorite -> active, anything else -> favorite.
func ToggleFavorite(current entity.Status) entity.Status {
	if current == entity.StatusFavorite {
		return entity.StatusActive
	}
	return entity.StatusFavorite
}

// ToggleHidden flips a lead in and out of the hidden view.
// hidden -> active, anything else -> hidden.
func ToggleHidden(current entity.Status) entity.Status {
	if current == entity.StatusHidden {
		return entity.StatusActive
	}
	return entity.StatusHidden
}

// ToggleFlagged flips the non-target-language flag.
// eng -> active, anything else -> eng.
func ToggleFlagged(current entity.Status) entity.Status {
	if current == entity.StatusEng {
		return entity.StatusActive
	}
	return entity.StatusEng
}
