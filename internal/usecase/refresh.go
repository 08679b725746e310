package usecase

import (
	"context"
	"log"

	"github.com/leadscope/leadscope/internal/dispatch"
	"github.com/leadscope/leadscope/internal/entity"
	"github.com/leadscope/leadscope/internal/store"
)

type LeadListerInterface interface {
	List(ctx context.Context) ([]entity.Lead, error)
}

type TargetListerInterface interface {
	List(ctx context.Context) ([]entity.Target, error)
}

// RefreshUseCase replaces the in-memory collection wholesale from the
// database. A refresh may overwrite optimistic changes the backend has
// not applied yet; that is the accepted consistency model. Known
// drifted pks are surfaced in the log before being dropped.
type RefreshUseCase struct {
	Leads      LeadListerInterface
	Targets    TargetListerInterface
	Store      *store.LeadStore
	Dispatcher *dispatch.Dispatcher
}

func NewRefreshUseCase(leads LeadListerInterface, targets TargetListerInterface, st *store.LeadStore, d *dispatch.Dispatcher) *RefreshUseCase {
	return &RefreshUseCase{Leads: leads, Targets: targets, Store: st, Dispatcher: d}
}

// Execute degrades to the stale collection on failure; the dashboard
// stays usable either way.
func (uc *RefreshUseCase) Execute(ctx context.Context) error {
	leads, err := uc.Leads.List(ctx)
	if err != nil {
		log.Printf("[refresh] leads: %v", err)
		return &TechnicalError{Code: "DB", Message: err.Error()}
	}
	targets, err := uc.Targets.List(ctx)
	if err != nil {
		log.Printf("[refresh] targets: %v", err)
		return &TechnicalError{Code: "DB", Message: err.Error()}
	}

	if uc.Dispatcher != nil {
		if drifted := uc.Dispatcher.Drifted(); len(drifted) > 0 {
			log.Printf("[refresh] dropping %d drifted optimistic changes: %v", len(drifted), drifted)
			uc.Dispatcher.ClearDrift()
		}
	}

	uc.Store.ReplaceAll(leads, targets)
	return nil
}
