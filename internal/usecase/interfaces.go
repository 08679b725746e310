package usecase

import (
	"context"

	"github.com/leadscope/leadscope/internal/entity"
	"github.com/leadscope/leadscope/internal/infra/queue"
	"github.com/leadscope/leadscope/internal/infra/scrape"
)

type LeadRepositoryInterface interface {
	FindByPK(ctx context.Context, pk int64) (*entity.Lead, error)
	FindByUsername(ctx context.Context, username string) (*entity.Lead, error)
	Insert(ctx context.Context, lead *entity.Lead) error
}

type TargetRepositoryInterface interface {
	Upsert(ctx context.Context, username string) error
}

type ProfileFetcher interface {
	ProfileByUsername(ctx context.Context, username string) (scrape.Profile, error)
}

type QueueProducerInterface interface {
	PublishJob(ctx context.Context, payload queue.JobPayload) error
}

type JobRegistryInterface interface {
	Create(id, username, message string) entity.Job
}
