package usecase

import (
	"context"
	"strings"

	"github.com/leadscope/leadscope/internal/infra/queue"
)

// StartScrapeUseCase registers a target and kicks off the scan job for
// it. The job is keyed by the target's username so the dashboard can
// poll it right away.
type StartScrapeUseCase struct {
	Targets  TargetRepositoryInterface
	Queue    QueueProducerInterface
	Registry JobRegistryInterface
}

func NewStartScrapeUseCase(targets TargetRepositoryInterface, producer QueueProducerInterface, registry JobRegistryInterface) *StartScrapeUseCase {
	return &StartScrapeUseCase{Targets: targets, Queue: producer, Registry: registry}
}

func (uc *StartScrapeUseCase) Execute(ctx context.Context, username string) (string, error) {
	username = strings.TrimSpace(username)
	if err := ValidateUsername(username); err != nil {
		return "", err
	}

	if err := uc.Targets.Upsert(ctx, username); err != nil {
		return "", &TechnicalError{Code: "DB", Message: err.Error()}
	}

	uc.Registry.Create(username, username, "initializing")

	err := uc.Queue.PublishJob(ctx, queue.JobPayload{
		JobID:    username,
		Kind:     queue.KindScan,
		Username: username,
	})
	if err != nil {
		return "", &TechnicalError{Code: "QUEUE", Message: err.Error()}
	}
	return username, nil
}
