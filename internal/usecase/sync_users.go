package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/leadscope/leadscope/internal/infra/queue"
)

// SyncUsersUseCase re-scrapes a selected set of leads. Always returns
// a job id to poll; there is no synchronous path.
type SyncUsersUseCase struct {
	Queue    QueueProducerInterface
	Registry JobRegistryInterface
}

func NewSyncUsersUseCase(producer QueueProducerInterface, registry JobRegistryInterface) *SyncUsersUseCase {
	return &SyncUsersUseCase{Queue: producer, Registry: registry}
}

func (uc *SyncUsersUseCase) Execute(ctx context.Context, usernames []string) (string, error) {
	if err := ValidateUsernames(usernames); err != nil {
		return "", err
	}

	jobID := "sync_" + uuid.New().String()
	uc.Registry.Create(jobID, "", "starting sync")

	err := uc.Queue.PublishJob(ctx, queue.JobPayload{
		JobID:     jobID,
		Kind:      queue.KindSync,
		Usernames: usernames,
	})
	if err != nil {
		return "", &TechnicalError{Code: "QUEUE", Message: err.Error()}
	}
	return jobID, nil
}
