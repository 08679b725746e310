package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/leadscope/leadscope/internal/infra/queue"
)

// AnalyzeGermanUseCase queues a DACH classification pass over the
// selected leads.
type AnalyzeGermanUseCase struct {
	Queue    QueueProducerInterface
	Registry JobRegistryInterface
}

func NewAnalyzeGermanUseCase(producer QueueProducerInterface, registry JobRegistryInterface) *AnalyzeGermanUseCase {
	return &AnalyzeGermanUseCase{Queue: producer, Registry: registry}
}

func (uc *AnalyzeGermanUseCase) Execute(ctx context.Context, usernames []string) (string, error) {
	if err := ValidateUsernames(usernames); err != nil {
		return "", err
	}

	jobID := "german_" + uuid.New().String()
	uc.Registry.Create(jobID, "", "starting classification")

	err := uc.Queue.PublishJob(ctx, queue.JobPayload{
		JobID:     jobID,
		Kind:      queue.KindClassify,
		Usernames: usernames,
	})
	if err != nil {
		return "", &TechnicalError{Code: "QUEUE", Message: err.Error()}
	}
	return jobID, nil
}
