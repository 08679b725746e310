package queue

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/leadscope/leadscope/internal/entity"
	"github.com/leadscope/leadscope/internal/infra/jobs"
)

// JobRunner executes the three job kinds. The scrape runner is the
// real implementation; tests swap in a fake.
type JobRunner interface {
	Scan(ctx context.Context, jobID, target string) error
	Sync(ctx context.Context, jobID string, usernames []string) error
	Classify(ctx context.Context, jobID string, usernames []string) error
}

// Notifier gets the final job record after a run. Optional.
type Notifier interface {
	SendJobReport(job entity.Job) error
}

type Worker struct {
	Channel  *amqp.Channel
	Runner   JobRunner
	Registry *jobs.Registry
	Notifier Notifier
}

func NewWorker(ch *amqp.Channel, runner JobRunner, registry *jobs.Registry, notifier Notifier) *Worker {
	return &Worker{Channel: ch, Runner: runner, Registry: registry, Notifier: notifier}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		log.Fatalf("[worker] consume: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload JobPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("[worker] bad payload: %s", err)
				// Malformed message, reject without requeue.
				d.Nack(false, false)
				continue
			}

			log.Printf("[worker] job %s kind=%s", payload.JobID, payload.Kind)

			if err := w.Dispatch(context.Background(), payload); err != nil {
				log.Printf("[worker] job %s failed: %s", payload.JobID, err)
				d.Nack(false, false)
			} else {
				d.Ack(false)
			}

			w.notify(payload.JobID)
		}
	}()

	log.Printf("[worker] waiting on queue %q", queueName)
	<-forever
}

// Dispatch routes one payload to the runner. Unknown kinds are dropped
// with an ack; there is nothing useful a retry could do with them.
func (w *Worker) Dispatch(ctx context.Context, payload JobPayload) error {
	switch payload.Kind {
	case KindScan:
		return w.Runner.Scan(ctx, payload.JobID, payload.Username)
	case KindSync:
		return w.Runner.Sync(ctx, payload.JobID, payload.Usernames)
	case KindClassify:
		return w.Runner.Classify(ctx, payload.JobID, payload.Usernames)
	default:
		log.Printf("[worker] unknown kind %q, dropping", payload.Kind)
		return nil
	}
}

func (w *Worker) notify(jobID string) {
	if w.Notifier == nil {
		return
	}
	job, ok := w.Registry.Get(jobID)
	if !ok || !job.Status.Terminal() {
		return
	}
	if err := w.Notifier.SendJobReport(job); err != nil {
		log.Printf("[worker] job report mail: %s", err)
	}
}
