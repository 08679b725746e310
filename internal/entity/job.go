package entity

import "time"

// JobStatus is the lifecycle of one asynchronous backend operation.
type JobStatus string

const (
	JobStarting JobStatus = "starting"
	JobRunning  JobStatus = "running"
	JobFinished JobStatus = "finished"
	JobError    JobStatus = "error"
)

func (s JobStatus) Terminal() bool {
	return s == JobFinished || s == JobError
}

// Job tracks one scrape, sync or classification run. Found is
// monotonically non-decreasing while the job is running.
type Job struct {
	ID        string    `json:"job_id"`
	Username  string    `json:"username,omitempty"`
	Status    JobStatus `json:"status"`
	Found     int       `json:"found"`
	Total     int       `json:"total,omitempty"`
	Message   string    `json:"message"`
	StartTime time.Time `json:"start_time"`
}
